package tui

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/csheth/indicure/internal/export"
	"github.com/csheth/indicure/internal/workflow"
)

// runSequence executes the commands inside a tea.Sequence in order.
func runSequence(t *testing.T, cmd tea.Cmd) []tea.Msg {
	t.Helper()
	msg := cmd()
	v := reflect.ValueOf(msg)
	if v.Kind() != reflect.Slice {
		return []tea.Msg{msg}
	}
	var msgs []tea.Msg
	for i := 0; i < v.Len(); i++ {
		inner, ok := v.Index(i).Interface().(tea.Cmd)
		if !ok || inner == nil {
			continue
		}
		msgs = append(msgs, inner())
	}
	return msgs
}

func TestJobBusSignalsThenDelivers(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	bus := newJobBus(zap.New(core))

	msgs := runSequence(t, bus.Start(jobKindExport, func(context.Context) (tea.Msg, error) {
		return "payload", nil
	}))
	if len(msgs) != 2 {
		t.Fatalf("expected start and result messages, got %d", len(msgs))
	}
	signal, ok := msgs[0].(jobSignalMsg)
	if !ok || signal.Snapshot.Status != jobStatusRunning || signal.Snapshot.ID != "export-1" {
		t.Fatalf("unexpected start message %#v", msgs[0])
	}
	result, ok := msgs[1].(jobResultEnvelope)
	if !ok {
		t.Fatalf("expected jobResultEnvelope, got %T", msgs[1])
	}
	if result.Snapshot.Status != jobStatusSucceeded || result.Payload != "payload" {
		t.Fatalf("unexpected result %#v", result)
	}
	if got := logs.FilterMessage("export succeeded").Len(); got != 1 {
		t.Fatalf("expected one success log, got %d", got)
	}
}

func TestJobBusRecordsFailure(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	bus := newJobBus(zap.New(core))
	bus.nextID(jobKindExport)

	msgs := runSequence(t, bus.Start(jobKindExport, func(context.Context) (tea.Msg, error) {
		return nil, errors.New("backend down")
	}))
	result := msgs[len(msgs)-1].(jobResultEnvelope)
	if result.Snapshot.ID != "export-2" {
		t.Fatalf("job ids should increase, got %s", result.Snapshot.ID)
	}
	if result.Snapshot.Status != jobStatusFailed || result.Snapshot.Err != "backend down" {
		t.Fatalf("unexpected snapshot %#v", result.Snapshot)
	}
	entries := logs.FilterMessage("export failed").All()
	if len(entries) != 1 || entries[0].ContextMap()["error"] != "backend down" {
		t.Fatalf("failure should be logged with its cause, got %+v", entries)
	}
}

type deadlineExporter struct {
	deadline time.Time
	ok       bool
}

func (d *deadlineExporter) Export(ctx context.Context, cfg workflow.RunConfig, dir string) (export.Result, error) {
	d.deadline, d.ok = ctx.Deadline()
	return export.Result{Path: dir + "/" + export.FileName(cfg)}, nil
}

func TestExportReportJobBoundsTheRequest(t *testing.T) {
	exporter := &deadlineExporter{}
	cfg := workflow.RunConfig{Mode: workflow.ModeMarket, Geography: workflow.GeographyIndia}
	start := time.Now()

	msg, err := exportReportJob(exporter, cfg, "/exports", 0)(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !exporter.ok {
		t.Fatal("export should run under a deadline")
	}
	if remaining := exporter.deadline.Sub(start); remaining > defaultExportTimeout+time.Second {
		t.Fatalf("default timeout not applied, deadline in %s", remaining)
	}
	result, ok := msg.(exportResultMsg)
	if !ok || result.result.Path != "/exports/IndiCure_Ranolazine_HFpEF_India_Market.pdf" || result.cfg != cfg {
		t.Fatalf("unexpected payload %#v", msg)
	}
}
