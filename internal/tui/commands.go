package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/csheth/indicure/internal/export"
	"github.com/csheth/indicure/internal/workflow"
)

// Exporter downloads the report for a run configuration into dir.
type Exporter interface {
	Export(ctx context.Context, cfg workflow.RunConfig, dir string) (export.Result, error)
}

const defaultExportTimeout = 45 * time.Second

type exportResultMsg struct {
	cfg    workflow.RunConfig
	result export.Result
	err    error
}

func exportReportJob(exporter Exporter, cfg workflow.RunConfig, dir string, timeout time.Duration) jobRunner {
	if timeout <= 0 {
		timeout = defaultExportTimeout
	}
	return func(parent context.Context) (tea.Msg, error) {
		ctx, cancel := context.WithTimeout(parent, timeout)
		defer cancel()
		res, err := exporter.Export(ctx, cfg, dir)
		return exportResultMsg{cfg: cfg, result: res, err: err}, err
	}
}
