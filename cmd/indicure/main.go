package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/csheth/indicure/internal/config"
	"github.com/csheth/indicure/internal/export"
	"github.com/csheth/indicure/internal/logger"
	"github.com/csheth/indicure/internal/tui"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("failed to load config:", err)
		os.Exit(1)
	}

	apiURL := flag.String("api", cfg.API.BaseURL, "report API base URL")
	exportDir := flag.String("export-dir", cfg.Export.Dir, "directory downloaded PDFs are saved to")
	logPath := flag.String("log", cfg.Log.Path, "debug log file")
	noAltScreen := flag.Bool("no-alt-screen", !cfg.UI.AltScreen, "disable the alternate screen buffer")
	noMouse := flag.Bool("no-mouse", !cfg.UI.Mouse, "disable mouse input")
	flag.Parse()

	level, _ := cfg.Log.ZapLevel()
	log, closeLog, err := logger.NewFile(*logPath, level)
	if err != nil {
		fmt.Println("failed to open debug log:", err)
		os.Exit(1)
	}
	defer func() { _ = closeLog() }()

	retry := export.DefaultRetryConfig()
	retry.MaxRetries = cfg.API.Retries
	client := export.NewClient(*apiURL,
		export.WithHTTPClient(&http.Client{Timeout: cfg.API.Timeout}),
		export.WithRetry(retry),
		export.WithLogger(log.Named("export")),
	)
	log.Info("starting",
		zap.String("api", client.BaseURL()),
		zap.String("export_dir", *exportDir),
	)

	opts := []tea.ProgramOption{}
	if !*noAltScreen {
		opts = append(opts, tea.WithAltScreen())
	}
	if !*noMouse {
		opts = append(opts, tea.WithMouseCellMotion())
	}
	program := tea.NewProgram(
		tui.New(tui.Config{
			Exporter:  client,
			ExportDir: *exportDir,
			Logger:    log,
		}),
		opts...,
	)

	if _, err := program.Run(); err != nil {
		log.Error("program error", zap.Error(err))
		fmt.Println("program error:", err)
		_ = closeLog()
		os.Exit(1)
	}
}
