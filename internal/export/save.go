package export

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ledongthuc/pdf"
	"go.uber.org/zap"

	"github.com/csheth/indicure/internal/workflow"
)

const partialSuffix = ".part"

// Result describes a saved export.
type Result struct {
	Path  string
	Bytes int
	// Pages is zero when the saved file could not be inspected.
	Pages int
}

// Save writes data to dir/name through a partial file so readers never see a
// half-written PDF.
func Save(dir, name string, data []byte) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}
	final := filepath.Join(dir, filepath.Base(name))
	partial := final + partialSuffix

	file, err := os.OpenFile(partial, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return "", err
	}
	if _, err := file.Write(data); err != nil {
		file.Close()
		os.Remove(partial)
		return "", err
	}
	if err := file.Close(); err != nil {
		os.Remove(partial)
		return "", err
	}
	if err := os.Rename(partial, final); err != nil {
		os.Remove(partial)
		return "", err
	}
	return final, nil
}

// Inspect returns the page count of a PDF document.
func Inspect(data []byte) (pages int, err error) {
	defer func() {
		if r := recover(); r != nil {
			pages, err = 0, fmt.Errorf("inspect pdf: %v", r)
		}
	}()
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return 0, fmt.Errorf("inspect pdf: %w", err)
	}
	return reader.NumPage(), nil
}

// Export downloads cfg's report and saves it into dir.
func (c *Client) Export(ctx context.Context, cfg workflow.RunConfig, dir string) (Result, error) {
	data, err := c.Fetch(ctx, cfg)
	if err != nil {
		return Result{}, err
	}
	path, err := Save(dir, FileName(cfg), data)
	if err != nil {
		c.log.Error("pdf save failed", zap.String("dir", dir), zap.Error(err))
		return Result{}, fmt.Errorf("save pdf: %w", err)
	}
	res := Result{Path: path, Bytes: len(data)}
	if pages, err := Inspect(data); err != nil {
		c.log.Warn("pdf inspection failed", zap.String("path", path), zap.Error(err))
	} else {
		res.Pages = pages
	}
	c.log.Info("pdf saved", zap.String("path", path), zap.Int("bytes", res.Bytes), zap.Int("pages", res.Pages))
	return res, nil
}
