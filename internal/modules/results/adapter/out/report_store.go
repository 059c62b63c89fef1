package out

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	resultsout "recap/internal/modules/results/port/out"
)

// FileReportStore writes rendered reports into the reports directory, one
// file per generation timestamp.
type FileReportStore struct {
	dir string
}

func NewFileReportStore(dir string) resultsout.ReportStore {
	return &FileReportStore{dir: dir}
}

func (s *FileReportStore) Save(_ context.Context, generatedAt time.Time, markdown string) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create reports dir: %w", err)
	}
	path := filepath.Join(s.dir, fmt.Sprintf("report-%s.md", generatedAt.Format("2006-01-02-150405")))
	tmp, err := os.CreateTemp(s.dir, ".report-*.md")
	if err != nil {
		return "", fmt.Errorf("create temp report: %w", err)
	}
	if _, err := tmp.WriteString(markdown); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("write report: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("close report: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("replace report: %w", err)
	}
	return path, nil
}
