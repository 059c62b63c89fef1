package out

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"recap/internal/modules/session/domain"
	sessionout "recap/internal/modules/session/port/out"
	sessionservice "recap/internal/modules/session/service"
	apperrors "recap/internal/platform/errors"
)

// FileSummaryStore keeps one markdown note per session under the summaries
// directory. The notes are the source of truth and stay human-editable.
type FileSummaryStore struct {
	dir string
}

func NewFileSummaryStore(dir string) sessionout.SummaryStore {
	return &FileSummaryStore{dir: dir}
}

func (s *FileSummaryStore) Save(_ context.Context, summary domain.Summary) error {
	note, err := sessionservice.EncodeNote(summary)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create summaries dir: %w", err)
	}
	path := s.path(summary.SessionID)
	tmp, err := os.CreateTemp(s.dir, ".summary-*.md")
	if err != nil {
		return fmt.Errorf("create temp summary file: %w", err)
	}
	if _, err := tmp.WriteString(note); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write summary note: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close summary note: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace summary note: %w", err)
	}
	return nil
}

func (s *FileSummaryStore) Get(_ context.Context, sessionID string) (domain.Summary, error) {
	raw, err := os.ReadFile(s.path(sessionID))
	if err != nil {
		if os.IsNotExist(err) {
			return domain.Summary{}, fmt.Errorf("%w: session %s", apperrors.ErrNoSummary, sessionID)
		}
		return domain.Summary{}, fmt.Errorf("read summary note: %w", err)
	}
	summary, err := sessionservice.DecodeNote(string(raw))
	if err != nil {
		return domain.Summary{}, fmt.Errorf("decode summary %s: %w", sessionID, err)
	}
	return summary, nil
}

// List returns all summaries ordered by recording time. Notes that no
// longer parse are skipped rather than failing the whole listing.
func (s *FileSummaryStore) List(_ context.Context) ([]domain.Summary, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read summaries dir: %w", err)
	}
	var summaries []domain.Summary
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}
		raw, err := os.ReadFile(filepath.Join(s.dir, entry.Name()))
		if err != nil {
			continue
		}
		summary, err := sessionservice.DecodeNote(string(raw))
		if err != nil || summary.SessionID == "" {
			continue
		}
		summaries = append(summaries, summary)
	}
	sort.SliceStable(summaries, func(i, j int) bool {
		return summaries[i].RecordedAt.Before(summaries[j].RecordedAt)
	})
	return summaries, nil
}

func (s *FileSummaryStore) path(sessionID string) string {
	return filepath.Join(s.dir, sessionID+".md")
}
