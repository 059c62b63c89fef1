package out

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"recap/internal/modules/schedule/domain"
	apperrors "recap/internal/platform/errors"
	"recap/internal/platform/lock"
)

const (
	readRetries    = 3
	readRetryDelay = 50 * time.Millisecond
)

// FileStateStore keeps the quiz state in a single JSON file. Writes go to a
// temp file in the same directory followed by a rename, so readers never
// observe a half-written state; concurrent writers serialize on a lock file.
type FileStateStore struct {
	path    string
	project string
	lock    *lock.FileLock
	mu      sync.Mutex
}

func NewFileStateStore(statePath, lockPath, project string) *FileStateStore {
	return &FileStateStore{
		path:    statePath,
		project: project,
		lock:    lock.New(lockPath),
	}
}

// Load reads the current state. A missing file is an empty state, not an
// error. A state that fails to decode is retried briefly in case a writer's
// rename raced the read, then salvaged entry by entry before giving up.
func (s *FileStateStore) Load(_ context.Context) (domain.State, error) {
	var lastErr error
	for attempt := 0; attempt < readRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(readRetryDelay)
		}
		raw, err := os.ReadFile(s.path)
		if err != nil {
			if os.IsNotExist(err) {
				return domain.NewState(s.project), nil
			}
			return domain.State{}, fmt.Errorf("read quiz state: %w", err)
		}
		var state domain.State
		if err := json.Unmarshal(raw, &state); err != nil {
			lastErr = err
			continue
		}
		if state.SchemaVersion > domain.SchemaVersion {
			return domain.State{}, fmt.Errorf("%w: schema version %d is newer than supported %d",
				apperrors.ErrStateCorrupt, state.SchemaVersion, domain.SchemaVersion)
		}
		return state, nil
	}
	if state, ok := s.salvage(); ok {
		return state, nil
	}
	return domain.State{}, fmt.Errorf("%w: %s: %v", apperrors.ErrStateCorrupt, s.path, lastErr)
}

// Mutate applies fn to the current state under the write lock and persists
// the result. A state fn leaves untouched (same revision) is not rewritten.
func (s *FileStateStore) Mutate(ctx context.Context, fn func(domain.State) (domain.State, error)) (domain.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	release, err := s.lock.Acquire(ctx)
	if err != nil {
		return domain.State{}, err
	}
	defer release()

	current, err := s.Load(ctx)
	if err != nil {
		return domain.State{}, err
	}
	next, err := fn(current)
	if err != nil {
		return domain.State{}, err
	}
	if next.Revision == current.Revision {
		return next, nil
	}
	if err := s.write(next); err != nil {
		return domain.State{}, err
	}
	return next, nil
}

func (s *FileStateStore) write(state domain.State) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}
	raw, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal quiz state: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".quiz-state-*.json")
	if err != nil {
		return fmt.Errorf("create temp state file: %w", err)
	}
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write temp state file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close temp state file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace state file: %w", err)
	}
	return nil
}

// salvage re-reads the file and decodes instance entries individually,
// dropping the ones that no longer parse. Only structurally intact
// surroundings can be salvaged; anything else stays an error.
func (s *FileStateStore) salvage() (domain.State, bool) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return domain.State{}, false
	}
	var loose struct {
		SchemaVersion int               `json:"schema_version"`
		Project       string            `json:"project"`
		Revision      int               `json:"revision"`
		Pending       []json.RawMessage `json:"pending_quizzes"`
		History       []json.RawMessage `json:"history"`
	}
	if err := json.Unmarshal(raw, &loose); err != nil {
		return domain.State{}, false
	}
	state := domain.State{
		SchemaVersion: loose.SchemaVersion,
		Project:       loose.Project,
		Revision:      loose.Revision,
	}
	for _, entry := range loose.Pending {
		var inst domain.QuizInstance
		if err := json.Unmarshal(entry, &inst); err == nil && inst.InstanceID != "" {
			state.Pending = append(state.Pending, inst)
		}
	}
	for _, entry := range loose.History {
		var inst domain.QuizInstance
		if err := json.Unmarshal(entry, &inst); err == nil && inst.InstanceID != "" {
			state.History = append(state.History, inst)
		}
	}
	return state, true
}
