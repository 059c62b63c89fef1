package out

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"recap/internal/modules/quiz/domain"
	quizout "recap/internal/modules/quiz/port/out"
	apperrors "recap/internal/platform/errors"
)

// FileQuizStore keeps one JSON file per generated quiz under the quizzes
// directory.
type FileQuizStore struct {
	dir string
}

func NewFileQuizStore(dir string) quizout.QuizStore {
	return &FileQuizStore{dir: dir}
}

func (s *FileQuizStore) Save(_ context.Context, quiz domain.Quiz) error {
	if err := quiz.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create quizzes dir: %w", err)
	}
	raw, err := json.MarshalIndent(quiz, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal quiz: %w", err)
	}
	path := s.path(quiz.InstanceID)
	tmp, err := os.CreateTemp(s.dir, ".quiz-*.json")
	if err != nil {
		return fmt.Errorf("create temp quiz file: %w", err)
	}
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write quiz file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close quiz file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace quiz file: %w", err)
	}
	return nil
}

func (s *FileQuizStore) Get(_ context.Context, instanceID string) (domain.Quiz, error) {
	raw, err := os.ReadFile(s.path(instanceID))
	if err != nil {
		if os.IsNotExist(err) {
			return domain.Quiz{}, fmt.Errorf("%w: instance %s", apperrors.ErrNoQuiz, instanceID)
		}
		return domain.Quiz{}, fmt.Errorf("read quiz file: %w", err)
	}
	var quiz domain.Quiz
	if err := json.Unmarshal(raw, &quiz); err != nil {
		return domain.Quiz{}, fmt.Errorf("decode quiz %s: %w", instanceID, err)
	}
	return quiz, nil
}

func (s *FileQuizStore) path(instanceID string) string {
	return filepath.Join(s.dir, instanceID+".json")
}
