package dialogue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/cuckoo-ai/cuckoo/internal/quiz"
)

// State is the per-conversation scratch memory of the lecture engine.
// The zero value is the state of a fresh conversation.
type State struct {
	WaitingForQuizAnswer bool
	CurrentQuiz          quiz.Quiz
}

// Open returns a state waiting for an answer to q.
func Open(q quiz.Quiz) State {
	return State{WaitingForQuizAnswer: true, CurrentQuiz: q}
}

// IsZero reports whether the state holds nothing.
func (s State) IsZero() bool {
	return !s.WaitingForQuizAnswer && s.CurrentQuiz == nil
}

type stateJSON struct {
	WaitingForQuizAnswer bool           `json:"waitingForQuizAnswer"`
	CurrentQuiz          *quiz.Envelope `json:"currentQuiz,omitempty"`
}

func (s State) MarshalJSON() ([]byte, error) {
	return json.Marshal(stateJSON{
		WaitingForQuizAnswer: s.WaitingForQuizAnswer,
		CurrentQuiz:          quiz.Encode(s.CurrentQuiz),
	})
}

func (s *State) UnmarshalJSON(data []byte) error {
	var raw stateJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	q, err := raw.CurrentQuiz.Decode()
	if err != nil {
		return fmt.Errorf("decode current quiz: %w", err)
	}
	s.WaitingForQuizAnswer = raw.WaitingForQuizAnswer
	s.CurrentQuiz = q
	return nil
}

// Store keeps dialogue state per conversation. Load of an unknown
// conversation returns the zero State.
type Store interface {
	Load(ctx context.Context, conversationID string) (State, error)
	Save(ctx context.Context, conversationID string, state State) error
	Delete(ctx context.Context, conversationID string) error
}
