package quiz

import (
	"fmt"
)

// Envelope is the serialized form of a Quiz, tagged by kind.
type Envelope struct {
	Type          Kind     `json:"type"`
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correctAnswer"`
	Hint          string   `json:"hint"`
}

// Encode converts q into its envelope. A nil quiz encodes to nil.
func Encode(q Quiz) *Envelope {
	if q == nil {
		return nil
	}
	return &Envelope{
		Type:          q.Kind(),
		Question:      q.Prompt(),
		Options:       q.Choices(),
		CorrectAnswer: q.CorrectAnswer(),
		Hint:          q.HintText(),
	}
}

// Decode restores the quiz variant named by the envelope's type.
func (e *Envelope) Decode() (Quiz, error) {
	if e == nil {
		return nil, nil
	}
	switch e.Type {
	case KindTrueFalse:
		if e.CorrectAnswer != 1 && e.CorrectAnswer != 2 {
			return nil, fmt.Errorf("true/false quiz has answer %d", e.CorrectAnswer)
		}
		return TrueFalse{Question: e.Question, Truth: e.CorrectAnswer == 1, Hint: e.Hint}, nil
	case KindMultiChoice:
		if e.CorrectAnswer < 1 || e.CorrectAnswer > len(e.Options) {
			return nil, fmt.Errorf("multiple-choice answer %d out of range for %d options", e.CorrectAnswer, len(e.Options))
		}
		return MultiChoice{Question: e.Question, Options: e.Options, Answer: e.CorrectAnswer, Hint: e.Hint}, nil
	default:
		return nil, fmt.Errorf("unknown quiz type %q", e.Type)
	}
}
