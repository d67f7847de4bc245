package quiz

import (
	"fmt"
	"strings"
)

// Kind identifies the quiz variant.
type Kind string

const (
	KindTrueFalse   Kind = "trueFalse"
	KindMultiChoice Kind = "multiChoice"
)

// Fixed options of a true/false quiz.
const (
	OptionTrue  = "正确"
	OptionFalse = "错误"
)

// Quiz is a question generated from one key point. It is implemented only
// by TrueFalse and MultiChoice.
type Quiz interface {
	Kind() Kind

	// Prompt is the question text without options.
	Prompt() string

	// Choices returns the options in display order.
	Choices() []string

	// CorrectAnswer is the 1-based index of the correct option.
	CorrectAnswer() int

	HintText() string

	check(answer string) bool
}

// TrueFalse asks whether a statement holds.
type TrueFalse struct {
	Question string
	Truth    bool
	Hint     string
}

func (q TrueFalse) Kind() Kind         { return KindTrueFalse }
func (q TrueFalse) Prompt() string     { return q.Question }
func (q TrueFalse) Choices() []string  { return []string{OptionTrue, OptionFalse} }
func (q TrueFalse) HintText() string   { return q.Hint }
func (q TrueFalse) CorrectAnswer() int { return trueFalseIndex(q.Truth) }

func trueFalseIndex(truth bool) int {
	if truth {
		return 1
	}
	return 2
}

// MultiChoice asks the learner to pick the correct statement among options.
type MultiChoice struct {
	Question string
	Options  []string
	Answer   int
	Hint     string
}

func (q MultiChoice) Kind() Kind         { return KindMultiChoice }
func (q MultiChoice) Prompt() string     { return q.Question }
func (q MultiChoice) Choices() []string  { return q.Options }
func (q MultiChoice) CorrectAnswer() int { return q.Answer }
func (q MultiChoice) HintText() string   { return q.Hint }

// Render formats the quiz as sent to the learner: the question, a blank
// line, then the options as a 1-based numbered list.
func Render(q Quiz) string {
	var b strings.Builder
	b.WriteString(q.Prompt())
	b.WriteString("\n\n")
	for i, opt := range q.Choices() {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%d. %s", i+1, opt)
	}
	return b.String()
}
