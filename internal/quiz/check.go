package quiz

import (
	"strconv"
	"strings"
)

// CheckAnswer evaluates a free-text answer against q. Answers that match
// nothing are incorrect, never an error. A nil quiz accepts nothing.
//
// True/false:
//   - "正确", "对" or exactly "1" is correct iff the statement is true
//   - otherwise "错误", "错" or exactly "2" is correct iff it is false
//
// Multiple choice:
//   - a leading integer ("2", "2.", "2号") is compared with the correct index
//   - otherwise the first option contained in the answer (case-insensitive)
//     decides
func CheckAnswer(q Quiz, answer string) bool {
	if q == nil {
		return false
	}
	return q.check(strings.TrimSpace(answer))
}

func (q TrueFalse) check(answer string) bool {
	switch {
	case strings.Contains(answer, OptionTrue) || strings.Contains(answer, "对") || answer == "1":
		return q.CorrectAnswer() == 1
	case strings.Contains(answer, OptionFalse) || strings.Contains(answer, "错") || answer == "2":
		return q.CorrectAnswer() == 2
	default:
		return false
	}
}

func (q MultiChoice) check(answer string) bool {
	if n, ok := leadingInt(answer); ok {
		return n == q.Answer
	}

	lower := strings.ToLower(answer)
	for i, opt := range q.Options {
		if opt == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(opt)) {
			return i+1 == q.Answer
		}
	}
	return false
}

// leadingInt parses the longest [+-]?[0-9]+ prefix of s.
func leadingInt(s string) (int, bool) {
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, false
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}
