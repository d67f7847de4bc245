package lecture

import (
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/cuckoo-ai/cuckoo/internal/conversation"
	"github.com/cuckoo-ai/cuckoo/internal/course"
	"github.com/cuckoo-ai/cuckoo/internal/dialogue"
	"github.com/cuckoo-ai/cuckoo/internal/learning"
	"github.com/cuckoo-ai/cuckoo/internal/quiz"
)

// Rule names the branch of the decision chain that produced a response.
type Rule string

const (
	RuleQuizCorrect Rule = "quiz_correct"
	RuleQuizWrong   Rule = "quiz_wrong"
	RuleQuestion    Rule = "question"
	RuleComplete    Rule = "complete"
	RuleQuiz        Rule = "quiz"
	RuleFeedback    Rule = "feedback"
	RuleLecture     Rule = "lecture"
	RuleCovered     Rule = "covered"
)

// Turn is everything one decision looks at.
type Turn struct {
	UserID string
	Course *course.Course

	// Record is the learner's record for Course, nil when none exists yet.
	Record *learning.Record

	// Text is the text of the message being answered.
	Text string

	// Recent holds the room's latest messages, most recent first.
	Recent []conversation.Message

	State dialogue.State
}

// Decision is the outcome of one turn.
type Decision struct {
	Rule Rule
	Text string

	// State is the dialogue state after the turn.
	State dialogue.State

	// Record is the learning record to persist, nil when unchanged.
	Record *learning.Record

	// Completed is set when the turn concluded the course.
	Completed bool
}

// Decider runs the per-turn priority chain. It performs no I/O.
type Decider struct {
	cfg  Config
	rng  quiz.Rand
	quiz *quiz.Generator
}

// NewDecider creates a decider. A nil rng uses quiz.SystemRand.
func NewDecider(cfg Config, rng quiz.Rand) *Decider {
	if rng == nil {
		rng = quiz.SystemRand()
	}
	return &Decider{
		cfg:  cfg,
		rng:  rng,
		quiz: quiz.NewGenerator(rng, quiz.Config{FixedAnswer: cfg.FixedQuizAnswer}),
	}
}

// Decide evaluates the chain; the first matching rule wins.
func (d *Decider) Decide(t Turn, now time.Time) Decision {
	progress := learning.CurrentProgress(t.Record)

	if t.State.WaitingForQuizAnswer {
		return d.answer(t, progress)
	}

	if isQuestion(t.Text) {
		return Decision{Rule: RuleQuestion, Text: d.respond(t.Course, t.Text), State: t.State}
	}

	if progress >= learning.MaxProgress {
		rec := learning.Complete(t.Record, t.UserID, t.Course.ID, now)
		return Decision{Rule: RuleComplete, Text: PhraseCompleted, State: t.State, Record: &rec, Completed: true}
	}

	if d.shouldQuiz(t) {
		kp, ok := t.Course.At(learning.SectionIndex(progress, t.Course.Len()))
		if !ok {
			kp = t.Course.KeyPoints[0]
		}
		q := d.quiz.Generate(kp)
		return Decision{Rule: RuleQuiz, Text: quiz.Render(q), State: dialogue.Open(q)}
	}

	if d.shouldAskFeedback(t.Recent) {
		return Decision{Rule: RuleFeedback, Text: PhraseFeedback, State: t.State}
	}

	kp, ok := t.Course.At(learning.SectionIndex(progress, t.Course.Len()))
	if !ok {
		return Decision{Rule: RuleCovered, Text: PhraseCovered, State: t.State}
	}
	rec := learning.Advance(t.Record, t.UserID, t.Course.ID, d.cfg.ProgressStep, now)
	return Decision{Rule: RuleLecture, Text: lectureSegment(kp), State: t.State, Record: &rec}
}

// answer checks the reply to an open quiz. A wrong answer keeps the quiz
// open. A right one closes it and repeats the current segment without
// moving progress, since the quizzed segment was already counted.
func (d *Decider) answer(t Turn, progress int) Decision {
	q := t.State.CurrentQuiz
	if !quiz.CheckAnswer(q, t.Text) {
		hint := ""
		if q != nil {
			hint = q.HintText()
		}
		return Decision{Rule: RuleQuizWrong, Text: PhraseWrongPrefix + hint, State: t.State}
	}

	text := PhraseCorrect + PhraseCovered
	if kp, ok := t.Course.At(learning.SectionIndex(progress, t.Course.Len())); ok {
		text = PhraseCorrect + lectureSegment(kp)
	}
	return Decision{Rule: RuleQuizCorrect, Text: text, State: dialogue.State{}}
}

// respond answers a direct question from the first key point whose topic
// appears in it. The question is echoed back even when no topic matches.
func (d *Decider) respond(c *course.Course, text string) string {
	kp, ok := lo.Find(c.KeyPoints, func(kp course.KeyPoint) bool {
		return kp.Topic != "" && strings.Contains(text, kp.Topic)
	})
	switch {
	case !ok:
		return questionPrefix(text) + PhraseUnknownTopic
	case strings.Contains(text, tokenIsCorrect) || strings.Contains(text, tokenTrueOrFalse):
		return questionPrefix(text) + trueFalseAnswer(kp)
	default:
		return questionPrefix(text) + kp.CorrectStatement
	}
}

func isQuestion(text string) bool {
	return strings.Contains(text, tokenQuestionMark) || strings.Contains(text, tokenQuestion)
}

// shouldQuiz holds when the course has content, the last QuizLookback
// lecture messages exist and none asked a question, and no quiz went out
// among the last QuizLookback messages.
func (d *Decider) shouldQuiz(t Turn) bool {
	n := d.cfg.QuizLookback
	if t.Course.Len() == 0 || n <= 0 {
		return false
	}

	lectures := lo.Filter(t.Recent, func(m conversation.Message, _ int) bool {
		return m.IsLecture()
	})
	if len(lectures) < n {
		return false
	}
	if lo.SomeBy(lectures[:n], func(m conversation.Message) bool {
		return m.Contains(tokenQuestionMark)
	}) {
		return false
	}

	return !lo.SomeBy(lo.Slice(t.Recent, 0, n), func(m conversation.Message) bool {
		return m.Contains(tokenMultiChoice) || m.Contains(tokenTrueFalse)
	})
}

// shouldAskFeedback counts lecture messages at the front of the window and
// draws once when the run is long enough.
func (d *Decider) shouldAskFeedback(recent []conversation.Message) bool {
	_, run, found := lo.FindIndexOf(recent, func(m conversation.Message) bool {
		return !m.IsLecture()
	})
	if !found {
		run = len(recent)
	}
	if run < d.cfg.FeedbackThreshold {
		return false
	}
	return d.rng.Float64() < d.cfg.FeedbackProbability
}
