package quiz

import (
	"fmt"
	"math/rand/v2"

	"github.com/cuckoo-ai/cuckoo/internal/course"
)

// Default hints used when a key point carries none.
const (
	DefaultTrueFalseHint   = "仔细想想刚才的讲解"
	DefaultMultiChoiceHint = "回顾一下刚才讲解的内容"
)

// Option count bounds for multiple-choice quizzes.
const (
	MinOptions = 2
	MaxOptions = 4
)

// Rand is the random source used for quiz generation. *rand.Rand from
// math/rand/v2 satisfies it.
type Rand interface {
	IntN(n int) int
	Float64() float64
	Shuffle(n int, swap func(i, j int))
}

// SystemRand returns a Rand backed by the math/rand/v2 global source.
func SystemRand() Rand {
	return systemRand{}
}

type systemRand struct{}

func (systemRand) IntN(n int) int                     { return rand.IntN(n) }
func (systemRand) Float64() float64                   { return rand.Float64() }
func (systemRand) Shuffle(n int, swap func(i, j int)) { rand.Shuffle(n, swap) }

// Config controls quiz generation.
type Config struct {
	// FixedAnswer keeps the legacy behavior of always marking option 1 as
	// the correct multiple-choice answer, wherever the correct statement
	// lands after shuffling. Off by default.
	FixedAnswer bool
}

// Generator builds quizzes from key points.
type Generator struct {
	rng Rand
	cfg Config
}

// NewGenerator creates a generator. A nil rng falls back to SystemRand.
func NewGenerator(rng Rand, cfg Config) *Generator {
	if rng == nil {
		rng = SystemRand()
	}
	return &Generator{rng: rng, cfg: cfg}
}

// Generate picks a quiz type with a fair coin flip and builds it.
func (g *Generator) Generate(kp course.KeyPoint) Quiz {
	if g.rng.IntN(2) == 0 {
		return g.MultiChoice(kp, MinOptions+g.rng.IntN(MaxOptions-MinOptions+1))
	}
	return g.TrueFalse(kp)
}

// TrueFalse builds a true/false quiz over the key point's statement.
func (g *Generator) TrueFalse(kp course.KeyPoint) TrueFalse {
	hint := kp.Hint
	if hint == "" {
		hint = DefaultTrueFalseHint
	}
	return TrueFalse{
		Question: fmt.Sprintf("判断题：%s", kp.Statement),
		Truth:    kp.IsTrue,
		Hint:     hint,
	}
}

// MultiChoice builds a multiple-choice quiz with count options: the
// correct statement followed by wrong statements in order, then shuffled.
// A short wrong-statement bank is reused cyclically. A key point with no
// wrong statements cannot be asked this way and yields a true/false quiz.
func (g *Generator) MultiChoice(kp course.KeyPoint, count int) Quiz {
	if len(kp.WrongStatements) == 0 {
		return g.TrueFalse(kp)
	}
	count = max(MinOptions, min(count, MaxOptions))

	options := make([]string, 0, count)
	options = append(options, kp.CorrectStatement)
	for i := 0; len(options) < count; i++ {
		options = append(options, kp.WrongStatements[i%len(kp.WrongStatements)])
	}

	correct := 0
	g.rng.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
		switch correct {
		case i:
			correct = j
		case j:
			correct = i
		}
	})

	answer := correct + 1
	if g.cfg.FixedAnswer {
		answer = 1
	}

	hint := kp.Hint
	if hint == "" {
		hint = DefaultMultiChoiceHint
	}
	return MultiChoice{
		Question: fmt.Sprintf("关于%s，下列哪个说法是正确的？", kp.Topic),
		Options:  options,
		Answer:   answer,
		Hint:     hint,
	}
}
