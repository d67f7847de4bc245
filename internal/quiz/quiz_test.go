package quiz

import (
	"encoding/json"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cuckoo-ai/cuckoo/internal/course"
)

// scriptedRand replays fixed draws. Shuffle swaps are delegated to swap
// pairs recorded in swaps; with none it leaves the order untouched.
type scriptedRand struct {
	ints   []int
	floats []float64
	swaps  [][2]int
}

func (r *scriptedRand) IntN(n int) int {
	if len(r.ints) == 0 {
		return 0
	}
	v := r.ints[0]
	r.ints = r.ints[1:]
	return v % n
}

func (r *scriptedRand) Float64() float64 {
	if len(r.floats) == 0 {
		return 0
	}
	v := r.floats[0]
	r.floats = r.floats[1:]
	return v
}

func (r *scriptedRand) Shuffle(n int, swap func(i, j int)) {
	for _, s := range r.swaps {
		if s[0] < n && s[1] < n {
			swap(s[0], s[1])
		}
	}
}

func sampleKeyPoint(isTrue bool) course.KeyPoint {
	return course.KeyPoint{
		Topic:            "区块链",
		Statement:        "区块链是一种分布式账本",
		IsTrue:           isTrue,
		CorrectStatement: "区块链是一种分布式账本技术",
		WrongStatements:  []string{"区块链是中心化数据库", "区块链只能用于比特币", "区块链数据可以随意修改"},
		Hint:             "想想账本由谁维护",
	}
}

func TestTrueFalse_Answers(t *testing.T) {
	g := NewGenerator(&scriptedRand{}, Config{})

	for _, isTrue := range []bool{true, false} {
		q := g.TrueFalse(sampleKeyPoint(isTrue))
		assert.Equal(t, isTrue, CheckAnswer(q, "正确"), "正确 with isTrue=%v", isTrue)
		assert.Equal(t, !isTrue, CheckAnswer(q, "错误"), "错误 with isTrue=%v", isTrue)
	}
}

func TestTrueFalse_Shape(t *testing.T) {
	g := NewGenerator(&scriptedRand{}, Config{})

	q := g.TrueFalse(sampleKeyPoint(false))
	assert.Equal(t, KindTrueFalse, q.Kind())
	assert.Equal(t, "判断题：区块链是一种分布式账本", q.Prompt())
	assert.Equal(t, []string{"正确", "错误"}, q.Choices())
	assert.Equal(t, 2, q.CorrectAnswer())
	assert.Equal(t, "想想账本由谁维护", q.HintText())

	kp := sampleKeyPoint(true)
	kp.Hint = ""
	assert.Equal(t, DefaultTrueFalseHint, g.TrueFalse(kp).HintText())
}

func TestCheckAnswer_TrueFalse(t *testing.T) {
	yes := TrueFalse{Question: "判断题：x", Truth: true, Hint: "h"}
	no := TrueFalse{Question: "判断题：x", Truth: false, Hint: "h"}

	tests := []struct {
		answer string
		yes    bool
		no     bool
	}{
		{"正确", true, false},
		{"我觉得是对的", true, false},
		{"1", true, false},
		{" 1 ", true, false},
		{"错误", false, true},
		{"错", false, true},
		{"2", false, true},
		{"不知道", false, false},
		{"", false, false},
		{"12", false, false},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.yes, CheckAnswer(yes, tc.answer), "answer %q against true statement", tc.answer)
		assert.Equal(t, tc.no, CheckAnswer(no, tc.answer), "answer %q against false statement", tc.answer)
	}
}

func TestCheckAnswer_MultiChoice(t *testing.T) {
	q := MultiChoice{
		Question: "关于区块链，下列哪个说法是正确的？",
		Options:  []string{"Centralized DB", "Distributed Ledger", "Only Bitcoin"},
		Answer:   2,
	}

	tests := []struct {
		answer string
		want   bool
	}{
		{"2", true},
		{" 2", true},
		{"1", false},
		{"7", false},
		{"2.", true},
		{"2号", true},
		{"2 是对的", true},
		{"3个", false},
		{"+2", true},
		{"选2", false},
		{"distributed ledger", true},
		{"I pick Distributed Ledger!", true},
		{"centralized db", false},
		{"no idea", false},
		{"", false},
		{"1 Distributed Ledger", false},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.want, CheckAnswer(q, tc.answer), "answer %q", tc.answer)
	}
}

func TestCheckAnswer_NilQuiz(t *testing.T) {
	assert.False(t, CheckAnswer(nil, "1"))
}

func TestMultiChoice_ThreeOptionsOrder(t *testing.T) {
	g := NewGenerator(&scriptedRand{}, Config{})
	kp := sampleKeyPoint(true)

	q := g.MultiChoice(kp, 3)
	require.Equal(t, KindMultiChoice, q.Kind())
	assert.Equal(t, []string{kp.CorrectStatement, kp.WrongStatements[0], kp.WrongStatements[1]}, q.Choices())
	assert.Equal(t, 1, q.CorrectAnswer())
	assert.Equal(t, "关于区块链，下列哪个说法是正确的？", q.Prompt())
}

func TestMultiChoice_TracksShuffledAnswer(t *testing.T) {
	kp := sampleKeyPoint(true)

	g := NewGenerator(&scriptedRand{swaps: [][2]int{{0, 2}, {1, 2}}}, Config{})
	q := g.MultiChoice(kp, 3)

	// [c, w0, w1] -> [w1, w0, c] -> [w1, c, w0]
	assert.Equal(t, []string{kp.WrongStatements[1], kp.CorrectStatement, kp.WrongStatements[0]}, q.Choices())
	assert.Equal(t, 2, q.CorrectAnswer())
	assert.True(t, CheckAnswer(q, "2"))
	assert.True(t, CheckAnswer(q, kp.CorrectStatement))
}

func TestMultiChoice_FixedAnswer(t *testing.T) {
	kp := sampleKeyPoint(true)

	g := NewGenerator(&scriptedRand{swaps: [][2]int{{0, 2}}}, Config{FixedAnswer: true})
	q := g.MultiChoice(kp, 3)

	assert.Equal(t, kp.CorrectStatement, q.Choices()[2])
	assert.Equal(t, 1, q.CorrectAnswer())
}

func TestMultiChoice_CorrectIndexProperty(t *testing.T) {
	kp := sampleKeyPoint(true)
	g := NewGenerator(rand.New(rand.NewPCG(1, 2)), Config{})

	for range 200 {
		q := g.MultiChoice(kp, 4)
		opts := q.Choices()
		require.Len(t, opts, 4)
		assert.Equal(t, kp.CorrectStatement, opts[q.CorrectAnswer()-1])
	}
}

func TestMultiChoice_ShortWrongBank(t *testing.T) {
	g := NewGenerator(&scriptedRand{}, Config{})

	kp := sampleKeyPoint(true)
	kp.WrongStatements = []string{"only"}
	q := g.MultiChoice(kp, 4)
	assert.Equal(t, []string{kp.CorrectStatement, "only", "only", "only"}, q.Choices())

	kp.WrongStatements = nil
	assert.Equal(t, KindTrueFalse, g.MultiChoice(kp, 3).Kind())
}

func TestMultiChoice_DefaultHint(t *testing.T) {
	g := NewGenerator(&scriptedRand{}, Config{})
	kp := sampleKeyPoint(true)
	kp.Hint = ""
	assert.Equal(t, DefaultMultiChoiceHint, g.MultiChoice(kp, 2).HintText())
}

func TestGenerate_CoinFlip(t *testing.T) {
	kp := sampleKeyPoint(true)

	// 0 -> multiple choice, then 1 -> 2+1 = 3 options.
	q := NewGenerator(&scriptedRand{ints: []int{0, 1}}, Config{}).Generate(kp)
	require.Equal(t, KindMultiChoice, q.Kind())
	assert.Len(t, q.Choices(), 3)

	q = NewGenerator(&scriptedRand{ints: []int{1}}, Config{}).Generate(kp)
	assert.Equal(t, KindTrueFalse, q.Kind())
}

func TestGenerate_OptionCountRange(t *testing.T) {
	kp := sampleKeyPoint(true)
	g := NewGenerator(rand.New(rand.NewPCG(7, 11)), Config{})

	seen := map[Kind]bool{}
	for range 500 {
		q := g.Generate(kp)
		seen[q.Kind()] = true
		if q.Kind() == KindMultiChoice {
			assert.GreaterOrEqual(t, len(q.Choices()), MinOptions)
			assert.LessOrEqual(t, len(q.Choices()), MaxOptions)
		}
	}
	assert.True(t, seen[KindTrueFalse])
	assert.True(t, seen[KindMultiChoice])
}

func TestRender(t *testing.T) {
	q := TrueFalse{Question: "判断题：区块链是一种分布式账本", Truth: true}
	assert.Equal(t, "判断题：区块链是一种分布式账本\n\n1. 正确\n2. 错误", Render(q))
}

func TestEnvelope_RoundTrip(t *testing.T) {
	quizzes := []Quiz{
		TrueFalse{Question: "判断题：x", Truth: false, Hint: "h"},
		MultiChoice{Question: "q", Options: []string{"a", "b"}, Answer: 2, Hint: "h"},
	}

	for _, q := range quizzes {
		data, err := json.Marshal(Encode(q))
		require.NoError(t, err)

		var env Envelope
		require.NoError(t, json.Unmarshal(data, &env))
		got, err := env.Decode()
		require.NoError(t, err)
		assert.Equal(t, q, got)
	}
}

func TestEnvelope_DecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		env  Envelope
	}{
		{"unknown type", Envelope{Type: "essay"}},
		{"true/false answer out of range", Envelope{Type: KindTrueFalse, CorrectAnswer: 3}},
		{"multiple choice answer out of range", Envelope{Type: KindMultiChoice, Options: []string{"a"}, CorrectAnswer: 2}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tc.env.Decode()
			assert.Error(t, err)
		})
	}
}
