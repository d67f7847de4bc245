package lecture

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cuckoo-ai/cuckoo/internal/conversation"
	"github.com/cuckoo-ai/cuckoo/internal/course"
	"github.com/cuckoo-ai/cuckoo/internal/dialogue"
	"github.com/cuckoo-ai/cuckoo/internal/learning"
	"github.com/cuckoo-ai/cuckoo/internal/quiz"
	"github.com/cuckoo-ai/cuckoo/internal/rewards"
)

type fakeCatalog map[string]*course.Course

func (f fakeCatalog) Course(_ context.Context, id string) (*course.Course, error) {
	if c, ok := f[id]; ok {
		return c, nil
	}
	return nil, course.ErrNotFound
}

type fakeRecords struct {
	mu       sync.Mutex
	records  map[string]learning.Record
	readErr  error
	writeErr error
	writes   int
}

func newFakeRecords(recs ...learning.Record) *fakeRecords {
	f := &fakeRecords{records: map[string]learning.Record{}}
	for _, r := range recs {
		f.records[r.ID] = r
	}
	return f
}

func (f *fakeRecords) RecordsByUser(_ context.Context, userID string) ([]learning.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.readErr != nil {
		return nil, f.readErr
	}
	var out []learning.Record
	for _, r := range f.records {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRecords) UpdateRecord(_ context.Context, rec learning.Record) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.writeErr != nil {
		return f.writeErr
	}
	f.writes++
	f.records[rec.ID] = rec
	return nil
}

func (f *fakeRecords) only(t *testing.T) learning.Record {
	t.Helper()
	require.Len(t, f.records, 1)
	for _, r := range f.records {
		return r
	}
	return learning.Record{}
}

// fakeHistory stores messages oldest first.
type fakeHistory struct {
	messages []conversation.Message
	err      error
}

func (f *fakeHistory) Recent(_ context.Context, roomID string, count int) ([]conversation.Message, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []conversation.Message
	for i := len(f.messages) - 1; i >= 0 && len(out) < count; i-- {
		if f.messages[i].RoomID == roomID {
			out = append(out, f.messages[i])
		}
	}
	return out, nil
}

func (f *fakeHistory) Append(_ context.Context, msg conversation.Message) error {
	f.messages = append(f.messages, msg)
	return nil
}

type recordingHook struct {
	completions []rewards.Completion
	err         error
}

func (h *recordingHook) CourseCompleted(_ context.Context, c rewards.Completion) error {
	h.completions = append(h.completions, c)
	return h.err
}

func newTestEngine(records *fakeRecords, history *fakeHistory, rng quiz.Rand, opts ...Option) *Engine {
	opts = append([]Option{WithRand(rng), WithClock(func() time.Time { return testNow })}, opts...)
	return NewEngine(DefaultConfig(), fakeCatalog{"c1": blockchainCourse(5)}, records, history, opts...)
}

func TestEngine_FirstMessageStartsCourse(t *testing.T) {
	ctx := context.Background()
	records := newFakeRecords()
	history := &fakeHistory{}
	e := newTestEngine(records, history, &scriptedRand{})

	msg := userMsg("区块链是什么")
	require.NoError(t, history.Append(ctx, msg))

	res, err := e.Turn(ctx, msg, dialogue.State{})
	require.NoError(t, err)

	assert.Equal(t, StatusResponded, res.Status)
	assert.Equal(t, RuleLecture, res.Rule)
	assert.Equal(t, conversation.ActionLecture, res.Response.Action)
	assert.Contains(t, res.Response.Text, "\"区块链\"")

	rec := records.only(t)
	assert.Equal(t, 10, rec.Progress)
	assert.Equal(t, learning.StatusInProgress, rec.Status)
	assert.Equal(t, "u1", rec.UserID)
	assert.Equal(t, "c1", rec.CourseID)
}

func TestEngine_WrongAnswerScenario(t *testing.T) {
	ctx := context.Background()
	records := newFakeRecords(*record(10))
	history := &fakeHistory{}
	e := newTestEngine(records, history, &scriptedRand{})

	open := dialogue.Open(quiz.TrueFalse{Question: "判断题：区块链的讲解", Truth: true, Hint: "回顾定义"})
	msg := userMsg("错")
	require.NoError(t, history.Append(ctx, msg))

	res, err := e.Turn(ctx, msg, open)
	require.NoError(t, err)

	assert.Equal(t, RuleQuizWrong, res.Rule)
	assert.Contains(t, res.Response.Text, "回顾定义")
	assert.True(t, res.State.WaitingForQuizAnswer)
	assert.Equal(t, open, res.State)
	assert.Equal(t, 0, records.writes)
}

func TestEngine_QuizAfterLectures(t *testing.T) {
	ctx := context.Background()
	records := newFakeRecords(*record(30))
	history := &fakeHistory{messages: []conversation.Message{
		lectureMsg("讲解一"), lectureMsg("讲解二"), lectureMsg("讲解三"),
	}}
	e := newTestEngine(records, history, &scriptedRand{ints: []int{1}})

	msg := userMsg("好的")
	require.NoError(t, history.Append(ctx, msg))

	res, err := e.Turn(ctx, msg, dialogue.State{})
	require.NoError(t, err)
	assert.Equal(t, RuleQuiz, res.Rule)
	assert.True(t, res.State.WaitingForQuizAnswer)
	assert.Equal(t, 0, records.writes)
}

func TestEngine_CourseNotFound(t *testing.T) {
	records := newFakeRecords()
	e := newTestEngine(records, &fakeHistory{}, &scriptedRand{})

	msg := userMsg("你好")
	msg.Content.CourseID = "missing"
	state := dialogue.Open(quiz.TrueFalse{Question: "q", Truth: true})

	res, err := e.Turn(context.Background(), msg, state)
	require.NoError(t, err)
	assert.Equal(t, StatusNotFound, res.Status)
	assert.Empty(t, res.Response.Text)
	assert.Equal(t, state, res.State)
	assert.Equal(t, 0, records.writes)
}

func TestEngine_Eligible(t *testing.T) {
	ctx := context.Background()
	done := *record(100)
	done.Status = learning.StatusCompleted
	other := learning.Record{ID: "rec-2", UserID: "u1", CourseID: "c2", Status: learning.StatusInProgress}

	e := newTestEngine(newFakeRecords(done, other), &fakeHistory{}, &scriptedRand{})

	tests := []struct {
		name     string
		courseID string
		want     bool
	}{
		{"no course id", "", false},
		{"completed course", "c1", false},
		{"course in progress", "c2", true},
		{"new course", "c3", true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			msg := userMsg("继续")
			msg.Content.CourseID = tc.courseID
			ok, err := e.Eligible(ctx, msg)
			require.NoError(t, err)
			assert.Equal(t, tc.want, ok)
		})
	}
}

func TestEngine_EligibleStoreError(t *testing.T) {
	records := newFakeRecords()
	records.readErr = errors.New("db down")
	e := newTestEngine(records, &fakeHistory{}, &scriptedRand{})

	_, err := e.Eligible(context.Background(), userMsg("继续"))
	assert.Error(t, err)
}

func TestEngine_CompletionInvokesRewardHook(t *testing.T) {
	records := newFakeRecords(*record(100))
	hook := &recordingHook{}
	e := newTestEngine(records, &fakeHistory{}, &scriptedRand{}, WithRewardHook(hook))

	res, err := e.Turn(context.Background(), userMsg("继续"), dialogue.State{})
	require.NoError(t, err)
	assert.Equal(t, RuleComplete, res.Rule)
	assert.Equal(t, PhraseCompleted, res.Response.Text)

	rec := records.only(t)
	assert.Equal(t, learning.StatusCompleted, rec.Status)

	require.Len(t, hook.completions, 1)
	assert.Equal(t, rewards.Completion{UserID: "u1", CourseID: "c1", RecordID: "rec-1", CompletedAt: testNow}, hook.completions[0])
}

func TestEngine_RewardHookFailureDoesNotFailTurn(t *testing.T) {
	records := newFakeRecords(*record(100))
	hook := &recordingHook{err: errors.New("broker down")}
	e := newTestEngine(records, &fakeHistory{}, &scriptedRand{}, WithRewardHook(hook))

	res, err := e.Turn(context.Background(), userMsg("继续"), dialogue.State{})
	require.NoError(t, err)
	assert.Equal(t, RuleComplete, res.Rule)
	assert.Len(t, hook.completions, 1)
}

func TestEngine_CollaboratorFailures(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*fakeRecords, *fakeHistory)
	}{
		{"record read", func(r *fakeRecords, _ *fakeHistory) { r.readErr = errors.New("read failed") }},
		{"record write", func(r *fakeRecords, _ *fakeHistory) { r.writeErr = errors.New("write failed") }},
		{"history", func(_ *fakeRecords, h *fakeHistory) { h.err = errors.New("history failed") }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			records := newFakeRecords()
			history := &fakeHistory{}
			tc.setup(records, history)
			e := newTestEngine(records, history, &scriptedRand{})

			_, err := e.Turn(context.Background(), userMsg("继续"), dialogue.State{})
			assert.Error(t, err)
		})
	}
}

type brokenCatalog struct{}

func (brokenCatalog) Course(context.Context, string) (*course.Course, error) {
	return nil, errors.New("catalog unavailable")
}

func TestEngine_CatalogFailure(t *testing.T) {
	e := NewEngine(DefaultConfig(), brokenCatalog{}, newFakeRecords(), &fakeHistory{})
	_, err := e.Turn(context.Background(), userMsg("继续"), dialogue.State{})
	assert.Error(t, err)
}
