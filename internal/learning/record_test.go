package learning

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSectionIndex_InRange(t *testing.T) {
	for n := 1; n <= 25; n++ {
		for p := 0; p < MaxProgress; p++ {
			idx := SectionIndex(p, n)
			if idx < 0 || idx >= n {
				t.Fatalf("SectionIndex(%d, %d) = %d, want [0, %d)", p, n, idx, n)
			}
		}
		assert.Equal(t, n, SectionIndex(MaxProgress, n), "progress 100 with %d key points", n)
	}
}

func TestSectionIndex_Values(t *testing.T) {
	tests := []struct {
		progress, n, want int
	}{
		{0, 5, 0},
		{10, 5, 0},
		{20, 5, 1},
		{90, 5, 4},
		{100, 5, 5},
		{30, 3, 0},
		{40, 3, 1},
		{70, 3, 2},
		{50, 0, 0},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.want, SectionIndex(tc.progress, tc.n), "SectionIndex(%d, %d)", tc.progress, tc.n)
	}
}

func TestAdvance_ReachesMaxInTenSteps(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	var rec *Record
	for i := 1; i <= 10; i++ {
		next := Advance(rec, "u1", "c1", 10, now)
		if rec != nil {
			assert.GreaterOrEqual(t, next.Progress, rec.Progress)
			assert.Equal(t, rec.ID, next.ID)
		}
		rec = &next
		if i < 10 {
			assert.Less(t, rec.Progress, MaxProgress)
		}
	}
	assert.Equal(t, MaxProgress, rec.Progress)
	assert.Equal(t, StatusInProgress, rec.Status)

	capped := Advance(rec, "u1", "c1", 10, now)
	assert.Equal(t, MaxProgress, capped.Progress)
}

func TestAdvance_CreatesRecord(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	rec := Advance(nil, "u1", "c1", 10, now)
	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, "u1", rec.UserID)
	assert.Equal(t, "c1", rec.CourseID)
	assert.Equal(t, 10, rec.Progress)
	assert.Equal(t, StatusInProgress, rec.Status)
	assert.Equal(t, now, rec.CreatedAt)
	assert.Equal(t, now, rec.LastAccessedAt)
	assert.Nil(t, rec.CompletedAt)
}

func TestAdvance_PromotesNotStarted(t *testing.T) {
	prior := &Record{ID: "r1", UserID: "u1", CourseID: "c1", Status: StatusNotStarted}
	rec := Advance(prior, "u1", "c1", 10, time.Now())
	assert.Equal(t, StatusInProgress, rec.Status)
	assert.Equal(t, "r1", rec.ID)
}

func TestComplete(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	prior := &Record{ID: "r1", UserID: "u1", CourseID: "c1", Progress: 100, Status: StatusInProgress, CreatedAt: now.Add(-time.Hour)}
	rec := Complete(prior, "u1", "c1", now)
	assert.Equal(t, "r1", rec.ID)
	assert.Equal(t, 100, rec.Progress)
	assert.Equal(t, StatusCompleted, rec.Status)
	require.NotNil(t, rec.CompletedAt)
	assert.Equal(t, now, *rec.CompletedAt)

	fresh := Complete(nil, "u1", "c1", now)
	assert.NotEmpty(t, fresh.ID)
	assert.Equal(t, 0, fresh.Progress)
}

type stubStore struct {
	records []Record
	err     error
}

func (s *stubStore) RecordsByUser(_ context.Context, userID string) ([]Record, error) {
	return s.records, s.err
}

func (s *stubStore) UpdateRecord(_ context.Context, rec Record) error {
	return s.err
}

func TestFind(t *testing.T) {
	ctx := context.Background()
	s := &stubStore{records: []Record{
		{ID: "r1", CourseID: "c1", Progress: 30},
		{ID: "r2", CourseID: "c2", Progress: 50},
	}}

	rec, err := Find(ctx, s, "u1", "c2")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "r2", rec.ID)

	rec, err = Find(ctx, s, "u1", "c3")
	require.NoError(t, err)
	assert.Nil(t, rec)
	assert.Equal(t, 0, CurrentProgress(rec))

	s.err = errors.New("db down")
	_, err = Find(ctx, s, "u1", "c1")
	assert.Error(t, err)
}
