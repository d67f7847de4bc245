package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/cuckoo-ai/cuckoo/internal/course"
)

// CourseRepo stores courses with their key points as a JSON column. It
// implements course.Catalog.
type CourseRepo struct {
	db dbtx
}

func (r *CourseRepo) Course(ctx context.Context, id string) (*course.Course, error) {
	query, args := sqlite.Select("id", "title", "version", "key_points").
		From(sqlite.Table("courses")).
		Where(entsql.EQ("id", id)).
		Query()

	var (
		c         course.Course
		keyPoints string
	)
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&c.ID, &c.Title, &c.Version, &keyPoints)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, course.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query course: %w", err)
	}
	if err := json.Unmarshal([]byte(keyPoints), &c.KeyPoints); err != nil {
		return nil, fmt.Errorf("decode key points of %s: %w", id, err)
	}
	return &c, nil
}

// SaveCourse validates c and inserts or replaces the stored course. A
// stored course with a newer version is kept and course.ErrDowngrade is
// returned.
func (r *CourseRepo) SaveCourse(ctx context.Context, c *course.Course) error {
	if err := c.Validate(); err != nil {
		return err
	}

	current, err := r.Course(ctx, c.ID)
	if err != nil && !errors.Is(err, course.ErrNotFound) {
		return err
	}
	if err := course.CheckUpgrade(current, c); err != nil {
		return err
	}

	keyPoints := c.KeyPoints
	if keyPoints == nil {
		keyPoints = []course.KeyPoint{}
	}
	data, err := json.Marshal(keyPoints)
	if err != nil {
		return fmt.Errorf("encode key points: %w", err)
	}

	query, args := sqlite.Insert("courses").
		Columns("id", "title", "version", "key_points", "updated_at").
		Values(c.ID, c.Title, c.Version, string(data), formatTime(time.Now())).
		OnConflict(entsql.ConflictColumns("id"), entsql.ResolveWithNewValues()).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save course: %w", err)
	}
	return nil
}

// ListCourses returns a summary of every stored course ordered by id.
func (r *CourseRepo) ListCourses(ctx context.Context) ([]CourseSummary, error) {
	query, args := sqlite.Select("id", "title", "version", "key_points", "updated_at").
		From(sqlite.Table("courses")).
		OrderBy("id").
		Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query courses: %w", err)
	}
	defer rows.Close()

	var out []CourseSummary
	for rows.Next() {
		var (
			s         CourseSummary
			keyPoints string
			updatedAt string
		)
		if err := rows.Scan(&s.ID, &s.Title, &s.Version, &keyPoints, &updatedAt); err != nil {
			return nil, fmt.Errorf("scan course: %w", err)
		}
		var kps []json.RawMessage
		if err := json.Unmarshal([]byte(keyPoints), &kps); err != nil {
			return nil, fmt.Errorf("decode key points of %s: %w", s.ID, err)
		}
		s.KeyPoints = len(kps)
		if s.UpdatedAt, err = parseTime(updatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
