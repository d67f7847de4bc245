package llm

import "context"

// PurposeCourseDraft labels requests that draft course key points.
const PurposeCourseDraft = "course-draft"

// Label says what a request was made for. It is recorded with every event.
type Label struct {
	Purpose  string
	CourseID string
	Attempt  int
}

type labelKey struct{}

// WithLabel attaches l to the context for event logging.
func WithLabel(ctx context.Context, l Label) context.Context {
	return context.WithValue(ctx, labelKey{}, l)
}

// LabelFrom returns the label attached to ctx. Purpose is "unknown" when
// none was set.
func LabelFrom(ctx context.Context) Label {
	l, _ := ctx.Value(labelKey{}).(Label)
	if l.Purpose == "" {
		l.Purpose = "unknown"
	}
	return l
}
