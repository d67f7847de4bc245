// Package authoring drafts courses from free-form lecture notes with an LLM.
package authoring

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/cuckoo-ai/cuckoo/internal/course"
	"github.com/cuckoo-ai/cuckoo/internal/llm"
	"github.com/cuckoo-ai/cuckoo/internal/logger"
)

// DraftInput describes the course to draft.
type DraftInput struct {
	CourseID string
	Title    string // optional; the model proposes one when empty
	Version  string // optional semver stamped on the draft
	Notes    string

	// KeyPoints is the desired number of key points. Zero lets the model
	// decide from the notes.
	KeyPoints int

	// AvoidTopics lists topics already covered elsewhere.
	AvoidTopics []string
}

// ErrEmptyNotes is returned when there is nothing to draft from.
var ErrEmptyNotes = errors.New("lecture notes are empty")

// Drafter turns lecture notes into a course ready for import.
type Drafter struct {
	provider llm.Provider
	config   Config
	log      *logger.Logger
}

// New creates a Drafter with the given provider and config.
func New(provider llm.Provider, cfg Config, log *logger.Logger) *Drafter {
	if log == nil {
		log = logger.Nop()
	}
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	if cfg.MaxTokensCeiling < cfg.MaxTokens {
		cfg.MaxTokensCeiling = cfg.MaxTokens
	}
	return &Drafter{provider: provider, config: cfg, log: log}
}

// draftOutput is the raw LLM response before validation.
type draftOutput struct {
	Title     string            `json:"title"`
	KeyPoints []course.KeyPoint `json:"keyPoints"`
}

// Draft asks the model for key points and returns a validated course.
// A draft failing a retryable validator, cut off at the token budget or not
// matching the schema is requested again, with the failure fed back into the
// prompt, up to MaxAttempts times. Refusals and transport errors end the
// loop at once.
func (d *Drafter) Draft(ctx context.Context, input DraftInput) (*course.Course, error) {
	if strings.TrimSpace(input.CourseID) == "" {
		return nil, &course.ValidationError{Field: "id", Message: "must not be empty"}
	}
	if strings.TrimSpace(input.Notes) == "" {
		return nil, ErrEmptyNotes
	}
	label := llm.Label{Purpose: llm.PurposeCourseDraft, CourseID: input.CourseID}

	maxTokens := d.config.MaxTokens
	var feedback string
	var lastErr error
	for attempt := 1; attempt <= d.config.MaxAttempts; attempt++ {
		label.Attempt = attempt
		c, verr, err := d.draftOnce(llm.WithLabel(ctx, label), input, feedback, maxTokens)
		if err != nil {
			retry, ok := d.retryFeedback(err, &maxTokens)
			if !ok {
				return nil, err
			}
			d.log.Warn("draft reply unusable", "course_id", input.CourseID, "error", err,
				"attempt", attempt, "max_tokens", maxTokens)
			lastErr, feedback = err, retry
			continue
		}
		if verr == nil {
			d.log.Info("course drafted", "course_id", c.ID, "key_points", len(c.KeyPoints), "attempt", attempt)
			return c, nil
		}

		d.log.Warn("draft rejected", "course_id", input.CourseID, "validator", verr.Validator,
			"reason", verr.Message, "attempt", attempt)
		lastErr = verr
		if !verr.Retryable {
			break
		}
		feedback = verr.Message
	}
	return nil, lastErr
}

// retryFeedback decides whether a failed generation is worth another
// attempt and returns the feedback for it. A truncated draft raises the
// token budget up to MaxTokensCeiling; an off-schema draft is retried with
// the schema error.
func (d *Drafter) retryFeedback(err error, maxTokens *int) (string, bool) {
	var maxTok *llm.ErrMaxTokensExceeded
	if errors.As(err, &maxTok) {
		if *maxTokens >= d.config.MaxTokensCeiling {
			return "", false
		}
		*maxTokens = min(*maxTokens*2, d.config.MaxTokensCeiling)
		return fmt.Sprintf("the previous reply was cut off at %d tokens; keep statements short", maxTok.Limit), true
	}

	var inv *llm.ErrInvalidResponse
	if errors.As(err, &inv) {
		return "the previous reply did not match the JSON schema: " + inv.Err.Error(), true
	}
	return "", false
}

func (d *Drafter) draftOnce(ctx context.Context, input DraftInput, feedback string, maxTokens int) (*course.Course, *ValidationError, error) {
	req := llm.Request{
		System: systemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildUserMessage(input, d.config, feedback)},
		},
		Schema:      DraftSchema,
		MaxTokens:   maxTokens,
		Temperature: d.config.Temperature,
	}

	resp, err := d.provider.Generate(ctx, req)
	if err != nil {
		return nil, nil, fmt.Errorf("LLM generation failed: %w", err)
	}

	var raw draftOutput
	if err := json.Unmarshal(resp.Content, &raw); err != nil {
		return nil, nil, fmt.Errorf("failed to parse LLM response: %w", err)
	}

	c := &course.Course{
		ID:        input.CourseID,
		Title:     input.Title,
		Version:   input.Version,
		KeyPoints: normalize(raw.KeyPoints),
	}
	if c.Title == "" {
		c.Title = strings.TrimSpace(raw.Title)
	}

	for _, v := range d.config.Validators {
		if verr := v.Validate(c, d.config); verr != nil {
			return nil, verr, nil
		}
	}
	return c, nil, nil
}

// normalize trims whitespace and fills in the corrected statement of true
// key points when the model left it empty.
func normalize(kps []course.KeyPoint) []course.KeyPoint {
	out := make([]course.KeyPoint, len(kps))
	for i, kp := range kps {
		kp.Topic = strings.TrimSpace(kp.Topic)
		kp.Statement = strings.TrimSpace(kp.Statement)
		kp.CorrectStatement = strings.TrimSpace(kp.CorrectStatement)
		kp.Hint = strings.TrimSpace(kp.Hint)
		if kp.IsTrue && kp.CorrectStatement == "" {
			kp.CorrectStatement = kp.Statement
		}
		wrong := make([]string, 0, len(kp.WrongStatements))
		for _, w := range kp.WrongStatements {
			if w = strings.TrimSpace(w); w != "" {
				wrong = append(wrong, w)
			}
		}
		kp.WrongStatements = wrong
		out[i] = kp
	}
	return out
}
