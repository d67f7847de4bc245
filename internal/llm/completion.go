package llm

import (
	"encoding/json"

	"github.com/cuckoo-ai/cuckoo/internal/schema"
)

// Normalized stop reasons reported in Response.StopReason.
const (
	StopEnd       = "end"
	StopMaxTokens = "max_tokens"
	StopRefused   = "refused"
)

// completion is a provider reply reduced to the fields every backend shares.
// Adapters build one and hand it to response, so truncation, refusals and
// schema checks behave the same whichever model drafted the course.
type completion struct {
	text    string
	stop    string
	refusal string
	usage   Usage
	model   string
}

func (c completion) response(req Request) (*Response, error) {
	content := json.RawMessage(c.text)

	switch c.stop {
	case StopMaxTokens:
		return nil, &ErrMaxTokensExceeded{Limit: req.MaxTokens, Content: content}
	case StopRefused:
		return nil, &ErrRefused{Reason: c.refusal}
	}

	if req.Schema != nil {
		if err := req.Schema.check(content); err != nil {
			return nil, err
		}
	}

	return &Response{
		Content:    content,
		Usage:      c.usage,
		Model:      c.model,
		StopReason: StopEnd,
	}, nil
}

// check validates content against the schema definition.
func (s *Schema) check(content json.RawMessage) error {
	compiled, err := schema.Compile(s.Name, s.Definition)
	if err != nil {
		return &ErrInvalidResponse{Content: content, Err: err}
	}
	if err := compiled.Validate(content); err != nil {
		return &ErrInvalidResponse{Content: content, Err: err}
	}
	return nil
}
