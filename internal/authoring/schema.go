package authoring

import (
	"maps"
	"slices"

	"github.com/samber/lo"

	"github.com/cuckoo-ai/cuckoo/internal/course"
	"github.com/cuckoo-ai/cuckoo/internal/llm"
)

// DraftSchema is the structured output requested from the model. Key points
// use the course file properties, with every field required so that strict
// JSON schema modes accept it.
var DraftSchema = &llm.Schema{
	Name:        "course-draft",
	Description: "Key points extracted from lecture notes, each with a true/false flag, a corrected statement, wrong statements and a hint",
	Definition: strictObject(map[string]any{
		"title": map[string]any{
			"type":        "string",
			"description": "A short course title in the language of the notes",
		},
		"keyPoints": map[string]any{
			"type":     "array",
			"minItems": 1,
			"items":    strictObject(keyPointProperties()),
		},
	}),
}

func keyPointProperties() map[string]any {
	props := maps.Clone(course.KeyPointSchema["properties"].(map[string]any))
	props["topic"] = describe(props["topic"], "Two to six characters naming the concept; learners ask about it by this word")
	props["statement"] = describe(props["statement"], "One sentence as it would be said in the lecture; deliberately false when isTrue is false")
	props["isTrue"] = describe(props["isTrue"], "Whether statement is true")
	// Empty is allowed for true key points; normalize copies the statement.
	correct := describe(props["correctStatement"], "The true version of the statement; may be empty when isTrue is true")
	delete(correct, "minLength")
	props["correctStatement"] = correct
	props["wrongStatements"] = describe(props["wrongStatements"], "Plausible but false statements about the topic, used as quiz distractors")
	props["hint"] = describe(props["hint"], "A short nudge shown after a wrong quiz answer")
	return props
}

func describe(prop any, description string) map[string]any {
	out := maps.Clone(prop.(map[string]any))
	out["description"] = description
	return out
}

func strictObject(props map[string]any) map[string]any {
	required := lo.Map(slices.Sorted(maps.Keys(props)), func(k string, _ int) any { return k })
	return map[string]any{
		"type":                 "object",
		"properties":           props,
		"required":             required,
		"additionalProperties": false,
	}
}
