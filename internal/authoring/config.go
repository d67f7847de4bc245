package authoring

// Config controls the behavior of the Drafter.
type Config struct {
	// Validators run in order on every draft. The first failure stops
	// the pipeline.
	Validators []Validator

	// MaxAttempts bounds how often a draft failing a retryable validator
	// is requested again.
	MaxAttempts int

	// MaxTokens is the token budget for the first attempt. A truncated
	// draft doubles it for the next attempt, up to MaxTokensCeiling.
	MaxTokens        int
	MaxTokensCeiling int

	// Temperature controls LLM output randomness (0.0-1.0).
	Temperature float64

	// WrongStatements is the number of distractors asked for per key point.
	WrongStatements int

	// MaxNotesRunes truncates the lecture notes sent to the model.
	MaxNotesRunes int
}

// DefaultConfig returns a Config with the standard validator chain.
func DefaultConfig() Config {
	return Config{
		Validators: []Validator{
			&StructuralValidator{},
			&DistinctTopicsValidator{},
		},
		MaxAttempts:      2,
		MaxTokens:        4096,
		MaxTokensCeiling: 16384,
		Temperature:      0.4,
		WrongStatements:  3,
		MaxNotesRunes:    20000,
	}
}
