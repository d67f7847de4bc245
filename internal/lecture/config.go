package lecture

// Config holds the engine tunables.
type Config struct {
	// HistoryWindow is how many recent room messages a turn looks at.
	HistoryWindow int

	// QuizLookback is how many lecture messages must precede a quiz, and
	// how many recent messages are scanned for an earlier quiz.
	QuizLookback int

	// FeedbackThreshold is the run of consecutive lecture messages after
	// which the engine may stop to ask for feedback. It only has an effect
	// when HistoryWindow is at least as large.
	FeedbackThreshold int

	// FeedbackProbability is the chance of asking for feedback once the
	// threshold is reached.
	FeedbackProbability float64

	// ProgressStep is the progress gained per lecture segment.
	ProgressStep int

	// FixedQuizAnswer marks option 1 as correct in every multiple-choice
	// quiz regardless of shuffling. Compatibility switch for clients that
	// relied on the old behavior.
	FixedQuizAnswer bool
}

// DefaultConfig returns the standard engine configuration.
func DefaultConfig() Config {
	return Config{
		HistoryWindow:       5,
		QuizLookback:        3,
		FeedbackThreshold:   10,
		FeedbackProbability: 0.8,
		ProgressStep:        10,
	}
}
