package quiz

import "time"

const (
	DefaultCompletionThreshold = 90
	DefaultPassingScore        = 80
	DefaultBlockDuration       = 10 * 24 * time.Hour
)

// Policy holds the business rules of the quiz gate.
type Policy struct {
	// CompletionThreshold is the minimum completion percentage required to
	// attempt the quiz and to be certificate eligible.
	CompletionThreshold int
	// DefaultPassingScore applies when a quiz is created without one.
	DefaultPassingScore int
	// BlockDuration is how long a reported violation bars the learner.
	BlockDuration time.Duration
}

func DefaultPolicy() Policy {
	return Policy{
		CompletionThreshold: DefaultCompletionThreshold,
		DefaultPassingScore: DefaultPassingScore,
		BlockDuration:       DefaultBlockDuration,
	}
}
