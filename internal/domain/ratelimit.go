package domain

import "time"

// RateDecision is the outcome of one rate limiter hit.
type RateDecision struct {
	Allowed    bool
	Limit      int
	Remaining  int
	RetryAfter time.Duration
	Count      int
}
