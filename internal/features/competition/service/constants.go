package service

import "time"

const (
	// MaxConcurrentSweeps bounds how many competitions one sweep advances at
	// the same time.
	MaxConcurrentSweeps = 10

	// Per-competition retry inside a single sweep run. Failures beyond this
	// are picked up again on the next sweep.
	MaxRetries = 3
	RetryDelay = 2 * time.Second
)
