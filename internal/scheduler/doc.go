// Package scheduler abstracts the external scheduling engine that owns
// spaced-repetition ordering and card selection. The orchestration layer
// consumes it through a narrow fetch-queue / grade-card contract and never
// sees scheduling internals.
package scheduler
