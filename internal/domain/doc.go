// Package domain contains the core domain model for the review session
// orchestration layer: cards sourced from the external scheduling engine,
// review grades, per-session statistics, and the session state owned by
// the session store.
package domain
