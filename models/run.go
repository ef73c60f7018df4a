package models

import "time"

// Run outcomes reported by the reconciliation engine.
const (
	// RunOutcomeSucceeded means the full entity set was assembled and the
	// mutation was applied (possibly with isolated per-kind failures).
	RunOutcomeSucceeded = "succeeded"

	// RunOutcomeFailed means the namespace list itself could not be fetched
	// and no mutation was submitted.
	RunOutcomeFailed = "failed"
)

// KindFailure records one isolated per-(namespace, kind) fetch failure.
// The affected pair contributed zero entities to the run.
type KindFailure struct {
	// Namespace is the namespace the fetch was scoped to, or
	// ClusterNamespace for cluster-scoped kinds.
	Namespace string `json:"namespace"`

	// Kind is the entity kind that could not be fetched.
	Kind string `json:"kind"`

	// Reason is the underlying error message.
	Reason string `json:"reason"`
}

// RunResult summarizes one reconciliation run for the ops API and logs.
type RunResult struct {
	// RunID is the unique identifier of this run.
	RunID string `json:"runId"`

	// Outcome is one of the RunOutcome* constants.
	Outcome string `json:"outcome"`

	// StartedAt is when the run began.
	StartedAt time.Time `json:"startedAt"`

	// FinishedAt is when the run completed.
	FinishedAt time.Time `json:"finishedAt"`

	// Namespaces is the number of namespaces crawled.
	Namespaces int `json:"namespaces"`

	// Entities is the number of entities submitted in the mutation.
	Entities int `json:"entities"`

	// Failures lists the isolated per-(namespace, kind) fetch failures.
	Failures []KindFailure `json:"failures,omitempty"`
}
