package domain

// Submission outcomes reported to Metrics.
const (
	OutcomeAccepted   = "accepted"
	OutcomeRejected   = "rejected"
	OutcomeStoreError = "store_error"
)

// Metrics records registration activity.
type Metrics interface {
	ObserveSubmission(outcome string)
	AddRegistrationsCreated(n int)
	IncRealtimeRefresh()
}
