package entity

// SyncReport holds the aggregated outcome of one sync run.
type SyncReport struct {
	// Scanned is the number of history messages inspected.
	Scanned int

	// Indexed is the number of event URLs recovered from history.
	Indexed int

	// Duplicates is the number of history messages discarded because an
	// earlier (more recent) message already claimed their event URL.
	Duplicates int

	// Fetched is the number of events returned by the calendar service.
	Fetched int

	// Created, Skipped and Failed count the per-event publish outcomes.
	Created int
	Skipped int
	Failed  int
}

// HasFailures reports whether any create action failed to publish.
func (r *SyncReport) HasFailures() bool {
	return r.Failed > 0
}
