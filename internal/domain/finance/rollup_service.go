package finance

// RollupService rebuilds a job sheet's status histograms from its children's
// current statuses. The recomputation is always wholesale: the caller reloads
// every non-voided child of the relevant kind inside the same transaction as
// the triggering mutation and hands the statuses here. Incremental counters
// would drift under concurrent edits and voids.
type RollupService struct{}

// NewRollupService creates a new RollupService
func NewRollupService() *RollupService {
	return &RollupService{}
}

// BuildHistogram counts occurrences of each distinct status value
func (s *RollupService) BuildHistogram(statuses []string) StatusCounts {
	counts := StatusCounts{}
	for _, status := range statuses {
		counts[status]++
	}
	return counts
}
