package metrics

import "time"

// ResultLabel enumerates category result outcomes for counters.
type ResultLabel string

const (
	ResultSuccess  ResultLabel = "success"
	ResultInvalid  ResultLabel = "invalid"
	ResultFailed   ResultLabel = "failed"
	ResultCanceled ResultLabel = "canceled"
)

// OutcomeLabel enumerates the final status of a whole materialization.
type OutcomeLabel string

const (
	OutcomeSuccess OutcomeLabel = "success"
	OutcomeFailed  OutcomeLabel = "failed"
	OutcomeAborted OutcomeLabel = "aborted"
)

// Recorder defines observability hooks for materialization and the collaborators
// around it. Implementations may forward to Prometheus. All methods must be safe
// for nil receivers when using the NoopRecorder (allowing optional injection).
type Recorder interface {
	ObserveCategoryDuration(category string, d time.Duration)
	IncCategoryResult(category string, result ResultLabel)
	AddFilesWritten(category string, n int)
	ObserveMaterializeDuration(d time.Duration)
	IncMaterializeOutcome(outcome OutcomeLabel)
	ObserveBackendRequest(endpoint string, d time.Duration, success bool)
	IncBackendRetry(endpoint string)
	ObserveBuildDuration(tool, action string, d time.Duration, success bool)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveCategoryDuration(string, time.Duration)            {}
func (NoopRecorder) IncCategoryResult(string, ResultLabel)                    {}
func (NoopRecorder) AddFilesWritten(string, int)                              {}
func (NoopRecorder) ObserveMaterializeDuration(time.Duration)                 {}
func (NoopRecorder) IncMaterializeOutcome(OutcomeLabel)                       {}
func (NoopRecorder) ObserveBackendRequest(string, time.Duration, bool)        {}
func (NoopRecorder) IncBackendRetry(string)                                   {}
func (NoopRecorder) ObserveBuildDuration(string, string, time.Duration, bool) {}
