package ingest

// stageStatus classifies the outcome of one pipeline stage so retry policy
// is an explicit decision instead of implicit control flow.
type stageStatus int

const (
	// stageOK: the stage completed.
	stageOK stageStatus = iota
	// stageTransient: the stage failed but the pipeline continues; the
	// backup stage is retried once after processing.
	stageTransient
	// stageFatal: the stage failed and the rest of the pipeline is
	// skipped. Cleanup still runs.
	stageFatal
)

type stageResult struct {
	status stageStatus
	err    error
}

func ok() stageResult                 { return stageResult{status: stageOK} }
func transient(err error) stageResult { return stageResult{status: stageTransient, err: err} }
func fatal(err error) stageResult     { return stageResult{status: stageFatal, err: err} }
