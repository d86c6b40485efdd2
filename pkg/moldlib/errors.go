package moldlib

import "fmt"

// PipelineError wraps a stage failure with its stage name. Only container
// failures halt a run; every other condition degrades into a
// classification value visible in the final report.
type PipelineError struct {
	Stage string // "catalog", "container", "registry", "materialize", "mapping_file", "labels"
	Err   error
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("pipeline stage %s: %v", e.Stage, e.Err)
}

func (e *PipelineError) Unwrap() error {
	return e.Err
}

func stageErr(stage string, err error) *PipelineError {
	return &PipelineError{Stage: stage, Err: err}
}
