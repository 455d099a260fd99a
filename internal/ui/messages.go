package ui

import "github.com/linuxmatters/noisemix/internal/batch"

// JobStartMsg marks a mix job leaving the queue.
type JobStartMsg struct {
	Job batch.Job
}

// JobDoneMsg carries the outcome of one finished (or skipped) job.
type JobDoneMsg struct {
	Result batch.JobResult
}

// RunDoneMsg signals the end of the whole run.
type RunDoneMsg struct {
	Summary *batch.Summary
	Err     error
}
