package jobs

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"

	"github.com/CAESER-UOFM/CAESER-water-levels-monitoring-system-sub000/internal/constants"
	readingsJob "github.com/CAESER-UOFM/CAESER-water-levels-monitoring-system-sub000/internal/jobs/readings"
	wellsJob "github.com/CAESER-UOFM/CAESER-water-levels-monitoring-system-sub000/internal/jobs/wells"
)

// JobRegistration holds job metadata for registration and worker generation
type JobRegistration struct {
	TaskType string                                   `json:"task_type"`
	Handler  func(context.Context, *asynq.Task) error `json:"-"` // Not serialized
	Queue    string                                   `json:"queue"`
}

// RegisterHandlers registers all job handlers with the asynq server mux and returns job metadata
func RegisterHandlers(mux *asynq.ServeMux) ([]JobRegistration, error) {
	jobs := []JobRegistration{
		// Critical: reading ingestion feeds the live dashboards.
		{
			TaskType: readingsJob.TypeReadingsImport,
			Handler:  readingsJob.HandleReadingsImport,
			Queue:    constants.QueueCritical,
		},

		// Default
		{
			TaskType: wellsJob.TypeWellsSync,
			Handler:  wellsJob.HandleWellsSync,
			Queue:    constants.QueueDefault,
		},

		// Low
	}

	// Validate queue names
	for _, job := range jobs {
		if !constants.IsValidQueue(job.Queue) {
			return nil, fmt.Errorf("invalid queue '%s' for job '%s'. Valid queues: %v",
				job.Queue, job.TaskType, constants.GetAllQueues())
		}
	}

	// Register handlers with mux (if provided)
	if mux != nil {
		for _, job := range jobs {
			mux.HandleFunc(job.TaskType, job.Handler)
		}
	}

	return jobs, nil
}

// GetRegisteredJobs returns job metadata without handlers (for worker generation)
func GetRegisteredJobs() ([]JobRegistration, error) {
	return RegisterHandlers(nil) // No mux = no registration, just return metadata
}
