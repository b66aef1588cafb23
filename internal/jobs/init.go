package jobs

import (
	"context"
	"time"

	"smartpark-alliance/smartpark/internal/services"
)

// Container holds the background jobs for manual triggering
type Container struct {
	Archive *ArchiveJob
}

// InitializeJobs initializes and starts all background jobs
func InitializeJobs(ctx context.Context, archive *services.ArchiveService) *Container {
	archiveJob := NewArchiveJob(archive)

	// Elapsed flights are archived every few minutes; the manual trigger
	// endpoint covers anything more urgent.
	go archiveJob.RunScheduled(ctx, 5*time.Minute)

	return &Container{Archive: archiveJob}
}
