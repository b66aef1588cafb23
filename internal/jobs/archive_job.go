package jobs

import (
	"context"
	"time"

	"smartpark-alliance/smartpark/internal/logging"
	"smartpark-alliance/smartpark/internal/services"
)

// ArchiveJob periodically completes flights whose occupation has ended and
// writes them to the allocation history
type ArchiveJob struct {
	archive *services.ArchiveService
}

// NewArchiveJob creates a new archive job
func NewArchiveJob(archive *services.ArchiveService) *ArchiveJob {
	return &ArchiveJob{archive: archive}
}

// Run executes one archival sweep
func (j *ArchiveJob) Run(ctx context.Context) (int, error) {
	return j.archive.CompleteElapsed(ctx)
}

// RunScheduled runs the sweep on a fixed interval until ctx is cancelled
func (j *ArchiveJob) RunScheduled(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	logging.Info("Archive job scheduled", "interval", interval.String())

	for {
		select {
		case <-ctx.Done():
			logging.Info("Archive job stopped")
			return
		case <-ticker.C:
			if _, err := j.Run(ctx); err != nil {
				logging.Error("Archive sweep failed", "error", err.Error())
			}
		}
	}
}
