package scheduler

import (
	"time"

	"github.com/nkuzn/shoply-backend/internal/app/repository"
	"github.com/nkuzn/shoply-backend/pkg/logger"
	"github.com/robfig/cron/v3"
)

// Soft-deleted rows older than this are removed for good.
const purgeRetention = 30 * 24 * time.Hour

// PurgeScheduler permanently removes soft-deleted products and comments on a
// nightly schedule.
type PurgeScheduler struct {
	cron        *cron.Cron
	productRepo repository.ProductRepository
	commentRepo repository.CommentRepository
}

func NewPurgeScheduler(
	productRepo repository.ProductRepository,
	commentRepo repository.CommentRepository,
) *PurgeScheduler {
	return &PurgeScheduler{
		cron:        cron.New(),
		productRepo: productRepo,
		commentRepo: commentRepo,
	}
}

// Start registers the nightly purge job (03:00 server time)
func (s *PurgeScheduler) Start() error {
	_, err := s.cron.AddFunc("0 3 * * *", s.runPurge)
	if err != nil {
		logger.Error("Failed to add cron job for purge", err)
		return err
	}

	s.cron.Start()
	logger.Info("Purge scheduler started successfully (daily at 3:00 AM)")

	return nil
}

func (s *PurgeScheduler) runPurge() {
	cutoff := time.Now().Add(-purgeRetention)

	logger.Info("Starting scheduled purge of soft-deleted rows", map[string]interface{}{
		"cutoff": cutoff.Format(time.RFC3339),
	})

	comments, err := s.commentRepo.PurgeDeletedBefore(cutoff)
	if err != nil {
		logger.Error("Failed to purge soft-deleted comments", err)
		return
	}

	products, err := s.productRepo.PurgeDeletedBefore(cutoff)
	if err != nil {
		logger.Error("Failed to purge soft-deleted products", err)
		return
	}

	logger.Info("Scheduled purge completed", map[string]interface{}{
		"products_purged": products,
		"comments_purged": comments,
	})
}

// Stop halts the scheduler; running jobs finish first
func (s *PurgeScheduler) Stop() {
	logger.Info("Stopping purge scheduler...")
	s.cron.Stop()
	logger.Info("Purge scheduler stopped")
}
