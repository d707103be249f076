package logging

import (
	"log/slog"
	"time"

	"github.com/ahmetcoskunkizilkaya/ratemyemployer/internal/models"
	"gorm.io/gorm"
)

const Retention = 30 * 24 * time.Hour

// PurgeOlderThan deletes error_logs rows recorded before the cutoff.
func PurgeOlderThan(db *gorm.DB, cutoff time.Time) (int64, error) {
	result := db.Where("timestamp < ?", cutoff).Delete(&models.ErrorLog{})
	return result.RowsAffected, result.Error
}

// StartCleanup purges error logs past Retention once a day until done is closed.
func StartCleanup(db *gorm.DB, done chan struct{}) {
	go func() {
		ticker := time.NewTicker(24 * time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				deleted, err := PurgeOlderThan(db, time.Now().Add(-Retention))
				if err != nil {
					slog.Error("log cleanup failed", "error", err)
				} else if deleted > 0 {
					slog.Info("log cleanup completed", "deleted", deleted)
				}
			case <-done:
				return
			}
		}
	}()
}
