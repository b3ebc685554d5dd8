// Package audit stores and queries the admin action log.
package audit

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/better-auth-admin/better-auth-admin/internal/db/models"
)

const (
	targetQueryPattern = "target_type = ? AND target_id = ?"
	newestFirst        = "created_at DESC, id DESC"
	day                = 24 * time.Hour
)

var (
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
	// ErrActionEmpty is returned when recording an entry without an action.
	ErrActionEmpty = errors.New("audit action cannot be empty")
	// ErrInvalidRetention is returned by Prune for a retention below one day.
	ErrInvalidRetention = errors.New("audit retention must be at least one day")
)

// Record stores entry. A missing outcome is stored as success.
func Record(db *gorm.DB, entry *models.AuditEntry) error {
	if db == nil {
		return ErrDBNil
	}

	if entry == nil || entry.Action == "" {
		return ErrActionEmpty
	}

	if entry.Outcome == "" {
		entry.Outcome = models.OutcomeSuccess
	}

	return db.Create(entry).Error
}

// Recent returns the latest limit entries, newest first.
func Recent(db *gorm.DB, limit int) ([]models.AuditEntry, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var entries []models.AuditEntry

	result := db.Order(newestFirst).Limit(limit).Find(&entries)
	if result.Error != nil {
		return nil, result.Error
	}

	return entries, nil
}

// ForTarget returns the latest limit entries about one user or organization.
func ForTarget(db *gorm.DB, targetType, targetID string, limit int) ([]models.AuditEntry, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var entries []models.AuditEntry

	result := db.Where(targetQueryPattern, targetType, targetID).
		Order(newestFirst).
		Limit(limit).
		Find(&entries)
	if result.Error != nil {
		return nil, result.Error
	}

	return entries, nil
}

// Prune deletes entries older than days and returns how many were removed.
func Prune(db *gorm.DB, days int) (int64, error) {
	if db == nil {
		return 0, ErrDBNil
	}

	if days < 1 {
		return 0, ErrInvalidRetention
	}

	cutoff := time.Now().Add(-time.Duration(days) * day)

	result := db.Where("created_at < ?", cutoff).Delete(&models.AuditEntry{})
	if result.Error != nil {
		return 0, result.Error
	}

	return result.RowsAffected, nil
}
