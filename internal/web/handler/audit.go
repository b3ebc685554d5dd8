package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/better-auth-admin/better-auth-admin/internal/config"
	"github.com/better-auth-admin/better-auth-admin/internal/db/controller/audit"
	"github.com/better-auth-admin/better-auth-admin/internal/db/models"
	fiberlogger "github.com/better-auth-admin/better-auth-admin/internal/logger/adapter/fiber"
)

// Auditor writes and reads the admin action log. A disabled Auditor is a
// no-op. Failures are logged and never reach the caller.
type Auditor struct {
	db      *gorm.DB
	enabled bool
	limit   int
}

// NewAuditor returns the Auditor configured by cfg.Audit.
func NewAuditor(cfg *config.Config, db *gorm.DB) Auditor {
	return Auditor{
		db:      db,
		enabled: cfg.Audit.Enabled && db != nil,
		limit:   cfg.Audit.RecentLimit,
	}
}

// Outcome maps an action result to an audit outcome.
func Outcome(err error) string {
	if err != nil {
		return models.OutcomeFailure
	}

	return models.OutcomeSuccess
}

// Record stores entry with the request id of c and, when signed in, its
// actor.
func (a Auditor) Record(c *fiber.Ctx, entry models.AuditEntry) {
	if !a.enabled {
		return
	}

	// sign-in entries are written before a session exists
	if actor := CurrentSession(c).User; actor.ID != "" {
		entry.ActorID = actor.ID
		entry.ActorEmail = actor.Email
	}

	entry.RequestID = fiberlogger.RequestID(c)

	if err := audit.Record(a.db, &entry); err != nil {
		log.Error().Err(err).
			Str("action", entry.Action).
			Str("target", entry.TargetID).
			Msg("failed to write audit entry")
	}
}

// Recent returns the latest entries for the dashboard.
func (a Auditor) Recent() []models.AuditEntry {
	if !a.enabled {
		return nil
	}

	entries, err := audit.Recent(a.db, a.limit)
	if err != nil {
		log.Error().Err(err).Msg("failed to read audit entries")
	}

	return entries
}

// ForTarget returns the latest entries about one user or organization.
func (a Auditor) ForTarget(targetType, targetID string) []models.AuditEntry {
	if !a.enabled {
		return nil
	}

	entries, err := audit.ForTarget(a.db, targetType, targetID, a.limit)
	if err != nil {
		log.Error().Err(err).Str("target", targetID).Msg("failed to read audit entries")
	}

	return entries
}
