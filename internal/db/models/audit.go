// Package models contains database model definitions.
package models

import "time"

// Audit outcomes.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomeDenied  = "denied"
)

// Audit target types.
const (
	TargetUser         = "user"
	TargetOrganization = "organization"
	TargetSession      = "session"
)

// AuditEntry is one admin action performed through the dashboard.
type AuditEntry struct {
	ID          uint64    `gorm:"primaryKey"`
	CreatedAt   time.Time `gorm:"index"`
	RequestID   string    `gorm:"size:64"`
	ActorID     string    `gorm:"size:64;index"`
	ActorEmail  string    `gorm:"size:255"`
	Action      string    `gorm:"size:64;index"`
	TargetType  string    `gorm:"size:32;index:idx_audit_target"`
	TargetID    string    `gorm:"size:64;index:idx_audit_target"`
	TargetLabel string    `gorm:"size:255"`
	Outcome     string    `gorm:"size:16"`
	Message     string    `gorm:"size:1024"`
}

// Succeeded reports whether the action went through.
func (e AuditEntry) Succeeded() bool {
	return e.Outcome == OutcomeSuccess
}
