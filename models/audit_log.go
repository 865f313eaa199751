package models

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

func GenerateAuditLogEntryUID() string {
	return GenerateUID("petriz_audit_logentry_")
}

// ActionStatus records whether an audited action succeeded.
type ActionStatus string

const (
	ActionSuccess ActionStatus = "success"
	ActionError   ActionStatus = "error"
)

// AuditLogEntry is an append-only record of an action performed
// against the API.
type AuditLogEntry struct {
	ID        uint      `gorm:"primarykey" json:"-"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`

	UID string `gorm:"size:50;uniqueIndex" json:"uid"`
	// The event that occurred, e.g. "search", "term_create".
	Event     string `gorm:"size:255;index;not null" json:"event"`
	UserAgent string `gorm:"size:255" json:"user_agent,omitempty"`
	IPAddress string `gorm:"size:45;index" json:"ip_address,omitempty"`
	// Who performed the action. Currently always an API client.
	ActorUID  string `gorm:"size:50;index" json:"actor_uid,omitempty"`
	ActorType string `gorm:"size:50;index" json:"actor_type,omitempty"`
	// What the action was performed on.
	Target    string `gorm:"size:255;index" json:"target,omitempty"`
	TargetUID string `gorm:"size:50;index" json:"target_uid,omitempty"`

	Description string                 `gorm:"size:500" json:"description,omitempty"`
	Status      ActionStatus           `gorm:"size:20;index;not null" json:"status"`
	Data        map[string]interface{} `gorm:"serializer:json" json:"data,omitempty"`
}

var ErrAuditLogImmutable = errors.New("audit log entries are immutable")

// BeforeUpdate rejects any update. Audit log entries can only be
// created.
func (e *AuditLogEntry) BeforeUpdate(*gorm.DB) error {
	return ErrAuditLogImmutable
}

func CreateAuditLogEntry(db *gorm.DB, entry *AuditLogEntry) error {
	if entry.UID == "" {
		entry.UID = GenerateAuditLogEntryUID()
	}
	if entry.Status == "" {
		entry.Status = ActionSuccess
	}

	return db.Create(entry).Error
}

// AuditLogFilters narrows down an audit log listing.
type AuditLogFilters struct {
	Event        string
	ActorUID     string
	Status       ActionStatus
	TimestampGte *time.Time
	TimestampLte *time.Time
	Limit        int
	Offset       int
}

// SearchAuditLogs lists audit log entries, newest first.
func SearchAuditLogs(db *gorm.DB, filters AuditLogFilters) ([]AuditLogEntry, error) {
	tx := db.Model(&AuditLogEntry{})

	if filters.Event != "" {
		tx = tx.Where("event = ?", filters.Event)
	}
	if filters.ActorUID != "" {
		tx = tx.Where("actor_uid = ?", filters.ActorUID)
	}
	if filters.Status != "" {
		tx = tx.Where("status = ?", filters.Status)
	}
	if filters.TimestampGte != nil {
		tx = tx.Where("created_at >= ?", *filters.TimestampGte)
	}
	if filters.TimestampLte != nil {
		tx = tx.Where("created_at <= ?", *filters.TimestampLte)
	}

	limit := filters.Limit
	if limit <= 0 {
		limit = 100
	}

	var entries []AuditLogEntry
	err := tx.
		Order("created_at DESC").
		Limit(limit).
		Offset(filters.Offset).
		Find(&entries).Error
	if err != nil {
		return nil, err
	}

	return entries, nil
}
