package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

/* =========================
   Model: audit_logs
========================= */

type AuditLogModel struct {
	AuditLogID          uuid.UUID      `gorm:"type:uuid;primaryKey;column:audit_log_id" json:"audit_log_id"`
	AuditLogAction      string         `gorm:"type:varchar(50);not null;index;column:audit_log_action" json:"audit_log_action"`
	AuditLogEntity      string         `gorm:"type:varchar(50);not null;index;column:audit_log_entity" json:"audit_log_entity"`
	AuditLogEntityID    *uuid.UUID     `gorm:"type:uuid;index;column:audit_log_entity_id" json:"audit_log_entity_id,omitempty"`
	AuditLogPerformedBy uuid.UUID      `gorm:"type:uuid;not null;index;column:audit_log_performed_by" json:"audit_log_performed_by"`
	AuditLogUserRole    string         `gorm:"type:varchar(20);column:audit_log_user_role" json:"audit_log_user_role"`
	AuditLogIPAddress   *string        `gorm:"type:varchar(45);column:audit_log_ip_address" json:"audit_log_ip_address,omitempty"`
	AuditLogUserAgent   *string        `gorm:"type:text;column:audit_log_user_agent" json:"audit_log_user_agent,omitempty"`
	AuditLogOldValues   datatypes.JSON `gorm:"type:jsonb;column:audit_log_old_values" json:"audit_log_old_values,omitempty"`
	AuditLogNewValues   datatypes.JSON `gorm:"type:jsonb;column:audit_log_new_values" json:"audit_log_new_values,omitempty"`
	AuditLogChanges     datatypes.JSON `gorm:"type:jsonb;column:audit_log_changes" json:"audit_log_changes,omitempty"`

	AuditLogCreatedAt time.Time `gorm:"not null;autoCreateTime;index;column:audit_log_created_at" json:"audit_log_created_at"`
}

func (AuditLogModel) TableName() string {
	return "audit_logs"
}

func (m *AuditLogModel) BeforeCreate(tx *gorm.DB) error {
	if m.AuditLogID == uuid.Nil {
		m.AuditLogID = uuid.New()
	}
	return nil
}
