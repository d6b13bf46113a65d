package service

import (
	"log"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"pelatihanku_backend/internals/access"
	"pelatihanku_backend/internals/features/audits/model"
)

type AuditService struct {
	DB *gorm.DB
}

func NewAuditService(db *gorm.DB) *AuditService {
	return &AuditService{DB: db}
}

type Entry struct {
	Action    string
	Entity    string
	EntityID  *uuid.UUID
	OldValues interface{}
	NewValues interface{}
	IPAddress string
	UserAgent string
}

type fieldChange struct {
	Field    string      `json:"field"`
	OldValue interface{} `json:"old_value"`
	NewValue interface{} `json:"new_value"`
}

// Record menulis jejak audit best-effort: kegagalan hanya di-log,
// tidak pernah menggagalkan operasi utama.
func (s *AuditService) Record(p access.Principal, e Entry) {
	row := model.AuditLogModel{
		AuditLogAction:      e.Action,
		AuditLogEntity:      e.Entity,
		AuditLogEntityID:    e.EntityID,
		AuditLogPerformedBy: p.ID,
		AuditLogUserRole:    p.Role,
	}
	if e.IPAddress != "" {
		row.AuditLogIPAddress = &e.IPAddress
	}
	if e.UserAgent != "" {
		row.AuditLogUserAgent = &e.UserAgent
	}
	row.AuditLogOldValues = marshalJSON(e.OldValues)
	row.AuditLogNewValues = marshalJSON(e.NewValues)
	row.AuditLogChanges = marshalJSON(diffValues(e.OldValues, e.NewValues))

	if err := s.DB.Create(&row).Error; err != nil {
		log.Printf("[WARNING] audit %s/%s gagal disimpan: %v", e.Entity, e.Action, err)
	}
}

// FindAll untuk endpoint admin; filter opsional entity/action.
func (s *AuditService) FindAll(entity, action string, limit, offset int) ([]model.AuditLogModel, int64, error) {
	q := s.DB.Model(&model.AuditLogModel{})
	if entity != "" {
		q = q.Where("audit_log_entity = ?", entity)
	}
	if action != "" {
		q = q.Where("audit_log_action = ?", action)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []model.AuditLogModel
	if err := q.
		Order("audit_log_created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

/* =========================
   Internal helpers
========================= */

func marshalJSON(v interface{}) datatypes.JSON {
	if v == nil {
		return nil
	}
	raw, err := sonic.Marshal(v)
	if err != nil {
		return nil
	}
	return datatypes.JSON(raw)
}

// diffValues membandingkan old/new lewat representasi map hasil marshal.
func diffValues(oldV, newV interface{}) []fieldChange {
	if oldV == nil || newV == nil {
		return nil
	}
	oldMap := toMap(oldV)
	newMap := toMap(newV)
	if oldMap == nil || newMap == nil {
		return nil
	}

	var changes []fieldChange
	for field, newVal := range newMap {
		oldVal, ok := oldMap[field]
		if !ok {
			continue
		}
		oldRaw, _ := sonic.Marshal(oldVal)
		newRaw, _ := sonic.Marshal(newVal)
		if string(oldRaw) != string(newRaw) {
			changes = append(changes, fieldChange{Field: field, OldValue: oldVal, NewValue: newVal})
		}
	}
	return changes
}

func toMap(v interface{}) map[string]interface{} {
	raw, err := sonic.Marshal(v)
	if err != nil {
		return nil
	}
	var m map[string]interface{}
	if err := sonic.Unmarshal(raw, &m); err != nil {
		return nil
	}
	return m
}
