package db

import (
	"Gin_postgres_redis_equipment_tracker/models"
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// logHistory 在调用方的事务内追加一条审计行
func (r *Repo) logHistory(tx *gorm.DB, equipmentID, actorID, action string, conditionAfter, notes *string) error {
	h := &models.HistoryLog{
		ID:             uuid.NewString(),
		EquipmentID:    equipmentID,
		ActorID:        actorID,
		Action:         action,
		ConditionAfter: conditionAfter,
		Notes:          notes,
	}
	if err := tx.Create(h).Error; err != nil {
		return fmt.Errorf("insert history log: %w", err)
	}
	return nil
}

type HistoryQuery struct {
	EquipmentID string
	Page        int
	Size        int
}

type PagedHistory struct {
	Total int64               `json:"total"`
	Items []models.HistoryLog `json:"items"`
}

func (r *Repo) ListHistory(ctx context.Context, q HistoryQuery) (*PagedHistory, error) {
	if q.Page <= 0 {
		q.Page = 1
	}
	if q.Size <= 0 || q.Size > 200 {
		q.Size = 50
	}

	tx := r.DB.WithContext(ctx).Model(&models.HistoryLog{})
	if q.EquipmentID != "" {
		tx = tx.Where("equipment_id = ?", q.EquipmentID)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, err
	}

	var items []models.HistoryLog
	if err := tx.
		Order("created_at DESC").
		Offset((q.Page - 1) * q.Size).
		Limit(q.Size).
		Find(&items).Error; err != nil {
		return nil, err
	}
	return &PagedHistory{Total: total, Items: items}, nil
}
