// db/repo_equipment.go
package db

import (
	"Gin_postgres_redis_equipment_tracker/apperr"
	"Gin_postgres_redis_equipment_tracker/models"
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Equipment Registry：登记设备。status 的借还流转不走这里，见 repo_lifecycle.go。

func validateEquipment(e *models.Equipment) error {
	if strings.TrimSpace(e.Name) == "" {
		return apperr.Validation("name is required")
	}
	if strings.TrimSpace(e.Type) == "" {
		return apperr.Validation("type is required")
	}
	if e.Quantity < 1 {
		return apperr.Validation("quantity must be >= 1")
	}
	if !models.ValidCondition(e.Condition) {
		return apperr.Validation("invalid condition: " + e.Condition)
	}
	if !models.ValidEquipmentStatus(e.Status) {
		return apperr.Validation("invalid status: " + e.Status)
	}
	return nil
}

func (r *Repo) CreateEquipment(ctx context.Context, e *models.Equipment, actorID string) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Condition == "" {
		e.Condition = models.ConditionGood
	}
	if e.Status == "" {
		e.Status = models.EquipmentAvailable
	}
	if e.Quantity == 0 {
		e.Quantity = 1
	}
	if err := validateEquipment(e); err != nil {
		return err
	}
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(e).Error; err != nil {
			return err
		}
		return r.logHistory(tx, e.ID, actorID, models.ActionEquipmentCreated, &e.Condition, nil)
	})
}

type UpdateEquipmentInput struct {
	Name         *string `json:"name"`
	Type         *string `json:"type"`
	Condition    *string `json:"condition"`
	Status       *string `json:"status"`
	Quantity     *int    `json:"quantity"`
	Location     *string `json:"location"`
	PhotoURL     *string `json:"photoUrl"`
	Description  *string `json:"description"`
	SerialNumber *string `json:"serialNumber"`
}

// UpdateEquipment 管理员编辑。status 字段在存在未完结请求时不可改，
// 借出/归还的流转由 Coordinator 独占。
func (r *Repo) UpdateEquipment(ctx context.Context, id string, in UpdateEquipmentInput, actorID string) (*models.Equipment, error) {
	var e models.Equipment
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&e, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("equipment not found")
			}
			return err
		}

		if in.Status != nil && *in.Status != e.Status {
			var active int64
			if err := tx.Model(&models.Request{}).
				Where("equipment_id = ? AND status IN ?", id, []string{models.RequestPending, models.RequestApproved}).
				Count(&active).Error; err != nil {
				return err
			}
			if active > 0 {
				return apperr.Conflict("equipment has active requests, status is managed by the request workflow")
			}
			e.Status = *in.Status
		}
		if in.Name != nil {
			e.Name = *in.Name
		}
		if in.Type != nil {
			e.Type = *in.Type
		}
		if in.Condition != nil {
			e.Condition = *in.Condition
		}
		if in.Quantity != nil {
			e.Quantity = *in.Quantity
		}
		if in.Location != nil {
			e.Location = *in.Location
		}
		if in.PhotoURL != nil {
			e.PhotoURL = *in.PhotoURL
		}
		if in.Description != nil {
			e.Description = *in.Description
		}
		if in.SerialNumber != nil {
			e.SerialNumber = in.SerialNumber
		}
		if err := validateEquipment(&e); err != nil {
			return err
		}
		if err := tx.Save(&e).Error; err != nil {
			return err
		}
		return r.logHistory(tx, e.ID, actorID, models.ActionEquipmentUpdated, &e.Condition, nil)
	})
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// DeleteEquipment 仅当没有 pending/approved 请求时可删；
// 随后级联删除该设备的请求与历史日志。
func (r *Repo) DeleteEquipment(ctx context.Context, id string) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var active int64
		if err := tx.Model(&models.Request{}).
			Where("equipment_id = ? AND status IN ?", id, []string{models.RequestPending, models.RequestApproved}).
			Count(&active).Error; err != nil {
			return err
		}
		if active > 0 {
			return apperr.Conflict("equipment has active requests")
		}
		if err := tx.Where("equipment_id = ?", id).Delete(&models.Request{}).Error; err != nil {
			return err
		}
		if err := tx.Where("equipment_id = ?", id).Delete(&models.HistoryLog{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Equipment{ID: id})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.NotFound("equipment not found")
		}
		return nil
	})
}

func (r *Repo) FindEquipmentByID(ctx context.Context, id string) (*models.Equipment, error) {
	var e models.Equipment
	if err := r.DB.WithContext(ctx).First(&e, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("equipment not found")
		}
		return nil, err
	}
	return &e, nil
}

type EquipmentQuery struct {
	Q      string // 模糊搜索：name/type/serial_number
	Status string
	Type   string
	Page   int
	Size   int
}

type PagedEquipment struct {
	Total int64              `json:"total"`
	Items []models.Equipment `json:"items"`
}

func (r *Repo) ListEquipment(ctx context.Context, q EquipmentQuery) (*PagedEquipment, error) {
	if q.Page <= 0 {
		q.Page = 1
	}
	if q.Size <= 0 || q.Size > 100 {
		q.Size = 20
	}

	tx := r.DB.WithContext(ctx).Model(&models.Equipment{})
	if s := strings.TrimSpace(q.Q); s != "" {
		pat := "%" + strings.ToLower(s) + "%"
		tx = tx.Where("LOWER(name) LIKE ? OR LOWER(type) LIKE ? OR LOWER(serial_number) LIKE ?", pat, pat, pat)
	}
	if q.Status != "" {
		if !models.ValidEquipmentStatus(q.Status) {
			return nil, apperr.Validation("invalid status: " + q.Status)
		}
		tx = tx.Where("status = ?", q.Status)
	}
	if q.Type != "" {
		tx = tx.Where("type = ?", q.Type)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, err
	}

	var items []models.Equipment
	if err := tx.
		Order("created_at DESC").
		Offset((q.Page - 1) * q.Size).
		Limit(q.Size).
		Find(&items).Error; err != nil {
		return nil, err
	}
	return &PagedEquipment{Total: total, Items: items}, nil
}
