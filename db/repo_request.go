// db/repo_request.go
package db

import (
	"Gin_postgres_redis_equipment_tracker/apperr"
	"Gin_postgres_redis_equipment_tracker/models"
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Request Ledger：提交只建 pending 记录，不动设备状态；
// 同一设备可以同时挂多条 pending，审批时才定胜负。

type SubmitRequestInput struct {
	EquipmentID string
	UserID      string
	BorrowDate  time.Time
	ReturnDate  time.Time
	Notes       string
}

func startOfToday() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

func (r *Repo) SubmitRequest(ctx context.Context, in SubmitRequestInput) (*models.Request, error) {
	if in.EquipmentID == "" {
		return nil, apperr.Validation("equipmentId is required")
	}
	if in.UserID == "" {
		return nil, apperr.Authorization("Not authenticated")
	}
	if in.BorrowDate.IsZero() || in.ReturnDate.IsZero() {
		return nil, apperr.Validation("borrowDate and returnDate are required")
	}
	if in.ReturnDate.Before(in.BorrowDate) {
		return nil, apperr.Validation("return date must be on or after borrow date")
	}
	if today := startOfToday(); in.BorrowDate.Before(today) || in.ReturnDate.Before(today) {
		return nil, apperr.Validation("dates must not be in the past")
	}

	// 可用性在这里只是前置校验，真正防双重借出的 CAS 在审批事务里
	eq, err := r.FindEquipmentByID(ctx, in.EquipmentID)
	if err != nil {
		return nil, err
	}
	if eq.Status != models.EquipmentAvailable {
		return nil, apperr.Validation("equipment is not available")
	}

	req := &models.Request{
		ID:          uuid.NewString(),
		EquipmentID: in.EquipmentID,
		UserID:      in.UserID,
		BorrowDate:  in.BorrowDate,
		ReturnDate:  in.ReturnDate,
		Status:      models.RequestPending,
		Notes:       in.Notes,
	}
	if err := r.DB.WithContext(ctx).Create(req).Error; err != nil {
		return nil, err
	}
	return req, nil
}

func (r *Repo) FindRequestByID(ctx context.Context, id string) (*models.Request, error) {
	var req models.Request
	if err := r.DB.WithContext(ctx).First(&req, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("request not found")
		}
		return nil, err
	}
	return &req, nil
}

// RequestRow 是对报表/列表暴露的读模型：请求 ⋈ 设备 ⋈ 档案
type RequestRow struct {
	ID          string     `json:"id"`
	EquipmentID string     `json:"equipmentId"`
	UserID      string     `json:"userId"`
	BorrowDate  time.Time  `json:"borrowDate"`
	ReturnDate  time.Time  `json:"returnDate"`
	Status      string     `json:"status"`
	ApprovedAt  *time.Time `json:"approvedAt,omitempty"`
	ApprovedBy  *string    `json:"approvedBy,omitempty"`
	ReturnedAt  *time.Time `json:"returnedAt,omitempty"`
	Notes       string     `json:"notes,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`

	EquipmentName string `json:"equipmentName"`
	EquipmentType string `json:"equipmentType"`
	UserFullName  string `json:"userFullName"`
	UserEmail     string `json:"userEmail"`
}

type RequestQuery struct {
	UserID      string
	EquipmentID string
	Status      string
	Page        int
	Size        int
}

type PagedRequests struct {
	Total int64        `json:"total"`
	Items []RequestRow `json:"items"`
}

func (r *Repo) ListRequests(ctx context.Context, q RequestQuery) (*PagedRequests, error) {
	if q.Page <= 0 {
		q.Page = 1
	}
	if q.Size <= 0 || q.Size > 200 {
		q.Size = 20
	}
	if q.Status != "" && !models.ValidRequestStatus(q.Status) {
		return nil, apperr.Validation("invalid status: " + q.Status)
	}

	filter := func(tx *gorm.DB) *gorm.DB {
		if q.UserID != "" {
			tx = tx.Where("rq.user_id = ?", q.UserID)
		}
		if q.EquipmentID != "" {
			tx = tx.Where("rq.equipment_id = ?", q.EquipmentID)
		}
		if q.Status != "" {
			tx = tx.Where("rq.status = ?", q.Status)
		}
		return tx
	}

	var total int64
	if err := filter(r.DB.WithContext(ctx).Table(models.RequestTable + " rq")).
		Count(&total).Error; err != nil {
		return nil, err
	}

	var rows []RequestRow
	if err := filter(r.DB.WithContext(ctx).Table(models.RequestTable+" rq")).
		Select(`
			rq.id, rq.equipment_id, rq.user_id, rq.borrow_date, rq.return_date, rq.status,
			rq.approved_at, rq.approved_by, rq.returned_at, rq.notes, rq.created_at,
			e.name      AS equipment_name,
			e.type      AS equipment_type,
			p.full_name AS user_full_name,
			p.email     AS user_email
		`).
		Joins("LEFT JOIN "+models.EquipmentTable+" e ON e.id = rq.equipment_id").
		Joins("LEFT JOIN eqp_profiles p ON p.id = rq.user_id").
		Order("rq.created_at DESC").
		Offset((q.Page - 1) * q.Size).
		Limit(q.Size).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return &PagedRequests{Total: total, Items: rows}, nil
}
