// db/repo_lifecycle.go
package db

import (
	"Gin_postgres_redis_equipment_tracker/apperr"
	"Gin_postgres_redis_equipment_tracker/models"
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

// Lifecycle Coordinator：请求状态与设备状态的成对写入只发生在这里。
// 每个操作是一个事务，设备/请求的状态写入都是带条件的 UPDATE，
// 靠 RowsAffected 判断 CAS 是否成功；两个并发审批只会有一个赢。

// ApproveRequest: pending → approved，同时设备 available → checked_out。
func (r *Repo) ApproveRequest(ctx context.Context, requestID, adminID string) (*models.Request, error) {
	if err := r.requireAdmin(ctx, adminID); err != nil {
		return nil, err
	}

	var req models.Request
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&req, "id = ?", requestID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("request not found")
			}
			return err
		}
		if req.Status != models.RequestPending {
			return apperr.State("request is not pending")
		}

		// 先占设备。条件不满足说明已被借出，或管理员把状态改走了——都算冲突
		res := tx.Model(&models.Equipment{}).
			Where("id = ? AND status = ?", req.EquipmentID, models.EquipmentAvailable).
			Update("status", models.EquipmentCheckedOut)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.Conflict("equipment is not available")
		}

		now := time.Now().UTC()
		res = tx.Model(&models.Request{}).
			Where("id = ? AND status = ?", requestID, models.RequestPending).
			Updates(map[string]any{
				"status":      models.RequestApproved,
				"approved_at": now,
				"approved_by": adminID,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// 并发下请求已被处理；回滚也会释放上面占下的设备
			return apperr.State("request is no longer pending")
		}

		if err := r.logHistory(tx, req.EquipmentID, adminID, models.ActionRequestApproved, nil, nil); err != nil {
			return err
		}

		req.Status = models.RequestApproved
		req.ApprovedAt = &now
		req.ApprovedBy = &adminID
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &req, nil
}

// RejectRequest: pending → rejected。设备不动。
func (r *Repo) RejectRequest(ctx context.Context, requestID, adminID string) (*models.Request, error) {
	if err := r.requireAdmin(ctx, adminID); err != nil {
		return nil, err
	}

	var req models.Request
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&req, "id = ?", requestID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("request not found")
			}
			return err
		}
		if req.Status != models.RequestPending {
			return apperr.State("request is not pending")
		}

		res := tx.Model(&models.Request{}).
			Where("id = ? AND status = ?", requestID, models.RequestPending).
			Update("status", models.RequestRejected)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.State("request is no longer pending")
		}

		if err := r.logHistory(tx, req.EquipmentID, adminID, models.ActionRequestRejected, nil, nil); err != nil {
			return err
		}

		req.Status = models.RequestRejected
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &req, nil
}

// ReturnRequest: approved → returned，设备 checked_out → available。
// 管理员或原申请人可归还。
func (r *Repo) ReturnRequest(ctx context.Context, requestID, actorID string) (*models.Request, error) {
	if actorID == "" {
		return nil, apperr.Authorization("Not authenticated")
	}

	var req models.Request
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&req, "id = ?", requestID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("request not found")
			}
			return err
		}

		if req.UserID != actorID {
			ok, err := r.IsAdmin(ctx, actorID)
			if err != nil {
				return err
			}
			if !ok {
				return apperr.Authorization("only the requester or an admin can return")
			}
		}
		if req.Status != models.RequestApproved {
			return apperr.State("request is not approved")
		}

		now := time.Now().UTC()
		res := tx.Model(&models.Request{}).
			Where("id = ? AND status = ?", requestID, models.RequestApproved).
			Updates(map[string]any{
				"status":      models.RequestReturned,
				"returned_at": now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.State("request is no longer approved")
		}

		// 只在设备仍处于 checked_out 时放回 available；
		// 管理员若已把它改成 under_repair 等，保持不动
		if err := tx.Model(&models.Equipment{}).
			Where("id = ? AND status = ?", req.EquipmentID, models.EquipmentCheckedOut).
			Update("status", models.EquipmentAvailable).Error; err != nil {
			return err
		}

		if err := r.logHistory(tx, req.EquipmentID, actorID, models.ActionRequestReturned, nil, nil); err != nil {
			return err
		}

		req.Status = models.RequestReturned
		req.ReturnedAt = &now
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &req, nil
}
