package db

import (
	"Gin_postgres_redis_equipment_tracker/apperr"
	"Gin_postgres_redis_equipment_tracker/models"
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
)

type Repo struct{ DB *gorm.DB }

func NewRepo(db *gorm.DB) *Repo { return &Repo{DB: db} }

// now() 用数据库时间的场景（login/seen 快照）沿用 gorm.Expr，
// 业务时间戳（approved_at 等）由事务内的 time.Now().UTC() 统一产生。

// Profiles

func (r *Repo) TouchUserLogin(ctx context.Context, userID, ip, ua string) error {
	return r.DB.WithContext(ctx).Model(&models.Profile{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"last_login_at": gorm.Expr("CURRENT_TIMESTAMP"),
			"last_seen_at":  gorm.Expr("CURRENT_TIMESTAMP"),
			"login_count":   gorm.Expr("COALESCE(login_count, 0) + 1"),
			"last_login_ip": ip,
			"last_login_ua": ua,
		}).Error
}

func (r *Repo) TouchUserSeen(ctx context.Context, userID string) error {
	return r.DB.WithContext(ctx).Model(&models.Profile{}).
		Where("id = ?", userID).
		Update("last_seen_at", gorm.Expr("CURRENT_TIMESTAMP")).Error
}

func (r *Repo) FindProfileByID(ctx context.Context, id string) (*models.Profile, error) {
	var p models.Profile
	if err := r.DB.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("user not found")
		}
		return nil, err
	}
	return &p, nil
}

func (r *Repo) FindProfileByEmail(ctx context.Context, email string) (*models.Profile, error) {
	var p models.Profile
	err := r.DB.WithContext(ctx).
		Where("LOWER(email) = ?", strings.ToLower(email)).First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("user not found")
		}
		return nil, err
	}
	return &p, nil
}

// CreateProfile 建档并写入角色行，二者同一事务
func (r *Repo) CreateProfile(ctx context.Context, p *models.Profile, role string) error {
	if !models.ValidRole(role) {
		return apperr.Validation("invalid role: " + role)
	}
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(p).Error; err != nil {
			return err
		}
		return tx.Create(&models.UserRole{UserID: p.ID, Role: role}).Error
	})
}

// Authorization gate

// RoleOf 是所有权限判断的唯一入口；没有角色行时按普通用户处理
func (r *Repo) RoleOf(ctx context.Context, userID string) (string, error) {
	var ur models.UserRole
	err := r.DB.WithContext(ctx).Where("user_id = ?", userID).First(&ur).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.RoleUser, nil
	}
	if err != nil {
		return "", err
	}
	return ur.Role, nil
}

func (r *Repo) IsAdmin(ctx context.Context, userID string) (bool, error) {
	role, err := r.RoleOf(ctx, userID)
	if err != nil {
		return false, err
	}
	return role == models.RoleAdmin, nil
}

func (r *Repo) requireAdmin(ctx context.Context, userID string) error {
	if userID == "" {
		return apperr.Authorization("Not authenticated")
	}
	ok, err := r.IsAdmin(ctx, userID)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.Authorization("admin access required")
	}
	return nil
}

func (r *Repo) SetUserRole(ctx context.Context, userID, role string) error {
	if !models.ValidRole(role) {
		return apperr.Validation("invalid role: " + role)
	}
	res := r.DB.WithContext(ctx).Model(&models.UserRole{}).
		Where("user_id = ?", userID).
		Update("role", role)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		// 旧档案可能没有角色行
		return r.DB.WithContext(ctx).Create(&models.UserRole{UserID: userID, Role: role}).Error
	}
	return nil
}

// User listing

type UserRow struct {
	models.Profile
	Role string `json:"role"`
}

type ListUsersResult struct {
	Users []UserRow `json:"users"`
	Total int64     `json:"total"`
}

func (r *Repo) ListUsers(ctx context.Context, q string, page, size int) (ListUsersResult, error) {
	if page <= 0 {
		page = 1
	}
	if size <= 0 || size > 100 {
		size = 20
	}

	tx := r.DB.WithContext(ctx).Model(&models.Profile{}).
		Select("eqp_profiles.*, COALESCE(ur.role, 'user') AS role").
		Joins("LEFT JOIN eqp_user_roles ur ON ur.user_id = eqp_profiles.id")
	if q = strings.TrimSpace(q); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		tx = tx.Where("LOWER(full_name) LIKE ? OR LOWER(email) LIKE ?", like, like)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return ListUsersResult{}, err
	}

	var users []UserRow
	if err := tx.
		Order("created_at DESC").
		Offset((page - 1) * size).
		Limit(size).
		Find(&users).Error; err != nil {
		return ListUsersResult{}, err
	}
	return ListUsersResult{Users: users, Total: total}, nil
}

// DeleteUserByID 删除用户档案；有未完结请求时拒绝，避免孤儿行
func (r *Repo) DeleteUserByID(ctx context.Context, id string) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var active int64
		if err := tx.Model(&models.Request{}).
			Where("user_id = ? AND status IN ?", id, []string{models.RequestPending, models.RequestApproved}).
			Count(&active).Error; err != nil {
			return err
		}
		if active > 0 {
			return apperr.Conflict("user has active requests")
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.UserRole{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Profile{ID: id})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.NotFound("user not found")
		}
		return nil
	})
}
