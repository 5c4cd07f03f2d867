package db_test

import (
	"context"
	"testing"

	"Gin_postgres_redis_equipment_tracker/apperr"
	"Gin_postgres_redis_equipment_tracker/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoleOfDefaultsToUser(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	// 没有角色行也当普通用户
	role, err := repo.RoleOf(ctx, "00000000-0000-0000-0000-000000000000")
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, role)

	admin := seedUser(t, repo, "Admin", "admin@example.com", models.RoleAdmin)
	role, err = repo.RoleOf(ctx, admin)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, role)

	ok, err := repo.IsAdmin(ctx, admin)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSetUserRolePromoteAndDemote(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	uid := seedUser(t, repo, "Alice", "alice@example.com", models.RoleUser)

	require.NoError(t, repo.SetUserRole(ctx, uid, models.RoleAdmin))
	role, err := repo.RoleOf(ctx, uid)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, role)

	require.NoError(t, repo.SetUserRole(ctx, uid, models.RoleUser))
	role, err = repo.RoleOf(ctx, uid)
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, role)

	err = repo.SetUserRole(ctx, uid, "superuser")
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestListUsersIncludesRole(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	seedUser(t, repo, "Admin", "admin@example.com", models.RoleAdmin)
	seedUser(t, repo, "Alice Müller", "alice@example.com", models.RoleUser)

	res, err := repo.ListUsers(ctx, "", 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 2, res.Total)

	res, err = repo.ListUsers(ctx, "alice", 1, 20)
	require.NoError(t, err)
	require.Len(t, res.Users, 1)
	assert.Equal(t, "alice@example.com", res.Users[0].Email)
	assert.Equal(t, models.RoleUser, res.Users[0].Role)
}

func TestDeleteUserBlockedByActiveRequest(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	admin := seedUser(t, repo, "Admin", "admin@example.com", models.RoleAdmin)
	user := seedUser(t, repo, "Alice", "alice@example.com", models.RoleUser)
	eq := seedEquipment(t, repo, "Camera", admin)
	req := seedRequest(t, repo, eq.ID, user)

	err := repo.DeleteUserByID(ctx, user)
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindConflict))

	// 请求完结后才可删
	_, err = repo.RejectRequest(ctx, req.ID, admin)
	require.NoError(t, err)
	require.NoError(t, repo.DeleteUserByID(ctx, user))

	_, err = repo.FindProfileByID(ctx, user)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}
