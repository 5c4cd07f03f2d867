package controllers_test

import (
	"context"
	"net/http"
	"testing"

	"Gin_postgres_redis_equipment_tracker/db"
	"Gin_postgres_redis_equipment_tracker/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 借用全流程：提交 → 批准 → 归还，中间检查设备状态与报表
func TestRequestLifecycleOverHTTP(t *testing.T) {
	r, repo := newTestServer(t)
	admin := seedUser(t, repo, "Admin", "admin@example.com", models.RoleAdmin)
	alice := seedUser(t, repo, "Alice", "alice@example.com", models.RoleUser)
	eq := seedEquipment(t, repo, "Canon R5", admin)

	// 提交
	w := doJSON(t, r, http.MethodPost, "/api/requests", alice, map[string]string{
		"equipmentId": eq.ID,
		"borrowDate":  dateStr(1),
		"returnDate":  dateStr(5),
		"notes":       "shoot on friday",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created models.Request
	decodeBody(t, w, &created)
	assert.Equal(t, models.RequestPending, created.Status)

	// 提交不动设备
	w = doJSON(t, r, http.MethodGet, "/api/equipment/"+eq.ID, alice, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var got models.Equipment
	decodeBody(t, w, &got)
	assert.Equal(t, models.EquipmentAvailable, got.Status)

	// 批准：设备借出
	w = doJSON(t, r, http.MethodPost, "/api/requests/"+created.ID+"/approve", admin, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var approved models.Request
	decodeBody(t, w, &approved)
	assert.Equal(t, models.RequestApproved, approved.Status)
	require.NotNil(t, approved.ApprovedBy)
	assert.Equal(t, admin, *approved.ApprovedBy)

	w = doJSON(t, r, http.MethodGet, "/api/equipment/"+eq.ID, alice, nil)
	decodeBody(t, w, &got)
	assert.Equal(t, models.EquipmentCheckedOut, got.Status)

	// 本人归还：设备回到可借
	w = doJSON(t, r, http.MethodPost, "/api/requests/"+created.ID+"/return", alice, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var returned models.Request
	decodeBody(t, w, &returned)
	assert.Equal(t, models.RequestReturned, returned.Status)
	require.NotNil(t, returned.ReturnedAt)

	w = doJSON(t, r, http.MethodGet, "/api/equipment/"+eq.ID, alice, nil)
	decodeBody(t, w, &got)
	assert.Equal(t, models.EquipmentAvailable, got.Status)

	// 报表
	w = doJSON(t, r, http.MethodGet, "/api/reports/stats", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var stats db.RequestStats
	decodeBody(t, w, &stats)
	assert.EqualValues(t, 1, stats.Total)
	assert.EqualValues(t, 1, stats.Returned)
}

func TestStatusCodeMapping(t *testing.T) {
	r, repo := newTestServer(t)
	admin := seedUser(t, repo, "Admin", "admin@example.com", models.RoleAdmin)
	alice := seedUser(t, repo, "Alice", "alice@example.com", models.RoleUser)
	bob := seedUser(t, repo, "Bob", "bob@example.com", models.RoleUser)
	eq := seedEquipment(t, repo, "Camera", admin)

	// 未登录 401
	w := doJSON(t, r, http.MethodGet, "/api/equipment", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// 日期格式错 400
	w = doJSON(t, r, http.MethodPost, "/api/requests", alice, map[string]string{
		"equipmentId": eq.ID,
		"borrowDate":  "01/02/2026",
		"returnDate":  dateStr(5),
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// 未知请求 404
	w = doJSON(t, r, http.MethodGet, "/api/requests/00000000-0000-0000-0000-000000000000", alice, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// 提交两个 pending；批准第一个后第二个 409
	w = doJSON(t, r, http.MethodPost, "/api/requests", alice, map[string]string{
		"equipmentId": eq.ID, "borrowDate": dateStr(1), "returnDate": dateStr(3),
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var r1 models.Request
	decodeBody(t, w, &r1)

	w = doJSON(t, r, http.MethodPost, "/api/requests", bob, map[string]string{
		"equipmentId": eq.ID, "borrowDate": dateStr(2), "returnDate": dateStr(4),
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var r2 models.Request
	decodeBody(t, w, &r2)

	// 非管理员批准 403
	w = doJSON(t, r, http.MethodPost, "/api/requests/"+r1.ID+"/approve", alice, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/requests/"+r1.ID+"/approve", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/requests/"+r2.ID+"/approve", admin, nil)
	assert.Equal(t, http.StatusConflict, w.Code, w.Body.String())

	// 重复批准 422
	w = doJSON(t, r, http.MethodPost, "/api/requests/"+r1.ID+"/approve", admin, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	// 旁人归还 403
	w = doJSON(t, r, http.MethodPost, "/api/requests/"+r1.ID+"/return", bob, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequestVisibility(t *testing.T) {
	r, repo := newTestServer(t)
	admin := seedUser(t, repo, "Admin", "admin@example.com", models.RoleAdmin)
	alice := seedUser(t, repo, "Alice", "alice@example.com", models.RoleUser)
	bob := seedUser(t, repo, "Bob", "bob@example.com", models.RoleUser)
	eq := seedEquipment(t, repo, "Camera", admin)

	w := doJSON(t, r, http.MethodPost, "/api/requests", alice, map[string]string{
		"equipmentId": eq.ID, "borrowDate": dateStr(1), "returnDate": dateStr(3),
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var req models.Request
	decodeBody(t, w, &req)

	// 本人与管理员可看单条，旁人 403
	w = doJSON(t, r, http.MethodGet, "/api/requests/"+req.ID, alice, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = doJSON(t, r, http.MethodGet, "/api/requests/"+req.ID, admin, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = doJSON(t, r, http.MethodGet, "/api/requests/"+req.ID, bob, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// 列表只看自己的
	w = doJSON(t, r, http.MethodGet, "/api/requests", bob, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var page db.PagedRequests
	decodeBody(t, w, &page)
	assert.EqualValues(t, 0, page.Total)

	// all=1 非管理员 403，管理员全量
	w = doJSON(t, r, http.MethodGet, "/api/requests?all=1", bob, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = doJSON(t, r, http.MethodGet, "/api/requests?all=1", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decodeBody(t, w, &page)
	assert.EqualValues(t, 1, page.Total)
}

func TestEquipmentAdminEndpoints(t *testing.T) {
	r, repo := newTestServer(t)
	admin := seedUser(t, repo, "Admin", "admin@example.com", models.RoleAdmin)
	alice := seedUser(t, repo, "Alice", "alice@example.com", models.RoleUser)

	// 普通用户不能登记设备
	w := doJSON(t, r, http.MethodPost, "/api/equipment", alice, map[string]any{
		"name": "Tripod", "type": "accessory",
	})
	assert.Equal(t, http.StatusForbidden, w.Code)

	// 缺字段 400
	w = doJSON(t, r, http.MethodPost, "/api/equipment", admin, map[string]any{"name": "Tripod"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// 非法枚举 400
	w = doJSON(t, r, http.MethodPost, "/api/equipment", admin, map[string]any{
		"name": "Tripod", "type": "accessory", "condition": "shiny",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/equipment", admin, map[string]any{
		"name": "Tripod", "type": "accessory", "quantity": 3,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var e models.Equipment
	decodeBody(t, w, &e)
	assert.Equal(t, 3, e.Quantity)
	assert.Equal(t, models.ConditionGood, e.Condition)

	// 编辑
	w = doJSON(t, r, http.MethodPut, "/api/equipment/"+e.ID, admin, map[string]any{
		"location": "Shelf 4",
	})
	require.Equal(t, http.StatusOK, w.Code)
	decodeBody(t, w, &e)
	assert.Equal(t, "Shelf 4", e.Location)

	// 历史日志只对管理员开放
	w = doJSON(t, r, http.MethodGet, "/api/history?equipmentId="+e.ID, alice, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = doJSON(t, r, http.MethodGet, "/api/history?equipmentId="+e.ID, admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var logs db.PagedHistory
	decodeBody(t, w, &logs)
	assert.EqualValues(t, 2, logs.Total) // created + updated

	// 删除
	w = doJSON(t, r, http.MethodDelete, "/api/equipment/"+e.ID, admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = doJSON(t, r, http.MethodGet, "/api/equipment/"+e.ID, admin, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUserManagementEndpoints(t *testing.T) {
	r, repo := newTestServer(t)
	admin := seedUser(t, repo, "Admin", "admin@example.com", models.RoleAdmin)
	alice := seedUser(t, repo, "Alice", "alice@example.com", models.RoleUser)

	// 升级 Alice
	w := doJSON(t, r, http.MethodPut, "/api/users/"+alice+"/role", admin, map[string]string{"role": "admin"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	role, err := repo.RoleOf(context.Background(), alice)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, role)

	// 自我降级被拒
	w = doJSON(t, r, http.MethodPut, "/api/users/"+admin+"/role", admin, map[string]string{"role": "user"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// 自我删除被拒
	w = doJSON(t, r, http.MethodDelete, "/api/users/"+admin, admin, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// 列表
	w = doJSON(t, r, http.MethodGet, "/api/users?q=alice", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var res struct {
		Total int64        `json:"total"`
		Users []db.UserRow `json:"users"`
	}
	decodeBody(t, w, &res)
	require.Len(t, res.Users, 1)
	assert.Equal(t, models.RoleAdmin, res.Users[0].Role)

	// 删除 Alice
	w = doJSON(t, r, http.MethodDelete, "/api/users/"+alice, admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
}
