// controllers/request_controller.go
package controllers

import (
	"net/http"
	"strconv"
	"time"

	"Gin_postgres_redis_equipment_tracker/app"
	"Gin_postgres_redis_equipment_tracker/apperr"
	"Gin_postgres_redis_equipment_tracker/db"

	"github.com/gin-gonic/gin"
)

type RequestController struct{ *Srv }

func NewRequestController(s *Srv) *RequestController { return &RequestController{Srv: s} }

const dateLayout = "2006-01-02"

// POST /api/requests
func (rc *RequestController) SubmitRequest(c *gin.Context) {
	var in struct {
		EquipmentID string `json:"equipmentId" binding:"required"`
		BorrowDate  string `json:"borrowDate" binding:"required"`
		ReturnDate  string `json:"returnDate" binding:"required"`
		Notes       string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}

	borrow, err := time.ParseInLocation(dateLayout, in.BorrowDate, time.UTC)
	if err != nil {
		rc.fail(c, apperr.Validation("invalid borrowDate, expected YYYY-MM-DD"))
		return
	}
	ret, err := time.ParseInLocation(dateLayout, in.ReturnDate, time.UTC)
	if err != nil {
		rc.fail(c, apperr.Validation("invalid returnDate, expected YYYY-MM-DD"))
		return
	}

	req, err := rc.Repo.SubmitRequest(c.Request.Context(), db.SubmitRequestInput{
		EquipmentID: in.EquipmentID,
		UserID:      currentUserID(c),
		BorrowDate:  borrow,
		ReturnDate:  ret,
		Notes:       in.Notes,
	})
	if err != nil {
		rc.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, req)
}

// GET /api/requests?all=1&status=&equipmentId=&page=&size=
// 普通用户只能看自己的；all=1 需要管理员
func (rc *RequestController) ListRequests(c *gin.Context) {
	uid := currentUserID(c)
	q := db.RequestQuery{
		UserID:      uid,
		EquipmentID: c.Query("equipmentId"),
		Status:      c.Query("status"),
	}
	q.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	q.Size, _ = strconv.Atoi(c.DefaultQuery("size", "20"))

	if c.Query("all") == "1" {
		ok, err := rc.Repo.IsAdmin(c.Request.Context(), uid)
		if err != nil {
			rc.fail(c, err)
			return
		}
		if !ok {
			rc.fail(c, apperr.Authorization("admin access required"))
			return
		}
		q.UserID = ""
	}

	res, err := rc.Repo.ListRequests(c.Request.Context(), q)
	if err != nil {
		rc.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// GET /api/requests/:id — 本人或管理员
func (rc *RequestController) GetRequest(c *gin.Context) {
	uid := currentUserID(c)
	req, err := rc.Repo.FindRequestByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		rc.fail(c, err)
		return
	}
	if req.UserID != uid {
		ok, err := rc.Repo.IsAdmin(c.Request.Context(), uid)
		if err != nil {
			rc.fail(c, err)
			return
		}
		if !ok {
			rc.fail(c, apperr.Authorization("not your request"))
			return
		}
	}
	c.JSON(http.StatusOK, req)
}

// POST /api/requests/:id/approve
func (rc *RequestController) ApproveRequest(c *gin.Context) {
	req, err := rc.Repo.ApproveRequest(c.Request.Context(), c.Param("id"), currentUserID(c))
	if err != nil {
		rc.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, req)
}

// POST /api/requests/:id/reject
func (rc *RequestController) RejectRequest(c *gin.Context) {
	req, err := rc.Repo.RejectRequest(c.Request.Context(), c.Param("id"), currentUserID(c))
	if err != nil {
		rc.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, req)
}

// POST /api/requests/:id/return
func (rc *RequestController) ReturnRequest(c *gin.Context) {
	req, err := rc.Repo.ReturnRequest(c.Request.Context(), c.Param("id"), currentUserID(c))
	if err != nil {
		rc.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, req)
}
