// controllers/equipment_controller.go
package controllers

import (
	"net/http"
	"strconv"

	"Gin_postgres_redis_equipment_tracker/app"
	"Gin_postgres_redis_equipment_tracker/db"
	"Gin_postgres_redis_equipment_tracker/models"

	"github.com/gin-gonic/gin"
)

type EquipmentController struct{ *Srv }

func NewEquipmentController(s *Srv) *EquipmentController { return &EquipmentController{Srv: s} }

// 管理员登记一件设备
func (ec *EquipmentController) CreateEquipment(c *gin.Context) {
	var in struct {
		Name         string  `json:"name" binding:"required"`
		Type         string  `json:"type" binding:"required"`
		Condition    string  `json:"condition"`
		Status       string  `json:"status"`
		Quantity     int     `json:"quantity"`
		Location     string  `json:"location"`
		PhotoURL     string  `json:"photoUrl"`
		Description  string  `json:"description"`
		SerialNumber *string `json:"serialNumber"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}

	e := &models.Equipment{
		Name:         in.Name,
		Type:         in.Type,
		Condition:    in.Condition,
		Status:       in.Status,
		Quantity:     in.Quantity,
		Location:     in.Location,
		PhotoURL:     in.PhotoURL,
		Description:  in.Description,
		SerialNumber: in.SerialNumber,
	}
	if err := ec.Repo.CreateEquipment(c.Request.Context(), e, currentUserID(c)); err != nil {
		ec.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, e)
}

// PUT /api/equipment/:id
func (ec *EquipmentController) UpdateEquipment(c *gin.Context) {
	id := c.Param("id")
	var in db.UpdateEquipmentInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	e, err := ec.Repo.UpdateEquipment(c.Request.Context(), id, in, currentUserID(c))
	if err != nil {
		ec.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, e)
}

// DELETE /api/equipment/:id
func (ec *EquipmentController) DeleteEquipment(c *gin.Context) {
	if err := ec.Repo.DeleteEquipment(c.Request.Context(), c.Param("id")); err != nil {
		ec.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"ok": true})
}

// GET /api/equipment/:id
func (ec *EquipmentController) GetEquipment(c *gin.Context) {
	e, err := ec.Repo.FindEquipmentByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		ec.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, e)
}

// GET /api/equipment?q=&status=&type=&page=&size=
func (ec *EquipmentController) ListEquipment(c *gin.Context) {
	q := db.EquipmentQuery{
		Q:      c.Query("q"),
		Status: c.Query("status"),
		Type:   c.Query("type"),
	}
	q.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	q.Size, _ = strconv.Atoi(c.DefaultQuery("size", "20"))

	res, err := ec.Repo.ListEquipment(c.Request.Context(), q)
	if err != nil {
		ec.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// GET /api/history?equipmentId=&page=&size=
func (ec *EquipmentController) ListHistory(c *gin.Context) {
	q := db.HistoryQuery{
		EquipmentID: c.Query("equipmentId"),
	}
	q.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	q.Size, _ = strconv.Atoi(c.DefaultQuery("size", "50"))

	res, err := ec.Repo.ListHistory(c.Request.Context(), q)
	if err != nil {
		ec.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
