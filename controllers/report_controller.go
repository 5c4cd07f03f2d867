package controllers

import (
	"net/http"
	"strconv"

	"Gin_postgres_redis_equipment_tracker/db"

	"github.com/gin-gonic/gin"
)

type ReportController struct{ *Srv }

func NewReportController(s *Srv) *ReportController { return &ReportController{Srv: s} }

// GET /api/reports/stats
func (rc *ReportController) Stats(c *gin.Context) {
	stats, err := rc.Repo.GetRequestStats(c.Request.Context())
	if err != nil {
		rc.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// GET /api/reports/requests?status=&page=&size=
// 导出用的扁平投影：请求 ⋈ 设备 ⋈ 档案
func (rc *ReportController) RequestRows(c *gin.Context) {
	q := db.RequestQuery{
		Status: c.Query("status"),
	}
	q.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	q.Size, _ = strconv.Atoi(c.DefaultQuery("size", "100"))

	res, err := rc.Repo.ListRequests(c.Request.Context(), q)
	if err != nil {
		rc.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
