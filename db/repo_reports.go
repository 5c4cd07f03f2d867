package db

import (
	"Gin_postgres_redis_equipment_tracker/models"
	"context"
)

// 报表读模型。CSV 之类的落地格式由消费方自理，这里只给出投影。

type RequestStats struct {
	Total    int64 `json:"total"`
	Pending  int64 `json:"pending"`
	Approved int64 `json:"approved"`
	Rejected int64 `json:"rejected"`
	Returned int64 `json:"returned"`
}

func (r *Repo) GetRequestStats(ctx context.Context) (*RequestStats, error) {
	type bucket struct {
		Status string
		N      int64
	}
	var buckets []bucket
	if err := r.DB.WithContext(ctx).Model(&models.Request{}).
		Select("status, COUNT(*) AS n").
		Group("status").
		Scan(&buckets).Error; err != nil {
		return nil, err
	}

	stats := &RequestStats{}
	for _, b := range buckets {
		stats.Total += b.N
		switch b.Status {
		case models.RequestPending:
			stats.Pending = b.N
		case models.RequestApproved:
			stats.Approved = b.N
		case models.RequestRejected:
			stats.Rejected = b.N
		case models.RequestReturned:
			stats.Returned = b.N
		}
	}
	return stats, nil
}
