package models

import "time"

const HistoryTable = "eqp_history_logs"

// 历史日志动作
const (
	ActionEquipmentCreated = "equipment_created"
	ActionEquipmentUpdated = "equipment_updated"
	ActionRequestApproved  = "request_approved"
	ActionRequestRejected  = "request_rejected"
	ActionRequestReturned  = "request_returned"
)

// HistoryLog 记录设备相关操作的审计信息
type HistoryLog struct {
	ID             string    `gorm:"type:uuid;primaryKey" json:"id"`
	EquipmentID    string    `gorm:"type:uuid;index;not null" json:"equipmentId"`
	ActorID        string    `gorm:"type:uuid;not null" json:"actorId"`
	Action         string    `gorm:"size:40;not null" json:"action"`
	ConditionAfter *string   `gorm:"size:20" json:"conditionAfter,omitempty"`
	Notes          *string   `gorm:"size:500" json:"notes,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}

func (HistoryLog) TableName() string { return HistoryTable }
