// models/equipment.go
package models

import "time"

const EquipmentTable = "eqp_equipment"

// 设备状态：只有 Coordinator 能在 available/checked_out 之间切换
const (
	EquipmentAvailable   = "available"
	EquipmentCheckedOut  = "checked_out"
	EquipmentUnderRepair = "under_repair"
	EquipmentRetired     = "retired"
)

const (
	ConditionExcellent = "excellent"
	ConditionGood      = "good"
	ConditionFair      = "fair"
	ConditionPoor      = "poor"
)

type Equipment struct {
	ID           string  `gorm:"type:uuid;primaryKey" json:"id"`
	Name         string  `gorm:"size:200;not null" json:"name"`
	Type         string  `gorm:"size:120;not null" json:"type"`
	Condition    string  `gorm:"size:20;not null;default:'good'" json:"condition"`
	Status       string  `gorm:"size:20;not null;default:'available'" json:"status"`
	Quantity     int     `gorm:"not null;default:1" json:"quantity"`
	Location     string  `gorm:"size:200" json:"location,omitempty"`
	PhotoURL     string  `gorm:"size:500" json:"photoUrl,omitempty"`
	Description  string  `gorm:"type:text" json:"description,omitempty"`
	SerialNumber *string `gorm:"size:120;uniqueIndex" json:"serialNumber,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Equipment) TableName() string { return EquipmentTable }

func ValidEquipmentStatus(s string) bool {
	switch s {
	case EquipmentAvailable, EquipmentCheckedOut, EquipmentUnderRepair, EquipmentRetired:
		return true
	}
	return false
}

func ValidCondition(s string) bool {
	switch s {
	case ConditionExcellent, ConditionGood, ConditionFair, ConditionPoor:
		return true
	}
	return false
}
