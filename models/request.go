// models/request.go
package models

import "time"

const RequestTable = "eqp_requests"

// 请求状态只能向前走：pending → approved → returned，或 pending → rejected
const (
	RequestPending  = "pending"
	RequestApproved = "approved"
	RequestRejected = "rejected"
	RequestReturned = "returned"
)

type Request struct {
	ID          string    `gorm:"type:uuid;primaryKey" json:"id"`
	EquipmentID string    `gorm:"type:uuid;index;not null" json:"equipmentId"`
	UserID      string    `gorm:"type:uuid;index;not null" json:"userId"`
	BorrowDate  time.Time `gorm:"not null" json:"borrowDate"`
	ReturnDate  time.Time `gorm:"not null" json:"returnDate"`
	Status      string    `gorm:"size:20;index;not null;default:'pending'" json:"status"`

	ApprovedAt *time.Time `json:"approvedAt,omitempty"`
	ApprovedBy *string    `gorm:"type:uuid" json:"approvedBy,omitempty"`
	ReturnedAt *time.Time `json:"returnedAt,omitempty"`

	Notes     string    `gorm:"size:500" json:"notes,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

func (Request) TableName() string { return RequestTable }

func ValidRequestStatus(s string) bool {
	switch s {
	case RequestPending, RequestApproved, RequestRejected, RequestReturned:
		return true
	}
	return false
}
