package model

import (
	"time"
)

// RequestStatus is the lifecycle state of a cake request record.
type RequestStatus string

const (
	// StatusActive marks a live record.
	StatusActive RequestStatus = "A"
	// StatusDeleted marks a soft-deleted record. Records are never removed
	// physically; the only transition is Active to Deleted.
	StatusDeleted RequestStatus = "D"
)

// CakeRequest is the audit record of one classification attempt. A CakeID of
// zero means the classifier rejected the image and no catalog entry was ever
// created; positive values reference a catalog cake without foreign key
// enforcement (the catalog is a separate system). Multiple records may share
// a CakeID; operations addressing "the record for this cake" act on the
// lowest id.
type CakeRequest struct {
	ID          int64         `gorm:"primaryKey;autoIncrement" json:"id"`
	CakeID      int64         `gorm:"column:cake_id;index;not null" json:"cake_id"`
	ImageURL    string        `gorm:"column:image_url;not null" json:"image_url"`
	IsCake      bool          `gorm:"column:is_cake;not null" json:"is_cake"`
	Proportion  float64       `gorm:"not null" json:"proportion"`
	Tolerance   float64       `gorm:"not null" json:"tolerance"`
	AccessCount int64         `gorm:"column:access_count;not null;default:0" json:"access_count"`
	CreatedAt   time.Time     `gorm:"autoCreateTime;index" json:"created_at"`
	Status      RequestStatus `gorm:"type:char(1);not null;default:'A'" json:"status"`
}

// TableName specifies the table name for GORM.
func (CakeRequest) TableName() string {
	return "cake_requests"
}
