package model

// Photo owner kinds. Ordered photo lists share one table and are told apart
// by (owner_kind, owner_id).
const (
	PhotoOwnerSubfloor         = "subfloor"
	PhotoOwnerOutdoorDirection = "outdoor_direction"
	PhotoOwnerMoistureReading  = "moisture_reading"
	PhotoOwnerSubfloorReading  = "subfloor_reading"
)

type Photo struct {
	ID           string `gorm:"column:id;type:varchar(36);primaryKey"`
	InspectionID string `gorm:"column:inspection_id;type:varchar(36);not null;index"`
	OwnerKind    string `gorm:"column:owner_kind;type:varchar(32);not null;index:idx_photo_owner,priority:1"`
	OwnerID      string `gorm:"column:owner_id;type:varchar(36);not null;index:idx_photo_owner,priority:2"`
	URL          string `gorm:"column:url;type:text;not null"`
	Caption      string `gorm:"column:caption;type:text;not null;default:''"`
	OrderIndex   int    `gorm:"column:order_index;not null"`
}

func (Photo) TableName() string {
	return "inspection_photos"
}
