package model

import (
	"time"

	"gorm.io/datatypes"
)

type Area struct {
	ID                     string                      `gorm:"column:id;type:varchar(36);primaryKey"`
	InspectionID           string                      `gorm:"column:inspection_id;type:varchar(36);not null;index:idx_area_order,priority:1"`
	Name                   string                      `gorm:"column:area_name;type:text;not null"`
	OrderIndex             int                         `gorm:"column:order_index;not null;index:idx_area_order,priority:2"`
	MouldVisibility        datatypes.JSONSlice[string] `gorm:"column:mould_visibility"`
	Temperature            *float64                    `gorm:"column:temperature"`
	Humidity               *float64                    `gorm:"column:humidity"`
	DewPoint               *float64                    `gorm:"column:dew_point"`
	DewPointMode           string                      `gorm:"column:dew_point_mode;type:varchar(8);not null;default:'AUTO'"`
	JobTimeMinutes         int                         `gorm:"column:job_time_minutes;not null;default:0"`
	DemolitionRequired     bool                        `gorm:"column:demolition_required;not null;default:false"`
	DemolitionTimeMinutes  int                         `gorm:"column:demolition_time_minutes;not null;default:0"`
	CommentsGenerated      string                      `gorm:"column:comments_generated;type:text;not null;default:''"`
	CommentsEdited         string                      `gorm:"column:comments_edited;type:text;not null;default:''"`
	CommentsApproved       bool                        `gorm:"column:comments_approved;not null;default:false"`
	DemolitionGenerated    string                      `gorm:"column:demolition_generated;type:text;not null;default:''"`
	DemolitionEdited       string                      `gorm:"column:demolition_edited;type:text;not null;default:''"`
	DemolitionApproved     bool                        `gorm:"column:demolition_approved;not null;default:false"`
	MoistureReadingEnabled bool                        `gorm:"column:moisture_reading_enabled;not null;default:false"`
	InfraredEnabled        bool                        `gorm:"column:infrared_enabled;not null;default:false"`
	RoomPhoto1             string                      `gorm:"column:room_photo_1;type:text;not null;default:''"`
	RoomPhoto2             string                      `gorm:"column:room_photo_2;type:text;not null;default:''"`
	RoomPhoto3             string                      `gorm:"column:room_photo_3;type:text;not null;default:''"`
	InfraredPhoto          string                      `gorm:"column:infrared_photo;type:text;not null;default:''"`
	InfraredNaturalPhoto   string                      `gorm:"column:infrared_natural_photo;type:text;not null;default:''"`
	CreatedAt              time.Time                   `gorm:"column:created_at;not null;autoCreateTime:false"`
	UpdatedAt              time.Time                   `gorm:"column:updated_at;not null;autoUpdateTime:false"`
}

func (Area) TableName() string {
	return "inspection_areas"
}
