package model

type MoistureReading struct {
	ID           string `gorm:"column:id;type:varchar(36);primaryKey"`
	InspectionID string `gorm:"column:inspection_id;type:varchar(36);not null;index"`
	AreaID       string `gorm:"column:area_id;type:varchar(36);not null;index"`
	Title        string `gorm:"column:title;type:text;not null;default:''"`
	OrderIndex   int    `gorm:"column:order_index;not null"`
}

func (MoistureReading) TableName() string {
	return "moisture_readings"
}

type SubfloorReading struct {
	ID            string   `gorm:"column:id;type:varchar(36);primaryKey"`
	InspectionID  string   `gorm:"column:inspection_id;type:varchar(36);not null;index"`
	MoistureValue *float64 `gorm:"column:moisture_value"`
	Location      string   `gorm:"column:location;type:text;not null;default:''"`
	OrderIndex    int      `gorm:"column:order_index;not null"`
}

func (SubfloorReading) TableName() string {
	return "subfloor_readings"
}
