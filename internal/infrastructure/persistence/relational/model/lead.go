package model

import "time"

type Lead struct {
	ID          string    `gorm:"column:id;type:varchar(36);primaryKey"`
	FirstName   string    `gorm:"column:first_name;type:text;not null"`
	LastName    string    `gorm:"column:last_name;type:text;not null;default:''"`
	Email       string    `gorm:"column:email;type:text;not null;default:''"`
	Phone       string    `gorm:"column:phone;type:text;not null;default:''"`
	Address     string    `gorm:"column:address;type:text;not null;default:''"`
	Suburb      string    `gorm:"column:suburb;type:text;not null;default:''"`
	Postcode    string    `gorm:"column:postcode;type:varchar(8);not null;default:''"`
	ServiceType string    `gorm:"column:service_type;type:text;not null;default:''"`
	Notes       string    `gorm:"column:notes;type:text;not null;default:''"`
	Status      string    `gorm:"column:status;type:varchar(32);not null;index"`
	CreatedAt   time.Time `gorm:"column:created_at;not null;autoCreateTime:false"`
	UpdatedAt   time.Time `gorm:"column:updated_at;not null;autoUpdateTime:false"`
}

func (Lead) TableName() string {
	return "leads"
}
