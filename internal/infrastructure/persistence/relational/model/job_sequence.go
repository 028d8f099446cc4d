package model

type JobSequence struct {
	Year      int   `gorm:"column:year;primaryKey;autoIncrement:false"`
	LastValue int64 `gorm:"column:last_value;not null"`
}

func (JobSequence) TableName() string {
	return "job_number_sequences"
}
