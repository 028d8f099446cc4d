package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Inspection struct {
	ID           string     `gorm:"column:id;type:varchar(36);primaryKey"`
	LeadID       string     `gorm:"column:lead_id;type:varchar(36);not null;index"`
	TechnicianID string     `gorm:"column:technician_id;type:text;not null;default:''"`
	InspectorID  string     `gorm:"column:inspector_id;type:text;not null;default:''"`
	Status       string     `gorm:"column:status;type:varchar(16);not null;index"`
	Version      int64      `gorm:"column:version;not null"`
	JobNumber    *string    `gorm:"column:job_number;type:varchar(32);uniqueIndex"`
	ScheduledAt  *time.Time `gorm:"column:scheduled_at"`
	ArrivedAt    *time.Time `gorm:"column:arrived_at"`
	StartedAt    *time.Time `gorm:"column:started_at"`
	CompletedAt  *time.Time `gorm:"column:completed_at"`

	AttentionTo    string     `gorm:"column:attention_to;type:text;not null;default:''"`
	Triage         string     `gorm:"column:triage;type:text;not null;default:''"`
	Address        string     `gorm:"column:address;type:text;not null;default:''"`
	RequestedBy    string     `gorm:"column:requested_by;type:text;not null;default:''"`
	InspectionDate *time.Time `gorm:"column:inspection_date"`

	PropertyOccupation string `gorm:"column:property_occupation;type:text;not null;default:''"`
	DwellingType       string `gorm:"column:dwelling_type;type:varchar(32);not null;default:''"`

	SubfloorEnabled           bool   `gorm:"column:subfloor_enabled;not null;default:false"`
	SubfloorObservations      string `gorm:"column:subfloor_observations;type:text;not null;default:''"`
	SubfloorLandscape         string `gorm:"column:subfloor_landscape;type:text;not null;default:''"`
	SubfloorCommentsGenerated string `gorm:"column:subfloor_comments_generated;type:text;not null;default:''"`
	SubfloorCommentsEdited    string `gorm:"column:subfloor_comments_edited;type:text;not null;default:''"`
	SubfloorCommentsApproved  bool   `gorm:"column:subfloor_comments_approved;not null;default:false"`
	SubfloorSanitation        bool   `gorm:"column:subfloor_sanitation;not null;default:false"`
	SubfloorRacking           bool   `gorm:"column:subfloor_racking;not null;default:false"`
	SubfloorTreatmentMinutes  int    `gorm:"column:subfloor_treatment_minutes;not null;default:0"`

	OutdoorTemperature     *float64 `gorm:"column:outdoor_temperature"`
	OutdoorHumidity        *float64 `gorm:"column:outdoor_humidity"`
	OutdoorDewPoint        *float64 `gorm:"column:outdoor_dew_point"`
	OutdoorComments        string   `gorm:"column:outdoor_comments;type:text;not null;default:''"`
	FrontDoorPhoto         string   `gorm:"column:front_door_photo;type:text;not null;default:''"`
	FrontHousePhoto        string   `gorm:"column:front_house_photo;type:text;not null;default:''"`
	MailboxPhoto           string   `gorm:"column:mailbox_photo;type:text;not null;default:''"`
	StreetPhoto            string   `gorm:"column:street_photo;type:text;not null;default:''"`
	DirectionPhotosEnabled bool     `gorm:"column:direction_photos_enabled;not null;default:false"`

	WasteDisposalEnabled bool   `gorm:"column:waste_disposal_enabled;not null;default:false"`
	WasteDisposalAmount  string `gorm:"column:waste_disposal_amount;type:text;not null;default:''"`

	HepaVac                    bool  `gorm:"column:hepa_vac;not null;default:false"`
	Antimicrobial              bool  `gorm:"column:antimicrobial;not null;default:false"`
	StainRemovingAntimicrobial bool  `gorm:"column:stain_removing_antimicrobial;not null;default:false"`
	HomeSanitationFogging      bool  `gorm:"column:home_sanitation_fogging;not null;default:false"`
	DryingEquipmentEnabled     *bool `gorm:"column:drying_equipment_enabled"`
	DehumidifierQty            int   `gorm:"column:dehumidifier_qty;not null;default:0"`
	AirMoverQty                int   `gorm:"column:air_mover_qty;not null;default:0"`
	RCDBoxQty                  int   `gorm:"column:rcd_box_qty;not null;default:0"`
	DryingDays                 int   `gorm:"column:drying_days;not null;default:0"`

	RecommendDehumidifier       bool   `gorm:"column:recommend_dehumidifier;not null;default:false"`
	DehumidifierSize            string `gorm:"column:dehumidifier_size;type:text;not null;default:''"`
	CauseOfMouldGenerated       string `gorm:"column:cause_of_mould_generated;type:text;not null;default:''"`
	CauseOfMouldEdited          string `gorm:"column:cause_of_mould_edited;type:text;not null;default:''"`
	CauseOfMouldApproved        bool   `gorm:"column:cause_of_mould_approved;not null;default:false"`
	AdditionalInfoTechnician    string `gorm:"column:additional_info_technician;type:text;not null;default:''"`
	AdditionalEquipmentComments string `gorm:"column:additional_equipment_comments;type:text;not null;default:''"`
	ParkingOptions              string `gorm:"column:parking_options;type:text;not null;default:''"`

	LabourCost          decimal.NullDecimal `gorm:"column:labour_cost;type:numeric(12,2)"`
	EquipmentCost       decimal.NullDecimal `gorm:"column:equipment_cost;type:numeric(12,2)"`
	Subtotal            decimal.NullDecimal `gorm:"column:subtotal;type:numeric(12,2)"`
	GST                 decimal.NullDecimal `gorm:"column:gst;type:numeric(12,2)"`
	TotalCost           decimal.NullDecimal `gorm:"column:total_cost;type:numeric(12,2)"`
	FinalCost           decimal.NullDecimal `gorm:"column:final_cost;type:numeric(12,2)"`
	FinalCostOverridden bool                `gorm:"column:final_cost_overridden;not null;default:false"`
	WorkType            string              `gorm:"column:work_type;type:varchar(16);not null;default:''"`
	TotalHours          decimal.NullDecimal `gorm:"column:total_hours;type:numeric(8,2)"`
	DiscountPercent     decimal.NullDecimal `gorm:"column:discount_percent;type:numeric(5,4)"`

	CreatedAt time.Time `gorm:"column:created_at;not null;autoCreateTime:false"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null;autoUpdateTime:false"`
}

func (Inspection) TableName() string {
	return "inspections"
}
