package projects

import "time"

const (
	StatusActive    = "active"
	StatusOnHold    = "on_hold"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

var validStatuses = map[string]struct{}{
	StatusActive:    {},
	StatusOnHold:    {},
	StatusCompleted: {},
	StatusCancelled: {},
}

func IsValidStatus(value string) bool {
	_, ok := validStatuses[value]
	return ok
}

// StageCount is the number of ordered milestones in an installation's
// lifecycle, from signed sale through closeout.
const StageCount = 12

var stageNames = [StageCount]string{
	"Sale",
	"Site Survey",
	"Design",
	"Permit Submitted",
	"Permit Approved",
	"Install Scheduled",
	"Installation Complete",
	"Inspection",
	"Interconnection",
	"PTO Granted",
	"System Activated",
	"Closeout",
}

func StageName(stage int) string {
	if stage < 1 || stage > StageCount {
		return ""
	}
	return stageNames[stage-1]
}

func IsValidStage(stage int) bool {
	return stage >= 1 && stage <= StageCount
}

type Project struct {
	ID           string  `bson:"_id,omitempty" json:"id"`
	CustomerName string  `bson:"customer_name" json:"customerName"`
	Email        string  `bson:"email,omitempty" json:"email,omitempty"`
	Phone        string  `bson:"phone,omitempty" json:"phone,omitempty"`
	Address      string  `bson:"address" json:"address"`
	SystemSizeKW float64 `bson:"system_size_kw,omitempty" json:"systemSizeKw,omitempty"`
	ValueUSD     float64 `bson:"value_usd,omitempty" json:"valueUsd,omitempty"`
	Stage        int     `bson:"stage" json:"stage"`
	Status       string  `bson:"status" json:"status"`

	MonitoringSystemID string `bson:"monitoring_system_id,omitempty" json:"monitoringSystemId,omitempty"`

	SaleDate  string    `bson:"sale_date,omitempty" json:"saleDate,omitempty"`
	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// StageHistoryEntry records one stage transition. The history is append-only;
// entries are never rewritten or removed.
type StageHistoryEntry struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	ProjectID string    `bson:"project_id" json:"projectId"`
	FromStage int       `bson:"from_stage" json:"fromStage"`
	ToStage   int       `bson:"to_stage" json:"toStage"`
	Note      string    `bson:"note,omitempty" json:"note,omitempty"`
	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
}

type CreateRequest struct {
	CustomerName string  `json:"customerName" validate:"required"`
	Email        string  `json:"email" validate:"omitempty,email"`
	Phone        string  `json:"phone" validate:"omitempty,phone"`
	Address      string  `json:"address" validate:"required"`
	SystemSizeKW float64 `json:"systemSizeKw" validate:"gte=0"`
	ValueUSD     float64 `json:"valueUsd" validate:"gte=0"`
	SaleDate     string  `json:"saleDate" validate:"omitempty,date"`

	MonitoringSystemID string `json:"monitoringSystemId"`
}

type UpdateRequest struct {
	CustomerName string  `json:"customerName" validate:"required"`
	Email        string  `json:"email" validate:"omitempty,email"`
	Phone        string  `json:"phone" validate:"omitempty,phone"`
	Address      string  `json:"address" validate:"required"`
	SystemSizeKW float64 `json:"systemSizeKw" validate:"gte=0"`
	ValueUSD     float64 `json:"valueUsd" validate:"gte=0"`
	Status       string  `json:"status" validate:"required,oneof=active on_hold completed cancelled"`

	MonitoringSystemID string `json:"monitoringSystemId"`
}

type StageAdvanceRequest struct {
	Stage int    `json:"stage" validate:"required,gte=1,lte=12"`
	Note  string `json:"note"`
}

type ListFilter struct {
	Stage  int
	Status string
}
