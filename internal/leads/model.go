package leads

import "time"

const (
	StatusNew       = "new"
	StatusContacted = "contacted"
	StatusQualified = "qualified"
	StatusClosed    = "closed"
)

var validStatuses = map[string]struct{}{
	StatusNew:       {},
	StatusContacted: {},
	StatusQualified: {},
	StatusClosed:    {},
}

func IsValidStatus(value string) bool {
	_, ok := validStatuses[value]
	return ok
}

// Lead is the datastore image of one funnel session. Partial and final
// submissions land on the same record keyed by session id.
type Lead struct {
	ID        string `bson:"_id,omitempty" json:"id"`
	SessionID string `bson:"session_id" json:"sessionId"`

	Zip       string `bson:"zip,omitempty" json:"zip,omitempty"`
	Utility   string `bson:"utility,omitempty" json:"utility,omitempty"`
	AvgBill   string `bson:"avg_bill,omitempty" json:"avgBill,omitempty"`
	Homeowner string `bson:"homeowner,omitempty" json:"homeowner,omitempty"`
	Credit    string `bson:"credit_score,omitempty" json:"creditScore,omitempty"`
	Shading   string `bson:"shading,omitempty" json:"shading,omitempty"`
	FirstName string `bson:"first_name,omitempty" json:"firstName,omitempty"`
	LastName  string `bson:"last_name,omitempty" json:"lastName,omitempty"`
	Email     string `bson:"email,omitempty" json:"email,omitempty"`
	Phone     string `bson:"phone,omitempty" json:"phone,omitempty"`
	Street    string `bson:"street_address,omitempty" json:"streetAddress,omitempty"`
	City      string `bson:"city,omitempty" json:"city,omitempty"`
	State     string `bson:"state,omitempty" json:"state,omitempty"`

	TCPAConsent bool `bson:"tcpa_consent" json:"tcpaConsent"`
	SMSConsent  bool `bson:"sms_consent" json:"smsConsent"`

	CurrentStep int    `bson:"current_step" json:"currentStep"`
	IsPartial   bool   `bson:"is_partial" json:"isPartial"`
	Status      string `bson:"status" json:"status"`

	CreatedAt   time.Time  `bson:"created_at" json:"createdAt"`
	UpdatedAt   time.Time  `bson:"updated_at" json:"updatedAt"`
	CompletedAt *time.Time `bson:"completed_at,omitempty" json:"completedAt,omitempty"`
}

// DisqualifiedLead is the terminal record for sessions the qualification
// rule removed from the flow.
type DisqualifiedLead struct {
	ID        string `bson:"_id,omitempty" json:"id"`
	SessionID string `bson:"session_id,omitempty" json:"sessionId,omitempty"`

	FirstName string `bson:"first_name" json:"firstName"`
	LastName  string `bson:"last_name" json:"lastName"`
	Phone     string `bson:"phone" json:"phone"`
	Email     string `bson:"email,omitempty" json:"email,omitempty"`
	Zip       string `bson:"zip,omitempty" json:"zip,omitempty"`
	Utility   string `bson:"utility,omitempty" json:"utility,omitempty"`
	AvgBill   string `bson:"avg_bill,omitempty" json:"avgBill,omitempty"`

	DisqualificationReason string `bson:"disqualification_reason" json:"disqualificationReason"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
}

type SubmitRequest struct {
	SessionID   string `json:"sessionId" validate:"required"`
	IsPartial   bool   `json:"isPartial"`
	CurrentStep int    `json:"currentStep" validate:"gte=0"`

	Zip       string `json:"zip" validate:"omitempty,zipcode"`
	Utility   string `json:"utility"`
	AvgBill   string `json:"avgBill"`
	Homeowner string `json:"homeowner"`
	Credit    string `json:"creditScore"`
	Shading   string `json:"shading"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email" validate:"omitempty,email"`
	Phone     string `json:"phone" validate:"omitempty,phone"`
	Street    string `json:"streetAddress"`
	City      string `json:"city"`
	State     string `json:"state"`

	TCPAConsent bool `json:"tcpaConsent"`
	SMSConsent  bool `json:"smsConsent"`

	SendEmailNotification bool `json:"sendEmailNotification"`
}

type DisqualifiedRequest struct {
	SessionID string `json:"sessionId"`
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Phone     string `json:"phone" validate:"required,phone"`
	Email     string `json:"email" validate:"omitempty,email"`
	Zip       string `json:"zip" validate:"omitempty,zipcode"`
	Utility   string `json:"utility"`
	AvgBill   string `json:"avgBill"`

	DisqualificationReason string `json:"disqualificationReason" validate:"required"`
}

type AdminStatusUpdateRequest struct {
	Status string `json:"status" validate:"required,oneof=new contacted qualified closed"`
}

type ListFilter struct {
	Status  string
	Partial *bool
}
