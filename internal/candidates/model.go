package candidates

import "time"

const (
	StatusApplied      = "applied"
	StatusInterviewing = "interviewing"
	StatusOffer        = "offer"
	StatusHired        = "hired"
	StatusRejected     = "rejected"
)

var validStatuses = map[string]struct{}{
	StatusApplied:      {},
	StatusInterviewing: {},
	StatusOffer:        {},
	StatusHired:        {},
	StatusRejected:     {},
}

func IsValidStatus(value string) bool {
	_, ok := validStatuses[value]
	return ok
}

type Candidate struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	FirstName string    `bson:"first_name" json:"firstName"`
	LastName  string    `bson:"last_name" json:"lastName"`
	Email     string    `bson:"email" json:"email"`
	Phone     string    `bson:"phone,omitempty" json:"phone,omitempty"`
	Position  string    `bson:"position" json:"position"`
	ResumeURL string    `bson:"resume_url,omitempty" json:"resumeUrl,omitempty"`
	Status    string    `bson:"status" json:"status"`
	Notes     string    `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

type CreateRequest struct {
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone" validate:"omitempty,phone"`
	Position  string `json:"position" validate:"required"`
	ResumeURL string `json:"resumeUrl" validate:"omitempty,url"`
	Notes     string `json:"notes"`
}

type UpdateRequest struct {
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone" validate:"omitempty,phone"`
	Position  string `json:"position" validate:"required"`
	ResumeURL string `json:"resumeUrl" validate:"omitempty,url"`
	Status    string `json:"status" validate:"required,oneof=applied interviewing offer hired rejected"`
	Notes     string `json:"notes"`
}

type ListFilter struct {
	Status   string
	Position string
}
