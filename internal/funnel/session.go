package funnel

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Session carries the whole state of one funnel attempt. It serializes to
// JSON losslessly so snapshots restore step position and every answer.
type Session struct {
	SessionID string `json:"sessionId"`

	Zip       string `json:"zip,omitempty"`
	Utility   string `json:"utility,omitempty"`
	AvgBill   string `json:"avgBill,omitempty"`
	Homeowner string `json:"homeowner,omitempty"`
	Credit    string `json:"creditScore,omitempty"`
	Shading   string `json:"shading,omitempty"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Street    string `json:"streetAddress,omitempty"`
	City      string `json:"city,omitempty"`
	State     string `json:"state,omitempty"`

	TCPAConsent bool `json:"tcpaConsent"`
	SMSConsent  bool `json:"smsConsent"`

	CurrentStep            int    `json:"currentStep"`
	IsPartial              bool   `json:"isPartial"`
	DisqualificationReason string `json:"disqualificationReason,omitempty"`
	DisqualifyChecked      bool   `json:"disqualifyChecked"`

	SavedAt     time.Time  `json:"savedAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

var ErrUnknownField = errors.New("unknown funnel field")

const (
	msgTCPAConsentRequired = "please acknowledge the contact consent to continue"
	msgSMSConsentRequired  = "please acknowledge the text message consent to continue"
)

func NewSession(id string) *Session {
	if id == "" {
		id = uuid.NewString()
	}
	return &Session{
		SessionID: id,
		IsPartial: true,
	}
}

func (s *Session) Value(field string) string {
	switch field {
	case FieldZip:
		return s.Zip
	case FieldUtility:
		return s.Utility
	case FieldAvgBill:
		return s.AvgBill
	case FieldHomeowner:
		return s.Homeowner
	case FieldCredit:
		return s.Credit
	case FieldShading:
		return s.Shading
	case FieldFirstName:
		return s.FirstName
	case FieldLastName:
		return s.LastName
	case FieldEmail:
		return s.Email
	case FieldPhone:
		return s.Phone
	case FieldStreet:
		return s.Street
	case FieldCity:
		return s.City
	case FieldState:
		return s.State
	}
	return ""
}

func (s *Session) Set(field, value string) error {
	switch field {
	case FieldZip:
		s.Zip = value
	case FieldUtility:
		s.Utility = value
	case FieldAvgBill:
		s.AvgBill = value
	case FieldHomeowner:
		s.Homeowner = value
	case FieldCredit:
		s.Credit = value
	case FieldShading:
		s.Shading = value
	case FieldFirstName:
		s.FirstName = value
	case FieldLastName:
		s.LastName = value
	case FieldEmail:
		s.Email = value
	case FieldPhone:
		s.Phone = value
	case FieldStreet:
		s.Street = value
	case FieldCity:
		s.City = value
	case FieldState:
		s.State = value
	default:
		return ErrUnknownField
	}
	return nil
}

// Advance validates the current position and moves forward one step. It
// returns a non-empty message when validation blocks the move; the step
// index never changes in that case.
func (s *Session) Advance() string {
	if s.Disqualified() {
		return "this session has ended"
	}
	if s.CurrentStep >= TerminalStep() {
		// Final position: validate but stay put. Completion is an explicit
		// submission, not another advance.
		step := StepAt(TerminalStep())
		return step.Validate(s.Value(step.Field))
	}

	if s.CurrentStep == ConsentStep {
		if !s.TCPAConsent {
			return msgTCPAConsentRequired
		}
		if !s.SMSConsent {
			return msgSMSConsentRequired
		}
		s.CurrentStep++
		return ""
	}

	step := StepAt(s.CurrentStep)
	if msg := step.Validate(s.Value(step.Field)); msg != "" {
		return msg
	}
	s.CurrentStep++
	return ""
}

// Restart is the only path that moves the step index backwards.
func (s *Session) Restart() {
	id := s.SessionID
	*s = Session{SessionID: id, IsPartial: true}
}

func (s *Session) Complete(now time.Time) {
	s.IsPartial = false
	s.CompletedAt = &now
}

func (s *Session) Disqualified() bool {
	return s.DisqualificationReason != ""
}

func (s *Session) ConsentGiven() bool {
	return s.TCPAConsent && s.SMSConsent
}

func (s *Session) ConsentPassed() bool {
	return s.CurrentStep > ConsentStep
}

// ShouldAutosave gates the periodic partial write to the datastore. The
// every-third-step cadence is a deliberate throttle, not a tuned value.
func (s *Session) ShouldAutosave() bool {
	return s.ConsentPassed() && s.CurrentStep%3 == 0
}

// EligibleForUnloadFlush reports whether an abandonment-triggered partial
// save may fire: consent given, a phone number on file, and the consent
// step behind us.
func (s *Session) EligibleForUnloadFlush() bool {
	return s.ConsentGiven() && s.Phone != "" && s.CurrentStep > ConsentStep
}

func (s *Session) AtTerminalStep() bool {
	return s.CurrentStep >= TerminalStep()
}
