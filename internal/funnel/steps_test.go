package funnel

import "testing"

func TestInvalidValueBlocksAdvance(t *testing.T) {
	cases := []struct {
		field string
		value string
	}{
		{FieldZip, "627"},
		{FieldZip, "abcde"},
		{FieldUtility, "Some Co-op"},
		{FieldAvgBill, "25"},
		{FieldAvgBill, "seven"},
		{FieldHomeowner, "maybe"},
		{FieldCredit, "700"},
		{FieldShading, "full"},
		{FieldFirstName, "   "},
		{FieldLastName, ""},
		{FieldEmail, "not-an-email"},
		{FieldPhone, "12"},
		{FieldStreet, ""},
		{FieldCity, ""},
		{FieldState, ""},
	}

	for _, tc := range cases {
		s := NewSession("")
		// walk the flow until the step under test is current
		for i := 0; i < FlowLength(); i++ {
			step := StepAt(s.CurrentStep)
			if step != nil && step.Field == tc.field {
				break
			}
			fillStep(t, s)
			if msg := s.Advance(); msg != "" {
				t.Fatalf("setup advance blocked at step %d: %s", s.CurrentStep, msg)
			}
		}

		before := s.CurrentStep
		if err := s.Set(tc.field, tc.value); err != nil {
			t.Fatalf("Set(%s): %v", tc.field, err)
		}
		msg := s.Advance()
		if msg == "" {
			t.Fatalf("field %s value %q: expected validation message", tc.field, tc.value)
		}
		if s.CurrentStep != before {
			t.Fatalf("field %s: step moved from %d to %d on invalid value", tc.field, before, s.CurrentStep)
		}
	}
}

func TestValidValueAdvances(t *testing.T) {
	s := NewSession("")
	if err := s.Set(FieldZip, "62701"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if msg := s.Advance(); msg != "" {
		t.Fatalf("expected advance, got %q", msg)
	}
	if s.CurrentStep != 1 {
		t.Fatalf("expected step 1, got %d", s.CurrentStep)
	}
}

func TestConsentStepRequiresBothFlags(t *testing.T) {
	s := sessionAtConsent(t)

	if msg := s.Advance(); msg != msgTCPAConsentRequired {
		t.Fatalf("expected tcpa message, got %q", msg)
	}
	if s.CurrentStep != ConsentStep {
		t.Fatalf("step moved without consent: %d", s.CurrentStep)
	}

	s.TCPAConsent = true
	if msg := s.Advance(); msg != msgSMSConsentRequired {
		t.Fatalf("expected sms message, got %q", msg)
	}

	s.SMSConsent = true
	if msg := s.Advance(); msg != "" {
		t.Fatalf("expected advance past consent, got %q", msg)
	}
	if s.CurrentStep != ConsentStep+1 {
		t.Fatalf("expected step %d, got %d", ConsentStep+1, s.CurrentStep)
	}
}

func TestSliderDescriptor(t *testing.T) {
	var slider *Slider
	for _, step := range Steps() {
		if step.Field == FieldAvgBill {
			slider = step.Slider
		}
	}
	if slider == nil {
		t.Fatalf("bill step missing slider descriptor")
	}
	if slider.Min != 50 || slider.Max != 600 || slider.Step != 10 {
		t.Fatalf("unexpected slider bounds: %+v", slider)
	}
	if got := slider.FormatValue(150); got != "$150/mo" {
		t.Fatalf("unexpected formatted value: %q", got)
	}
}

// fillStep writes a valid answer for the session's current position.
func fillStep(t *testing.T, s *Session) {
	t.Helper()
	if s.CurrentStep == ConsentStep {
		s.TCPAConsent = true
		s.SMSConsent = true
		return
	}
	step := StepAt(s.CurrentStep)
	if step == nil {
		t.Fatalf("no step at position %d", s.CurrentStep)
	}
	if err := s.Set(step.Field, validAnswers[step.Field]); err != nil {
		t.Fatalf("Set(%s): %v", step.Field, err)
	}
}

var validAnswers = map[string]string{
	FieldZip:       "62701",
	FieldUtility:   "Ameren Illinois",
	FieldAvgBill:   "150",
	FieldHomeowner: HomeownerYes,
	FieldCredit:    "650+",
	FieldShading:   "none",
	FieldFirstName: "Jane",
	FieldLastName:  "Doe",
	FieldEmail:     "jane.doe@example.com",
	FieldPhone:     "2175551234",
	FieldStreet:    "100 E Capitol Ave",
	FieldCity:      "Springfield",
	FieldState:     "IL",
}

func sessionAtConsent(t *testing.T) *Session {
	t.Helper()
	s := NewSession("")
	for s.CurrentStep < ConsentStep {
		fillStep(t, s)
		if msg := s.Advance(); msg != "" {
			t.Fatalf("advance blocked at step %d: %s", s.CurrentStep, msg)
		}
	}
	return s
}
