package funnel

import (
	"encoding/json"
	"testing"
	"time"
)

func TestSessionJSONRoundtrip(t *testing.T) {
	s := NewSession("sess-123")
	s.Zip = "62701"
	s.Utility = "Ameren Illinois"
	s.AvgBill = "150"
	s.Homeowner = HomeownerYes
	s.TCPAConsent = true
	s.SMSConsent = true
	s.CurrentStep = 8
	s.SavedAt = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	raw, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var got Session
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got != *s {
		t.Fatalf("roundtrip mismatch:\n got %+v\nwant %+v", got, *s)
	}
}

func TestAutosaveCadence(t *testing.T) {
	s := NewSession("")
	s.CurrentStep = 9
	if s.ShouldAutosave() {
		t.Fatalf("autosave before consent passed")
	}

	s = sessionAtConsent(t)
	s.TCPAConsent = true
	s.SMSConsent = true
	if msg := s.Advance(); msg != "" {
		t.Fatalf("advance past consent: %s", msg)
	}

	for s.CurrentStep < TerminalStep() {
		want := s.CurrentStep%3 == 0
		if got := s.ShouldAutosave(); got != want {
			t.Fatalf("step %d: autosave=%v, want %v", s.CurrentStep, got, want)
		}
		fillStep(t, s)
		if msg := s.Advance(); msg != "" {
			t.Fatalf("advance blocked at step %d: %s", s.CurrentStep, msg)
		}
	}
}

func TestUnloadFlushEligibility(t *testing.T) {
	s := NewSession("")
	if s.EligibleForUnloadFlush() {
		t.Fatalf("fresh session should not flush")
	}

	s = sessionAtConsent(t)
	s.TCPAConsent = true
	s.SMSConsent = true
	if msg := s.Advance(); msg != "" {
		t.Fatalf("advance past consent: %s", msg)
	}
	if s.EligibleForUnloadFlush() {
		t.Fatalf("no phone on file yet, should not flush")
	}

	s.Phone = "2175551234"
	if !s.EligibleForUnloadFlush() {
		t.Fatalf("expected flush eligibility")
	}

	s.SMSConsent = false
	if s.EligibleForUnloadFlush() {
		t.Fatalf("missing sms consent, should not flush")
	}
}

func TestFullQualifyingFlow(t *testing.T) {
	s := NewSession("")
	for i := 0; i < FlowLength(); i++ {
		fillStep(t, s)
		if msg := s.Advance(); msg != "" {
			t.Fatalf("advance blocked at step %d: %s", s.CurrentStep, msg)
		}
		if s.CurrentStep == TerminalStep() {
			break
		}
	}

	if !s.AtTerminalStep() {
		t.Fatalf("expected terminal step, got %d", s.CurrentStep)
	}
	if reason, _ := s.CheckDisqualification(); reason != "" {
		t.Fatalf("qualifying flow disqualified: %s", reason)
	}

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.Complete(now)
	if s.IsPartial {
		t.Fatalf("completed session still partial")
	}
	if s.CompletedAt == nil || !s.CompletedAt.Equal(now) {
		t.Fatalf("completedAt not set")
	}
}

func TestRestartResetsStepAndFields(t *testing.T) {
	s := sessionAtConsent(t)
	id := s.SessionID
	s.Restart()
	if s.CurrentStep != 0 {
		t.Fatalf("restart left step at %d", s.CurrentStep)
	}
	if s.Zip != "" || s.Homeowner != "" {
		t.Fatalf("restart left field values behind")
	}
	if s.SessionID != id {
		t.Fatalf("restart changed session id")
	}
	if !s.IsPartial {
		t.Fatalf("restarted session should be partial")
	}
}

func TestStepIndexMonotonic(t *testing.T) {
	s := NewSession("")
	prev := s.CurrentStep
	for i := 0; i < FlowLength(); i++ {
		fillStep(t, s)
		s.Advance()
		if s.CurrentStep < prev {
			t.Fatalf("step decreased from %d to %d", prev, s.CurrentStep)
		}
		prev = s.CurrentStep
	}
}
