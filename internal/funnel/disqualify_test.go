package funnel

import "testing"

func TestHomeownerNoDisqualifies(t *testing.T) {
	s := NewSession("")
	s.Homeowner = HomeownerNo
	reason, fired := s.CheckDisqualification()
	if reason != ReasonNotHomeowner {
		t.Fatalf("expected %q, got %q", ReasonNotHomeowner, reason)
	}
	if !fired {
		t.Fatalf("first check should fire")
	}
	if !s.Disqualified() {
		t.Fatalf("session not marked disqualified")
	}
}

func TestDisqualificationChecksOnce(t *testing.T) {
	s := NewSession("")
	s.Homeowner = HomeownerNo
	if _, fired := s.CheckDisqualification(); !fired {
		t.Fatalf("first check should fire")
	}
	reason, fired := s.CheckDisqualification()
	if fired {
		t.Fatalf("second check must not fire")
	}
	if reason != ReasonNotHomeowner {
		t.Fatalf("recorded reason lost on repeat check: %q", reason)
	}
}

func TestDisqualifiedSessionCannotAdvance(t *testing.T) {
	s := NewSession("")
	s.Homeowner = HomeownerNo
	s.CheckDisqualification()
	before := s.CurrentStep
	if msg := s.Advance(); msg == "" {
		t.Fatalf("disqualified session advanced")
	}
	if s.CurrentStep != before {
		t.Fatalf("step moved on disqualified session")
	}
}

func TestCreditAndShadingNeverDisqualify(t *testing.T) {
	credits := []string{"below 580", "580-649", "650+"}
	shadings := []string{"none", "light", "moderate", "heavy"}
	for _, credit := range credits {
		for _, shading := range shadings {
			s := NewSession("")
			s.Homeowner = HomeownerYes
			s.Credit = credit
			s.Shading = shading
			if reason, _ := s.CheckDisqualification(); reason != "" {
				t.Fatalf("credit %q shading %q disqualified: %s", credit, shading, reason)
			}
		}
	}
}

func TestEvaluateOnlyHomeownerField(t *testing.T) {
	if got := Evaluate(FieldCredit, "below 580"); got != "" {
		t.Fatalf("credit produced reason %q", got)
	}
	if got := Evaluate(FieldShading, "heavy"); got != "" {
		t.Fatalf("shading produced reason %q", got)
	}
	if got := Evaluate(FieldHomeowner, HomeownerYes); got != "" {
		t.Fatalf("homeowner yes produced reason %q", got)
	}
	if got := Evaluate(FieldHomeowner, HomeownerNo); got != ReasonNotHomeowner {
		t.Fatalf("homeowner no produced %q", got)
	}
}
