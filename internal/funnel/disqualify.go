package funnel

// ReasonNotHomeowner is the only disqualification reason the funnel can
// produce today.
const ReasonNotHomeowner = "not a homeowner"

// Evaluate applies the disqualification rule to a single answer. Only the
// homeowner question ever disqualifies; credit score and shading answers are
// collected for the sales team but do not gate the flow.
func Evaluate(field, value string) string {
	if field == FieldHomeowner && value == HomeownerNo {
		return ReasonNotHomeowner
	}
	return ""
}

// CheckDisqualification runs the rule against the session's homeowner answer
// at most once per session. The returned bool reports whether the check
// executed on this call; repeat calls return the recorded reason without
// re-firing.
func (s *Session) CheckDisqualification() (string, bool) {
	if s.DisqualifyChecked {
		return s.DisqualificationReason, false
	}
	s.DisqualifyChecked = true
	if reason := Evaluate(FieldHomeowner, s.Homeowner); reason != "" {
		s.DisqualificationReason = reason
	}
	return s.DisqualificationReason, true
}
