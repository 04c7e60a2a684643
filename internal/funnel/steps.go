package funnel

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

type Kind string

const (
	KindText   Kind = "text"
	KindEmail  Kind = "email"
	KindTel    Kind = "tel"
	KindSelect Kind = "select"
	KindSlider Kind = "slider"
)

const (
	FieldZip       = "zip"
	FieldUtility   = "utility"
	FieldAvgBill   = "avgBill"
	FieldHomeowner = "homeowner"
	FieldCredit    = "creditScore"
	FieldShading   = "shading"
	FieldFirstName = "firstName"
	FieldLastName  = "lastName"
	FieldEmail     = "email"
	FieldPhone     = "phone"
	FieldStreet    = "streetAddress"
	FieldCity      = "city"
	FieldState     = "state"
)

const (
	HomeownerYes = "yes"
	HomeownerNo  = "no"
)

// Slider describes display bounds for slider steps. FormatValue only
// affects rendering; range enforcement happens in the step validator.
type Slider struct {
	Min         int
	Max         int
	Step        int
	FormatValue func(value int) string
}

type Step struct {
	Field    string
	Label    string
	Kind     Kind
	Options  []string
	Slider   *Slider
	Validate func(value string) string
}

// ConsentStep is the flow position of the TCPA/SMS consent step. It sits
// between the qualification questions and the contact questions and is not
// part of the field table.
const ConsentStep = 6

var (
	zipRe   = regexp.MustCompile(`^[0-9]{5}$`)
	emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phoneRe = regexp.MustCompile(`^\+?[0-9]{7,15}$`)
)

var billSlider = &Slider{
	Min:  50,
	Max:  600,
	Step: 10,
	FormatValue: func(value int) string {
		return fmt.Sprintf("$%d/mo", value)
	},
}

var fieldSteps = []Step{
	{
		Field:    FieldZip,
		Label:    "What's your ZIP code?",
		Kind:     KindText,
		Validate: validateZip,
	},
	{
		Field:   FieldUtility,
		Label:   "Who is your utility company?",
		Kind:    KindSelect,
		Options: []string{"Ameren Illinois", "ComEd", "City Water Light & Power", "Other"},
		Validate: validateOneOf("utility company", []string{
			"Ameren Illinois", "ComEd", "City Water Light & Power", "Other",
		}),
	},
	{
		Field:    FieldAvgBill,
		Label:    "What's your average monthly electric bill?",
		Kind:     KindSlider,
		Slider:   billSlider,
		Validate: validateBill,
	},
	{
		Field:    FieldHomeowner,
		Label:    "Do you own your home?",
		Kind:     KindSelect,
		Options:  []string{HomeownerYes, HomeownerNo},
		Validate: validateOneOf("answer", []string{HomeownerYes, HomeownerNo}),
	},
	{
		Field:    FieldCredit,
		Label:    "What's your credit score range?",
		Kind:     KindSelect,
		Options:  []string{"below 580", "580-649", "650+"},
		Validate: validateOneOf("credit range", []string{"below 580", "580-649", "650+"}),
	},
	{
		Field:    FieldShading,
		Label:    "How much shade does your roof get?",
		Kind:     KindSelect,
		Options:  []string{"none", "light", "moderate", "heavy"},
		Validate: validateOneOf("shading level", []string{"none", "light", "moderate", "heavy"}),
	},
	{
		Field:    FieldFirstName,
		Label:    "First name",
		Kind:     KindText,
		Validate: validateRequired("first name"),
	},
	{
		Field:    FieldLastName,
		Label:    "Last name",
		Kind:     KindText,
		Validate: validateRequired("last name"),
	},
	{
		Field:    FieldEmail,
		Label:    "Email address",
		Kind:     KindEmail,
		Validate: validateEmail,
	},
	{
		Field:    FieldPhone,
		Label:    "Phone number",
		Kind:     KindTel,
		Validate: validatePhone,
	},
	{
		Field:    FieldStreet,
		Label:    "Street address",
		Kind:     KindText,
		Validate: validateRequired("street address"),
	},
	{
		Field:    FieldCity,
		Label:    "City",
		Kind:     KindText,
		Validate: validateRequired("city"),
	},
	{
		Field:    FieldState,
		Label:    "State",
		Kind:     KindText,
		Validate: validateRequired("state"),
	},
}

// FlowLength is the number of positions in the funnel: all field steps plus
// the consent step.
func FlowLength() int {
	return len(fieldSteps) + 1
}

// TerminalStep is the last flow position; completing it finalizes the session.
func TerminalStep() int {
	return FlowLength() - 1
}

// StepAt maps a flow position to its field step. The consent position has no
// field step and returns nil.
func StepAt(index int) *Step {
	if index < 0 || index >= FlowLength() || index == ConsentStep {
		return nil
	}
	if index < ConsentStep {
		return &fieldSteps[index]
	}
	return &fieldSteps[index-1]
}

func Steps() []Step {
	out := make([]Step, len(fieldSteps))
	copy(out, fieldSteps)
	return out
}

func validateZip(value string) string {
	if !zipRe.MatchString(strings.TrimSpace(value)) {
		return "please enter a valid 5-digit ZIP code"
	}
	return ""
}

func validateBill(value string) string {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return "please select your average monthly bill"
	}
	if n < billSlider.Min || n > billSlider.Max {
		return fmt.Sprintf("bill must be between %s and %s",
			billSlider.FormatValue(billSlider.Min), billSlider.FormatValue(billSlider.Max))
	}
	return ""
}

func validateEmail(value string) string {
	if !emailRe.MatchString(strings.TrimSpace(value)) {
		return "please enter a valid email address"
	}
	return ""
}

func validatePhone(value string) string {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '(', ')', '.':
			return -1
		}
		return r
	}, strings.TrimSpace(value))
	if !phoneRe.MatchString(cleaned) {
		return "please enter a valid phone number"
	}
	return ""
}

func validateRequired(label string) func(string) string {
	return func(value string) string {
		if strings.TrimSpace(value) == "" {
			return "please enter your " + label
		}
		return ""
	}
}

func validateOneOf(label string, options []string) func(string) string {
	return func(value string) string {
		for _, opt := range options {
			if value == opt {
				return ""
			}
		}
		return "please choose a " + label
	}
}
