package notifications

import (
	"context"
	"fmt"
	"strings"

	"github.com/cesarlugojr/quantum-solar-crm-sub000/internal/leads"
	"github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
)

type TwilioSMS struct {
	client *twilio.RestClient
	from   string
	to     string
}

// NewTwilioSMS returns nil when the integration is not configured.
func NewTwilioSMS(accountSID, authToken, from, salesPhone string) *TwilioSMS {
	if strings.TrimSpace(accountSID) == "" || strings.TrimSpace(authToken) == "" ||
		strings.TrimSpace(from) == "" || strings.TrimSpace(salesPhone) == "" {
		return nil
	}
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})
	return &TwilioSMS{client: client, from: from, to: salesPhone}
}

func (t *TwilioSMS) SendDisqualifiedAlert(ctx context.Context, lead leads.DisqualifiedLead) error {
	body := fmt.Sprintf("Disqualified lead: %s %s (%s) - %s",
		lead.FirstName, lead.LastName, lead.Phone, lead.DisqualificationReason)
	return t.send(body)
}

func (t *TwilioSMS) SendNewLeadAlert(ctx context.Context, lead leads.Lead) error {
	body := fmt.Sprintf("New solar lead: %s %s (%s), ZIP %s",
		lead.FirstName, lead.LastName, lead.Phone, lead.Zip)
	return t.send(body)
}

func (t *TwilioSMS) send(body string) error {
	params := &openapi.CreateMessageParams{}
	params.SetFrom(t.from)
	params.SetTo(t.to)
	params.SetBody(body)

	_, err := t.client.Api.CreateMessage(params)
	if err != nil {
		return fmt.Errorf("twilio send failed: %w", err)
	}
	return nil
}
