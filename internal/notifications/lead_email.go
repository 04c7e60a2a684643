package notifications

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"github.com/cesarlugojr/quantum-solar-crm-sub000/internal/leads"
)

const leadNotificationTemplate = `<!DOCTYPE html>
<html>
<body>
  <h3>New solar lead</h3>
  <p><strong>Name:</strong> {{.FirstName}} {{.LastName}}</p>
  <p><strong>Phone:</strong> {{.Phone}}</p>
  <p><strong>Email:</strong> {{.Email}}</p>
  {{if .Zip}}<p><strong>ZIP:</strong> {{.Zip}}</p>{{end}}
  {{if .Utility}}<p><strong>Utility:</strong> {{.Utility}}</p>{{end}}
  {{if .AvgBill}}<p><strong>Avg monthly bill:</strong> ${{.AvgBill}}</p>{{end}}
  {{if .Homeowner}}<p><strong>Homeowner:</strong> {{.Homeowner}}</p>{{end}}
  {{if .Credit}}<p><strong>Credit range:</strong> {{.Credit}}</p>{{end}}
  {{if .Shading}}<p><strong>Roof shading:</strong> {{.Shading}}</p>{{end}}
  {{if .Street}}<p><strong>Address:</strong> {{.Street}}, {{.City}}, {{.State}}</p>{{end}}
  <p><strong>Session:</strong> {{.SessionID}}</p>
</body>
</html>`

const disqualifiedNotificationTemplate = `<!DOCTYPE html>
<html>
<body>
  <h3>Disqualified lead</h3>
  <p><strong>Reason:</strong> {{.DisqualificationReason}}</p>
  <p><strong>Name:</strong> {{.FirstName}} {{.LastName}}</p>
  <p><strong>Phone:</strong> {{.Phone}}</p>
  {{if .Email}}<p><strong>Email:</strong> {{.Email}}</p>{{end}}
  {{if .Zip}}<p><strong>ZIP:</strong> {{.Zip}}</p>{{end}}
  {{if .Utility}}<p><strong>Utility:</strong> {{.Utility}}</p>{{end}}
  {{if .AvgBill}}<p><strong>Avg monthly bill:</strong> ${{.AvgBill}}</p>{{end}}
</body>
</html>`

var (
	leadNotificationTmpl         = template.Must(template.New("lead_notification").Parse(leadNotificationTemplate))
	disqualifiedNotificationTmpl = template.Must(template.New("disqualified_notification").Parse(disqualifiedNotificationTemplate))
)

func (c *BrevoClient) SendLeadNotification(ctx context.Context, lead leads.Lead) (string, error) {
	var buf bytes.Buffer
	if err := leadNotificationTmpl.Execute(&buf, lead); err != nil {
		return "", err
	}
	subject := fmt.Sprintf("New solar lead: %s %s", lead.FirstName, lead.LastName)
	return c.sendHTML(ctx, c.salesEmail, "Sales", subject, buf.String())
}

func (c *BrevoClient) SendDisqualifiedNotification(ctx context.Context, lead leads.DisqualifiedLead) (string, error) {
	var buf bytes.Buffer
	if err := disqualifiedNotificationTmpl.Execute(&buf, lead); err != nil {
		return "", err
	}
	subject := fmt.Sprintf("Disqualified lead: %s %s", lead.FirstName, lead.LastName)
	return c.sendHTML(ctx, c.salesEmail, "Sales", subject, buf.String())
}
