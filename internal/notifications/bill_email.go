package notifications

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"github.com/cesarlugojr/quantum-solar-crm-sub000/internal/uploads"
)

const billUploadTemplate = `<!DOCTYPE html>
<html>
<body>
  <h3>Utility bill uploaded</h3>
  <p><strong>Name:</strong> {{.FirstName}} {{.LastName}}</p>
  <p><strong>Email:</strong> {{.Email}}</p>
  {{if .Phone}}<p><strong>Phone:</strong> {{.Phone}}</p>{{end}}
  <p><strong>File:</strong> {{.OriginalName}}</p>
  <p><strong>Status:</strong> {{.Status}}</p>
  {{if .URL}}<p><a href="{{.URL}}">View bill</a></p>{{end}}
  {{if .FailureReason}}<p><strong>Storage error:</strong> {{.FailureReason}}</p>{{end}}
</body>
</html>`

var billUploadTmpl = template.Must(template.New("bill_upload").Parse(billUploadTemplate))

func (c *BrevoClient) SendBillUploadNotification(ctx context.Context, artifact uploads.Artifact) (string, error) {
	var buf bytes.Buffer
	if err := billUploadTmpl.Execute(&buf, artifact); err != nil {
		return "", err
	}
	subject := fmt.Sprintf("Utility bill from %s %s", artifact.FirstName, artifact.LastName)
	return c.sendHTML(ctx, c.salesEmail, "Sales", subject, buf.String())
}
