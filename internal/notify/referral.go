package notify

import (
	"bytes"
	"html/template"
	"strings"
)

// ReferralDetails are the submitted values shown in the notification.
// DownloadURL is empty when the signed link could not be created.
type ReferralDetails struct {
	FullName    string
	BirthDate   string
	Phone       string
	Email       string
	Address     string
	Message     string
	DownloadURL string
	Pages       int
}

const referralSubjectPrefix = "[Patient] Nouvelle référence : "

var referralTemplate = template.Must(template.New("referral").Parse(`<div style="font-family: sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #0f172a;">Nouvelle demande de référence</h2>
  <div style="background: #f8fafc; padding: 20px; border-radius: 4px; border: 1px solid #e2e8f0;">
    <p><strong>Patient :</strong> {{.FullName}}</p>
    <p><strong>Né(e) le :</strong> {{.BirthDate}}</p>
    <p><strong>Téléphone :</strong> {{.Phone}}</p>
    <p><strong>Email :</strong> {{.Email}}</p>
    <p><strong>Adresse :</strong> {{.Address}}</p>
    {{- if gt .Pages 0}}
    <p><strong>Pages :</strong> {{.Pages}}</p>
    {{- end}}
    <br/>
    <p><strong>Message :</strong></p>
    <p style="white-space: pre-wrap; color: #475569;">{{if .Message}}{{.Message}}{{else}}Aucun message.{{end}}</p>
  </div>
  <div style="margin-top: 20px; text-align: center;">
    {{- if .DownloadURL}}
    <a href="{{.DownloadURL}}" style="color: #0f172a; font-weight: bold;">Télécharger le dossier (PDF)</a>
    {{- else}}
    <em>Fichier disponible dans le dashboard sécurisé.</em>
    {{- end}}
  </div>
</div>
`))

// ReferralEmail renders the doctor notification for a stored referral.
func ReferralEmail(from, to string, d ReferralDetails) (Email, error) {
	d.Message = strings.TrimSpace(d.Message)

	var buf bytes.Buffer
	if err := referralTemplate.Execute(&buf, d); err != nil {
		return Email{}, err
	}
	return Email{
		From:    from,
		To:      []string{to},
		Subject: referralSubjectPrefix + d.FullName,
		HTML:    buf.String(),
	}, nil
}
