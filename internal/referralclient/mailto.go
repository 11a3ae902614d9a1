package referralclient

import (
	"net/url"
	"strings"
)

// FallbackLink builds the manual e-mail fallback shown after a failed
// submission. The PDF cannot be attached through a mailto link, so the body
// asks the sender to attach it.
func FallbackLink(to string, form Form) string {
	var body strings.Builder
	body.WriteString("Nom : " + form.FullName + "\n")
	body.WriteString("Téléphone : " + form.Phone + "\n")
	if msg := strings.TrimSpace(form.Message); msg != "" {
		body.WriteString("Message : " + msg + "\n")
	}
	body.WriteString("\nMerci de joindre le courrier médical (PDF) à ce message.\n")

	q := url.Values{}
	q.Set("subject", "Demande de référence : "+form.FullName)
	q.Set("body", body.String())
	// mailto bodies must use %20 for spaces.
	query := strings.ReplaceAll(q.Encode(), "+", "%20")
	return "mailto:" + to + "?" + query
}
