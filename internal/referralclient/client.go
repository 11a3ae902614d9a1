// Package referralclient submits referral forms to the intake endpoint and
// classifies the result the way the site form presents it.
package referralclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"sync/atomic"
	"time"
)

const (
	genericRejection = "Edge Function returned a non-2xx status code"
	transportMessage = "Connection error. Please check your network and try again, or send your referral by email."
)

// Form holds the text fields of a referral.
type Form struct {
	FullName  string
	BirthDate string
	Address   string
	Phone     string
	Email     string
	Message   string
}

// Attachment is the file chosen by the user.
type Attachment struct {
	FileName    string
	ContentType string
	Data        []byte
}

// OutcomeKind classifies a submission attempt.
type OutcomeKind int

const (
	// Blocked means no request was sent.
	Blocked OutcomeKind = iota
	Success
	// Rejected means the endpoint answered with an error body or status.
	Rejected
	// TransportFailure means no usable response was received.
	TransportFailure
)

func (k OutcomeKind) String() string {
	switch k {
	case Success:
		return "success"
	case Rejected:
		return "rejected"
	case TransportFailure:
		return "transport_failure"
	default:
		return "blocked"
	}
}

// Outcome is the single result of Submit. Fallback is set for Rejected and
// TransportFailure.
type Outcome struct {
	Kind     OutcomeKind
	Message  string
	Fallback string
	Err      error
}

// Client posts referrals to Endpoint. At most one Submit runs at a time.
type Client struct {
	Endpoint      string
	HTTPClient    *http.Client
	FallbackEmail string

	inFlight atomic.Bool
}

// New constructs a Client with a bounded HTTP timeout.
func New(endpoint, fallbackEmail string) *Client {
	return &Client{
		Endpoint:      endpoint,
		HTTPClient:    &http.Client{Timeout: 60 * time.Second},
		FallbackEmail: fallbackEmail,
	}
}

// Submit sends form and file as one multipart request. Nothing is sent when
// file is nil or fails CheckAttachment. The form is never modified, so a
// failed attempt can be retried with the same values.
func (c *Client) Submit(ctx context.Context, form Form, file *Attachment) Outcome {
	if file == nil || len(file.Data) == 0 {
		return blocked(ErrNoAttachment)
	}
	if err := CheckAttachment(file.ContentType, int64(len(file.Data))); err != nil {
		return blocked(err)
	}
	if !c.inFlight.CompareAndSwap(false, true) {
		return blocked(ErrSubmissionInFlight)
	}
	defer c.inFlight.Store(false)

	body, contentType, err := encode(form, file)
	if err != nil {
		return blocked(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, body)
	if err != nil {
		return blocked(err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return Outcome{Kind: TransportFailure, Message: transportMessage, Fallback: c.fallback(form), Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return Outcome{Kind: TransportFailure, Message: transportMessage, Fallback: c.fallback(form), Err: err}
	}

	var parsed struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	_ = json.Unmarshal(raw, &parsed)

	if resp.StatusCode >= 200 && resp.StatusCode < 300 && parsed.Error == "" {
		return Outcome{Kind: Success, Message: parsed.Message}
	}

	msg := strings.TrimSpace(parsed.Error)
	if msg == "" {
		msg = genericRejection
	}
	return Outcome{
		Kind:     Rejected,
		Message:  msg,
		Fallback: c.fallback(form),
		Err:      fmt.Errorf("intake status %d: %s", resp.StatusCode, msg),
	}
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}

func (c *Client) fallback(form Form) string {
	if c.FallbackEmail == "" {
		return ""
	}
	return FallbackLink(c.FallbackEmail, form)
}

func blocked(err error) Outcome {
	return Outcome{Kind: Blocked, Message: err.Error(), Err: err}
}

func encode(form Form, file *Attachment) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fields := []struct{ name, value string }{
		{"name", form.FullName},
		{"birthDate", form.BirthDate},
		{"address", form.Address},
		{"phone", form.Phone},
		{"email", form.Email},
		{"message", form.Message},
	}
	for _, f := range fields {
		if err := w.WriteField(f.name, f.value); err != nil {
			return nil, "", err
		}
	}

	name := file.FileName
	if name == "" {
		name = "referral.pdf"
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, name))
	h.Set("Content-Type", file.ContentType)
	part, err := w.CreatePart(h)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(file.Data); err != nil {
		return nil, "", err
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}
