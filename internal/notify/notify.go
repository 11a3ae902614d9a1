// Package notify renders and delivers the practice's notification e-mails.
package notify

import (
	"context"
	"errors"
	"strings"
)

// ErrNoRecipient is returned when an Email has no To address.
var ErrNoRecipient = errors.New("email has no recipient")

// Email is a rendered HTML message ready for delivery.
type Email struct {
	From    string
	To      []string
	Subject string
	HTML    string
}

// Sender delivers an Email through a provider.
type Sender interface {
	Send(ctx context.Context, msg Email) error
}

func (m Email) validate() error {
	for _, to := range m.To {
		if strings.TrimSpace(to) != "" {
			return nil
		}
	}
	return ErrNoRecipient
}
