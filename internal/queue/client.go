package queue

import "context"

// Client hands notification jobs to a queue backend. Send returning nil
// means the job will be delivered at least once.
type Client interface {
	Send(ctx context.Context, msg Message) error
}

// ClientFunc adapts a function to Client, for in-process delivery and tests.
type ClientFunc func(ctx context.Context, msg Message) error

// Send calls f.
func (f ClientFunc) Send(ctx context.Context, msg Message) error {
	return f(ctx, msg)
}

var _ Client = ClientFunc(nil)
