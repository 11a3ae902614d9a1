package workerproc

import (
	"context"
	"errors"
	"testing"

	"practice-backend/internal/queue"
	"practice-backend/internal/referrals"
)

type fakeDeliverer struct {
	err       error
	ids       []string
	requestID string
}

func (f *fakeDeliverer) Deliver(ctx context.Context, referralID string) error {
	f.ids = append(f.ids, referralID)
	f.requestID = referrals.RequestIDFromContext(ctx)
	return f.err
}

func encode(t *testing.T, msg queue.Message) string {
	t.Helper()
	body, err := queue.EncodeMessage(msg)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	return string(body)
}

func TestParseMessage(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr any
	}{
		{name: "empty", body: "  ", wantErr: ErrEmptyBody{}},
		{name: "bad json", body: "{bad-json", wantErr: ErrDecode{}},
		{name: "missing id", body: `{"requestId":"req-1","version":1}`, wantErr: ErrMissingReferralID{}},
		{name: "ok", body: `{"referralId":"ref-1","version":1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, meta, err := ParseMessage(tt.body)
			switch want := tt.wantErr.(type) {
			case nil:
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if meta.BodyLen != len(tt.body) || len(meta.BodySHA) != 64 {
					t.Fatalf("unexpected meta: %+v", meta)
				}
			case ErrEmptyBody:
				if !errors.As(err, &want) {
					t.Fatalf("expected ErrEmptyBody, got %v", err)
				}
			case ErrDecode:
				if !errors.As(err, &want) {
					t.Fatalf("expected ErrDecode, got %v", err)
				}
			case ErrMissingReferralID:
				if !errors.As(err, &want) || want.RequestID != "req-1" {
					t.Fatalf("expected ErrMissingReferralID with request id, got %v", err)
				}
			}
			if tt.wantErr != nil && !Unrecoverable(err) {
				t.Fatalf("expected %v to be unrecoverable", err)
			}
		})
	}
}

func TestHandleMessageDelivers(t *testing.T) {
	d := &fakeDeliverer{}
	body := encode(t, queue.Message{ReferralID: "ref-1", RequestID: "req-1", Version: 1})

	if err := HandleMessage(context.Background(), d, body); err != nil {
		t.Fatalf("HandleMessage: %v", err)
	}
	if len(d.ids) != 1 || d.ids[0] != "ref-1" {
		t.Fatalf("unexpected deliveries: %v", d.ids)
	}
	if d.requestID != "req-1" {
		t.Fatalf("request id = %q", d.requestID)
	}
}

func TestHandleMessageUsesParsedMessage(t *testing.T) {
	d := &fakeDeliverer{}
	ctx := WithParsedMessage(context.Background(), queue.Message{ReferralID: "ref-2"})

	if err := HandleMessage(ctx, d, "ignored"); err != nil {
		t.Fatalf("HandleMessage: %v", err)
	}
	if len(d.ids) != 1 || d.ids[0] != "ref-2" {
		t.Fatalf("unexpected deliveries: %v", d.ids)
	}
}

func TestHandleMessageWrapsDeliveryError(t *testing.T) {
	d := &fakeDeliverer{err: errors.New("smtp down")}
	body := encode(t, queue.Message{ReferralID: "ref-1", RequestID: "req-1"})

	err := HandleMessage(context.Background(), d, body)
	var procErr ErrProcess
	if !errors.As(err, &procErr) {
		t.Fatalf("expected ErrProcess, got %v", err)
	}
	if procErr.ReferralID != "ref-1" || procErr.RequestID != "req-1" {
		t.Fatalf("unexpected ErrProcess: %+v", procErr)
	}
	if Unrecoverable(err) {
		t.Fatal("send failure should be retried")
	}
}

func TestHandleMessageMissingReferralIsUnrecoverable(t *testing.T) {
	d := &fakeDeliverer{err: referrals.ErrNotFound}
	err := HandleMessage(context.Background(), d, encode(t, queue.Message{ReferralID: "gone"}))
	if !Unrecoverable(err) {
		t.Fatalf("expected unrecoverable, got %v", err)
	}
}

func TestHandleMessageNilDeliverer(t *testing.T) {
	if err := HandleMessage(context.Background(), nil, "{}"); err == nil {
		t.Fatal("expected error")
	}
}
