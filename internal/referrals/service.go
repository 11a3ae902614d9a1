package referrals

import (
	"bytes"
	"context"
	"errors"
	"io"
	"time"

	"github.com/google/uuid"

	"practice-backend/internal/notify"
	"practice-backend/internal/queue"
	"practice-backend/internal/shared/metrics"
	"practice-backend/internal/shared/storage/object"
	"practice-backend/internal/shared/telemetry"
)

// SignedURLTTL is the lifetime of the download link sent to the practice.
const SignedURLTTL = 7 * 24 * time.Hour

// DefaultRecipient receives notifications when no recipient is configured.
const DefaultRecipient = "doctor@example.com"

// Service runs the intake pipeline. Store and Repo are required; a nil
// Sender disables the notification step. When Queue is set the notification
// is handed to a worker instead of being sent inline.
type Service struct {
	Store object.ObjectStore
	Repo  Repo
	Queue queue.Client

	Sender    notify.Sender
	From      string
	Recipient string

	Now   func() time.Time
	NewID func() string
}

// Submit validates the attachment, stores it, records the referral and
// notifies the practice. Checks run cheapest first: presence, size, then
// the %PDF signature. The object write always precedes the row insert and
// a failed insert leaves the stored object in place.
func (s *Service) Submit(ctx context.Context, sub Submission, file *Attachment) (Referral, error) {
	data, err := readAttachment(file)
	if err != nil {
		return Referral{}, err
	}
	if s.Store == nil || s.Repo == nil {
		return Referral{}, ErrMissingCredentials
	}

	now := s.now()
	key := StorageKey(now, sub.FullName)
	if _, err := s.Store.Create(ctx, key, pdfContentType, bytes.NewReader(data)); err != nil {
		if errors.Is(err, object.ErrObjectExists) {
			err = object.ErrObjectExists
		}
		telemetry.Error("referrals.submit.storage_failed", map[string]any{
			"file_path": key,
			"error":     err,
		})
		return Referral{}, storageError(err)
	}

	ref := Referral{
		ID:         s.newID(),
		Submission: sub,
		FilePath:   key,
		Status:     StatusNew,
		CreatedAt:  now.UTC(),
	}
	if err := s.Repo.Create(ctx, ref); err != nil {
		telemetry.Error("referrals.submit.db_failed", map[string]any{
			"file_path": key,
			"orphaned":  true,
			"error":     err,
		})
		return Referral{}, databaseError(err)
	}
	telemetry.Info("referrals.submit.stored", map[string]any{
		"referral_id": ref.ID,
		"file_path":   key,
		"size":        len(data),
	})

	s.dispatch(ctx, ref, data)
	return ref, nil
}

// dispatch enqueues or sends the notification. Failures never reach the
// submitter.
func (s *Service) dispatch(ctx context.Context, ref Referral, data []byte) {
	if s.Queue != nil {
		msg := queue.NewNotification(ref.ID, RequestIDFromContext(ctx), s.now())
		err := s.Queue.Send(ctx, msg)
		if err == nil {
			metrics.IncNotificationQueued()
			return
		}
		telemetry.Warn("referrals.notify.enqueue_failed", map[string]any{
			"referral_id": ref.ID,
			"error":       err,
		})
	}

	if err := s.notify(ctx, ref, data); err != nil {
		metrics.IncNotificationFailed()
		telemetry.Warn("referrals.notify.failed", map[string]any{
			"referral_id": ref.ID,
			"file_path":   ref.FilePath,
			"error":       err,
		})
	}
}

// Deliver sends the notification for a referral that is already stored.
// Queue workers call it; an error means the message should be retried,
// except ErrNotFound which never resolves.
func (s *Service) Deliver(ctx context.Context, referralID string) error {
	if s.Store == nil || s.Repo == nil {
		return ErrMissingCredentials
	}
	ref, err := s.Repo.Get(ctx, referralID)
	if err != nil {
		return err
	}

	data, err := s.readObject(ctx, ref.FilePath)
	if err != nil {
		telemetry.Warn("referrals.deliver.read_failed", map[string]any{
			"referral_id": ref.ID,
			"file_path":   ref.FilePath,
			"error":       err,
		})
		data = nil
	}

	if err := s.notify(ctx, ref, data); err != nil {
		metrics.IncNotificationFailed()
		return err
	}
	telemetry.Info("referrals.deliver.sent", map[string]any{
		"referral_id": ref.ID,
		"request_id":  RequestIDFromContext(ctx),
	})
	return nil
}

func (s *Service) readObject(ctx context.Context, key string) ([]byte, error) {
	rc, err := s.Store.Open(ctx, key)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(io.LimitReader(rc, MaxFileSize+1))
}

// notify sends the practice e-mail. Its error is for logging only.
func (s *Service) notify(ctx context.Context, ref Referral, data []byte) error {
	if s.Sender == nil {
		return nil
	}

	downloadURL, err := s.Store.SignedURL(ctx, ref.FilePath, SignedURLTTL)
	if err != nil {
		telemetry.Warn("referrals.notify.sign_failed", map[string]any{
			"file_path": ref.FilePath,
			"error":     err,
		})
		downloadURL = ""
	}
	pages := 0
	if len(data) > 0 {
		if n, err := InspectPDF(data); err == nil {
			pages = n
		}
	}

	recipient := s.Recipient
	if recipient == "" {
		recipient = DefaultRecipient
	}
	msg, err := notify.ReferralEmail(s.From, recipient, notify.ReferralDetails{
		FullName:    ref.FullName,
		BirthDate:   ref.BirthDate,
		Phone:       ref.Phone,
		Email:       ref.Email,
		Address:     ref.Address,
		Message:     ref.Message,
		DownloadURL: downloadURL,
		Pages:       pages,
	})
	if err != nil {
		return err
	}
	return s.Sender.Send(ctx, msg)
}

// Recent lists stored referrals newest first.
func (s *Service) Recent(ctx context.Context, limit, offset int) ([]Referral, error) {
	if s.Repo == nil {
		return nil, ErrMissingCredentials
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.Repo.ListRecent(ctx, limit, offset)
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Service) newID() string {
	if s.NewID != nil {
		return s.NewID()
	}
	return uuid.NewString()
}
