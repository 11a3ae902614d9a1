package referrals

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"practice-backend/internal/notify"
	"practice-backend/internal/shared/storage/object"
	"practice-backend/internal/shared/storage/object/local"
	"practice-backend/internal/shared/telemetry"
)

var fixedNow = time.UnixMilli(1700000000000)

// callLog records side effects across collaborators in the order they happen.
type callLog struct {
	mu    sync.Mutex
	calls []string
}

func (l *callLog) add(call string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = append(l.calls, call)
}

func (l *callLog) list() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.calls...)
}

type recordingStore struct {
	object.ObjectStore
	log       *callLog
	createErr error
	signErr   error
}

func (s *recordingStore) Create(ctx context.Context, key, contentType string, r io.Reader) (int64, error) {
	s.log.add("store.create:" + key)
	if s.createErr != nil {
		return 0, s.createErr
	}
	return s.ObjectStore.Create(ctx, key, contentType, r)
}

func (s *recordingStore) SignedURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	s.log.add("store.sign:" + key)
	if s.signErr != nil {
		return "", s.signErr
	}
	return s.ObjectStore.SignedURL(ctx, key, ttl)
}

type recordingRepo struct {
	*MemoryRepo
	log *callLog
	err error
}

func (r *recordingRepo) Create(ctx context.Context, ref Referral) error {
	r.log.add("repo.create:" + ref.FilePath)
	if r.err != nil {
		return r.err
	}
	return r.MemoryRepo.Create(ctx, ref)
}

type recordingSender struct {
	log  *callLog
	err  error
	mu   sync.Mutex
	sent []notify.Email
}

func (s *recordingSender) Send(ctx context.Context, msg notify.Email) error {
	s.log.add("sender.send")
	s.mu.Lock()
	s.sent = append(s.sent, msg)
	s.mu.Unlock()
	return s.err
}

type fixture struct {
	log    *callLog
	local  *local.Store
	store  *recordingStore
	repo   *recordingRepo
	sender *recordingSender
	svc    *Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	restore := telemetry.SetOutput(io.Discard)
	t.Cleanup(restore)

	log := &callLog{}
	ls := local.New(t.TempDir(), "http://localhost:8080", "test-signing-key")
	f := &fixture{
		log:    log,
		local:  ls,
		store:  &recordingStore{ObjectStore: ls, log: log},
		repo:   &recordingRepo{MemoryRepo: NewMemoryRepo(), log: log},
		sender: &recordingSender{log: log},
	}
	f.svc = &Service{
		Store:     f.store,
		Repo:      f.repo,
		Sender:    f.sender,
		From:      "Referral System <onboarding@resend.dev>",
		Recipient: "doctor@example.com",
		Now:       func() time.Time { return fixedNow },
		NewID:     func() string { return "ref-1" },
	}
	return f
}

func (f *fixture) storedRows(t *testing.T) []Referral {
	t.Helper()
	rows, err := f.repo.MemoryRepo.ListRecent(context.Background(), 100, 0)
	if err != nil {
		t.Fatalf("list rows: %v", err)
	}
	return rows
}

func (f *fixture) objectExists(t *testing.T, key string) bool {
	t.Helper()
	rc, err := f.local.Open(context.Background(), key)
	if err != nil {
		if errors.Is(err, object.ErrNotFound) {
			return false
		}
		t.Fatalf("open %s: %v", key, err)
	}
	_ = rc.Close()
	return true
}

func pdfBytes(extra int) []byte {
	data := make([]byte, 4+extra)
	copy(data, "%PDF")
	for i := 4; i < len(data); i++ {
		data[i] = 'x'
	}
	return data
}

var jeanPaul = Submission{
	FullName:  "Jean-Paul O'Brien",
	BirthDate: "1950-02-01",
	Address:   "1 rue Principale, Montréal",
	Phone:     "514-555-0100",
	Email:     "jp@example.com",
	Message:   "Cataracte OD",
}
