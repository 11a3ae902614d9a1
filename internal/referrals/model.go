package referrals

import (
	"io"
	"time"
)

// StatusNew is the status every referral row is created with.
const StatusNew = "new"

// Submission holds the free-text fields of a referral form.
type Submission struct {
	FullName  string
	BirthDate string
	Address   string
	Phone     string
	Email     string
	Message   string
}

// Attachment is the uploaded file as received by the endpoint. Size is the
// declared part size; Body is read at most once.
type Attachment struct {
	FileName    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// Referral is a persisted submission.
type Referral struct {
	ID        string
	Submission
	FilePath  string
	Status    string
	CreatedAt time.Time
}
