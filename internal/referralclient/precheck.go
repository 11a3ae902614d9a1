package referralclient

import "errors"

// MaxAttachmentSize mirrors the endpoint's 10 MiB limit.
const MaxAttachmentSize = 10 * 1024 * 1024

var (
	ErrNotPDF             = errors.New("Only PDF files are accepted.")
	ErrAttachmentTooLarge = errors.New("File too large (max 10MB)")
	ErrNoAttachment       = errors.New("Please attach the referral letter (PDF).")
	ErrSubmissionInFlight = errors.New("A submission is already in progress.")
)

// CheckAttachment is the advisory pre-check run before an attachment is
// accepted. The endpoint repeats both checks authoritatively.
func CheckAttachment(contentType string, size int64) error {
	if contentType != "application/pdf" {
		return ErrNotPDF
	}
	if size > MaxAttachmentSize {
		return ErrAttachmentTooLarge
	}
	return nil
}
