package referrals

import (
	"bytes"
	"fmt"
	"io"

	"github.com/ledongthuc/pdf"
)

// MaxFileSize is the largest accepted attachment, 10 MiB.
const MaxFileSize = 10 * 1024 * 1024

const pdfContentType = "application/pdf"

var pdfMagic = []byte{0x25, 0x50, 0x44, 0x46} // %PDF

// HasPDFMagic reports whether data starts with the PDF signature.
func HasPDFMagic(data []byte) bool {
	return len(data) >= len(pdfMagic) && bytes.Equal(data[:len(pdfMagic)], pdfMagic)
}

// readAttachment reads the whole attachment, rejecting anything over
// MaxFileSize before the signature is inspected.
func readAttachment(a *Attachment) ([]byte, error) {
	if a == nil || a.Body == nil {
		return nil, ErrNoFile
	}
	if a.Size > MaxFileSize {
		return nil, ErrFileTooLarge
	}
	data, err := io.ReadAll(io.LimitReader(a.Body, MaxFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidForm, err)
	}
	if len(data) > MaxFileSize {
		return nil, ErrFileTooLarge
	}
	if !HasPDFMagic(data) {
		return nil, ErrInvalidFormat
	}
	return data, nil
}

// InspectPDF returns the page count of data. The parser panics on some
// malformed inputs, so panics are turned into errors.
func InspectPDF(data []byte) (pages int, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			pages, err = 0, fmt.Errorf("pdf parse panic: %v", rec)
		}
	}()
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return 0, err
	}
	return reader.NumPage(), nil
}
