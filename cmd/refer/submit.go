package main

import (
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"practice-backend/internal/referralclient"
	"practice-backend/internal/referrals"
	"practice-backend/internal/shared/util"
)

var submitOpts struct {
	endpoint      string
	fallbackEmail string
	file          string
	form          referralclient.Form
}

// submitCmd posts one referral and prints the outcome.
var submitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Submit a referral letter (PDF) with patient details",
	Long: `Send the patient details and the referral letter to the intake endpoint.

On rejection or network failure a mailto: link is printed so the referral
can be sent by e-mail instead.`,
	RunE: runSubmit,
}

func init() {
	f := submitCmd.Flags()
	f.StringVar(&submitOpts.endpoint, "endpoint", envOr("REFERRAL_ENDPOINT", "http://localhost:8080/api/v1/referrals"), "intake URL")
	f.StringVar(&submitOpts.fallbackEmail, "fallback-email", envOr("DOCTOR_EMAIL", referrals.DefaultRecipient), "address used for the mailto fallback")
	f.StringVar(&submitOpts.file, "file", "", "path to the referral PDF")
	f.StringVar(&submitOpts.form.FullName, "name", "", "patient full name")
	f.StringVar(&submitOpts.form.BirthDate, "birth-date", "", "patient birth date")
	f.StringVar(&submitOpts.form.Address, "address", "", "patient address")
	f.StringVar(&submitOpts.form.Phone, "phone", "", "patient phone")
	f.StringVar(&submitOpts.form.Email, "email", "", "patient e-mail")
	f.StringVar(&submitOpts.form.Message, "message", "", "message for the practice")
}

func runSubmit(cmd *cobra.Command, args []string) error {
	var file *referralclient.Attachment
	if submitOpts.file != "" {
		a, err := loadAttachment(submitOpts.file)
		if err != nil {
			return err
		}
		file = a
	}

	client := referralclient.New(submitOpts.endpoint, submitOpts.fallbackEmail)
	outcome := client.Submit(cmd.Context(), submitOpts.form, file)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s: %s\n", outcome.Kind, outcome.Message)
	if outcome.Fallback != "" {
		fmt.Fprintf(out, "Send by e-mail instead: %s\n", outcome.Fallback)
	}
	if outcome.Kind != referralclient.Success {
		return fmt.Errorf("referral not submitted")
	}
	return nil
}

func loadAttachment(path string) (*referralclient.Attachment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	name, err := util.SanitizeFileName(filepath.Base(path))
	if err != nil {
		name = "referral.pdf"
	}
	return &referralclient.Attachment{
		FileName:    name,
		ContentType: sniffContentType(path, data),
		Data:        data,
	}, nil
}

func sniffContentType(path string, data []byte) string {
	if referrals.HasPDFMagic(data) {
		return "application/pdf"
	}
	if ct := mime.TypeByExtension(strings.ToLower(filepath.Ext(path))); ct != "" {
		return ct
	}
	return http.DetectContentType(data)
}

func envOr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}
