package s3

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/smithy-go"
)

func TestApplyPrefix(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		prefix string
		key    string
		want   string
	}{
		{name: "no prefix", prefix: "", key: "1700000000000_jean.pdf", want: "1700000000000_jean.pdf"},
		{name: "simple prefix", prefix: "referrals", key: "a.pdf", want: "referrals/a.pdf"},
		{name: "prefix trailing slash", prefix: "referrals/", key: "a.pdf", want: "referrals/a.pdf"},
		{name: "prefix and key slashes", prefix: "/referrals/", key: "/a.pdf", want: "referrals/a.pdf"},
		{name: "nested prefix", prefix: "root/referrals", key: "a.pdf", want: "root/referrals/a.pdf"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := applyPrefix(tt.prefix, tt.key); got != tt.want {
				t.Fatalf("applyPrefix(%q, %q) = %q, want %q", tt.prefix, tt.key, got, tt.want)
			}
		})
	}
}

func TestPutInputForbidsOverwrite(t *testing.T) {
	t.Parallel()

	input := putInput("bucket", "referrals/a.pdf", "application/pdf", "", strings.NewReader("%PDF"))
	if aws.ToString(input.IfNoneMatch) != "*" {
		t.Fatalf("expected If-None-Match *, got %q", aws.ToString(input.IfNoneMatch))
	}
	if aws.ToString(input.ContentType) != "application/pdf" {
		t.Fatalf("unexpected content type %q", aws.ToString(input.ContentType))
	}
	if input.SSEKMSKeyId != nil {
		t.Fatalf("expected no kms key")
	}
}

func TestIsPreconditionFailed(t *testing.T) {
	t.Parallel()

	conflict := &smithy.GenericAPIError{Code: "PreconditionFailed", Message: "At least one of the pre-conditions you specified did not hold"}
	if !isPreconditionFailed(fmt.Errorf("operation error S3: PutObject: %w", conflict)) {
		t.Fatalf("expected wrapped PreconditionFailed to be detected")
	}
	if isPreconditionFailed(errors.New("access denied")) {
		t.Fatalf("plain error must not be treated as a collision")
	}
}

func TestSignedURLExpiresInSevenDays(t *testing.T) {
	cfg := aws.Config{
		Region:      "eu-west-1",
		Credentials: aws.NewCredentialsCache(credentials.NewStaticCredentialsProvider("AKID", "SECRET", "")),
	}
	store := newWithConfig(cfg, Options{Bucket: "bucket", Prefix: "referrals"})

	raw, err := store.SignedURL(context.Background(), "1700000000000_jean.pdf", 7*24*time.Hour)
	if err != nil {
		t.Fatalf("presign: %v", err)
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("parse url: %v", err)
	}
	if !strings.HasSuffix(parsed.Path, "/referrals/1700000000000_jean.pdf") {
		t.Fatalf("unexpected object path %s", parsed.Path)
	}
	if got := parsed.Query().Get("X-Amz-Expires"); got != "604800" {
		t.Fatalf("expected X-Amz-Expires=604800, got %q", got)
	}
}
