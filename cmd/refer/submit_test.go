package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var minimalPDF = []byte("%PDF-1.4\n%%EOF\n")

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func runRefer(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestSubmitPrintsSuccess(t *testing.T) {
	var gotName string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		gotName = r.FormValue("name")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"message":"Success"}`))
	}))
	defer server.Close()

	file := writeFile(t, "lettre.pdf", minimalPDF)
	out, err := runRefer(t, "submit", "--endpoint", server.URL, "--name", "Jean Dupont", "--file", file)
	require.NoError(t, err)
	assert.Equal(t, "Jean Dupont", gotName)
	assert.Contains(t, out, "success: Success")
	assert.NotContains(t, out, "mailto:")
}

func TestSubmitPrintsFallbackOnRejection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"Database Error: boom"}`))
	}))
	defer server.Close()

	file := writeFile(t, "lettre.pdf", minimalPDF)
	out, err := runRefer(t, "submit", "--endpoint", server.URL, "--name", "Jean Dupont",
		"--file", file, "--fallback-email", "cabinet@example.com")
	require.Error(t, err)
	assert.Contains(t, out, "rejected: Database Error: boom")
	assert.Contains(t, out, "mailto:cabinet@example.com")
}

func TestSubmitBlocksNonPDF(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer server.Close()

	file := writeFile(t, "notes.txt", []byte("plain text"))
	out, err := runRefer(t, "submit", "--endpoint", server.URL, "--name", "Jean Dupont", "--file", file)
	require.Error(t, err)
	assert.Contains(t, out, "blocked: Only PDF files are accepted.")
	assert.Zero(t, calls)
}

func TestSubmitMissingFileFails(t *testing.T) {
	_, err := runRefer(t, "submit", "--file", filepath.Join(t.TempDir(), "absent.pdf"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "absent.pdf")
}

func TestSniffContentType(t *testing.T) {
	assert.Equal(t, "application/pdf", sniffContentType("scan.bin", minimalPDF))
	assert.Equal(t, "application/pdf", sniffContentType("LETTRE.PDF", []byte("not magic")))
	assert.Equal(t, "image/png", sniffContentType("scan", []byte("\x89PNG\r\n\x1a\n0000")))
}

func TestLoadAttachmentSanitizesName(t *testing.T) {
	file := writeFile(t, `a\b.pdf`, minimalPDF)
	a, err := loadAttachment(file)
	require.NoError(t, err)
	assert.Equal(t, "a_b.pdf", a.FileName)
	assert.Equal(t, "application/pdf", a.ContentType)
}
