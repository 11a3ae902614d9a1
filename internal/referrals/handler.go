package referrals

import (
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"practice-backend/internal/shared/metrics"
	"practice-backend/internal/shared/server/middleware"
	"practice-backend/internal/shared/server/respond"
	"practice-backend/internal/shared/storage/object"
	"practice-backend/internal/shared/util"
)

const (
	maxRequestBody  = 25 << 20
	multipartMemory = 12 << 20
	successMessage  = "Success"
)

// SignedFiles serves objects behind locally signed links.
type SignedFiles interface {
	Verify(key, expires, signature string) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc   *Service
	Files SignedFiles
}

// NewHandler constructs a Handler. files may be nil when the object store
// signs its own URLs.
func NewHandler(svc *Service, files SignedFiles) *Handler {
	return &Handler{Svc: svc, Files: files}
}

// RegisterRoutes attaches the intake and signed download routes under /api/v1.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, guards ...gin.HandlerFunc) {
	rg.OPTIONS("/referrals", preflight)
	rg.POST("/referrals", append(guards, h.submit)...)
	if h.Files != nil {
		rg.GET("/referrals/files/*key", h.download)
	}
}

// RegisterFunctionRoutes attaches the intake under the edge-function path
// /functions/v1/submit-referral used by existing site builds.
func (h *Handler) RegisterFunctionRoutes(rg *gin.RouterGroup, guards ...gin.HandlerFunc) {
	rg.OPTIONS("/submit-referral", preflight)
	rg.POST("/submit-referral", append(guards, h.submit)...)
}

// RegisterAdminRoutes attaches the referral listing to an authenticated group.
func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.GET("/referrals", h.list)
}

func preflight(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

func (h *Handler) submit(c *gin.Context) {
	start := time.Now()
	metrics.IncReferralReceived()
	defer func() {
		metrics.ObserveReferralDurationMs(float64(time.Since(start).Microseconds()) / 1000.0)
	}()

	sub, file, err := parseSubmission(c)
	if form := c.Request.MultipartForm; form != nil {
		defer form.RemoveAll()
	}
	if err != nil {
		h.fail(c, err)
		return
	}
	if closer, ok := file.Body.(io.Closer); ok {
		defer closer.Close()
	}

	// The pipeline runs to completion even if the client goes away.
	ctx := WithRequestID(context.WithoutCancel(c.Request.Context()), middleware.RequestIDFromContext(c))
	ref, err := h.Svc.Submit(ctx, sub, file)
	if err != nil {
		h.fail(c, err)
		return
	}

	metrics.IncReferralStored()
	c.Set(middleware.ReferralIDKey, ref.ID)
	c.Set(middleware.FilePathKey, ref.FilePath)
	c.Set(middleware.OutcomeKey, "stored")
	respond.Message(c, http.StatusOK, successMessage)
}

func (h *Handler) fail(c *gin.Context, err error) {
	if IsValidation(err) {
		metrics.IncReferralRejected()
		c.Set(middleware.OutcomeKey, "rejected")
	} else {
		metrics.IncReferralFailed()
		c.Set(middleware.OutcomeKey, "failed")
	}
	respond.Error(c, http.StatusBadRequest, err.Error())
}

func parseSubmission(c *gin.Context) (Submission, *Attachment, error) {
	req := c.Request
	if req.Body == nil || req.Body == http.NoBody || req.ContentLength == 0 {
		return Submission{}, nil, ErrEmptyBody
	}
	req.Body = http.MaxBytesReader(c.Writer, req.Body, maxRequestBody)

	if err := req.ParseMultipartForm(multipartMemory); err != nil {
		if isBodyTooLarge(err) {
			return Submission{}, nil, ErrFileTooLarge
		}
		return Submission{}, nil, ErrInvalidForm
	}

	form := req.MultipartForm
	sub := Submission{
		FullName:  formValue(form, "name"),
		BirthDate: formValue(form, "birthDate"),
		Address:   formValue(form, "address"),
		Phone:     formValue(form, "phone"),
		Email:     formValue(form, "email"),
		Message:   formValue(form, "message"),
	}

	headers := form.File["file"]
	if len(headers) == 0 {
		return sub, nil, ErrNoFile
	}
	header := headers[0]
	if header.Size > MaxFileSize {
		return sub, nil, ErrFileTooLarge
	}
	f, err := header.Open()
	if err != nil {
		return sub, nil, ErrInvalidForm
	}
	return sub, &Attachment{
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Body:        f,
	}, nil
}

func formValue(form *multipart.Form, key string) string {
	if vals := form.Value[key]; len(vals) > 0 {
		return vals[0]
	}
	return ""
}

func isBodyTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return true
	}
	return strings.Contains(err.Error(), "request body too large")
}

func (h *Handler) download(c *gin.Context) {
	key := strings.TrimPrefix(c.Param("key"), "/")
	if err := h.Files.Verify(key, c.Query("expires"), c.Query("signature")); err != nil {
		respond.Error(c, http.StatusForbidden, "Invalid or expired link")
		return
	}

	rc, err := h.Files.Open(c.Request.Context(), key)
	if err != nil {
		if errors.Is(err, object.ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "File not found")
			return
		}
		respond.Error(c, http.StatusInternalServerError, "Unable to read file")
		return
	}
	defer rc.Close()

	c.DataFromReader(http.StatusOK, -1, pdfContentType, rc, map[string]string{
		"Content-Disposition": `attachment; filename="` + downloadName(key) + `"`,
		"Cache-Control":       "private, no-store",
	})
}

func downloadName(key string) string {
	name, err := util.SanitizeFileName(path.Base(key))
	if err != nil || name == "." || strings.ContainsAny(name, "\"\r\n") {
		return "referral.pdf"
	}
	return name
}

type referralResponse struct {
	ID        string `json:"id"`
	FullName  string `json:"fullName"`
	BirthDate string `json:"birthDate"`
	Address   string `json:"address"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
	Message   string `json:"message,omitempty"`
	FilePath  string `json:"filePath"`
	Status    string `json:"status"`
	CreatedAt string `json:"createdAt"`
}

func (h *Handler) list(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	refs, err := h.Svc.Recent(c.Request.Context(), limit, offset)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "Failed to list referrals")
		return
	}

	items := make([]referralResponse, 0, len(refs))
	for _, ref := range refs {
		items = append(items, referralResponse{
			ID:        ref.ID,
			FullName:  ref.FullName,
			BirthDate: ref.BirthDate,
			Address:   ref.Address,
			Phone:     ref.Phone,
			Email:     ref.Email,
			Message:   ref.Message,
			FilePath:  ref.FilePath,
			Status:    ref.Status,
			CreatedAt: ref.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	respond.OK(c, gin.H{"items": items})
}
