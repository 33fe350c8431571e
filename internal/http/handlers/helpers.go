package handlers

import (
	"fmt"
	"io"
	"mime/multipart"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/learnhub-backend/internal/platform/apierr"
	"github.com/yungbote/learnhub-backend/internal/platform/ctxutil"
	"github.com/yungbote/learnhub-backend/internal/services"
)

// maxUploadBytes bounds a single uploaded file.
const maxUploadBytes = 50 << 20

// parseID parses a path, query or body identifier. Malformed and nil ids are
// Invalid.
func parseID(raw, field string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil || id == uuid.Nil {
		return uuid.Nil, apierr.Invalid(fmt.Sprintf("Invalid %s", field))
	}
	return id, nil
}

func parseOptionalID(raw *string, field string) (*uuid.UUID, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	id, err := parseID(*raw, field)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func parseIDs(raw []string, field string) ([]uuid.UUID, error) {
	if raw == nil {
		return nil, nil
	}
	out := make([]uuid.UUID, 0, len(raw))
	for _, s := range raw {
		if strings.TrimSpace(s) == "" {
			continue
		}
		id, err := parseID(s, field)
		if err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, nil
}

func pathID(c *gin.Context, param string) (uuid.UUID, error) {
	return parseID(c.Param(param), param)
}

// pageParams reads ?page&limit. Normalisation is left to the services.
func pageParams(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query("limit"))
	return page, limit
}

func parseDate(raw, field string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, apierr.Missing(field + " is required")
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, apierr.Invalid(fmt.Sprintf("Invalid %s", field))
}

func principal(c *gin.Context) (*ctxutil.Principal, error) {
	p := ctxutil.GetPrincipal(c.Request.Context())
	if p == nil {
		return nil, apierr.Unauthorized("missing or invalid token")
	}
	return p, nil
}

// requireSelf checks that the body or path user is the caller.
func requireSelf(c *gin.Context, userID uuid.UUID) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	if p.ID != userID {
		return apierr.NotPermit("")
	}
	return nil
}

func bindJSON(c *gin.Context, dst any) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		return apierr.Invalid("invalid request body: " + err.Error())
	}
	return nil
}

// multipartForm parses the request body once.
func multipartForm(c *gin.Context) (*multipart.Form, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, apierr.Invalid("Error parsing form data")
	}
	return form, nil
}

func formValue(form *multipart.Form, key string) *string {
	if vs, ok := form.Value[key]; ok && len(vs) > 0 {
		v := vs[0]
		return &v
	}
	return nil
}

// formList accepts both key and key[] fields. A missing key yields nil.
func formList(form *multipart.Form, key string) []string {
	var out []string
	found := false
	for _, k := range []string{key, key + "[]"} {
		if vs, ok := form.Value[k]; ok {
			found = true
			out = append(out, vs...)
		}
	}
	if !found {
		return nil
	}
	if out == nil {
		out = []string{}
	}
	return out
}

func formFloat(form *multipart.Form, key string) (*float64, error) {
	v := formValue(form, key)
	if v == nil || strings.TrimSpace(*v) == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(*v), 64)
	if err != nil {
		return nil, apierr.Invalid(fmt.Sprintf("Invalid %s", key))
	}
	return &f, nil
}

func readFile(fh *multipart.FileHeader) (services.UploadFile, error) {
	if fh.Size > maxUploadBytes {
		return services.UploadFile{}, apierr.Invalid(fmt.Sprintf("%s exceeds the upload limit", fh.Filename))
	}
	f, err := fh.Open()
	if err != nil {
		return services.UploadFile{}, fmt.Errorf("open upload %s: %w", fh.Filename, err)
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, maxUploadBytes+1))
	if err != nil {
		return services.UploadFile{}, fmt.Errorf("read upload %s: %w", fh.Filename, err)
	}
	return services.UploadFile{Name: fh.Filename, Data: data}, nil
}

func formFiles(form *multipart.Form, key string) ([]services.UploadFile, error) {
	var headers []*multipart.FileHeader
	for _, k := range []string{key, key + "[]"} {
		headers = append(headers, form.File[k]...)
	}
	out := make([]services.UploadFile, 0, len(headers))
	for _, fh := range headers {
		f, err := readFile(fh)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}

func formFile(form *multipart.Form, key string) (*services.UploadFile, error) {
	files, err := formFiles(form, key)
	if err != nil || len(files) == 0 {
		return nil, err
	}
	return &files[0], nil
}

func isMultipart(c *gin.Context) bool {
	return strings.HasPrefix(c.ContentType(), "multipart/")
}
