package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SAP-F-2025/school-directory/internal/models"
	"github.com/SAP-F-2025/school-directory/internal/services"
	"github.com/SAP-F-2025/school-directory/internal/utils"
	"github.com/SAP-F-2025/school-directory/internal/validator"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ===== FAKES =====

type fakeSchoolService struct {
	schools  []models.School
	listErr  error
	create   func(*services.CreateSchoolRequest) (uint, error)
	received *services.CreateSchoolRequest
}

func (s *fakeSchoolService) Create(_ context.Context, req *services.CreateSchoolRequest) (uint, error) {
	s.received = req
	if s.create != nil {
		return s.create(req)
	}
	return 7, nil
}

func (s *fakeSchoolService) List(context.Context) ([]models.School, error) {
	return s.schools, s.listErr
}

type fakeExportService struct {
	err        error
	lastSearch string
}

func (s *fakeExportService) ExportSchools(_ context.Context, w io.Writer, search string) (int, error) {
	s.lastSearch = search
	if s.err != nil {
		return 0, s.err
	}
	_, err := w.Write([]byte("PK-xlsx"))
	return 1, err
}

type fakeServiceManager struct {
	school    *fakeSchoolService
	export    *fakeExportService
	healthErr error
}

func (m *fakeServiceManager) School() services.SchoolService    { return m.school }
func (m *fakeServiceManager) Export() services.ExportService    { return m.export }
func (m *fakeServiceManager) Initialize(context.Context) error  { return nil }
func (m *fakeServiceManager) Shutdown(context.Context) error    { return nil }
func (m *fakeServiceManager) HealthCheck(context.Context) error { return m.healthErr }

// ===== HELPERS =====

func newTestRouter(t *testing.T, sm *fakeServiceManager, cfg RouterConfig) *gin.Engine {
	t.Helper()
	logger := utils.NewSlogLogger(utils.NewDiscardLogger())
	router := gin.New()
	SetupMiddleware(router, logger, []string{"*"})
	NewHandlerManager(sm, logger, cfg).SetupRoutes(router)
	return router
}

func newManager() *fakeServiceManager {
	return &fakeServiceManager{school: &fakeSchoolService{}, export: &fakeExportService{}}
}

func multipartSubmission(t *testing.T, fields map[string]string, image []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if image != nil {
		part, err := w.CreateFormFile("image", "logo.png")
		require.NoError(t, err)
		_, err = part.Write(image)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return body, w.FormDataContentType()
}

func validFields() map[string]string {
	return map[string]string{
		"name":     "Springfield High",
		"address":  "12 Elm St",
		"city":     "Springfield",
		"state":    "IL",
		"contact":  "5551234567",
		"email_id": "info@springfield.edu",
	}
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Error
}

// ===== LISTING =====

func TestListSchools(t *testing.T) {
	sm := newManager()
	sm.school.schools = []models.School{{ID: 2, Name: "B"}, {ID: 1, Name: "A"}}
	router := newTestRouter(t, sm, RouterConfig{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/schools", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body models.SchoolListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Schools, 2)
	assert.Equal(t, uint(2), body.Schools[0].ID)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestListSchools_EmptyIsArray(t *testing.T) {
	sm := newManager()
	sm.school.schools = []models.School{}
	router := newTestRouter(t, sm, RouterConfig{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/schools", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"schools":[]}`, rec.Body.String())
}

func TestListSchools_Failure(t *testing.T) {
	sm := newManager()
	sm.school.listErr = services.NewPersistenceError(services.StoreReadFailed, errors.New("db gone"))
	router := newTestRouter(t, sm, RouterConfig{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/schools", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Failed to fetch schools", decodeError(t, rec))
	assert.NotContains(t, rec.Body.String(), "db gone")
}

// ===== SUBMISSION =====

func TestCreateSchool_Success(t *testing.T) {
	sm := newManager()
	router := newTestRouter(t, sm, RouterConfig{MaxUploadBytes: 1024})
	body, contentType := multipartSubmission(t, validFields(), []byte("png-bytes"))

	req := httptest.NewRequest(http.MethodPost, "/api/schools", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"message":"School added successfully","id":7}`, rec.Body.String())

	got := sm.school.received
	require.NotNil(t, got)
	assert.Equal(t, "Springfield High", got.Name)
	assert.Equal(t, "5551234567", got.Contact)
	assert.Equal(t, "info@springfield.edu", got.EmailID)
	require.NotNil(t, got.Image)
	assert.Equal(t, "logo.png", got.Image.Filename)
	assert.Equal(t, []byte("png-bytes"), got.Image.Content)
}

func TestCreateSchool_MissingImagePassesNil(t *testing.T) {
	sm := newManager()
	sm.school.create = func(req *services.CreateSchoolRequest) (uint, error) {
		if req.Image == nil {
			return 0, services.NewValidationError(services.MissingField, nil)
		}
		return 1, nil
	}
	router := newTestRouter(t, sm, RouterConfig{})
	body, contentType := multipartSubmission(t, validFields(), nil)

	req := httptest.NewRequest(http.MethodPost, "/api/schools", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "All fields are required", decodeError(t, rec))
}

func TestCreateSchool_ImageTooLarge(t *testing.T) {
	sm := newManager()
	router := newTestRouter(t, sm, RouterConfig{MaxUploadBytes: 16})
	body, contentType := multipartSubmission(t, validFields(), bytes.Repeat([]byte("x"), 64))

	req := httptest.NewRequest(http.MethodPost, "/api/schools", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Image exceeds maximum upload size", decodeError(t, rec))
	assert.Nil(t, sm.school.received)
}

func TestCreateSchool_ServiceErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantError  string
	}{
		{"invalid email", services.NewValidationError(services.InvalidEmail, nil), http.StatusBadRequest, "Invalid email format"},
		{"invalid contact", services.NewValidationError(services.InvalidContact, nil), http.StatusBadRequest, "Invalid contact number"},
		{"image upload", services.NewPersistenceError(services.ImageUploadFailed, errors.New("quota")), http.StatusInternalServerError, "Failed to upload image"},
		{"insert", services.NewPersistenceError(services.StoreWriteFailed, errors.New("dup")), http.StatusInternalServerError, "Failed to add school"},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError, "Internal server error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sm := newManager()
			sm.school.create = func(*services.CreateSchoolRequest) (uint, error) { return 0, tt.err }
			router := newTestRouter(t, sm, RouterConfig{})
			body, contentType := multipartSubmission(t, validFields(), []byte("img"))

			req := httptest.NewRequest(http.MethodPost, "/api/schools", body)
			req.Header.Set("Content-Type", contentType)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantError, decodeError(t, rec))
		})
	}
}

func TestCreateSchool_ValidationDetails(t *testing.T) {
	sm := newManager()
	sm.school.create = func(*services.CreateSchoolRequest) (uint, error) {
		return 0, services.NewValidationError(services.InvalidEmail, validator.ValidationErrors{
			{Field: "email_id", Message: "must be a valid email address", Rule: "school_email"},
		})
	}
	router := newTestRouter(t, sm, RouterConfig{})
	body, contentType := multipartSubmission(t, validFields(), []byte("img"))

	req := httptest.NewRequest(http.MethodPost, "/api/schools", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var resp struct {
		Error   string                      `json:"error"`
		Details []validator.ValidationError `json:"details"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Invalid email format", resp.Error)
	require.Len(t, resp.Details, 1)
	assert.Equal(t, "email_id", resp.Details[0].Field)
	assert.Equal(t, "school_email", resp.Details[0].Rule)
}

func TestCreateSchool_ValidationWithoutFieldsOmitsDetails(t *testing.T) {
	sm := newManager()
	router := newTestRouter(t, sm, RouterConfig{MaxUploadBytes: 16})
	body, contentType := multipartSubmission(t, validFields(), bytes.Repeat([]byte("x"), 64))

	req := httptest.NewRequest(http.MethodPost, "/api/schools", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Image exceeds maximum upload size"}`, rec.Body.String())
}

// ===== EXPORT =====

func TestExportSchools(t *testing.T) {
	sm := newManager()
	router := newTestRouter(t, sm, RouterConfig{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/schools/export?search=spring", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, xlsxContentType, rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "schools.xlsx")
	assert.Equal(t, "PK-xlsx", rec.Body.String())
	assert.Equal(t, "spring", sm.export.lastSearch)
}

func TestExportSchools_Failure(t *testing.T) {
	sm := newManager()
	sm.export.err = services.NewPersistenceError(services.StoreReadFailed, errors.New("timeout"))
	router := newTestRouter(t, sm, RouterConfig{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/schools/export", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Failed to fetch schools", decodeError(t, rec))
}

// ===== HEALTH & STATIC =====

func TestHealthCheck(t *testing.T) {
	sm := newManager()
	router := newTestRouter(t, sm, RouterConfig{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"healthy","service":"school-directory"}`, rec.Body.String())

	sm.healthErr = errors.New("database ping failed")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	var body models.HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "unhealthy", body.Status)
	assert.Equal(t, "database ping failed", body.Error)
}

func TestStaticImages(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "school_1.png"), []byte("img"), 0o644))
	router := newTestRouter(t, newManager(), RouterConfig{ImageDir: dir})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/schoolImages/school_1.png", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "img", rec.Body.String())
}

// ===== MIDDLEWARE =====

func TestCORSMiddleware(t *testing.T) {
	router := gin.New()
	router.Use(CORSMiddleware([]string{"https://schools.example"}))
	router.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/x", nil)
	req.Header.Set("Origin", "https://schools.example")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://schools.example", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "https://evil.example")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRecoveryMiddleware(t *testing.T) {
	router := gin.New()
	router.Use(RecoveryMiddleware(utils.NewSlogLogger(utils.NewDiscardLogger())))
	router.GET("/panic", func(*gin.Context) { panic("boom") })

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Internal server error", decodeError(t, rec))
}

func TestRequestIDMiddleware_KeepsIncoming(t *testing.T) {
	router := gin.New()
	router.Use(RequestIDMiddleware())
	router.GET("/x", func(c *gin.Context) { c.String(http.StatusOK, c.GetString("request_id")) })

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, "abc-123", rec.Body.String())
	assert.Equal(t, "abc-123", rec.Header().Get("X-Request-ID"))
}
