package handlers

import (
	"bytes"
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/school-directory/internal/models"
	"github.com/SAP-F-2025/school-directory/internal/services"
	"github.com/SAP-F-2025/school-directory/internal/utils"
)

const (
	imageFormField = "image"

	// Room for the text fields and multipart framing on top of the image
	formOverheadBytes = 1 << 20

	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	exportFilename  = "schools.xlsx"
)

type SchoolHandler struct {
	BaseHandler
	service        services.SchoolService
	export         services.ExportService
	maxUploadBytes int64
}

func NewSchoolHandler(service services.SchoolService, export services.ExportService, maxUploadBytes int64, logger utils.Logger) *SchoolHandler {
	return &SchoolHandler{
		BaseHandler:    NewBaseHandler(logger),
		service:        service,
		export:         export,
		maxUploadBytes: maxUploadBytes,
	}
}

// ===== SCHOOL ENDPOINTS =====

// ListSchools returns every school, newest first
// @Summary List schools
// @Tags schools
// @Produce json
// @Success 200 {object} models.SchoolListResponse
// @Failure 500 {object} ErrorResponse "Failed to fetch schools"
// @Router /schools [get]
func (h *SchoolHandler) ListSchools(c *gin.Context) {
	h.LogRequest(c, "Listing schools")

	schools, err := h.service.List(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.SchoolListResponse{Schools: schools})
}

// CreateSchool accepts a multipart submission with an image file
// @Summary Add a school
// @Tags schools
// @Accept multipart/form-data
// @Produce json
// @Param name formData string true "School name"
// @Param address formData string true "Street address"
// @Param city formData string true "City"
// @Param state formData string true "State"
// @Param contact formData string true "Ten digit contact number"
// @Param email_id formData string true "Contact email"
// @Param image formData file true "School image"
// @Success 201 {object} models.CreateSchoolResponse
// @Failure 400 {object} ErrorResponse "Validation failed"
// @Failure 500 {object} ErrorResponse "Failed to upload image or add school"
// @Router /schools [post]
func (h *SchoolHandler) CreateSchool(c *gin.Context) {
	h.LogRequest(c, "Creating school")

	if h.maxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes+formOverheadBytes)
	}

	var req services.CreateSchoolRequest
	if err := c.ShouldBind(&req); err != nil {
		h.handleBindError(c, err)
		return
	}

	image, err := h.readImage(c)
	if err != nil {
		h.handleBindError(c, err)
		return
	}
	req.Image = image

	id, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, models.CreateSchoolResponse{
		Message: "School added successfully",
		ID:      id,
	})
}

// ExportSchools streams an XLSX workbook of the schools matching ?search=
// @Summary Export schools
// @Tags schools
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param search query string false "Case-insensitive filter on name, city, state or address"
// @Success 200 {file} file
// @Failure 500 {object} ErrorResponse "Failed to fetch schools"
// @Router /schools/export [get]
func (h *SchoolHandler) ExportSchools(c *gin.Context) {
	search := c.Query("search")
	h.LogRequest(c, "Exporting schools", "search", search)

	var buf bytes.Buffer
	if _, err := h.export.ExportSchools(c.Request.Context(), &buf, search); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+exportFilename+`"`)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// ===== HELPERS =====

// readImage returns nil without error when no file was sent; the pipeline
// reports the missing field.
func (h *SchoolHandler) readImage(c *gin.Context) (*services.ImageUpload, error) {
	header, err := c.FormFile(imageFormField)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, err
	}

	if h.maxUploadBytes > 0 && header.Size > h.maxUploadBytes {
		return nil, services.NewValidationError(services.ImageTooLarge, nil)
	}

	content, err := readFormFile(header)
	if err != nil {
		return nil, err
	}

	return &services.ImageUpload{Filename: header.Filename, Content: content}, nil
}

func readFormFile(header *multipart.FileHeader) ([]byte, error) {
	f, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return io.ReadAll(f)
}

func (h *SchoolHandler) handleBindError(c *gin.Context, err error) {
	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		err = services.NewValidationError(services.ImageTooLarge, nil)
	}

	var validationErr *services.ValidationError
	if !errors.As(err, &validationErr) {
		h.log(c).Warn("Malformed school submission", "error", err)
		err = services.NewValidationError(services.MissingField, nil)
	}

	h.handleServiceError(c, err)
}
