package validator

// ImageUpload is an uploaded image held in memory
type ImageUpload struct {
	Filename string `validate:"required"`
	Content  []byte `validate:"required,min=1"`
}

// SchoolCreateRequest represents a school submission. The pipeline trims
// leading and trailing whitespace from every text field before validating,
// and the trimmed values are what gets stored.
type SchoolCreateRequest struct {
	Name    string       `form:"name" validate:"required,school_name"`
	Address string       `form:"address" validate:"required"`
	City    string       `form:"city" validate:"required"`
	State   string       `form:"state" validate:"required"`
	Contact string       `form:"contact" validate:"required,contact_number"`
	EmailID string       `form:"email_id" validate:"required,school_email"`
	Image   *ImageUpload `form:"-" validate:"required"`
}
