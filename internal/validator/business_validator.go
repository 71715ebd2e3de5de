package validator

import (
	"regexp"
	"strconv"

	"github.com/go-playground/validator/v10"
)

// whitespace matches what browsers treat as \s: ASCII whitespace, vertical
// tab, Unicode separators and the byte order mark.
const whitespace = `\s\x0B\p{Z}\x{FEFF}`

var (
	schoolNamePattern = regexp.MustCompile(`^[A-Za-z` + whitespace + `]+$`)
	emailPattern      = regexp.MustCompile(`^[^` + whitespace + `@]+@[^` + whitespace + `@]+\.[^` + whitespace + `@]+$`)
)

const contactDigits = 10

// BusinessValidator handles business rule validation
type BusinessValidator struct {
	validate *validator.Validate
}

// NewBusinessValidator creates a new business validator
func NewBusinessValidator() *BusinessValidator {
	validate := validator.New()
	validate.RegisterTagNameFunc(formFieldName)

	bv := &BusinessValidator{validate: validate}
	bv.registerBusinessRules()

	return bv
}

// Validate validates business rules for any struct
func (bv *BusinessValidator) Validate(s interface{}) ValidationErrors {
	err := bv.validate.Struct(s)
	if err != nil {
		return ToValidationErrors(err)
	}
	return nil
}

// ValidateSchoolCreate validates a school submission
func (bv *BusinessValidator) ValidateSchoolCreate(req *SchoolCreateRequest) ValidationErrors {
	return bv.Validate(req)
}

// ParseContact returns the numeric contact when s is exactly ten digits with
// no leading zero, so the stored integer keeps all ten digits.
func ParseContact(s string) (int64, bool) {
	if len(s) != contactDigits {
		return 0, false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || len(strconv.FormatInt(n, 10)) != contactDigits {
		return 0, false
	}
	return n, true
}

// IsValidEmail applies the submission email pattern
func IsValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// IsValidSchoolName accepts letters and whitespace only
func IsValidSchoolName(s string) bool {
	return schoolNamePattern.MatchString(s)
}

func (bv *BusinessValidator) registerBusinessRules() {
	bv.validate.RegisterValidation("school_name", func(fl validator.FieldLevel) bool {
		return IsValidSchoolName(fl.Field().String())
	})

	bv.validate.RegisterValidation("school_email", func(fl validator.FieldLevel) bool {
		return IsValidEmail(fl.Field().String())
	})

	bv.validate.RegisterValidation("contact_number", func(fl validator.FieldLevel) bool {
		_, ok := ParseContact(fl.Field().String())
		return ok
	})
}
