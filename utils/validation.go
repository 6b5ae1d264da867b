package utils

import (
	"net/mail"
	"regexp"
	"strings"

	"marketing-crm/types"

	"github.com/go-playground/validator/v10"
)

var (
	phonePattern = regexp.MustCompile(`^[6-9][0-9]{9}$`)
	gstPattern   = regexp.MustCompile(`^[A-Z0-9]{15}$`)
)

// ValidatePhone checks a 10 digit mobile number whose first digit is 6-9.
// Surrounding whitespace is ignored; the trimmed number is returned.
func ValidatePhone(input string) (string, error) {
	phone := strings.TrimSpace(input)
	if !phonePattern.MatchString(phone) {
		return "", types.NewError(types.KindInvalidFormat, "Phone number must be 10 digits starting with 6, 7, 8 or 9")
	}
	return phone, nil
}

// ValidateGST checks a 15 character alphanumeric GST number and returns it upper-cased.
func ValidateGST(input string) (string, error) {
	gst := strings.ToUpper(strings.TrimSpace(input))
	if !gstPattern.MatchString(gst) {
		return "", types.NewError(types.KindInvalidFormat, "GST number must be 15 alphanumeric characters")
	}
	return gst, nil
}

// PANFromGST returns the PAN embedded in characters 3 to 12 of a GST number.
func PANFromGST(gst string) string {
	if len(gst) < 12 {
		return ""
	}
	return gst[2:12]
}

// ValidateEmail normalises and checks an email address.
func ValidateEmail(input string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(input))
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", types.NewError(types.KindInvalidFormat, "Invalid email address")
	}
	return email, nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		_, err := ValidatePhone(fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("gst", func(fl validator.FieldLevel) bool {
		_, err := ValidateGST(fl.Field().String())
		return err == nil
	})
	return v
}

// ValidateStruct runs the `validate` tags of a request DTO and reports the
// first failing field as an InvalidFormat error.
func ValidateStruct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	if fieldErrs, ok := err.(validator.ValidationErrors); ok && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return types.NewError(types.KindInvalidFormat, fieldMessage(fe))
	}
	return types.WrapError(types.KindInvalidFormat, "Invalid request", err)
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "max":
		return field + " must be at most " + fe.Param() + " characters"
	case "min":
		return field + " must be at least " + fe.Param()
	case "oneof":
		return field + " must be one of: " + fe.Param()
	case "email":
		return field + " must be a valid email address"
	case "phone":
		return field + " must be a valid 10 digit phone number"
	case "gst":
		return field + " must be a valid GST number"
	case "len":
		return field + " must be exactly " + fe.Param() + " characters"
	case "gtefield":
		return field + " must not be before " + fe.Param()
	default:
		return field + " is invalid"
	}
}
