package http

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	phoneSeparators = strings.NewReplacer(" ", "", "-", "", ".", "", "(", "", ")", "")
	mobilePattern   = regexp.MustCompile(`^\+?[0-9]{7,15}$`)
)

// contactFields holds the two server-validated fields. Empty values fail
// both checks, which is how a missing email or phone is rejected on create.
type contactFields struct {
	Phone string `json:"phone" validate:"mobile"`
	Email string `json:"email" validate:"email"`
}

var fieldMessages = map[string]string{
	"email":  "Invalid email address",
	"mobile": "Invalid mobile phone number",
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	// Registration only fails for empty tags or nil funcs.
	_ = v.RegisterValidation("mobile", func(fl validator.FieldLevel) bool {
		return isMobilePhone(fl.Field().String())
	})

	return v
}

func isMobilePhone(s string) bool {
	return mobilePattern.MatchString(phoneSeparators.Replace(s))
}

// validateCreate checks email and phone unconditionally.
func validateCreate(v *validator.Validate, req UserRequest) ([]FieldError, error) {
	return validateContact(v, req, func(string) bool { return true })
}

// validateUpdate checks email and phone only when the request carries them,
// null included.
func validateUpdate(v *validator.Validate, req UserRequest) ([]FieldError, error) {
	present := map[string]bool{
		"phone": req.Phone.Set,
		"email": req.Email.Set,
	}
	return validateContact(v, req, func(field string) bool { return present[field] })
}

func validateContact(v *validator.Validate, req UserRequest, include func(field string) bool) ([]FieldError, error) {
	err := v.Struct(contactFields{
		Phone: req.Phone.Value,
		Email: req.Email.Value,
	})
	if err == nil {
		return nil, nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return nil, err
	}

	raw := map[string]*string{
		"phone": req.Phone.raw(),
		"email": req.Email.raw(),
	}

	var details []FieldError
	for _, fe := range validationErrors {
		if !include(fe.Field()) {
			continue
		}
		details = append(details, formatFieldError(fe, raw[fe.Field()]))
	}

	return details, nil
}

func formatFieldError(fe validator.FieldError, value *string) FieldError {
	msg, ok := fieldMessages[fe.Tag()]
	if !ok {
		msg = "Invalid value"
	}

	return FieldError{
		Type:     "field",
		Value:    value,
		Msg:      msg,
		Path:     fe.Field(),
		Location: "body",
	}
}
