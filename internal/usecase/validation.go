package usecase

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/xavierca1/unic-leads/internal/entity"
)

var (
	birthDatePattern = regexp.MustCompile(`^\d{2}\.\d{2}\.\d{4}$`)
	phonePattern     = regexp.MustCompile(`^\+375\d{9}$`)

	formValidator = newFormValidator()
)

// submissionForm mirrors the landing page form rules. Lengths are counted in
// runes by the validator.
type submissionForm struct {
	FullName  string `json:"fullName" validate:"min=2,max=50"`
	BirthDate string `json:"birthDate" validate:"birthdate"`
	Phone     string `json:"phone" validate:"len=13,byphone"`
	Telegram  string `json:"telegram" validate:"max=32"`
}

var fieldMessages = map[string]map[string]string{
	"fullName": {
		"min": "ФИО должно содержать минимум 2 символа",
		"max": "ФИО не должно превышать 50 символов",
	},
	"birthDate": {
		"birthdate": "Формат: ДД.ММ.ГГГГ",
	},
	"phone": {
		"len":     "Номер должен быть в формате +375XXXXXXXXX",
		"byphone": "Формат: +375XXXXXXXXX",
	},
	"telegram": {
		"max": "Telegram не должен превышать 32 символа",
	},
}

func newFormValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	// Syntactic only: 31.13.2099 is accepted.
	must(v.RegisterValidation("birthdate", func(fl validator.FieldLevel) bool {
		return birthDatePattern.MatchString(fl.Field().String())
	}))
	must(v.RegisterValidation("byphone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	}))
	return v
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

// ValidateSubmission checks raw form values. It performs no I/O and keeps no
// state, so it is safe to call on every keystroke.
func ValidateSubmission(input SubmitApplicationInput) (entity.Submission, ValidationErrors) {
	form := submissionForm{
		FullName:  input.FullName,
		BirthDate: input.BirthDate,
		Phone:     input.Phone,
		Telegram:  input.Telegram,
	}

	err := formValidator.Struct(form)
	if err == nil {
		return entity.Submission{
			FullName:  input.FullName,
			BirthDate: input.BirthDate,
			Phone:     input.Phone,
			Telegram:  input.Telegram,
			Source:    input.Source,
		}, nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		// Only reachable on a programming error in submissionForm.
		panic(err)
	}

	out := make(ValidationErrors, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		out = append(out, ValidationError{
			Field:   fe.Field(),
			Kind:    kindOf(fe),
			Message: fieldMessages[fe.Field()][fe.Tag()],
		})
	}
	return entity.Submission{}, out
}

func kindOf(fe validator.FieldError) ErrorKind {
	switch fe.Field() {
	case "fullName", "telegram":
		return LengthError
	default:
		return FormatError
	}
}
