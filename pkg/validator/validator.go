package validator

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/jwalitptl/patient-api/pkg/errors"
	"github.com/jwalitptl/patient-api/internal/model"
)

// MaxAgeYears bounds how far in the past a date of birth may lie.
const MaxAgeYears = 150

var (
	nameRegex          = regexp.MustCompile(`^[A-Za-z\s]+$`)
	streetAddressRegex = regexp.MustCompile(`^[A-Za-z0-9\s.,#'\-/]+$`)
	cityStateRegex     = regexp.MustCompile(`^[A-Za-z\s.'\-]+$`)
	zipRegex           = regexp.MustCompile(`^\d{5}$`)
)

// Violation is a single failed rule.
type Violation struct {
	// Field is the JSON path of the offending field, e.g. "address.zip".
	Field   string
	Tag     string
	Message string
}

// Violations keeps the order in which fields are declared on the input.
type Violations []Violation

func (vs Violations) Messages() []string {
	msgs := make([]string, 0, len(vs))
	for _, v := range vs {
		msgs = append(msgs, v.Message)
	}
	return msgs
}

// ByField returns the message for each offending field, keyed by JSON path.
func (vs Violations) ByField() map[string]string {
	out := make(map[string]string, len(vs))
	for _, v := range vs {
		if _, ok := out[v.Field]; !ok {
			out[v.Field] = v.Message
		}
	}
	return out
}

// Err returns nil when there are no violations, otherwise a validation AppError.
func (vs Violations) Err() error {
	if len(vs) == 0 {
		return nil
	}
	return apperrors.NewValidation(vs.Messages())
}

// Validator checks patient input. It is safe for concurrent use.
type Validator struct {
	validate *validator.Validate
	now      func() time.Time
}

type Option func(*Validator)

// WithClock replaces the clock used for date of birth range checks.
func WithClock(now func() time.Time) Option {
	return func(v *Validator) {
		v.now = now
	}
}

func New(opts ...Option) *Validator {
	v := &Validator{
		validate: validator.New(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(v)
	}

	v.validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	v.register("not_blank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	v.register("person_name", matches(nameRegex))
	v.register("street_address", matches(streetAddressRegex))
	v.register("city_state", matches(cityStateRegex))
	v.register("zip5", matches(zipRegex))
	v.register("patient_status", func(fl validator.FieldLevel) bool {
		return model.Status(fl.Field().String()).Valid()
	})
	v.register("calendar_date", func(fl validator.FieldLevel) bool {
		_, err := model.ParseDate(fl.Field().String())
		return err == nil
	})
	v.register("not_future", func(fl validator.FieldLevel) bool {
		dob, err := model.ParseDate(fl.Field().String())
		if err != nil {
			return true
		}
		return !dob.After(v.today())
	})
	v.register("max_age", func(fl validator.FieldLevel) bool {
		dob, err := model.ParseDate(fl.Field().String())
		if err != nil {
			return true
		}
		return !dob.Before(v.earliestBirthDate())
	})

	return v
}

func (v *Validator) register(tag string, fn validator.Func) {
	// Only fails on duplicate or empty tags, which are programming errors.
	if err := v.validate.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("validator: register %s: %v", tag, err))
	}
}

func matches(re *regexp.Regexp) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return re.MatchString(fl.Field().String())
	}
}

func (v *Validator) today() model.Date {
	return model.DateOf(v.now())
}

func (v *Validator) earliestBirthDate() model.Date {
	return model.DateOf(v.today().AddDate(-MaxAgeYears, 0, 0))
}

// Patient runs every rule against in and collects all violations. A nil input
// is reported as a single violation.
func (v *Validator) Patient(in *model.PatientInput) Violations {
	if in == nil {
		return Violations{{Field: "", Tag: "required", Message: "Patient data is required"}}
	}
	return v.Struct(in)
}

// Struct validates any value carrying validate tags.
func (v *Validator) Struct(s interface{}) Violations {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return Violations{{Tag: "invalid", Message: err.Error()}}
	}

	out := make(Violations, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		out = append(out, Violation{
			Field:   jsonPath(fe.Namespace()),
			Tag:     fe.Tag(),
			Message: message(fe),
		})
	}
	return out
}

// jsonPath drops the root type name from a namespace like "PatientInput.address.zip".
func jsonPath(ns string) string {
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}
