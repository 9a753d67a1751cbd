package reservation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/mtzs0/kockabarlang-party-planner/timeslot"
	"go.uber.org/zap"
)

var phoneRegex = regexp.MustCompile(`^\+36 \d{2} \d{3} \d{4}$`)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	messages := make([]string, 0, len(v))
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

type Validator struct {
	validate *validator.Validate
	logger   *zap.Logger
	now      func() time.Time
}

// NewValidator builds the reservation validator. now decides what "today" is
// for the not_past and not_future date rules.
func NewValidator(logger *zap.Logger, now func() time.Time) (*Validator, error) {
	v := validator.New()
	rv := &Validator{
		validate: v,
		logger:   logger,
		now:      now,
	}

	if err := v.RegisterValidation("hu_phone", validatePhone); err != nil {
		return nil, fmt.Errorf("register hu_phone: %w", err)
	}
	if err := v.RegisterValidation("time_bracket", validateTimeBracket); err != nil {
		return nil, fmt.Errorf("register time_bracket: %w", err)
	}
	if err := v.RegisterValidation("not_past", rv.validateNotPast); err != nil {
		return nil, fmt.Errorf("register not_past: %w", err)
	}
	if err := v.RegisterValidation("not_future", rv.validateNotFuture); err != nil {
		return nil, fmt.Errorf("register not_future: %w", err)
	}

	return rv, nil
}

func validatePhone(fl validator.FieldLevel) bool {
	return phoneRegex.MatchString(fl.Field().String())
}

func validateTimeBracket(fl validator.FieldLevel) bool {
	_, err := timeslot.ParseRange(fl.Field().String())
	return err == nil
}

func (v *Validator) today() string {
	return v.now().Format(DateLayout)
}

// Dates are YYYY-MM-DD, so string order is calendar order.
func (v *Validator) validateNotPast(fl validator.FieldLevel) bool {
	date := fl.Field().String()
	return isDate(date) && date >= v.today()
}

func (v *Validator) validateNotFuture(fl validator.FieldLevel) bool {
	date := fl.Field().String()
	return isDate(date) && date <= v.today()
}

func isDate(text string) bool {
	_, err := time.Parse(DateLayout, text)
	return err == nil
}

func (v *Validator) Validate(b *Birthday) error {
	b.Email = strings.TrimSpace(b.Email)
	b.Child = strings.TrimSpace(b.Child)
	b.Parent = strings.TrimSpace(b.Parent)

	if err := v.validate.Struct(b); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translate(validationErrs)
		}
		return err
	}
	return nil
}

func (v *Validator) translate(errs validator.ValidationErrors) ValidationErrors {
	out := make(ValidationErrors, 0, len(errs))
	for _, err := range errs {
		out = append(out, ValidationError{
			Field:   fieldName(err.Field()),
			Message: message(err),
		})
	}
	v.logger.Debug("reservation rejected", zap.Error(out))
	return out
}

func message(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		if err.Field() == "AcceptedPolicy" {
			return "policy must be accepted"
		}
		return "is required"
	case "email":
		return "must be a valid email address"
	case "hu_phone":
		return "must look like +36 20 123 4567"
	case "time_bracket":
		return "must be HH:MM or HH:MM-HH:MM"
	case "datetime":
		return "must be a YYYY-MM-DD date"
	case "not_past":
		return "must not be in the past"
	case "not_future":
		return "must not be in the future"
	case "max":
		return fmt.Sprintf("must be at most %s characters", err.Param())
	default:
		return fmt.Sprintf("failed %q check", err.Tag())
	}
}

var jsonNames = map[string]string{
	"ChildBirthday":  "birthday",
	"AcceptedPolicy": "accepted_policy",
}

func fieldName(field string) string {
	if name, ok := jsonNames[field]; ok {
		return name
	}
	return strings.ToLower(field)
}
