package validation

import (
	"fmt"
	"net/mail"
	"regexp"
	"strings"
	"time"

	errors "github.com/staffdir/employee-directory/internal"
)

// e164Pattern matches international phone numbers like +96170123456.
var e164Pattern = regexp.MustCompile(`^\+[1-9]\d{1,14}$`)

type ValidatorFunc func(value interface{}) string

type FieldValidator struct {
	FieldName  string
	Value      interface{}
	Validators []ValidatorFunc
}

// Builder collects per-field rules and produces one ValidationError carrying
// every failed rule's message.
type Builder struct {
	fields []*FieldValidator
}

func NewValidator() *Builder {
	return &Builder{}
}

func (b *Builder) Field(name string, value interface{}) *FieldValidator {
	fv := &FieldValidator{FieldName: name, Value: value}
	b.fields = append(b.fields, fv)
	return fv
}

func (fv *FieldValidator) Required() *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) string {
		if isEmpty(value) {
			return fmt.Sprintf("%s is required", fv.FieldName)
		}
		return ""
	})
	return fv
}

func (fv *FieldValidator) Email() *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) string {
		s, ok := asString(value)
		if !ok || s == "" {
			return ""
		}
		if _, err := mail.ParseAddress(s); err != nil {
			return "Please provide a valid email address"
		}
		return ""
	})
	return fv
}

func (fv *FieldValidator) MinLength(min int) *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) string {
		s, ok := asString(value)
		if !ok || s == "" {
			return ""
		}
		if len(s) < min {
			return fmt.Sprintf("%s must be at least %d characters long", fv.FieldName, min)
		}
		return ""
	})
	return fv
}

func (fv *FieldValidator) LengthBetween(min, max int) *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) string {
		s, ok := asString(value)
		if !ok || s == "" {
			return ""
		}
		trimmed := strings.TrimSpace(s)
		if len(trimmed) < min || len(trimmed) > max {
			return fmt.Sprintf("%s must be between %d and %d characters", fv.FieldName, min, max)
		}
		return ""
	})
	return fv
}

func (fv *FieldValidator) E164Phone() *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) string {
		s, ok := asString(value)
		if !ok || s == "" {
			return ""
		}
		if !e164Pattern.MatchString(s) {
			return "Phone number must be in E.164 format (e.g., +96170123456)"
		}
		return ""
	})
	return fv
}

// ISODate accepts a full RFC 3339 timestamp or a bare yyyy-mm-dd date.
func (fv *FieldValidator) ISODate() *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) string {
		s, ok := asString(value)
		if !ok || s == "" {
			return ""
		}
		if _, err := time.Parse(time.RFC3339, s); err == nil {
			return ""
		}
		if _, err := time.Parse("2006-01-02", s); err == nil {
			return ""
		}
		return fmt.Sprintf("Please provide a valid %s", fv.FieldName)
	})
	return fv
}

func (fv *FieldValidator) PositiveInt() *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) string {
		switch v := value.(type) {
		case *int64:
			if v != nil && *v < 1 {
				return fmt.Sprintf("%s must be a positive integer", fv.FieldName)
			}
		case int64:
			if v < 1 {
				return fmt.Sprintf("%s must be a positive integer", fv.FieldName)
			}
		}
		return ""
	})
	return fv
}

// Validate runs every rule and returns a ValidationError carrying the failed
// messages, or nil when all pass.
func (b *Builder) Validate() *errors.AppError {
	var messages []string
	for _, fv := range b.fields {
		for _, rule := range fv.Validators {
			if msg := rule(fv.Value); msg != "" {
				messages = append(messages, msg)
			}
		}
	}
	if len(messages) == 0 {
		return nil
	}
	return errors.NewValidationError(strings.Join(messages, "; "))
}

func isEmpty(value interface{}) bool {
	switch v := value.(type) {
	case string:
		return strings.TrimSpace(v) == ""
	case *string:
		return v == nil || strings.TrimSpace(*v) == ""
	case int64:
		return v == 0
	case *int64:
		return v == nil
	case nil:
		return true
	}
	return false
}

func asString(value interface{}) (string, bool) {
	switch v := value.(type) {
	case string:
		return v, true
	case *string:
		if v == nil {
			return "", true
		}
		return *v, true
	}
	return "", false
}
