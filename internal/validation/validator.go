package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"

	"github.com/wedding-planner-api/internal/models"
)

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	// looseEmailRegex is the check the sign-in and sign-up forms apply
	looseEmailRegex = regexp.MustCompile(`\S+@\S+\.\S+`)
)

// records checks the validate tags on the models. It is safe for
// concurrent use.
var records = newValidate()

// recordMessages overrides the generated message of a field+tag
var recordMessages = map[string]string{
	"allocated.notblank": "allocated amount is required",
	"rating.gte":         "rating must be between 0 and 5",
	"rating.lte":         "rating must be between 0 and 5",
}

// IsEmail reports whether s passes the form-level email check
func IsEmail(s string) bool {
	return looseEmailRegex.MatchString(s)
}

// newValidate builds a validator that names fields by their json tag and
// knows the custom rules
func newValidate() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	// Registration only fails for empty tags or nil funcs
	_ = v.RegisterValidation("notblank", validators.NotBlank)
	_ = v.RegisterValidation("strict_email", func(fl validator.FieldLevel) bool {
		return emailRegex.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("loose_email", func(fl validator.FieldLevel) bool {
		return IsEmail(fl.Field().String())
	})
	return v
}

// ValidateUser validates a user record
func ValidateUser(user models.User) []models.ValidationError {
	return checkRecord(user)
}

// ValidateVendor validates a vendor account record
func ValidateVendor(vendor models.Vendor) []models.ValidationError {
	return checkRecord(vendor)
}

// ValidatePackage validates a wedding package record
func ValidatePackage(pkg models.Package) []models.ValidationError {
	return checkRecord(pkg)
}

// ValidateChecklistItem validates a checklist task
func ValidateChecklistItem(item models.ChecklistItem) []models.ValidationError {
	return checkRecord(item)
}

// ValidateGuest validates a guest. Email is optional on the guest form and is
// not checked.
func ValidateGuest(guest models.Guest) []models.ValidationError {
	return checkRecord(guest)
}

// ValidateBudgetItem validates a budget line. Only presence is checked;
// amounts that do not parse count as zero when totals are computed.
func ValidateBudgetItem(item models.BudgetItem) []models.ValidationError {
	return checkRecord(item)
}

// ValidateTimelineEvent validates a schedule entry
func ValidateTimelineEvent(event models.TimelineEvent) []models.ValidationError {
	return checkRecord(event)
}

func checkRecord(rec interface{}) []models.ValidationError {
	return collect(records.Struct(rec), recordError)
}

// recordError words a failed rule the way the record screens show it.
// Presence failures carry no value.
func recordError(fe validator.FieldError) models.ValidationError {
	field := fe.Field()
	out := models.ValidationError{Field: field, Value: fe.Value()}

	switch fe.Tag() {
	case "required", "notblank":
		out.Message = field + " is required"
		out.Value = nil
	case "strict_email":
		out.Message = "invalid " + field + " format"
	case "oneof":
		out.Message = fmt.Sprintf("invalid %s, must be one of: %s", field, strings.Join(strings.Fields(fe.Param()), ", "))
	case "gte":
		out.Message = field + " must not be negative"
	default:
		out.Message = field + " is invalid"
	}
	if msg, ok := recordMessages[field+"."+fe.Tag()]; ok {
		out.Message = msg
	}
	return out
}

// collect turns a validator error into one ValidationError per field, the
// first failing rule winning
func collect(err error, word func(validator.FieldError) models.ValidationError) []models.ValidationError {
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return []models.ValidationError{{Field: "form", Message: err.Error()}}
	}

	seen := make(map[string]bool)
	var out []models.ValidationError
	for _, fe := range fieldErrs {
		if seen[fe.Field()] {
			continue
		}
		seen[fe.Field()] = true
		out = append(out, word(fe))
	}
	return out
}
