package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Init configures the global validator used by Gin's binding.
// - Uses JSON tag names in errors.
// - Registers alias tags for the task board enums and password policy.
func Init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		Register(v)
	}
}

// Register applies the tag name func and aliases to v. Exposed so tests can
// validate structs without going through Gin.
func Register(v *validator.Validate) {
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	v.RegisterAlias("pwd", "min=6")
	v.RegisterAlias("taskstatus", "oneof=todo in-progress done")
	v.RegisterAlias("taskpriority", "oneof=low medium high")
}

// fieldMessages overrides the generic message for a field/tag pair.
var fieldMessages = map[string]string{
	"name.required":         "Name is required",
	"email.required":        "Email is required",
	"email.email":           "Please provide a valid email",
	"password.required":     "Password is required",
	"password.pwd":          "Password must be at least 6 characters",
	"title.required":        "Title is required",
	"description.required":  "Description is required",
	"projectId.required":    "Project ID is required",
	"status.required":       "Status is required",
	"status.taskstatus":     "Invalid status value",
	"priority.taskpriority": "Invalid priority value",
}

// ToDetails converts validation/binding errors into a map[field]message suitable for the errors object.
func ToDetails(err error) map[string]string {
	if err == nil {
		return nil
	}

	if errors.Is(err, io.EOF) {
		return map[string]string{"payload": "request body is required"}
	}

	var se *json.SyntaxError
	if errors.As(err, &se) {
		return map[string]string{"payload": "invalid json"}
	}
	var ute *json.UnmarshalTypeError
	if errors.As(err, &ute) {
		if ute.Field != "" {
			return map[string]string{ute.Field: "has the wrong type"}
		}
		return map[string]string{"payload": "invalid json"}
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		out := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			out[fe.Field()] = formatFieldError(fe)
		}
		return out
	}

	return map[string]string{"payload": "invalid payload"}
}

// First returns one message from details, preferring a stable order so the
// top-level message does not flap between requests.
func First(details map[string]string, order ...string) string {
	for _, k := range order {
		if m, ok := details[k]; ok {
			return m
		}
	}
	best := ""
	for k := range details {
		if best == "" || k < best {
			best = k
		}
	}
	return details[best]
}

func formatFieldError(fe validator.FieldError) string {
	if m, ok := fieldMessages[fe.Field()+"."+fe.Tag()]; ok {
		return m
	}

	param := fe.Param()
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "email":
		return "must be a valid email"
	case "min":
		if isNumberKind(fe.Kind()) {
			return "must be at least " + param
		}
		return "must be at least " + param + " characters long"
	case "max":
		if isNumberKind(fe.Kind()) {
			return "must be at most " + param
		}
		return "must be at most " + param + " characters long"
	case "oneof", "taskstatus", "taskpriority":
		return "must be one of: " + strings.Join(strings.Fields(param), ", ")
	case "pwd":
		return "must be at least 6 characters long"
	case "len":
		return fmt.Sprintf("must be exactly %s characters long", param)
	case "uuid", "uuid4":
		return "must be a valid UUID"
	case "mongodb":
		return "must be a valid id"
	default:
		if param != "" {
			return fmt.Sprintf("validation failed for '%s' with parameter '%s'", fe.Tag(), param)
		}
		return fmt.Sprintf("validation failed for '%s'", fe.Tag())
	}
}

func isNumberKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}
