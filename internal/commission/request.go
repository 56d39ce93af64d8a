package commission

import (
	"fmt"
	"net/mail"
	"sort"
	"strings"

	"illustraBack/internal/models"
)

// OtherService is the select value for a project outside the listed services.
const OtherService = "altro"

// ValidationError lists the invalid fields of a request by JSON name.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return fmt.Sprintf("invalid commission request: %s", strings.Join(keys, ", "))
}

func (e *ValidationError) Unwrap() error { return models.ErrInvalidRequest }

// Normalize trims every field of the request.
func Normalize(req models.CommissionRequest) models.CommissionRequest {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.Phone = strings.TrimSpace(req.Phone)
	req.Service = strings.TrimSpace(req.Service)
	req.Description = strings.TrimSpace(req.Description)
	req.Budget = strings.TrimSpace(req.Budget)
	req.Deadline = strings.TrimSpace(req.Deadline)
	return req
}

// Validate requires name, a parsable email, service and description.
func Validate(req models.CommissionRequest) error {
	fields := map[string]string{}
	if req.Name == "" {
		fields["name"] = "required"
	}
	if req.Email == "" {
		fields["email"] = "required"
	} else if addr, err := mail.ParseAddress(req.Email); err != nil || addr.Address != req.Email {
		fields["email"] = "invalid"
	}
	if req.Service == "" {
		fields["service"] = "required"
	}
	if req.Description == "" {
		fields["description"] = "required"
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}
