package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validate checks field constraints and returns one error listing every
// violation.
func (c *ClientConfig) Validate() error {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.Struct(c); err != nil {
		return formatValidationErrors(err)
	}
	return nil
}

func formatValidationErrors(err error) error {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}
	messages := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		messages = append(messages, formatFieldError(e))
	}
	return errors.New("invalid config: " + strings.Join(messages, "; "))
}

func formatFieldError(e validator.FieldError) string {
	field := e.Field()
	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, e.Param())
	case "startswith":
		return fmt.Sprintf("%s must start with %q", field, e.Param())
	case "http_url":
		return fmt.Sprintf("%s must be an http(s) URL", field)
	case "gt":
		return fmt.Sprintf("%s must be positive", field)
	default:
		return fmt.Sprintf("%s failed validation: %s", field, e.Tag())
	}
}

// NormalizeServerURL trims whitespace and trailing slashes and upgrades
// plain HTTP to HTTPS for hosts other than localhost. upgraded reports
// whether the scheme was changed.
func NormalizeServerURL(raw string) (normalized string, upgraded bool, err error) {
	s := strings.TrimRight(strings.TrimSpace(raw), "/")
	if s == "" {
		return "", false, errors.New("server URL is empty")
	}
	u, err := url.Parse(s)
	if err != nil {
		return "", false, fmt.Errorf("parse server URL: %w", err)
	}
	if u.Scheme == "http" && !isLocal(u.Hostname()) {
		u.Scheme = "https"
		upgraded = true
	}
	return u.String(), upgraded, nil
}

func isLocal(host string) bool {
	return host == "localhost" || host == "127.0.0.1" || host == "::1"
}
