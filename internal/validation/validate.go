package validation

import (
	"fmt"
	"net/url"
	"unicode"

	"github.com/input-output-hk/catalyst-forge-libs/upload/errors"
	"github.com/input-output-hk/catalyst-forge-libs/upload/uploadtypes"
)

// maxFileNameLength bounds the name recorded in the form's file part.
const maxFileNameLength = 1024

// ValidateFileName validates the name recorded in the file part.
// Returns ErrInvalidInput if the name is empty, too long, or contains
// control characters.
func ValidateFileName(name string) error {
	if name == "" {
		return errors.NewError("validateFileName", errors.ErrInvalidInput).
			WithMessage("file name cannot be empty")
	}

	if len(name) > maxFileNameLength {
		return errors.NewError("validateFileName", errors.ErrInvalidInput).
			WithMessage(fmt.Sprintf("file name cannot exceed %d characters", maxFileNameLength))
	}

	if hasControlCharacters(name) {
		return errors.NewError("validateFileName", errors.ErrInvalidInput).
			WithMessage("file name cannot contain control characters")
	}

	return nil
}

// ValidateDestination validates a pre-authorized upload destination:
// the endpoint URL, the mandatory key field, and the remaining form
// fields.
func ValidateDestination(dest uploadtypes.Destination) error {
	if err := validateEndpointURL(dest.URL); err != nil {
		return err
	}

	if dest.KeyField.Key == "" {
		return errors.NewError("validateDestination", errors.ErrInvalidInput).
			WithMessage("key field name cannot be empty")
	}

	for _, field := range dest.Fields {
		if field.Key == "" {
			return errors.NewError("validateDestination", errors.ErrInvalidInput).
				WithMessage("form field names cannot be empty")
		}
	}

	return nil
}

// validateEndpointURL checks that the destination URL is an absolute
// http or https URL with a host.
func validateEndpointURL(raw string) error {
	if raw == "" {
		return errors.NewError("validateDestination", errors.ErrInvalidInput).
			WithMessage("destination URL cannot be empty")
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return errors.NewError("validateDestination", errors.ErrInvalidInput).
			WithURL(raw).
			WithMessage("destination URL is not parseable")
	}

	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return errors.NewError("validateDestination", errors.ErrInvalidInput).
			WithURL(raw).
			WithMessage("destination URL scheme must be http or https")
	}

	if parsed.Host == "" {
		return errors.NewError("validateDestination", errors.ErrInvalidInput).
			WithURL(raw).
			WithMessage("destination URL must include a host")
	}

	return nil
}

// hasControlCharacters checks for control characters in the name
func hasControlCharacters(name string) bool {
	for _, char := range name {
		if unicode.IsControl(char) {
			return true
		}
	}
	return false
}
