// internal/website/validate.go
//
// Input checks for website requests.
//
// Context
// -------
// Each field has exactly one acceptance function.  The user service calls
// ValidateCreate, which runs name, title, and content in that order and
// stops at the first failure so error messages are deterministic.  The
// provisioner payload is accepted by NewTransition in lifecycle.go.
//
// Notes
// -----
//   - Content size is measured in UTF-8 bytes, not characters, so multi-byte
//     content can fail below 102400 characters.
//   - Title length is measured in characters (runes).
//   - HTML is opaque.  Nothing here parses or sanitizes it.
package website

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	MaxNameLength     = 63
	MaxTitleLength    = 255
	MaxContentBytes   = 102400 // 100 KiB
	FieldName         = "websiteName"
	FieldTitle        = "websiteTitle"
	FieldContent      = "htmlContent"
	FieldStatus       = "status"
	FieldPodIP        = "podIpAddress"
	FieldErrorMessage = "errorMessage"
)

// dnsLabel is the RFC 1123 label grammar restricted to lowercase.
var dnsLabel = regexp.MustCompile(`^[a-z0-9]([a-z0-9-]{0,61}[a-z0-9])?$`)

// ValidateName accepts a lowercase DNS label of 1–63 characters.
func ValidateName(name string) error {
	if name == "" {
		return invalid(FieldName, ReasonInvalidFormat, "Website name is required")
	}
	if len(name) > MaxNameLength {
		return invalid(FieldName, ReasonInvalidFormat,
			fmt.Sprintf("Website name must be %d characters or less", MaxNameLength))
	}
	if !dnsLabel.MatchString(name) {
		return invalid(FieldName, ReasonInvalidFormat,
			"Website name must be lowercase, start and end with alphanumeric, "+
				"and contain only alphanumeric and hyphens")
	}
	return nil
}

// ValidateTitle accepts a non-blank title of at most 255 characters.
func ValidateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return invalid(FieldTitle, ReasonEmpty, "Website title is required")
	}
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return invalid(FieldTitle, ReasonTooLong,
			fmt.Sprintf("Website title must be %d characters or less", MaxTitleLength))
	}
	return nil
}

// ValidateContent accepts 1–102400 bytes of HTML.
func ValidateContent(html string) error {
	if len(html) == 0 {
		return invalid(FieldContent, ReasonEmpty, "HTML content is required")
	}
	if n := len(html); n > MaxContentBytes {
		return invalid(FieldContent, ReasonTooLarge,
			fmt.Sprintf("HTML content must be %d bytes (100KB) or less. Current size: %d bytes",
				MaxContentBytes, n))
	}
	return nil
}

// ValidateCreate checks a creation payload, name first, then title, then
// content.  It returns the first *ValidationError encountered.
func ValidateCreate(name, title, html string) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	if err := ValidateTitle(title); err != nil {
		return err
	}
	return ValidateContent(html)
}
