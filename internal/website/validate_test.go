// internal/website/validate_test.go
//
// Table tests for the field validators.
//
// Run: go test ./internal/website -v

package website

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateName(t *testing.T) {
	cases := []struct {
		name string
		in   string
		ok   bool
	}{
		{"single char", "a", true},
		{"single digit", "7", true},
		{"simple", "my-site", true},
		{"digits and hyphens", "site-2024-v2", true},
		{"max length", strings.Repeat("a", 63), true},
		{"max length with hyphens", "a" + strings.Repeat("-", 61) + "b", true},
		{"empty", "", false},
		{"too long", strings.Repeat("a", 64), false},
		{"uppercase", "My-Site", false},
		{"underscore", "INVALID_NAME", false},
		{"lower underscore", "my_site", false},
		{"leading hyphen", "-site", false},
		{"trailing hyphen", "site-", false},
		{"lone hyphen", "-", false},
		{"dot", "my.site", false},
		{"space", "my site", false},
		{"unicode", "sité", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateName(tc.in)
			if tc.ok && err != nil {
				t.Fatalf("ValidateName(%q) = %v, want nil", tc.in, err)
			}
			if !tc.ok {
				var ve *ValidationError
				if !errors.As(err, &ve) {
					t.Fatalf("ValidateName(%q) = %v, want *ValidationError", tc.in, err)
				}
				if ve.Field != FieldName || ve.Reason != ReasonInvalidFormat {
					t.Fatalf("unexpected field/reason: %+v", ve)
				}
			}
		})
	}
}

func TestValidateName_LowercaseMessage(t *testing.T) {
	err := ValidateName("INVALID_NAME")
	if err == nil || !strings.Contains(err.Error(), "lowercase") {
		t.Fatalf("message = %v, want mention of lowercase", err)
	}
}

func TestValidateTitle(t *testing.T) {
	if err := ValidateTitle("My Site"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := ValidateTitle(strings.Repeat("é", 255)); err != nil {
		t.Fatalf("255 runes should pass: %v", err)
	}

	err := ValidateTitle("   ")
	var ve *ValidationError
	if !errors.As(err, &ve) || ve.Reason != ReasonEmpty {
		t.Fatalf("blank title: got %v", err)
	}

	err = ValidateTitle(strings.Repeat("t", 256))
	if !errors.As(err, &ve) || ve.Reason != ReasonTooLong {
		t.Fatalf("long title: got %v", err)
	}
}

func TestValidateContent(t *testing.T) {
	cases := []struct {
		name   string
		in     string
		reason Reason
	}{
		{"one byte", "x", ""},
		{"exact limit", strings.Repeat("x", MaxContentBytes), ""},
		{"empty", "", ReasonEmpty},
		{"one over", strings.Repeat("x", MaxContentBytes+1), ReasonTooLarge},
		// 3-byte rune: 34134 runes = 102402 bytes, well under 102400 runes.
		{"multibyte over", strings.Repeat("€", 34134), ReasonTooLarge},
		{"multibyte under", strings.Repeat("€", 34133), ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateContent(tc.in)
			if tc.reason == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			var ve *ValidationError
			if !errors.As(err, &ve) || ve.Reason != tc.reason {
				t.Fatalf("got %v, want reason %s", err, tc.reason)
			}
		})
	}
}

func TestValidateContent_Message(t *testing.T) {
	err := ValidateContent(strings.Repeat("x", 102401))
	if err == nil || !strings.Contains(err.Error(), "100KB") {
		t.Fatalf("message = %v, want mention of 100KB", err)
	}
	if !strings.Contains(err.Error(), "102401 bytes") {
		t.Fatalf("message should report current size: %v", err)
	}
}

func TestValidateCreate_Order(t *testing.T) {
	// Every field is bad; the name must be reported first.
	err := ValidateCreate("Bad_Name", "", "")
	var ve *ValidationError
	if !errors.As(err, &ve) || ve.Field != FieldName {
		t.Fatalf("want name error first, got %v", err)
	}

	err = ValidateCreate("ok", "", "")
	if !errors.As(err, &ve) || ve.Field != FieldTitle {
		t.Fatalf("want title error second, got %v", err)
	}

	err = ValidateCreate("ok", "Title", "")
	if !errors.As(err, &ve) || ve.Field != FieldContent {
		t.Fatalf("want content error third, got %v", err)
	}

	if err := ValidateCreate("ok", "Title", "<html></html>"); err != nil {
		t.Fatalf("valid payload rejected: %v", err)
	}
}
