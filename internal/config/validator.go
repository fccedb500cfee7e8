// internal/config/validator.go
//
// Thin wrapper around go-playground/validator.
//
// Context
// -------
// `Load` calls `validateStruct` immediately after it unmarshals the merged
// Koanf tree.  Any validation error aborts startup, so the binary never
// runs with partial or malformed configuration.
//
// Custom rules
// ------------
//   • dsn_template – at most one `%s` verb and no other fmt verbs, so
//     Database.ConnString can never emit "%!s(MISSING)".
//
// Notes
// -----
//   • Oxford commas, two spaces after periods.

package config

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

//
// validator instance (package-level singleton)
//

var v = newValidator()

func newValidator() *validator.Validate {
	val := validator.New()
	_ = val.RegisterValidation("dsn_template", validDSNTemplate)
	return val
}

func validDSNTemplate(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if strings.Count(s, "%s") > 1 {
		return false
	}
	rest := strings.ReplaceAll(strings.ReplaceAll(s, "%%", ""), "%s", "")
	return !strings.Contains(rest, "%")
}

//
// public API
//

// validateStruct returns the first validation error, or nil on success.
func validateStruct(c *Config) error {
	return v.Struct(c)
}
