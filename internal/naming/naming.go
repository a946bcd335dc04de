// Package naming converts condition identifiers between their JSON form and
// display form.
//
// Condition names crossing the JSON boundary are lower snake case
// ("player_level"). Domain code may construct nodes from Go-style identifiers
// ("PlayerLevel"); Key normalizes them so encode and decode agree.
package naming

import (
	"strings"

	"github.com/iancoleman/strcase"
)

// Key returns the lower snake case JSON key for a condition identifier.
// Key is idempotent: Key(Key(s)) == Key(s).
func Key(name string) string {
	return strcase.ToSnake(strings.TrimSpace(name))
}

// Display returns the PascalCase form of a JSON key, used when listing
// conditions for humans.
func Display(key string) string {
	return strcase.ToCamel(key)
}
