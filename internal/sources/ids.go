package sources

import (
	"strings"

	"github.com/google/uuid"
)

// idNamespace scopes synthesized record ids so they never collide with
// upstream-provided identifiers.
var idNamespace = uuid.MustParse("8f2d9c40-1b5e-4a87-9f63-2e7a50c1d4b2")

// SynthesizeID builds a stable identifier from discriminating fields for
// upstream records that carry none. The same fields always hash to the same
// id, so repeated fetches of one record stay stable.
func SynthesizeID(parts ...string) string {
	return uuid.NewSHA1(idNamespace, []byte(strings.Join(parts, "|"))).String()
}
