// ABOUTME: Query keys naming cacheable requests
// ABOUTME: Structural equality and prefix matching for invalidation

package query

import "strings"

// Key names a cacheable query as an ordered tuple of identifiers, e.g.
// {"bookings", "active"} or {"guests", "search", "01234567890"}.
// Equality is element-wise, not identity.
type Key []string

// K builds a key from its parts.
func K(parts ...string) Key {
	return Key(parts)
}

// partEscaper protects the separator inside a part, so keys that
// differ structurally never render to the same string. Parts may carry
// operator input such as phone numbers.
var partEscaper = strings.NewReplacer(`\`, `\\`, `/`, `\/`)

// String joins the key parts for use as a map and singleflight key.
func (k Key) String() string {
	parts := make([]string, len(k))
	for i, p := range k {
		parts[i] = partEscaper.Replace(p)
	}
	return strings.Join(parts, "/")
}

// Equal reports element-wise equality.
func (k Key) Equal(other Key) bool {
	if len(k) != len(other) {
		return false
	}
	for i := range k {
		if k[i] != other[i] {
			return false
		}
	}
	return true
}

// HasPrefix reports whether k starts with the given prefix.
func (k Key) HasPrefix(prefix Key) bool {
	if len(prefix) > len(k) {
		return false
	}
	for i := range prefix {
		if k[i] != prefix[i] {
			return false
		}
	}
	return true
}
