package token

const (
	minShapeLength = 8
	maxShapeLength = 10
)

// IsValidShape reports whether s is lexically plausible as a guest token:
// 8 to 10 alphanumeric characters. It deliberately accepts slightly more than
// GenerateGuestToken produces so legacy token batches keep working; it exists
// to reject junk before a database round-trip, not to prove validity.
func IsValidShape(s string) bool {
	if len(s) < minShapeLength || len(s) > maxShapeLength {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9':
		case c >= 'A' && c <= 'Z':
		case c >= 'a' && c <= 'z':
		default:
			return false
		}
	}
	return true
}
