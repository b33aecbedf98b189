// Package identity validates national identifiers.
package identity

// NationalIDLength is the digit count of a national identifier.
const NationalIDLength = 10

// Valid reports whether s is a non-empty digit string with a correct Luhn
// checksum.
func Valid(s string) bool {
	if s == "" {
		return false
	}

	sum := 0
	double := false
	for i := len(s) - 1; i >= 0; i-- {
		c := s[i]
		if c < '0' || c > '9' {
			return false
		}
		d := int(c - '0')
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return sum%10 == 0
}

// IsNationalID reports whether s has the national identifier length and a
// valid checksum.
func IsNationalID(s string) bool {
	return len(s) == NationalIDLength && Valid(s)
}
