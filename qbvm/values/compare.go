package values

import "strings"

// Compare orders two values of the same family.
// Strings compare by ordinal (byte) order, numbers by the sign of their difference.
// The second result is false when the kinds cannot be compared.
func Compare(a, b Value) (int, bool) {
	switch {
	case IsString(a) && IsString(b):
		return strings.Compare(a.(ValueString).Inner, b.(ValueString).Inner), true
	case IsNumeric(a) && IsNumeric(b):
		diff := a.(NumericValue).Number() - b.(NumericValue).Number()
		switch {
		case diff < 0:
			return -1, true
		case diff > 0:
			return 1, true
		default:
			return 0, true
		}
	default:
		return 0, false
	}
}
