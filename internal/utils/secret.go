package utils

// MaskSecret keeps the first four characters of s, enough to tell tokens
// apart in a log line.
func MaskSecret(s string) string {
	switch {
	case s == "":
		return ""
	case len(s) <= 4:
		return "*****"
	}
	return s[:4] + "*****"
}
