package feeds

// firstNonEmpty returns the first non-empty value in order of precedence,
// typically document value, base record value, default.
func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// firstBool returns the first value that is set, or false.
func firstBool(values ...*bool) bool {
	for _, v := range values {
		if v != nil {
			return *v
		}
	}
	return false
}
