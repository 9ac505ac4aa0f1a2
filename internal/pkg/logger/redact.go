package logger

// RedactSecret masks a secret value for safe logging, keeping just enough of
// the tail to correlate against stored records.
// "hunter2secret" → "***cret"
// Values of 4 chars or less are fully masked: "abc" → "***"
func RedactSecret(val string) string {
	if val == "" {
		return ""
	}
	if len(val) <= 4 {
		return "***"
	}
	return "***" + val[len(val)-4:]
}
