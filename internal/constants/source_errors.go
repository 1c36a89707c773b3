package constants

// Source Error Codes
// These constants classify failures of external fare/route sources.

const (
	ErrCodeSourceUnavailable    = "SOURCE_UNAVAILABLE"
	ErrCodeResponseShapeChanged = "RESPONSE_SHAPE_CHANGED"
	ErrCodePartialData          = "PARTIAL_DATA"
	ErrCodeTimeoutExceeded      = "TIMEOUT_EXCEEDED"
	ErrCodeNotSupported         = "NOT_SUPPORTED"
)

// SourceErrorMessages maps error codes to human-readable messages for logs.
var SourceErrorMessages = map[string]string{
	ErrCodeSourceUnavailable:    "The external source could not be reached",
	ErrCodeResponseShapeChanged: "The source response no longer matches the expected structure",
	ErrCodePartialData:          "The source returned incomplete data",
	ErrCodeTimeoutExceeded:      "A bounded wait on the source was not satisfied in time",
	ErrCodeNotSupported:         "The source does not implement this capability",
}

// GetSourceErrorMessage returns the message for a code, or a generic fallback.
func GetSourceErrorMessage(code string) string {
	if msg, ok := SourceErrorMessages[code]; ok {
		return msg
	}
	return "Unknown source error"
}
