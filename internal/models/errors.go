package models

// ValidationError represents malformed caller input, surfaced before either
// pipeline stage is invoked
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return "validation failed on field '" + e.Field + "': " + e.Message
}
