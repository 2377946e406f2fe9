package dto

// ErrorResponse is the error body the backend sends with 4xx answers.
// Errors holds per-field messages on 422.
type ErrorResponse struct {
	Message string              `json:"message"`
	Error   string              `json:"error"`
	Errors  map[string][]string `json:"errors"`
}

// Text picks the most specific message available.
func (e ErrorResponse) Text() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Error
}
