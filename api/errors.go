package api

import "fmt"

// Error is a non-2xx answer from the prediction service. Body is the raw
// response text; no error schema is assumed.
type Error struct {
	Operation string
	Status    int
	Body      string
}

func (e *Error) Error() string {
	return fmt.Sprintf("API error: %s", e.Body)
}
