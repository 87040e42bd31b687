package places

import (
	"errors"
	"fmt"
)

// ErrNotObject is returned when the response body is not a JSON object.
var ErrNotObject = errors.New("places API response is not a JSON object")

// HTTPError is returned when the API answers with a non-2xx status.
type HTTPError struct {
	Method     string
	URL        string
	StatusCode int
	Body       []byte
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("places API returned status %d for %s %s: %s", e.StatusCode, e.Method, e.URL, string(e.Body))
}

// IsHTTPStatus reports whether err is an HTTPError with the given status code.
func IsHTTPStatus(err error, statusCode int) bool {
	var httpErr *HTTPError
	return errors.As(err, &httpErr) && httpErr.StatusCode == statusCode
}
