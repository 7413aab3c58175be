package remote

import "fmt"

// NetworkError means the request never completed.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string { return fmt.Sprintf("%s: request failed: %v", e.Op, e.Err) }
func (e *NetworkError) Unwrap() error { return e.Err }

// HTTPError is a completed request with a non-2xx status. Body holds the
// server's error text.
type HTTPError struct {
	Op     string
	Status int
	Body   string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%s: server returned status %d: %s", e.Op, e.Status, e.Body)
}

// ShapeError means the response body does not have the expected JSON shape.
type ShapeError struct {
	Op  string
	Err error
}

func (e *ShapeError) Error() string { return fmt.Sprintf("%s: unexpected response: %v", e.Op, e.Err) }
func (e *ShapeError) Unwrap() error { return e.Err }
