package githubapi

import (
	"encoding/json"
	"fmt"
)

// TransportError is returned when the GraphQL endpoint responds with a
// non-success HTTP status. The response body is kept for diagnostics.
type TransportError struct {
	StatusCode int
	Body       string
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("github api: unexpected status %d: %s", e.StatusCode, e.Body)
}

// APIError is returned when the response carries a GraphQL errors array.
type APIError struct {
	Errors json.RawMessage
}

func (e *APIError) Error() string {
	return fmt.Sprintf("github api: query failed: %s", string(e.Errors))
}

// NotFoundError is returned when the queried login does not exist.
type NotFoundError struct {
	Login string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("github user %q not found", e.Login)
}
