package remote

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrUnreachable marks transport failures: the call never produced an HTTP
// response. Distinct from RejectionError, where upstream answered and said
// no.
var ErrUnreachable = errors.New("upstream api unreachable")

// GenericRejectionMessage is shown when upstream rejects a request without
// a usable error message of its own.
const GenericRejectionMessage = "Failed to save changes."

// RejectionError is a non-success reply from upstream. Message carries the
// server's own error text verbatim when it sent one.
type RejectionError struct {
	StatusCode int
	Message    string
}

func (e *RejectionError) Error() string {
	return fmt.Sprintf("upstream rejected request (%d): %s", e.StatusCode, e.Message)
}

// AsRejection unwraps a RejectionError from an error chain.
func AsRejection(err error) (*RejectionError, bool) {
	var rej *RejectionError
	if errors.As(err, &rej) {
		return rej, true
	}
	return nil, false
}

func rejectionFromResponse(status int, body []byte) error {
	var payload struct {
		Error string `json:"error"`
	}
	message := GenericRejectionMessage
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error != "" {
		message = payload.Error
	}
	return &RejectionError{StatusCode: status, Message: message}
}
