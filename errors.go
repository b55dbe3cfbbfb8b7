package sender

import (
	"fmt"
)

// ConnectionError reports that the TCP connection to the server could not be established.
type ConnectionError struct {
	Addr string
	Err  error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("failed to connect to %s: %v", e.Addr, e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// SendError reports an I/O failure on an established connection.
// Op is either "write" or "read".
type SendError struct {
	Op  string
	Err error
}

func (e *SendError) Error() string {
	return fmt.Sprintf("failed to %s frame: %v", e.Op, e.Err)
}

func (e *SendError) Unwrap() error {
	return e.Err
}

// FormatError reports a frame that cannot be encoded or a response that is
// not a well-formed frame.
type FormatError struct {
	Reason string
	Err    error
}

func (e *FormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed frame: %s: %v", e.Reason, e.Err)
	}
	return "malformed frame: " + e.Reason
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

// SendFailure reports a well-formed response that did not indicate success.
type SendFailure struct {
	Response Response
}

func (e *SendFailure) Error() string {
	return fmt.Sprintf("server rejected data: response=%q info=%q", e.Response.Response, e.Response.Info)
}
