package zkdecoder

import "github.com/pkg/errors"

// Sentinel decode errors. Their wording matches what shows up in a
// DecodeError's Error() string, so a Sink logging the reason reads the
// same phrase every time a given failure recurs.
var (
	// ErrFrameTooSmall is returned when a declared length L is below the
	// direction's minimum body length (8 for requests, 16 for responses).
	ErrFrameTooSmall = errors.New("packet length too small")
	// ErrFrameTooBig is returned when L exceeds the configured
	// max_packet_bytes ceiling.
	ErrFrameTooBig = errors.New("packet length too big")
	// ErrUnknownOpcode is returned when a data request carries an opcode
	// outside the recognized set.
	ErrUnknownOpcode = errors.New("unsupported ZooKeeper opcode")
	// ErrUnknownMultiOpcode is returned when a Multi sub-operation header
	// names anything other than Create, SetData, or Check.
	ErrUnknownMultiOpcode = errors.New("unsupported ZooKeeper opcode inside multi request")
	// ErrXidNotFound is returned when a response's xid has no matching
	// entry in the inflight-request table.
	ErrXidNotFound = errors.New("unable to find matching xid for incoming response")
)

// DecodeError wraps a sentinel decode failure with the frame bytes that
// triggered it, for a Sink that wants to log or count the raw payload.
type DecodeError struct {
	cause error
}

func (e *DecodeError) Error() string { return e.cause.Error() }
func (e *DecodeError) Unwrap() error { return e.cause }

func wrapDecodeErr(cause error) *DecodeError {
	return &DecodeError{cause: cause}
}
