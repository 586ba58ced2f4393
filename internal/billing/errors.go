package billing

import "errors"

var (
	// ErrInvalidInput matches every *InputError.
	ErrInvalidInput = errors.New("billing: invalid calculation input")
	// ErrUnexpectedNegative matches every *UnexpectedNegativeError.
	ErrUnexpectedNegative = errors.New("billing: unexpected negative value")
)

// InputError reports that the caller supplied data violating a precondition.
type InputError struct {
	Message string
}

func (e *InputError) Error() string { return "invalid calculation input: " + e.Message }

func (e *InputError) Is(target error) bool { return target == ErrInvalidInput }

// UnexpectedNegativeError reports that an intermediate rate turned out
// negative. It signals malformed occupant data or a defect, never a bad request.
type UnexpectedNegativeError struct {
	Message string
}

func (e *UnexpectedNegativeError) Error() string {
	return "calculation expected a positive value: " + e.Message
}

func (e *UnexpectedNegativeError) Is(target error) bool { return target == ErrUnexpectedNegative }

func inputError(msg string) error { return &InputError{Message: msg} }

func negativeError(msg string) error { return &UnexpectedNegativeError{Message: msg} }
