package translation

import "errors"

// Kind classifies translation failures.
type Kind int

const (
	// KindConfiguration means no usable credential is configured.
	KindConfiguration Kind = iota + 1
	// KindValidation means the input was rejected before any network call.
	KindValidation
	// KindProvider means the API call failed or returned an unusable answer.
	KindProvider
)

func (k Kind) String() string {
	switch k {
	case KindConfiguration:
		return "configuration"
	case KindValidation:
		return "validation"
	case KindProvider:
		return "provider"
	default:
		return "unknown"
	}
}

var (
	ErrNoCredential = errors.New("API key not configured")
	ErrEmptyText    = errors.New("text is empty")
	ErrTextTooLong  = errors.New("text too long")
	ErrEmptyReply   = errors.New("no translation returned")
)

// Error is returned by Translate. Message is meant for the user.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsKind reports whether err is a translation Error of kind k.
func IsKind(err error, k Kind) bool {
	var te *Error
	return errors.As(err, &te) && te.Kind == k
}
