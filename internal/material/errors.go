package material

import "fmt"

type Kind int

const (
	KindValidation Kind = iota + 1
	KindConflict
	KindNotFound
	KindStorage
	KindRepository
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindNotFound:
		return "not found"
	case KindStorage:
		return "storage"
	case KindRepository:
		return "repository"
	default:
		return "unknown"
	}
}

// Error carries the failure kind of a material operation together with a caller-facing message.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

// Sentinels for errors.Is; they match any Error of the same kind.
var (
	ErrValidation = &Error{Kind: KindValidation}
	ErrConflict   = &Error{Kind: KindConflict}
	ErrNotFound   = &Error{Kind: KindNotFound}
	ErrStorage    = &Error{Kind: KindStorage}
	ErrRepository = &Error{Kind: KindRepository}
)

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	msg := e.Message
	if msg == "" {
		msg = e.Kind.String() + " error"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Message == "" && t.Err == nil
}

func validationError(msg string) error {
	return &Error{Kind: KindValidation, Message: msg}
}

func notFoundError(id uint) error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf("material %d not found", id)}
}

func storageError(msg string, err error) error {
	return &Error{Kind: KindStorage, Message: msg, Err: err}
}

func repositoryError(msg string, err error) error {
	return &Error{Kind: KindRepository, Message: msg, Err: err}
}
