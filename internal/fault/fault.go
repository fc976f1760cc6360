package fault

import (
	"errors"
	"fmt"
)

// Kind categorizes pipeline failures. The HTTP layer maps kinds to status
// codes; everything below it deals only in typed errors.
type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindNetwork
	KindSizeLimit
	KindConversion
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNetwork:
		return "network"
	case KindSizeLimit:
		return "size-limit"
	case KindConversion:
		return "conversion"
	default:
		return "unknown"
	}
}

type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func Validation(format string, args ...any) error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func Network(format string, args ...any) error {
	return &Error{Kind: KindNetwork, Message: fmt.Sprintf(format, args...)}
}

func SizeLimit(format string, args ...any) error {
	return &Error{Kind: KindSizeLimit, Message: fmt.Sprintf(format, args...)}
}

func Conversion(format string, args ...any) error {
	return &Error{Kind: KindConversion, Message: fmt.Sprintf(format, args...)}
}

// KindOf returns the kind carried by err, or KindUnknown for plain errors.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return KindUnknown
}
