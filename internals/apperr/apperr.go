// internals/apperr/apperr.go
package apperr

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// Kind mengelompokkan error domain supaya mapping HTTP-nya satu pintu.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindDuplicate
	KindLocked
	KindAlreadyLocked
	KindForbidden
)

type Error struct {
	Kind Kind
	Msg  string
	Err  error // penyebab asli, hanya untuk log
}

func (e *Error) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "internal error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

// Wrap membungkus error penyebab dengan Kind dan konteks singkat.
// Untuk KindInternal pesan ke klien tetap generik; penyebab asli hanya untuk log.
func Wrap(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

func Validation(msg string) *Error    { return New(KindValidation, msg) }
func NotFound(msg string) *Error      { return New(KindNotFound, msg) }
func Duplicate(msg string) *Error     { return New(KindDuplicate, msg) }
func Locked(msg string) *Error        { return New(KindLocked, msg) }
func AlreadyLocked(msg string) *Error { return New(KindAlreadyLocked, msg) }
func Forbidden(msg string) *Error     { return New(KindForbidden, msg) }

// KindOf mengembalikan Kind dari error apa pun (default KindInternal).
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindInternal
}

// HTTPStatus memetakan Kind ke status code.
func HTTPStatus(kind Kind) int {
	switch kind {
	case KindValidation:
		return fiber.StatusBadRequest
	case KindNotFound:
		return fiber.StatusNotFound
	case KindDuplicate, KindAlreadyLocked:
		return fiber.StatusConflict
	case KindLocked:
		return fiber.StatusLocked
	case KindForbidden:
		return fiber.StatusForbidden
	default:
		return fiber.StatusInternalServerError
	}
}
