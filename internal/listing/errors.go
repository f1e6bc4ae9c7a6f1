package listing

import "errors"

// Common errors
var (
	ErrNotFound        = errors.New("work not found")
	ErrUnauthorized    = errors.New("not the owner of this work")
	ErrInvalidState    = errors.New("work is not active")
	ErrDeadlinePassed  = errors.New("deadline has passed")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrConflict        = errors.New("work changed concurrently, retry")
)

// ErrNotFoundOrUnauthorized is returned when a listing is missing or owned by
// someone else; the two cases are deliberately indistinguishable. It matches
// both ErrNotFound and ErrUnauthorized.
var ErrNotFoundOrUnauthorized error = notFoundOrUnauthorized{}

type notFoundOrUnauthorized struct{}

func (notFoundOrUnauthorized) Error() string {
	return "work not found or unauthorized"
}

func (notFoundOrUnauthorized) Is(target error) bool {
	return target == ErrNotFound || target == ErrUnauthorized
}
