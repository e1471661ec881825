package command

import "errors"

// asKind reports whether err's chain contains an error assignable to *T,
// via errors.As. It lets ExitCode's switch read as one kind check per line
// instead of repeating a declare-then-errors.As pair seven times.
func asKind[T error](err error) bool {
	var target T
	return errors.As(err, &target)
}
