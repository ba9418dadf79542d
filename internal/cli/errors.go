package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrorChain returns the message of err and of each error it wraps, outermost
// first. A layer added with fmt.Errorf("context: %w", cause) contributes only
// "context"; layers that add nothing to their cause are left out. An error
// wrapping several causes, as fmt.Errorf("%w: %w", a, b) does, continues
// with the last one.
func ErrorChain(err error) []string {
	var chain []string
	for err != nil {
		next := unwrapLast(err)
		msg := err.Error()
		if next != nil {
			inner := next.Error()
			if msg == inner {
				err = next
				continue
			}
			msg = strings.TrimSuffix(msg, ": "+inner)
		}
		chain = append(chain, msg)
		err = next
	}
	return chain
}

func unwrapLast(err error) error {
	if multi, ok := err.(interface{ Unwrap() []error }); ok {
		if errs := multi.Unwrap(); len(errs) > 0 {
			return errs[len(errs)-1]
		}
		return nil
	}
	return errors.Unwrap(err)
}

// PrintError writes err to w as "Error: <msg>" followed by one
// "Caused by: <msg>" line per wrapped cause.
func PrintError(w io.Writer, err error) {
	for i, msg := range ErrorChain(err) {
		if i == 0 {
			fmt.Fprintf(w, "Error: %s\n", msg)
			continue
		}
		fmt.Fprintf(w, "Caused by: %s\n", msg)
	}
}
