package cli

import (
	"errors"
	"fmt"
)

var errNotFound = errors.New("not found")

type notFoundError struct {
	kind string
	id   string
}

func (e notFoundError) Error() string { return fmt.Sprintf("%s not found: %s", e.kind, e.id) }

func (e notFoundError) Unwrap() error { return errNotFound }

func taskNotFound(id string) error {
	return notFoundError{kind: "task", id: id}
}
