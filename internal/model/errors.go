package model

import (
	"errors"
	"fmt"
)

// ErrIndex is returned when a list position is outside the list.
var ErrIndex = errors.New("index out of range")

func indexError(i, n int) error {
	return fmt.Errorf("%w: %d not in [0,%d)", ErrIndex, i, n)
}
