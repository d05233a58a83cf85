package commands

import (
	"errors"
	"fmt"
	"strings"
)

// Name identifies a list command that hosts can bind keys to
type Name string

const (
	MoveNext     Name = "move-next"
	MovePrevious Name = "move-previous"
	MoveToFirst  Name = "move-to-first"
	MoveToLast   Name = "move-to-last"
	Confirm      Name = "confirm"
	Cancel       Name = "cancel"
)

// ErrUnknownCommand is returned when parsing a name that no list command uses
var ErrUnknownCommand = errors.New("unknown command")

// Names returns every list command in display order
func Names() []Name {
	return []Name{MoveNext, MovePrevious, MoveToFirst, MoveToLast, Confirm, Cancel}
}

// ParseName converts a configured command name into a Name.
// It accepts the legacy "core:" prefix used by older keymaps.
func ParseName(s string) (Name, error) {
	n := Name(strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), "core:"))
	switch n {
	case "move-up":
		n = MovePrevious
	case "move-down":
		n = MoveNext
	case "move-to-top":
		n = MoveToFirst
	case "move-to-bottom":
		n = MoveToLast
	case "confirm-selection":
		n = Confirm
	}
	for _, known := range Names() {
		if n == known {
			return n, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCommand, s)
}

// Handler runs a command against whatever bound it
type Handler func() error
