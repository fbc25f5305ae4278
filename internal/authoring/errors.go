package authoring

import "errors"

// Validation errors surfaced to the client before any network call is made.
var (
	// ErrEmptyTopic is returned when generation or commit is attempted
	// without a topic.
	ErrEmptyTopic = errors.New("topic cannot be empty")

	// ErrNoCards is returned when commit is attempted with an empty working
	// list.
	ErrNoCards = errors.New("cannot commit a deck without cards")

	// ErrCardIndexOutOfRange is returned when an edit or delete targets a
	// position outside the working list.
	ErrCardIndexOutOfRange = errors.New("card index out of range")

	// ErrUnknownCardField is returned when an edit names a field other than
	// question or answer.
	ErrUnknownCardField = errors.New("unknown card field")
)
