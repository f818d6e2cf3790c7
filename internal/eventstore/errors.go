package eventstore

import (
	stderrors "errors"

	"git.home.luguber.info/inful/pagesmith/internal/foundation/errors"
)

var (
	// ErrStoreOpen indicates the history database could not be opened or initialised.
	ErrStoreOpen = stderrors.New("could not open build history database")
	// ErrAppend indicates an event could not be appended.
	ErrAppend = stderrors.New("failed to append build event")
	// ErrQuery indicates events could not be read back.
	ErrQuery = stderrors.New("failed to query build events")
)

func historyError(sentinel, cause error, message string) error {
	return errors.HistoryError(message).
		WithCause(stderrors.Join(sentinel, cause)).
		Build()
}
