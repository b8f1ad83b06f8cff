package badges

import "errors"

var (
	ErrNilDefinition      = errors.New("badges: nil definition")
	ErrDefinitionNotFound = errors.New("badges: definition not found")
	ErrEmptyWinner        = errors.New("badges: empty winner id")
)
