package hierarchy

import "fmt"

type constError string

func (e constError) Error() string { return string(e) }

// ErrInvalidConfiguration is returned by New and the spec parsers when a
// hierarchy cannot be built from the given configuration.
const ErrInvalidConfiguration = constError("invalid configuration")

// ErrLevelOutOfRange is returned by Insert for a level outside [1, Levels()].
const ErrLevelOutOfRange = constError("level out of range")

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfiguration}, args...)...)
}
