package ports

import "context"

// DecoyProvider produces the single generated answer mixed into the voting
// options. Implementations wrap domain.ErrGeneration for network, timeout
// and malformed-response conditions; the game service absorbs that failure
// with a fixed fallback rather than stalling the game.
type DecoyProvider interface {
	Generate(ctx context.Context, theme string) (string, error)
}
