package alternatives

import "context"

// Generator produces the alternatives payload for one text. The payload
// is opaque to the batch driver; it is attached to the record as-is.
// Implementations own their concurrency and timeout behaviour; from the
// caller's point of view each call is a single blocking unit of work.
type Generator interface {
	Generate(ctx context.Context, text string) (string, error)
}

// GeneratorFunc adapts a function to the Generator interface.
type GeneratorFunc func(ctx context.Context, text string) (string, error)

// Generate calls f.
func (f GeneratorFunc) Generate(ctx context.Context, text string) (string, error) {
	return f(ctx, text)
}
