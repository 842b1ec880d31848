package jsonish

import "fmt"

const defaultMaxDepth = 1000

// options holds the configuration shared by decoding and encoding.
type options struct {
	strict   bool
	maxDepth int
}

// newOptions applies opts on top of the defaults.
func newOptions(opts []Option) (options, error) {
	o := options{maxDepth: defaultMaxDepth}
	for _, opt := range opts {
		if err := opt(&o); err != nil {
			return options{}, err
		}
	}
	return o, nil
}

// An Option configures Decode, Encode and their stream counterparts.
type Option func(*options) error

// Strict returns an Option that turns off the loose extensions: comments,
// trailing commas, single-quoted strings, leading-dot fractions and line
// continuations inside strings. The NaN and Infinity literals remain
// available in strict mode.
func Strict() Option {
	return func(o *options) error {
		o.strict = true
		return nil
	}
}

// MaxDepth returns an Option that sets the maximum nesting depth for both
// the decoder and the encoder. This helps prevent stack exhaustion on
// highly nested input. The default is 1000.
//
// The depth n must be a positive integer.
func MaxDepth(n int) Option {
	return func(o *options) error {
		if n <= 0 {
			return fmt.Errorf("jsonish: max depth must be a positive integer")
		}
		o.maxDepth = n
		return nil
	}
}
