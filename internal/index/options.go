// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package index

import "go.uber.org/zap"

type options struct {
	log *zap.Logger
}

// Option configures New.
type Option func(*options)

// WithLogger sets the sink logger.
func WithLogger(log *zap.Logger) Option {
	return func(o *options) { o.log = log }
}

func newOptions(opts []Option) options {
	o := options{log: zap.NewNop()}
	for _, fn := range opts {
		fn(&o)
	}
	if o.log == nil {
		o.log = zap.NewNop()
	}
	return o
}
