package transport

import "time"

type options struct {
	captureTimeout  time.Duration
	waitTimeout     time.Duration
	pollInterval    time.Duration
	messageDuration time.Duration
}

// Option configures a Terminal created by New.
type Option func(*options)

// WithCaptureTimeout bounds a single capture-pane invocation.
func WithCaptureTimeout(d time.Duration) Option {
	return func(o *options) {
		o.captureTimeout = d
	}
}

// WithWaitTimeout sets the default timeout for WaitChange.
func WithWaitTimeout(d time.Duration) Option {
	return func(o *options) {
		o.waitTimeout = d
	}
}

// WithPollInterval sets the polling interval for WaitChange.
func WithPollInterval(d time.Duration) Option {
	return func(o *options) {
		if d >= minPollInterval {
			o.pollInterval = d
		}
	}
}

// WithMessageDuration sets how long Notify messages stay visible.
func WithMessageDuration(d time.Duration) Option {
	return func(o *options) {
		o.messageDuration = d
	}
}

const (
	defaultCaptureTimeout  = 2 * time.Second
	defaultWaitTimeout     = 5 * time.Second
	defaultPollInterval    = 120 * time.Millisecond
	defaultMessageDuration = 2 * time.Second
	minPollInterval        = 10 * time.Millisecond
)

func defaultOptions() options {
	return options{
		captureTimeout:  defaultCaptureTimeout,
		waitTimeout:     defaultWaitTimeout,
		pollInterval:    defaultPollInterval,
		messageDuration: defaultMessageDuration,
	}
}
