package greenthreads

import (
	"github.com/joeycumines/go-catrate"
	"github.com/joeycumines/logiface"
)

// schedulerOptions holds configuration resolved from Option values at
// New: functional options applied to a private config struct.
type schedulerOptions struct {
	stackSize      int
	readyCapacity  int
	ioWaitCapacity int
	idlePollMs     int
	defaultTickets int
	clock          Clock
	logger         *logiface.Logger[*stumpyEvent]
	logRate        *catrate.Limiter
}

// Option configures a Scheduler created by New.
type Option interface {
	applyScheduler(*schedulerOptions) error
}

type optionImpl struct {
	fn func(*schedulerOptions) error
}

func (o *optionImpl) applyScheduler(opts *schedulerOptions) error {
	return o.fn(opts)
}

// WithStackSize overrides the per-fiber stack reservation (default
// DefaultStackSize). Only the guard-page accounting uses this value;
// fiber bodies run on goroutine-managed stacks (see context.go).
func WithStackSize(size int) Option {
	return &optionImpl{func(opts *schedulerOptions) error {
		opts.stackSize = size
		return nil
	}}
}

// WithReadyCapacity sets the initial capacity of the stride ready heap.
func WithReadyCapacity(capacity int) Option {
	return &optionImpl{func(opts *schedulerOptions) error {
		opts.readyCapacity = capacity
		return nil
	}}
}

// WithIOWaitCapacity sets the initial capacity of the I/O wait set.
func WithIOWaitCapacity(capacity int) Option {
	return &optionImpl{func(opts *schedulerOptions) error {
		opts.ioWaitCapacity = capacity
		return nil
	}}
}

// WithIdlePollTimeout bounds how long a scheduler step's poll call may
// block when no fiber is sleeping (milliseconds). A negative value
// blocks indefinitely until I/O readiness; this is the default. When
// fibers are sleeping, the poll instead blocks until the earliest
// sleeper wakes.
func WithIdlePollTimeout(ms int) Option {
	return &optionImpl{func(opts *schedulerOptions) error {
		opts.idlePollMs = ms
		return nil
	}}
}

// WithDefaultTickets sets the ticket count assigned to a fiber created
// without an explicit ticket count.
func WithDefaultTickets(tickets int) Option {
	return &optionImpl{func(opts *schedulerOptions) error {
		opts.defaultTickets = tickets
		return nil
	}}
}

// WithClock overrides the scheduler's time source, used by tests to
// inject a ManualClock instead of SystemClock.
func WithClock(c Clock) Option {
	return &optionImpl{func(opts *schedulerOptions) error {
		opts.clock = c
		return nil
	}}
}

// WithLogger attaches a structured logger (see logging.go) for the
// scheduler's sparse lifecycle logging. The default is a logger
// writing JSON via the stumpy backend to os.Stderr.
func WithLogger(l *logiface.Logger[*stumpyEvent]) Option {
	return &optionImpl{func(opts *schedulerOptions) error {
		opts.logger = l
		return nil
	}}
}

// WithLogRate overrides the sliding-window limiter applied to fiber
// lifecycle debug logging (default: 200 events/second for each of the
// create and exit categories, counted separately).
func WithLogRate(limiter *catrate.Limiter) Option {
	return &optionImpl{func(opts *schedulerOptions) error {
		opts.logRate = limiter
		return nil
	}}
}

func resolveOptions(opts []Option) (*schedulerOptions, error) {
	cfg := &schedulerOptions{
		stackSize:      DefaultStackSize,
		readyCapacity:  1024,
		ioWaitCapacity: 128,
		idlePollMs:     -1,
		defaultTickets: 100,
	}
	for _, o := range opts {
		if o == nil {
			continue
		}
		if err := o.applyScheduler(cfg); err != nil {
			return nil, err
		}
	}
	if cfg.clock == nil {
		cfg.clock = &SystemClock{}
	}
	if cfg.logger == nil {
		cfg.logger = defaultLogger()
	}
	if cfg.logRate == nil {
		cfg.logRate = newLifecycleLogRate()
	}
	return cfg, nil
}
