package recorder

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/mklimuk/lidarlog"
	"github.com/mklimuk/lidarlog/ranging"
	"github.com/mklimuk/lidarlog/sink"
)

// Unbounded makes a session run until its context is cancelled.
const Unbounded time.Duration = -1

// DefaultProbeIterations is the length of a diagnostic probe run.
const DefaultProbeIterations = 200

type Session struct {
	Bus     int
	Address byte
	// Timeout bounds the session wall time; any negative value means Unbounded.
	Timeout time.Duration
}

// Summary counts the polls made by a loop. Taken always equals Attempted - Failed.
type Summary struct {
	Attempted int
	Taken     int
	Failed    int
	Elapsed   time.Duration
}

type Option func(*Recorder)

// WithClock replaces the wall clock used for timeouts and timestamps.
func WithClock(c clock.Clock) Option {
	return func(r *Recorder) {
		r.clock = c
	}
}

// WithDriverOptions passes options to every driver the recorder creates.
func WithDriverOptions(opts ...ranging.Option) Option {
	return func(r *Recorder) {
		r.driverOpts = append(r.driverOpts, opts...)
	}
}

// Recorder owns the bus for the duration of a session and polls the distance
// driver on a single goroutine.
type Recorder struct {
	open       lidarlog.Opener
	logger     *slog.Logger
	clock      clock.Clock
	driverOpts []ranging.Option
}

func New(open lidarlog.Opener, logger *slog.Logger, opts ...Option) *Recorder {
	r := &Recorder{
		open:   open,
		logger: logger,
		clock:  clock.New(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Stream runs a timed acquisition session writing every reading to out.
// Only a bus open failure is returned; transaction and sink failures are
// logged and the loop carries on.
func (r *Recorder) Stream(ctx context.Context, s Session, out sink.Sink) (Summary, error) {
	logger := r.logger.With("bus", s.Bus, "address", formatAddress(s.Address))
	var summary Summary
	err := r.withDriver(ctx, s, logger, func(driver ranging.Ranger) {
		logger.Info("session started", "timeout", formatTimeout(s.Timeout))
		summary = r.stream(ctx, driver, s.Timeout, out, logger)
		logger.Info("session finished", "attempted", summary.Attempted, "taken", summary.Taken,
			"failed", summary.Failed, "elapsed", summary.Elapsed.Round(time.Millisecond))
	})
	return summary, err
}

// Probe is the diagnostic mode: a fixed number of readings written to out
// without per-reading logging. The first driver error ends the probe.
func (r *Recorder) Probe(ctx context.Context, s Session, iterations int, out sink.Sink) (Summary, error) {
	logger := r.logger.With("bus", s.Bus, "address", formatAddress(s.Address))
	var summary Summary
	var probeErr error
	err := r.withDriver(ctx, s, logger, func(driver ranging.Ranger) {
		summary, probeErr = r.probe(ctx, driver, iterations, out)
	})
	if err != nil {
		return summary, err
	}
	return summary, probeErr
}

func (r *Recorder) withDriver(ctx context.Context, s Session, logger *slog.Logger, run func(ranging.Ranger)) error {
	bus, err := r.open(ctx, s.Bus)
	if err != nil {
		var openErr *lidarlog.BusOpenError
		if !errors.As(err, &openErr) {
			err = &lidarlog.BusOpenError{Bus: s.Bus, Err: err}
		}
		logger.Error("error connecting to the i2c device", "error", err)
		return err
	}
	defer func() {
		if err := bus.Close(); err != nil {
			logger.Error("error closing bus", "error", err)
		}
	}()
	opts := append([]ranging.Option{ranging.WithAddress(s.Address), ranging.WithLogger(logger)}, r.driverOpts...)
	run(ranging.NewLidarLite(bus, opts...))
	return nil
}

func (r *Recorder) stream(ctx context.Context, ranger ranging.Ranger, timeout time.Duration, out sink.Sink, logger *slog.Logger) Summary {
	start := r.clock.Now()
	var summary Summary
	if err := out.WriteHeader(); err != nil {
		logger.Error("could not write header to sink", "error", err)
	}
	for timeout < 0 || r.clock.Since(start) < timeout {
		if ctx.Err() != nil {
			logger.Info("session interrupted", "reason", context.Cause(ctx))
			break
		}
		summary.Attempted++
		err := r.takeReading(ctx, ranger, out, logger)
		if err != nil {
			if ctx.Err() != nil && errors.Is(err, ctx.Err()) {
				// the settle wait was cut short, this poll never completed
				summary.Attempted--
				continue
			}
			summary.Failed++
			logger.Error("could not read distance or write to sink", "error", err)
			continue
		}
		summary.Taken++
	}
	summary.Elapsed = r.clock.Since(start)
	return summary
}

func (r *Recorder) takeReading(ctx context.Context, ranger ranging.Ranger, out sink.Sink, logger *slog.Logger) error {
	cm, err := ranger.GetDistance(ctx)
	if err != nil {
		return err
	}
	reading := lidarlog.Reading{Time: r.clock.Now(), Distance: cm}
	if err := out.Write(reading); err != nil {
		return err
	}
	logger.Debug("reading taken", "cm", cm)
	return nil
}

func (r *Recorder) probe(ctx context.Context, ranger ranging.Ranger, iterations int, out sink.Sink) (Summary, error) {
	start := r.clock.Now()
	var summary Summary
	for i := 0; i < iterations; i++ {
		summary.Attempted++
		cm, err := ranger.GetDistance(ctx)
		if err != nil {
			summary.Failed++
			summary.Elapsed = r.clock.Since(start)
			return summary, err
		}
		if err := out.Write(lidarlog.Reading{Time: r.clock.Now(), Distance: cm}); err != nil {
			summary.Failed++
			summary.Elapsed = r.clock.Since(start)
			return summary, err
		}
		summary.Taken++
	}
	summary.Elapsed = r.clock.Since(start)
	return summary, nil
}
