package sink

import (
	"github.com/hashicorp/go-multierror"

	"github.com/mklimuk/lidarlog"
)

// Sink receives readings in arrival order.
type Sink interface {
	// WriteHeader is called once before the first reading. Sinks that are not
	// record oriented treat it as a no-op.
	WriteHeader() error
	Write(r lidarlog.Reading) error
	Close() error
}

// Multi fans every call out to all sinks. A failing sink does not stop the others.
type Multi []Sink

func (m Multi) WriteHeader() error {
	var result *multierror.Error
	for _, s := range m {
		if err := s.WriteHeader(); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}

func (m Multi) Write(r lidarlog.Reading) error {
	var result *multierror.Error
	for _, s := range m {
		if err := s.Write(r); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}

func (m Multi) Close() error {
	var result *multierror.Error
	for _, s := range m {
		if err := s.Close(); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}
