package sink

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/mklimuk/lidarlog"
)

// CSV writes one comma separated row per reading. Every row is flushed so the
// file stays usable if the process is killed mid-session.
type CSV struct {
	w      *csv.Writer
	closer io.Closer
}

func NewCSV(w io.Writer) *CSV {
	s := &CSV{w: csv.NewWriter(w)}
	if c, ok := w.(io.Closer); ok {
		s.closer = c
	}
	return s
}

// CreateCSV truncates or creates the file at path.
func CreateCSV(path string) (*CSV, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("could not create data file: %w", err)
	}
	return NewCSV(f), nil
}

func (s *CSV) WriteHeader() error {
	return s.write(lidarlog.Header)
}

func (s *CSV) Write(r lidarlog.Reading) error {
	return s.write(r.Record())
}

func (s *CSV) write(record []string) error {
	if err := s.w.Write(record); err != nil {
		return &lidarlog.SinkWriteError{Sink: "csv", Err: err}
	}
	s.w.Flush()
	if err := s.w.Error(); err != nil {
		return &lidarlog.SinkWriteError{Sink: "csv", Err: err}
	}
	return nil
}

func (s *CSV) Close() error {
	s.w.Flush()
	err := s.w.Error()
	if s.closer != nil {
		if cerr := s.closer.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
