package sink

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/mklimuk/lidarlog"
)

var white = color.New(color.FgHiWhite).SprintFunc()

// Console prints bare "<distance> cm" lines, as used by probe runs.
type Console struct {
	w io.Writer
}

func NewConsole(w io.Writer) *Console {
	return &Console{w: w}
}

func (c *Console) WriteHeader() error { return nil }

func (c *Console) Write(r lidarlog.Reading) error {
	_, err := fmt.Fprintf(c.w, "%s cm\n", white(r.Distance))
	if err != nil {
		return &lidarlog.SinkWriteError{Sink: "console", Err: err}
	}
	return nil
}

func (c *Console) Close() error { return nil }
