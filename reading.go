package lidarlog

import (
	"strconv"
	"time"
)

const (
	DateLayout = time.DateOnly
	TimeLayout = "15:04:05.000000"
)

// Header labels the columns of a record oriented sink.
var Header = []string{"date", "time", "distance"}

// Reading is a single distance sample in centimeters.
type Reading struct {
	Time     time.Time
	Distance uint16
}

func (r Reading) Date() string {
	return r.Time.Format(DateLayout)
}

// TimeOfDay renders the time with microsecond precision.
func (r Reading) TimeOfDay() string {
	return r.Time.Format(TimeLayout)
}

// Record returns the reading in Header column order.
func (r Reading) Record() []string {
	return []string{r.Date(), r.TimeOfDay(), strconv.FormatUint(uint64(r.Distance), 10)}
}
