package lidarlog

import "fmt"

// BusOpenError reports that a bus handle could not be acquired.
type BusOpenError struct {
	Bus int
	Err error
}

func (e *BusOpenError) Error() string {
	return fmt.Sprintf("could not open i2c bus %d: %v", e.Bus, e.Err)
}

func (e *BusOpenError) Unwrap() error { return e.Err }

// TransactionError reports a failed trigger or read on an open bus.
type TransactionError struct {
	Op       string
	Address  byte
	Register byte
	Err      error
}

func (e *TransactionError) Error() string {
	return fmt.Sprintf("%s at %#x register %#x failed: %v", e.Op, e.Address, e.Register, e.Err)
}

func (e *TransactionError) Unwrap() error { return e.Err }

// SinkWriteError reports a reading or header that could not be stored.
type SinkWriteError struct {
	Sink string
	Err  error
}

func (e *SinkWriteError) Error() string {
	return fmt.Sprintf("could not write to %s sink: %v", e.Sink, e.Err)
}

func (e *SinkWriteError) Unwrap() error { return e.Err }
