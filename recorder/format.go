package recorder

import (
	"fmt"
	"time"
)

func formatAddress(address byte) string {
	return fmt.Sprintf("%#x", address)
}

func formatTimeout(timeout time.Duration) string {
	if timeout < 0 {
		return "forever"
	}
	return timeout.String()
}
