package ranging

import "context"

// DistanceBehaviorFunc defines the function signature for ranging behavior.
// It returns the distance in centimeters or an error.
type DistanceBehaviorFunc func(ctx context.Context) (uint16, error)

// MockRanger is a mock implementation of a ranging sensor that uses a behavior function
// to produce results without requiring any hardware.
//
// Example usage:
//
//	// Scripted sequence
//	values := []uint16{100, 300}
//	sensor := NewMockRanger(func(ctx context.Context) (uint16, error) {
//		v := values[0]
//		values = values[1:]
//		return v, nil
//	})
type MockRanger struct {
	behavior DistanceBehaviorFunc
}

func NewMockRanger(behavior DistanceBehaviorFunc) *MockRanger {
	return &MockRanger{behavior: behavior}
}

// GetDistance returns the distance by calling the behavior function.
func (m *MockRanger) GetDistance(ctx context.Context) (uint16, error) {
	return m.behavior(ctx)
}
