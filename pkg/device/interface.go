package device

// Device defines the interface for temperature probes (real or mocked).
type Device interface {
	Connect() error
	Close() error
	ReadTemperature() (float64, error)
	IsConnected() bool
}

// Ensure Serial implements Device.
var _ Device = (*Serial)(nil)

// Ensure Mock implements Device.
var _ Device = (*Mock)(nil)
