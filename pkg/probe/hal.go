package probe

// HAL is the hardware capability the reporter runs against. The firmware
// provides a UART/ADC-backed implementation, the host-side mock provides an
// in-memory one.
type HAL interface {
	// ReadByte performs a non-blocking read of the command channel.
	// Returns false when no byte is pending.
	ReadByte() (byte, bool)

	// ReadAnalog performs a single-shot conversion on the sensor channel.
	ReadAnalog() uint16

	// Write emits bytes on the output channel.
	Write(p []byte) (int, error)
}
