package probe

const (
	// DefaultBaudRate is the serial rate both ends of the link assume.
	DefaultBaudRate = 115200
	// DefaultADCMax is the largest sample a 10-bit converter can produce.
	DefaultADCMax = 1023
)

// Precision selects the intermediate float width of the conversion.
type Precision int

const (
	// Float64 computes the temperature in double precision.
	Float64 Precision = iota
	// Float32 computes the temperature in single precision.
	Float32
)

// Config holds every tunable of the reporter. All values are
// sensor-calibration or presentation settings, nothing is persisted.
type Config struct {
	// Trigger is the command byte that causes a reading. Any other byte
	// is consumed and discarded.
	Trigger byte

	// Scale, Divisor and Offset define the linear conversion from a raw
	// sample to degrees Celsius: sample*Scale/Divisor - Offset.
	Scale   float64
	Divisor float64
	Offset  float64

	// ADCMax is the largest valid sample. Larger values are clamped.
	ADCMax uint16

	// AlertEnabled turns on the over-temperature warning line.
	// AlertThreshold is exclusive: the warning fires only above it.
	AlertEnabled   bool
	AlertThreshold float64

	// Banner enables the startup text emitted by Init.
	Banner bool

	// Decimals and Unit control presentation of the emitted value.
	Decimals int
	Unit     string

	// Precision selects float32 or float64 intermediate math.
	Precision Precision
}

// Default returns the stock calibration for the reference sensor board.
func Default() Config {
	return Config{
		Trigger:        'R',
		Scale:          340,
		Divisor:        614.4,
		Offset:         70,
		ADCMax:         DefaultADCMax,
		AlertEnabled:   false,
		AlertThreshold: 100.0,
		Banner:         true,
		Decimals:       2,
		Unit:           "",
		Precision:      Float64,
	}
}
