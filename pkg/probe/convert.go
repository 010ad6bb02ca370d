package probe

import (
	"strconv"

	"github.com/chewxy/math32"
)

// Downscale recovers an n-bit conversion from an ADC reading normalized to
// the full 16-bit range. TinyGo's machine.ADC.Get reports readings that way
// regardless of the configured resolution, while the calibration constants
// are stated in raw converter counts.
func Downscale(value uint16, resolutionBits int) uint16 {
	if resolutionBits <= 0 || resolutionBits >= 16 {
		return value
	}
	return value >> (16 - resolutionBits)
}

// Celsius converts a raw sample to degrees Celsius in double precision.
func Celsius(sample uint16, cfg Config) float64 {
	return float64(sample)*cfg.Scale/cfg.Divisor - cfg.Offset
}

// Celsius32 converts a raw sample to degrees Celsius in single precision.
// Matches boards whose firmware does the math in 32-bit floats.
func Celsius32(sample uint16, cfg Config) float32 {
	return float32(sample)*float32(cfg.Scale)/float32(cfg.Divisor) - float32(cfg.Offset)
}

// formatReading renders a temperature the way the configured precision
// would have printed it.
func formatReading(sample uint16, cfg Config) string {
	if cfg.Precision == Float32 {
		t := Celsius32(sample, cfg)
		// Round at the requested decimal place in float32 space so the
		// printed digits match single-precision math.
		pow := math32.Pow(10, float32(cfg.Decimals))
		t = math32.Round(t*pow) / pow
		return strconv.FormatFloat(float64(t), 'f', cfg.Decimals, 32) + cfg.Unit
	}
	return strconv.FormatFloat(Celsius(sample, cfg), 'f', cfg.Decimals, 64) + cfg.Unit
}
