package probe

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCelsius(t *testing.T) {
	cfg := Default()

	tests := []struct {
		name   string
		sample uint16
		want   float64
	}{
		{"minimum sample", 0, -70.0},
		{"maximum sample", 1023, 1023*340/614.4 - 70},
		{"fixture sample", 614, 269.78},
		{"mid scale", 512, 512*340/614.4 - 70},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Celsius(tt.sample, cfg), 0.01)
		})
	}
}

func TestDownscale(t *testing.T) {
	tests := []struct {
		name       string
		value      uint16
		resolution int
		want       uint16
	}{
		{"full scale 10-bit", 0xFFFF, 10, 1023},
		{"mid scale 10-bit", 0x8000, 10, 512},
		{"fixture 10-bit", 614 << 6, 10, 614},
		{"zero", 0, 10, 0},
		{"full scale 12-bit", 0xFFFF, 12, 4095},
		{"16-bit passthrough", 0xABCD, 16, 0xABCD},
		{"zero resolution passthrough", 0xABCD, 0, 0xABCD},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Downscale(tt.value, tt.resolution))
		})
	}
}

func TestDownscale_StaysInConverterDomain(t *testing.T) {
	cfg := Default()

	// A normalized 16-bit reading recovered at 10 bits must land inside
	// the converter domain, so the reporter never clamps a live sample to
	// full scale.
	for _, v := range []uint16{0, 1, 0x3FFF, 0x8000, 0xC000, 0xFFFE, 0xFFFF} {
		s := Downscale(v, 10)
		assert.LessOrEqual(t, s, cfg.ADCMax)
		assert.InDelta(t, float64(v)/64, float64(s), 1)
	}
}

func TestCelsius_FullRange(t *testing.T) {
	cfg := Default()

	// The conversion must follow the linear formula over the whole
	// converter domain.
	for s := uint16(0); s <= 1023; s++ {
		want := float64(s)*340/614.4 - 70
		assert.InDelta(t, want, Celsius(s, cfg), 1e-3)
	}
}

func TestCelsius32_MatchesFloat64(t *testing.T) {
	cfg := Default()

	// Single precision drifts from double precision by far less than the
	// sensor resolution.
	for s := uint16(0); s <= 1023; s += 7 {
		assert.InDelta(t, Celsius(s, cfg), float64(Celsius32(s, cfg)), 1e-3)
	}
}

func TestFormatReading(t *testing.T) {
	tests := []struct {
		name      string
		sample    uint16
		decimals  int
		unit      string
		precision Precision
		want      string
	}{
		{"fixture two decimals", 614, 2, "", Float64, "269.78"},
		{"fixture float32", 614, 2, "", Float32, "269.78"},
		{"zero sample", 0, 2, "", Float64, "-70.00"},
		{"unit suffix", 614, 2, " C", Float64, "269.78 C"},
		{"no decimals", 614, 0, "", Float64, "270"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.Decimals = tt.decimals
			cfg.Unit = tt.unit
			cfg.Precision = tt.precision
			assert.Equal(t, tt.want, formatReading(tt.sample, cfg))
		})
	}
}
