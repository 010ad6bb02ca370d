package probe

import (
	"fmt"
)

// AlertMessage is the fixed warning line emitted when a reading exceeds the
// alert threshold.
const AlertMessage = "WARNING: Overheating detected!"

// Reporter implements the command-driven reading loop: wait for the trigger
// byte, sample the sensor, convert, emit. It holds no state between Poll
// calls beyond its configuration and the HAL handle, so a single Reporter
// can be driven by any external loop.
type Reporter struct {
	cfg Config
	hal HAL
}

// New creates a Reporter over the given hardware capability.
func New(cfg Config, hal HAL) *Reporter {
	if cfg.ADCMax == 0 {
		cfg.ADCMax = DefaultADCMax
	}
	return &Reporter{cfg: cfg, hal: hal}
}

// Config returns the reporter's configuration.
func (r *Reporter) Config() Config {
	return r.cfg
}

// Init emits the startup banner. Called once after the serial channel is up.
func (r *Reporter) Init() error {
	if !r.cfg.Banner {
		return nil
	}
	banner := fmt.Sprintf("Temperature Monitor Started!\r\nSend '%c' to request temperature reading.\r\n", r.cfg.Trigger)
	if _, err := r.hal.Write([]byte(banner)); err != nil {
		return fmt.Errorf("failed to write banner: %w", err)
	}
	return nil
}

// Poll performs one iteration of the loop: a non-blocking check for a
// command byte. At most one byte is consumed per call. Bytes other than the
// trigger are discarded without touching the sensor.
func (r *Reporter) Poll() error {
	b, ok := r.hal.ReadByte()
	if !ok {
		return nil
	}
	if b != r.cfg.Trigger {
		return nil
	}
	return r.emitReading()
}

// emitReading samples the sensor once, converts and writes the value,
// then runs the alert check when enabled.
func (r *Reporter) emitReading() error {
	sample := r.hal.ReadAnalog()
	if sample > r.cfg.ADCMax {
		sample = r.cfg.ADCMax
	}

	line := formatReading(sample, r.cfg) + "\r\n"
	if _, err := r.hal.Write([]byte(line)); err != nil {
		return fmt.Errorf("failed to write reading: %w", err)
	}

	if r.cfg.AlertEnabled {
		return r.alert(Celsius(sample, r.cfg))
	}
	return nil
}

// alert writes the warning line when the temperature is strictly above the
// threshold. A reading exactly at the threshold does not fire.
func (r *Reporter) alert(temperature float64) error {
	if temperature <= r.cfg.AlertThreshold {
		return nil
	}
	if _, err := r.hal.Write([]byte(AlertMessage + "\r\n")); err != nil {
		return fmt.Errorf("failed to write alert: %w", err)
	}
	return nil
}
