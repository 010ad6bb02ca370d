package device

import (
	"bytes"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/itohio/gotherm/pkg/config"
	"github.com/itohio/gotherm/pkg/probe"
)

// Mock simulates a probe for testing and development. It runs the real
// reporter over an in-memory loopback channel, so every reading exercises
// the same command dispatch and conversion path as the firmware.
type Mock struct {
	cfg      *config.MockConfig
	reporter *probe.Reporter
	hal      *loopbackHAL

	mu        sync.Mutex
	connected bool
	startTime time.Time
}

// NewMock creates a new mocked probe. The probe configuration controls the
// trigger byte, conversion and alerting exactly as it would on hardware.
func NewMock(cfg *config.MockConfig, probeCfg probe.Config) *Mock {
	if cfg == nil {
		cfg = &config.MockConfig{
			Sample:     614,
			NoiseLevel: 0,
		}
	}

	m := &Mock{cfg: cfg}
	m.hal = &loopbackHAL{sample: m.simulatedSample}
	m.reporter = probe.New(probeCfg, m.hal)
	return m
}

// Connect simulates connecting to the probe. The reporter emits its banner,
// which is discarded the way the serial device flushes it.
func (m *Mock) Connect() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.connected {
		return fmt.Errorf("already connected")
	}

	m.connected = true
	m.startTime = time.Now()

	if err := m.reporter.Init(); err != nil {
		m.connected = false
		return fmt.Errorf("failed to initialize mocked probe: %w", err)
	}
	m.hal.out.Reset()

	return nil
}

// Close stops the mocked probe.
func (m *Mock) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.connected = false
	return nil
}

// IsConnected returns whether the device is currently connected.
func (m *Mock) IsConnected() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.connected
}

// ReadTemperature pushes the trigger byte through the loopback channel,
// drives the reporter until the input drains, and parses the emitted line.
func (m *Mock) ReadTemperature() (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.connected {
		return 0, fmt.Errorf("not connected")
	}

	m.hal.out.Reset()
	m.hal.push([]byte{m.reporter.Config().Trigger, '\n'})

	for m.hal.pending() {
		if err := m.reporter.Poll(); err != nil {
			return 0, fmt.Errorf("mocked probe failed: %w", err)
		}
	}

	line, _, _ := strings.Cut(m.hal.out.String(), "\r\n")
	return parseReading(line)
}

// Warning reports whether the last reading emitted the over-temperature
// warning line.
func (m *Mock) Warning() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return strings.Contains(m.hal.out.String(), probe.AlertMessage)
}

// simulatedSample returns the pinned sample with optional sine noise,
// clamped to the converter domain.
func (m *Mock) simulatedSample() uint16 {
	value := float64(m.cfg.Sample)
	if m.cfg.NoiseLevel > 0 {
		elapsed := time.Since(m.startTime)
		value += math.Sin(float64(elapsed.Nanoseconds())*0.001) * m.cfg.NoiseLevel
	}

	max := float64(m.reporter.Config().ADCMax)
	if value < 0 {
		value = 0
	} else if value > max {
		value = max
	}
	return uint16(value)
}

// loopbackHAL is an in-memory command/response channel between the host
// side of the mock and the reporter.
type loopbackHAL struct {
	in     []byte
	out    bytes.Buffer
	sample func() uint16
}

func (h *loopbackHAL) ReadByte() (byte, bool) {
	if len(h.in) == 0 {
		return 0, false
	}
	b := h.in[0]
	h.in = h.in[1:]
	return b, true
}

func (h *loopbackHAL) ReadAnalog() uint16 {
	return h.sample()
}

func (h *loopbackHAL) Write(p []byte) (int, error) {
	return h.out.Write(p)
}

func (h *loopbackHAL) push(p []byte) {
	h.in = append(h.in, p...)
}

func (h *loopbackHAL) pending() bool {
	return len(h.in) > 0
}
