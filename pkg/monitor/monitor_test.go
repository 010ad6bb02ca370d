package monitor

import (
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itohio/gotherm/pkg/config"
	"github.com/itohio/gotherm/pkg/device"
)

// stubProbe returns scripted temperatures, one per ReadTemperature call.
type stubProbe struct {
	temps     []float64
	errs      []error
	reads     int
	connected bool
}

func (s *stubProbe) Connect() error { s.connected = true; return nil }
func (s *stubProbe) Close() error   { s.connected = false; return nil }
func (s *stubProbe) IsConnected() bool {
	return s.connected
}

func (s *stubProbe) ReadTemperature() (float64, error) {
	i := s.reads
	s.reads++
	if i < len(s.errs) && s.errs[i] != nil {
		return 0, s.errs[i]
	}
	if i >= len(s.temps) {
		i = len(s.temps) - 1
	}
	return s.temps[i], nil
}

func quietLog() *logrus.Logger {
	log := logrus.New()
	log.Out = io.Discard
	return log
}

func newTestMonitor(t *testing.T, cfg config.MonitorConfig, probes map[string]*stubProbe) (*Monitor, *int) {
	t.Helper()

	actions := 0
	m, err := New(Config{
		Monitor: cfg,
		Log:     quietLog(),
		Dial: func(port string) (device.Device, error) {
			p, ok := probes[port]
			if !ok {
				return nil, fmt.Errorf("unknown port %s", port)
			}
			return p, nil
		},
		Action: func(context.Context) error {
			actions++
			return nil
		},
	})
	require.NoError(t, err)
	return m, &actions
}

func TestNew_RequiresDialer(t *testing.T) {
	_, err := New(Config{})
	assert.Error(t, err)
}

func TestMonitor_Sweep_AllCool(t *testing.T) {
	cfg := config.MonitorConfig{
		Devices:    []string{"a", "b"},
		MaxTemp:    100,
		Hysteresis: 1,
	}
	probes := map[string]*stubProbe{
		"a": {temps: []float64{42.0}},
		"b": {temps: []float64{36.5}},
	}
	m, actions := newTestMonitor(t, cfg, probes)

	m.Sweep(context.Background())

	assert.Zero(t, *actions)
	assert.Equal(t, 1, probes["a"].reads)
	assert.Equal(t, 1, probes["b"].reads)
	assert.False(t, probes["a"].connected, "device must be closed after the check")
}

func TestMonitor_Sweep_Hysteresis(t *testing.T) {
	cfg := config.MonitorConfig{
		Devices:    []string{"a"},
		MaxTemp:    100,
		Hysteresis: 2,
	}
	probes := map[string]*stubProbe{
		"a": {temps: []float64{150, 150, 150}},
	}
	m, actions := newTestMonitor(t, cfg, probes)

	// First hot sweep: one strike, no action yet.
	m.Sweep(context.Background())
	assert.Zero(t, *actions)

	// Second consecutive hot sweep reaches the hysteresis count.
	m.Sweep(context.Background())
	assert.Equal(t, 1, *actions)
}

func TestMonitor_Sweep_CoolReadingResetsStrikes(t *testing.T) {
	cfg := config.MonitorConfig{
		Devices:    []string{"a"},
		MaxTemp:    100,
		Hysteresis: 2,
	}
	probes := map[string]*stubProbe{
		"a": {temps: []float64{150, 42, 150, 150}},
	}
	m, actions := newTestMonitor(t, cfg, probes)

	m.Sweep(context.Background()) // hot, strike 1
	m.Sweep(context.Background()) // cool, reset
	m.Sweep(context.Background()) // hot, strike 1
	assert.Zero(t, *actions)

	m.Sweep(context.Background()) // hot, strike 2
	assert.Equal(t, 1, *actions)
}

func TestMonitor_Sweep_BoundaryIsExclusive(t *testing.T) {
	cfg := config.MonitorConfig{
		Devices:    []string{"a"},
		MaxTemp:    100,
		Hysteresis: 1,
	}
	probes := map[string]*stubProbe{
		"a": {temps: []float64{100.0, 100.01}},
	}
	m, actions := newTestMonitor(t, cfg, probes)

	// Exactly at the limit does not count as hot.
	m.Sweep(context.Background())
	assert.Zero(t, *actions)

	m.Sweep(context.Background())
	assert.Equal(t, 1, *actions)
}

func TestMonitor_Sweep_FailedReadingSkipped(t *testing.T) {
	cfg := config.MonitorConfig{
		Devices:    []string{"a", "b"},
		MaxTemp:    100,
		Hysteresis: 1,
	}
	probes := map[string]*stubProbe{
		"a": {errs: []error{fmt.Errorf("port busy")}, temps: []float64{42}},
		"b": {temps: []float64{150}},
	}
	m, actions := newTestMonitor(t, cfg, probes)

	// Device a fails but device b is hot; the sweep still completes and
	// fires the action.
	m.Sweep(context.Background())
	assert.Equal(t, 1, *actions)
}

func TestMonitor_ActionCooldown(t *testing.T) {
	cfg := config.MonitorConfig{
		Devices:        []string{"a"},
		MaxTemp:        100,
		Hysteresis:     1,
		ActionCooldown: time.Hour,
	}
	probes := map[string]*stubProbe{
		"a": {temps: []float64{150}},
	}
	m, actions := newTestMonitor(t, cfg, probes)

	m.Sweep(context.Background())
	m.Sweep(context.Background())
	m.Sweep(context.Background())

	assert.Equal(t, 1, *actions, "cooldown must suppress repeat actions")
}

func TestMonitor_Run_StopsOnCancel(t *testing.T) {
	cfg := config.MonitorConfig{
		Devices:    []string{"a"},
		MaxTemp:    100,
		Interval:   10 * time.Millisecond,
		Hysteresis: 1,
	}
	probes := map[string]*stubProbe{
		"a": {temps: []float64{42}},
	}
	m, _ := newTestMonitor(t, cfg, probes)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- m.Run(ctx)
	}()

	time.Sleep(35 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("monitor did not stop after cancellation")
	}

	assert.GreaterOrEqual(t, probes["a"].reads, 2, "should sweep on start and on ticks")
}
