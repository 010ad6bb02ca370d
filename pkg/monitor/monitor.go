package monitor

import (
	"context"
	"fmt"
	"os/exec"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/itohio/gotherm/pkg/config"
	"github.com/itohio/gotherm/pkg/device"
)

// Dialer creates a probe for a serial port. Injected so the monitor can be
// tested against mocked probes.
type Dialer func(port string) (device.Device, error)

// Config configures a Monitor.
type Config struct {
	Monitor config.MonitorConfig
	Log     *logrus.Logger
	Dial    Dialer

	// Action runs when a device stays over temperature. Defaults to
	// executing Monitor.AlertCommand.
	Action func(ctx context.Context) error
}

// Monitor sweeps a set of probes on an interval and raises an emergency
// action when any of them stays above the temperature limit. Devices are
// checked sequentially; a failed reading is skipped until the next sweep.
type Monitor struct {
	cfg    config.MonitorConfig
	log    *logrus.Logger
	dial   Dialer
	action func(ctx context.Context) error

	overTemp   map[string]int
	lastAction time.Time
}

// New creates a Monitor.
func New(cfg Config) (*Monitor, error) {
	if cfg.Dial == nil {
		return nil, fmt.Errorf("monitor requires a device dialer")
	}
	if cfg.Log == nil {
		cfg.Log = logrus.StandardLogger()
	}
	if cfg.Monitor.Hysteresis <= 0 {
		cfg.Monitor.Hysteresis = 1
	}

	m := &Monitor{
		cfg:      cfg.Monitor,
		log:      cfg.Log,
		dial:     cfg.Dial,
		action:   cfg.Action,
		overTemp: make(map[string]int),
	}
	if m.action == nil {
		m.action = m.runAlertCommand
	}
	return m, nil
}

// Run sweeps all devices immediately and then on every interval tick until
// the context is cancelled.
func (m *Monitor) Run(ctx context.Context) error {
	m.log.Infof("monitoring %d device(s), limit %.1f°C, every %s",
		len(m.cfg.Devices), m.cfg.MaxTemp, m.cfg.Interval)

	m.Sweep(ctx)

	ticker := time.NewTicker(m.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			m.log.Info("monitor stopped")
			return nil
		case <-ticker.C:
			m.Sweep(ctx)
		}
	}
}

// Sweep checks every device once. When a device has been over the limit for
// the configured number of consecutive sweeps, the emergency action fires.
func (m *Monitor) Sweep(ctx context.Context) {
	emergency := false

	for _, port := range m.cfg.Devices {
		temp, err := m.check(port)
		if err != nil {
			// Skip failed readings; the over-temperature count is
			// left as-is so a flaky link cannot mask a hot device.
			m.log.WithField("device", port).Warnf("reading failed: %v", err)
			continue
		}

		m.log.WithField("device", port).Infof("%.2f°C", temp)

		if temp > m.cfg.MaxTemp {
			m.overTemp[port]++
			m.log.WithField("device", port).Warnf("TOO HOT: %.2f°C (max %.2f°C, strike %d/%d)",
				temp, m.cfg.MaxTemp, m.overTemp[port], m.cfg.Hysteresis)
			if m.overTemp[port] >= m.cfg.Hysteresis {
				emergency = true
			}
		} else {
			m.overTemp[port] = 0
		}
	}

	if emergency {
		m.emergency(ctx)
	}
}

// check opens one device, takes a single reading, and closes it.
func (m *Monitor) check(port string) (float64, error) {
	dev, err := m.dial(port)
	if err != nil {
		return 0, fmt.Errorf("failed to dial %s: %w", port, err)
	}
	if err := dev.Connect(); err != nil {
		return 0, err
	}
	defer dev.Close()

	return dev.ReadTemperature()
}

// emergency runs the configured action, rate-limited by the cooldown so a
// persistently hot device does not re-fire it on every sweep.
func (m *Monitor) emergency(ctx context.Context) {
	if !m.lastAction.IsZero() && time.Since(m.lastAction) < m.cfg.ActionCooldown {
		m.log.Warn("emergency action suppressed by cooldown")
		return
	}
	m.lastAction = time.Now()

	m.log.Error("EMERGENCY: device over temperature limit, running alert action")
	if err := m.action(ctx); err != nil {
		m.log.Errorf("alert action failed: %v", err)
	}
}

// runAlertCommand executes the configured emergency command.
func (m *Monitor) runAlertCommand(ctx context.Context) error {
	if len(m.cfg.AlertCommand) == 0 {
		m.log.Warn("no alert command configured")
		return nil
	}

	cmd := exec.CommandContext(ctx, m.cfg.AlertCommand[0], m.cfg.AlertCommand[1:]...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("alert command failed: %w (output: %s)", err, out)
	}
	return nil
}
