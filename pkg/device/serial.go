package device

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.bug.st/serial"

	"github.com/itohio/gotherm/pkg/config"
	"github.com/itohio/gotherm/pkg/probe"
)

// Port represents a serial port.
type Port struct {
	Name        string
	Description string
}

// Serial talks to a probe over a serial port. Each reading is a single
// request/response exchange: the trigger byte goes out, one numeric line
// comes back.
type Serial struct {
	port        string
	baudRate    int
	trigger     byte
	wakeupDelay time.Duration
	readTimeout time.Duration
	retries     int
	retryDelay  time.Duration

	conn      serial.Port
	mu        sync.Mutex
	connected bool
}

// New creates a Serial probe from the host-side serial configuration.
// The trigger byte must match the one the probe firmware listens for.
func New(cfg config.SerialConfig, trigger byte) *Serial {
	if cfg.BaudRate == 0 {
		cfg.BaudRate = probe.DefaultBaudRate
	}
	if cfg.ReadTimeout == 0 {
		cfg.ReadTimeout = time.Second
	}
	if cfg.Retries == 0 {
		cfg.Retries = 1
	}
	if trigger == 0 {
		trigger = 'R'
	}

	return &Serial{
		port:        cfg.Port,
		baudRate:    cfg.BaudRate,
		trigger:     trigger,
		wakeupDelay: cfg.WakeupDelay,
		readTimeout: cfg.ReadTimeout,
		retries:     cfg.Retries,
		retryDelay:  cfg.RetryDelay,
	}
}

// Ports returns a list of available serial ports.
func Ports() ([]Port, error) {
	ports, err := serial.GetPortsList()
	if err != nil {
		return nil, fmt.Errorf("failed to list serial ports: %w", err)
	}

	result := make([]Port, 0, len(ports))
	for _, name := range ports {
		result = append(result, Port{
			Name:        name,
			Description: name,
		})
	}

	return result, nil
}

// Connect opens the serial port, waits for the board to settle, and
// discards any pending input (typically the startup banner).
func (d *Serial) Connect() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.connected {
		return fmt.Errorf("already connected")
	}

	mode := &serial.Mode{
		BaudRate: d.baudRate,
	}

	conn, err := serial.Open(d.port, mode)
	if err != nil {
		return fmt.Errorf("failed to open serial port %s: %w", d.port, err)
	}

	if d.wakeupDelay > 0 {
		time.Sleep(d.wakeupDelay)
	}
	if err := conn.ResetInputBuffer(); err != nil {
		conn.Close()
		return fmt.Errorf("failed to flush serial port %s: %w", d.port, err)
	}
	if err := conn.SetReadTimeout(d.readTimeout); err != nil {
		conn.Close()
		return fmt.Errorf("failed to set read timeout on %s: %w", d.port, err)
	}

	d.conn = conn
	d.connected = true

	return nil
}

// Close closes the connection.
func (d *Serial) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.connected {
		return nil
	}

	d.connected = false
	if d.conn != nil {
		err := d.conn.Close()
		d.conn = nil
		if err != nil {
			return fmt.Errorf("failed to close serial port %s: %w", d.port, err)
		}
	}

	return nil
}

// IsConnected returns whether the device is currently connected.
func (d *Serial) IsConnected() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.connected
}

// ReadTemperature requests one reading, retrying on garbled or missing
// responses.
func (d *Serial) ReadTemperature() (float64, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.connected {
		return 0, fmt.Errorf("not connected")
	}

	var lastErr error
	for attempt := 0; attempt < d.retries; attempt++ {
		if attempt > 0 && d.retryDelay > 0 {
			time.Sleep(d.retryDelay)
		}

		temp, err := d.requestReading()
		if err == nil {
			return temp, nil
		}
		lastErr = err
	}

	return 0, fmt.Errorf("reading failed after %d attempts: %w", d.retries, lastErr)
}

// requestReading performs one trigger/response exchange.
func (d *Serial) requestReading() (float64, error) {
	if _, err := d.conn.Write([]byte{d.trigger, '\n'}); err != nil {
		return 0, fmt.Errorf("failed to send trigger: %w", err)
	}

	line, err := d.readLine()
	if err != nil {
		return 0, err
	}

	return parseReading(line)
}

// readLine accumulates bytes until a non-blank line arrives or the read
// timeout elapses.
func (d *Serial) readLine() (string, error) {
	deadline := time.Now().Add(d.readTimeout)
	buf := make([]byte, 64)
	var line []byte

	for {
		if time.Now().After(deadline) {
			return "", fmt.Errorf("timed out waiting for response from %s", d.port)
		}

		n, err := d.conn.Read(buf)
		if err != nil {
			return "", fmt.Errorf("failed to read from serial port %s: %w", d.port, err)
		}

		for _, b := range buf[:n] {
			if b != '\n' {
				line = append(line, b)
				continue
			}
			s := strings.TrimSpace(string(line))
			if s != "" {
				return s, nil
			}
			line = line[:0]
		}
	}
}

// readingPattern extracts the first number from a response line. The probe
// prints a bare value, but garbage or a units suffix around it is tolerated.
var readingPattern = regexp.MustCompile(`[-+]?\d+(?:\.\d+)?`)

// parseReading extracts the temperature value from a response line.
func parseReading(line string) (float64, error) {
	m := readingPattern.FindString(line)
	if m == "" {
		return 0, fmt.Errorf("no temperature found in response %q", line)
	}

	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid temperature %q: %w", m, err)
	}

	return v, nil
}
