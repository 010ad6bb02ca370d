//go:generate tinygo flash -target=xiao

package main

import (
	"machine"
	"time"

	"github.com/itohio/gotherm/pkg/probe"
)

// board adapts the MCU's UART and ADC to the reporter's hardware interface.
type board struct {
	uart *machine.UART
	adc  machine.ADC
}

func (b *board) ReadByte() (byte, bool) {
	if b.uart.Buffered() == 0 {
		return 0, false
	}
	c, err := b.uart.ReadByte()
	if err != nil {
		return 0, false
	}
	return c, true
}

func (b *board) ReadAnalog() uint16 {
	// Get() normalizes the conversion to the full 16-bit range, so the
	// raw 10-bit sample the calibration expects has to be recovered.
	return probe.Downscale(b.adc.Get(), ADC_RESOLUTION)
}

func (b *board) Write(p []byte) (int, error) {
	return b.uart.Write(p)
}

func main() {
	uart := machine.UART0
	uart.Configure(machine.UARTConfig{
		BaudRate: UART_BAUD_RATE,
	})

	PIN_SENSOR.Configure(machine.PinConfig{Mode: machine.PinInput})
	adc := machine.ADC{Pin: PIN_SENSOR}
	adc.Configure(machine.ADCConfig{
		Reference:  ADC_REFERENCE_MV,
		Resolution: ADC_RESOLUTION,
	})

	// Let the serial link settle before the banner
	time.Sleep(time.Second)

	reporter := probe.New(probe.Config{
		Trigger:        TRIGGER_CHAR,
		Scale:          SENSOR_SCALE,
		Divisor:        SENSOR_DIVISOR,
		Offset:         SENSOR_OFFSET,
		ADCMax:         1<<ADC_RESOLUTION - 1,
		AlertEnabled:   ALERT_ENABLED,
		AlertThreshold: ALERT_THRESHOLD,
		Banner:         true,
		Decimals:       REPORT_DECIMALS,
		Precision:      probe.Float32,
	}, &board{uart: uart, adc: adc})

	// A UART write cannot fail here, and there is nowhere to report it
	// anyway.
	_ = reporter.Init()

	// Main loop
	for {
		_ = reporter.Poll()

		// Small delay to prevent a tight loop while staying responsive
		time.Sleep(POLL_INTERVAL_US * time.Microsecond)
	}
}
