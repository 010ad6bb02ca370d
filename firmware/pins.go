package main

import "machine"

const (
	// Serial configuration
	UART_BAUD_RATE = 115200

	// ADC configuration
	ADC_REFERENCE_MV = 3300 // Reference voltage in millivolts (3.3V)
	ADC_RESOLUTION   = 10   // ADC resolution in bits (10-bit = 0-1023)

	// Sensor pin
	PIN_SENSOR = machine.A5

	// Loop timing
	POLL_INTERVAL_US = 100 // Delay between command polls in microseconds

	// Reporting configuration
	TRIGGER_CHAR    = 'R'   // Command byte that requests a reading
	SENSOR_SCALE    = 340   // Adjust to 450 if needed for the sensor batch
	SENSOR_DIVISOR  = 614.4 // ADC counts per scaled degree
	SENSOR_OFFSET   = 70    // Degrees Celsius at sample 0 (negated)
	ALERT_ENABLED   = true
	ALERT_THRESHOLD = 100.0 // Degrees Celsius, exclusive
	REPORT_DECIMALS = 2
)
