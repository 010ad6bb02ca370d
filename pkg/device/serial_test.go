package device

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itohio/gotherm/pkg/config"
	"github.com/itohio/gotherm/pkg/probe"
)

func TestParseReading(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		want    float64
		wantErr bool
	}{
		{
			name: "bare value",
			line: "269.78",
			want: 269.78,
		},
		{
			name: "integer value",
			line: "42",
			want: 42,
		},
		{
			name: "negative value",
			line: "-70.00",
			want: -70,
		},
		{
			name: "value with unit suffix",
			line: "269.78 C",
			want: 269.78,
		},
		{
			name: "value with surrounding noise",
			line: "temp: 36.5 ok",
			want: 36.5,
		},
		{
			name:    "no number",
			line:    "Temperature Monitor Started!",
			wantErr: true,
		},
		{
			name:    "empty line",
			line:    "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseReading(tt.line)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.InDelta(t, tt.want, got, 1e-9)
			}
		})
	}
}

func TestNew(t *testing.T) {
	dev := New(config.SerialConfig{
		Port:        "COM3",
		BaudRate:    115200,
		ReadTimeout: 2 * time.Second,
		Retries:     5,
	}, 'T')

	assert.NotNil(t, dev)
	assert.Equal(t, "COM3", dev.port)
	assert.Equal(t, 115200, dev.baudRate)
	assert.Equal(t, byte('T'), dev.trigger)
	assert.Equal(t, 2*time.Second, dev.readTimeout)
	assert.Equal(t, 5, dev.retries)
	assert.False(t, dev.IsConnected())
}

func TestNew_Defaults(t *testing.T) {
	dev := New(config.SerialConfig{Port: "COM3"}, 0)

	assert.Equal(t, probe.DefaultBaudRate, dev.baudRate)
	assert.Equal(t, byte('R'), dev.trigger)
	assert.Equal(t, time.Second, dev.readTimeout)
	assert.Equal(t, 1, dev.retries)
}

func TestSerial_ReadTemperature_NotConnected(t *testing.T) {
	dev := New(config.SerialConfig{Port: "COM3"}, 'R')

	_, err := dev.ReadTemperature()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not connected")
}

func TestSerial_Close_NotConnected(t *testing.T) {
	dev := New(config.SerialConfig{Port: "COM3"}, 'R')
	assert.NoError(t, dev.Close())
}
