package device

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itohio/gotherm/pkg/config"
	"github.com/itohio/gotherm/pkg/probe"
)

func TestNewMock_NilConfig(t *testing.T) {
	dev := NewMock(nil, probe.Default())
	assert.NotNil(t, dev)
	assert.Equal(t, uint16(614), dev.cfg.Sample)
	assert.False(t, dev.IsConnected())
}

func TestMock_Connect_AlreadyConnected(t *testing.T) {
	dev := NewMock(nil, probe.Default())

	require.NoError(t, dev.Connect())
	err := dev.Connect()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "already connected")
}

func TestMock_ReadTemperature_NotConnected(t *testing.T) {
	dev := NewMock(nil, probe.Default())

	_, err := dev.ReadTemperature()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not connected")
}

func TestMock_ReadTemperature_Fixture(t *testing.T) {
	// Sample pinned to 614 must convert to ~269.78 through the full
	// trigger-dispatch path.
	dev := NewMock(&config.MockConfig{Sample: 614}, probe.Default())
	require.NoError(t, dev.Connect())

	temp, err := dev.ReadTemperature()
	require.NoError(t, err)
	assert.InDelta(t, 269.78, temp, 0.01)
}

func TestMock_ReadTemperature_Boundaries(t *testing.T) {
	tests := []struct {
		name   string
		sample uint16
		want   float64
	}{
		{"minimum", 1, 1*340/614.4 - 70},
		{"maximum", 1023, 1023*340/614.4 - 70},
		{"out of range clamps", 4095, 1023*340/614.4 - 70},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dev := NewMock(&config.MockConfig{Sample: tt.sample}, probe.Default())
			require.NoError(t, dev.Connect())

			temp, err := dev.ReadTemperature()
			require.NoError(t, err)
			assert.InDelta(t, tt.want, temp, 0.01)
		})
	}
}

func TestMock_ReadTemperature_AlternateTrigger(t *testing.T) {
	probeCfg := probe.Default()
	probeCfg.Trigger = 'T'

	dev := NewMock(&config.MockConfig{Sample: 614}, probeCfg)
	require.NoError(t, dev.Connect())

	temp, err := dev.ReadTemperature()
	require.NoError(t, err)
	assert.InDelta(t, 269.78, temp, 0.01)
}

func TestMock_Warning(t *testing.T) {
	probeCfg := probe.Default()
	probeCfg.AlertEnabled = true

	// 614 -> ~269.78 °C, above the 100.0 threshold.
	dev := NewMock(&config.MockConfig{Sample: 614}, probeCfg)
	require.NoError(t, dev.Connect())

	_, err := dev.ReadTemperature()
	require.NoError(t, err)
	assert.True(t, dev.Warning())

	// 250 -> ~68.35 °C, below the threshold.
	cool := NewMock(&config.MockConfig{Sample: 250}, probeCfg)
	require.NoError(t, cool.Connect())

	temp, err := cool.ReadTemperature()
	require.NoError(t, err)
	assert.InDelta(t, 68.35, temp, 0.01)
	assert.False(t, cool.Warning())
}

func TestMock_CloseAndReconnect(t *testing.T) {
	dev := NewMock(nil, probe.Default())

	require.NoError(t, dev.Connect())
	require.NoError(t, dev.Close())
	assert.False(t, dev.IsConnected())

	require.NoError(t, dev.Connect())
	temp, err := dev.ReadTemperature()
	require.NoError(t, err)
	assert.InDelta(t, 269.78, temp, 0.01)
}
