package trend

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestHistory_AddAndReadings(t *testing.T) {
	h := NewHistory(time.Minute)
	base := time.Now()

	h.Add(Reading{Timestamp: base, Temperature: 20})
	h.Add(Reading{Timestamp: base.Add(time.Second), Temperature: 21})
	h.Add(Reading{Timestamp: base.Add(2 * time.Second), Temperature: 22})

	readings := h.Readings()
	assert.Len(t, readings, 3)
	assert.Equal(t, 20.0, readings[0].Temperature)
	assert.Equal(t, 22.0, readings[2].Temperature)
}

func TestHistory_WindowTrimming(t *testing.T) {
	h := NewHistory(10 * time.Second)
	base := time.Now()

	h.Add(Reading{Timestamp: base, Temperature: 20})
	h.Add(Reading{Timestamp: base.Add(5 * time.Second), Temperature: 21})
	h.Add(Reading{Timestamp: base.Add(30 * time.Second), Temperature: 22})

	// Only the last reading is inside the 10s window ending at +30s.
	readings := h.Readings()
	assert.Len(t, readings, 1)
	assert.Equal(t, 22.0, readings[0].Temperature)
}

func TestHistory_Last(t *testing.T) {
	h := NewHistory(time.Minute)

	_, ok := h.Last()
	assert.False(t, ok)

	h.Add(Reading{Timestamp: time.Now(), Temperature: 36.5})
	last, ok := h.Last()
	assert.True(t, ok)
	assert.Equal(t, 36.5, last.Temperature)
}

func TestHistory_MinMax(t *testing.T) {
	h := NewHistory(time.Minute)

	_, _, ok := h.MinMax()
	assert.False(t, ok)

	base := time.Now()
	for i, temp := range []float64{21.5, 19.0, 42.0, 30.0} {
		h.Add(Reading{Timestamp: base.Add(time.Duration(i) * time.Second), Temperature: temp})
	}

	min, max, ok := h.MinMax()
	assert.True(t, ok)
	assert.Equal(t, 19.0, min)
	assert.Equal(t, 42.0, max)
}

func TestNewHistory_DefaultWindow(t *testing.T) {
	h := NewHistory(0)
	assert.Equal(t, 10*time.Minute, h.window)
}
