package trend

import (
	"sync"
	"time"
)

// Reading is a single timestamped temperature.
type Reading struct {
	Timestamp   time.Time
	Temperature float64
}

// History keeps a time-windowed FIFO of readings, oldest first. Removal is
// based on timestamp, not count.
type History struct {
	mu       sync.RWMutex
	window   time.Duration
	readings []Reading
}

// NewHistory creates a History covering the given time window.
func NewHistory(window time.Duration) *History {
	if window <= 0 {
		window = 10 * time.Minute
	}
	return &History{
		window:   window,
		readings: make([]Reading, 0),
	}
}

// Add appends a reading and drops everything that fell out of the window.
func (h *History) Add(r Reading) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.readings = append(h.readings, r)

	cutoff := r.Timestamp.Add(-h.window)
	cutoffIndex := 0
	for i, reading := range h.readings {
		if reading.Timestamp.After(cutoff) {
			cutoffIndex = i
			break
		}
	}
	if cutoffIndex > 0 {
		h.readings = h.readings[cutoffIndex:]
	}
}

// Readings returns a copy of the current window, oldest first.
func (h *History) Readings() []Reading {
	h.mu.RLock()
	defer h.mu.RUnlock()

	result := make([]Reading, len(h.readings))
	copy(result, h.readings)
	return result
}

// Last returns the most recent reading, or false when empty.
func (h *History) Last() (Reading, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if len(h.readings) == 0 {
		return Reading{}, false
	}
	return h.readings[len(h.readings)-1], true
}

// MinMax returns the temperature extremes of the current window.
func (h *History) MinMax() (min, max float64, ok bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if len(h.readings) == 0 {
		return 0, 0, false
	}

	min = h.readings[0].Temperature
	max = min
	for _, r := range h.readings {
		if r.Temperature < min {
			min = r.Temperature
		}
		if r.Temperature > max {
			max = r.Temperature
		}
	}
	return min, max, true
}

// Len returns the number of readings in the window.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.readings)
}
