package trend

import (
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/widget"
)

// Widget is a custom Fyne widget that displays the recent temperature curve
// with the alert threshold overlaid.
type Widget struct {
	widget.BaseWidget

	// Data (protected by mu)
	mu        sync.RWMutex
	readings  []Reading
	threshold float64

	// Auto-scaling
	yMin, yMax float64
	xMin, xMax time.Time

	// Display settings
	maxDisplayPoints int
}

// NewWidget creates a trend widget. The threshold is drawn as a horizontal
// limit line when it falls inside the visible range.
func NewWidget(threshold float64) *Widget {
	w := &Widget{
		threshold:        threshold,
		readings:         make([]Reading, 0),
		maxDisplayPoints: 500,
	}
	w.ExtendBaseWidget(w)
	w.Refresh()
	return w
}

// SetThreshold updates the limit line.
func (w *Widget) SetThreshold(threshold float64) {
	w.mu.Lock()
	w.threshold = threshold
	w.mu.Unlock()
	w.Refresh()
}

// UpdateData replaces the displayed readings. Call from the main Fyne
// thread (use fyne.Do from goroutines).
func (w *Widget) UpdateData(readings []Reading) {
	w.mu.Lock()

	// Decimate for display
	if len(readings) > w.maxDisplayPoints {
		step := float64(len(readings)) / float64(w.maxDisplayPoints)
		decimated := make([]Reading, 0, w.maxDisplayPoints)
		for i := 0; i < w.maxDisplayPoints; i++ {
			decimated = append(decimated, readings[int(float64(i)*step)])
		}
		readings = decimated
	}
	w.readings = readings

	w.updateAutoScale()
	w.mu.Unlock()

	w.Refresh()
}

// updateAutoScale calculates the axis ranges from current data.
func (w *Widget) updateAutoScale() {
	if len(w.readings) == 0 {
		w.yMin = 0.0
		w.yMax = 1.0
		w.xMin = time.Now()
		w.xMax = time.Now().Add(time.Minute)
		return
	}

	w.yMin = w.readings[0].Temperature
	w.yMax = w.readings[0].Temperature
	for _, r := range w.readings {
		if r.Temperature < w.yMin {
			w.yMin = r.Temperature
		}
		if r.Temperature > w.yMax {
			w.yMax = r.Temperature
		}
	}

	// Add 10% margin
	span := w.yMax - w.yMin
	if span == 0 {
		span = 1.0
	}
	margin := span * 0.1
	w.yMin -= margin
	w.yMax += margin

	w.xMin = w.readings[0].Timestamp
	w.xMax = w.readings[len(w.readings)-1].Timestamp
	if !w.xMax.After(w.xMin) {
		w.xMax = w.xMin.Add(time.Second)
	}
}

// snapshot copies the display state for the renderer.
func (w *Widget) snapshot() (readings []Reading, yMin, yMax, threshold float64, xMin, xMax time.Time) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	readings = make([]Reading, len(w.readings))
	copy(readings, w.readings)
	return readings, w.yMin, w.yMax, w.threshold, w.xMin, w.xMax
}

// CreateRenderer creates the widget renderer.
func (w *Widget) CreateRenderer() fyne.WidgetRenderer {
	return newTrendRenderer(w)
}
