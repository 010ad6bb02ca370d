package trend

import (
	"fmt"
	"image/color"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
)

var (
	curveColor     = color.RGBA{R: 80, G: 220, B: 120, A: 255}
	thresholdColor = color.RGBA{R: 230, G: 70, B: 70, A: 255}
	labelColor     = color.RGBA{R: 200, G: 200, B: 200, A: 255}
	backColor      = color.RGBA{R: 20, G: 20, B: 20, A: 255}
)

const plotMargin float32 = 8

// trendRenderer renders the trend widget.
type trendRenderer struct {
	trend *Widget

	back      *canvas.Rectangle
	segments  []*canvas.Line
	threshold *canvas.Line
	minLabel  *canvas.Text
	maxLabel  *canvas.Text
	lastLabel *canvas.Text

	objects  []fyne.CanvasObject
	lastSize fyne.Size
}

func newTrendRenderer(t *Widget) *trendRenderer {
	r := &trendRenderer{
		trend:     t,
		back:      canvas.NewRectangle(backColor),
		threshold: canvas.NewLine(thresholdColor),
		minLabel:  canvas.NewText("", labelColor),
		maxLabel:  canvas.NewText("", labelColor),
		lastLabel: canvas.NewText("", curveColor),
	}
	r.threshold.StrokeWidth = 1
	r.minLabel.TextSize = 11
	r.maxLabel.TextSize = 11
	r.lastLabel.TextSize = 16
	r.objects = []fyne.CanvasObject{r.back, r.threshold, r.minLabel, r.maxLabel, r.lastLabel}
	return r
}

// MinSize returns the minimum size of the widget.
func (r *trendRenderer) MinSize() fyne.Size {
	return fyne.NewSize(400, 240)
}

// Layout arranges the widget components.
func (r *trendRenderer) Layout(size fyne.Size) {
	r.back.Resize(size)
	if r.lastSize != size {
		r.lastSize = size
		r.rebuild(size)
	}
}

// Refresh redraws the curve from the widget's current data.
func (r *trendRenderer) Refresh() {
	r.rebuild(r.lastSize)
	canvas.Refresh(r.trend)
}

// Objects returns the canvas objects to draw.
func (r *trendRenderer) Objects() []fyne.CanvasObject {
	return r.objects
}

// Destroy cleans up renderer resources.
func (r *trendRenderer) Destroy() {}

// rebuild recomputes all line segments and labels for the given size.
func (r *trendRenderer) rebuild(size fyne.Size) {
	readings, yMin, yMax, threshold, xMin, xMax := r.trend.snapshot()

	if size.Width <= 0 || size.Height <= 0 {
		return
	}

	plotW := size.Width - 2*plotMargin
	plotH := size.Height - 2*plotMargin
	ySpan := yMax - yMin
	if ySpan == 0 {
		ySpan = 1
	}
	xSpan := xMax.Sub(xMin)
	if xSpan <= 0 {
		xSpan = time.Second
	}

	toX := func(t time.Time) float32 {
		return plotMargin + float32(float64(t.Sub(xMin))/float64(xSpan))*plotW
	}
	toY := func(v float64) float32 {
		return size.Height - plotMargin - float32((v-yMin)/ySpan)*plotH
	}

	// Grow the segment pool as needed
	needed := 0
	if len(readings) > 1 {
		needed = len(readings) - 1
	}
	for len(r.segments) < needed {
		seg := canvas.NewLine(curveColor)
		seg.StrokeWidth = 2
		r.segments = append(r.segments, seg)
	}

	for i := 0; i < needed; i++ {
		seg := r.segments[i]
		seg.Position1 = fyne.NewPos(toX(readings[i].Timestamp), toY(readings[i].Temperature))
		seg.Position2 = fyne.NewPos(toX(readings[i+1].Timestamp), toY(readings[i+1].Temperature))
		seg.Hidden = false
	}
	for i := needed; i < len(r.segments); i++ {
		r.segments[i].Hidden = true
	}

	// Threshold line, only when inside the visible range
	if threshold >= yMin && threshold <= yMax && len(readings) > 0 {
		y := toY(threshold)
		r.threshold.Position1 = fyne.NewPos(plotMargin, y)
		r.threshold.Position2 = fyne.NewPos(size.Width-plotMargin, y)
		r.threshold.Hidden = false
	} else {
		r.threshold.Hidden = true
	}

	// Labels
	if len(readings) > 0 {
		r.maxLabel.Text = fmt.Sprintf("%.2f", yMax)
		r.maxLabel.Move(fyne.NewPos(plotMargin, plotMargin))
		r.minLabel.Text = fmt.Sprintf("%.2f", yMin)
		r.minLabel.Move(fyne.NewPos(plotMargin, size.Height-plotMargin-14))
		r.lastLabel.Text = fmt.Sprintf("%.2f°C", readings[len(readings)-1].Temperature)
		r.lastLabel.Move(fyne.NewPos(size.Width-90, plotMargin))
		r.minLabel.Hidden = false
		r.maxLabel.Hidden = false
		r.lastLabel.Hidden = false
	} else {
		r.minLabel.Hidden = true
		r.maxLabel.Hidden = true
		r.lastLabel.Hidden = true
	}
	r.minLabel.Refresh()
	r.maxLabel.Refresh()
	r.lastLabel.Refresh()

	// Rebuild the object list: background first, curve on top
	r.objects = r.objects[:0]
	r.objects = append(r.objects, r.back, r.threshold)
	for _, seg := range r.segments {
		r.objects = append(r.objects, seg)
	}
	r.objects = append(r.objects, r.minLabel, r.maxLabel, r.lastLabel)
}
