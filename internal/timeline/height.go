package timeline

import "math"

// DefaultPxPerMinute is the vertical scale of a rendered timeline.
const DefaultPxPerMinute = 2.0

// HeightPx maps the duration of span to a pixel height, rounded to the
// nearest pixel.
func HeightPx(span Interval, pxPerMinute float64) int {
	return int(math.Round(span.Duration().Minutes() * pxPerMinute))
}
