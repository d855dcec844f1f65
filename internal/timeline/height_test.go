package timeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHeightPx(t *testing.T) {
	assert.Equal(t, 60, HeightPx(span(t, "09:00", "09:30"), DefaultPxPerMinute))
	assert.Equal(t, 120, HeightPx(span(t, "09:00", "10:00"), DefaultPxPerMinute))
	assert.Equal(t, 8, HeightPx(span(t, "09:00", "09:05"), 1.5))
	assert.Equal(t, 0, HeightPx(span(t, "09:00", "09:00"), DefaultPxPerMinute))
}
