package timeline

import (
	"fmt"
	"math"
	"unicode/utf16"
)

// googlePalette maps Google Calendar event color ids to their hex values.
var googlePalette = map[string]string{
	"1":  "#7986CB", // lavender
	"2":  "#33B679", // sage
	"3":  "#8E24AA", // grape
	"4":  "#E67C73", // flamingo
	"5":  "#F6BF26", // banana
	"6":  "#F4511E", // tangerine
	"7":  "#039BE5", // peacock
	"8":  "#616161", // graphite
	"9":  "#3F51B5", // blueberry
	"10": "#0B8043", // basil
	"11": "#D50000", // tomato
}

const (
	hashSaturation = 65
	hashLightness  = 45
)

// ResolveColor returns the display color of an event. A known provider
// color id wins; otherwise the color is derived from a hash of the title,
// so the same title always gets the same color. Both arguments may be
// empty.
func ResolveColor(colorID, title string) string {
	if c, ok := googlePalette[colorID]; ok {
		return c
	}
	hue := titleHash(title) % 360
	return hslToHex(float64(hue), hashSaturation, hashLightness)
}

// titleHash is djb2 over UTF-16 code units, wrapped to 32 bits.
func titleHash(s string) int64 {
	var h int32 = 5381
	for _, c := range utf16.Encode([]rune(s)) {
		h = h<<5 + h + int32(c)
	}
	v := int64(h)
	if v < 0 {
		v = -v
	}
	return v
}

func hslToHex(hue, saturation, lightness float64) string {
	h := hue / 360
	l := lightness / 100
	a := saturation / 100 * math.Min(l, 1-l)
	channel := func(n float64) int {
		k := math.Mod(n+h*12, 12)
		c := l - a*math.Max(math.Min(math.Min(k-3, 9-k), 1), -1)
		return int(math.Floor(255*c + 0.5))
	}
	return fmt.Sprintf("#%02x%02x%02x", channel(0), channel(8), channel(4))
}
