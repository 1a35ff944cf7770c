package format

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDuration(t *testing.T) {
	tests := []struct {
		minutes float64
		lang    string
		want    string
	}{
		{0, LangTR, "0 dk"},
		{12.4, LangTR, "12 dk"},
		{59.4, LangTR, "59 dk"},
		{59.6, LangEN, "1 h 0 min"},
		{60, LangTR, "1 sa 0 dk"},
		{119.6, LangTR, "2 sa 0 dk"},
		{95.6, LangTR, "1 sa 36 dk"},
		{125, LangEN, "2 h 5 min"},
		{42, LangEN, "42 min"},
		{42, "de", "42 dk"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Duration(tt.minutes, tt.lang), "%v %s", tt.minutes, tt.lang)
	}
}

func TestDistance(t *testing.T) {
	assert.Equal(t, "0 m", Distance(0))
	assert.Equal(t, "350 m", Distance(349.6))
	assert.Equal(t, "1.0 km", Distance(1000))
	assert.Equal(t, "8.8 km", Distance(8765))
}

func TestMinutes(t *testing.T) {
	v := 7.26
	assert.Equal(t, "-", Minutes(nil))
	assert.Equal(t, "7.3", Minutes(&v))
	assert.Equal(t, "3.0", Decimal(3))
}

func TestLineColor(t *testing.T) {
	assert.Equal(t, "#00A54F", LineColor("M2"))
	assert.Equal(t, "#9CA3AF", LineColor("TRANSFER"))
	assert.Equal(t, "#FF0000", LineColor(" Metrobus "))
	assert.Equal(t, "#6B7280", LineColor("500T"))
}

func TestRouteIcon(t *testing.T) {
	assert.Equal(t, "🚗", RouteIcon("car"))
	assert.Equal(t, "🚇", RouteIcon("transit"))
	assert.Equal(t, "🅿️", RouteIcon("park-ride"))
	assert.Equal(t, "•", RouteIcon("boat"))
}
