// Package format renders durations, distances and line metadata for display.
package format

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	LangTR = "tr"
	LangEN = "en"
)

type units struct{ min, hour string }

var durationUnits = map[string]units{
	LangTR: {min: "dk", hour: "sa"},
	LangEN: {min: "min", hour: "h"},
}

// Duration rounds to whole minutes, switching to hours from 60 minutes on.
// Unknown languages use Turkish units.
func Duration(minutes float64, lang string) string {
	u, ok := durationUnits[lang]
	if !ok {
		u = durationUnits[LangTR]
	}

	total := int(math.Round(minutes))
	if total < 60 {
		return fmt.Sprintf("%d %s", total, u.min)
	}
	return fmt.Sprintf("%d %s %d %s", total/60, u.hour, total%60, u.min)
}

// Distance shows metres below one kilometre, kilometres with one decimal above.
func Distance(meters float64) string {
	if meters < 1000 {
		return fmt.Sprintf("%d m", int(math.Round(meters)))
	}
	return strconv.FormatFloat(meters/1000, 'f', 1, 64) + " km"
}

// Minutes renders an optional minute value with one decimal, "-" when absent.
func Minutes(v *float64) string {
	if v == nil {
		return "-"
	}
	return Decimal(*v)
}

func Decimal(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}

const defaultLineColor = "#6B7280"

var lineColors = map[string]string{
	"M1A":      "#E2231A",
	"M1B":      "#6ECEB2",
	"M2":       "#00A54F",
	"M3":       "#3ABBF5",
	"M4":       "#F59E0B",
	"M5":       "#9F2D96",
	"M6":       "#D39C1F",
	"M7":       "#FF6B9D",
	"M8":       "#EC008C",
	"M9":       "#9C4274",
	"M11":      "#9E1F63",
	"T1":       "#FF0000",
	"T3":       "#FFA500",
	"Metrobus": "#FF0000",
	"TRANSFER": "#9CA3AF",
}

// LineColor is the brand colour of an Istanbul rail or bus line.
func LineColor(line string) string {
	if c, ok := lineColors[strings.TrimSpace(line)]; ok {
		return c
	}
	return defaultLineColor
}

// RouteIcon returns the marker for an option kind ("car", "transit",
// "park-ride").
func RouteIcon(kind string) string {
	switch kind {
	case "car":
		return "🚗"
	case "transit":
		return "🚇"
	case "park-ride":
		return "🅿️"
	default:
		return "•"
	}
}
