package ufcstats

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var leadingNumber = regexp.MustCompile(`\d+`)

// safeInt parses an integer cell, treating the site's "--" placeholders and
// empty cells as zero.
func safeInt(text string) int {
	text = strings.TrimSpace(text)
	if text == "" || text == "--" || text == "---" {
		return 0
	}
	n, err := strconv.Atoi(text)
	if err != nil {
		return 0
	}
	return n
}

// parseOf splits an "X of Y" landed/attempted cell.
func parseOf(text string) (landed, attempted int) {
	parts := strings.SplitN(text, " of ", 2)
	if len(parts) != 2 {
		return 0, 0
	}
	return safeInt(parts[0]), safeInt(parts[1])
}

// parseClock converts an "M:SS" control-time or round-clock cell to seconds.
func parseClock(text string) int {
	parts := strings.SplitN(strings.TrimSpace(text), ":", 2)
	if len(parts) != 2 {
		return 0
	}
	m, errM := strconv.Atoi(parts[0])
	s, errS := strconv.Atoi(parts[1])
	if errM != nil || errS != nil {
		return 0
	}
	return m*60 + s
}

// heightToCm converts the site's feet-and-inches format (`5' 11"`) to
// centimeters, nil when the value is missing.
func heightToCm(text string) *float64 {
	text = strings.TrimSpace(text)
	if text == "" || text == "--" {
		return nil
	}
	parts := strings.SplitN(text, " ", 2)
	if len(parts) != 2 {
		return nil
	}
	feet := leadingNumber.FindString(parts[0])
	inches := leadingNumber.FindString(parts[1])
	if feet == "" || inches == "" {
		return nil
	}
	ft, _ := strconv.Atoi(feet)
	in, _ := strconv.Atoi(inches)
	cm := round2((float64(ft)*12 + float64(in)) * 2.54)
	return &cm
}

// weightToKg converts a pounds cell ("185 lbs.") to kilograms.
func weightToKg(text string) *float64 {
	text = strings.TrimSpace(text)
	if text == "" || text == "--" {
		return nil
	}
	lbs := leadingNumber.FindString(text)
	if lbs == "" {
		return nil
	}
	n, _ := strconv.Atoi(lbs)
	kg := round2(float64(n) * 0.453592)
	return &kg
}

// reachToCm converts an inches cell (`72"`) to centimeters.
func reachToCm(text string) *float64 {
	text = strings.TrimSpace(text)
	if text == "" || text == "--" {
		return nil
	}
	inches := strings.TrimSpace(strings.Split(text, `"`)[0])
	n, err := strconv.ParseFloat(inches, 64)
	if err != nil {
		return nil
	}
	cm := round2(n * 2.54)
	return &cm
}

// parseSiteDate parses the site's "Jan 15, 1990" / "January 15, 1990" dates.
func parseSiteDate(text string) *time.Time {
	text = strings.TrimSpace(text)
	if text == "" || text == "--" {
		return nil
	}
	for _, layout := range []string{"Jan 2, 2006", "January 2, 2006"} {
		if t, err := time.Parse(layout, text); err == nil {
			t = t.UTC()
			return &t
		}
	}
	return nil
}

// cleanString trims a cell, mapping placeholder values to empty.
func cleanString(text string) string {
	text = strings.TrimSpace(text)
	if text == "--" {
		return ""
	}
	return text
}

func round2(v float64) float64 {
	return float64(int(v*100+0.5)) / 100
}
