package weighlog

import (
	"fmt"
	"strings"
	"time"
)

const timeLayout = "2006-01-02 15:04:05"

// Format renders a Summary and recent entries as aligned terminal output.
func Format(s Summary, recent []Entry) string {
	if s.Readings == 0 {
		return "tscale history\n\n  No readings logged. Run `tscale run --log` or `tscale demo --log` first.\n"
	}

	var b strings.Builder
	b.WriteString("tscale history\n")

	// Overview
	b.WriteString("\nOverview\n")
	fmt.Fprintf(&b, "  %-20s %s\n", "readings", formatInt(s.Readings))
	fmt.Fprintf(&b, "  %-20s %d\n", "sessions", s.Sessions)
	fmt.Fprintf(&b, "  %-20s %d\n", "tares", s.Tares)
	fmt.Fprintf(&b, "  %-20s %s\n", "heaviest", formatGrams(s.MaxGrams))
	fmt.Fprintf(&b, "  %-20s %s .. %s\n", "span", s.First.Format(timeLayout), s.Last.Format(timeLayout))

	// Sessions
	if len(s.PerSession) > 0 {
		b.WriteString("\nSessions\n")
		limit := 5
		if len(s.PerSession) < limit {
			limit = len(s.PerSession)
		}
		for _, ss := range s.PerSession[:limit] {
			fmt.Fprintf(&b, "  %-10s %5s readings   max %10s   %s\n",
				shortID(ss.ID), formatInt(ss.Readings), formatGrams(ss.MaxGrams), formatSpan(ss.Last.Sub(ss.First)))
		}
		if len(s.PerSession) > 5 {
			fmt.Fprintf(&b, "  ... and %d more\n", len(s.PerSession)-5)
		}
	}

	// Recent
	if len(recent) > 0 {
		b.WriteString("\nRecent\n")
		for _, e := range recent {
			fmt.Fprintf(&b, "  %s  %-10s %-8s %-8s %s\n",
				e.At.Format(timeLayout), shortID(e.SessionID), e.Event, e.Mode, e.Display)
		}
	}

	return b.String()
}

// shortID keeps the first 8 characters of a session ID.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func formatGrams(g float64) string {
	return fmt.Sprintf("%.1f g", g)
}

// formatSpan formats a duration as "Xm Ys", or "Xs" under a minute.
func formatSpan(d time.Duration) string {
	if d < time.Second {
		return "<1s"
	}
	secs := int(d / time.Second)
	m, s := secs/60, secs%60
	switch {
	case m == 0:
		return fmt.Sprintf("%ds", s)
	case s == 0:
		return fmt.Sprintf("%dm", m)
	default:
		return fmt.Sprintf("%dm %ds", m, s)
	}
}

// formatInt formats an integer with comma separators.
func formatInt(n int) string {
	if n < 0 {
		return "0"
	}
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}
	var result []byte
	for i, c := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			result = append(result, ',')
		}
		result = append(result, byte(c))
	}
	return string(result)
}
