// internal/domain/event/calendar.go
package event

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// DefaultDuration is assumed for events without an end time
const DefaultDuration = 2 * time.Hour

const icsTimeLayout = "20060102T150405Z"

var whitespace = regexp.MustCompile(`\s+`)

// Calendar renders an iCalendar document for the event
func Calendar(e Event, stamp time.Time) []byte {
	start := e.StartAt.UTC()
	end := start.Add(DefaultDuration)
	if e.EndAt != nil && e.EndAt.After(e.StartAt) {
		end = e.EndAt.UTC()
	}

	lines := []string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//Wouhouch Hub//Events//EN",
		"BEGIN:VEVENT",
		fmt.Sprintf("UID:%s@wouhouch-hub", e.ID),
		"DTSTAMP:" + stamp.UTC().Format(icsTimeLayout),
		"DTSTART:" + start.Format(icsTimeLayout),
		"DTEND:" + end.Format(icsTimeLayout),
		"SUMMARY:" + escapeText(e.Title),
		"LOCATION:" + escapeText(e.Location),
		"DESCRIPTION:" + escapeText(e.Description),
		"END:VEVENT",
		"END:VCALENDAR",
	}
	return []byte(strings.Join(lines, "\r\n") + "\r\n")
}

// CalendarFilename is the download name, e.g. "Beach-Bootcamp.ics"
func CalendarFilename(e Event) string {
	name := whitespace.ReplaceAllString(strings.TrimSpace(e.Title), "-")
	if name == "" {
		name = "event"
	}
	return name + ".ics"
}

func escapeText(s string) string {
	r := strings.NewReplacer(`\`, `\\`, ";", `\;`, ",", `\,`, "\r\n", `\n`, "\n", `\n`)
	return r.Replace(s)
}
