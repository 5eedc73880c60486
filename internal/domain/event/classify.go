// internal/domain/event/classify.go
package event

import "time"

// Classify compares the start day with today's date in now's location:
// a start strictly before today is past, anything else is upcoming
func Classify(e Event, now time.Time) Status {
	if day(e.StartAt, now.Location()).Before(day(now, now.Location())) {
		return StatusPast
	}
	return StatusUpcoming
}

// ClassifyAll stamps each event's status once per fetch
func ClassifyAll(events []Event, now time.Time) []Event {
	for i := range events {
		events[i].Status = Classify(events[i], now)
	}
	return events
}

// Upcoming returns the upcoming events in their original order, at most limit (0 = all)
func Upcoming(events []Event, limit int) []Event {
	out := make([]Event, 0, len(events))
	for _, e := range events {
		if e.Status != StatusUpcoming {
			continue
		}
		out = append(out, e)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

func day(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}
