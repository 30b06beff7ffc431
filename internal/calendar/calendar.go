// Package calendar renders bookings as iCalendar documents and Google
// Calendar "add event" links.
package calendar

import (
	"net/url"
	"time"

	ics "github.com/arran4/golang-ical"
)

const (
	ContentType = "text/calendar; charset=utf-8"
	prodID      = "-//CareOps//Booking//EN"
	uidDomain   = "careops.io"
	stampLayout = "20060102T150405Z"
	googleURL   = "https://calendar.google.com/calendar/render"
)

type Event struct {
	UID         string
	Title       string
	Start       time.Time
	End         time.Time
	Description string
	Location    string
	Attendees   []string
}

// ICS renders e as a single-event VCALENDAR with CRLF line endings.
func ICS(e Event, now time.Time) string {
	cal := ics.NewCalendar()
	cal.SetProductId(prodID)
	cal.SetCalscale("GREGORIAN")
	cal.SetMethod(ics.MethodRequest)

	event := cal.AddEvent(e.UID + "@" + uidDomain)
	event.SetStartAt(e.Start)
	event.SetEndAt(e.End)
	event.SetDtStampTime(now)
	event.SetSummary(e.Title)
	event.SetDescription(e.Description)
	event.SetLocation(e.Location)
	for _, a := range e.Attendees {
		if a != "" {
			event.AddAttendee(a, ics.WithRSVP(true))
		}
	}
	event.SetStatus(ics.ObjectStatusConfirmed)

	return cal.Serialize(ics.WithNewLineWindows)
}

// GoogleLink returns the Google Calendar template URL for e.
func GoogleLink(e Event) string {
	q := url.Values{}
	q.Set("action", "TEMPLATE")
	q.Set("text", e.Title)
	q.Set("dates", stamp(e.Start)+"/"+stamp(e.End))
	q.Set("details", e.Description)
	q.Set("location", e.Location)
	return googleURL + "?" + q.Encode()
}

func stamp(t time.Time) string {
	return t.UTC().Format(stampLayout)
}
