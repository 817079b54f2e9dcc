package calendar

import (
	"time"

	ical "github.com/arran4/golang-ical"
)

var icsPriority = map[Priority]string{
	PriorityHigh:   "1",
	PriorityMedium: "5",
	PriorityLow:    "9",
}

// ExportICS renders events as an iCalendar document. stamp is used for DTSTAMP.
func ExportICS(events []Event, stamp time.Time) string {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId("-//calendarplan//timeline//EN")

	for _, e := range events {
		e = e.WithDefaults()
		ve := cal.AddEvent(e.ID)
		ve.SetDtStampTime(stamp)
		ve.SetStartAt(e.StartTime)
		ve.SetEndAt(e.EndTime)
		ve.SetSummary(e.Title)
		if e.Description != "" {
			ve.SetDescription(e.Description)
		}
		if e.Location != "" {
			ve.SetLocation(e.Location)
		}
		ve.SetProperty(ical.ComponentPropertyPriority, icsPriority[e.Priority])
		if e.IsCompleted {
			ve.SetProperty(ical.ComponentPropertyStatus, "COMPLETED")
		} else {
			ve.SetProperty(ical.ComponentPropertyStatus, "CONFIRMED")
		}
	}
	return cal.Serialize()
}
