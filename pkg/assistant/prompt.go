package assistant

import (
	"fmt"
	"strings"
	"time"

	"github.com/calendarplan/calendarplan/pkg/calendar"
)

const noEventsContext = "No events currently scheduled."

// EventsContext describes events for the model, one block per event.
func EventsContext(events []calendar.Event) string {
	if len(events) == 0 {
		return noEventsContext
	}
	blocks := make([]string, 0, len(events))
	for _, e := range events {
		blocks = append(blocks, fmt.Sprintf("Id: %s\nEvent: %s\nDescription: %s\nTime: %s to %s\nLocation: %s\nPriority: %s",
			e.ID, e.Title, e.Description, calendar.FormatDateTime(e.StartTime), e.EndTime.Format("15:04"), e.Location, e.Priority))
	}
	return strings.Join(blocks, "\n\n")
}

const promptTemplate = "You are a helpful calendar assistant that can manage events and tasks.\n\n" +
	"Current events in the calendar:\n%s\n\n" +
	"Current date and time: %s\n\n" +
	"The user says: %s\n\n" +
	"Analyze the user's request and respond in the following JSON format:\n" +
	"```json\n" +
	"{\n" +
	"  \"response\": \"Your natural language response to the user\",\n" +
	"  \"action\": \"ADD_EVENT|EDIT_EVENT|DELETE_EVENT|SHOW_EVENTS|SUMMARIZE|NONE\",\n" +
	"  \"eventData\": {\n" +
	"    \"id\": \"Id of the existing event when editing or deleting, otherwise null\",\n" +
	"    \"title\": \"Event title\",\n" +
	"    \"description\": \"Event description\",\n" +
	"    \"startTime\": \"Start time in yyyy-MM-dd HH:mm format\",\n" +
	"    \"endTime\": \"End time in yyyy-MM-dd HH:mm format\",\n" +
	"    \"location\": \"Event location\",\n" +
	"    \"priority\": \"HIGH|MEDIUM|LOW\"\n" +
	"  }\n" +
	"}\n" +
	"```\n\n" +
	"IMPORTANT INSTRUCTIONS:\n" +
	"1. For ADD_EVENT, always include a clear title, start time, and end time\n" +
	"2. Format all dates as yyyy-MM-dd HH:mm exactly\n" +
	"3. Always include a helpful response message that confirms what action you're taking\n" +
	"4. For SHOW_EVENTS or SUMMARIZE, don't include eventData\n" +
	"5. For EDIT_EVENT or DELETE_EVENT, use the Id of the event from the list above\n" +
	"6. If details are missing, ask for them in the response and use NONE as the action\n"

// BuildPrompt embeds the known events, the current time and the user's message
// in the instruction template.
func BuildPrompt(events []calendar.Event, now time.Time, message string) string {
	return fmt.Sprintf(promptTemplate, EventsContext(events), calendar.FormatDateTime(now), message)
}
