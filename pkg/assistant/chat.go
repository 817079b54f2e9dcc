package assistant

import (
	"time"

	"github.com/calendarplan/calendarplan/pkg/calendar"
)

// ChatMessage is one entry of the conversation. Messages are never changed
// after they are appended.
type ChatMessage struct {
	Content        string
	FromUser       bool
	Timestamp      time.Time
	Event          *calendar.Event
	ReadyForCommit bool
}

const welcomeMessage = "Hello! I'm your Calendar Assistant. I can help you manage your schedule with natural language commands. Try phrases like:\n\n" +
	"• Add a meeting with John tomorrow at 2pm for 1 hour\n" +
	"• Schedule a high priority dentist appointment on Friday at 10am\n" +
	"• Create a team lunch event next Monday at noon with Alex and Sarah\n" +
	"• Show me my events for this week\n" +
	"• What's on my calendar for tomorrow?\n\n" +
	"I'll confirm each action with a response and update your calendar automatically!"

const emptyReplyMessage = "Received an empty response from the assistant. Please try again with a more specific request."

func serviceFailureMessage(err error) string {
	return "Sorry, I couldn't process that request. There was an issue with the AI service: " + err.Error()
}
