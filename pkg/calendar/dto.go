package calendar

import "strings"

// EventDTO is the wire shape of an Event. Times use StoreLayout.
type EventDTO struct {
	Id          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Location    string `json:"location,omitempty"`
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
	Priority    string `json:"priority"`
	IsCompleted bool   `json:"isCompleted"`
}

func ToDTO(e Event) EventDTO {
	return EventDTO{
		Id:          e.ID,
		Title:       e.Title,
		Description: e.Description,
		Location:    e.Location,
		StartTime:   FormatDateTime(e.StartTime),
		EndTime:     FormatDateTime(e.EndTime),
		Priority:    string(e.Priority),
		IsCompleted: e.IsCompleted,
	}
}

func ToDTOs(events []Event) []EventDTO {
	out := make([]EventDTO, 0, len(events))
	for _, e := range events {
		out = append(out, ToDTO(e))
	}
	return out
}

// FromDTO converts a client payload, coercing times the same way persisted
// records are.
func FromDTO(dto EventDTO, coercer Coercer) Event {
	start := coercer.CoerceStart(dto.StartTime)
	return Event{
		ID:          strings.TrimSpace(dto.Id),
		Title:       strings.TrimSpace(dto.Title),
		Description: dto.Description,
		Location:    dto.Location,
		StartTime:   start,
		EndTime:     coercer.CoerceEnd(dto.EndTime, start),
		Priority:    PriorityOrDefault(dto.Priority),
		IsCompleted: dto.IsCompleted,
	}.WithDefaults()
}
