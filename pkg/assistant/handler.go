package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/calendarplan/calendarplan/internal/config"
	"github.com/calendarplan/calendarplan/internal/rest"
	"github.com/calendarplan/calendarplan/pkg/calendar"
	log "github.com/sirupsen/logrus"
)

type MessageRequestDTO struct {
	Text string `json:"text"`
}

type ChatMessageDTO struct {
	Content        string             `json:"content"`
	FromUser       bool               `json:"isFromUser"`
	Timestamp      time.Time          `json:"timestamp"`
	Event          *calendar.EventDTO `json:"event,omitempty"`
	ReadyForCommit bool               `json:"readyForCommit"`
}

type TurnDTO struct {
	Messages   []ChatMessageDTO    `json:"messages"`
	Action     ActionKind          `json:"action"`
	ShowEvents bool                `json:"showEvents"`
	Events     []calendar.EventDTO `json:"events"`
}

type ConversationDTO struct {
	Messages   []ChatMessageDTO `json:"messages"`
	LastAction ActionKind       `json:"lastAction"`
	Busy       bool             `json:"busy"`
}

type SpeechSettingsDTO struct {
	Locale           string `json:"locale"`
	MinDurationMs    int64  `json:"minDurationMs"`
	MaxDurationMs    int64  `json:"maxDurationMs"`
	SilenceTimeoutMs int64  `json:"silenceTimeoutMs"`
}

func MessageToDTO(m ChatMessage) ChatMessageDTO {
	dto := ChatMessageDTO{
		Content:        m.Content,
		FromUser:       m.FromUser,
		Timestamp:      m.Timestamp,
		ReadyForCommit: m.ReadyForCommit,
	}
	if m.Event != nil {
		event := calendar.ToDTO(*m.Event)
		dto.Event = &event
	}
	return dto
}

func messagesToDTO(messages []ChatMessage) []ChatMessageDTO {
	out := make([]ChatMessageDTO, 0, len(messages))
	for _, m := range messages {
		out = append(out, MessageToDTO(m))
	}
	return out
}

type Handler struct {
	assistant *Assistant
	speech    config.Speech
}

func NewHandler(assistant *Assistant, speech config.Speech) *Handler {
	return &Handler{assistant: assistant, speech: speech}
}

// SendMessage godoc
// @Summary Send a message to the assistant
// @Description Queues the message and waits until the assistant has replied and applied any calendar change
// @Tags Assistant
// @Accept json
// @Produce json
// @Param message body MessageRequestDTO true "User message or speech transcript"
// @Success 200 {object} TurnDTO
// @Failure 400 {object} rest.ErrorResponse "Empty message"
// @Failure 503 {object} rest.ErrorResponse "Assistant unavailable"
// @Router /api/assistant/message [post]
func (h *Handler) SendMessage(w http.ResponseWriter, r *http.Request) {
	var req MessageRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	turn, err := h.assistant.Send(r.Context(), req.Text)
	if err != nil {
		switch {
		case errors.Is(err, ErrEmptyMessage):
			rest.WriteError(w, http.StatusBadRequest, "Message is required", "'text' must not be blank")
		case errors.Is(err, ErrClosed):
			rest.WriteError(w, http.StatusServiceUnavailable, "Assistant is not available", err.Error())
		case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
			log.Warnf("Client stopped waiting for the assistant: %v", err)
			rest.WriteError(w, http.StatusGatewayTimeout, "Assistant is still working", "the reply will appear in the conversation")
		default:
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	rest.WriteJSON(w, http.StatusOK, TurnDTO{
		Messages:   messagesToDTO(turn.Messages),
		Action:     turn.Action,
		ShowEvents: turn.ShowEvents(),
		Events:     calendar.ToDTOs(h.assistant.Events()),
	})
}

// GetMessages godoc
// @Summary Get the conversation
// @Tags Assistant
// @Produce json
// @Success 200 {object} ConversationDTO
// @Router /api/assistant/message [get]
func (h *Handler) GetMessages(w http.ResponseWriter, r *http.Request) {
	rest.WriteJSON(w, http.StatusOK, ConversationDTO{
		Messages:   messagesToDTO(h.assistant.Messages()),
		LastAction: h.assistant.LastAction(),
		Busy:       h.assistant.Busy(),
	})
}

// GetSpeechSettings godoc
// @Summary Speech capture settings
// @Description Settings for clients capturing voice input; the transcript is sent as a plain message
// @Tags Assistant
// @Produce json
// @Success 200 {object} SpeechSettingsDTO
// @Router /api/assistant/speech [get]
func (h *Handler) GetSpeechSettings(w http.ResponseWriter, r *http.Request) {
	rest.WriteJSON(w, http.StatusOK, SpeechSettingsDTO{
		Locale:           h.speech.Locale,
		MinDurationMs:    h.speech.MinDuration.Milliseconds(),
		MaxDurationMs:    h.speech.MaxDuration.Milliseconds(),
		SilenceTimeoutMs: h.speech.SilenceTimeout.Milliseconds(),
	})
}
