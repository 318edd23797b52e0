package http

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	"dgca-prep-service/internal/app"
	"dgca-prep-service/internal/domain"
	"github.com/gorilla/websocket"
)

// DefaultTimeBudgetSeconds applies when the client does not pick a budget.
const DefaultTimeBudgetSeconds = 15 * 60

// PracticeHandler speaks the practice-test protocol over a websocket: the
// client drives answers and navigation, the server pushes timer ticks and,
// on any terminal transition, the session summary.
type PracticeHandler struct {
	service  *app.PracticeService
	upgrader websocket.Upgrader
}

func NewPracticeHandler(service *app.PracticeService) *PracticeHandler {
	return &PracticeHandler{
		service: service,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type answerPayload struct {
	OptionIndex int `json:"optionIndex"`
}

type gotoPayload struct {
	Index int `json:"index"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

type startedPayload struct {
	SessionID         string `json:"sessionId"`
	Label             string `json:"label"`
	TotalQuestions    int    `json:"totalQuestions"`
	TimeBudgetSeconds int    `json:"timeBudgetSeconds"`
}

type tickPayload struct {
	RemainingSeconds int `json:"remainingSeconds"`
}

// questionView deliberately omits the correct index and the explanation;
// neither may reach the client while the session is in progress.
type questionView struct {
	Index               int      `json:"index"`
	Prompt              string   `json:"prompt"`
	Options             []string `json:"options"`
	Difficulty          string   `json:"difficulty"`
	SelectedOptionIndex int      `json:"selectedOptionIndex"`
}

// ServeWS upgrades the request and runs one practice session on the connection.
func (h *PracticeHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	topicID := r.URL.Query().Get("topicId")
	if userID == "" || topicID == "" {
		http.Error(w, "missing userId or topicId", http.StatusBadRequest)
		return
	}
	count, _ := strconv.Atoi(r.URL.Query().Get("count"))
	budget, _ := strconv.Atoi(r.URL.Query().Get("budget"))
	if budget <= 0 {
		budget = DefaultTimeBudgetSeconds
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	ctx := r.Context()
	sessionID, state, err := h.service.Start(ctx, userID, app.StartRequest{
		BankID:            topicID,
		QuestionCount:     count,
		TimeBudgetSeconds: budget,
	})
	if err != nil {
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: err.Error()}})
		return
	}
	defer h.service.Release(ctx, sessionID)

	send := make(chan outboundMessage[any], 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	tickerDone := make(chan struct{})

	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				log.Printf("ws write error: %v", err)
				return
			}
		}
	}()

	// The per-second ticker is the only autonomous source of state change.
	// On expiry the session has already finished implicitly; push the
	// summary and close the connection to unblock the read loop.
	go func() {
		defer close(tickerDone)
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				remaining, expired, err := h.service.Tick(ctx, sessionID)
				if err != nil {
					return
				}
				if !h.push(send, closeSignals, outboundMessage[any]{Type: "tick", Payload: tickPayload{RemainingSeconds: remaining}}) {
					return
				}
				if expired {
					if summary, err := h.service.Summary(ctx, sessionID); err == nil {
						h.push(send, closeSignals, outboundMessage[any]{Type: "summary", Payload: summary})
					}
					_ = conn.Close()
					return
				}
			case <-closeSignals:
				return
			}
		}
	}()

	send <- outboundMessage[any]{Type: "started", Payload: startedPayload{
		SessionID:         sessionID,
		Label:             state.Label,
		TotalQuestions:    state.TotalQuestions,
		TimeBudgetSeconds: state.RemainingSeconds,
	}}
	h.sendQuestion(ctx, send, sessionID)

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}

		terminal := false
		switch inbound.Type {
		case "answer":
			var payload answerPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "invalid answer payload"}}
				continue
			}
			state, err := h.service.SelectAnswer(ctx, sessionID, payload.OptionIndex)
			if err != nil {
				send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: err.Error()}}
				continue
			}
			send <- outboundMessage[any]{Type: "state", Payload: state}
			h.sendQuestion(ctx, send, sessionID)
		case "next":
			h.handleNavigation(ctx, send, sessionID, func() (domain.SessionState, error) {
				return h.service.Next(ctx, sessionID)
			})
		case "previous":
			h.handleNavigation(ctx, send, sessionID, func() (domain.SessionState, error) {
				return h.service.Previous(ctx, sessionID)
			})
		case "goto":
			var payload gotoPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "invalid goto payload"}}
				continue
			}
			h.handleNavigation(ctx, send, sessionID, func() (domain.SessionState, error) {
				return h.service.GoTo(ctx, sessionID, payload.Index)
			})
		case "finish":
			summary, err := h.service.Finish(ctx, sessionID)
			if err != nil {
				send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: err.Error()}}
				continue
			}
			send <- outboundMessage[any]{Type: "summary", Payload: summary}
			terminal = true
		case "requestExit":
			state, err := h.service.RequestExit(ctx, sessionID)
			if err != nil {
				send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: err.Error()}}
				continue
			}
			send <- outboundMessage[any]{Type: "state", Payload: state}
		case "cancelExit":
			state, err := h.service.CancelExit(ctx, sessionID)
			if err != nil {
				send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: err.Error()}}
				continue
			}
			send <- outboundMessage[any]{Type: "state", Payload: state}
		case "confirmExit":
			summary, err := h.service.ConfirmExit(ctx, sessionID)
			if err != nil {
				send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: err.Error()}}
				continue
			}
			send <- outboundMessage[any]{Type: "summary", Payload: summary}
			terminal = true
		case "state":
			state, err := h.service.State(ctx, sessionID)
			if err != nil {
				send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: err.Error()}}
				continue
			}
			send <- outboundMessage[any]{Type: "state", Payload: state}
		default:
			send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "unsupported message type"}}
		}

		if terminal {
			break
		}
	}

	close(closeSignals)
	<-tickerDone
	close(send)
	<-writerDone
}

func (h *PracticeHandler) handleNavigation(ctx context.Context, send chan outboundMessage[any], sessionID string, move func() (domain.SessionState, error)) {
	state, err := move()
	if err != nil {
		send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: err.Error()}}
		return
	}
	send <- outboundMessage[any]{Type: "state", Payload: state}
	h.sendQuestion(ctx, send, sessionID)
}

func (h *PracticeHandler) sendQuestion(ctx context.Context, send chan outboundMessage[any], sessionID string) {
	q, selected, err := h.service.Question(ctx, sessionID)
	if err != nil {
		return
	}
	state, err := h.service.State(ctx, sessionID)
	if err != nil {
		return
	}
	send <- outboundMessage[any]{Type: "question", Payload: questionView{
		Index:               state.CurrentIndex,
		Prompt:              q.Prompt,
		Options:             q.Options,
		Difficulty:          string(q.Difficulty),
		SelectedOptionIndex: selected,
	}}
}

// push delivers to the send channel unless the connection is shutting down.
func (h *PracticeHandler) push(send chan outboundMessage[any], closeSignals chan struct{}, msg outboundMessage[any]) bool {
	select {
	case send <- msg:
		return true
	case <-closeSignals:
		return false
	}
}
