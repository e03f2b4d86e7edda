package handler

import (
    "errors"   // sentinel and typed error comparisons
    "log"      // structured-enough server side logging
    "net/http" // HTTP status codes

    "github.com/google/uuid"      // attempt identifiers
    "github.com/labstack/echo/v4" // Echo web framework

    "github.com/mesaflow/reservations-backend/internal/booking"
    "github.com/mesaflow/reservations-backend/internal/queue"
    queue_publisher "github.com/mesaflow/reservations-backend/internal/service"
)

// ConversationHandler drives booking attempts for live conversations.
// Each agent reply is run through the booking pipeline exactly once;
// the per-conversation state machine in the session registry guards
// against concurrent or repeated attempts.
type ConversationHandler struct {
    Pipeline *booking.Service         // the attempt pipeline
    Sessions *booking.SessionRegistry // per-conversation attempt state
}

// NewConversationHandler constructs a ConversationHandler.  Both
// dependencies must be non-nil.
func NewConversationHandler(pipeline *booking.Service, sessions *booking.SessionRegistry) *ConversationHandler {
    if pipeline == nil || sessions == nil {
        panic("nil dependency passed to NewConversationHandler")
    }
    return &ConversationHandler{Pipeline: pipeline, Sessions: sessions}
}

// AgentReply handles POST /v1/conversations/:id/agent-reply.  The body
// carries the raw agent response text; when it contains a confirmation
// line the booking pipeline runs and the outcome is returned.  A reply
// without a confirmation marker is a no-op and answers 200 with status
// NO_BOOKING_ATTEMPT.  Malformed confirmation lines answer 422 with a
// diagnostic; downstream failures answer 500 and leave the
// conversation in the ERROR state until it is reset.
func (h *ConversationHandler) AgentReply(c echo.Context) error {
    convID := c.Param("id")
    if convID == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "conversation id is required"})
    }
    var body struct {
        Text string `json:"text"`
    }
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if body.Text == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "text is required"})
    }

    conv := h.Sessions.Get(convID)
    if err := conv.Begin(); err != nil {
        switch {
        case errors.Is(err, booking.ErrAttemptInProgress):
            return c.JSON(http.StatusConflict, echo.Map{"error": "a booking attempt is already being processed"})
        case errors.Is(err, booking.ErrNotResettable):
            return c.JSON(http.StatusConflict, echo.Map{"error": "previous attempt failed; reset the conversation first"})
        default:
            return c.JSON(http.StatusConflict, echo.Map{"error": "a booking was already completed for this conversation"})
        }
    }

    attemptID := uuid.NewString()
    outcome, err := h.Pipeline.Process(c.Request().Context(), body.Text)
    if err != nil {
        return h.replyError(c, conv, attemptID, err)
    }

    conv.Complete(outcome.Receipt.Waitlisted)

    h.publishOutcome(c, outcome)

    status := "CONFIRMED"
    if outcome.Receipt.Waitlisted {
        status = "WAITING_LIST"
    }
    return c.JSON(http.StatusCreated, echo.Map{
        "status":         status,
        "message":        outcome.Message,
        "receipt":        outcome.Receipt,
        "reservation_id": outcome.Reservation.ID,
    })
}

// replyError maps a pipeline error onto the conversation state machine
// and the HTTP response.  The absence of a confirmation marker is not
// a failure: the attempt is cancelled and the conversation stays Idle.
func (h *ConversationHandler) replyError(c echo.Context, conv *booking.Conversation, attemptID string, err error) error {
    if errors.Is(err, booking.ErrNoConfirmation) {
        conv.Cancel()
        return c.JSON(http.StatusOK, echo.Map{"status": "NO_BOOKING_ATTEMPT"})
    }

    var parseErr *booking.ParseError
    if errors.As(err, &parseErr) {
        diag := &booking.Diagnostic{
            AttemptID:  attemptID,
            Message:    parseErr.Error(),
            RawSegment: parseErr.Raw,
        }
        conv.Fail(diag)
        log.Printf("conversation %s: attempt %s rejected: %v", conv.ID(), attemptID, err)
        return c.JSON(http.StatusUnprocessableEntity, echo.Map{
            "status":     "PARSE_ERROR",
            "diagnostic": diag,
        })
    }

    diag := &booking.Diagnostic{AttemptID: attemptID, Message: err.Error()}
    conv.Fail(diag)

    var desync *booking.StateDesyncError
    if errors.As(err, &desync) {
        // The reservation row exists but the table transition failed,
        // so the database may disagree with itself until an operator
        // intervenes.  Surface that loudly.
        log.Printf("conversation %s: attempt %s STATE DESYNC table=%d reservation=%d: %v",
            conv.ID(), attemptID, desync.TableID, desync.ReservationID, desync.Err)
    } else {
        log.Printf("conversation %s: attempt %s failed: %v", conv.ID(), attemptID, err)
    }
    return c.JSON(http.StatusInternalServerError, echo.Map{
        "status":     "ERROR",
        "diagnostic": diag,
    })
}

// publishOutcome emits a reservation.outcome event for downstream
// consumers.  Publishing is best effort: a broker outage never fails
// the request that already persisted the reservation.
func (h *ConversationHandler) publishOutcome(c echo.Context, outcome *booking.Outcome) {
    ev := queue.ReservationOutcomeEvent{
        ReservationID: outcome.Reservation.ID,
        CustomerID:    outcome.Customer.ID,
        CustomerName:  outcome.Customer.Name,
        Phone:         outcome.Customer.Phone,
        ReservedFor:   outcome.Reservation.ReservedFor,
        PartySize:     outcome.Reservation.PartySize,
        Category:      outcome.Reservation.Category,
        Waitlisted:    outcome.Receipt.Waitlisted,
        OccurredAt:    outcome.Reservation.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
    }
    if outcome.Table != nil {
        ev.TableID = outcome.Table.ID
        ev.Zone = outcome.Table.Zone
    }
    _ = queue_publisher.PublishReservationOutcome(c.Request().Context(), ev)
}

// Reset handles POST /v1/conversations/:id/reset.  It returns the
// conversation from the Error state back to Idle so the guest can try
// again.  Resetting a conversation in any other state answers 409.
func (h *ConversationHandler) Reset(c echo.Context) error {
    convID := c.Param("id")
    if convID == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "conversation id is required"})
    }
    conv := h.Sessions.Get(convID)
    if err := conv.Reset(); err != nil {
        return c.JSON(http.StatusConflict, echo.Map{"error": "conversation is not in a resettable state"})
    }
    return c.NoContent(http.StatusNoContent)
}

// GetState handles GET /v1/conversations/:id.  It reports the attempt
// status and, after a failed attempt, the retained diagnostic.
func (h *ConversationHandler) GetState(c echo.Context) error {
    convID := c.Param("id")
    if convID == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "conversation id is required"})
    }
    conv := h.Sessions.Get(convID)
    resp := echo.Map{
        "conversation_id": conv.ID(),
        "status":          conv.Status(),
    }
    if d := conv.Diagnostic(); d != nil {
        resp["diagnostic"] = d
    }
    return c.JSON(http.StatusOK, resp)
}
