package booking

import (
    "errors"
    "sync"
)

// AttemptStatus enumerates the per-attempt state machine of a
// conversation: Idle -> Processing -> {Success | Waitlisted | Error}.
// Success and Waitlisted are terminal for the attempt; Error is
// recoverable through an explicit reset back to Idle.
type AttemptStatus string

const (
    StatusIdle       AttemptStatus = "IDLE"
    StatusProcessing AttemptStatus = "PROCESSING"
    StatusSuccess    AttemptStatus = "SUCCESS"
    StatusWaitlisted AttemptStatus = "WAITLISTED"
    StatusError      AttemptStatus = "ERROR"
)

// ErrAttemptInProgress is returned by Begin when an attempt is already
// being processed.  ErrAttemptFinished is returned when the previous
// attempt reached a terminal state and the surrounding conversation
// must be reset before a new attempt can start.  ErrNotResettable is
// returned by Reset outside the Error state.
var (
    ErrAttemptInProgress = errors.New("booking attempt already in progress")
    ErrAttemptFinished   = errors.New("booking attempt already completed for this conversation")
    ErrNotResettable     = errors.New("conversation is not in a resettable state")
)

// Conversation tracks the booking attempt state of a single
// conversation.  It is decoupled from any rendering concern: the chat
// layer merely observes transitions.  All methods are safe for
// concurrent use.
type Conversation struct {
    mu         sync.Mutex
    id         string
    status     AttemptStatus
    diagnostic *Diagnostic // retained after a failed attempt
}

// ID returns the conversation identifier.
func (c *Conversation) ID() string { return c.id }

// Status returns the current attempt status.
func (c *Conversation) Status() AttemptStatus {
    c.mu.Lock()
    defer c.mu.Unlock()
    return c.status
}

// Diagnostic returns the diagnostic of the last failed attempt, or nil.
func (c *Conversation) Diagnostic() *Diagnostic {
    c.mu.Lock()
    defer c.mu.Unlock()
    return c.diagnostic
}

// Begin transitions Idle -> Processing.  It fails when an attempt is
// in flight or the prior attempt already reached a terminal state.
func (c *Conversation) Begin() error {
    c.mu.Lock()
    defer c.mu.Unlock()
    switch c.status {
    case StatusIdle:
        c.status = StatusProcessing
        return nil
    case StatusProcessing:
        return ErrAttemptInProgress
    case StatusError:
        return ErrNotResettable // must reset explicitly first
    default:
        return ErrAttemptFinished
    }
}

// Cancel returns Processing -> Idle without recording an outcome.  It
// is used when the agent output carried no confirmation marker: no
// booking was attempted, so nothing happened.
func (c *Conversation) Cancel() {
    c.mu.Lock()
    defer c.mu.Unlock()
    if c.status == StatusProcessing {
        c.status = StatusIdle
    }
}

// Complete transitions Processing to the terminal Success or
// Waitlisted state.
func (c *Conversation) Complete(waitlisted bool) {
    c.mu.Lock()
    defer c.mu.Unlock()
    if c.status != StatusProcessing {
        return
    }
    if waitlisted {
        c.status = StatusWaitlisted
    } else {
        c.status = StatusSuccess
    }
    c.diagnostic = nil
}

// Fail transitions Processing -> Error and retains the diagnostic for
// operator inspection.  The conversation stays open and is retryable
// after an explicit Reset.
func (c *Conversation) Fail(d *Diagnostic) {
    c.mu.Lock()
    defer c.mu.Unlock()
    if c.status != StatusProcessing {
        return
    }
    c.status = StatusError
    c.diagnostic = d
}

// Reset transitions Error -> Idle without discarding the conversation.
// Resetting from any other state returns ErrNotResettable.
func (c *Conversation) Reset() error {
    c.mu.Lock()
    defer c.mu.Unlock()
    if c.status != StatusError {
        return ErrNotResettable
    }
    c.status = StatusIdle
    c.diagnostic = nil
    return nil
}

// SessionRegistry holds the attempt state of every live conversation,
// keyed by conversation ID.  Lookups create the conversation on first
// sighting in the Idle state.
type SessionRegistry struct {
    mu            sync.RWMutex
    conversations map[string]*Conversation
}

// NewSessionRegistry returns an empty registry.
func NewSessionRegistry() *SessionRegistry {
    return &SessionRegistry{conversations: make(map[string]*Conversation)}
}

// Get returns the conversation for the given ID, creating it when it
// does not exist yet.
func (r *SessionRegistry) Get(id string) *Conversation {
    r.mu.RLock()
    conv, ok := r.conversations[id]
    r.mu.RUnlock()
    if ok {
        return conv
    }
    r.mu.Lock()
    defer r.mu.Unlock()
    if conv, ok = r.conversations[id]; ok {
        return conv
    }
    conv = &Conversation{id: id, status: StatusIdle}
    r.conversations[id] = conv
    return conv
}
