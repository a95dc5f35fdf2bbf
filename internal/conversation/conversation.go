// Package conversation tracks per-chat pending requests for one piece of
// free-text follow-up input.
package conversation

import (
	"strconv"
	"strings"
	"time"
)

// Kind identifies the input a pending conversation is waiting for.
type Kind string

const (
	// KindMoltSize awaits a decimal size in centimeters.
	KindMoltSize Kind = "molt_size"
	// KindColonyDelta awaits a signed cricket count adjustment.
	KindColonyDelta Kind = "colony_delta"
)

// Reprompt returns the retry message shown when input does not parse.
func (k Kind) Reprompt() string {
	switch k {
	case KindMoltSize:
		return "Please send me the size in centimeters (e.g., 12.5)"
	case KindColonyDelta:
		return "Please send me the count adjustment (e.g., +5 or -3)"
	default:
		return "Please try again."
	}
}

// Pending is the stored state of one awaiting conversation. Ref carries the
// entity id the eventual completion applies to.
type Pending struct {
	ChatID    int64     `json:"chat_id"`
	Kind      Kind      `json:"kind"`
	Ref       int64     `json:"ref"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Status is the result class of a Resolve call.
type Status string

const (
	// StatusNone means no conversation was pending for the chat.
	StatusNone Status = "none"
	// StatusCompleted means the input parsed and the entry was cleared.
	StatusCompleted Status = "completed"
	// StatusRetry means the input did not parse; the entry is retained.
	StatusRetry Status = "retry"
)

// Value is the parsed free-text input of a completed conversation.
type Value struct {
	Kind    Kind
	Decimal float64 // set for KindMoltSize
	Delta   int64   // set for KindColonyDelta
}

// Outcome is returned by Resolve. Pending is populated for StatusCompleted
// and StatusRetry; Value only for StatusCompleted.
type Outcome struct {
	Status   Status
	Pending  Pending
	Value    Value
	Reprompt string
}

// parseInput validates raw text against the awaited kind.
func parseInput(kind Kind, text string) (Value, bool) {
	text = strings.TrimSpace(text)

	switch kind {
	case KindMoltSize:
		size, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return Value{}, false
		}
		return Value{Kind: kind, Decimal: size}, true
	case KindColonyDelta:
		delta, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return Value{}, false
		}
		return Value{Kind: kind, Delta: delta}, true
	default:
		return Value{}, false
	}
}

var outcomeRecorder = func(status string) {}

// RegisterOutcomeRecorder allows external packages to observe resolve
// outcomes, typically for metrics.
func RegisterOutcomeRecorder(recorder func(status string)) {
	if recorder == nil {
		outcomeRecorder = func(string) {}
		return
	}

	outcomeRecorder = recorder
}
