package events

import (
	"encoding/json"
	"time"

	"budgettracker/internal/state"
)

// StateChangedMessage is published after every committed mutation. It
// carries enough to let a listener decide whether to re-read the data.
type StateChangedMessage struct {
	Operation    string    `json:"operation"`
	ExpenseID    string    `json:"expense_id,omitempty"`
	ExpenseCount int       `json:"expense_count"`
	Budget       string    `json:"budget"`
	Timestamp    time.Time `json:"timestamp"`
}

// NewStateChangedMessage builds the message for a store change.
func NewStateChangedMessage(c state.Change) *StateChangedMessage {
	ts := c.At
	if ts.IsZero() {
		ts = time.Now()
	}
	return &StateChangedMessage{
		Operation:    c.Operation.String(),
		ExpenseID:    c.ExpenseID,
		ExpenseCount: c.Snapshot.Len(),
		Budget:       c.Snapshot.Budget.String(),
		Timestamp:    ts.UTC(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *StateChangedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// StateChangedMessageFromJSON decodes a message.
func StateChangedMessageFromJSON(data []byte) (*StateChangedMessage, error) {
	var msg StateChangedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
