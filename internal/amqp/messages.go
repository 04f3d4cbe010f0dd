package amqp

import (
	"encoding/json"
	"time"
)

// EntrySyncMessage announces a newly created ledger entry to the export
// worker. It carries only the entry ID; the worker loads the full entry
// from the store, so a stale message never exports stale data.
type EntrySyncMessage struct {
	ID        int64     `json:"id"`
	Timestamp time.Time `json:"timestamp"`
}

func NewEntrySyncMessage(id int64) *EntrySyncMessage {
	return &EntrySyncMessage{ID: id, Timestamp: time.Now()}
}

func (m *EntrySyncMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func EntrySyncMessageFromJSON(data []byte) (*EntrySyncMessage, error) {
	var msg EntrySyncMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
