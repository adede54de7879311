package amqp

import (
	"encoding/json"
	"time"
)

const (
	OpUpsert = "upsert"
	OpDelete = "delete"
)

// SyncMessage tells the worker that a transaction changed. It carries
// only the ID and the kind of change; the worker resolves the current
// row from the snapshot database.
type SyncMessage struct {
	ID        string    `json:"id"`
	Op        string    `json:"op"`
	Timestamp time.Time `json:"timestamp"`
}

func NewSyncMessage(id, op string) *SyncMessage {
	return &SyncMessage{
		ID:        id,
		Op:        op,
		Timestamp: time.Now().UTC(),
	}
}

func (m *SyncMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func SyncMessageFromJSON(data []byte) (*SyncMessage, error) {
	var msg SyncMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
