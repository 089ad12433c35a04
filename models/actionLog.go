package models

import (
	"encoding/json"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Action is one entry of the CS action audit log. The log is append-only and
// peripheral: nothing in the metrics core reads it back.
type Action struct {
	ID         string `json:"id"`
	ActionType string `json:"action_type"`
	Client     string `json:"client,omitempty"`
	Owner      string `json:"owner,omitempty"`
	Notes      string `json:"notes,omitempty"`
	Status     string `json:"status,omitempty"`
	Timestamp  string `json:"timestamp"`
}

var actionsMu sync.Mutex

// LoadActions reads the action log. A missing file is an empty log.
func LoadActions(path string) ([]Action, error) {
	actionsMu.Lock()
	defer actionsMu.Unlock()
	return loadActionsLocked(path)
}

func loadActionsLocked(path string) ([]Action, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return []Action{}, nil
		}
		return nil, err
	}
	var actions []Action
	if err := json.Unmarshal(data, &actions); err != nil {
		return nil, err
	}
	return actions, nil
}

// SaveAction appends one action, stamping id and timestamp, and returns the
// stored record.
func SaveAction(path string, action Action) (Action, error) {
	actionsMu.Lock()
	defer actionsMu.Unlock()

	actions, err := loadActionsLocked(path)
	if err != nil {
		return Action{}, err
	}

	action.ID = uuid.NewString()
	action.Timestamp = time.Now().Format(time.RFC3339)
	actions = append(actions, action)

	data, err := json.MarshalIndent(actions, "", "  ")
	if err != nil {
		return Action{}, err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return Action{}, err
	}
	return action, nil
}
