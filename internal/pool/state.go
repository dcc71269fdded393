package pool

import (
	"encoding/json"
	"os"
	"time"

	"rewardpool/internal/model"
)

// LoadState reads the ledger state from a JSON file. Returns a zero state if the file doesn't exist.
func LoadState(filePath string) (*model.PoolState, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return &model.PoolState{Users: make(map[string]*model.UserRecord)}, nil
		}
		return nil, err
	}
	var state model.PoolState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, err
	}
	if state.Users == nil {
		state.Users = make(map[string]*model.UserRecord)
	}
	return &state, nil
}

// SaveState writes the ledger state to a JSON file.
func SaveState(filePath string, state *model.PoolState) error {
	state.UpdatedAt = time.Now()
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filePath, data, 0644)
}
