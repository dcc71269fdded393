package pool

import (
	"path/filepath"
	"testing"

	"rewardpool/internal/model"
)

func TestLoadState_MissingFile(t *testing.T) {
	state, err := LoadState(filepath.Join(t.TempDir(), "missing.json"))
	if err != nil {
		t.Fatal(err)
	}
	if state.Reserve != 0 || state.MinimumLiquidity != 0 {
		t.Errorf("expected zero state, got %+v", state)
	}
	if state.Users == nil {
		t.Error("users map should be initialized")
	}
}

func TestSaveState_Roundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pool_state.json")
	in := &model.PoolState{
		Reserve:           12345,
		TotalPrincipal:    678,
		MinimumLiquidity:  100,
		DistributionYears: 7,
		Users: map[string]*model.UserRecord{
			"alice": {Balance: 500, AccruedProfit: 42, LastActionTime: 99},
			"bob":   {Balance: 178},
		},
	}
	if err := SaveState(path, in); err != nil {
		t.Fatal(err)
	}

	out, err := LoadState(path)
	if err != nil {
		t.Fatal(err)
	}
	if out.Reserve != in.Reserve || out.TotalPrincipal != in.TotalPrincipal ||
		out.MinimumLiquidity != in.MinimumLiquidity || out.DistributionYears != in.DistributionYears {
		t.Errorf("pool fields mismatch: %+v", out)
	}
	alice := out.Users["alice"]
	if alice == nil || alice.Balance != 500 || alice.AccruedProfit != 42 || alice.LastActionTime != 99 {
		t.Errorf("alice record mismatch: %+v", alice)
	}
	if out.UpdatedAt.IsZero() {
		t.Error("updated_at should be set on save")
	}
}
