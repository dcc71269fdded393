package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"rewardpool/internal/clock"
	"rewardpool/internal/pool"
	"rewardpool/internal/recorder"
	"rewardpool/internal/transfer"
)

func newTestServer(t *testing.T) (*Server, *pool.Manager) {
	t.Helper()
	clk := &clock.Manual{Unix: 1000}
	pm, err := pool.NewManager(
		filepath.Join(t.TempDir(), "pool_state.json"),
		1, pool.SecondsPerYear, clk, transfer.NewDryRunTransferer(),
	)
	if err != nil {
		t.Fatal(err)
	}
	return NewServer(pm, recorder.NewNoopRecorder()), pm
}

func doRequest(t *testing.T, s *Server, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.Routes().ServeHTTP(rec, req)
	return rec
}

func TestHandleInvest(t *testing.T) {
	s, pm := newTestServer(t)

	rec := doRequest(t, s, http.MethodPost, "/api/v1/invest", `{"account":"alice","amount":1000}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var resp map[string]uint64
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp["balance"] != 980 {
		t.Errorf("balance = %d, want 980 after 2%% fee", resp["balance"])
	}
	if got := pm.UserBalance("alice"); got != 980 {
		t.Errorf("ledger balance = %d, want 980", got)
	}

	rec = doRequest(t, s, http.MethodPost, "/api/v1/invest", `{"account":"","amount":0}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("empty request: status = %d, want 400", rec.Code)
	}
}

func TestHandleWithdraw(t *testing.T) {
	s, pm := newTestServer(t)

	rec := doRequest(t, s, http.MethodPost, "/api/v1/invest", `{"account":"alice","amount":1000}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("invest failed: %s", rec.Body.String())
	}

	// Wrong destination is refused outright.
	rec = doRequest(t, s, http.MethodPost, "/api/v1/withdraw", `{"account":"alice","destination":"mallory"}`)
	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rec.Code)
	}

	// Reserve sits near the floor, so the gate refuses.
	rec = doRequest(t, s, http.MethodPost, "/api/v1/withdraw", `{"account":"alice","destination":"alice"}`)
	if rec.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409 while reserve is at the floor", rec.Code)
	}

	// A top-up lifts the reserve clear of the floor.
	pm.InjectFunds(2000)
	rec = doRequest(t, s, http.MethodPost, "/api/v1/withdraw", `{"account":"alice","destination":"alice"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Amount      uint64 `json:"amount"`
		Reference   string `json:"reference"`
		Transferred bool   `json:"transferred"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Amount != 980 || !resp.Transferred || resp.Reference == "" {
		t.Errorf("unexpected response: %+v", resp)
	}
	if got := pm.UserBalance("alice"); got != 0 {
		t.Errorf("balance = %d, want 0 after withdrawal", got)
	}
}

func TestHandleAPRAndPool(t *testing.T) {
	s, _ := newTestServer(t)

	// No principal yet.
	rec := doRequest(t, s, http.MethodGet, "/api/v1/apr", "")
	if rec.Code != http.StatusConflict {
		t.Errorf("apr with no principal: status = %d, want 409", rec.Code)
	}

	doRequest(t, s, http.MethodPost, "/api/v1/invest", `{"account":"alice","amount":1000}`)

	rec = doRequest(t, s, http.MethodGet, "/api/v1/apr", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var aprResp map[string]uint64
	if err := json.Unmarshal(rec.Body.Bytes(), &aprResp); err != nil {
		t.Fatal(err)
	}
	// reserve = secondsPerYear + 20 fee, years = 1, principal = 980
	want := (pool.SecondsPerYear + 20) * 100 / 980
	if aprResp["apr"] != want {
		t.Errorf("apr = %d, want %d", aprResp["apr"], want)
	}

	rec = doRequest(t, s, http.MethodGet, "/api/v1/pool", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var stat struct {
		Reserve        uint64 `json:"reserve"`
		TotalPrincipal uint64 `json:"total_principal"`
		Users          int    `json:"users"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &stat); err != nil {
		t.Fatal(err)
	}
	if stat.Reserve != pool.SecondsPerYear+20 || stat.TotalPrincipal != 980 || stat.Users != 1 {
		t.Errorf("unexpected pool stat: %+v", stat)
	}
}

func TestHandleBalanceAndProfit(t *testing.T) {
	s, _ := newTestServer(t)

	rec := doRequest(t, s, http.MethodGet, "/api/v1/balance?account=alice", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp map[string]uint64
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp["balance"] != 0 {
		t.Errorf("unknown account balance = %d, want 0", resp["balance"])
	}

	rec = doRequest(t, s, http.MethodGet, "/api/v1/profit?account=alice", "")
	if rec.Code != http.StatusConflict {
		t.Errorf("profit with no deposit: status = %d, want 409", rec.Code)
	}

	rec = doRequest(t, s, http.MethodGet, "/api/v1/profit", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing account: status = %d, want 400", rec.Code)
	}
}
