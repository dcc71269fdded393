package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"rewardpool/internal/pool"
	"rewardpool/internal/recorder"
)

// Server exposes the pool ledger over HTTP. The account field on requests
// is the caller identity; authentication happens upstream of this service.
type Server struct {
	Pool     *pool.Manager
	Recorder recorder.Recorder
}

// NewServer creates a Server.
func NewServer(pm *pool.Manager, rec recorder.Recorder) *Server {
	return &Server{Pool: pm, Recorder: rec}
}

// Routes returns the HTTP handler for all API endpoints.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/invest", s.handleInvest)
	mux.HandleFunc("POST /api/v1/withdraw", s.handleWithdraw)
	mux.HandleFunc("POST /api/v1/inject", s.handleInject)
	mux.HandleFunc("GET /api/v1/profit", s.handleProfit)
	mux.HandleFunc("GET /api/v1/apr", s.handleAPR)
	mux.HandleFunc("GET /api/v1/pool", s.handlePool)
	mux.HandleFunc("GET /api/v1/balance", s.handleBalance)
	return mux
}

type investRequest struct {
	Account string `json:"account"`
	Amount  uint64 `json:"amount"`
}

func (s *Server) handleInvest(w http.ResponseWriter, r *http.Request) {
	var req investRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if req.Account == "" || req.Amount == 0 {
		writeError(w, http.StatusBadRequest, errors.New("account and a positive amount are required"))
		return
	}

	evt, err := s.Pool.Invest(req.Account, req.Amount)
	if err != nil {
		writeLedgerError(w, err)
		return
	}
	log.Printf("[INFO] invest: account=%s amount=%d fee=%d balance=%d", evt.Account, evt.Amount, evt.Fee, evt.NewBalance)
	if err := s.Recorder.RecordInvestment(&evt); err != nil {
		log.Printf("[ERROR] record investment: %v", err)
	}

	writeJSON(w, http.StatusOK, map[string]uint64{"balance": evt.NewBalance})
}

type withdrawRequest struct {
	Account     string `json:"account"`
	Destination string `json:"destination"`
}

func (s *Server) handleWithdraw(w http.ResponseWriter, r *http.Request) {
	var req withdrawRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if req.Account == "" {
		writeError(w, http.StatusBadRequest, errors.New("account is required"))
		return
	}

	evt, err := s.Pool.Withdraw(req.Account, req.Destination)
	if err != nil {
		writeLedgerError(w, err)
		return
	}
	log.Printf("[INFO] withdraw: account=%s amount=%d reference=%s transfer_ok=%v",
		evt.Account, evt.Amount, evt.Reference, evt.TransferOK)
	if err := s.Recorder.RecordWithdrawal(&evt); err != nil {
		log.Printf("[ERROR] record withdrawal: %v", err)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"amount":      evt.Amount,
		"reference":   evt.Reference,
		"transferred": evt.TransferOK,
	})
}

type injectRequest struct {
	Amount uint64 `json:"amount"`
}

func (s *Server) handleInject(w http.ResponseWriter, r *http.Request) {
	var req injectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	reserve := s.Pool.InjectFunds(req.Amount)
	log.Printf("[INFO] inject: amount=%d reserve=%d", req.Amount, reserve)

	writeJSON(w, http.StatusOK, map[string]uint64{"reserve": reserve})
}

func (s *Server) handleProfit(w http.ResponseWriter, r *http.Request) {
	account := r.URL.Query().Get("account")
	if account == "" {
		writeError(w, http.StatusBadRequest, errors.New("account is required"))
		return
	}

	profit, err := s.Pool.Profit(account)
	if err != nil {
		writeLedgerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]uint64{"profit": profit})
}

func (s *Server) handleAPR(w http.ResponseWriter, r *http.Request) {
	apr, err := s.Pool.APR()
	if err != nil {
		writeLedgerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]uint64{"apr": apr})
}

func (s *Server) handlePool(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Pool.Stat())
}

func (s *Server) handleBalance(w http.ResponseWriter, r *http.Request) {
	account := r.URL.Query().Get("account")
	if account == "" {
		writeError(w, http.StatusBadRequest, errors.New("account is required"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]uint64{"balance": s.Pool.UserBalance(account)})
}

// writeLedgerError maps the ledger's error taxonomy onto HTTP statuses,
// surfacing the error string verbatim.
func writeLedgerError(w http.ResponseWriter, err error) {
	status := http.StatusConflict
	if errors.Is(err, pool.ErrUnauthorizedDestination) {
		status = http.StatusForbidden
	}
	writeError(w, status, err)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[ERROR] encode response: %v", err)
	}
}
