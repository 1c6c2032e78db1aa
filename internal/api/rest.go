package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mmynk/splitledger/internal/models"
)

// maxBodyBytes caps REST request bodies.
const maxBodyBytes = 1 << 20

type restHandler struct {
	ops operations
}

// NewRouter returns a REST router for the ledger:
//
//	POST /groups
//	GET  /groups/{group_id}
//	POST /groups/{group_id}/members
//	POST /groups/{group_id}/expenses
//	GET  /groups/{group_id}/balances
//
// Routes are named after the matching RPC so middleware can label them.
func NewRouter(ledger Ledger, mwf ...mux.MiddlewareFunc) *mux.Router {
	h := &restHandler{ops: operations{ledger: ledger}}

	r := mux.NewRouter()
	r.Use(mwf...)
	r.HandleFunc("/groups", h.createGroup).Methods(http.MethodPost).Name("CreateGroup")
	r.HandleFunc("/groups/{group_id}", h.getGroup).Methods(http.MethodGet).Name("GetGroup")
	r.HandleFunc("/groups/{group_id}/members", h.addMember).Methods(http.MethodPost).Name("AddMember")
	r.HandleFunc("/groups/{group_id}/expenses", h.addExpense).Methods(http.MethodPost).Name("AddExpense")
	r.HandleFunc("/groups/{group_id}/balances", h.getBalances).Methods(http.MethodGet).Name("GetBalances")
	return r
}

func (h *restHandler) createGroup(w http.ResponseWriter, r *http.Request) {
	var req CreateGroupRequest
	if !decode(w, r, &req) {
		return
	}
	resp, err := h.ops.createGroup(r.Context(), &req)
	writeResult(w, resp, err)
}

func (h *restHandler) getGroup(w http.ResponseWriter, r *http.Request) {
	resp, err := h.ops.group(r.Context(), &GroupRequest{GroupID: mux.Vars(r)["group_id"]})
	writeResult(w, resp, err)
}

func (h *restHandler) addMember(w http.ResponseWriter, r *http.Request) {
	var req AddMemberRequest
	if !decode(w, r, &req) {
		return
	}
	req.GroupID = mux.Vars(r)["group_id"]
	resp, err := h.ops.addMember(r.Context(), &req)
	writeResult(w, resp, err)
}

func (h *restHandler) addExpense(w http.ResponseWriter, r *http.Request) {
	var req AddExpenseRequest
	if !decode(w, r, &req) {
		return
	}
	req.GroupID = mux.Vars(r)["group_id"]
	resp, err := h.ops.addExpense(r.Context(), &req)
	writeResult(w, resp, err)
}

func (h *restHandler) getBalances(w http.ResponseWriter, r *http.Request) {
	resp, err := h.ops.balances(r.Context(), &GroupRequest{GroupID: mux.Vars(r)["group_id"]})
	if err != nil {
		writeError(w, err)
		return
	}
	// The REST shape is a bare list.
	writeJSON(w, http.StatusOK, resp.Balances)
}

type errorBody struct {
	Error string `json:"error"`
}

func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		writeError(w, fmt.Errorf("%w: malformed body: %v", models.ErrInvalid, err))
		return false
	}
	return true
}

func writeResult[T any](w http.ResponseWriter, msg *T, err error) {
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, msg)
}

func writeError(w http.ResponseWriter, err error) {
	status := httpStatus(err)
	if status == http.StatusInternalServerError {
		slog.Error("REST request failed", "error", err)
	}
	writeJSON(w, status, errorBody{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("Failed to write response", "error", err)
	}
}
