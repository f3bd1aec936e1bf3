/*
handlers.go - HTTP handlers for the leave system

ENDPOINTS:
  POST /api/login          Exchange the shared passphrase for a session
  POST /api/logout         Drop the session
  GET  /api/balances       Dashboard balance cells
  GET  /api/records        Full history, date descending
  GET  /api/employees      Names and selectable kinds for the form
  POST /api/requests       Submit a leave request
  POST /api/reminder/run   Trigger the reminder job manually

ERROR MAPPING:
  Violation           -> 422 with the rule code
  ConfigurationError  -> 404 (unknown employee) / 400 (bad kind, date)
  StoreUnavailable    -> 502, safe to retry
  anything else       -> 500
*/
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/sejongcare/leave-ledger/leave"
)

// Handler holds the handlers' dependencies.
type Handler struct {
	Processor *leave.Processor
	Reminder  *leave.Reminder
	Roster    *leave.Roster
	Sessions  *SessionStore
	Logger    *slog.Logger
}

func NewHandler(p *leave.Processor, r *leave.Reminder, roster *leave.Roster, sessions *SessionStore, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{Processor: p, Reminder: r, Roster: roster, Sessions: sessions, Logger: logger}
}

// =============================================================================
// AUTH
// =============================================================================

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	token, ok := h.Sessions.Login(req.Passphrase)
	if !ok {
		writeError(w, http.StatusUnauthorized, "wrong passphrase")
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(CookieName); err == nil {
		h.Sessions.Logout(cookie.Value)
	}
	http.SetCookie(w, &http.Cookie{Name: CookieName, Value: "", Path: "/", MaxAge: -1})
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// DASHBOARD READS
// =============================================================================

func (h *Handler) GetBalances(w http.ResponseWriter, r *http.Request) {
	views, err := h.Processor.CurrentBalances(r.Context())
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	dtos := make([]BalanceDTO, 0, len(views))
	for _, v := range views {
		dtos = append(dtos, BalanceDTO{
			Employee:  v.Employee,
			Pool:      v.Pool,
			Label:     v.Label,
			Remaining: v.Remaining.String(),
		})
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) GetRecords(w http.ResponseWriter, r *http.Request) {
	records, err := h.Processor.History(r.Context())
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	dtos := make([]RecordDTO, 0, len(records))
	for _, rec := range records {
		dtos = append(dtos, recordDTO(rec))
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	var dtos []EmployeeDTO
	for _, name := range h.Roster.Names() {
		profile, err := h.Roster.Profile(name)
		if err != nil {
			h.writeDomainError(w, err)
			return
		}
		kinds := make([]string, 0, len(profile.AllowedKinds))
		for _, k := range profile.AllowedKinds {
			kinds = append(kinds, string(k))
		}
		dtos = append(dtos, EmployeeDTO{Name: name, Kinds: kinds})
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// SUBMISSION
// =============================================================================

func (h *Handler) SubmitRequest(w http.ResponseWriter, r *http.Request) {
	var req SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	date, err := leave.ParseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	kind, err := leave.ParseKind(req.Kind)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	conf, err := h.Processor.Submit(r.Context(), leave.Request{
		Employee:  req.Employee,
		Date:      date,
		Kind:      kind,
		Emergency: req.Emergency,
		Reason:    req.Reason,
	})
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	dto := ConfirmationDTO{
		Employee:  conf.Record.Employee,
		Date:      conf.Record.Date.String(),
		Kind:      string(conf.Record.Kind),
		Emergency: conf.Record.Emergency,
		Units:     conf.Record.Units.String(),
		Deducted:  conf.Deducted,
		Advisory:  conf.Advisory,
		Message:   conf.Message(),
	}
	if conf.Deducted {
		dto.PoolLabel = conf.PoolLabel
		dto.Remaining = conf.Remaining.String()
	}
	writeJSON(w, http.StatusOK, dto)
}

// =============================================================================
// REMINDER
// =============================================================================

func (h *Handler) RunReminder(w http.ResponseWriter, r *http.Request) {
	if err := h.Reminder.Run(r.Context()); err != nil {
		h.writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

// =============================================================================
// HELPERS
// =============================================================================

func recordDTO(rec leave.Record) RecordDTO {
	return RecordDTO{
		Date:      rec.Date.String(),
		Employee:  rec.Employee,
		Kind:      string(rec.Kind),
		Emergency: rec.Emergency,
		Reason:    rec.Reason,
		Units:     rec.Units.String(),
	}
}

func (h *Handler) writeDomainError(w http.ResponseWriter, err error) {
	if v, ok := leave.AsViolation(err); ok {
		writeJSON(w, http.StatusUnprocessableEntity, ErrorDTO{Error: v.Message, Rule: string(v.Rule)})
		return
	}
	var confErr *leave.ConfigurationError
	if errors.As(err, &confErr) {
		writeError(w, http.StatusNotFound, confErr.Error())
		return
	}
	if errors.Is(err, leave.ErrStoreUnavailable) {
		h.Logger.Error("store unavailable", "error", err)
		writeError(w, http.StatusBadGateway, "leave store unavailable, please retry")
		return
	}
	h.Logger.Error("internal error", "error", err)
	writeError(w, http.StatusInternalServerError, "internal error")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorDTO{Error: msg})
}
