/*
handlers.go - HTTP API handlers for the leave balance ledger

PURPOSE:
  Exposes the leave engine via REST API. Handles HTTP request/response,
  JSON serialization, and delegates to domain logic.

ENDPOINTS:
  Employees:
    GET    /api/employees               List active employees
    POST   /api/employees               Create/update employee
    GET    /api/employees/{id}          Get employee details

  Leave:
    POST   /api/leave/apply             Take leave over a date range

  Accounts:
    GET    /api/accounts/{userID}           Balance view (?year=)
    GET    /api/accounts/{userID}/history   Ledger entries (?year=)

  Admin:
    POST   /api/admin/entries           Manual ledger adjustment
    POST   /api/admin/accounts/init     Initialize yearly accounts
    POST   /api/admin/cleanup           Run expiry cleanup for a year

REQUEST FLOW:
  1. Parse HTTP request
  2. Validate input
  3. Call domain logic (engine, store)
  4. Serialize response
  5. Handle errors

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Employee/account not found
  - 500: Internal errors
  Domain errors are classified via leave.IsClientError / leave.IsNotFound.

SECURITY NOTE:
  Currently NO authentication or authorization. All endpoints are public.

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
  - leave/engine.go: The operations these handlers front
*/
package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/warp/leave-ledger/leave"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Engine *leave.Engine
	Store  leave.TxStore

	// Clock for defaulting the year query parameter; injectable for tests.
	Now func() time.Time
}

// NewHandler creates a new handler with the given engine and store.
func NewHandler(engine *leave.Engine, store leave.TxStore) *Handler {
	return &Handler{
		Engine: engine,
		Store:  store,
		Now:    time.Now,
	}
}

// =============================================================================
// EMPLOYEE HANDLERS
// =============================================================================

// ListEmployees returns all active employees.
func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.Store.ListActiveEmployees(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list employees", err)
		return
	}

	dtos := make([]EmployeeDTO, len(employees))
	for i, emp := range employees {
		dtos[i] = toEmployeeDTO(emp)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetEmployee returns a single employee.
func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	emp, err := h.Store.GetEmployee(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get employee", err)
		return
	}
	if emp == nil {
		writeError(w, http.StatusNotFound, "Employee not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, toEmployeeDTO(*emp))
}

// CreateEmployee creates or updates an employee record.
func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var req CreateEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.ID == "" || req.Name == "" {
		writeError(w, http.StatusBadRequest, "id and name are required", nil)
		return
	}

	emp := leave.Employee{
		ID:     req.ID,
		Name:   req.Name,
		Status: leave.StatusActive,
	}
	if req.Status != "" {
		emp.Status = leave.EmployeeStatus(req.Status)
	}
	if req.EntryDate != "" {
		d, err := leave.ParseDate(req.EntryDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid entry_date format (use YYYY-MM-DD)", err)
			return
		}
		emp.EntryDate = &d
	}
	if req.FirstWorkDate != "" {
		d, err := leave.ParseDate(req.FirstWorkDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid first_work_date format (use YYYY-MM-DD)", err)
			return
		}
		emp.FirstWorkDate = &d
	}

	if err := h.Store.SaveEmployee(r.Context(), emp); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save employee", err)
		return
	}
	writeJSON(w, http.StatusCreated, toEmployeeDTO(emp))
}

// =============================================================================
// LEAVE HANDLERS
// =============================================================================

// ApplyLeave deducts a leave span from the user's balance.
// POST /api/leave/apply
func (h *Handler) ApplyLeave(w http.ResponseWriter, r *http.Request) {
	var req ApplyLeaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.UserID == "" {
		writeError(w, http.StatusBadRequest, "user_id is required", nil)
		return
	}

	startDate, err := leave.ParseDate(req.StartDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid start_date format (use YYYY-MM-DD)", err)
		return
	}
	endDate, err := leave.ParseDate(req.EndDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid end_date format (use YYYY-MM-DD)", err)
		return
	}
	if endDate.Before(startDate) {
		writeError(w, http.StatusBadRequest, "end_date must not precede start_date", nil)
		return
	}

	entries, err := h.Engine.ApplyLeave(r.Context(), req.UserID, startDate, endDate)
	if err != nil {
		writeDomainError(w, "Failed to apply leave", err)
		return
	}
	writeJSON(w, http.StatusCreated, toEntryDTOs(entries))
}

// AddEntry records a manual adjustment.
// POST /api/admin/entries
func (h *Handler) AddEntry(w http.ResponseWriter, r *http.Request) {
	var req AddEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.UserID == "" || req.Type == "" {
		writeError(w, http.StatusBadRequest, "user_id and type are required", nil)
		return
	}

	startDate, err := leave.ParseDate(req.StartDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid start_date format (use YYYY-MM-DD)", err)
		return
	}
	endDate := startDate
	if req.EndDate != "" {
		if endDate, err = leave.ParseDate(req.EndDate); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid end_date format (use YYYY-MM-DD)", err)
			return
		}
	}

	entry := leave.LedgerEntry{
		UserID:    req.UserID,
		Days:      leave.Days(req.Days),
		Type:      leave.EntryType(req.Type),
		StartDate: startDate,
		EndDate:   endDate,
		Remarks:   req.Remarks,
	}
	if req.ExpiryDate != "" {
		d, err := leave.ParseDate(req.ExpiryDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid expiry_date format (use YYYY-MM-DD)", err)
			return
		}
		entry.ExpiryDate = &d
	}

	entries, err := h.Engine.AddEntry(r.Context(), entry)
	if err != nil {
		writeDomainError(w, "Failed to add entry", err)
		return
	}
	writeJSON(w, http.StatusCreated, toEntryDTOs(entries))
}

// =============================================================================
// ACCOUNT HANDLERS
// =============================================================================

// GetAccount returns the balance view for a user.
// GET /api/accounts/{userID}?year=2025
func (h *Handler) GetAccount(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	year, ok := h.yearParam(w, r)
	if !ok {
		return
	}

	view, err := h.Engine.AccountView(r.Context(), userID, year)
	if err != nil {
		writeDomainError(w, "Failed to build account view", err)
		return
	}
	writeJSON(w, http.StatusOK, toAccountViewDTO(*view))
}

// GetHistory returns the year's ledger entries for a user.
// GET /api/accounts/{userID}/history?year=2025
func (h *Handler) GetHistory(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	year, ok := h.yearParam(w, r)
	if !ok {
		return
	}

	entries, err := h.Engine.History(r.Context(), userID, year)
	if err != nil {
		writeDomainError(w, "Failed to load history", err)
		return
	}
	writeJSON(w, http.StatusOK, toEntryDTOs(entries))
}

// =============================================================================
// ADMIN HANDLERS
// =============================================================================

// InitAccounts initializes yearly accounts for one user or all active
// employees.
// POST /api/admin/accounts/init
func (h *Handler) InitAccounts(w http.ResponseWriter, r *http.Request) {
	var req InitAccountsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Year == 0 {
		req.Year = h.Now().Year()
	}

	if req.UserID != "" {
		account, err := h.Engine.InitYearlyAccount(r.Context(), req.UserID, req.Year)
		if err != nil {
			writeDomainError(w, "Failed to initialize account", err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"user_id": account.UserID,
			"year":    account.Year,
		})
		return
	}

	result, err := h.Engine.InitAllAccounts(r.Context(), req.Year)
	if err != nil {
		writeDomainError(w, "Failed to initialize accounts", err)
		return
	}
	writeJSON(w, http.StatusOK, InitResultDTO{
		Year:      result.Year,
		Succeeded: result.Succeeded,
		Failed:    result.Failed,
	})
}

// Cleanup runs the expiry cleanup job for a year.
// POST /api/admin/cleanup
func (h *Handler) Cleanup(w http.ResponseWriter, r *http.Request) {
	var req CleanupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Year == 0 {
		req.Year = h.Now().Year()
	}

	result, err := h.Engine.CleanupYear(r.Context(), req.Year)
	if err != nil {
		writeDomainError(w, "Failed to run cleanup", err)
		return
	}
	total, _ := result.TotalExpired.Float64()
	writeJSON(w, http.StatusOK, CleanupResultDTO{
		Year:            result.Year,
		AccountsSeen:    result.AccountsSeen,
		AccountsExpired: result.AccountsExpired,
		Failed:          result.Failed,
		TotalExpired:    total,
	})
}

// =============================================================================
// HELPERS
// =============================================================================

// yearParam reads ?year= and defaults to the current year.
func (h *Handler) yearParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := r.URL.Query().Get("year")
	if raw == "" {
		return h.Now().Year(), true
	}
	year, err := strconv.Atoi(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid year parameter", err)
		return 0, false
	}
	return year, true
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeDomainError maps engine errors onto HTTP status codes.
func writeDomainError(w http.ResponseWriter, message string, err error) {
	switch {
	case leave.IsClientError(err):
		writeError(w, http.StatusBadRequest, message, err)
	case leave.IsNotFound(err):
		writeError(w, http.StatusNotFound, message, err)
	default:
		writeError(w, http.StatusInternalServerError, message, err)
	}
}
