/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract, allowing:
  - Field renaming without breaking clients
  - API-specific validation
  - Version evolution

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

VALIDATION:
  Validation is done in handlers, not in DTOs. DTOs are pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
  - leave/types.go: Domain types these mirror
*/
package api

import (
	"time"

	"github.com/warp/leave-ledger/leave"
)

// =============================================================================
// REQUEST/RESPONSE TYPES
// =============================================================================

// EmployeeDTO represents an employee in API responses.
type EmployeeDTO struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	EntryDate     string `json:"entry_date,omitempty"`
	FirstWorkDate string `json:"first_work_date,omitempty"`
	Status        string `json:"status"`
	CreatedAt     string `json:"created_at,omitempty"`
}

// CreateEmployeeRequest is the request to create or update an employee.
type CreateEmployeeRequest struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	EntryDate     string `json:"entry_date,omitempty"`
	FirstWorkDate string `json:"first_work_date,omitempty"`
	Status        string `json:"status,omitempty"`
}

// ApplyLeaveRequest is the request to take leave over a date range.
type ApplyLeaveRequest struct {
	UserID    string `json:"user_id"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Remarks   string `json:"remarks,omitempty"`
}

// AddEntryRequest is the request to record a manual ledger adjustment.
type AddEntryRequest struct {
	UserID     string  `json:"user_id"`
	Days       float64 `json:"days"`
	Type       string  `json:"type"`
	StartDate  string  `json:"start_date"`
	EndDate    string  `json:"end_date,omitempty"`
	ExpiryDate string  `json:"expiry_date,omitempty"`
	Remarks    string  `json:"remarks,omitempty"`
}

// InitAccountsRequest triggers yearly account initialization. An empty
// UserID means every active employee.
type InitAccountsRequest struct {
	Year   int    `json:"year"`
	UserID string `json:"user_id,omitempty"`
}

// CleanupRequest triggers the expiry cleanup for a year.
type CleanupRequest struct {
	Year int `json:"year"`
}

// EntryDTO represents a ledger entry.
type EntryDTO struct {
	ID         string  `json:"id"`
	UserID     string  `json:"user_id"`
	Days       float64 `json:"days"`
	Type       string  `json:"type"`
	StartDate  string  `json:"start_date"`
	EndDate    string  `json:"end_date"`
	ExpiryDate *string `json:"expiry_date,omitempty"`
	CreateTime string  `json:"create_time"`
	Remarks    string  `json:"remarks,omitempty"`
}

// AccountViewDTO is the balance report for one user and year.
type AccountViewDTO struct {
	UserID          string     `json:"user_id"`
	Year            int        `json:"year"`
	SocialSeniority int        `json:"social_seniority"`
	StandardQuota   float64    `json:"standard_quota"`
	ActualQuota     float64    `json:"actual_quota"`
	DaysEmployed    int        `json:"days_employed"`
	LastYearBalance float64    `json:"last_year_balance"`
	CurrentYearUsed float64    `json:"current_year_used"`
	TotalBalance    float64    `json:"total_balance"`
	Entries         []EntryDTO `json:"entries"`
}

// CleanupResultDTO summarizes an expiry cleanup run.
type CleanupResultDTO struct {
	Year            int     `json:"year"`
	AccountsSeen    int     `json:"accounts_seen"`
	AccountsExpired int     `json:"accounts_expired"`
	Failed          int     `json:"failed"`
	TotalExpired    float64 `json:"total_expired"`
}

// InitResultDTO summarizes a batch account initialization.
type InitResultDTO struct {
	Year      int `json:"year"`
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func toEmployeeDTO(emp leave.Employee) EmployeeDTO {
	dto := EmployeeDTO{
		ID:     emp.ID,
		Name:   emp.Name,
		Status: string(emp.Status),
	}
	if emp.EntryDate != nil {
		dto.EntryDate = emp.EntryDate.String()
	}
	if emp.FirstWorkDate != nil {
		dto.FirstWorkDate = emp.FirstWorkDate.String()
	}
	if !emp.CreatedAt.IsZero() {
		dto.CreatedAt = emp.CreatedAt.Format(time.RFC3339)
	}
	return dto
}

func toEntryDTO(entry leave.LedgerEntry) EntryDTO {
	days, _ := entry.Days.Float64()
	dto := EntryDTO{
		ID:         entry.ID,
		UserID:     entry.UserID,
		Days:       days,
		Type:       string(entry.Type),
		StartDate:  entry.StartDate.String(),
		EndDate:    entry.EndDate.String(),
		CreateTime: entry.CreateTime.Format(time.RFC3339),
		Remarks:    entry.Remarks,
	}
	if entry.ExpiryDate != nil {
		s := entry.ExpiryDate.String()
		dto.ExpiryDate = &s
	}
	return dto
}

func toEntryDTOs(entries []leave.LedgerEntry) []EntryDTO {
	dtos := make([]EntryDTO, len(entries))
	for i, entry := range entries {
		dtos[i] = toEntryDTO(entry)
	}
	return dtos
}

func toAccountViewDTO(view leave.AccountView) AccountViewDTO {
	standard, _ := view.StandardQuota.Float64()
	actual, _ := view.ActualQuota.Float64()
	lastYear, _ := view.LastYearBalance.Float64()
	used, _ := view.CurrentYearUsed.Float64()
	total, _ := view.TotalBalance.Float64()
	return AccountViewDTO{
		UserID:          view.UserID,
		Year:            view.Year,
		SocialSeniority: view.SocialSeniority,
		StandardQuota:   standard,
		ActualQuota:     actual,
		DaysEmployed:    view.DaysEmployed,
		LastYearBalance: lastYear,
		CurrentYearUsed: used,
		TotalBalance:    total,
		Entries:         toEntryDTOs(view.Entries),
	}
}
