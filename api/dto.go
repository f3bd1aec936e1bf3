/*
dto.go - JSON types for the API

NAMING CONVENTION:
  - *DTO: response types returned to clients
  - *Request: request bodies from clients

DTOs are pure data carriers; validation happens in handlers.
*/
package api

// LoginRequest carries the shared passphrase.
type LoginRequest struct {
	Passphrase string `json:"passphrase"`
}

// SubmitRequest is the leave submission body.
type SubmitRequest struct {
	Employee  string `json:"employee"`
	Date      string `json:"date"` // YYYY-MM-DD
	Kind      string `json:"kind"`
	Emergency bool   `json:"emergency"`
	Reason    string `json:"reason"`
}

// ConfirmationDTO is the accepted-submission response.
type ConfirmationDTO struct {
	Employee  string `json:"employee"`
	Date      string `json:"date"`
	Kind      string `json:"kind"`
	Emergency bool   `json:"emergency"`
	Units     string `json:"units"`
	Deducted  bool   `json:"deducted"`
	PoolLabel string `json:"pool_label,omitempty"`
	Remaining string `json:"remaining,omitempty"`
	Advisory  string `json:"advisory,omitempty"`
	Message   string `json:"message"`
}

// BalanceDTO is one dashboard balance cell.
type BalanceDTO struct {
	Employee  string `json:"employee"`
	Pool      string `json:"pool"`
	Label     string `json:"label"`
	Remaining string `json:"remaining"`
}

// RecordDTO is one ledger row in history responses.
type RecordDTO struct {
	Date      string `json:"date"`
	Employee  string `json:"employee"`
	Kind      string `json:"kind"`
	Emergency bool   `json:"emergency"`
	Reason    string `json:"reason"`
	Units     string `json:"units"`
}

// EmployeeDTO describes a selectable employee for the request form.
type EmployeeDTO struct {
	Name  string   `json:"name"`
	Kinds []string `json:"kinds"`
}

// ErrorDTO is the uniform error body.
type ErrorDTO struct {
	Error string `json:"error"`
	Rule  string `json:"rule,omitempty"`
}
