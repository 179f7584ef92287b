package constants

// Common error messages
const (
	ErrInvalidJSON        = "invalid json or missing fields"
	ErrInvalidRequestBody = "Invalid request body"
	ErrMethodNotAllowed   = "Method Not Allowed"
	ErrDB                 = "DB error"
	ErrClientNotFound     = "client not found"
	ErrPaymentNotFound    = "payment record not found"
	ErrNameRequired       = "name required"
	ErrMonthRequired      = "month required"
)

// Response keys
const (
	ValueSuccess = "success"
	ValueError   = "error"
)

// Content types
const (
	ContentTypeText = "Content-Type"
	ContentTypeJSON = "application/json"
	ContentTypeCSV  = "text/csv"
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// Date formats
const (
	DateFormat      = "2006-01-02"
	MonthFormat     = "2006-01"
	DateTimeFormat  = "2006-01-02 15:04:05"
	DisplayMonthFmt = "Jan 2006"
)
