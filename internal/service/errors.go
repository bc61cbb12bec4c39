package service

import "net/http"

// Stable error codes for rejected offerings.
const (
	CodeMissingFields       = "missing_fields"
	CodeInvalidTxHash       = "invalid_txhash"
	CodeNetworkNotFound     = "network_not_found"
	CodeAlreadyProcessed    = "already_processed"
	CodeTransactionRejected = "transaction_rejected"
	CodeWrongRecipient      = "wrong_recipient"
	CodeBelowMinimum        = "below_minimum"
	CodeInternal            = "internal"
)

// RequestError is a request-scoped failure with an HTTP status and a stable
// code. Every rejection happens before any irreversible action; once the
// ledger is marked the pipeline returns a Reading instead, carrying a
// degraded payout status if needed.
type RequestError struct {
	Status  int
	Code    string
	Message string
	Hint    string
}

func (e *RequestError) Error() string {
	return e.Message
}

func badRequest(code, message string) *RequestError {
	return &RequestError{Status: http.StatusBadRequest, Code: code, Message: message}
}

func internalError(message string) *RequestError {
	return &RequestError{Status: http.StatusInternalServerError, Code: CodeInternal, Message: message}
}
