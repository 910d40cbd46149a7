package apperror

import (
	"fmt"
	"net/http"
)

// AppError is a structured error. The HTTP status is advisory for the
// transport layer owned by callers of this engine.
type AppError struct {
	Code       string `json:"error_code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"` // Wrapped internal error (not exposed to client)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError.
func New(code string, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap wraps an internal error with an AppError.
func Wrap(code string, message string, httpStatus int, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// ---- Validation (VAL) ----

func ErrInvalidAmount() *AppError {
	return New("VAL_001", "Amount must be positive", http.StatusBadRequest)
}

func ErrEmptyReason() *AppError {
	return New("VAL_002", "Refund reason must not be empty", http.StatusBadRequest)
}

// Validation returns a VAL_003 error with a caller-supplied message.
func Validation(message string) *AppError {
	return New("VAL_003", message, http.StatusBadRequest)
}

// ---- Policy violations (POL) ----

func ErrInsufficientBalance(required, available int64) *AppError {
	return New("POL_001",
		fmt.Sprintf("Insufficient balance: required %d, available %d", required, available),
		http.StatusPaymentRequired)
}

func ErrInactiveWallet() *AppError {
	return New("POL_002", "Wallet is not active", http.StatusUnprocessableEntity)
}

func ErrDailyLimitExceeded(used, limit int64) *AppError {
	return New("POL_003",
		fmt.Sprintf("Daily transaction limit exceeded: used %d of %d, remaining %d", used, limit, limit-used),
		http.StatusUnprocessableEntity)
}

func ErrMonthlyLimitExceeded(used, limit int64) *AppError {
	return New("POL_004",
		fmt.Sprintf("Monthly transaction limit exceeded: used %d of %d, remaining %d", used, limit, limit-used),
		http.StatusUnprocessableEntity)
}

func ErrSameWalletTransfer() *AppError {
	return New("POL_005", "Source and destination wallets must differ", http.StatusUnprocessableEntity)
}

func ErrWrongOwner() *AppError {
	return New("POL_006", "Wallet owner does not match bill owner", http.StatusForbidden)
}

func ErrTerminalBillStatus(status string) *AppError {
	return New("POL_007",
		fmt.Sprintf("Bill status %q does not permit this operation", status),
		http.StatusUnprocessableEntity)
}

func ErrRefundExceedsPaid(requested, refundable int64) *AppError {
	return New("POL_008",
		fmt.Sprintf("Refund of %d exceeds refundable amount %d", requested, refundable),
		http.StatusUnprocessableEntity)
}

func ErrAmountExceedsRemaining(requested, remaining int64) *AppError {
	return New("POL_010",
		fmt.Sprintf("Payment of %d exceeds bill remaining amount %d", requested, remaining),
		http.StatusUnprocessableEntity)
}

func ErrInvalidDepositTransition(from, to string) *AppError {
	return New("POL_009",
		fmt.Sprintf("Deposit cannot move from %s to %s", from, to),
		http.StatusUnprocessableEntity)
}

// ---- Not found (NF) ----

func ErrNotFound(entity string) *AppError {
	return New("NF_001", fmt.Sprintf("%s not found", entity), http.StatusNotFound)
}

// ---- Conflicts (CON) ----

func ErrDuplicateReference() *AppError {
	return New("CON_001", "Reference id already applied to this wallet", http.StatusConflict)
}

func ErrConcurrentModification() *AppError {
	return New("CON_002", "Wallet was modified concurrently, retry the operation", http.StatusConflict)
}

// ---- System & Infrastructure (SYS) ----

func ErrDatabaseError(err error) *AppError {
	return Wrap("SYS_001", "Internal database error", http.StatusInternalServerError, err)
}

func ErrLockTimeout(err error) *AppError {
	return Wrap("SYS_002", "Lock acquisition timeout", http.StatusServiceUnavailable, err)
}

// InternalError wraps an internal error as a SYS_001 error.
func InternalError(err error) *AppError {
	return Wrap("SYS_001", "Internal server error", http.StatusInternalServerError, err)
}
