package errors

import (
	"fmt"
	"net/http"
)

// Code represents an error code with HTTP status and message
type Code struct {
	Code    int    // Business error code
	Status  int    // HTTP status code
	Message string // Error message
}

// Error codes for different modules
const (
	// Success
	Success = 0

	// Common errors (1000-1999)
	ErrInternalServer  = 1000
	ErrInvalidParams   = 1001
	ErrNotFound        = 1002
	ErrConflict        = 1003
	ErrTooManyRequests = 1004
	ErrBadRequest      = 1005
	ErrServiceUnavail  = 1006

	// Upload pipeline errors (2000-2999)
	ErrUploadNoFile         = 2000
	ErrUploadSourceDownload = 2001
	ErrUploadStorageWrite   = 2002
	ErrUploadLedgerWrite    = 2003
	ErrUploadOrchestration  = 2004
	ErrUploadFileTooLarge   = 2005

	// Ledger errors (3000-3999)
	ErrLedgerQueryFailed = 3000
)

// codeMap maps error codes to their details
var codeMap = map[int]Code{
	Success: {Success, http.StatusOK, "Success"},

	// Common errors
	ErrInternalServer:  {ErrInternalServer, http.StatusInternalServerError, "Internal server error"},
	ErrInvalidParams:   {ErrInvalidParams, http.StatusBadRequest, "Invalid parameters"},
	ErrNotFound:        {ErrNotFound, http.StatusNotFound, "Resource not found"},
	ErrConflict:        {ErrConflict, http.StatusConflict, "Resource conflict"},
	ErrTooManyRequests: {ErrTooManyRequests, http.StatusTooManyRequests, "Too many requests"},
	ErrBadRequest:      {ErrBadRequest, http.StatusBadRequest, "Bad request"},
	ErrServiceUnavail:  {ErrServiceUnavail, http.StatusServiceUnavailable, "Service unavailable"},

	// Upload pipeline errors
	ErrUploadNoFile:         {ErrUploadNoFile, http.StatusBadRequest, "No files were uploaded"},
	ErrUploadSourceDownload: {ErrUploadSourceDownload, http.StatusBadGateway, "Failed to download source file"},
	ErrUploadStorageWrite:   {ErrUploadStorageWrite, http.StatusInternalServerError, "Failed to write file to storage"},
	ErrUploadLedgerWrite:    {ErrUploadLedgerWrite, http.StatusInternalServerError, "Failed to record upload"},
	ErrUploadOrchestration:  {ErrUploadOrchestration, http.StatusInternalServerError, "Upload processing failed"},
	ErrUploadFileTooLarge:   {ErrUploadFileTooLarge, http.StatusBadRequest, "File size exceeds limit"},

	// Ledger errors
	ErrLedgerQueryFailed: {ErrLedgerQueryFailed, http.StatusInternalServerError, "Ledger query failed"},
}

// GetCode returns the Code for a given error code
func GetCode(code int) Code {
	if c, ok := codeMap[code]; ok {
		return c
	}
	return codeMap[ErrInternalServer]
}

// GetHTTPStatus returns HTTP status for a given error code
func GetHTTPStatus(code int) int {
	return GetCode(code).Status
}

// GetMessage returns the message for a given error code
func GetMessage(code int) string {
	return GetCode(code).Message
}

// IsSuccess checks if the code represents success
func IsSuccess(code int) bool {
	return code == Success
}

// IsClientError checks if the code represents a client error (4xx)
func IsClientError(code int) bool {
	status := GetHTTPStatus(code)
	return status >= 400 && status < 500
}

// IsServerError checks if the code represents a server error (5xx)
func IsServerError(code int) bool {
	return GetHTTPStatus(code) >= 500
}

// FormatError formats an error message with code
func FormatError(code int, details ...string) string {
	msg := GetMessage(code)
	if len(details) > 0 && details[0] != "" {
		return fmt.Sprintf("%s: %s", msg, details[0])
	}
	return msg
}
