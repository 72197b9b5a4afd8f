package errors

import (
	"net/http"
	"strings"
)

// ErrorCode is a string representation of a specific error condition.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common error codes.
const (
	CodeInternal           ErrorCode = "COMMON_001"
	CodeInvalidParam       ErrorCode = "COMMON_002"
	CodeNotFound           ErrorCode = "COMMON_003"
	CodeConflict           ErrorCode = "COMMON_004"
	CodeTimeout            ErrorCode = "COMMON_005"
	CodeValidation         ErrorCode = "COMMON_006"
	CodeSerialization      ErrorCode = "COMMON_007"
	CodeDatabaseError      ErrorCode = "COMMON_008"
	CodeCacheError         ErrorCode = "COMMON_009"
	CodeMessageQueueError  ErrorCode = "COMMON_010"
	CodeExternalService    ErrorCode = "COMMON_011"
	CodeServiceUnavailable ErrorCode = "COMMON_012"
	CodeConfigInvalid      ErrorCode = "COMMON_013"

	CodeOK      ErrorCode = "OK"
	CodeUnknown ErrorCode = "UNKNOWN"
)

// Warning module error codes.
const (
	CodeWarningNotFound      ErrorCode = "WRN_001"
	CodeWarningAlreadyExists ErrorCode = "WRN_002"
	CodeWarningSaveFailed    ErrorCode = "WRN_003"
	CodeBulletinInvalid      ErrorCode = "WRN_004"
	CodeSourceUnsupported    ErrorCode = "WRN_005"
)

// Assessment module error codes.
const (
	CodeVesselNotFound     ErrorCode = "ASM_001"
	CodeVesselStateInvalid ErrorCode = "ASM_002"
	CodeFleetEmpty         ErrorCode = "ASM_003"
	CodeHazardBuildFailed  ErrorCode = "ASM_004"
)

// Keyword module error codes.
const (
	CodeKeywordExists    ErrorCode = "KWD_001"
	CodeKeywordNotFound  ErrorCode = "KWD_002"
	CodeKeywordListEmpty ErrorCode = "KWD_003"
)

// Notification module error codes.
const (
	CodeNotifyFailed        ErrorCode = "NTF_001"
	CodeNotifyConfigMissing ErrorCode = "NTF_002"
	CodeNotifyRateLimited   ErrorCode = "NTF_003"
)

// ErrorCodeHTTPStatus maps ErrorCodes to HTTP status codes.
var ErrorCodeHTTPStatus = map[ErrorCode]int{
	CodeInternal:           http.StatusInternalServerError,
	CodeInvalidParam:       http.StatusBadRequest,
	CodeNotFound:           http.StatusNotFound,
	CodeConflict:           http.StatusConflict,
	CodeTimeout:            http.StatusGatewayTimeout,
	CodeValidation:         http.StatusUnprocessableEntity,
	CodeSerialization:      http.StatusInternalServerError,
	CodeDatabaseError:      http.StatusInternalServerError,
	CodeCacheError:         http.StatusInternalServerError,
	CodeMessageQueueError:  http.StatusInternalServerError,
	CodeExternalService:    http.StatusBadGateway,
	CodeServiceUnavailable: http.StatusServiceUnavailable,
	CodeConfigInvalid:      http.StatusInternalServerError,

	CodeWarningNotFound:      http.StatusNotFound,
	CodeWarningAlreadyExists: http.StatusConflict,
	CodeWarningSaveFailed:    http.StatusInternalServerError,
	CodeBulletinInvalid:      http.StatusBadRequest,
	CodeSourceUnsupported:    http.StatusBadRequest,

	CodeVesselNotFound:     http.StatusNotFound,
	CodeVesselStateInvalid: http.StatusBadRequest,
	CodeFleetEmpty:         http.StatusBadRequest,
	CodeHazardBuildFailed:  http.StatusInternalServerError,

	CodeKeywordExists:    http.StatusConflict,
	CodeKeywordNotFound:  http.StatusNotFound,
	CodeKeywordListEmpty: http.StatusBadRequest,

	CodeNotifyFailed:        http.StatusInternalServerError,
	CodeNotifyConfigMissing: http.StatusInternalServerError,
	CodeNotifyRateLimited:   http.StatusTooManyRequests,
}

// ErrorCodeMessage maps ErrorCodes to default messages.
var ErrorCodeMessage = map[ErrorCode]string{
	CodeInternal:           "internal server error",
	CodeInvalidParam:       "bad request",
	CodeNotFound:           "resource not found",
	CodeConflict:           "resource conflict",
	CodeTimeout:            "request timeout",
	CodeValidation:         "validation failed",
	CodeSerialization:      "serialization failed",
	CodeDatabaseError:      "database error",
	CodeCacheError:         "cache error",
	CodeMessageQueueError:  "message queue error",
	CodeExternalService:    "external service error",
	CodeServiceUnavailable: "service unavailable",
	CodeConfigInvalid:      "invalid configuration",

	CodeWarningNotFound:      "navigational warning not found",
	CodeWarningAlreadyExists: "navigational warning already recorded",
	CodeWarningSaveFailed:    "failed to persist navigational warning",
	CodeBulletinInvalid:      "bulletin payload invalid",
	CodeSourceUnsupported:    "unsupported bulletin source",

	CodeVesselNotFound:     "vessel not tracked",
	CodeVesselStateInvalid: "invalid vessel state",
	CodeFleetEmpty:         "fleet has no vessels",
	CodeHazardBuildFailed:  "failed to build hazard zones",

	CodeKeywordExists:    "keyword already present",
	CodeKeywordNotFound:  "keyword not present",
	CodeKeywordListEmpty: "keyword list is empty",

	CodeNotifyFailed:        "failed to deliver notification",
	CodeNotifyConfigMissing: "notification channel not configured",
	CodeNotifyRateLimited:   "notification channel rate limited",
}

// HTTPStatusForCode returns the HTTP status code for an ErrorCode.
func HTTPStatusForCode(code ErrorCode) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DefaultMessageForCode returns the default message for an ErrorCode.
func DefaultMessageForCode(code ErrorCode) string {
	if msg, ok := ErrorCodeMessage[code]; ok {
		return msg
	}
	return "unknown error"
}

// IsClientError returns true if the ErrorCode corresponds to a 4xx HTTP status.
func IsClientError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 400 && status < 500
}

// IsServerError returns true if the ErrorCode corresponds to a 5xx HTTP status.
func IsServerError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 500 && status < 600
}

// ModuleForCode returns the module prefix of an ErrorCode.
func ModuleForCode(code ErrorCode) string {
	parts := strings.Split(string(code), "_")
	if len(parts) > 0 && parts[0] != "" {
		return parts[0]
	}
	return "UNKNOWN"
}
