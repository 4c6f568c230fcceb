package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Reena-coderrr/Ai-margeting-agents-sub001/internal/entitlement"
)

const (
	CodeSuccess          = 0
	CodeParamError       = 1000
	CodeAuthFailed       = 1001
	CodePermissionDenied = 1002
	CodeResourceNotFound = 1003
	CodeQuotaExceeded    = 1004
	CodeDuplicateAction  = 1005
	CodeAccountSuspended = 1006
	CodeTrialExpired     = 1007
	CodePlanInsufficient = 1008
	CodeConflict         = 1009
	CodeServerError      = 5000
)

var codeMessages = map[int]string{
	CodeSuccess:          "success",
	CodeParamError:       "invalid parameters",
	CodeAuthFailed:       "authentication failed",
	CodePermissionDenied: "permission denied",
	CodeResourceNotFound: "resource not found",
	CodeQuotaExceeded:    "monthly generation quota exceeded",
	CodeDuplicateAction:  "duplicate action",
	CodeAccountSuspended: "account is suspended",
	CodeTrialExpired:     "trial has expired",
	CodePlanInsufficient: "current plan does not include this tool",
	CodeConflict:         "account was updated concurrently, try again",
	CodeServerError:      "internal server error",
}

var reasonCodes = map[entitlement.Reason]int{
	entitlement.ReasonSuspended:        CodeAccountSuspended,
	entitlement.ReasonTrialExpired:     CodeTrialExpired,
	entitlement.ReasonPlanInsufficient: CodePlanInsufficient,
	entitlement.ReasonQuotaExceeded:    CodeQuotaExceeded,
}

// Response is the envelope of every API reply.
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

type PageData struct {
	Total    int64       `json:"total"`
	Page     int         `json:"page"`
	PageSize int         `json:"page_size"`
	Items    interface{} `json:"items"`
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    CodeSuccess,
		Message: "success",
		Data:    data,
	})
}

func SuccessWithMessage(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    CodeSuccess,
		Message: message,
		Data:    data,
	})
}

func SuccessPage(c *gin.Context, total int64, page, pageSize int, items interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    CodeSuccess,
		Message: "success",
		Data: PageData{
			Total:    total,
			Page:     page,
			PageSize: pageSize,
			Items:    items,
		},
	})
}

// Error replies with code; an empty message falls back to the code's default.
func Error(c *gin.Context, code int, message string) {
	if message == "" {
		message = codeMessages[code]
	}
	c.JSON(http.StatusOK, Response{
		Code:    code,
		Message: message,
		Data:    nil,
	})
}

// ErrorWithData is Error carrying a payload, used for denials.
func ErrorWithData(c *gin.Context, code int, message string, data interface{}) {
	if message == "" {
		message = codeMessages[code]
	}
	c.JSON(http.StatusOK, Response{
		Code:    code,
		Message: message,
		Data:    data,
	})
}

// ReasonCode maps a denial reason to its error code. ReasonOK maps to
// CodeSuccess.
func ReasonCode(reason entitlement.Reason) int {
	if code, ok := reasonCodes[reason]; ok {
		return code
	}
	if reason == entitlement.ReasonOK {
		return CodeSuccess
	}
	return CodePermissionDenied
}

// Denied replies with the code for reason.
func Denied(c *gin.Context, reason entitlement.Reason, data interface{}) {
	ErrorWithData(c, ReasonCode(reason), "", data)
}

func ParamError(c *gin.Context, message string) {
	Error(c, CodeParamError, message)
}

func AuthError(c *gin.Context, message string) {
	Error(c, CodeAuthFailed, message)
}

func PermissionError(c *gin.Context, message string) {
	Error(c, CodePermissionDenied, message)
}

func NotFoundError(c *gin.Context, message string) {
	Error(c, CodeResourceNotFound, message)
}

func QuotaError(c *gin.Context, message string) {
	Error(c, CodeQuotaExceeded, message)
}

func DuplicateError(c *gin.Context, message string) {
	Error(c, CodeDuplicateAction, message)
}

func ConflictError(c *gin.Context, message string) {
	Error(c, CodeConflict, message)
}

func ServerError(c *gin.Context, message string) {
	Error(c, CodeServerError, message)
}
