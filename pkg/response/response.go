package response

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	StatusSuccess = "success"
	StatusFail    = "fail"
	StatusError   = "error"
)

type APIResponse[T any] struct {
	Status    string            `json:"status"`
	Message   string            `json:"message,omitempty"`
	Data      T                 `json:"data,omitempty"`
	Meta      any               `json:"meta,omitempty"`
	Errors    map[string]string `json:"errors,omitempty"`
	RequestID string            `json:"request_id,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
}

// Success writes a success envelope. data is wrapped as-is, so callers pass
// gin.H{"task": view} to get {"data":{"task":{...}}}.
func Success[T any](ctx *gin.Context, status int, data T, message string, meta any) {
	if status == 0 {
		status = http.StatusOK
	}
	ctx.JSON(status, APIResponse[T]{
		Status:    StatusSuccess,
		Message:   message,
		Data:      data,
		Meta:      meta,
		RequestID: ctx.GetString("request_id"),
		Timestamp: time.Now().UTC(),
	})
}

// Error writes a failure envelope: "fail" for 4xx, "error" for 5xx.
func Error(ctx *gin.Context, status int, message string, errs map[string]string) {
	if status == 0 {
		status = http.StatusBadRequest
	}
	st := StatusFail
	if status >= http.StatusInternalServerError {
		st = StatusError
	}
	ctx.JSON(status, APIResponse[any]{
		Status:    st,
		Message:   message,
		Errors:    errs,
		RequestID: ctx.GetString("request_id"),
		Timestamp: time.Now().UTC(),
	})
}

// NoContent writes an empty 204.
func NoContent(ctx *gin.Context) {
	ctx.Status(http.StatusNoContent)
}
