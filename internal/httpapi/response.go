package httpapi

import (
	"errors"
	"net/http"

	"github.com/HendryAvila/clarify/internal/api"
	"github.com/HendryAvila/clarify/internal/memory"
	"github.com/HendryAvila/clarify/internal/service"
	"github.com/gin-gonic/gin"
)

// errorJSON writes an error body and aborts the chain.
func errorJSON(c *gin.Context, status int, code, message, detail string) {
	c.AbortWithStatusJSON(status, api.ErrorResponse{
		Code:    code,
		Message: message,
		Detail:  detail,
	})
}

// badRequest answers 400 for input the handler could not accept.
func badRequest(c *gin.Context, message string, err error) {
	detail := ""
	if err != nil {
		detail = err.Error()
	}
	errorJSON(c, http.StatusBadRequest, api.CodeBadRequest, message, detail)
}

// serviceError maps a service error onto a status code.
func serviceError(c *gin.Context, message string, err error) {
	switch {
	case errors.Is(err, service.ErrBadRequest):
		errorJSON(c, http.StatusBadRequest, api.CodeBadRequest, message, err.Error())
	case errors.Is(err, memory.ErrThreadNotFound):
		errorJSON(c, http.StatusNotFound, api.CodeNotFound, message, err.Error())
	default:
		_ = c.Error(err)
		errorJSON(c, http.StatusInternalServerError, api.CodeInternal, message, err.Error())
	}
}
