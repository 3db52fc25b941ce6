package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"dchanga/internal/repository"
	"dchanga/internal/service"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// InsufficientFundsResponse is returned when the payer balance cannot cover a transfer.
type InsufficientFundsResponse struct {
	Error     string `json:"error"`
	Needed    string `json:"needed"`
	Available string `json:"available"`
}

// respondError sends an error response with the appropriate HTTP status code.
// Server-side failures get a generic message; the cause is logged and attached
// to the request for the APM middleware.
func respondError(c *gin.Context, err error) {
	code := mapErrorToHTTPStatus(err)
	_ = c.Error(err)

	var insufficient *service.InsufficientFundsError
	switch {
	case errors.As(err, &insufficient):
		c.JSON(code, InsufficientFundsResponse{
			Error:     insufficient.Error(),
			Needed:    insufficient.Needed.String(),
			Available: insufficient.Available.String(),
		})
	case code >= http.StatusInternalServerError:
		log.Printf("[handler] %s %s: %v", c.Request.Method, c.FullPath(), err)
		c.JSON(code, ErrorResponse{Error: genericMessage(err)})
	default:
		c.JSON(code, ErrorResponse{Error: err.Error()})
	}
}

// respondBadRequest sends a 400 with msg.
func respondBadRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: msg})
}

// respondJSON sends a JSON response with the given status code.
func respondJSON(c *gin.Context, code int, data any) {
	c.JSON(code, data)
}

// mapErrorToHTTPStatus maps service/repository errors to HTTP status codes.
func mapErrorToHTTPStatus(err error) int {
	switch {
	// Not found errors
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound

	// Validation errors - Bad Request
	case errors.Is(err, service.ErrValidation),
		errors.Is(err, service.ErrDecode):
		return http.StatusBadRequest

	// Conflict errors
	case errors.Is(err, repository.ErrConflict):
		return http.StatusConflict

	// Payer cannot cover the transfer
	case errors.Is(err, service.ErrInsufficientFunds):
		return http.StatusPaymentRequired

	// Configuration, network and everything else
	default:
		return http.StatusInternalServerError
	}
}

func genericMessage(err error) string {
	switch {
	case errors.Is(err, service.ErrConfig):
		return "payment service is not configured"
	case errors.Is(err, service.ErrNetwork):
		return "ledger network unavailable"
	default:
		return "internal server error"
	}
}
