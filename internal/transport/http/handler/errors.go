package handler

import (
	"errors"
	"net/http"

	"github.com/ErlanBelekov/socios/internal/domain"
	"github.com/gin-gonic/gin"
)

const (
	errInternalServer = "Internal server error"
	errInvalidID      = "Invalid member id"

	codeInternal = "internal"
	codeBadInput = "bad_request"
)

// errorResponse is the body of every non-2xx response.
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

type domainError struct {
	target error
	status int
	code   string
}

var domainErrors = []domainError{
	{domain.ErrMemberNotFound, http.StatusNotFound, "member_not_found"},
	{domain.ErrDuplicateEmail, http.StatusConflict, "duplicate_email"},
	{domain.ErrInvalidToken, http.StatusUnauthorized, "invalid_token"},
	{domain.ErrTokenNotFoundOrExpired, http.StatusUnauthorized, "token_not_found_or_expired"},
	{domain.ErrTokenMismatch, http.StatusUnauthorized, "token_mismatch"},
	{domain.ErrUnauthorized, http.StatusUnauthorized, "unauthorized"},
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, errorResponse{Error: msg, Code: codeBadInput})
}

// writeError maps known domain errors to their status and code. Anything
// else is logged and reported as a 500.
func (b base) writeError(c *gin.Context, op string, err error) {
	for _, de := range domainErrors {
		if errors.Is(err, de.target) {
			c.JSON(de.status, errorResponse{Error: de.target.Error(), Code: de.code})
			return
		}
	}
	b.logger.ErrorContext(c.Request.Context(), op, "error", err)
	c.JSON(http.StatusInternalServerError, errorResponse{Error: errInternalServer, Code: codeInternal})
}
