package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "merlin/internal/errors"
	"merlin/internal/middleware"
	"merlin/internal/services"
)

// ErrorResponse is the error body every endpoint returns.
type ErrorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// getPrincipal extracts the authenticated caller from the Gin context.
// Returns ErrUnauthorized if not present.
func getPrincipal(c *gin.Context) (*services.Principal, error) {
	value, exists := c.Get(middleware.PrincipalKey)
	if !exists {
		return nil, apperrors.ErrUnauthorized
	}
	principal, ok := value.(*services.Principal)
	if !ok || principal == nil {
		return nil, apperrors.ErrUnauthorized
	}
	return principal, nil
}

// parsePathID parses a positive integer path parameter.
// Returns ErrInvalidInput if the parameter is not a valid positive integer.
func parsePathID(c *gin.Context, param string) (int, error) {
	id, err := strconv.Atoi(c.Param(param))
	if err != nil || id <= 0 {
		return 0, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid "+param)
	}
	return id, nil
}

// respondWithError writes the JSON error body for err. AppErrors keep their
// status and code; anything else is logged and becomes INTERNAL_ERROR.
func respondWithError(c *gin.Context, err error) {
	middleware.WriteError(c, err)
}
