package handler

import (
	"errors"

	"koya/logger"
	"koya/middleware"
	"koya/service"
	"koya/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// respondError maps service errors to responses. Anything unexpected is
// logged and answered with an opaque 500.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		utils.NotFound(c, err.Error())
	case errors.Is(err, service.ErrSelfFollow),
		errors.Is(err, service.ErrUsernameTaken),
		errors.Is(err, service.ErrInvalidInput):
		utils.BadRequest(c, err.Error())
	default:
		logger.Error(c.Request.Context()).
			Err(err).
			Str("method", c.Request.Method).
			Str("route", c.FullPath()).
			Msg("request failed")
		utils.InternalServerError(c)
	}
}

// currentUser writes a 401 and returns false when the request is unauthenticated.
func currentUser(c *gin.Context) (uuid.UUID, bool) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		utils.Unauthorized(c, "unauthorized")
		return uuid.Nil, false
	}
	return userID, true
}

// pathID parses the named path parameter as a UUID, writing a 400 on failure.
func pathID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		utils.BadRequest(c, "invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}

// cursorParam parses the optional cursor query parameter, writing a 400 on failure.
func cursorParam(c *gin.Context) (*uuid.UUID, bool) {
	raw := c.Query("cursor")
	if raw == "" {
		return nil, true
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		utils.BadRequest(c, "invalid cursor")
		return nil, false
	}
	return &id, true
}
