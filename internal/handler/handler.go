package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"readmates/backend/internal/apperr"
	"readmates/backend/internal/events"
	"readmates/backend/internal/hub"
	"readmates/backend/internal/notification"
	"readmates/backend/internal/shelf"
	"readmates/backend/internal/social"
	"readmates/backend/internal/stats"
)

// Package-level collaborators, wired once at startup by Init.
var (
	Bus           *events.Bus
	Hub           *hub.Hub
	Social        *social.Service
	Shelves       *shelf.Service
	Stats         *stats.Engine
	Notifications *notification.Dispatcher
	Log           *logrus.Logger
)

// Init wires the handler package's service dependencies.
func Init(bus *events.Bus, h *hub.Hub, soc *social.Service, sh *shelf.Service, st *stats.Engine, n *notification.Dispatcher, log *logrus.Logger) {
	Bus = bus
	Hub = h
	Social = soc
	Shelves = sh
	Stats = st
	Notifications = n
	Log = log
}

// ErrorResponse represents a generic error response.
type ErrorResponse struct {
	Error string `json:"error" example:"An error message"`
}

// abortDomainError writes a domain error with its mapped status, or a
// generic 500 for unexpected errors.
func abortDomainError(c *gin.Context, err error) {
	status := apperr.StatusCode(err)
	if status == http.StatusInternalServerError {
		var domainErr *apperr.Error
		if !errors.As(err, &domainErr) {
			Log.WithError(err).Error("unhandled error")
			c.JSON(status, gin.H{"error": "Internal server error"})
			return
		}
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
