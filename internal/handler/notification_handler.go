package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"readmates/backend/internal/hub"
)

// NotificationResponse describes one durable notification.
type NotificationResponse struct {
	ID        uint            `json:"id" example:"1"`
	Type      string          `json:"type" example:"REVIEW_LIKE"`
	Message   string          `json:"message" example:"alice liked your review"`
	Payload   json.RawMessage `json:"payload"`
	IsRead    bool            `json:"is_read"`
	CreatedAt string          `json:"created_at"`
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Browser clients authenticate via the token, not the Origin header.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ListNotifications godoc
// @Summary      List notifications
// @Description  Returns a page of the caller's notifications, newest first.
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Param        page  query     int  false  "Page number" default(1)
// @Param        limit query     int  false  "Items per page" default(20)
// @Success      200   {object}  PaginatedResponse[NotificationResponse]
// @Failure      401   {object}  ErrorResponse
// @Router       /notifications [get]
func ListNotifications(c *gin.Context) {
	viewerID, _ := c.Get("userID")

	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	notifications, total, err := Notifications.List(viewerID.(uint), page, limit)
	if err != nil {
		abortDomainError(c, err)
		return
	}

	responses := make([]NotificationResponse, len(notifications))
	for i, n := range notifications {
		responses[i] = NotificationResponse{
			ID:        n.ID,
			Type:      string(n.Type),
			Message:   n.Message,
			Payload:   json.RawMessage(n.Payload),
			IsRead:    n.IsRead,
			CreatedAt: n.CreatedAt.UTC().Format(time.RFC3339),
		}
	}
	c.JSON(http.StatusOK, NewPaginatedResponse(responses, total, page, limit))
}

// MarkNotificationRead godoc
// @Summary      Mark notification as read
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Notification ID"
// @Success      200  {object}  map[string]string "{"message": "Notification marked as read"}"
// @Failure      404  {object}  ErrorResponse
// @Router       /notifications/{id}/read [post]
func MarkNotificationRead(c *gin.Context) {
	viewerID, _ := c.Get("userID")
	notificationID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := Notifications.MarkRead(viewerID.(uint), notificationID); err != nil {
		abortDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Notification marked as read"})
}

// StreamNotifications godoc
// @Summary      Live notification stream
// @Description  Upgrades to a websocket subscribed to the caller's topic. Delivery is best-effort; clients reconcile missed events via the durable list.
// @Tags         notifications
// @Security     BearerAuth
// @Success      101  {string}  string  "Switching Protocols"
// @Failure      401  {object}  ErrorResponse
// @Router       /ws/notifications [get]
func StreamNotifications(c *gin.Context) {
	viewerID, _ := c.Get("userID")
	userID := viewerID.(uint)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		Log.WithError(err).Warn("websocket upgrade failed")
		return
	}

	client := make(hub.Client, 16)
	Hub.Subscribe(userID, client)
	defer Hub.Unsubscribe(userID, client)
	defer conn.Close()

	// Drain reads so close frames and pings are processed; signal the
	// writer loop when the peer goes away.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case message, open := <-client:
			if !open {
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}
