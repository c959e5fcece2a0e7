// Package notification persists durable notification records for domain
// events and pushes best-effort live copies to the recipient's pub/sub
// topic.
//
// The durable row is the source of truth: it is written inside the
// triggering transaction. The live publish carries no delivery guarantee;
// a failure is logged and never fails the triggering request, and clients
// that reconnect reconcile against the durable log.
package notification

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"readmates/backend/internal/apperr"
	"readmates/backend/internal/events"
	"readmates/backend/internal/hub"
	"readmates/backend/internal/models"
)

var ErrNotificationNotFound = apperr.NotFound("notification not found")

// Dispatcher consumes domain events and owns the notification log.
type Dispatcher struct {
	db  *gorm.DB
	hub *hub.Hub
	log *logrus.Logger
}

// NewDispatcher creates a dispatcher publishing live copies on h.
func NewDispatcher(db *gorm.DB, h *hub.Hub, log *logrus.Logger) *Dispatcher {
	return &Dispatcher{db: db, hub: h, log: log}
}

// Register subscribes the dispatcher to the notifiable domain events.
func (d *Dispatcher) Register(bus *events.Bus) {
	bus.Subscribe(events.ReviewLiked, d.onReviewLiked)
	bus.Subscribe(events.ReviewCommented, d.onReviewCommented)
	bus.Subscribe(events.FriendRequestReceived, d.onFriendRequest)
}

func (d *Dispatcher) onReviewLiked(tx *gorm.DB, ev events.Event) error {
	payload, ok := ev.Payload.(events.ReviewLikedPayload)
	if !ok {
		return fmt.Errorf("notification: unexpected payload %T for %s", ev.Payload, ev.Type)
	}
	message := fmt.Sprintf("%s liked your review", payload.LikerName)
	return d.dispatch(tx, ev.UserID, models.NotificationReviewLike, message, payload)
}

func (d *Dispatcher) onReviewCommented(tx *gorm.DB, ev events.Event) error {
	payload, ok := ev.Payload.(events.ReviewCommentedPayload)
	if !ok {
		return fmt.Errorf("notification: unexpected payload %T for %s", ev.Payload, ev.Type)
	}
	message := fmt.Sprintf("%s commented on your review", payload.CommenterName)
	return d.dispatch(tx, ev.UserID, models.NotificationReviewComment, message, payload)
}

func (d *Dispatcher) onFriendRequest(tx *gorm.DB, ev events.Event) error {
	payload, ok := ev.Payload.(events.FriendRequestPayload)
	if !ok {
		return fmt.Errorf("notification: unexpected payload %T for %s", ev.Payload, ev.Type)
	}
	message := fmt.Sprintf("%s sent you a friend request", payload.FromUserName)
	return d.dispatch(tx, ev.UserID, models.NotificationFriendRequest, message, payload)
}

// dispatch writes the durable row in the event's transaction, then fires a
// live copy at the recipient's topic. The live publish is fire-and-forget:
// its failure is logged and swallowed.
func (d *Dispatcher) dispatch(tx *gorm.DB, userID uint, notifType models.NotificationType, message string, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	record := models.Notification{
		UserID:  userID,
		Type:    notifType,
		Message: message,
		Payload: raw,
	}
	if err := tx.Create(&record).Error; err != nil {
		return err
	}

	live := map[string]any{
		"type":            string(notifType),
		"message":         message,
		"payload":         payload,
		"notification_id": record.ID,
		"timestamp":       time.Now().UTC().Format(time.RFC3339),
		"is_read":         false,
	}
	if err := d.hub.Broadcast(userID, live); err != nil {
		d.log.WithError(err).WithFields(logrus.Fields{
			"user_id": userID,
			"type":    notifType,
		}).Warn("live notification publish failed")
	}
	return nil
}

// List returns a page of the user's notifications, newest first, with the
// total count for pagination.
func (d *Dispatcher) List(userID uint, page, limit int) ([]models.Notification, int64, error) {
	query := d.db.Model(&models.Notification{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var notifications []models.Notification
	offset := (page - 1) * limit
	err := query.Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&notifications).Error
	if err != nil {
		return nil, 0, err
	}
	return notifications, total, nil
}

// MarkRead flags one of the caller's notifications as read.
func (d *Dispatcher) MarkRead(userID, notificationID uint) error {
	res := d.db.Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", notificationID, userID).
		Update("is_read", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotificationNotFound
	}
	return nil
}
