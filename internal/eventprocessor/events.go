// Roomscope - Voice Room Presence Analytics API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/roomscope

package eventprocessor

import (
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/tomtom215/roomscope/internal/models"
)

// Message metadata keys.
const (
	MetadataCorrelationID = "correlation_id"
	MetadataViewedUserID  = "viewed_user_id"
)

// ProfileViewEvent is the queue payload for one profile view.
type ProfileViewEvent struct {
	EventID         string    `json:"event_id"`
	ViewedUserID    string    `json:"viewed_user_id"`
	ViewerIP        string    `json:"viewer_ip,omitempty"`
	ViewerUserAgent string    `json:"viewer_user_agent,omitempty"`
	ViewedAt        time.Time `json:"viewed_at,omitempty"`
	CorrelationID   string    `json:"correlation_id,omitempty"`
}

// NewProfileViewEvent builds an event from a view, assigning an id when
// the view has none. A zero ViewedAt is kept so the store stamps the row.
func NewProfileViewEvent(v models.ProfileView) *ProfileViewEvent {
	id := v.ViewID
	if id == "" {
		id = uuid.New().String()
	}
	return &ProfileViewEvent{
		EventID:         id,
		ViewedUserID:    v.ViewedUserID,
		ViewerIP:        models.Truncate(v.ViewerIP, models.MaxViewerIPLength),
		ViewerUserAgent: models.Truncate(v.ViewerUserAgent, models.MaxViewerUserAgentLength),
		ViewedAt:        v.ViewedAt,
	}
}

// Validate checks the fields the insert depends on.
func (e *ProfileViewEvent) Validate() error {
	if e.EventID == "" {
		return fmt.Errorf("%w: missing event_id", ErrInvalidEvent)
	}
	if e.ViewedUserID == "" {
		return fmt.Errorf("%w: missing viewed_user_id", ErrInvalidEvent)
	}
	return nil
}

// View converts the event back to a storage row.
func (e *ProfileViewEvent) View() models.ProfileView {
	return models.ProfileView{
		ViewID:          e.EventID,
		ViewedUserID:    e.ViewedUserID,
		ViewerIP:        e.ViewerIP,
		ViewerUserAgent: e.ViewerUserAgent,
		ViewedAt:        e.ViewedAt,
	}
}

// NewMessage serializes the event into a Watermill message whose UUID is
// the event id, so transports that deduplicate on message id drop resends.
func (e *ProfileViewEvent) NewMessage() (*message.Message, error) {
	payload, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("marshal profile view event: %w", err)
	}
	msg := message.NewMessage(e.EventID, payload)
	msg.Metadata.Set(MetadataViewedUserID, e.ViewedUserID)
	if e.CorrelationID != "" {
		msg.Metadata.Set(MetadataCorrelationID, e.CorrelationID)
	}
	return msg, nil
}

// DecodeProfileViewEvent parses and validates a message payload.
func DecodeProfileViewEvent(msg *message.Message) (*ProfileViewEvent, error) {
	var e ProfileViewEvent
	if err := json.Unmarshal(msg.Payload, &e); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEvent, err)
	}
	if e.CorrelationID == "" {
		e.CorrelationID = msg.Metadata.Get(MetadataCorrelationID)
	}
	if err := e.Validate(); err != nil {
		return nil, err
	}
	return &e, nil
}
