package profile

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	eventCreated = "created"
	eventUpdated = "updated"
)

type publisher interface {
	Publish(subject string, data []byte) error
}

type Event struct {
	ID         uuid.UUID `json:"event_id"`
	ProfileID  string    `json:"profile_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Notifier announces profile changes on nats. A nil Notifier does nothing.
type Notifier struct {
	pub    publisher
	prefix string
}

func NewNotifier(pub publisher, prefix string) *Notifier {
	return &Notifier{
		pub:    pub,
		prefix: prefix,
	}
}

func (n *Notifier) subject(name string) string {
	return fmt.Sprintf("%s.%s", n.prefix, name)
}

func (n *Notifier) notify(name, profileID string) {
	if n == nil || n.pub == nil {
		return
	}

	payload, err := json.Marshal(Event{
		ID:         uuid.New(),
		ProfileID:  profileID,
		OccurredAt: time.Now(),
	})
	if err != nil {
		log.Error().Err(err).Msgf("marshal %s event for profile #%s", name, profileID)
		return
	}

	if err = n.pub.Publish(n.subject(name), payload); err != nil {
		log.Warn().Err(err).Msgf("publish %s event for profile #%s", name, profileID)
	}
}
