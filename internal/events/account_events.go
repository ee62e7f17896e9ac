package events

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/01moynul/travelbridge/internal/models"
)

// Routing keys for account lifecycle events.
const (
	AccountApproved    = "account.approved"
	AccountRejected    = "account.rejected"
	AccountFrozen      = "account.frozen"
	AccountDeactivated = "account.deactivated"
)

// AccountEvent is the message body for every account lifecycle event.
type AccountEvent struct {
	EventID     string                 `json:"event_id"`
	AccountID   string                 `json:"account_id"`
	AccountType models.AccountType     `json:"account_type"`
	ActorID     string                 `json:"actor_id"`
	OccurredAt  time.Time              `json:"occurred_at"`
	Details     map[string]interface{} `json:"details,omitempty"`
}

// AccountEvents publishes AccountEvent messages to one exchange.
type AccountEvents struct {
	publisher Publisher
	exchange  string
	now       func() time.Time
}

func NewAccountEvents(publisher Publisher, exchange string) *AccountEvents {
	if exchange == "" {
		exchange = "account_events"
	}
	return &AccountEvents{publisher: publisher, exchange: exchange, now: time.Now}
}

// AccountChanged emits one event under routingKey.
func (e *AccountEvents) AccountChanged(ctx context.Context, routingKey string, accountType models.AccountType, accountID, actorID string, details map[string]interface{}) error {
	evt := AccountEvent{
		EventID:     uuid.NewString(),
		AccountID:   accountID,
		AccountType: accountType,
		ActorID:     actorID,
		OccurredAt:  e.now().UTC(),
		Details:     details,
	}
	return e.publisher.Publish(ctx, e.exchange, routingKey, evt)
}
