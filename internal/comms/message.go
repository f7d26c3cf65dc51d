package comms

import "time"

// MessageTypeInApp is the only message transport in the portal today; the
// discriminator is stored so other channels can be added without a migration.
const MessageTypeInApp = "in-app"

// Message is a directed, timestamped note between a client and an operator.
type Message struct {
	ID            string     `bson:"_id,omitempty" json:"id"`
	ClientID      string     `bson:"clientId" json:"clientId"`
	CounterpartID string     `bson:"counterpartId" json:"counterpartId"`
	Body          string     `bson:"body" json:"body"`
	Timestamp     time.Time  `bson:"timestamp" json:"timestamp"`
	Read          bool       `bson:"read" json:"read"`
	ReadAt        *time.Time `bson:"readAt,omitempty" json:"readAt,omitempty"`
	Type          string     `bson:"type" json:"type"`
}
