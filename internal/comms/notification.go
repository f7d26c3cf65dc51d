package comms

import "time"

// NotificationKind selects the backing collection and the lifecycle a
// notification record follows: delivery kinds (email, sms) carry a delivery
// status, the system kind carries in-app read tracking instead.
type NotificationKind string

const (
	KindEmail  NotificationKind = "email"
	KindSMS    NotificationKind = "sms"
	KindSystem NotificationKind = "system"
)

// StatusPending is the only delivery status written by this service; an
// external dispatch process owns the rest of the delivery lifecycle.
const StatusPending = "pending"

// Notification is an outbound or in-app alert addressed to a client.
type Notification struct {
	ID        string           `bson:"_id,omitempty" json:"id"`
	ClientID  string           `bson:"clientId" json:"clientId"`
	Kind      NotificationKind `bson:"kind" json:"kind"`
	Subject   string           `bson:"subject,omitempty" json:"subject,omitempty"`
	Body      string           `bson:"body" json:"body"`
	Status    string           `bson:"status,omitempty" json:"status,omitempty"`
	Read      bool             `bson:"read" json:"read"`
	ReadAt    *time.Time       `bson:"readAt,omitempty" json:"readAt,omitempty"`
	CreatedAt time.Time        `bson:"createdAt" json:"createdAt"`
}
