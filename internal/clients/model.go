package clients

import "time"

// Profile is a portal client account, keyed by the SSO subject.
type Profile struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	Subject   string    `bson:"subject" json:"subject"`
	Email     string    `bson:"email" json:"email"`
	Name      string    `bson:"name" json:"name"`
	Company   string    `bson:"company,omitempty" json:"company,omitempty"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}
