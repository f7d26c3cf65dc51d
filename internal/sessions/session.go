package sessions

import "time"

// Roles recognized by the portal's route guards.
const (
	RoleClient   = "client"
	RoleOperator = "operator"
)

// Session is a persistent refresh session and the single source of truth
// for who is logged in as what. Route guards derive everything from it.
type Session struct {
	ID           string    `bson:"_id,omitempty" json:"id"`
	RefreshToken string    `bson:"refreshToken" json:"refreshToken"`
	Subject      string    `bson:"subject" json:"subject"`
	Role         string    `bson:"role" json:"role"`
	ExpiresAt    time.Time `bson:"expiresAt" json:"expiresAt"`
	CreatedAt    time.Time `bson:"createdAt" json:"createdAt"`
}
