package leads

import (
	"fmt"
	"time"
)

// Status is the lead's position in the sales pipeline. The set is closed:
// unknown strings are rejected at the service boundary before anything is
// persisted.
type Status string

const (
	StatusNew         Status = "new"
	StatusContacted   Status = "contacted"
	StatusQualified   Status = "qualified"
	StatusProposal    Status = "proposal"
	StatusNegotiation Status = "negotiation"
	StatusConverted   Status = "converted"
	StatusLost        Status = "lost"
)

// ParseStatus returns the Status for s or an error when s is not one of the
// recognized pipeline stages.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusNew, StatusContacted, StatusQualified, StatusProposal,
		StatusNegotiation, StatusConverted, StatusLost:
		return Status(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
}

// Lead represents an inbound inquiry from the marketing site's contact form.
type Lead struct {
	ID          string    `bson:"_id,omitempty" json:"id"`
	Name        string    `bson:"name" json:"name"`
	Email       string    `bson:"email" json:"email"`
	Phone       string    `bson:"phone,omitempty" json:"phone,omitempty"`
	Company     string    `bson:"company" json:"company"`
	Industry    string    `bson:"industry,omitempty" json:"industry,omitempty"`
	CompanySize string    `bson:"companySize,omitempty" json:"companySize,omitempty"`
	Message     string    `bson:"message" json:"message"`
	Services    []string  `bson:"services" json:"services"`
	Status      Status    `bson:"status" json:"status"`
	AssignedTo  string    `bson:"assignedTo,omitempty" json:"assignedTo,omitempty"`
	Notes       string    `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt   time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time `bson:"updatedAt" json:"updatedAt"`
}
