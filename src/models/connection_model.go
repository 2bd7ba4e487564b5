package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ConnectionStatus string

const (
	ConnectionStatusPending  ConnectionStatus = "pending"
	ConnectionStatusAccepted ConnectionStatus = "accepted"
	ConnectionStatusRejected ConnectionStatus = "rejected"
)

type MentorshipStatus string

const (
	MentorshipStatusPending   MentorshipStatus = "pending"
	MentorshipStatusActive    MentorshipStatus = "active"
	MentorshipStatusCompleted MentorshipStatus = "completed"
	MentorshipStatusCancelled MentorshipStatus = "cancelled"
)

type CommunicationMode string

const (
	CommunicationEmail     CommunicationMode = "email"
	CommunicationChat      CommunicationMode = "chat"
	CommunicationVideoCall CommunicationMode = "video_call"
	CommunicationInPerson  CommunicationMode = "in_person"
)

// MaxConnectionMessageLen bounds the free-text message on a request.
const MaxConnectionMessageLen = 500

type MentorshipDetails struct {
	Goals                  []string          `json:"goals" bson:"goals"`
	PreferredCommunication CommunicationMode `json:"preferredCommunication" bson:"preferredCommunication"`
	Availability           string            `json:"availability" bson:"availability"`
	Status                 MentorshipStatus  `json:"status" bson:"status"`
	StartDate              *time.Time        `json:"startDate,omitempty" bson:"startDate,omitempty"`
	EndDate                *time.Time        `json:"endDate,omitempty" bson:"endDate,omitempty"`
}

type Connection struct {
	Id                primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Requester         primitive.ObjectID `json:"requester" bson:"requester"`
	Recipient         primitive.ObjectID `json:"recipient" bson:"recipient"`
	Status            ConnectionStatus   `json:"status" bson:"status"`
	Message           string             `json:"message" bson:"message"`
	MentorshipRequest bool               `json:"mentorshipRequest" bson:"mentorshipRequest"`
	MentorshipDetails *MentorshipDetails `json:"mentorshipDetails,omitempty" bson:"mentorshipDetails,omitempty"`
	CreatedAt         time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt         time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// IsParticipant reports whether the given user is either side of the
// connection.
func (c *Connection) IsParticipant(userID primitive.ObjectID) bool {
	return c.Requester == userID || c.Recipient == userID
}

// PopulatedConnection is a Connection with the participants' display
// profiles attached, mirroring what list endpoints return.
type PopulatedConnection struct {
	Connection       `bson:",inline"`
	RequesterProfile *UserProfile `json:"requesterProfile,omitempty" bson:"-"`
	RecipientProfile *UserProfile `json:"recipientProfile,omitempty" bson:"-"`
}

// ConnectionStats aggregates a user's connection counts.
type ConnectionStats struct {
	TotalConnections      int64 `json:"totalConnections"`
	PendingRequests       int64 `json:"pendingRequests"`
	SentRequests          int64 `json:"sentRequests"`
	MentorshipConnections int64 `json:"mentorshipConnections"`
}
