package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type EventType string

const (
	EventTypeWorkshop   EventType = "workshop"
	EventTypeSeminar    EventType = "seminar"
	EventTypeConference EventType = "conference"
	EventTypeReunion    EventType = "reunion"
	EventTypeNetworking EventType = "networking"
	EventTypeOther      EventType = "other"
)

// ValidEventType reports whether t is one of the supported event types.
func ValidEventType(t EventType) bool {
	switch t {
	case EventTypeWorkshop, EventTypeSeminar, EventTypeConference,
		EventTypeReunion, EventTypeNetworking, EventTypeOther:
		return true
	}
	return false
}

type AttendeeStatus string

const (
	AttendeeStatusRegistered AttendeeStatus = "registered"
	AttendeeStatusAttended   AttendeeStatus = "attended"
	AttendeeStatusCancelled  AttendeeStatus = "cancelled"
)

type EventAttendee struct {
	User         primitive.ObjectID `json:"user" bson:"user"`
	Status       AttendeeStatus     `json:"status" bson:"status"`
	RegisteredAt time.Time          `json:"registeredAt" bson:"registeredAt"`
}

// MaxEventTitleLen bounds the event title.
const MaxEventTitleLen = 100

type Event struct {
	Id           primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Title        string             `json:"title" bson:"title"`
	Description  string             `json:"description" bson:"description"`
	EventType    EventType          `json:"eventType" bson:"eventType"`
	Location     string             `json:"location" bson:"location"`
	IsVirtual    bool               `json:"isVirtual" bson:"isVirtual"`
	MeetingLink  string             `json:"meetingLink" bson:"meetingLink"`
	Image        string             `json:"image" bson:"image"`
	MaxAttendees int                `json:"maxAttendees" bson:"maxAttendees"`
	Attendees    []EventAttendee    `json:"attendees" bson:"attendees"`
	CreatedBy    primitive.ObjectID `json:"createdBy" bson:"createdBy"`
	IsApproved   bool               `json:"isApproved" bson:"isApproved"`
	Tags         []string           `json:"tags" bson:"tags"`
	CreatedAt    time.Time          `json:"createdAt" bson:"createdAt"`
}

// ActiveAttendees counts attendees who have not cancelled.
func (e *Event) ActiveAttendees() int {
	n := 0
	for _, a := range e.Attendees {
		if a.Status != AttendeeStatusCancelled {
			n++
		}
	}
	return n
}
