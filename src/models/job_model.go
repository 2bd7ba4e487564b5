package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ApplicationStatus string

const (
	ApplicationStatusPending  ApplicationStatus = "pending"
	ApplicationStatusAccepted ApplicationStatus = "accepted"
	ApplicationStatusRejected ApplicationStatus = "rejected"
)

type JobApplication struct {
	User        primitive.ObjectID `json:"user" bson:"user"`
	Resume      string             `json:"resume" bson:"resume"`
	CoverLetter string             `json:"coverLetter" bson:"coverLetter"`
	Status      ApplicationStatus  `json:"status" bson:"status"`
	AppliedAt   time.Time          `json:"appliedAt" bson:"appliedAt"`
}

type Job struct {
	Id                  primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Title               string             `json:"title" bson:"title"`
	Company             string             `json:"company" bson:"company"`
	Location            string             `json:"location" bson:"location"`
	Description         string             `json:"description" bson:"description"`
	JobType             string             `json:"jobType" bson:"jobType"`
	ApplicationDeadline time.Time          `json:"applicationDeadline" bson:"applicationDeadline"`
	Applications        []JobApplication   `json:"applications" bson:"applications"`
	PostedBy            primitive.ObjectID `json:"postedBy" bson:"postedBy"`
	IsActive            bool               `json:"isActive" bson:"isActive"`
	CreatedAt           time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt           time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// DefaultJobType is applied when a posting omits the job type.
const DefaultJobType = "Full-time"
