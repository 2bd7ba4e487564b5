package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Role string

const (
	RoleStudent Role = "student"
	RoleAlumni  Role = "alumni"
	RoleAdmin   Role = "admin"
)

// RoleIsExempt reports whether a role skips the verification gate.
// Admins are treated as verified without an explicit review.
func RoleIsExempt(role Role) bool {
	return role == RoleAdmin
}

type User struct {
	Id                  primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name                string             `json:"name" bson:"name"`
	Email               string             `json:"email" bson:"email"`
	Password            string             `json:"-" bson:"password"`
	Role                Role               `json:"role" bson:"role"`
	IsVerified          bool               `json:"isVerified" bson:"isVerified"`
	Avatar              string             `json:"avatar" bson:"avatar"`
	Bio                 string             `json:"bio" bson:"bio"`
	Branch              string             `json:"branch" bson:"branch"`
	GraduationYear      int                `json:"graduationYear" bson:"graduationYear"`
	CurrentCompany      string             `json:"currentCompany" bson:"currentCompany"`
	Designation         string             `json:"designation" bson:"designation"`
	Skills              []string           `json:"skills" bson:"skills"`
	Linkedin            string             `json:"linkedin" bson:"linkedin"`
	Github              string             `json:"github" bson:"github"`
	ResetPasswordToken  string             `json:"-" bson:"resetPasswordToken,omitempty"`
	ResetPasswordExpire time.Time          `json:"-" bson:"resetPasswordExpire,omitempty"`
	CreatedAt           time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt           time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// UserProfile is the projection attached to connections, jobs and events
// wherever a counterpart user is displayed. Never carries credentials.
type UserProfile struct {
	Id             primitive.ObjectID `json:"id" bson:"_id"`
	Name           string             `json:"name" bson:"name"`
	Avatar         string             `json:"avatar" bson:"avatar"`
	Bio            string             `json:"bio,omitempty" bson:"bio"`
	Branch         string             `json:"branch,omitempty" bson:"branch"`
	GraduationYear int                `json:"graduationYear,omitempty" bson:"graduationYear"`
	CurrentCompany string             `json:"currentCompany,omitempty" bson:"currentCompany"`
	Designation    string             `json:"designation,omitempty" bson:"designation"`
	Skills         []string           `json:"skills,omitempty" bson:"skills"`
	Linkedin       string             `json:"linkedin,omitempty" bson:"linkedin"`
	Github         string             `json:"github,omitempty" bson:"github"`
}

// BucketCount is one row of a grouped count, keyed by the grouped value.
type BucketCount struct {
	Label string `json:"_id" bson:"_id"`
	Count int64  `json:"count" bson:"count"`
}

// AlumniOverview summarizes the verified alumni directory.
type AlumniOverview struct {
	TotalAlumni    int64         `json:"totalAlumni"`
	AlumniByBranch []BucketCount `json:"alumniByBranch"`
	TopCompanies   []BucketCount `json:"topCompanies"`
}

// PublicProfile returns the display projection of a user.
func (u *User) PublicProfile() UserProfile {
	return UserProfile{
		Id:             u.Id,
		Name:           u.Name,
		Avatar:         u.Avatar,
		Bio:            u.Bio,
		Branch:         u.Branch,
		GraduationYear: u.GraduationYear,
		CurrentCompany: u.CurrentCompany,
		Designation:    u.Designation,
		Skills:         u.Skills,
		Linkedin:       u.Linkedin,
		Github:         u.Github,
	}
}
