package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/alumnet/alumnet-backend/src/models"
)

// AlumniQuery narrows directory listings and search results. Zero values
// mean "no filter". Text fields match case-insensitively.
type AlumniQuery struct {
	Query          string
	Branch         string
	Company        string
	GraduationYear int
	Skills         []string
	Limit          int64
}

type UserRepo interface {
	Insert(ctx context.Context, u *models.User) (primitive.ObjectID, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByResetToken(ctx context.Context, hashedToken string, now time.Time) (*models.User, error)
	Update(ctx context.Context, u *models.User) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	FindAll(ctx context.Context) ([]models.User, error)

	// ListAlumni returns verified alumni matching the query filters.
	ListAlumni(ctx context.Context, q AlumniQuery) ([]models.User, error)
	// SearchAlumni returns verified alumni whose name, bio, company or
	// skills match q.Query, narrowed by the remaining filters.
	SearchAlumni(ctx context.Context, q AlumniQuery) ([]models.User, error)
	// RecommendAlumni returns verified alumni outside the excluded set who
	// share the branch or at least one of the skills.
	RecommendAlumni(ctx context.Context, exclude []primitive.ObjectID, branch string, skills []string, limit int64) ([]models.User, error)

	// AlumniOverview returns the verified-alumni total, per-branch counts
	// and the ten most common companies.
	AlumniOverview(ctx context.Context) (*models.AlumniOverview, error)

	CountByRole(ctx context.Context, role models.Role) (int64, error)
	CountAll(ctx context.Context) (int64, error)
	CountUnverified(ctx context.Context) (int64, error)
	CountCreatedSince(ctx context.Context, since time.Time) (int64, error)
	FindRecent(ctx context.Context, limit int64) ([]models.User, error)
}

type ConnectionRepo interface {
	// Insert stores a new connection and fills in its id. A duplicate of
	// the (requester, recipient) pair is reported as ErrConflict.
	Insert(ctx context.Context, c *models.Connection) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Connection, error)
	// FindBetween returns the connection between two users in either
	// direction and any status, or ErrNotFound.
	FindBetween(ctx context.Context, a, b primitive.ObjectID) (*models.Connection, error)
	Update(ctx context.Context, c *models.Connection) error
	Delete(ctx context.Context, id primitive.ObjectID) error

	ListAccepted(ctx context.Context, userID primitive.ObjectID) ([]models.Connection, error)
	ListPendingReceived(ctx context.Context, userID primitive.ObjectID) ([]models.Connection, error)
	ListPendingSent(ctx context.Context, userID primitive.ObjectID) ([]models.Connection, error)
	ListMentorships(ctx context.Context, userID primitive.ObjectID) ([]models.Connection, error)
	// ListAllFor returns every connection the user participates in,
	// regardless of status.
	ListAllFor(ctx context.Context, userID primitive.ObjectID) ([]models.Connection, error)

	Stats(ctx context.Context, userID primitive.ObjectID) (*models.ConnectionStats, error)
}

// JobQuery narrows job listings. Company and Location match
// case-insensitively; IsActive of nil means "any".
type JobQuery struct {
	JobType  string
	Company  string
	Location string
	IsActive *bool
}

type JobRepo interface {
	Insert(ctx context.Context, j *models.Job) (primitive.ObjectID, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Job, error)
	Update(ctx context.Context, j *models.Job) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	List(ctx context.Context, q JobQuery) ([]models.Job, error)

	// DeleteExpired removes jobs whose application deadline has passed and
	// returns how many were removed.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)

	CountAll(ctx context.Context) (int64, error)
	CountCreatedSince(ctx context.Context, since time.Time) (int64, error)
	FindRecent(ctx context.Context, limit int64) ([]models.Job, error)
}

type EventRepo interface {
	Insert(ctx context.Context, e *models.Event) (primitive.ObjectID, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Event, error)
	Update(ctx context.Context, e *models.Event) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	List(ctx context.Context, approvedOnly bool) ([]models.Event, error)

	CountAll(ctx context.Context) (int64, error)
	CountPendingApproval(ctx context.Context) (int64, error)
	FindRecent(ctx context.Context, limit int64) ([]models.Event, error)
}
