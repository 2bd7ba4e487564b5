// Package mock provides in-memory repository implementations for tests.
// They mirror the Mongo repositories' observable behavior: sentinel errors,
// duplicate-pair conflicts and list ordering.
package mock

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/alumnet/alumnet-backend/src/models"
	"github.com/alumnet/alumnet-backend/src/repository"
)

type UserRepo struct {
	Users map[primitive.ObjectID]models.User
	seq   int
}

func NewUserRepo() *UserRepo {
	return &UserRepo{Users: map[primitive.ObjectID]models.User{}}
}

// Add stores a user directly, bypassing Insert bookkeeping.
func (r *UserRepo) Add(u models.User) models.User {
	if u.Id.IsZero() {
		u.Id = primitive.NewObjectID()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = r.nextTime()
	}
	r.Users[u.Id] = u
	return u
}

func (r *UserRepo) nextTime() time.Time {
	r.seq++
	return time.Unix(1700000000, 0).Add(time.Duration(r.seq) * time.Second)
}

func (r *UserRepo) Insert(ctx context.Context, u *models.User) (primitive.ObjectID, error) {
	for _, existing := range r.Users {
		if existing.Email == u.Email {
			return primitive.NilObjectID, fmt.Errorf("email already registered: %w", repository.ErrConflict)
		}
	}
	if u.Id.IsZero() {
		u.Id = primitive.NewObjectID()
	}
	u.CreatedAt = r.nextTime()
	u.UpdatedAt = u.CreatedAt
	r.Users[u.Id] = *u
	return u.Id, nil
}

func (r *UserRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	u, ok := r.Users[id]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", id.Hex(), repository.ErrNotFound)
	}
	return &u, nil
}

func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range r.Users {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, fmt.Errorf("user %s: %w", email, repository.ErrNotFound)
}

func (r *UserRepo) FindByResetToken(ctx context.Context, hashedToken string, now time.Time) (*models.User, error) {
	for _, u := range r.Users {
		if u.ResetPasswordToken == hashedToken && u.ResetPasswordExpire.After(now) {
			u := u
			return &u, nil
		}
	}
	return nil, fmt.Errorf("reset token: %w", repository.ErrNotFound)
}

func (r *UserRepo) Update(ctx context.Context, u *models.User) error {
	if _, ok := r.Users[u.Id]; !ok {
		return fmt.Errorf("user %s: %w", u.Id.Hex(), repository.ErrNotFound)
	}
	u.UpdatedAt = r.nextTime()
	r.Users[u.Id] = *u
	return nil
}

func (r *UserRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	if _, ok := r.Users[id]; !ok {
		return fmt.Errorf("user %s: %w", id.Hex(), repository.ErrNotFound)
	}
	delete(r.Users, id)
	return nil
}

func (r *UserRepo) FindAll(ctx context.Context) ([]models.User, error) {
	return r.collect(func(u models.User) bool { return true }, 0), nil
}

func (r *UserRepo) ListAlumni(ctx context.Context, q repository.AlumniQuery) ([]models.User, error) {
	return r.collect(func(u models.User) bool {
		return isVerifiedAlumni(u) && matchesFilters(u, q)
	}, q.Limit), nil
}

func (r *UserRepo) SearchAlumni(ctx context.Context, q repository.AlumniQuery) ([]models.User, error) {
	query := strings.ToLower(q.Query)
	return r.collect(func(u models.User) bool {
		if !isVerifiedAlumni(u) || !matchesFilters(u, q) {
			return false
		}
		if strings.Contains(strings.ToLower(u.Name), query) ||
			strings.Contains(strings.ToLower(u.Bio), query) ||
			strings.Contains(strings.ToLower(u.CurrentCompany), query) {
			return true
		}
		for _, skill := range u.Skills {
			if strings.Contains(strings.ToLower(skill), query) {
				return true
			}
		}
		return false
	}, q.Limit), nil
}

func (r *UserRepo) RecommendAlumni(ctx context.Context, exclude []primitive.ObjectID, branch string, skills []string, limit int64) ([]models.User, error) {
	excluded := map[primitive.ObjectID]bool{}
	for _, id := range exclude {
		excluded[id] = true
	}
	return r.collect(func(u models.User) bool {
		if !isVerifiedAlumni(u) || excluded[u.Id] {
			return false
		}
		if u.Branch == branch {
			return true
		}
		for _, want := range skills {
			for _, have := range u.Skills {
				if want == have {
					return true
				}
			}
		}
		return false
	}, limit), nil
}

func (r *UserRepo) AlumniOverview(ctx context.Context) (*models.AlumniOverview, error) {
	overview := &models.AlumniOverview{}
	branches := map[string]int64{}
	companies := map[string]int64{}
	for _, u := range r.Users {
		if !isVerifiedAlumni(u) {
			continue
		}
		overview.TotalAlumni++
		branches[u.Branch]++
		if u.CurrentCompany != "" {
			companies[u.CurrentCompany]++
		}
	}
	overview.AlumniByBranch = sortedBuckets(branches, 0)
	overview.TopCompanies = sortedBuckets(companies, 10)
	return overview, nil
}

func sortedBuckets(counts map[string]int64, limit int) []models.BucketCount {
	buckets := []models.BucketCount{}
	for label, count := range counts {
		buckets = append(buckets, models.BucketCount{Label: label, Count: count})
	}
	sort.Slice(buckets, func(i, j int) bool {
		if buckets[i].Count != buckets[j].Count {
			return buckets[i].Count > buckets[j].Count
		}
		return buckets[i].Label < buckets[j].Label
	})
	if limit > 0 && len(buckets) > limit {
		buckets = buckets[:limit]
	}
	return buckets
}

func (r *UserRepo) CountByRole(ctx context.Context, role models.Role) (int64, error) {
	var n int64
	for _, u := range r.Users {
		if u.Role == role {
			n++
		}
	}
	return n, nil
}

func (r *UserRepo) CountAll(ctx context.Context) (int64, error) {
	return int64(len(r.Users)), nil
}

func (r *UserRepo) CountUnverified(ctx context.Context) (int64, error) {
	var n int64
	for _, u := range r.Users {
		if !u.IsVerified && u.Role != models.RoleAdmin {
			n++
		}
	}
	return n, nil
}

func (r *UserRepo) CountCreatedSince(ctx context.Context, since time.Time) (int64, error) {
	var n int64
	for _, u := range r.Users {
		if !u.CreatedAt.Before(since) {
			n++
		}
	}
	return n, nil
}

func (r *UserRepo) FindRecent(ctx context.Context, limit int64) ([]models.User, error) {
	return r.collect(func(u models.User) bool { return true }, limit), nil
}

func (r *UserRepo) collect(match func(models.User) bool, limit int64) []models.User {
	users := []models.User{}
	for _, u := range r.Users {
		if match(u) {
			users = append(users, u)
		}
	}
	sort.Slice(users, func(i, j int) bool {
		return users[i].CreatedAt.After(users[j].CreatedAt)
	})
	if limit > 0 && int64(len(users)) > limit {
		users = users[:limit]
	}
	return users
}

func isVerifiedAlumni(u models.User) bool {
	return u.Role == models.RoleAlumni && u.IsVerified
}

func matchesFilters(u models.User, q repository.AlumniQuery) bool {
	if q.Branch != "" && u.Branch != q.Branch {
		return false
	}
	if q.Company != "" && !strings.Contains(strings.ToLower(u.CurrentCompany), strings.ToLower(q.Company)) {
		return false
	}
	if q.GraduationYear != 0 && u.GraduationYear != q.GraduationYear {
		return false
	}
	if len(q.Skills) > 0 {
		found := false
		for _, want := range q.Skills {
			for _, have := range u.Skills {
				if want == have {
					found = true
				}
			}
		}
		if !found {
			return false
		}
	}
	return true
}

type ConnectionRepo struct {
	Connections map[primitive.ObjectID]models.Connection
	seq         int
}

func NewConnectionRepo() *ConnectionRepo {
	return &ConnectionRepo{Connections: map[primitive.ObjectID]models.Connection{}}
}

func (r *ConnectionRepo) nextTime() time.Time {
	r.seq++
	return time.Unix(1700000000, 0).Add(time.Duration(r.seq) * time.Second)
}

func (r *ConnectionRepo) Insert(ctx context.Context, c *models.Connection) error {
	for _, existing := range r.Connections {
		samePair := existing.Requester == c.Requester && existing.Recipient == c.Recipient
		if samePair {
			return fmt.Errorf("connection already exists: %w", repository.ErrConflict)
		}
	}
	if c.Id.IsZero() {
		c.Id = primitive.NewObjectID()
	}
	c.CreatedAt = r.nextTime()
	c.UpdatedAt = c.CreatedAt
	r.Connections[c.Id] = *c
	return nil
}

func (r *ConnectionRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Connection, error) {
	c, ok := r.Connections[id]
	if !ok {
		return nil, fmt.Errorf("connection %s: %w", id.Hex(), repository.ErrNotFound)
	}
	return cloneConnection(c), nil
}

func (r *ConnectionRepo) FindBetween(ctx context.Context, a, b primitive.ObjectID) (*models.Connection, error) {
	for _, c := range r.Connections {
		if (c.Requester == a && c.Recipient == b) || (c.Requester == b && c.Recipient == a) {
			return cloneConnection(c), nil
		}
	}
	return nil, fmt.Errorf("connection between %s and %s: %w", a.Hex(), b.Hex(), repository.ErrNotFound)
}

func (r *ConnectionRepo) Update(ctx context.Context, c *models.Connection) error {
	if _, ok := r.Connections[c.Id]; !ok {
		return fmt.Errorf("connection %s: %w", c.Id.Hex(), repository.ErrNotFound)
	}
	c.UpdatedAt = r.nextTime()
	r.Connections[c.Id] = *c
	return nil
}

func (r *ConnectionRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	if _, ok := r.Connections[id]; !ok {
		return fmt.Errorf("connection %s: %w", id.Hex(), repository.ErrNotFound)
	}
	delete(r.Connections, id)
	return nil
}

func (r *ConnectionRepo) ListAccepted(ctx context.Context, userID primitive.ObjectID) ([]models.Connection, error) {
	return r.collect(func(c models.Connection) bool {
		return c.IsParticipant(userID) && c.Status == models.ConnectionStatusAccepted
	}, byUpdatedDesc), nil
}

func (r *ConnectionRepo) ListPendingReceived(ctx context.Context, userID primitive.ObjectID) ([]models.Connection, error) {
	return r.collect(func(c models.Connection) bool {
		return c.Recipient == userID && c.Status == models.ConnectionStatusPending
	}, byCreatedDesc), nil
}

func (r *ConnectionRepo) ListPendingSent(ctx context.Context, userID primitive.ObjectID) ([]models.Connection, error) {
	return r.collect(func(c models.Connection) bool {
		return c.Requester == userID && c.Status == models.ConnectionStatusPending
	}, byCreatedDesc), nil
}

func (r *ConnectionRepo) ListMentorships(ctx context.Context, userID primitive.ObjectID) ([]models.Connection, error) {
	return r.collect(func(c models.Connection) bool {
		return c.IsParticipant(userID) && c.Status == models.ConnectionStatusAccepted && c.MentorshipRequest
	}, byUpdatedDesc), nil
}

func (r *ConnectionRepo) ListAllFor(ctx context.Context, userID primitive.ObjectID) ([]models.Connection, error) {
	return r.collect(func(c models.Connection) bool {
		return c.IsParticipant(userID)
	}, byCreatedDesc), nil
}

func (r *ConnectionRepo) Stats(ctx context.Context, userID primitive.ObjectID) (*models.ConnectionStats, error) {
	stats := &models.ConnectionStats{}
	for _, c := range r.Connections {
		switch {
		case c.IsParticipant(userID) && c.Status == models.ConnectionStatusAccepted:
			stats.TotalConnections++
			if c.MentorshipRequest {
				stats.MentorshipConnections++
			}
		case c.Recipient == userID && c.Status == models.ConnectionStatusPending:
			stats.PendingRequests++
		case c.Requester == userID && c.Status == models.ConnectionStatusPending:
			stats.SentRequests++
		}
	}
	return stats, nil
}

type connOrder func(a, b models.Connection) bool

func byUpdatedDesc(a, b models.Connection) bool { return a.UpdatedAt.After(b.UpdatedAt) }
func byCreatedDesc(a, b models.Connection) bool { return a.CreatedAt.After(b.CreatedAt) }

func (r *ConnectionRepo) collect(match func(models.Connection) bool, order connOrder) []models.Connection {
	conns := []models.Connection{}
	for _, c := range r.Connections {
		if match(c) {
			conns = append(conns, c)
		}
	}
	sort.Slice(conns, func(i, j int) bool { return order(conns[i], conns[j]) })
	return conns
}

func cloneConnection(c models.Connection) *models.Connection {
	if c.MentorshipDetails != nil {
		details := *c.MentorshipDetails
		c.MentorshipDetails = &details
	}
	return &c
}

type JobRepo struct {
	Jobs       map[primitive.ObjectID]models.Job
	SweepCalls int
	DeleteErr  error
	seq        int
}

func NewJobRepo() *JobRepo {
	return &JobRepo{Jobs: map[primitive.ObjectID]models.Job{}}
}

func (r *JobRepo) nextTime() time.Time {
	r.seq++
	return time.Unix(1700000000, 0).Add(time.Duration(r.seq) * time.Second)
}

func (r *JobRepo) Insert(ctx context.Context, j *models.Job) (primitive.ObjectID, error) {
	if j.Id.IsZero() {
		j.Id = primitive.NewObjectID()
	}
	j.CreatedAt = r.nextTime()
	j.UpdatedAt = j.CreatedAt
	r.Jobs[j.Id] = *j
	return j.Id, nil
}

func (r *JobRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Job, error) {
	j, ok := r.Jobs[id]
	if !ok {
		return nil, fmt.Errorf("job %s: %w", id.Hex(), repository.ErrNotFound)
	}
	j.Applications = append([]models.JobApplication{}, j.Applications...)
	return &j, nil
}

func (r *JobRepo) Update(ctx context.Context, j *models.Job) error {
	if _, ok := r.Jobs[j.Id]; !ok {
		return fmt.Errorf("job %s: %w", j.Id.Hex(), repository.ErrNotFound)
	}
	j.UpdatedAt = r.nextTime()
	r.Jobs[j.Id] = *j
	return nil
}

func (r *JobRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	if _, ok := r.Jobs[id]; !ok {
		return fmt.Errorf("job %s: %w", id.Hex(), repository.ErrNotFound)
	}
	delete(r.Jobs, id)
	return nil
}

func (r *JobRepo) List(ctx context.Context, q repository.JobQuery) ([]models.Job, error) {
	jobs := []models.Job{}
	for _, j := range r.Jobs {
		if q.JobType != "" && j.JobType != q.JobType {
			continue
		}
		if q.Company != "" && !strings.Contains(strings.ToLower(j.Company), strings.ToLower(q.Company)) {
			continue
		}
		if q.Location != "" && !strings.Contains(strings.ToLower(j.Location), strings.ToLower(q.Location)) {
			continue
		}
		if q.IsActive != nil && j.IsActive != *q.IsActive {
			continue
		}
		jobs = append(jobs, j)
	}
	sort.Slice(jobs, func(i, j int) bool { return jobs[i].CreatedAt.After(jobs[j].CreatedAt) })
	return jobs, nil
}

func (r *JobRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	r.SweepCalls++
	if r.DeleteErr != nil {
		return 0, r.DeleteErr
	}
	var deleted int64
	for id, j := range r.Jobs {
		if j.ApplicationDeadline.Before(now) {
			delete(r.Jobs, id)
			deleted++
		}
	}
	return deleted, nil
}

func (r *JobRepo) CountAll(ctx context.Context) (int64, error) {
	return int64(len(r.Jobs)), nil
}

func (r *JobRepo) CountCreatedSince(ctx context.Context, since time.Time) (int64, error) {
	var n int64
	for _, j := range r.Jobs {
		if !j.CreatedAt.Before(since) {
			n++
		}
	}
	return n, nil
}

func (r *JobRepo) FindRecent(ctx context.Context, limit int64) ([]models.Job, error) {
	jobs, _ := r.List(ctx, repository.JobQuery{})
	if limit > 0 && int64(len(jobs)) > limit {
		jobs = jobs[:limit]
	}
	return jobs, nil
}

type EventRepo struct {
	Events map[primitive.ObjectID]models.Event
	seq    int
}

func NewEventRepo() *EventRepo {
	return &EventRepo{Events: map[primitive.ObjectID]models.Event{}}
}

func (r *EventRepo) nextTime() time.Time {
	r.seq++
	return time.Unix(1700000000, 0).Add(time.Duration(r.seq) * time.Second)
}

func (r *EventRepo) Insert(ctx context.Context, e *models.Event) (primitive.ObjectID, error) {
	if e.Id.IsZero() {
		e.Id = primitive.NewObjectID()
	}
	e.CreatedAt = r.nextTime()
	r.Events[e.Id] = *e
	return e.Id, nil
}

func (r *EventRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Event, error) {
	e, ok := r.Events[id]
	if !ok {
		return nil, fmt.Errorf("event %s: %w", id.Hex(), repository.ErrNotFound)
	}
	e.Attendees = append([]models.EventAttendee{}, e.Attendees...)
	return &e, nil
}

func (r *EventRepo) Update(ctx context.Context, e *models.Event) error {
	if _, ok := r.Events[e.Id]; !ok {
		return fmt.Errorf("event %s: %w", e.Id.Hex(), repository.ErrNotFound)
	}
	r.Events[e.Id] = *e
	return nil
}

func (r *EventRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	if _, ok := r.Events[id]; !ok {
		return fmt.Errorf("event %s: %w", id.Hex(), repository.ErrNotFound)
	}
	delete(r.Events, id)
	return nil
}

func (r *EventRepo) List(ctx context.Context, approvedOnly bool) ([]models.Event, error) {
	events := []models.Event{}
	for _, e := range r.Events {
		if approvedOnly && !e.IsApproved {
			continue
		}
		events = append(events, e)
	}
	sort.Slice(events, func(i, j int) bool { return events[i].CreatedAt.After(events[j].CreatedAt) })
	return events, nil
}

func (r *EventRepo) CountAll(ctx context.Context) (int64, error) {
	return int64(len(r.Events)), nil
}

func (r *EventRepo) CountPendingApproval(ctx context.Context) (int64, error) {
	var n int64
	for _, e := range r.Events {
		if !e.IsApproved {
			n++
		}
	}
	return n, nil
}

func (r *EventRepo) FindRecent(ctx context.Context, limit int64) ([]models.Event, error) {
	events, _ := r.List(ctx, false)
	if limit > 0 && int64(len(events)) > limit {
		events = events[:limit]
	}
	return events, nil
}
