// Package services holds the business rules of the connection ledger. The
// ConnectionService is the only writer of the connections collection;
// controllers stay thin and translate its errors into HTTP statuses.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/alumnet/alumnet-backend/src/models"
	"github.com/alumnet/alumnet-backend/src/repository"
)

const (
	// DefaultRecommendLimit caps recommendations when no limit is given.
	DefaultRecommendLimit = 10
	// SearchLimit caps alumni search results.
	SearchLimit = 20
)

type ConnectionService struct {
	connections repository.ConnectionRepo
	users       repository.UserRepo
}

func NewConnectionService(connections repository.ConnectionRepo, users repository.UserRepo) *ConnectionService {
	return &ConnectionService{
		connections: connections,
		users:       users,
	}
}

// MentorshipInput is the optional mentorship payload on a new request.
type MentorshipInput struct {
	Goals                  []string                 `json:"goals"`
	PreferredCommunication models.CommunicationMode `json:"preferredCommunication"`
	Availability           string                   `json:"availability"`
}

// SendRequestInput is the typed payload for SendRequest.
type SendRequestInput struct {
	Recipient  primitive.ObjectID `json:"recipientId"`
	Message    string             `json:"message"`
	Mentorship *MentorshipInput   `json:"mentorshipDetails"`
}

// MentorshipPatch carries a partial mentorship-details update. Nil fields
// keep their current value.
type MentorshipPatch struct {
	Goals                  *[]string                 `json:"goals"`
	PreferredCommunication *models.CommunicationMode `json:"preferredCommunication"`
	Availability           *string                   `json:"availability"`
	Status                 *models.MentorshipStatus  `json:"status"`
	EndDate                *time.Time                `json:"endDate"`
}

// ListAccepted returns the user's accepted connections, most recently
// updated first, with both participants' profiles attached.
func (s *ConnectionService) ListAccepted(ctx context.Context, userID primitive.ObjectID) ([]models.PopulatedConnection, error) {
	conns, err := s.connections.ListAccepted(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.populate(ctx, conns)
}

// ListPendingReceived returns pending requests addressed to the user,
// newest first.
func (s *ConnectionService) ListPendingReceived(ctx context.Context, userID primitive.ObjectID) ([]models.PopulatedConnection, error) {
	conns, err := s.connections.ListPendingReceived(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.populate(ctx, conns)
}

// ListPendingSent returns pending requests the user has sent, newest first.
func (s *ConnectionService) ListPendingSent(ctx context.Context, userID primitive.ObjectID) ([]models.PopulatedConnection, error) {
	conns, err := s.connections.ListPendingSent(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.populate(ctx, conns)
}

// ListMentorships returns the user's accepted mentorship connections.
func (s *ConnectionService) ListMentorships(ctx context.Context, userID primitive.ObjectID) ([]models.PopulatedConnection, error) {
	conns, err := s.connections.ListMentorships(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.populate(ctx, conns)
}

// SendRequest creates a pending connection from requester to the recipient
// in the input. A connection in either direction, whatever its status,
// blocks a new one; there is no resend after rejection.
func (s *ConnectionService) SendRequest(ctx context.Context, requesterID primitive.ObjectID, in SendRequestInput) (*models.PopulatedConnection, error) {
	if requesterID == in.Recipient {
		return nil, fmt.Errorf("cannot send a request to yourself: %w", repository.ErrValidation)
	}
	if len(in.Message) > models.MaxConnectionMessageLen {
		return nil, fmt.Errorf("message cannot be longer than %d characters: %w", models.MaxConnectionMessageLen, repository.ErrValidation)
	}

	if _, err := s.lookupUser(ctx, requesterID); err != nil {
		return nil, err
	}
	if _, err := s.lookupUser(ctx, in.Recipient); err != nil {
		return nil, err
	}

	if _, err := s.connections.FindBetween(ctx, requesterID, in.Recipient); err == nil {
		return nil, fmt.Errorf("connection already exists or request is pending: %w", repository.ErrConflict)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	conn := &models.Connection{
		Requester:         requesterID,
		Recipient:         in.Recipient,
		Status:            models.ConnectionStatusPending,
		Message:           in.Message,
		MentorshipRequest: in.Mentorship != nil,
	}
	if in.Mentorship != nil {
		details, err := newMentorshipDetails(in.Mentorship)
		if err != nil {
			return nil, err
		}
		conn.MentorshipDetails = details
	}

	if err := s.connections.Insert(ctx, conn); err != nil {
		return nil, err
	}
	return s.populateOne(ctx, conn)
}

// Accept marks a pending request accepted. Only the recipient may accept.
// A mentorship request additionally becomes an active mentorship dated now.
func (s *ConnectionService) Accept(ctx context.Context, connectionID, actingUserID primitive.ObjectID) (*models.PopulatedConnection, error) {
	conn, err := s.connections.FindByID(ctx, connectionID)
	if err != nil {
		return nil, err
	}
	if conn.Recipient != actingUserID {
		return nil, fmt.Errorf("not authorized to accept this request: %w", repository.ErrForbidden)
	}
	if conn.Status != models.ConnectionStatusPending {
		return nil, fmt.Errorf("request has already been processed: %w", repository.ErrValidation)
	}

	conn.Status = models.ConnectionStatusAccepted
	if conn.MentorshipRequest && conn.MentorshipDetails != nil {
		now := time.Now()
		conn.MentorshipDetails.Status = models.MentorshipStatusActive
		conn.MentorshipDetails.StartDate = &now
	}

	if err := s.connections.Update(ctx, conn); err != nil {
		return nil, err
	}
	return s.populateOne(ctx, conn)
}

// Reject marks a pending request rejected. Only the recipient may reject.
func (s *ConnectionService) Reject(ctx context.Context, connectionID, actingUserID primitive.ObjectID) (*models.PopulatedConnection, error) {
	conn, err := s.connections.FindByID(ctx, connectionID)
	if err != nil {
		return nil, err
	}
	if conn.Recipient != actingUserID {
		return nil, fmt.Errorf("not authorized to reject this request: %w", repository.ErrForbidden)
	}
	if conn.Status != models.ConnectionStatusPending {
		return nil, fmt.Errorf("request has already been processed: %w", repository.ErrValidation)
	}

	conn.Status = models.ConnectionStatusRejected

	if err := s.connections.Update(ctx, conn); err != nil {
		return nil, err
	}
	return s.populateOne(ctx, conn)
}

// Delete removes a connection permanently. Either participant may delete.
func (s *ConnectionService) Delete(ctx context.Context, connectionID, actingUserID primitive.ObjectID) error {
	conn, err := s.connections.FindByID(ctx, connectionID)
	if err != nil {
		return err
	}
	if !conn.IsParticipant(actingUserID) {
		return fmt.Errorf("not authorized to delete this connection: %w", repository.ErrForbidden)
	}
	return s.connections.Delete(ctx, connectionID)
}

// UpdateMentorship shallow-merges the patch into the connection's
// mentorship details. Either participant may update; the connection must
// be a mentorship request.
func (s *ConnectionService) UpdateMentorship(ctx context.Context, connectionID, actingUserID primitive.ObjectID, patch MentorshipPatch) (*models.PopulatedConnection, error) {
	conn, err := s.connections.FindByID(ctx, connectionID)
	if err != nil {
		return nil, err
	}
	if !conn.IsParticipant(actingUserID) {
		return nil, fmt.Errorf("not authorized to update this connection: %w", repository.ErrForbidden)
	}
	if !conn.MentorshipRequest {
		return nil, fmt.Errorf("not a mentorship connection: %w", repository.ErrValidation)
	}

	if conn.MentorshipDetails == nil {
		conn.MentorshipDetails = &models.MentorshipDetails{
			PreferredCommunication: models.CommunicationChat,
			Status:                 models.MentorshipStatusPending,
		}
	}
	details := conn.MentorshipDetails
	if patch.Goals != nil {
		details.Goals = *patch.Goals
	}
	if patch.PreferredCommunication != nil {
		if !validCommunication(*patch.PreferredCommunication) {
			return nil, fmt.Errorf("invalid preferred communication %q: %w", *patch.PreferredCommunication, repository.ErrValidation)
		}
		details.PreferredCommunication = *patch.PreferredCommunication
	}
	if patch.Availability != nil {
		details.Availability = *patch.Availability
	}
	if patch.Status != nil {
		if !validMentorshipStatus(*patch.Status) {
			return nil, fmt.Errorf("invalid mentorship status %q: %w", *patch.Status, repository.ErrValidation)
		}
		details.Status = *patch.Status
	}
	if patch.EndDate != nil {
		details.EndDate = patch.EndDate
	}

	if err := s.connections.Update(ctx, conn); err != nil {
		return nil, err
	}
	return s.populateOne(ctx, conn)
}

// Stats aggregates the user's connection counts.
func (s *ConnectionService) Stats(ctx context.Context, userID primitive.ObjectID) (*models.ConnectionStats, error) {
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.connections.Stats(ctx, userID)
}

// Recommend suggests verified alumni the user is not connected to in any
// direction or status, sharing the user's branch or at least one skill.
func (s *ConnectionService) Recommend(ctx context.Context, userID primitive.ObjectID, limit int64) ([]models.UserProfile, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultRecommendLimit
	}

	existing, err := s.connections.ListAllFor(ctx, userID)
	if err != nil {
		return nil, err
	}
	exclude := []primitive.ObjectID{userID}
	seen := map[primitive.ObjectID]bool{userID: true}
	for _, conn := range existing {
		for _, id := range []primitive.ObjectID{conn.Requester, conn.Recipient} {
			if !seen[id] {
				seen[id] = true
				exclude = append(exclude, id)
			}
		}
	}

	candidates, err := s.users.RecommendAlumni(ctx, exclude, user.Branch, user.Skills, limit)
	if err != nil {
		return nil, err
	}
	return profiles(candidates), nil
}

// Search finds verified alumni whose name, bio, company or skills match
// the query case-insensitively, narrowed by the filters, capped at
// SearchLimit results.
func (s *ConnectionService) Search(ctx context.Context, query string, filters repository.AlumniQuery) ([]models.UserProfile, error) {
	filters.Query = query
	filters.Limit = SearchLimit

	alumni, err := s.users.SearchAlumni(ctx, filters)
	if err != nil {
		return nil, err
	}
	return profiles(alumni), nil
}

func (s *ConnectionService) lookupUser(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		// A missing participant is bad input on a send, not a missing
		// connection.
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("user not found: %w", repository.ErrValidation)
		}
		return nil, err
	}
	return user, nil
}

func (s *ConnectionService) populateOne(ctx context.Context, conn *models.Connection) (*models.PopulatedConnection, error) {
	populated, err := s.populate(ctx, []models.Connection{*conn})
	if err != nil {
		return nil, err
	}
	return &populated[0], nil
}

// populate attaches the participants' public profiles to each connection,
// the moral equivalent of the old populate('requester')/('recipient').
func (s *ConnectionService) populate(ctx context.Context, conns []models.Connection) ([]models.PopulatedConnection, error) {
	cache := map[primitive.ObjectID]*models.UserProfile{}
	profileFor := func(id primitive.ObjectID) (*models.UserProfile, error) {
		if p, ok := cache[id]; ok {
			return p, nil
		}
		user, err := s.users.FindByID(ctx, id)
		if err != nil {
			// A participant deleted out-of-band leaves the slot empty
			// rather than failing the listing.
			if errors.Is(err, repository.ErrNotFound) {
				cache[id] = nil
				return nil, nil
			}
			return nil, err
		}
		p := user.PublicProfile()
		cache[id] = &p
		return &p, nil
	}

	populated := make([]models.PopulatedConnection, 0, len(conns))
	for _, conn := range conns {
		requester, err := profileFor(conn.Requester)
		if err != nil {
			return nil, err
		}
		recipient, err := profileFor(conn.Recipient)
		if err != nil {
			return nil, err
		}
		populated = append(populated, models.PopulatedConnection{
			Connection:       conn,
			RequesterProfile: requester,
			RecipientProfile: recipient,
		})
	}
	return populated, nil
}

func newMentorshipDetails(in *MentorshipInput) (*models.MentorshipDetails, error) {
	mode := in.PreferredCommunication
	if mode == "" {
		mode = models.CommunicationChat
	}
	if !validCommunication(mode) {
		return nil, fmt.Errorf("invalid preferred communication %q: %w", mode, repository.ErrValidation)
	}
	return &models.MentorshipDetails{
		Goals:                  in.Goals,
		PreferredCommunication: mode,
		Availability:           in.Availability,
		Status:                 models.MentorshipStatusPending,
	}, nil
}

func validCommunication(mode models.CommunicationMode) bool {
	switch mode {
	case models.CommunicationEmail, models.CommunicationChat,
		models.CommunicationVideoCall, models.CommunicationInPerson:
		return true
	}
	return false
}

func validMentorshipStatus(status models.MentorshipStatus) bool {
	switch status {
	case models.MentorshipStatusPending, models.MentorshipStatusActive,
		models.MentorshipStatusCompleted, models.MentorshipStatusCancelled:
		return true
	}
	return false
}

func profiles(users []models.User) []models.UserProfile {
	out := make([]models.UserProfile, 0, len(users))
	for i := range users {
		out = append(out, users[i].PublicProfile())
	}
	return out
}
