package services_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/alumnet/alumnet-backend/src/models"
	"github.com/alumnet/alumnet-backend/src/repository"
	"github.com/alumnet/alumnet-backend/src/repository/mock"
	"github.com/alumnet/alumnet-backend/src/services"
)

type fixture struct {
	svc   *services.ConnectionService
	users *mock.UserRepo
	conns *mock.ConnectionRepo
}

func newFixture() *fixture {
	users := mock.NewUserRepo()
	conns := mock.NewConnectionRepo()
	return &fixture{
		svc:   services.NewConnectionService(conns, users),
		users: users,
		conns: conns,
	}
}

func (f *fixture) addUser(name string) models.User {
	return f.users.Add(models.User{
		Name:  name,
		Email: name + "@example.com",
		Role:  models.RoleStudent,
	})
}

func (f *fixture) addAlumni(name, branch string, skills []string, verified bool) models.User {
	return f.users.Add(models.User{
		Name:       name,
		Email:      name + "@example.com",
		Role:       models.RoleAlumni,
		IsVerified: verified,
		Branch:     branch,
		Skills:     skills,
	})
}

func (f *fixture) send(t *testing.T, from, to models.User) *models.PopulatedConnection {
	t.Helper()
	conn, err := f.svc.SendRequest(context.Background(), from.Id, services.SendRequestInput{
		Recipient: to.Id,
		Message:   "hello",
	})
	if err != nil {
		t.Fatalf("SendRequest(%s -> %s): %v", from.Name, to.Name, err)
	}
	return conn
}

func TestSendRequest(t *testing.T) {
	ctx := context.Background()

	t.Run("creates pending connection with profiles attached", func(t *testing.T) {
		f := newFixture()
		a := f.addUser("alice")
		b := f.addUser("bob")

		conn, err := f.svc.SendRequest(ctx, a.Id, services.SendRequestInput{
			Recipient: b.Id,
			Message:   "let's connect",
		})
		if err != nil {
			t.Fatalf("SendRequest: %v", err)
		}
		if conn.Status != models.ConnectionStatusPending {
			t.Errorf("status = %s, want pending", conn.Status)
		}
		if conn.MentorshipRequest {
			t.Error("MentorshipRequest = true without mentorship payload")
		}
		if conn.RequesterProfile == nil || conn.RequesterProfile.Name != "alice" {
			t.Errorf("requester profile = %+v, want alice", conn.RequesterProfile)
		}
		if conn.RecipientProfile == nil || conn.RecipientProfile.Name != "bob" {
			t.Errorf("recipient profile = %+v, want bob", conn.RecipientProfile)
		}
	})

	t.Run("mentorship payload marks the request and defaults to chat", func(t *testing.T) {
		f := newFixture()
		a := f.addUser("alice")
		b := f.addUser("bob")

		conn, err := f.svc.SendRequest(ctx, a.Id, services.SendRequestInput{
			Recipient:  b.Id,
			Mentorship: &services.MentorshipInput{Goals: []string{"career advice"}},
		})
		if err != nil {
			t.Fatalf("SendRequest: %v", err)
		}
		if !conn.MentorshipRequest {
			t.Error("MentorshipRequest = false, want true")
		}
		if conn.MentorshipDetails == nil {
			t.Fatal("MentorshipDetails missing")
		}
		if conn.MentorshipDetails.Status != models.MentorshipStatusPending {
			t.Errorf("mentorship status = %s, want pending", conn.MentorshipDetails.Status)
		}
		if conn.MentorshipDetails.PreferredCommunication != models.CommunicationChat {
			t.Errorf("preferredCommunication = %s, want chat", conn.MentorshipDetails.PreferredCommunication)
		}
	})

	t.Run("self request fails validation", func(t *testing.T) {
		f := newFixture()
		a := f.addUser("alice")

		_, err := f.svc.SendRequest(ctx, a.Id, services.SendRequestInput{Recipient: a.Id})
		if !errors.Is(err, repository.ErrValidation) {
			t.Errorf("err = %v, want ErrValidation", err)
		}
	})

	t.Run("missing users fail validation", func(t *testing.T) {
		f := newFixture()
		a := f.addUser("alice")

		_, err := f.svc.SendRequest(ctx, a.Id, services.SendRequestInput{Recipient: primitive.NewObjectID()})
		if !errors.Is(err, repository.ErrValidation) {
			t.Errorf("unknown recipient: err = %v, want ErrValidation", err)
		}

		_, err = f.svc.SendRequest(ctx, primitive.NewObjectID(), services.SendRequestInput{Recipient: a.Id})
		if !errors.Is(err, repository.ErrValidation) {
			t.Errorf("unknown requester: err = %v, want ErrValidation", err)
		}
	})

	t.Run("oversized message fails validation", func(t *testing.T) {
		f := newFixture()
		a := f.addUser("alice")
		b := f.addUser("bob")

		long := make([]byte, models.MaxConnectionMessageLen+1)
		for i := range long {
			long[i] = 'x'
		}
		_, err := f.svc.SendRequest(ctx, a.Id, services.SendRequestInput{
			Recipient: b.Id,
			Message:   string(long),
		})
		if !errors.Is(err, repository.ErrValidation) {
			t.Errorf("err = %v, want ErrValidation", err)
		}
	})

	t.Run("invalid communication mode fails validation", func(t *testing.T) {
		f := newFixture()
		a := f.addUser("alice")
		b := f.addUser("bob")

		_, err := f.svc.SendRequest(ctx, a.Id, services.SendRequestInput{
			Recipient:  b.Id,
			Mentorship: &services.MentorshipInput{PreferredCommunication: "carrier_pigeon"},
		})
		if !errors.Is(err, repository.ErrValidation) {
			t.Errorf("err = %v, want ErrValidation", err)
		}
	})

	t.Run("duplicate in either direction conflicts regardless of status", func(t *testing.T) {
		f := newFixture()
		a := f.addUser("alice")
		b := f.addUser("bob")
		conn := f.send(t, a, b)

		for _, pair := range [][2]models.User{{a, b}, {b, a}} {
			_, err := f.svc.SendRequest(ctx, pair[0].Id, services.SendRequestInput{Recipient: pair[1].Id})
			if !errors.Is(err, repository.ErrConflict) {
				t.Errorf("pending duplicate %s->%s: err = %v, want ErrConflict", pair[0].Name, pair[1].Name, err)
			}
		}

		if _, err := f.svc.Accept(ctx, conn.Id, b.Id); err != nil {
			t.Fatalf("Accept: %v", err)
		}
		_, err := f.svc.SendRequest(ctx, b.Id, services.SendRequestInput{Recipient: a.Id})
		if !errors.Is(err, repository.ErrConflict) {
			t.Errorf("accepted duplicate: err = %v, want ErrConflict", err)
		}
	})

	t.Run("no resend after rejection", func(t *testing.T) {
		f := newFixture()
		a := f.addUser("alice")
		b := f.addUser("bob")
		conn := f.send(t, a, b)

		if _, err := f.svc.Reject(ctx, conn.Id, b.Id); err != nil {
			t.Fatalf("Reject: %v", err)
		}
		_, err := f.svc.SendRequest(ctx, a.Id, services.SendRequestInput{Recipient: b.Id})
		if !errors.Is(err, repository.ErrConflict) {
			t.Errorf("resend after reject: err = %v, want ErrConflict", err)
		}
	})
}

func TestAcceptReject(t *testing.T) {
	ctx := context.Background()

	t.Run("accept activates mentorship with a start date", func(t *testing.T) {
		f := newFixture()
		a := f.addUser("alice")
		b := f.addUser("bob")

		conn, err := f.svc.SendRequest(ctx, a.Id, services.SendRequestInput{
			Recipient:  b.Id,
			Mentorship: &services.MentorshipInput{Goals: []string{"career advice"}},
		})
		if err != nil {
			t.Fatalf("SendRequest: %v", err)
		}

		accepted, err := f.svc.Accept(ctx, conn.Id, b.Id)
		if err != nil {
			t.Fatalf("Accept: %v", err)
		}
		if accepted.Status != models.ConnectionStatusAccepted {
			t.Errorf("status = %s, want accepted", accepted.Status)
		}
		if accepted.MentorshipDetails.Status != models.MentorshipStatusActive {
			t.Errorf("mentorship status = %s, want active", accepted.MentorshipDetails.Status)
		}
		if accepted.MentorshipDetails.StartDate == nil {
			t.Error("mentorship startDate not set")
		}
	})

	t.Run("reject never touches mentorship details", func(t *testing.T) {
		f := newFixture()
		a := f.addUser("alice")
		b := f.addUser("bob")

		conn, err := f.svc.SendRequest(ctx, a.Id, services.SendRequestInput{
			Recipient:  b.Id,
			Mentorship: &services.MentorshipInput{Goals: []string{"career advice"}},
		})
		if err != nil {
			t.Fatalf("SendRequest: %v", err)
		}

		rejected, err := f.svc.Reject(ctx, conn.Id, b.Id)
		if err != nil {
			t.Fatalf("Reject: %v", err)
		}
		if rejected.Status != models.ConnectionStatusRejected {
			t.Errorf("status = %s, want rejected", rejected.Status)
		}
		if rejected.MentorshipDetails.Status != models.MentorshipStatusPending {
			t.Errorf("mentorship status = %s, want pending", rejected.MentorshipDetails.Status)
		}
		if rejected.MentorshipDetails.StartDate != nil {
			t.Error("mentorship startDate set on reject")
		}
	})

	t.Run("only the recipient may accept or reject", func(t *testing.T) {
		f := newFixture()
		a := f.addUser("alice")
		b := f.addUser("bob")
		other := f.addUser("mallory")
		conn := f.send(t, a, b)

		for name, op := range map[string]func() error{
			"accept by requester": func() error { _, err := f.svc.Accept(ctx, conn.Id, a.Id); return err },
			"accept by stranger":  func() error { _, err := f.svc.Accept(ctx, conn.Id, other.Id); return err },
			"reject by requester": func() error { _, err := f.svc.Reject(ctx, conn.Id, a.Id); return err },
			"reject by stranger":  func() error { _, err := f.svc.Reject(ctx, conn.Id, other.Id); return err },
		} {
			if err := op(); !errors.Is(err, repository.ErrForbidden) {
				t.Errorf("%s: err = %v, want ErrForbidden", name, err)
			}
		}

		stored, err := f.conns.FindByID(ctx, conn.Id)
		if err != nil {
			t.Fatalf("FindByID: %v", err)
		}
		if stored.Status != models.ConnectionStatusPending {
			t.Errorf("status = %s after failed attempts, want pending", stored.Status)
		}
	})

	t.Run("processed requests cannot be processed again", func(t *testing.T) {
		f := newFixture()
		a := f.addUser("alice")
		b := f.addUser("bob")
		conn := f.send(t, a, b)

		if _, err := f.svc.Accept(ctx, conn.Id, b.Id); err != nil {
			t.Fatalf("Accept: %v", err)
		}
		if _, err := f.svc.Accept(ctx, conn.Id, b.Id); !errors.Is(err, repository.ErrValidation) {
			t.Errorf("second accept: err = %v, want ErrValidation", err)
		}
		if _, err := f.svc.Reject(ctx, conn.Id, b.Id); !errors.Is(err, repository.ErrValidation) {
			t.Errorf("reject after accept: err = %v, want ErrValidation", err)
		}
	})

	t.Run("unknown connection is not found", func(t *testing.T) {
		f := newFixture()
		b := f.addUser("bob")

		if _, err := f.svc.Accept(ctx, primitive.NewObjectID(), b.Id); !errors.Is(err, repository.ErrNotFound) {
			t.Errorf("err = %v, want ErrNotFound", err)
		}
	})
}

func TestDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("either participant may delete, lookups fail afterwards", func(t *testing.T) {
		f := newFixture()
		a := f.addUser("alice")
		b := f.addUser("bob")
		conn := f.send(t, a, b)

		if err := f.svc.Delete(ctx, conn.Id, a.Id); err != nil {
			t.Fatalf("Delete by requester: %v", err)
		}
		if _, err := f.conns.FindByID(ctx, conn.Id); !errors.Is(err, repository.ErrNotFound) {
			t.Errorf("lookup after delete: err = %v, want ErrNotFound", err)
		}
		if err := f.svc.Delete(ctx, conn.Id, a.Id); !errors.Is(err, repository.ErrNotFound) {
			t.Errorf("second delete: err = %v, want ErrNotFound", err)
		}
	})

	t.Run("non-participants may not delete", func(t *testing.T) {
		f := newFixture()
		a := f.addUser("alice")
		b := f.addUser("bob")
		other := f.addUser("mallory")
		conn := f.send(t, a, b)

		if err := f.svc.Delete(ctx, conn.Id, other.Id); !errors.Is(err, repository.ErrForbidden) {
			t.Errorf("err = %v, want ErrForbidden", err)
		}
		if _, err := f.conns.FindByID(ctx, conn.Id); err != nil {
			t.Errorf("connection removed by unauthorized delete: %v", err)
		}
	})
}

func TestUpdateMentorship(t *testing.T) {
	ctx := context.Background()

	t.Run("merges supplied fields and keeps the rest", func(t *testing.T) {
		f := newFixture()
		a := f.addUser("alice")
		b := f.addUser("bob")

		conn, err := f.svc.SendRequest(ctx, a.Id, services.SendRequestInput{
			Recipient: b.Id,
			Mentorship: &services.MentorshipInput{
				Goals:        []string{"career advice"},
				Availability: "weekends",
			},
		})
		if err != nil {
			t.Fatalf("SendRequest: %v", err)
		}

		mode := models.CommunicationVideoCall
		updated, err := f.svc.UpdateMentorship(ctx, conn.Id, a.Id, services.MentorshipPatch{
			PreferredCommunication: &mode,
		})
		if err != nil {
			t.Fatalf("UpdateMentorship: %v", err)
		}
		if updated.MentorshipDetails.PreferredCommunication != models.CommunicationVideoCall {
			t.Errorf("preferredCommunication = %s, want video_call", updated.MentorshipDetails.PreferredCommunication)
		}
		if updated.MentorshipDetails.Availability != "weekends" {
			t.Errorf("availability = %q, want weekends untouched", updated.MentorshipDetails.Availability)
		}
		if len(updated.MentorshipDetails.Goals) != 1 || updated.MentorshipDetails.Goals[0] != "career advice" {
			t.Errorf("goals = %v, want untouched", updated.MentorshipDetails.Goals)
		}
	})

	t.Run("rejects non-mentorship connections", func(t *testing.T) {
		f := newFixture()
		a := f.addUser("alice")
		b := f.addUser("bob")
		conn := f.send(t, a, b)

		availability := "weekdays"
		_, err := f.svc.UpdateMentorship(ctx, conn.Id, a.Id, services.MentorshipPatch{Availability: &availability})
		if !errors.Is(err, repository.ErrValidation) {
			t.Errorf("err = %v, want ErrValidation", err)
		}
	})

	t.Run("rejects non-participants", func(t *testing.T) {
		f := newFixture()
		a := f.addUser("alice")
		b := f.addUser("bob")
		other := f.addUser("mallory")

		conn, err := f.svc.SendRequest(ctx, a.Id, services.SendRequestInput{
			Recipient:  b.Id,
			Mentorship: &services.MentorshipInput{},
		})
		if err != nil {
			t.Fatalf("SendRequest: %v", err)
		}

		availability := "weekdays"
		_, err = f.svc.UpdateMentorship(ctx, conn.Id, other.Id, services.MentorshipPatch{Availability: &availability})
		if !errors.Is(err, repository.ErrForbidden) {
			t.Errorf("err = %v, want ErrForbidden", err)
		}
	})
}

func TestListsAndStats(t *testing.T) {
	ctx := context.Background()

	f := newFixture()
	u1 := f.addUser("u1")
	u2 := f.addUser("u2")
	u3 := f.addUser("u3")
	u4 := f.addUser("u4")

	// u1 -> u2 mentorship, accepted; u1 -> u3 pending; u4 -> u1 pending.
	mentorConn, err := f.svc.SendRequest(ctx, u1.Id, services.SendRequestInput{
		Recipient:  u2.Id,
		Mentorship: &services.MentorshipInput{Goals: []string{"career advice"}},
	})
	if err != nil {
		t.Fatalf("SendRequest: %v", err)
	}
	if _, err := f.svc.Accept(ctx, mentorConn.Id, u2.Id); err != nil {
		t.Fatalf("Accept: %v", err)
	}
	f.send(t, u1, u3)
	f.send(t, u4, u1)

	accepted, err := f.svc.ListAccepted(ctx, u1.Id)
	if err != nil {
		t.Fatalf("ListAccepted: %v", err)
	}
	received, err := f.svc.ListPendingReceived(ctx, u1.Id)
	if err != nil {
		t.Fatalf("ListPendingReceived: %v", err)
	}
	sent, err := f.svc.ListPendingSent(ctx, u1.Id)
	if err != nil {
		t.Fatalf("ListPendingSent: %v", err)
	}
	mentorships, err := f.svc.ListMentorships(ctx, u1.Id)
	if err != nil {
		t.Fatalf("ListMentorships: %v", err)
	}

	if len(accepted) != 1 || len(received) != 1 || len(sent) != 1 || len(mentorships) != 1 {
		t.Fatalf("list sizes = %d/%d/%d/%d, want 1/1/1/1",
			len(accepted), len(received), len(sent), len(mentorships))
	}
	if received[0].RequesterProfile == nil || received[0].RequesterProfile.Name != "u4" {
		t.Errorf("received requester profile = %+v, want u4", received[0].RequesterProfile)
	}
	if sent[0].RecipientProfile == nil || sent[0].RecipientProfile.Name != "u3" {
		t.Errorf("sent recipient profile = %+v, want u3", sent[0].RecipientProfile)
	}

	stats, err := f.svc.Stats(ctx, u1.Id)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.TotalConnections != int64(len(accepted)) {
		t.Errorf("totalConnections = %d, want %d", stats.TotalConnections, len(accepted))
	}
	if stats.PendingRequests != int64(len(received)) {
		t.Errorf("pendingRequests = %d, want %d", stats.PendingRequests, len(received))
	}
	if stats.SentRequests != int64(len(sent)) {
		t.Errorf("sentRequests = %d, want %d", stats.SentRequests, len(sent))
	}
	if stats.MentorshipConnections != int64(len(mentorships)) {
		t.Errorf("mentorshipConnections = %d, want %d", stats.MentorshipConnections, len(mentorships))
	}

	if _, err := f.svc.Stats(ctx, primitive.NewObjectID()); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("stats for unknown user: err = %v, want ErrNotFound", err)
	}
}

func TestListOrdering(t *testing.T) {
	ctx := context.Background()

	f := newFixture()
	u1 := f.addUser("u1")
	u2 := f.addUser("u2")
	u3 := f.addUser("u3")

	first := f.send(t, u1, u2)
	second := f.send(t, u1, u3)

	if _, err := f.svc.Accept(ctx, second.Id, u3.Id); err != nil {
		t.Fatalf("Accept: %v", err)
	}
	if _, err := f.svc.Accept(ctx, first.Id, u2.Id); err != nil {
		t.Fatalf("Accept: %v", err)
	}

	// first was accepted last, so it was updated most recently.
	accepted, err := f.svc.ListAccepted(ctx, u1.Id)
	if err != nil {
		t.Fatalf("ListAccepted: %v", err)
	}
	if len(accepted) != 2 {
		t.Fatalf("len(accepted) = %d, want 2", len(accepted))
	}
	if accepted[0].Id != first.Id {
		t.Errorf("accepted[0] = %s, want the most recently updated connection", accepted[0].Id.Hex())
	}
}

func TestRecommend(t *testing.T) {
	ctx := context.Background()

	f := newFixture()
	me := f.users.Add(models.User{
		Name:   "me",
		Email:  "me@example.com",
		Role:   models.RoleStudent,
		Branch: "CSE",
		Skills: []string{"python"},
	})

	sameBranch := f.addAlumni("branchmate", "CSE", nil, true)
	sameSkill := f.addAlumni("skillmate", "ECE", []string{"python", "go"}, true)
	connected := f.addAlumni("connected", "CSE", nil, true)
	f.addAlumni("unverified", "CSE", nil, false)
	f.addAlumni("unrelated", "ME", []string{"welding"}, true)
	f.users.Add(models.User{Name: "student", Email: "s@example.com", Role: models.RoleStudent, Branch: "CSE"})

	f.send(t, me, connected)

	recs, err := f.svc.Recommend(ctx, me.Id, 0)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}

	got := map[string]bool{}
	for _, rec := range recs {
		got[rec.Name] = true
	}
	if len(recs) != 2 || !got[sameBranch.Name] || !got[sameSkill.Name] {
		t.Errorf("recommendations = %v, want exactly {branchmate, skillmate}", got)
	}

	limited, err := f.svc.Recommend(ctx, me.Id, 1)
	if err != nil {
		t.Fatalf("Recommend with limit: %v", err)
	}
	if len(limited) != 1 {
		t.Errorf("len(limited) = %d, want 1", len(limited))
	}

	if _, err := f.svc.Recommend(ctx, primitive.NewObjectID(), 0); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("unknown user: err = %v, want ErrNotFound", err)
	}
}

func TestSearch(t *testing.T) {
	ctx := context.Background()

	f := newFixture()
	f.addAlumni("Pythonista", "CSE", nil, true)
	f.users.Add(models.User{
		Name: "skilled", Email: "sk@example.com", Role: models.RoleAlumni,
		IsVerified: true, Branch: "CSE", Skills: []string{"Python", "ml"},
	})
	f.users.Add(models.User{
		Name: "other branch", Email: "ob@example.com", Role: models.RoleAlumni,
		IsVerified: true, Branch: "ECE", Skills: []string{"python"},
	})
	f.users.Add(models.User{
		Name: "unverified py", Email: "up@example.com", Role: models.RoleAlumni,
		Branch: "CSE", Skills: []string{"python"},
	})

	results, err := f.svc.Search(ctx, "python", repository.AlumniQuery{Branch: "CSE"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("len(results) = %d, want 2 (case-insensitive, CSE only, verified only)", len(results))
	}
	for _, res := range results {
		if res.Branch != "CSE" {
			t.Errorf("result %s has branch %s, want CSE", res.Name, res.Branch)
		}
	}

	// Results are capped even when more alumni match.
	for i := 0; i < services.SearchLimit+5; i++ {
		f.users.Add(models.User{
			Name: "gopher", Email: fmt.Sprintf("gopher%d@example.com", i), Role: models.RoleAlumni,
			IsVerified: true, Skills: []string{"go"},
		})
	}
	capped, err := f.svc.Search(ctx, "go", repository.AlumniQuery{})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(capped) != services.SearchLimit {
		t.Errorf("len(capped) = %d, want %d", len(capped), services.SearchLimit)
	}
}
