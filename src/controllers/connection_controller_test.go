package controllers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/alumnet/alumnet-backend/src/controllers"
	"github.com/alumnet/alumnet-backend/src/lib"
	"github.com/alumnet/alumnet-backend/src/middleware"
	"github.com/alumnet/alumnet-backend/src/models"
	"github.com/alumnet/alumnet-backend/src/repository/mock"
	"github.com/alumnet/alumnet-backend/src/routes"
	"github.com/alumnet/alumnet-backend/src/services"
)

const testSecret = "test-secret"

type env struct {
	app   *fiber.App
	users *mock.UserRepo
	conns *mock.ConnectionRepo
	svc   *services.ConnectionService
}

func newEnv(t *testing.T) *env {
	t.Helper()
	users := mock.NewUserRepo()
	conns := mock.NewConnectionRepo()
	svc := services.NewConnectionService(conns, users)

	app := fiber.New()
	protect := middleware.Protect(users, testSecret)
	routes.ConnectionRoutes(app, controllers.NewConnectionController(svc), protect)

	return &env{app: app, users: users, conns: conns, svc: svc}
}

func (e *env) verifiedAlumni(t *testing.T, name string) models.User {
	t.Helper()
	return e.users.Add(models.User{
		Name:       name,
		Email:      name + "@example.com",
		Role:       models.RoleAlumni,
		IsVerified: true,
	})
}

func (e *env) request(t *testing.T, as models.User, method, path string, body any) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	token, err := lib.GenerateJWT(as.Id.Hex(), testSecret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := e.app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return body
}

func TestSendConnectionRequestEndpoint(t *testing.T) {
	t.Run("creates a pending request", func(t *testing.T) {
		e := newEnv(t)
		alice := e.verifiedAlumni(t, "alice")
		bob := e.verifiedAlumni(t, "bob")

		resp := e.request(t, alice, http.MethodPost, "/api/connections/", fiber.Map{
			"recipientId": bob.Id.Hex(),
			"message":     "hello",
		})
		if resp.StatusCode != fiber.StatusCreated {
			t.Fatalf("status = %d, want 201", resp.StatusCode)
		}
		body := decodeBody(t, resp)
		data, ok := body["data"].(map[string]any)
		if !ok {
			t.Fatalf("body = %v, want a data object", body)
		}
		if data["status"] != "pending" {
			t.Errorf("status = %v, want pending", data["status"])
		}
	})

	t.Run("duplicate request returns 409", func(t *testing.T) {
		e := newEnv(t)
		alice := e.verifiedAlumni(t, "alice")
		bob := e.verifiedAlumni(t, "bob")

		payload := fiber.Map{"recipientId": bob.Id.Hex()}
		if resp := e.request(t, alice, http.MethodPost, "/api/connections/", payload); resp.StatusCode != fiber.StatusCreated {
			t.Fatalf("first request: status = %d, want 201", resp.StatusCode)
		}
		if resp := e.request(t, alice, http.MethodPost, "/api/connections/", payload); resp.StatusCode != fiber.StatusConflict {
			t.Errorf("duplicate: status = %d, want 409", resp.StatusCode)
		}
	})

	t.Run("bad recipient id returns 400", func(t *testing.T) {
		e := newEnv(t)
		alice := e.verifiedAlumni(t, "alice")

		resp := e.request(t, alice, http.MethodPost, "/api/connections/", fiber.Map{
			"recipientId": "not-an-id",
		})
		if resp.StatusCode != fiber.StatusBadRequest {
			t.Errorf("status = %d, want 400", resp.StatusCode)
		}
	})

	t.Run("unverified sender is blocked", func(t *testing.T) {
		e := newEnv(t)
		unverified := e.users.Add(models.User{
			Name: "newbie", Email: "newbie@example.com", Role: models.RoleStudent,
		})
		bob := e.verifiedAlumni(t, "bob")

		resp := e.request(t, unverified, http.MethodPost, "/api/connections/", fiber.Map{
			"recipientId": bob.Id.Hex(),
		})
		if resp.StatusCode != fiber.StatusForbidden {
			t.Errorf("status = %d, want 403", resp.StatusCode)
		}
	})

	t.Run("unauthenticated request is rejected", func(t *testing.T) {
		e := newEnv(t)
		req := httptest.NewRequest(http.MethodGet, "/api/connections/", nil)
		resp, err := e.app.Test(req)
		if err != nil {
			t.Fatalf("app.Test: %v", err)
		}
		if resp.StatusCode != fiber.StatusUnauthorized {
			t.Errorf("status = %d, want 401", resp.StatusCode)
		}
	})
}

func TestAcceptConnectionEndpoint(t *testing.T) {
	e := newEnv(t)
	alice := e.verifiedAlumni(t, "alice")
	bob := e.verifiedAlumni(t, "bob")
	mallory := e.verifiedAlumni(t, "mallory")

	conn, err := e.svc.SendRequest(context.Background(), alice.Id, services.SendRequestInput{Recipient: bob.Id})
	if err != nil {
		t.Fatalf("SendRequest: %v", err)
	}
	path := "/api/connections/" + conn.Id.Hex() + "/accept"

	t.Run("non-recipient gets 403", func(t *testing.T) {
		if resp := e.request(t, mallory, http.MethodPut, path, nil); resp.StatusCode != fiber.StatusForbidden {
			t.Errorf("status = %d, want 403", resp.StatusCode)
		}
	})

	t.Run("recipient accepts", func(t *testing.T) {
		resp := e.request(t, bob, http.MethodPut, path, nil)
		if resp.StatusCode != fiber.StatusOK {
			t.Fatalf("status = %d, want 200", resp.StatusCode)
		}
		body := decodeBody(t, resp)
		data := body["data"].(map[string]any)
		if data["status"] != "accepted" {
			t.Errorf("status = %v, want accepted", data["status"])
		}
	})

	t.Run("second accept gets 400", func(t *testing.T) {
		if resp := e.request(t, bob, http.MethodPut, path, nil); resp.StatusCode != fiber.StatusBadRequest {
			t.Errorf("status = %d, want 400", resp.StatusCode)
		}
	})

	t.Run("unknown connection gets 404", func(t *testing.T) {
		missing := "/api/connections/64f0c0ffee00000000000099/accept"
		if resp := e.request(t, bob, http.MethodPut, missing, nil); resp.StatusCode != fiber.StatusNotFound {
			t.Errorf("status = %d, want 404", resp.StatusCode)
		}
	})
}

func TestConnectionListingEndpoints(t *testing.T) {
	e := newEnv(t)
	alice := e.verifiedAlumni(t, "alice")
	bob := e.verifiedAlumni(t, "bob")
	carol := e.verifiedAlumni(t, "carol")

	accepted, err := e.svc.SendRequest(context.Background(), alice.Id, services.SendRequestInput{
		Recipient:  bob.Id,
		Mentorship: &services.MentorshipInput{Goals: []string{"career advice"}},
	})
	if err != nil {
		t.Fatalf("SendRequest: %v", err)
	}
	if _, err := e.svc.Accept(context.Background(), accepted.Id, bob.Id); err != nil {
		t.Fatalf("Accept: %v", err)
	}
	if _, err := e.svc.SendRequest(context.Background(), alice.Id, services.SendRequestInput{Recipient: carol.Id}); err != nil {
		t.Fatalf("SendRequest: %v", err)
	}

	cases := []struct {
		path  string
		count float64
	}{
		{"/api/connections/", 1},
		{"/api/connections/pending", 0},
		{"/api/connections/sent", 1},
		{"/api/connections/mentorship", 1},
	}
	for _, tc := range cases {
		t.Run(tc.path, func(t *testing.T) {
			resp := e.request(t, alice, http.MethodGet, tc.path, nil)
			if resp.StatusCode != fiber.StatusOK {
				t.Fatalf("status = %d, want 200", resp.StatusCode)
			}
			body := decodeBody(t, resp)
			if body["count"] != tc.count {
				t.Errorf("count = %v, want %v", body["count"], tc.count)
			}
		})
	}

	t.Run("stats", func(t *testing.T) {
		resp := e.request(t, alice, http.MethodGet, "/api/connections/stats", nil)
		if resp.StatusCode != fiber.StatusOK {
			t.Fatalf("status = %d, want 200", resp.StatusCode)
		}
		body := decodeBody(t, resp)
		data := body["data"].(map[string]any)
		if data["totalConnections"] != float64(1) {
			t.Errorf("totalConnections = %v, want 1", data["totalConnections"])
		}
		if data["mentorshipConnections"] != float64(1) {
			t.Errorf("mentorshipConnections = %v, want 1", data["mentorshipConnections"])
		}
		if data["sentRequests"] != float64(1) {
			t.Errorf("sentRequests = %v, want 1", data["sentRequests"])
		}
	})
}

func TestDeleteConnectionEndpoint(t *testing.T) {
	e := newEnv(t)
	alice := e.verifiedAlumni(t, "alice")
	bob := e.verifiedAlumni(t, "bob")
	mallory := e.verifiedAlumni(t, "mallory")

	conn, err := e.svc.SendRequest(context.Background(), alice.Id, services.SendRequestInput{Recipient: bob.Id})
	if err != nil {
		t.Fatalf("SendRequest: %v", err)
	}
	path := "/api/connections/" + conn.Id.Hex()

	if resp := e.request(t, mallory, http.MethodDelete, path, nil); resp.StatusCode != fiber.StatusForbidden {
		t.Errorf("non-participant delete: status = %d, want 403", resp.StatusCode)
	}
	if resp := e.request(t, alice, http.MethodDelete, path, nil); resp.StatusCode != fiber.StatusOK {
		t.Errorf("participant delete: status = %d, want 200", resp.StatusCode)
	}
	if resp := e.request(t, alice, http.MethodDelete, path, nil); resp.StatusCode != fiber.StatusNotFound {
		t.Errorf("repeat delete: status = %d, want 404", resp.StatusCode)
	}
}

func TestUpdateMentorshipEndpoint(t *testing.T) {
	e := newEnv(t)
	alice := e.verifiedAlumni(t, "alice")
	bob := e.verifiedAlumni(t, "bob")

	conn, err := e.svc.SendRequest(context.Background(), alice.Id, services.SendRequestInput{
		Recipient:  bob.Id,
		Mentorship: &services.MentorshipInput{Goals: []string{"career advice"}},
	})
	if err != nil {
		t.Fatalf("SendRequest: %v", err)
	}
	path := "/api/connections/" + conn.Id.Hex() + "/mentorship"

	resp := e.request(t, bob, http.MethodPut, path, fiber.Map{
		"availability": "weekends",
	})
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	body := decodeBody(t, resp)
	data := body["data"].(map[string]any)
	details := data["mentorshipDetails"].(map[string]any)
	if details["availability"] != "weekends" {
		t.Errorf("availability = %v, want weekends", details["availability"])
	}
	goals, _ := details["goals"].([]any)
	if len(goals) != 1 || goals[0] != "career advice" {
		t.Errorf("goals = %v, want untouched", details["goals"])
	}

	plain, err := e.svc.SendRequest(context.Background(), bob.Id, services.SendRequestInput{
		Recipient: e.verifiedAlumni(t, "carol").Id,
	})
	if err != nil {
		t.Fatalf("SendRequest: %v", err)
	}
	resp = e.request(t, bob, http.MethodPut, "/api/connections/"+plain.Id.Hex()+"/mentorship", fiber.Map{
		"availability": "weekends",
	})
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("non-mentorship update: status = %d, want 400", resp.StatusCode)
	}
}
