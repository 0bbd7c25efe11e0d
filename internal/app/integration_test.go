package app

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"seminar-api/internal/config"
	"seminar-api/internal/database"
	"seminar-api/internal/database/migration"
	dbpostgres "seminar-api/internal/database/postgres"
)

type semanticResponse struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type authData struct {
	User struct {
		ID uuid.UUID `json:"id"`
	} `json:"user"`
	AccessToken string `json:"access_token"`
}

type seminarData struct {
	ID           uuid.UUID         `json:"id"`
	Participants []json.RawMessage `json:"participants"`
	Instructors  []json.RawMessage `json:"instructors"`
}

func TestIntegration_SignupRegisterEnter(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	dbcfg := testDBConfig(t)
	db, err := dbpostgres.Connect(ctx, dbcfg)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	defer func() { _ = db.Close() }()

	if err := (migration.Runner{DatabaseURL: dbcfg.URL()}).Up(); err != nil {
		t.Fatalf("migrate up: %v", err)
	}

	a := New(newContainer(testConfig(), nil, db, nil))

	suffix := uuid.NewString()[:8]
	ian := signup(t, a, map[string]any{
		"name": "Ian", "email": "ian-" + suffix + "@example.com", "password": "password123",
		"role": "instructor", "company": "Acme", "year": 5,
	})
	alice := signup(t, a, map[string]any{
		"name": "Alice", "email": "alice-" + suffix + "@example.com", "password": "password123",
		"role": "participant", "university": "KU",
	})
	bob := signup(t, a, map[string]any{
		"name": "Bob", "email": "bob-" + suffix + "@example.com", "password": "password123",
		"role": "participant", "university": "KU",
	})

	var seminarID uuid.UUID
	defer cleanup(t, db, &seminarID, ian.User.ID, alice.User.ID, bob.User.ID)

	sr := call(t, a, fiber.MethodPost, "/api/v1/seminars", ian.AccessToken, map[string]any{
		"name": "Go in practice", "capacity": 1, "count": 3, "time": "10:30", "online": "False",
	})
	if sr.Status != fiber.StatusCreated {
		t.Fatalf("register: expected 201, got %d (%s)", sr.Status, sr.Message)
	}
	var sem seminarData
	decode(t, sr.Data, &sem)
	seminarID = sem.ID
	if len(sem.Instructors) != 1 || len(sem.Participants) != 0 {
		t.Fatalf("register: unexpected members %+v", sem)
	}

	enterPath := "/api/v1/seminars/" + seminarID.String() + "/user"

	sr = call(t, a, fiber.MethodPost, enterPath, alice.AccessToken, map[string]any{"role": "participant"})
	if sr.Status != fiber.StatusCreated {
		t.Fatalf("enter alice: expected 201, got %d (%s)", sr.Status, sr.Message)
	}

	sr = call(t, a, fiber.MethodPost, enterPath, bob.AccessToken, map[string]any{"role": "participant"})
	if sr.Status != fiber.StatusBadRequest {
		t.Fatalf("enter bob: expected 400, got %d", sr.Status)
	}
	var data map[string]string
	decode(t, sr.Data, &data)
	if data["code"] != "ALREADY_FULL" {
		t.Fatalf("enter bob: expected ALREADY_FULL, got %q", data["code"])
	}

	sr = call(t, a, fiber.MethodPut, "/api/v1/seminars/"+seminarID.String(), alice.AccessToken, map[string]any{"count": 4})
	if sr.Status != fiber.StatusForbidden {
		t.Fatalf("update by participant: expected 403, got %d", sr.Status)
	}

	sr = call(t, a, fiber.MethodGet, "/api/v1/seminars/"+seminarID.String(), bob.AccessToken, nil)
	if sr.Status != fiber.StatusOK {
		t.Fatalf("get: expected 200, got %d", sr.Status)
	}
	decode(t, sr.Data, &sem)
	if len(sem.Participants) != 1 {
		t.Fatalf("get: expected 1 participant, got %d", len(sem.Participants))
	}
}

func testDBConfig(t *testing.T) config.DatabaseConfig {
	t.Helper()

	host := envOr("SEMINAR_TEST_DB_HOST", "DB_HOST")
	port := envOr("SEMINAR_TEST_DB_PORT", "DB_PORT")
	name := envOr("SEMINAR_TEST_DB_NAME", "DB_NAME")
	user := envOr("SEMINAR_TEST_DB_USER", "DB_USER")
	if host == "" || port == "" || name == "" || user == "" {
		t.Skip("missing test DB env vars: set SEMINAR_TEST_DB_HOST/PORT/NAME/USER/PASSWORD (or DB_HOST/DB_PORT/DB_NAME/DB_USER/DB_PASSWORD)")
	}
	ssl := envOr("SEMINAR_TEST_DB_SSL_MODE", "DB_SSL_MODE")
	if ssl == "" {
		ssl = "disable"
	}

	return config.DatabaseConfig{
		DBHost:     host,
		DBPort:     port,
		DBName:     name,
		DBUser:     user,
		DBPassword: envOr("SEMINAR_TEST_DB_PASSWORD", "DB_PASSWORD"),
		DBSSLMode:  ssl,
	}
}

func envOr(primary, fallback string) string {
	if v := os.Getenv(primary); v != "" {
		return v
	}
	return os.Getenv(fallback)
}

func signup(t *testing.T, a *App, body map[string]any) authData {
	t.Helper()

	sr := call(t, a, fiber.MethodPost, "/api/v1/users", "", body)
	if sr.Status != fiber.StatusCreated {
		t.Fatalf("signup %v: expected 201, got %d (%s)", body["email"], sr.Status, sr.Message)
	}
	var out authData
	decode(t, sr.Data, &out)
	if out.AccessToken == "" {
		t.Fatalf("signup: empty access_token")
	}
	return out
}

func call(t *testing.T, a *App, method, path, token string, body any) semanticResponse {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := a.Fiber.Test(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	var sr semanticResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		t.Fatalf("%s %s: decode: %v", method, path, err)
	}
	return sr
}

func decode(t *testing.T, raw json.RawMessage, out any) {
	t.Helper()
	if err := json.Unmarshal(raw, out); err != nil {
		t.Fatalf("decode data: %v", err)
	}
}

func cleanup(t *testing.T, db database.DB, seminarID *uuid.UUID, userIDs ...uuid.UUID) {
	t.Helper()
	ctx := context.Background()

	if *seminarID != uuid.Nil {
		if _, err := db.Exec(ctx, `DELETE FROM seminars WHERE id = $1`, *seminarID); err != nil {
			t.Logf("cleanup seminar: %v", err)
		}
	}
	for _, id := range userIDs {
		if id == uuid.Nil {
			continue
		}
		if _, err := db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id); err != nil {
			t.Logf("cleanup user %s: %v", id, err)
		}
	}
}
