package middleware

import (
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"seminar-api/internal/pkg/jwt"
	"seminar-api/internal/pkg/response"
)

func decode(t *testing.T, body io.Reader) response.SemanticResponse {
	t.Helper()
	var out response.SemanticResponse
	if err := json.NewDecoder(body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return out
}

func newApp(handlers ...fiber.Handler) *fiber.App {
	app := fiber.New()
	app.Use(NewAccessLogMiddleware(nil).Middleware())
	app.Use(NewErrorMiddleware(nil).Middleware())
	for _, h := range handlers {
		app.Use(h)
	}
	return app
}

func TestErrorMiddleware_AppError(t *testing.T) {
	app := newApp()
	app.Get("/x", func(c fiber.Ctx) error {
		return NewAppError(fiber.StatusForbidden, "nope", map[string]string{"code": "NOT_CHARGER"}, nil)
	})

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/x", nil))
	if err != nil {
		t.Fatalf("test: %v", err)
	}
	if resp.StatusCode != fiber.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.StatusCode)
	}
	body := decode(t, resp.Body)
	if body.Message != "nope" {
		t.Fatalf("unexpected message %q", body.Message)
	}
	data, _ := body.Data.(map[string]any)
	if data["code"] != "NOT_CHARGER" {
		t.Fatalf("expected code in data, got %v", body.Data)
	}
	if resp.Header.Get(HeaderRequestID) == "" {
		t.Fatalf("expected request id header")
	}
}

func TestErrorMiddleware_HidesInternalCause(t *testing.T) {
	app := newApp()
	app.Get("/db", func(c fiber.Ctx) error {
		return NewAppError(fiber.StatusInternalServerError, "pq: password authentication failed", "secret", errors.New("boom"))
	})
	app.Get("/raw", func(c fiber.Ctx) error {
		return errors.New("dial tcp 10.0.0.1:5432")
	})
	app.Get("/panic", func(c fiber.Ctx) error {
		panic("kaboom")
	})

	for _, path := range []string{"/db", "/raw", "/panic"} {
		resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, path, nil))
		if err != nil {
			t.Fatalf("%s: %v", path, err)
		}
		if resp.StatusCode != fiber.StatusInternalServerError {
			t.Fatalf("%s: expected 500, got %d", path, resp.StatusCode)
		}
		body := decode(t, resp.Body)
		if body.Message != response.MessageInternalServerError || body.Data != nil {
			t.Fatalf("%s: leaked %+v", path, body)
		}
	}
}

func TestErrorMiddleware_FiberError(t *testing.T) {
	app := newApp()
	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/missing", nil))
	if err != nil {
		t.Fatalf("test: %v", err)
	}
	if resp.StatusCode != fiber.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestAuthMiddleware(t *testing.T) {
	svc := jwt.NewHMACService("a", "r", time.Hour, time.Hour)
	id := uuid.New()
	access, _ := svc.GenerateAccessToken(id, "a@b.c")
	refresh, _ := svc.GenerateRefreshToken(id)

	app := newApp()
	app.Get("/me", NewAuthMiddleware(svc).Middleware(), func(c fiber.Ctx) error {
		got, ok := UserID(c)
		if !ok {
			return errors.New("missing user")
		}
		return c.SendString(got.String())
	})

	cases := []struct {
		name   string
		header string
		want   int
	}{
		{name: "no header", header: "", want: fiber.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic " + access, want: fiber.StatusUnauthorized},
		{name: "garbage", header: "Bearer nope", want: fiber.StatusUnauthorized},
		{name: "refresh token", header: "Bearer " + refresh, want: fiber.StatusUnauthorized},
		{name: "access token", header: "bearer " + access, want: fiber.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(fiber.MethodGet, "/me", nil)
			if tc.header != "" {
				req.Header.Set(fiber.HeaderAuthorization, tc.header)
			}
			resp, err := app.Test(req)
			if err != nil {
				t.Fatalf("test: %v", err)
			}
			if resp.StatusCode != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, resp.StatusCode)
			}
			if tc.want == fiber.StatusOK {
				b, _ := io.ReadAll(resp.Body)
				if string(b) != id.String() {
					t.Fatalf("expected user id, got %q", b)
				}
			}
		})
	}
}
