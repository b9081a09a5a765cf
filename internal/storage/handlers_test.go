package storage

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/suranovab/hw05-final/internal/auth"

	"github.com/gofiber/fiber/v2"
	"github.com/pashagolub/pgxmock/v3"
)

func TestUploadStoresReference(t *testing.T) {
	mock := newMock(t)

	app := fiber.New()
	app.Use(auth.LoadViewer("secret"))
	RegisterRoutes(app.Group("/storage"), NewService(mock), auth.RequireLogin())

	mock.ExpectExec(`INSERT INTO storage_objects`).
		WithArgs(pgxmock.AnyArg(), "user-1", "https://storage.example/posts/cat.jpg", "image").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	token, err := auth.NewService("secret", nil).SessionToken("user-1", "leo")
	if err != nil {
		t.Fatalf("token: %v", err)
	}

	payload, _ := json.Marshal(map[string]string{"file_name": "cat.jpg", "kind": "image"})
	req := httptest.NewRequest(http.MethodPost, "/storage/upload", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(&http.Cookie{Name: auth.SessionCookie, Value: token})

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}

func TestUploadAnonymousRedirects(t *testing.T) {
	app := fiber.New()
	app.Use(auth.LoadViewer("secret"))
	RegisterRoutes(app.Group("/storage"), NewService(nil), auth.RequireLogin())

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/storage/upload", nil))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("expected redirect, got %d", resp.StatusCode)
	}
	if !strings.HasPrefix(resp.Header.Get("Location"), "/auth/login") {
		t.Fatalf("expected login redirect")
	}
}
