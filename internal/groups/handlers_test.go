package groups

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/suranovab/hw05-final/internal/auth"
	"github.com/suranovab/hw05-final/internal/web"

	"github.com/gofiber/fiber/v2"
	"github.com/pashagolub/pgxmock/v3"
)

func newApp(mock pgxmock.PgxPoolIface) *fiber.App {
	app := fiber.New(fiber.Config{Views: web.Engine()})
	app.Use(auth.LoadViewer("secret"))
	RegisterRoutes(app.Group("/groups"), NewService(mock), auth.RequireLogin())
	return app
}

func TestGroupIndexLists(t *testing.T) {
	mock := newMock(t)
	app := newApp(mock)

	mock.ExpectQuery(`FROM groups ORDER BY title`).
		WillReturnRows(pgxmock.NewRows([]string{"id", "title", "slug", "description", "created_at"}).
			AddRow("group-1", "Climbing", "climbing", "ropes and rocks", time.Now()))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/groups", nil))
	if err != nil {
		t.Fatalf("index request: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "Climbing") {
		t.Fatalf("expected group title on page")
	}
}

func TestCreateGroupRedirectsToListing(t *testing.T) {
	mock := newMock(t)
	app := newApp(mock)

	mock.ExpectQuery(`INSERT INTO groups`).
		WithArgs(pgxmock.AnyArg(), "Climbing", "climbing", "").
		WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(time.Now()))

	token, err := auth.NewService("secret", nil).SessionToken("user-1", "leo")
	if err != nil {
		t.Fatalf("token: %v", err)
	}

	form := url.Values{"title": {"Climbing"}, "slug": {"climbing"}}
	req := httptest.NewRequest(http.MethodPost, "/groups", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(&http.Cookie{Name: auth.SessionCookie, Value: token})

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("create request: %v", err)
	}
	if resp.StatusCode != http.StatusSeeOther || resp.Header.Get("Location") != "/group/climbing" {
		t.Fatalf("expected redirect to group page, got %d %q", resp.StatusCode, resp.Header.Get("Location"))
	}
}

func TestCreateGroupAnonymousRedirects(t *testing.T) {
	mock := newMock(t)
	app := newApp(mock)

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/groups", nil))
	if err != nil {
		t.Fatalf("create request: %v", err)
	}
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("expected login redirect, got %d", resp.StatusCode)
	}
	if !strings.HasPrefix(resp.Header.Get("Location"), "/auth/login") {
		t.Fatalf("expected login redirect, got %q", resp.Header.Get("Location"))
	}
}
