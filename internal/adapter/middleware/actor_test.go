package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"transport-payroll/internal/domain/actor"

	"github.com/labstack/echo/v4"
)

func actorEcho(gate echo.MiddlewareFunc, seen *actor.Actor) *echo.Echo {
	e := echo.New()
	e.Use(RequestLogger(nopLogger()), Authenticate())
	e.GET("/x", func(c echo.Context) error {
		*seen = CurrentActor(c)
		return c.NoContent(http.StatusNoContent)
	}, gate)
	return e
}

func serve(e *echo.Echo, hdr map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestAuthenticate(t *testing.T) {
	var seen actor.Actor
	e := actorEcho(RequireRoles(actor.RoleAdmin, actor.RoleHR), &seen)

	if rec := serve(e, nil); rec.Code != http.StatusUnauthorized {
		t.Fatalf("missing user: want 401, got %d", rec.Code)
	}

	rec := serve(e, map[string]string{
		HeaderUserID:          "u-1",
		HeaderUserEmail:       "hr@example.com",
		HeaderUserRoles:       " hr , bogus",
		echo.HeaderXRequestID: "req-42",
	})
	if rec.Code != http.StatusNoContent {
		t.Fatalf("want 204, got %d", rec.Code)
	}
	if seen.UserID != "u-1" || seen.Email != "hr@example.com" || seen.RequestID != "req-42" {
		t.Fatalf("actor not populated: %+v", seen)
	}
	if len(seen.Roles) != 1 || seen.Roles[0] != actor.RoleHR {
		t.Fatalf("roles: %v", seen.Roles)
	}
}

func TestRequireRoles(t *testing.T) {
	var seen actor.Actor
	e := actorEcho(RequireRoles(actor.RoleAdmin), &seen)

	if rec := serve(e, map[string]string{HeaderUserID: "u", HeaderUserRoles: "DISPATCHER"}); rec.Code != http.StatusForbidden {
		t.Fatalf("want 403, got %d", rec.Code)
	}
	if rec := serve(e, map[string]string{HeaderUserID: "u", HeaderUserRoles: "DISPATCHER,ADMIN"}); rec.Code != http.StatusNoContent {
		t.Fatalf("want 204, got %d", rec.Code)
	}
}

func TestRequireDriver(t *testing.T) {
	var seen actor.Actor
	e := actorEcho(RequireDriver(), &seen)

	cases := []struct {
		name string
		hdr  map[string]string
		want int
	}{
		{"not a driver", map[string]string{HeaderUserID: "u", HeaderUserRoles: "ADMIN", HeaderDriverID: "d1"}, http.StatusForbidden},
		{"no driver profile", map[string]string{HeaderUserID: "u", HeaderUserRoles: "DRIVER"}, http.StatusForbidden},
		{"driver", map[string]string{HeaderUserID: "u", HeaderUserRoles: "DRIVER", HeaderDriverID: "d1"}, http.StatusNoContent},
	}
	for _, tc := range cases {
		if rec := serve(e, tc.hdr); rec.Code != tc.want {
			t.Fatalf("%s: want %d, got %d", tc.name, tc.want, rec.Code)
		}
	}
	if seen.DriverID != "d1" {
		t.Fatalf("driver id not carried: %+v", seen)
	}
}
