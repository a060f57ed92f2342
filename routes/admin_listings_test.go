package routes

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestModerationRBAC(t *testing.T) {
	app := buildTestApp()

	// No token
	req := httptest.NewRequest(http.MethodPatch, "/api/admin/listings/1/status", strings.NewReader(`{"status":"active"}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	app.ServeHTTP(resp, req)
	if resp.Code == http.StatusOK {
		t.Fatalf("expected non-200 without token, got %d", resp.Code)
	}

	// User role -> 403
	req2 := httptest.NewRequest(http.MethodPatch, "/api/admin/listings/1/status", strings.NewReader(`{"status":"active"}`))
	req2.Header.Set("Content-Type", "application/json")
	req2.Header.Set("Authorization", "Bearer "+signTestToken("user"))
	resp2 := httptest.NewRecorder()
	app.ServeHTTP(resp2, req2)
	if resp2.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for user role, got %d", resp2.Code)
	}
}

func TestModerationRejectsUnknownStatus(t *testing.T) {
	app := buildTestApp()

	for _, status := range []string{"pending", "live", "approved", ""} {
		req := httptest.NewRequest(http.MethodPatch, "/api/admin/listings/1/status",
			strings.NewReader(`{"status":"`+status+`"}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+signTestToken("admin"))
		resp := httptest.NewRecorder()
		app.ServeHTTP(resp, req)
		if resp.Code != http.StatusBadRequest {
			t.Errorf("status %q: expected 400, got %d", status, resp.Code)
		}
	}
}

// The PATCH alias on the listings party is admin-gated too.
func TestListingPatchAliasForbiddenForUsers(t *testing.T) {
	app := buildTestApp()

	req := httptest.NewRequest(http.MethodPatch, "/api/listings/1", strings.NewReader(`{"status":"active"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+signTestToken("user"))
	resp := httptest.NewRecorder()
	app.ServeHTTP(resp, req)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for user role, got %d", resp.Code)
	}
}
