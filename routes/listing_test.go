package routes

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"
)

func listingForm(t *testing.T, overrides map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	fields := map[string]string{
		"vehicleType": "car",
		"model":       "Corolla",
		"condition":   "used",
		"year":        "2020",
		"price":       "20000",
		"region":      "Western",
		"city":        "Colombo",
	}
	for k, v := range overrides {
		fields[k] = v
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatalf("write field %s: %v", k, err)
		}
	}
	w.Close()
	return &buf, w.FormDataContentType()
}

func TestCreateListingRequiresAuth(t *testing.T) {
	app := buildTestApp()

	body, contentType := listingForm(t, nil)
	req := httptest.NewRequest(http.MethodPost, "/api/listings", body)
	req.Header.Set("Content-Type", contentType)
	resp := httptest.NewRecorder()
	app.ServeHTTP(resp, req)
	if resp.Code == http.StatusOK || resp.Code == http.StatusCreated {
		t.Fatalf("expected rejection without token, got %d", resp.Code)
	}
}

func TestCreateListingRejectsBadVehicleType(t *testing.T) {
	app := buildTestApp()

	body, contentType := listingForm(t, map[string]string{"vehicleType": "boat"})
	req := httptest.NewRequest(http.MethodPost, "/api/listings", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+signTestToken("user"))
	resp := httptest.NewRecorder()
	app.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown vehicle type, got %d", resp.Code)
	}
}

func TestCreateListingRejectsOutOfRangeYear(t *testing.T) {
	app := buildTestApp()

	futureYear := time.Now().Year() + 2
	for _, year := range []string{"1899", "1200", "0", ""} {
		body, contentType := listingForm(t, map[string]string{"year": year})
		req := httptest.NewRequest(http.MethodPost, "/api/listings", body)
		req.Header.Set("Content-Type", contentType)
		req.Header.Set("Authorization", "Bearer "+signTestToken("user"))
		resp := httptest.NewRecorder()
		app.ServeHTTP(resp, req)
		if resp.Code != http.StatusBadRequest {
			t.Errorf("year %q: expected 400, got %d", year, resp.Code)
		}
	}

	body, contentType := listingForm(t, map[string]string{"year": strconv.Itoa(futureYear)})
	req := httptest.NewRequest(http.MethodPost, "/api/listings", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+signTestToken("user"))
	resp := httptest.NewRecorder()
	app.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Errorf("year %d: expected 400, got %d", futureYear, resp.Code)
	}
}

func TestCreateListingRejectsBadContactPhone(t *testing.T) {
	app := buildTestApp()

	body, contentType := listingForm(t, map[string]string{"contactPhone": "123"})
	req := httptest.NewRequest(http.MethodPost, "/api/listings", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+signTestToken("user"))
	resp := httptest.NewRecorder()
	app.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad contact phone, got %d", resp.Code)
	}
}
