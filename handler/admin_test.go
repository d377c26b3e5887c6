package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vazarkarshreya23-bit/govbot/config"
	"github.com/vazarkarshreya23-bit/govbot/model"
)

type fakeAdminStore struct {
	checkOK   bool
	checkErr  error
	apps      []model.Application
	listErr   error
	updateErr error

	updatedID     string
	updatedStatus string
}

func (f *fakeAdminStore) CheckAdmin(_ context.Context, username, password string) (bool, error) {
	if f.checkErr != nil {
		return false, f.checkErr
	}
	return f.checkOK, nil
}

func (f *fakeAdminStore) ListApplications(_ context.Context) ([]model.Application, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.apps, nil
}

func (f *fakeAdminStore) UpdateStatus(_ context.Context, appID, status string) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updatedID = appID
	f.updatedStatus = status
	return nil
}

func testAuthConfig() *config.AuthConfig {
	return &config.AuthConfig{JWTSecret: "test-secret", TokenExpireHours: 1}
}

func doRequest(router *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func putJSON(router *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	data, _ := json.Marshal(body)
	req := httptest.NewRequest("PUT", path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	return doRequest(router, req)
}

func newAdminRouter(store *fakeAdminStore) *gin.Engine {
	router := gin.New()
	h := NewAdminHandler(store, testAuthConfig())
	router.POST("/api/admin/login", h.Login)
	router.GET("/api/admin/applications", h.ListApplications)
	router.PUT("/api/admin/applications/:app_id/status", h.UpdateStatus)
	return router
}

func TestAdminLogin(t *testing.T) {
	tests := []struct {
		name           string
		body           map[string]string
		checkOK        bool
		checkErr       error
		expectedStatus int
	}{
		{
			name:           "valid login",
			body:           map[string]string{"username": "admin", "password": "admin123"},
			checkOK:        true,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "invalid credentials",
			body:           map[string]string{"username": "admin", "password": "wrong"},
			checkOK:        false,
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "missing fields",
			body:           map[string]string{"username": "admin"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "store failure",
			body:           map[string]string{"username": "admin", "password": "admin123"},
			checkErr:       errors.New("db down"),
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakeAdminStore{checkOK: tt.checkOK, checkErr: tt.checkErr}
			router := newAdminRouter(store)

			w := postJSON(router, "/api/admin/login", tt.body, nil)

			if w.Code != tt.expectedStatus {
				t.Fatalf("Expected status %d, got %d", tt.expectedStatus, w.Code)
			}

			if tt.expectedStatus == http.StatusOK {
				var resp AdminLoginResponse
				if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
					t.Fatalf("Failed to parse response: %v", err)
				}
				if resp.Token == "" {
					t.Error("Expected a token in the response")
				}
				if resp.Username != "admin" {
					t.Errorf("Expected username admin, got %q", resp.Username)
				}
			}
		})
	}
}

func TestAdminListApplications(t *testing.T) {
	now := time.Now()
	store := &fakeAdminStore{
		apps: []model.Application{
			{AppID: "LIC-AB12CD", Service: "license", Name: "Jane Doe", Status: model.StatusPending, CreatedAt: now, UpdatedAt: now},
			{AppID: "CMP-XY99ZZ", Service: "complaint", Name: "John Roe", Status: model.StatusApproved, CreatedAt: now, UpdatedAt: now},
		},
	}
	router := newAdminRouter(store)

	req, _ := http.NewRequest("GET", "/api/admin/applications", nil)
	w := doRequest(router, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var resp struct {
		Applications []model.Application `json:"applications"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if len(resp.Applications) != 2 {
		t.Fatalf("Expected 2 applications, got %d", len(resp.Applications))
	}
	if resp.Applications[0].AppID != "LIC-AB12CD" {
		t.Errorf("Expected first application LIC-AB12CD, got %q", resp.Applications[0].AppID)
	}
}

func TestAdminListApplicationsEmpty(t *testing.T) {
	router := newAdminRouter(&fakeAdminStore{})

	req, _ := http.NewRequest("GET", "/api/admin/applications", nil)
	w := doRequest(router, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	// An empty list must serialize as [], not null.
	if got := w.Body.String(); !strings.Contains(got, `"applications":[]`) {
		t.Errorf("Expected empty applications array, got %q", got)
	}
}

func TestAdminListApplicationsFailure(t *testing.T) {
	router := newAdminRouter(&fakeAdminStore{listErr: errors.New("db down")})

	req, _ := http.NewRequest("GET", "/api/admin/applications", nil)
	w := doRequest(router, req)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("Expected status 500, got %d", w.Code)
	}
}

func TestAdminUpdateStatus(t *testing.T) {
	store := &fakeAdminStore{}
	router := newAdminRouter(store)

	w := putJSON(router, "/api/admin/applications/LIC-AB12CD/status", map[string]string{"status": model.StatusApproved})

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if store.updatedID != "LIC-AB12CD" || store.updatedStatus != model.StatusApproved {
		t.Errorf("Expected update of LIC-AB12CD to Approved, got %q/%q", store.updatedID, store.updatedStatus)
	}
}

func TestAdminUpdateStatusMissingBody(t *testing.T) {
	router := newAdminRouter(&fakeAdminStore{})

	w := putJSON(router, "/api/admin/applications/LIC-AB12CD/status", map[string]string{})

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}
}

func TestAdminUpdateStatusFailure(t *testing.T) {
	router := newAdminRouter(&fakeAdminStore{updateErr: errors.New("db down")})

	w := putJSON(router, "/api/admin/applications/LIC-AB12CD/status", map[string]string{"status": model.StatusRejected})

	if w.Code != http.StatusInternalServerError {
		t.Errorf("Expected status 500, got %d", w.Code)
	}
}
