package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"centavo/internal/domain/user"
	"centavo/internal/shared/middleware"
)

func TestHandleList(t *testing.T) {
	tests := []struct {
		name           string
		mockRepo       func() *MockUserRepo
		expectedStatus int
		expectedCount  int
	}{
		{
			name: "Success",
			mockRepo: func() *MockUserRepo {
				return &MockUserRepo{
					ListFunc: func(ctx context.Context) ([]*user.User, error) {
						return []*user.User{
							{ID: 1, Email: "a@example.com"},
							{ID: 2, Email: "b@example.com"},
						}, nil
					},
				}
			},
			expectedStatus: http.StatusOK,
			expectedCount:  2,
		},
		{
			name:           "Empty",
			mockRepo:       func() *MockUserRepo { return &MockUserRepo{} },
			expectedStatus: http.StatusOK,
			expectedCount:  0,
		},
		{
			name: "Repository Error",
			mockRepo: func() *MockUserRepo {
				return &MockUserRepo{
					ListFunc: func(ctx context.Context) ([]*user.User, error) {
						return nil, errors.New("db down")
					},
				}
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewUserHandler(tt.mockRepo())

			req := authedRequest(http.MethodGet, "/api/users", nil, 1)
			rr := httptest.NewRecorder()
			handler.HandleList(rr, req)

			if rr.Code != tt.expectedStatus {
				t.Fatalf("HandleList() status = %d, want %d", rr.Code, tt.expectedStatus)
			}
			if tt.expectedStatus != http.StatusOK {
				return
			}

			var users []*user.User
			if err := json.NewDecoder(rr.Body).Decode(&users); err != nil {
				t.Fatalf("Failed to decode response: %v", err)
			}
			if len(users) != tt.expectedCount {
				t.Errorf("HandleList() returned %d users, want %d", len(users), tt.expectedCount)
			}
			if strings.Contains(rr.Body.String(), "password") {
				t.Error("HandleList() response leaks password material")
			}
		})
	}
}

func TestHandleMe(t *testing.T) {
	tests := []struct {
		name           string
		withUserID     bool
		mockRepo       func() *MockUserRepo
		expectedStatus int
	}{
		{
			name:       "Success",
			withUserID: true,
			mockRepo: func() *MockUserRepo {
				return &MockUserRepo{
					GetByIDFunc: func(ctx context.Context, id int64) (*user.User, error) {
						return &user.User{ID: id, Email: "user@example.com"}, nil
					},
				}
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Not Found",
			withUserID:     true,
			mockRepo:       func() *MockUserRepo { return &MockUserRepo{} },
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "No Auth Context",
			withUserID:     false,
			mockRepo:       func() *MockUserRepo { return &MockUserRepo{} },
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewUserHandler(tt.mockRepo())

			req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
			if tt.withUserID {
				ctx := context.WithValue(req.Context(), middleware.UserIDKey, int64(42))
				req = req.WithContext(ctx)
			}

			rr := httptest.NewRecorder()
			handler.HandleMe(rr, req)

			if rr.Code != tt.expectedStatus {
				t.Errorf("HandleMe() status = %d, want %d", rr.Code, tt.expectedStatus)
			}
		})
	}
}
