package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"github.com/sbilibin2017/todoapp/internal/jwt"
	"github.com/sbilibin2017/todoapp/internal/services"
)

func TestLoginPageHandler(t *testing.T) {
	handler := NewLoginPageHandler(newTestRenderer(t))

	rr := httptest.NewRecorder()
	handler(rr, httptest.NewRequest(http.MethodGet, "/login", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Log in")
}

func TestLoginHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	tests := []struct {
		name         string
		form         url.Values
		mockSetup    func(m *MockLoginer)
		expectedCode int
		bodyContains string
		wantRedirect string
		wantCookie   bool
	}{
		{
			name: "success sets session cookie and redirects",
			form: url.Values{"username": {"alice"}, "password": {"pw1"}},
			mockSetup: func(m *MockLoginer) {
				m.EXPECT().
					Login(gomock.Any(), "alice", "pw1").
					Return("signed-token", nil)
			},
			expectedCode: http.StatusSeeOther,
			wantRedirect: "/",
			wantCookie:   true,
		},
		{
			name: "unknown user re-renders form",
			form: url.Values{"username": {"ghost"}, "password": {"pw1"}},
			mockSetup: func(m *MockLoginer) {
				m.EXPECT().
					Login(gomock.Any(), "ghost", "pw1").
					Return("", services.ErrUserDoesNotExist)
			},
			expectedCode: http.StatusUnauthorized,
			bodyContains: "Invalid username or password",
		},
		{
			name: "wrong password re-renders form",
			form: url.Values{"username": {"alice"}, "password": {"nope"}},
			mockSetup: func(m *MockLoginer) {
				m.EXPECT().
					Login(gomock.Any(), "alice", "nope").
					Return("", services.ErrInvalidCredentials)
			},
			expectedCode: http.StatusUnauthorized,
			bodyContains: "Invalid username or password",
		},
		{
			name: "internal error",
			form: url.Values{"username": {"alice"}, "password": {"pw1"}},
			mockSetup: func(m *MockLoginer) {
				m.EXPECT().
					Login(gomock.Any(), "alice", "pw1").
					Return("", errors.New("db down"))
			},
			expectedCode: http.StatusInternalServerError,
			bodyContains: "Something went wrong",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSvc := NewMockLoginer(ctrl)
			if tt.mockSetup != nil {
				tt.mockSetup(mockSvc)
			}

			handler := NewLoginHandler(mockSvc, time.Hour, newTestRenderer(t))

			rr := httptest.NewRecorder()
			handler(rr, postForm("/login", tt.form))

			assert.Equal(t, tt.expectedCode, rr.Code)
			if tt.wantRedirect != "" {
				assert.Equal(t, tt.wantRedirect, rr.Header().Get("Location"))
			}
			if tt.bodyContains != "" {
				assert.Contains(t, rr.Body.String(), tt.bodyContains)
			}

			var sessionCookie *http.Cookie
			for _, c := range rr.Result().Cookies() {
				if c.Name == jwt.SessionCookie {
					sessionCookie = c
				}
			}
			if tt.wantCookie {
				assert.NotNil(t, sessionCookie)
				assert.Equal(t, "signed-token", sessionCookie.Value)
				assert.True(t, sessionCookie.HttpOnly)
			} else {
				assert.Nil(t, sessionCookie)
			}
		})
	}
}
