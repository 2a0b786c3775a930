package handlers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/sbilibin2017/todoapp/internal/middlewares"
	"github.com/sbilibin2017/todoapp/internal/models"
	"github.com/sbilibin2017/todoapp/internal/services"
)

func withUser(r *http.Request, user *models.UserDB) *http.Request {
	return r.WithContext(middlewares.SetUserToContext(r.Context(), user))
}

func TestIndexHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	user := &models.UserDB{UserID: uuid.New(), Username: "alice"}
	todos := []models.TodoDB{
		{TodoID: uuid.New(), UserID: user.UserID, Title: "Buy milk", Description: "2 liters", CreatedAt: time.Now()},
		{TodoID: uuid.New(), UserID: user.UserID, Title: "Call mom", Description: "tonight", Completed: true, CreatedAt: time.Now()},
	}

	t.Run("renders todos with defaults", func(t *testing.T) {
		mockSvc := NewMockTodoLister(ctrl)
		mockSvc.EXPECT().
			List(gomock.Any(), user.UserID, "", 1, PageSize).
			Return(todos, 2, nil)

		handler := NewIndexHandler(mockSvc, newTestRenderer(t))

		rr := httptest.NewRecorder()
		handler(rr, withUser(httptest.NewRequest(http.MethodGet, "/", nil), user))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "Buy milk")
		assert.Contains(t, rr.Body.String(), "Call mom")
		assert.Contains(t, rr.Body.String(), "alice")
	})

	t.Run("forwards page and search parameters", func(t *testing.T) {
		mockSvc := NewMockTodoLister(ctrl)
		mockSvc.EXPECT().
			List(gomock.Any(), user.UserID, "milk", 3, PageSize).
			Return([]models.TodoDB{}, 12, nil)

		handler := NewIndexHandler(mockSvc, newTestRenderer(t))

		rr := httptest.NewRecorder()
		handler(rr, withUser(httptest.NewRequest(http.MethodGet, "/?page=3&search=milk", nil), user))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "page 3 of 3")
	})

	t.Run("bad page parameter falls back to first page", func(t *testing.T) {
		mockSvc := NewMockTodoLister(ctrl)
		mockSvc.EXPECT().
			List(gomock.Any(), user.UserID, "", 1, PageSize).
			Return(todos, 2, nil)

		handler := NewIndexHandler(mockSvc, newTestRenderer(t))

		rr := httptest.NewRecorder()
		handler(rr, withUser(httptest.NewRequest(http.MethodGet, "/?page=abc", nil), user))

		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("missing user redirects to login", func(t *testing.T) {
		mockSvc := NewMockTodoLister(ctrl)
		handler := NewIndexHandler(mockSvc, newTestRenderer(t))

		rr := httptest.NewRecorder()
		handler(rr, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusSeeOther, rr.Code)
		assert.Equal(t, "/login", rr.Header().Get("Location"))
	})
}

func TestCreateTodoHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	user := &models.UserDB{UserID: uuid.New(), Username: "alice"}

	t.Run("creates and redirects", func(t *testing.T) {
		mockCreator := NewMockTodoCreator(ctrl)
		mockLister := NewMockTodoLister(ctrl)
		mockCreator.EXPECT().
			Create(gomock.Any(), user.UserID, "Test", "x").
			Return(&models.TodoDB{TodoID: uuid.New(), Title: "Test"}, nil)

		handler := NewCreateTodoHandler(mockCreator, mockLister, newTestRenderer(t))

		rr := httptest.NewRecorder()
		handler(rr, withUser(postForm("/", url.Values{"title": {"Test"}, "desc": {"x"}}), user))

		assert.Equal(t, http.StatusSeeOther, rr.Code)
		assert.Equal(t, "/", rr.Header().Get("Location"))
	})

	t.Run("validation error re-renders list", func(t *testing.T) {
		mockCreator := NewMockTodoCreator(ctrl)
		mockLister := NewMockTodoLister(ctrl)
		mockCreator.EXPECT().
			Create(gomock.Any(), user.UserID, "", "").
			Return(nil, services.ErrValidation)
		mockLister.EXPECT().
			List(gomock.Any(), user.UserID, "", 1, PageSize).
			Return([]models.TodoDB{}, 0, nil)

		handler := NewCreateTodoHandler(mockCreator, mockLister, newTestRenderer(t))

		rr := httptest.NewRecorder()
		handler(rr, withUser(postForm("/", url.Values{"title": {""}, "desc": {""}}), user))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, rr.Body.String(), "Title and description are required")
	})
}
