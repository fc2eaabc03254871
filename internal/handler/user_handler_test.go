package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "userhub/internal/errors"
	"userhub/internal/model"
)

// MockUserService is a mock implementation of service.UserService.
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) Create(ctx context.Context, uid, email, firstName string) (*model.User, error) {
	args := m.Called(ctx, uid, email, firstName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserService) Get(ctx context.Context, uid string) (*model.User, error) {
	args := m.Called(ctx, uid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserService) List(ctx context.Context) ([]model.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}

func (m *MockUserService) Update(ctx context.Context, uid, firstName, email string) (*model.User, error) {
	args := m.Called(ctx, uid, firstName, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserService) Delete(ctx context.Context, uid string) error {
	args := m.Called(ctx, uid)
	return args.Error(0)
}

func TestUserHandler_GetUser(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		svc := new(MockUserService)
		id := uuid.New()
		svc.On("Get", mock.Anything, "ext-1").
			Return(&model.User{ID: id, UID: "ext-1", Email: "ada@example.com", FirstName: "Ada"}, nil)

		e := newTestEcho()
		rec := httptest.NewRecorder()
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
		c.SetPath("/users/:uid")
		c.SetParamNames("uid")
		c.SetParamValues("ext-1")

		require.NoError(t, NewUserHandler(svc).GetUser(c))

		var resp model.PublicUser
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "ext-1", resp.UID)
		assert.Equal(t, id.String(), resp.ID)
	})

	t.Run("not found maps to 404", func(t *testing.T) {
		svc := new(MockUserService)
		svc.On("Get", mock.Anything, "missing").Return(nil, apperrors.ErrUserNotFound)

		e := newTestEcho()
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
		c.SetPath("/users/:uid")
		c.SetParamNames("uid")
		c.SetParamValues("missing")

		err := NewUserHandler(svc).GetUser(c)
		httpErr, ok := err.(*echo.HTTPError)
		require.True(t, ok)
		assert.Equal(t, http.StatusNotFound, httpErr.Code)
	})
}

func TestUserHandler_ListUsers(t *testing.T) {
	svc := new(MockUserService)
	svc.On("List", mock.Anything).Return([]model.User{
		{UID: "ext-1", FirstName: "Ada"},
		{UID: "ext-2", FirstName: "Grace"},
	}, nil)

	e := newTestEcho()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/users/", nil), rec)

	require.NoError(t, NewUserHandler(svc).ListUsers(c))

	var resp []model.PublicUser
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp, 2)
}

func TestUserHandler_UpdateUser(t *testing.T) {
	t.Run("is_admin in the body is ignored", func(t *testing.T) {
		svc := new(MockUserService)
		svc.On("Update", mock.Anything, "ext-1", "New", "new@x.com").
			Return(&model.User{UID: "ext-1", FirstName: "New", Email: "new@x.com", IsAdmin: false}, nil)

		e := newTestEcho()
		body := `{"uid":"ext-1","first_name":"New","email":"new@x.com","is_admin":true}`
		req := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetPath("/users/:uid")
		c.SetParamNames("uid")
		c.SetParamValues("ext-1")

		require.NoError(t, NewUserHandler(svc).UpdateUser(c))

		var resp model.PublicUser
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.False(t, resp.IsAdmin)
		// only uid/name/email ever reach the service
		svc.AssertCalled(t, "Update", mock.Anything, "ext-1", "New", "new@x.com")
	})

	t.Run("invalid email fails validation", func(t *testing.T) {
		svc := new(MockUserService)
		e := newTestEcho()
		body := `{"uid":"ext-1","first_name":"New","email":"nope","is_admin":false}`
		req := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		c := e.NewContext(req, httptest.NewRecorder())
		c.SetPath("/users/:uid")
		c.SetParamNames("uid")
		c.SetParamValues("ext-1")

		err := NewUserHandler(svc).UpdateUser(c)
		httpErr, ok := err.(*echo.HTTPError)
		require.True(t, ok)
		assert.Equal(t, http.StatusUnprocessableEntity, httpErr.Code)
	})

	t.Run("unknown uid maps to 404", func(t *testing.T) {
		svc := new(MockUserService)
		svc.On("Update", mock.Anything, "missing", "New", "new@x.com").
			Return(nil, apperrors.ErrUserNotFound)

		e := newTestEcho()
		body := `{"uid":"missing","first_name":"New","email":"new@x.com"}`
		req := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		c := e.NewContext(req, httptest.NewRecorder())
		c.SetPath("/users/:uid")
		c.SetParamNames("uid")
		c.SetParamValues("missing")

		err := NewUserHandler(svc).UpdateUser(c)
		httpErr, ok := err.(*echo.HTTPError)
		require.True(t, ok)
		assert.Equal(t, http.StatusNotFound, httpErr.Code)
	})
}

func TestUserHandler_DeleteUser(t *testing.T) {
	t.Run("deleted", func(t *testing.T) {
		svc := new(MockUserService)
		svc.On("Delete", mock.Anything, "ext-1").Return(nil)

		e := newTestEcho()
		rec := httptest.NewRecorder()
		c := e.NewContext(httptest.NewRequest(http.MethodDelete, "/", nil), rec)
		c.SetPath("/users/:uid")
		c.SetParamNames("uid")
		c.SetParamValues("ext-1")

		require.NoError(t, NewUserHandler(svc).DeleteUser(c))
		assert.Contains(t, rec.Body.String(), "User ext-1 has been deleted")
	})

	t.Run("unknown uid maps to 404", func(t *testing.T) {
		svc := new(MockUserService)
		svc.On("Delete", mock.Anything, "missing").Return(apperrors.ErrUserNotFound)

		e := newTestEcho()
		c := e.NewContext(httptest.NewRequest(http.MethodDelete, "/", nil), httptest.NewRecorder())
		c.SetPath("/users/:uid")
		c.SetParamNames("uid")
		c.SetParamValues("missing")

		err := NewUserHandler(svc).DeleteUser(c)
		httpErr, ok := err.(*echo.HTTPError)
		require.True(t, ok)
		assert.Equal(t, http.StatusNotFound, httpErr.Code)
	})
}
