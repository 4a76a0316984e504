package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	apperrors "inkwell/internal/errors"
	"inkwell/internal/model"
)

// MockUserRepository is a mock implementation of repository.UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	args := m.Called(ctx, id, fields)
	return args.Error(0)
}

const testSecret = "test-secret"

func callProtected(t *testing.T, users *MockUserRepository, authorization string) (*httptest.ResponseRecorder, error) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authorization != "" {
		req.Header.Set(echo.HeaderAuthorization, authorization)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := func(c echo.Context) error {
		user := CurrentUser(c)
		require.NotNil(t, user)
		return c.JSON(http.StatusOK, user)
	}
	mws := RequireAuth(testSecret, users)
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return rec, h(c)
}

func rejectionCode(t *testing.T, err error) (int, string) {
	t.Helper()
	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	body, ok := httpErr.Message.(apperrors.ErrorResponse)
	require.True(t, ok, "rejection body should be an ErrorResponse")
	return httpErr.Code, body.Code
}

func TestRequireAuth_Rejections(t *testing.T) {
	service := NewJWTService(testSecret)
	userID := uuid.New()
	validToken, err := service.Generate(userID)
	require.NoError(t, err)

	tests := []struct {
		name          string
		authorization string
		setupMock     func(*MockUserRepository)
		wantStatus    int
		wantCode      string
	}{
		{
			name:          "missing header",
			authorization: "",
			setupMock:     func(m *MockUserRepository) {},
			wantStatus:    http.StatusUnauthorized,
			wantCode:      "NO_TOKEN",
		},
		{
			name:          "header without bearer prefix",
			authorization: "Token " + validToken,
			setupMock:     func(m *MockUserRepository) {},
			wantStatus:    http.StatusUnauthorized,
			wantCode:      "NO_TOKEN",
		},
		{
			name:          "tampered signature",
			authorization: "Bearer " + validToken[:len(validToken)-2] + "xx",
			setupMock:     func(m *MockUserRepository) {},
			wantStatus:    http.StatusUnauthorized,
			wantCode:      "INVALID_TOKEN",
		},
		{
			name:          "valid token but subject deleted",
			authorization: "Bearer " + validToken,
			setupMock: func(m *MockUserRepository) {
				m.On("FindByID", mock.Anything, userID).Return(nil, gorm.ErrRecordNotFound)
			},
			wantStatus: http.StatusUnauthorized,
			wantCode:   "USER_NOT_FOUND",
		},
		{
			name:          "store unreachable is not a token failure",
			authorization: "Bearer " + validToken,
			setupMock: func(m *MockUserRepository) {
				m.On("FindByID", mock.Anything, userID).Return(nil, errors.New("dial tcp: connection refused"))
			},
			wantStatus: http.StatusServiceUnavailable,
			wantCode:   "STORE_UNAVAILABLE",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := new(MockUserRepository)
			tt.setupMock(users)

			_, err := callProtected(t, users, tt.authorization)
			require.Error(t, err)

			status, code := rejectionCode(t, err)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantCode, code)
			users.AssertExpectations(t)
		})
	}
}

func TestRequireAuth_AttachesIdentity(t *testing.T) {
	service := NewJWTService(testSecret)
	userID := uuid.New()
	token, err := service.Generate(userID)
	require.NoError(t, err)

	users := new(MockUserRepository)
	users.On("FindByID", mock.Anything, userID).Return(&model.User{
		ID:    userID,
		Name:  "Test User",
		Email: "test@example.com",
		Role:  model.RoleUser,
	}, nil)

	rec, err := callProtected(t, users, "Bearer "+token)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "test@example.com")
	// The identity is serialized from the store record, which carries no hash.
	assert.NotContains(t, rec.Body.String(), "password")
	users.AssertExpectations(t)
}
