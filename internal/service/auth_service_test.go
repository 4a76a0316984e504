package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"inkwell/internal/auth"
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

func TestAuthService_Register(t *testing.T) {
	tests := []struct {
		name          string
		userName      string
		email         string
		password      string
		setupMock     func(*MockUserRepository)
		expectedError error
	}{
		{
			name:     "successful registration",
			userName: "Test User",
			email:    "test@example.com",
			password: "password123",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "test@example.com").Return(nil, gorm.ErrRecordNotFound)
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)
			},
			expectedError: nil,
		},
		{
			name:     "duplicate email",
			userName: "Existing User",
			email:    "existing@example.com",
			password: "password123",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "existing@example.com").Return(&model.User{Email: "existing@example.com"}, nil)
			},
			expectedError: apperrors.ErrDuplicateEmail,
		},
		{
			name:     "duplicate email differing only in case",
			userName: "Shouty User",
			email:    "A@X.COM",
			password: "password123",
			setupMock: func(m *MockUserRepository) {
				// Lookup must be performed on the lowercased address.
				m.On("FindByEmail", mock.Anything, "a@x.com").Return(&model.User{Email: "a@x.com"}, nil)
			},
			expectedError: apperrors.ErrDuplicateEmail,
		},
		{
			name:     "duplicate created between check and insert",
			userName: "Racing User",
			email:    "test@example.com",
			password: "password123",
			setupMock: func(m *MockUserRepository) {
				// The pre-check misses but the unique index catches the insert.
				m.On("FindByEmail", mock.Anything, "test@example.com").Return(nil, gorm.ErrRecordNotFound)
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(gorm.ErrDuplicatedKey)
			},
			expectedError: apperrors.ErrDuplicateEmail,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			tt.setupMock(mockRepo)

			jwtService := auth.NewJWTService("test-secret")
			svc := NewAuthService(mockRepo, jwtService)

			token, user, err := svc.Register(context.Background(), tt.userName, tt.email, tt.password)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Empty(t, token)
				assert.Nil(t, user)
			} else {
				require.NoError(t, err)
				require.NotNil(t, user)
				assert.Equal(t, tt.userName, user.Name)
				assert.Equal(t, "test@example.com", user.Email)
				assert.Empty(t, user.PasswordHash, "hash must never leave the service")

				claims, err := jwtService.Validate(token)
				require.NoError(t, err)
				assert.Equal(t, user.ID.String(), claims.UserID)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	userID := uuid.New()
	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcryptCost)
	require.NoError(t, err)

	storedUser := func() *model.User {
		return &model.User{
			ID:           userID,
			Name:         "Test User",
			Email:        "test@example.com",
			PasswordHash: string(hashed),
		}
	}

	tests := []struct {
		name          string
		email         string
		password      string
		setupMock     func(*MockUserRepository)
		expectedError error
	}{
		{
			name:     "successful login",
			email:    "test@example.com",
			password: "password123",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "test@example.com").Return(storedUser(), nil)
			},
		},
		{
			name:     "wrong password",
			email:    "test@example.com",
			password: "wrong-password",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "test@example.com").Return(storedUser(), nil)
			},
			expectedError: apperrors.ErrInvalidCredentials,
		},
		{
			name:     "unknown email",
			email:    "nobody@example.com",
			password: "password123",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "nobody@example.com").Return(nil, gorm.ErrRecordNotFound)
			},
			expectedError: apperrors.ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			tt.setupMock(mockRepo)

			jwtService := auth.NewJWTService("test-secret")
			svc := NewAuthService(mockRepo, jwtService)

			token, user, err := svc.Login(context.Background(), tt.email, tt.password)

			if tt.expectedError != nil {
				// Wrong password and unknown email are indistinguishable.
				assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
				assert.Empty(t, token)
				assert.Nil(t, user)
			} else {
				require.NoError(t, err)
				require.NotNil(t, user)
				assert.Empty(t, user.PasswordHash)

				claims, err := jwtService.Validate(token)
				require.NoError(t, err)
				assert.Equal(t, userID.String(), claims.UserID)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestAuthService_UpdateProfile_PartialUpdate(t *testing.T) {
	userID := uuid.New()
	current := &model.User{ID: userID, Name: "Old Name", Email: "test@example.com"}
	updated := &model.User{ID: userID, Name: "New Name", Email: "test@example.com"}

	mockRepo := new(MockUserRepository)
	mockRepo.On("FindByID", mock.Anything, userID).Return(current, nil).Once()
	mockRepo.On("UpdateFields", mock.Anything, userID, mock.MatchedBy(func(fields map[string]interface{}) bool {
		// Only the provided field is written; email and hash stay untouched.
		if len(fields) != 1 {
			return false
		}
		name, ok := fields["name"]
		return ok && name == "New Name"
	})).Return(nil).Once()
	mockRepo.On("FindByID", mock.Anything, userID).Return(updated, nil).Once()

	svc := NewAuthService(mockRepo, auth.NewJWTService("test-secret"))

	user, err := svc.UpdateProfile(context.Background(), userID, ProfileUpdate{Name: "New Name"})
	require.NoError(t, err)
	assert.Equal(t, "New Name", user.Name)
	assert.Equal(t, "test@example.com", user.Email)
	assert.Empty(t, user.PasswordHash)
	mockRepo.AssertExpectations(t)
}

func TestAuthService_UpdateProfile_RehashesPassword(t *testing.T) {
	userID := uuid.New()
	current := &model.User{ID: userID, Name: "Test User", Email: "test@example.com"}

	mockRepo := new(MockUserRepository)
	mockRepo.On("FindByID", mock.Anything, userID).Return(current, nil)
	mockRepo.On("UpdateFields", mock.Anything, userID, mock.MatchedBy(func(fields map[string]interface{}) bool {
		hash, ok := fields["password_hash"].(string)
		if !ok {
			return false
		}
		return bcrypt.CompareHashAndPassword([]byte(hash), []byte("new-password")) == nil
	})).Return(nil)

	svc := NewAuthService(mockRepo, auth.NewJWTService("test-secret"))

	_, err := svc.UpdateProfile(context.Background(), userID, ProfileUpdate{Password: "new-password"})
	require.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestAuthService_UpdateProfile_EmailTaken(t *testing.T) {
	userID := uuid.New()
	current := &model.User{ID: userID, Name: "Test User", Email: "test@example.com"}

	mockRepo := new(MockUserRepository)
	mockRepo.On("FindByID", mock.Anything, userID).Return(current, nil)
	mockRepo.On("UpdateFields", mock.Anything, userID, mock.MatchedBy(func(fields map[string]interface{}) bool {
		return fields["email"] == "taken@example.com"
	})).Return(gorm.ErrDuplicatedKey)

	svc := NewAuthService(mockRepo, auth.NewJWTService("test-secret"))

	_, err := svc.UpdateProfile(context.Background(), userID, ProfileUpdate{Email: "taken@example.com"})
	assert.ErrorIs(t, err, apperrors.ErrDuplicateEmail)
	mockRepo.AssertExpectations(t)
}

func TestAuthService_UpdateProfile_UserGone(t *testing.T) {
	userID := uuid.New()

	mockRepo := new(MockUserRepository)
	mockRepo.On("FindByID", mock.Anything, userID).Return(nil, gorm.ErrRecordNotFound)

	svc := NewAuthService(mockRepo, auth.NewJWTService("test-secret"))

	_, err := svc.UpdateProfile(context.Background(), userID, ProfileUpdate{Name: "X"})
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
	mockRepo.AssertExpectations(t)
}
