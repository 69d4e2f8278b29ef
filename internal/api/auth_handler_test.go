package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wordflow/wordflow-api/internal/api/shared"
	"github.com/wordflow/wordflow-api/internal/domain"
	"github.com/wordflow/wordflow-api/internal/service/auth"
	"github.com/wordflow/wordflow-api/internal/store"
)

// mockUserStore is an in-memory store.UserStore for handler tests.
type mockUserStore struct {
	byEmail map[string]*domain.User
	byID    map[uuid.UUID]*domain.User
}

func newMockUserStore() *mockUserStore {
	return &mockUserStore{
		byEmail: make(map[string]*domain.User),
		byID:    make(map[uuid.UUID]*domain.User),
	}
}

func (s *mockUserStore) Create(ctx context.Context, user *domain.User) error {
	email := strings.ToLower(user.Email)
	if _, ok := s.byEmail[email]; ok {
		return store.ErrEmailExists
	}
	s.byEmail[email] = user
	s.byID[user.ID] = user
	return nil
}

func (s *mockUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, ok := s.byID[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	return user, nil
}

func (s *mockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	user, ok := s.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	return user, nil
}

// mockJWTService issues predictable tokens.
type mockJWTService struct {
	token         string
	refreshToken  string
	generateErr   error
	refreshClaims *auth.Claims
	refreshValErr error
}

func (m *mockJWTService) GenerateToken(ctx context.Context, userID uuid.UUID) (string, error) {
	if m.generateErr != nil {
		return "", m.generateErr
	}
	return m.token, nil
}

func (m *mockJWTService) ValidateToken(ctx context.Context, tokenString string) (*auth.Claims, error) {
	return nil, auth.ErrInvalidToken
}

func (m *mockJWTService) GenerateRefreshToken(ctx context.Context, userID uuid.UUID) (string, error) {
	if m.generateErr != nil {
		return "", m.generateErr
	}
	return m.refreshToken, nil
}

func (m *mockJWTService) ValidateRefreshToken(ctx context.Context, tokenString string) (*auth.Claims, error) {
	if m.refreshValErr != nil {
		return nil, m.refreshValErr
	}
	return m.refreshClaims, nil
}

// mockHasher marks the password instead of hashing it.
type mockHasher struct {
	hashErr error
}

func (m *mockHasher) Hash(password string) (string, error) {
	if m.hashErr != nil {
		return "", m.hashErr
	}
	return "hashed:" + password, nil
}

// mockVerifier accepts passwords hashed by mockHasher.
type mockVerifier struct{}

func (m *mockVerifier) Compare(hashedPassword, password string) error {
	if hashedPassword != "hashed:"+password {
		return auth.ErrInvalidCredentials
	}
	return nil
}

func newTestAuthHandler(users *mockUserStore) *AuthHandler {
	return NewAuthHandler(
		users,
		&mockJWTService{token: "test-token", refreshToken: "test-refresh"},
		&mockHasher{},
		&mockVerifier{},
	)
}

func TestRegister(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		body           string
		seedEmail      string
		expectedStatus int
	}{
		{
			name:           "success",
			body:           `{"email":"ada@example.com","password":"correct horse battery"}`,
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "duplicate email",
			body:           `{"email":"ada@example.com","password":"correct horse battery"}`,
			seedEmail:      "ada@example.com",
			expectedStatus: http.StatusConflict,
		},
		{
			name:           "invalid email",
			body:           `{"email":"not-an-email","password":"correct horse battery"}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "password too short",
			body:           `{"email":"ada@example.com","password":"short"}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "malformed body",
			body:           `{"email":`,
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			users := newMockUserStore()
			if tc.seedEmail != "" {
				seeded, err := domain.NewUser(tc.seedEmail, "correct horse battery")
				require.NoError(t, err)
				require.NoError(t, users.Create(context.Background(), seeded))
			}
			handler := newTestAuthHandler(users)

			req := httptest.NewRequest(
				http.MethodPost, "/auth/register", bytes.NewBufferString(tc.body))
			req.Header.Set("Content-Type", "application/json")

			rr := httptest.NewRecorder()
			handler.Register(rr, req)

			assert.Equal(t, tc.expectedStatus, rr.Code)

			if tc.expectedStatus == http.StatusCreated {
				var resp AuthResponse
				require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
				assert.NotEqual(t, uuid.Nil, resp.UserID)
				assert.Equal(t, "test-token", resp.AccessToken)

				// The stored user must never retain the plaintext password.
				stored, err := users.GetByID(context.Background(), resp.UserID)
				require.NoError(t, err)
				assert.Empty(t, stored.Password)
				assert.Equal(t, "hashed:correct horse battery", stored.HashedPassword)
			}
		})
	}
}

func TestLogin(t *testing.T) {
	t.Parallel()

	const password = "correct horse battery"

	setup := func(t *testing.T) (*AuthHandler, *domain.User) {
		t.Helper()
		users := newMockUserStore()
		user, err := domain.NewUser("ada@example.com", password)
		require.NoError(t, err)
		user.HashedPassword = "hashed:" + password
		user.Password = ""
		require.NoError(t, users.Create(context.Background(), user))
		return newTestAuthHandler(users), user
	}

	t.Run("success", func(t *testing.T) {
		t.Parallel()
		handler, user := setup(t)

		body := `{"email":"ada@example.com","password":"` + password + `"}`
		req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewBufferString(body))
		rr := httptest.NewRecorder()
		handler.Login(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		var resp AuthResponse
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
		assert.Equal(t, user.ID, resp.UserID)
		assert.Equal(t, "test-token", resp.AccessToken)
	})

	t.Run("wrong password and unknown email are indistinguishable", func(t *testing.T) {
		t.Parallel()
		handler, _ := setup(t)

		wrongPassword := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/auth/login",
			bytes.NewBufferString(`{"email":"ada@example.com","password":"wrong password here"}`))
		handler.Login(wrongPassword, req)

		unknownEmail := httptest.NewRecorder()
		req = httptest.NewRequest(http.MethodPost, "/auth/login",
			bytes.NewBufferString(`{"email":"nobody@example.com","password":"wrong password here"}`))
		handler.Login(unknownEmail, req)

		assert.Equal(t, http.StatusUnauthorized, wrongPassword.Code)
		assert.Equal(t, http.StatusUnauthorized, unknownEmail.Code)

		var a, b shared.ErrorResponse
		require.NoError(t, json.NewDecoder(wrongPassword.Body).Decode(&a))
		require.NoError(t, json.NewDecoder(unknownEmail.Body).Decode(&b))
		assert.Equal(t, a.Error, b.Error)
	})

	t.Run("store failure is a 500", func(t *testing.T) {
		t.Parallel()
		handler := NewAuthHandler(
			&failingUserStore{err: errors.New("connection refused")},
			&mockJWTService{token: "test-token"},
			&mockHasher{},
			&mockVerifier{},
		)

		req := httptest.NewRequest(http.MethodPost, "/auth/login",
			bytes.NewBufferString(`{"email":"ada@example.com","password":"whatever this is"}`))
		rr := httptest.NewRecorder()
		handler.Login(rr, req)
		assert.Equal(t, http.StatusInternalServerError, rr.Code)
	})
}

func TestRefreshToken(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	tests := []struct {
		name           string
		body           string
		validateErr    error
		expectedStatus int
	}{
		{
			name:           "success",
			body:           `{"refresh_token":"good-refresh"}`,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "expired refresh token",
			body:           `{"refresh_token":"stale-refresh"}`,
			validateErr:    auth.ErrExpiredRefreshToken,
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "access token rejected",
			body:           `{"refresh_token":"an-access-token"}`,
			validateErr:    auth.ErrWrongTokenType,
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "missing token",
			body:           `{}`,
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			handler := NewAuthHandler(
				newMockUserStore(),
				&mockJWTService{
					token:         "fresh-access",
					refreshToken:  "fresh-refresh",
					refreshClaims: &auth.Claims{UserID: userID},
					refreshValErr: tc.validateErr,
				},
				&mockHasher{},
				&mockVerifier{},
			)

			req := httptest.NewRequest(
				http.MethodPost, "/auth/refresh", bytes.NewBufferString(tc.body))
			rr := httptest.NewRecorder()
			handler.RefreshToken(rr, req)

			assert.Equal(t, tc.expectedStatus, rr.Code)

			if tc.expectedStatus == http.StatusOK {
				var resp AuthResponse
				require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
				assert.Equal(t, userID, resp.UserID)
				assert.Equal(t, "fresh-access", resp.AccessToken)
				assert.Equal(t, "fresh-refresh", resp.RefreshToken)
			}
		})
	}
}

// failingUserStore fails every operation with a fixed error.
type failingUserStore struct {
	err error
}

func (s *failingUserStore) Create(ctx context.Context, user *domain.User) error { return s.err }

func (s *failingUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return nil, s.err
}

func (s *failingUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return nil, s.err
}
