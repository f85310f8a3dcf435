package services

import (
	"context"
	"testing"
	"time"

	"github.com/ksu-sports/tournament-backend/models"
	"github.com/ksu-sports/tournament-backend/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newAuthFixture() (*mockUserRepo, *mockEmailService, AuthService) {
	userRepo := new(mockUserRepo)
	emails := new(mockEmailService)
	return userRepo, emails, NewAuthService(userRepo, emails, discardLogger())
}

func TestRegisterValidation(t *testing.T) {
	tests := []struct {
		name    string
		input   RegisterInput
		wantErr error
	}{
		{"missing username", RegisterInput{Email: "a@b.com", Password: "longenough"}, ErrUsernameRequired},
		{"bad email", RegisterInput{Username: "ada", Email: "not-an-email", Password: "longenough"}, ErrInvalidEmail},
		{"short password", RegisterInput{Username: "ada", Email: "a@b.com", Password: "short"}, ErrPasswordTooShort},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			userRepo, _, svc := newAuthFixture()
			_, err := svc.Register(context.Background(), tt.input)
			assert.ErrorIs(t, err, tt.wantErr)
			userRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestRegisterSuccess(t *testing.T) {
	userRepo, emails, svc := newAuthFixture()

	userRepo.On("Create", mock.Anything, mock.MatchedBy(func(u *models.User) bool {
		return u.Email == "ada@example.com" && u.Role == models.RoleGuest && u.PasswordHash != "secretpass"
	})).Return(nil)
	emails.On("SendWelcomeEmail", "ada@example.com", "ada").Return(nil).Maybe()

	user, err := svc.Register(context.Background(), RegisterInput{
		Username: "ada",
		Email:    "  Ada@Example.com ",
		Password: "secretpass",
	})
	require.NoError(t, err)

	// Email is normalized and the password only stored as a bcrypt hash.
	assert.Equal(t, "ada@example.com", user.Email)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("secretpass")))
}

func TestRegisterEmailConflict(t *testing.T) {
	userRepo, _, svc := newAuthFixture()
	userRepo.On("Create", mock.Anything, mock.Anything).Return(repositories.ErrUserEmailConflict)

	_, err := svc.Register(context.Background(), RegisterInput{
		Username: "ada",
		Email:    "ada@example.com",
		Password: "secretpass",
	})
	assert.ErrorIs(t, err, ErrUserEmailConflict)
}

func TestLoginWrongPasswordAndUnknownEmailLookTheSame(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("correct-password"), bcrypt.MinCost)
	require.NoError(t, err)

	userRepo, _, svc := newAuthFixture()
	userRepo.On("GetByEmail", mock.Anything, "known@example.com").
		Return(&models.User{ID: 1, Email: "known@example.com", PasswordHash: string(hash)}, nil)
	userRepo.On("GetByEmail", mock.Anything, "unknown@example.com").
		Return(nil, repositories.ErrUserNotFound)

	_, errWrongPass := svc.Login(context.Background(), "known@example.com", "wrong")
	_, errUnknown := svc.Login(context.Background(), "unknown@example.com", "whatever")

	assert.ErrorIs(t, errWrongPass, ErrInvalidCredentials)
	assert.ErrorIs(t, errUnknown, ErrInvalidCredentials)
}

func TestLoginSuccess(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("correct-password"), bcrypt.MinCost)
	require.NoError(t, err)

	userRepo, _, svc := newAuthFixture()
	userRepo.On("GetByEmail", mock.Anything, "known@example.com").
		Return(&models.User{ID: 1, Email: "known@example.com", PasswordHash: string(hash), Role: models.RoleAdmin}, nil)

	user, err := svc.Login(context.Background(), "Known@Example.com", "correct-password")
	require.NoError(t, err)
	assert.Equal(t, 1, user.ID)
}

func TestForgotPasswordUnknownEmailIsSilent(t *testing.T) {
	userRepo, emails, svc := newAuthFixture()
	userRepo.On("GetByEmail", mock.Anything, "ghost@example.com").
		Return(nil, repositories.ErrUserNotFound)

	err := svc.ForgotPassword(context.Background(), "ghost@example.com")
	assert.NoError(t, err)
	emails.AssertNotCalled(t, "SendPasswordResetEmail", mock.Anything, mock.Anything)
}

func TestForgotPasswordStoresTokenAndSendsEmail(t *testing.T) {
	userRepo, emails, svc := newAuthFixture()
	user := &models.User{ID: 5, Email: "ada@example.com"}

	var issuedToken string
	userRepo.On("GetByEmail", mock.Anything, "ada@example.com").Return(user, nil)
	userRepo.On("SetPasswordResetToken", mock.Anything, 5, mock.AnythingOfType("string"), mock.AnythingOfType("time.Time")).
		Run(func(args mock.Arguments) { issuedToken = args.String(2) }).
		Return(nil)
	emails.On("SendPasswordResetEmail", "ada@example.com", mock.AnythingOfType("string")).Return(nil)

	err := svc.ForgotPassword(context.Background(), "ada@example.com")
	require.NoError(t, err)

	assert.Len(t, issuedToken, resetTokenByteCount*2)
	emails.AssertCalled(t, "SendPasswordResetEmail", "ada@example.com", issuedToken)
}

func TestResetPasswordExpiredToken(t *testing.T) {
	userRepo, _, svc := newAuthFixture()
	expired := time.Now().Add(-time.Minute)
	userRepo.On("GetByPasswordResetToken", mock.Anything, "stale").
		Return(&models.User{ID: 5, PasswordResetExpiresAt: &expired}, nil)

	err := svc.ResetPassword(context.Background(), "stale", "newpassword")
	assert.ErrorIs(t, err, ErrInvalidResetToken)
}

func TestResetPasswordSuccessClearsToken(t *testing.T) {
	userRepo, _, svc := newAuthFixture()
	expires := time.Now().Add(time.Hour)
	token := "valid-token"
	user := &models.User{ID: 5, PasswordResetToken: &token, PasswordResetExpiresAt: &expires}

	userRepo.On("GetByPasswordResetToken", mock.Anything, "valid-token").Return(user, nil)
	userRepo.On("Update", mock.Anything, mock.MatchedBy(func(u *models.User) bool {
		return u.PasswordResetToken == nil && u.PasswordResetExpiresAt == nil
	})).Return(nil)

	err := svc.ResetPassword(context.Background(), "valid-token", "newpassword")
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("newpassword")))
}
