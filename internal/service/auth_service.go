package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/smartfinance/internal/auth"
	"github.com/mmynk/smartfinance/internal/middleware"
	"github.com/mmynk/smartfinance/internal/models"
	"github.com/mmynk/smartfinance/pkg/api"
	"github.com/mmynk/smartfinance/pkg/api/apiconnect"
)

// Ensure AuthService implements the interface
var _ apiconnect.AuthServiceHandler = (*AuthService)(nil)

// AuthService implements the AuthService RPC interface.
type AuthService struct {
	authenticator auth.Authenticator
	users         auth.UserStorage
	jwtManager    *auth.JWTManager
	logger        *slog.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(authenticator auth.Authenticator, users auth.UserStorage, jwtManager *auth.JWTManager, logger *slog.Logger) *AuthService {
	return &AuthService{
		authenticator: authenticator,
		users:         users,
		jwtManager:    jwtManager,
		logger:        logger,
	}
}

// PublicProcedures are the auth procedures callable without a token.
var PublicProcedures = []string{
	apiconnect.AuthServiceSignUpProcedure,
	apiconnect.AuthServiceSignInProcedure,
}

func toAPIUser(u *models.User) api.User {
	return api.User{ID: u.ID, Email: u.Email, DisplayName: u.DisplayName, CreatedAt: u.CreatedAt}
}

// SignUp creates a new account and returns a session token.
func (s *AuthService) SignUp(ctx context.Context, req *connect.Request[api.SignUpRequest]) (*connect.Response[api.SignUpResponse], error) {
	s.logger.Info("SignUp request", "email", req.Msg.Email)

	if req.Msg.DisplayName == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("display name is required"))
	}

	user, err := s.authenticator.Register(ctx, req.Msg.Email, req.Msg.DisplayName, req.Msg.Password)
	switch {
	case errors.Is(err, auth.ErrEmailExists):
		return nil, connect.NewError(connect.CodeAlreadyExists, err)
	case errors.Is(err, auth.ErrWeakPassword), errors.Is(err, auth.ErrInvalidEmail):
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	case err != nil:
		s.logger.Error("Registration failed", "email", req.Msg.Email, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	token, err := s.jwtManager.Issue(user)
	if err != nil {
		s.logger.Error("Failed to generate token", "user_id", user.ID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	s.logger.Info("User registered", "user_id", user.ID)
	return connect.NewResponse(&api.SignUpResponse{
		User:      toAPIUser(user),
		Token:     token.Value,
		ExpiresAt: token.ExpiresAt.Unix(),
	}), nil
}

// SignIn authenticates a user and returns a session token.
func (s *AuthService) SignIn(ctx context.Context, req *connect.Request[api.SignInRequest]) (*connect.Response[api.SignInResponse], error) {
	if req.Msg.Email == "" || req.Msg.Password == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, auth.ErrInvalidCredentials)
	}

	user, err := s.authenticator.Authenticate(ctx, req.Msg.Email, req.Msg.Password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		s.logger.Warn("Sign-in failed", "email", req.Msg.Email)
		return nil, connect.NewError(connect.CodeUnauthenticated, err)
	}
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	token, err := s.jwtManager.Issue(user)
	if err != nil {
		s.logger.Error("Failed to generate token", "user_id", user.ID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	s.logger.Info("User signed in", "user_id", user.ID)
	return connect.NewResponse(&api.SignInResponse{
		User:      toAPIUser(user),
		Token:     token.Value,
		ExpiresAt: token.ExpiresAt.Unix(),
	}), nil
}

// GetCurrentUser returns the account behind the caller's token.
func (s *AuthService) GetCurrentUser(ctx context.Context, req *connect.Request[api.GetCurrentUserRequest]) (*connect.Response[api.GetCurrentUserResponse], error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
	}

	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	if user == nil {
		s.logger.Warn("Token for a deleted account", "user_id", userID)
		return nil, connect.NewError(connect.CodeNotFound, fmt.Errorf("account %s no longer exists", middleware.GetEmail(ctx)))
	}
	return connect.NewResponse(&api.GetCurrentUserResponse{User: toAPIUser(user)}), nil
}
