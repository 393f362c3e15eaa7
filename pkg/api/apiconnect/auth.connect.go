package apiconnect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/smartfinance/pkg/api"
)

// AuthServiceName is the fully-qualified name of the AuthService.
const AuthServiceName = "smartfinance.v1.AuthService"

// Procedure paths of the AuthService.
const (
	AuthServiceSignUpProcedure         = "/smartfinance.v1.AuthService/SignUp"
	AuthServiceSignInProcedure         = "/smartfinance.v1.AuthService/SignIn"
	AuthServiceGetCurrentUserProcedure = "/smartfinance.v1.AuthService/GetCurrentUser"
)

// AuthServiceHandler handles account sign-up and sign-in.
type AuthServiceHandler interface {
	SignUp(context.Context, *connect.Request[api.SignUpRequest]) (*connect.Response[api.SignUpResponse], error)
	SignIn(context.Context, *connect.Request[api.SignInRequest]) (*connect.Response[api.SignInResponse], error)
	GetCurrentUser(context.Context, *connect.Request[api.GetCurrentUserRequest]) (*connect.Response[api.GetCurrentUserResponse], error)
}

// NewAuthServiceHandler builds an HTTP handler from the service implementation.
// It returns the path on which to mount the handler and the handler itself.
func NewAuthServiceHandler(svc AuthServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	mux := http.NewServeMux()
	mux.Handle(AuthServiceSignUpProcedure, connect.NewUnaryHandler(AuthServiceSignUpProcedure, svc.SignUp, opts...))
	mux.Handle(AuthServiceSignInProcedure, connect.NewUnaryHandler(AuthServiceSignInProcedure, svc.SignIn, opts...))
	mux.Handle(AuthServiceGetCurrentUserProcedure, connect.NewUnaryHandler(AuthServiceGetCurrentUserProcedure, svc.GetCurrentUser, opts...))
	return "/" + AuthServiceName + "/", mux
}

// AuthServiceClient is a client for the AuthService.
type AuthServiceClient interface {
	SignUp(context.Context, *connect.Request[api.SignUpRequest]) (*connect.Response[api.SignUpResponse], error)
	SignIn(context.Context, *connect.Request[api.SignInRequest]) (*connect.Response[api.SignInResponse], error)
	GetCurrentUser(context.Context, *connect.Request[api.GetCurrentUserRequest]) (*connect.Response[api.GetCurrentUserResponse], error)
}

type authServiceClient struct {
	signUp         *connect.Client[api.SignUpRequest, api.SignUpResponse]
	signIn         *connect.Client[api.SignInRequest, api.SignInResponse]
	getCurrentUser *connect.Client[api.GetCurrentUserRequest, api.GetCurrentUserResponse]
}

// NewAuthServiceClient constructs a client for the service at baseURL
// (for example, http://localhost:8080).
func NewAuthServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) AuthServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &authServiceClient{
		signUp:         connect.NewClient[api.SignUpRequest, api.SignUpResponse](httpClient, baseURL+AuthServiceSignUpProcedure, opts...),
		signIn:         connect.NewClient[api.SignInRequest, api.SignInResponse](httpClient, baseURL+AuthServiceSignInProcedure, opts...),
		getCurrentUser: connect.NewClient[api.GetCurrentUserRequest, api.GetCurrentUserResponse](httpClient, baseURL+AuthServiceGetCurrentUserProcedure, opts...),
	}
}

func (c *authServiceClient) SignUp(ctx context.Context, req *connect.Request[api.SignUpRequest]) (*connect.Response[api.SignUpResponse], error) {
	return c.signUp.CallUnary(ctx, req)
}

func (c *authServiceClient) SignIn(ctx context.Context, req *connect.Request[api.SignInRequest]) (*connect.Response[api.SignInResponse], error) {
	return c.signIn.CallUnary(ctx, req)
}

func (c *authServiceClient) GetCurrentUser(ctx context.Context, req *connect.Request[api.GetCurrentUserRequest]) (*connect.Response[api.GetCurrentUserResponse], error) {
	return c.getCurrentUser.CallUnary(ctx, req)
}
