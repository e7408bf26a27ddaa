// ABOUTME: Login and profile calls used by the session controller
// ABOUTME: Never cached: every restore must reach the backend

package api

import (
	"context"

	"github.com/kimguny/xpg-admin/internal/client"
	"github.com/kimguny/xpg-admin/internal/model"
	"github.com/kimguny/xpg-admin/internal/validate"
)

// Auth talks to the authentication endpoints.
type Auth struct {
	rq Requester
}

// Login exchanges credentials for a bearer token. A rejection matches
// client.ErrAuthAttempt.
func (a *Auth) Login(ctx context.Context, creds model.LoginRequest) (*model.LoginResponse, error) {
	if err := validate.Struct(creds); err != nil {
		return nil, err
	}
	var out model.LoginResponse
	if err := a.rq.Post(ctx, client.DefaultLoginPath, creds, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Me fetches the profile the current credential belongs to.
func (a *Auth) Me(ctx context.Context) (*model.User, error) {
	var out model.User
	if err := a.rq.Get(ctx, "/me", &out); err != nil {
		return nil, err
	}
	return &out, nil
}
