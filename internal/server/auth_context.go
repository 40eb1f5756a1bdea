package server

import (
	"context"

	"kanban/internal/models"
	"kanban/internal/service"
)

type authContextKey struct{}

type principalSinkKey struct{}

type authPrincipal struct {
	User  *models.User
	Token string
}

func contextWithAuthPrincipal(ctx context.Context, principal authPrincipal) context.Context {
	if sink, ok := ctx.Value(principalSinkKey{}).(*string); ok && principal.User != nil {
		*sink = principal.User.ID
	}
	return context.WithValue(ctx, authContextKey{}, principal)
}

// contextWithPrincipalSink lets an outer middleware learn who the inner auth
// layer authenticated.
func contextWithPrincipalSink(ctx context.Context, userID *string) context.Context {
	return context.WithValue(ctx, principalSinkKey{}, userID)
}

func authPrincipalFromContext(ctx context.Context) (authPrincipal, bool) {
	if ctx == nil {
		return authPrincipal{}, false
	}
	principal, ok := ctx.Value(authContextKey{}).(authPrincipal)
	if !ok || principal.User == nil {
		return authPrincipal{}, false
	}
	return principal, true
}

// requesterFromContext returns the identity service calls act on behalf of.
func requesterFromContext(ctx context.Context) (service.Requester, bool) {
	principal, ok := authPrincipalFromContext(ctx)
	if !ok {
		return service.Requester{}, false
	}
	return service.Requester{ID: principal.User.ID, Role: principal.User.Role}, true
}
