package actor

import (
	"context"
	"strings"
)

type Role string

const (
	RoleAdmin      Role = "ADMIN"
	RoleDispatcher Role = "DISPATCHER"
	RoleHR         Role = "HR"
	RoleDriver     Role = "DRIVER"
)

// Actor is the caller identity handed to us by the gateway. It is trusted as-is.
type Actor struct {
	UserID    string
	Email     string
	Roles     []Role
	DriverID  string
	RequestID string
	IPAddress string
	UserAgent string
}

func (a Actor) HasRole(roles ...Role) bool {
	for _, have := range a.Roles {
		for _, want := range roles {
			if have == want {
				return true
			}
		}
	}
	return false
}

func (a Actor) IsDriver() bool { return a.DriverID != "" }

// ParseRoles reads a comma separated role list, ignoring blanks and case.
func ParseRoles(raw string) []Role {
	var out []Role
	for _, p := range strings.Split(raw, ",") {
		p = strings.ToUpper(strings.TrimSpace(p))
		switch Role(p) {
		case RoleAdmin, RoleDispatcher, RoleHR, RoleDriver:
			out = append(out, Role(p))
		}
	}
	return out
}

type ctxKey struct{}

func WithActor(ctx context.Context, a Actor) context.Context {
	return context.WithValue(ctx, ctxKey{}, a)
}

// FromContext returns the actor stored by WithActor, or the zero Actor.
func FromContext(ctx context.Context) Actor {
	if a, ok := ctx.Value(ctxKey{}).(Actor); ok {
		return a
	}
	return Actor{}
}
