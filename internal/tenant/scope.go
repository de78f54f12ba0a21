// Package tenant carries the caller's tenant through the request. Every
// repository method takes a Scope, so a query cannot be issued without one.
package tenant

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
)

var ErrInvalidTenant = errors.New("invalid tenant id")

// Scope identifies the tenant a request acts for. The zero value reports
// the nil UUID, which New never accepts, so queries bound to it match no
// rows.
type Scope struct {
	id string
}

func New(id string) (Scope, error) {
	id = strings.TrimSpace(id)
	parsed, err := uuid.Parse(id)
	if err != nil || parsed == uuid.Nil {
		return Scope{}, ErrInvalidTenant
	}
	return Scope{id: parsed.String()}, nil
}

// MustNew is New for constants in tests and seed code.
func MustNew(id string) Scope {
	s, err := New(id)
	if err != nil {
		panic(err)
	}
	return s
}

func (s Scope) ID() string {
	if s.id == "" {
		return uuid.Nil.String()
	}
	return s.id
}

func (s Scope) IsZero() bool { return s.id == "" }

type ctxKey struct{}

func WithScope(ctx context.Context, s Scope) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

func FromContext(ctx context.Context) (Scope, bool) {
	s, ok := ctx.Value(ctxKey{}).(Scope)
	return s, ok && !s.IsZero()
}
