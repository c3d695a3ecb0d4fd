package audit

import (
	"context"
	"time"

	"orgaudit/internal/auth"
)

// SystemClock stamps audit rows with the process wall clock in UTC.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }

// ContextPrincipal resolves the acting user from the request context as
// placed there by the auth middleware. An unauthenticated request yields a
// nil user name, which is a legal (nullable) provenance value.
type ContextPrincipal struct{}

func (ContextPrincipal) UserName(ctx context.Context) (*string, error) {
	name, ok := auth.UserFromContext(ctx)
	if !ok {
		return nil, nil
	}
	return &name, nil
}
