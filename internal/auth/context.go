package auth

import "context"

type contextKey struct{}

// AuthContext identifies the caller of an authenticated request.
// HouseholdID is empty until the household has been resolved.
type AuthContext struct {
	UserID      string
	SessionID   string
	Token       string
	HouseholdID string
}

func WithAuth(ctx context.Context, ac AuthContext) context.Context {
	return context.WithValue(ctx, contextKey{}, ac)
}

func FromContext(ctx context.Context) (AuthContext, bool) {
	ac, ok := ctx.Value(contextKey{}).(AuthContext)
	return ac, ok
}

func HouseholdID(ctx context.Context) string {
	ac, _ := FromContext(ctx)
	return ac.HouseholdID
}

func UserID(ctx context.Context) string {
	ac, _ := FromContext(ctx)
	return ac.UserID
}

// WithHouseholdID returns ctx with the household set on its AuthContext.
func WithHouseholdID(ctx context.Context, householdID string) context.Context {
	ac, _ := FromContext(ctx)
	ac.HouseholdID = householdID
	return WithAuth(ctx, ac)
}
