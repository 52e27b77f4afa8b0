package auth

import (
	"context"

	apperrors "queendoctor/pkg/errors"
	"queendoctor/pkg/validator"
)

// Identity is the claim set carried by a credential. It is whatever object
// the caller presented at issuance plus the registered exp/iat claims.
type Identity map[string]any

func (i Identity) Email() string {
	email, _ := i["email"].(string)
	return email
}

// IdentityChecker decides whether a presented identity may be signed.
// Deployments backed by a real identity provider plug their verification in
// here; nothing is signed unless Check returns nil.
type IdentityChecker interface {
	Check(ctx context.Context, identity Identity) error
}

// EmailIdentityChecker only requires a well-formed email claim. It does not
// prove the caller owns that address.
type EmailIdentityChecker struct {
	validator *validator.Validator
}

func NewEmailIdentityChecker(v *validator.Validator) *EmailIdentityChecker {
	return &EmailIdentityChecker{validator: v}
}

func (c *EmailIdentityChecker) Check(_ context.Context, identity Identity) error {
	email, ok := identity["email"].(string)
	if !ok {
		return apperrors.InvalidInput("email is required").WithDetails(map[string]any{"field": "email"})
	}
	if err := c.validator.Field("email", email, "required,email"); err != nil {
		return apperrors.InvalidInput("invalid identity").WithDetails(map[string]any{"error": err.Error()})
	}
	return nil
}

type identityKey struct{}

func WithIdentity(ctx context.Context, identity Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, identity)
}

func IdentityFromContext(ctx context.Context) (Identity, bool) {
	identity, ok := ctx.Value(identityKey{}).(Identity)
	return identity, ok
}
