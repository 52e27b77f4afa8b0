package auth

import (
	"net/http"

	apperrors "queendoctor/pkg/errors"
	httputil "queendoctor/pkg/http"
	"queendoctor/pkg/logger"
)

// Rejection messages clients of this API already match on. The wording
// reads swapped against the status codes and is kept as is.
const (
	MissingMessage   = "Forbidden Access"
	InvalidMessage   = "Unauthorized Access"
	ForbiddenMessage = "Forbidden Access"
)

type TokenParser interface {
	Parse(token string) (Identity, error)
}

type VerifierOptions struct {
	// NormalizedStatus answers an invalid credential with 401 like a missing
	// one. By default a credential that is present but fails verification
	// gets 403.
	NormalizedStatus bool
}

// RequireToken rejects requests without a valid token cookie and stores the
// decoded identity in the request context. It never touches the database, so
// a credential stays valid for its whole signed lifetime.
func RequireToken(parser TokenParser, opts VerifierOptions, log *logger.Logger) func(http.Handler) http.Handler {
	missing := apperrors.Unauthorized(MissingMessage)
	invalid := apperrors.Forbidden(InvalidMessage)
	if opts.NormalizedStatus {
		missing = apperrors.Unauthorized("Authentication required")
		invalid = apperrors.Unauthorized("Invalid or expired credential")
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(CookieName)
			if err != nil || cookie.Value == "" {
				reject(w, r, log, missing, "missing credential", nil)
				return
			}

			identity, err := parser.Parse(cookie.Value)
			if err != nil {
				reject(w, r, log, invalid, "credential rejected", err)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
		})
	}
}

func reject(w http.ResponseWriter, r *http.Request, log *logger.Logger, appErr *apperrors.AppError, reason string, cause error) {
	args := []any{"reason", reason, "path", r.URL.Path, "status", appErr.StatusCode()}
	if cause != nil {
		args = append(args, "error", cause)
	}
	log.Ctx(r.Context()).Warn("Token verification failed", args...)

	if err := httputil.WriteError(w, appErr); err != nil {
		log.Error("failed to write error response", "handler", "RequireToken", "operation", "WriteError", "error", err)
	}
}
