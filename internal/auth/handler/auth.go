package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"

	"queendoctor/internal/auth"
	apperrors "queendoctor/pkg/errors"
	httputil "queendoctor/pkg/http"
	"queendoctor/pkg/logger"
)

type TokenIssuer interface {
	Issue(identity auth.Identity) (string, time.Time, error)
}

type CookieConfig struct {
	Secure   bool
	SameSite http.SameSite
}

type AuthHandler struct {
	tokens  TokenIssuer
	checker auth.IdentityChecker
	cookie  CookieConfig
	log     *logger.Logger
}

func NewAuthHandler(tokens TokenIssuer, checker auth.IdentityChecker, cookie CookieConfig, log *logger.Logger) *AuthHandler {
	return &AuthHandler{
		tokens:  tokens,
		checker: checker,
		cookie:  cookie,
		log:     log,
	}
}

// IssueToken signs the posted identity and hands it back as an HTTP-only
// session cookie.
func (h *AuthHandler) IssueToken(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	body, err := httputil.DecodeObject(r)
	if err != nil {
		h.writeError(w, "IssueToken", err)
		return
	}

	identity := auth.Identity(body)
	if err := h.checker.Check(r.Context(), identity); err != nil {
		h.writeError(w, "IssueToken", err)
		return
	}

	token, expiresAt, err := h.tokens.Issue(identity)
	if err != nil {
		if errors.Is(err, auth.ErrMissingSigningKey) {
			h.log.Ctx(r.Context()).Error("Cannot issue credential without a signing key")
		}
		h.writeError(w, "IssueToken", apperrors.Internal("Failed to issue credential", err))
		return
	}

	cookie := &http.Cookie{
		Name:     auth.CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cookie.Secure,
	}
	if h.cookie.SameSite != 0 {
		cookie.SameSite = h.cookie.SameSite
	}
	http.SetCookie(w, cookie)

	h.log.Ctx(r.Context()).Info("Credential issued", "email", identity.Email(), "expires_at", expiresAt)

	if err := httputil.WriteOK(w, httputil.SuccessResponse{Success: true}); err != nil {
		h.log.Error("failed to write success response", "handler", "IssueToken", "operation", "WriteOK", "error", err)
	}
}

func (h *AuthHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

func (h *AuthHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/jwt", h.IssueToken)
}
