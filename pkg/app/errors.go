package app

import (
	"net/http"

	apperrors "queendoctor/pkg/errors"
	httputil "queendoctor/pkg/http"
)

func notFound(w http.ResponseWriter, r *http.Request) {
	_ = httputil.WriteError(w, apperrors.New(apperrors.CodeNotFound, "Route not found", http.StatusNotFound))
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	_ = httputil.WriteError(w, apperrors.MethodNotAllowed())
}
