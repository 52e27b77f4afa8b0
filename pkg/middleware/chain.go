package middleware

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
)

// Chain wraps h so that the first middleware runs first.
func Chain(h http.Handler, mws ...func(http.Handler) http.Handler) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

// Route applies per-route middleware to an httprouter handle, keeping the
// matched params available to the handle.
func Route(h httprouter.Handle, mws ...func(http.Handler) http.Handler) httprouter.Handle {
	if len(mws) == 0 {
		return h
	}
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h(w, r, ps)
		})
		Chain(inner, mws...).ServeHTTP(w, r)
	}
}
