package middleware

import (
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	apierrors "esgdash/internal/errors"
)

// writeProblem answers with an RFC 7807 body from middleware that runs
// outside the handlers' error handler.
func writeProblem(w http.ResponseWriter, r *http.Request, status int, problemType, detail string) {
	_ = apierrors.NewProblemDetails(status, problemType, "", detail, r.URL.Path).
		WithExtension("request_id", middleware.GetReqID(r.Context())).
		Write(w)
}
