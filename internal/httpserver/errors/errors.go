// Package errors centralizes request-scoped error reporting: every log
// line carries the request ID so a user report can be matched to the
// upstream call that failed.
package errors

import (
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

func InternalError(log *zap.Logger, w http.ResponseWriter, r *http.Request, err error, message string) {
	log.Error(message, zap.String("request_id", middleware.GetReqID(r.Context())), zap.Error(err))
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

func BadRequestError(log *zap.Logger, w http.ResponseWriter, r *http.Request, err error, clientMessage string) {
	log.Warn("bad request", zap.String("request_id", middleware.GetReqID(r.Context())), zap.Error(err))
	http.Error(w, clientMessage, http.StatusBadRequest)
}

func LogError(log *zap.Logger, r *http.Request, message string, err error) {
	log.Error(message, zap.String("request_id", middleware.GetReqID(r.Context())), zap.Error(err))
}
