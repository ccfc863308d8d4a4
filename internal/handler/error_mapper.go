package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/forgo/jobboard/internal/authz"
	"github.com/forgo/jobboard/internal/database"
	"github.com/forgo/jobboard/internal/middleware"
	"github.com/forgo/jobboard/internal/model"
	"github.com/forgo/jobboard/internal/service"
)

// MapServiceError converts a service error to a ProblemDetails response.
// Anything not recognised becomes a generic 500; the underlying error is
// never echoed to the client.
func MapServiceError(err error) *model.ProblemDetails {
	if err == nil {
		return nil
	}

	// ===== Validation Errors → 422 =====
	var verr *service.ValidationError
	if errors.As(err, &verr) {
		return model.NewValidationError(verr.Fields)
	}

	switch {
	// ===== Authentication Errors → 401 =====
	case errors.Is(err, service.ErrInvalidCredentials):
		return model.NewLoginFailedError("Username or password is incorrect.")
	case errors.Is(err, authz.ErrCredentialExpired):
		return model.NewTokenExpiredError()
	case errors.Is(err, authz.ErrUnauthenticated),
		errors.Is(err, authz.ErrMissingCredential),
		errors.Is(err, authz.ErrInvalidCredential):
		return model.NewUnauthorizedError("authentication required")

	// ===== Authorization Errors → 403 =====
	case errors.Is(err, authz.ErrNotOwner):
		return model.NewNotOwnerError("only the employer who posted this job may change it")
	case errors.Is(err, authz.ErrForbidden):
		return model.NewForbiddenError("your role is not permitted to perform this operation")

	// ===== Not Found Errors → 404 =====
	case errors.Is(err, service.ErrJobNotFound),
		errors.Is(err, database.ErrNotFound):
		return model.NewNotFoundError("job")
	case errors.Is(err, service.ErrUserNotFound):
		return model.NewNotFoundError("user")

	// ===== Conflict Errors → 409 =====
	case errors.Is(err, service.ErrUsernameTaken):
		return model.NewConflictError("Username is already taken.")
	case errors.Is(err, database.ErrDuplicate):
		return model.NewConflictError("resource already exists")

	// ===== Default → 500 =====
	default:
		return model.NewInternalError("")
	}
}

// writeServiceError maps err and writes it. Server errors are logged with
// the operation and request id.
func writeServiceError(w http.ResponseWriter, r *http.Request, operation string, err error) {
	problem := MapServiceError(err)
	if problem.Status >= http.StatusInternalServerError {
		slog.Error("request failed",
			slog.String("operation", operation),
			slog.String("request_id", middleware.GetRequestID(r.Context())),
			slog.String("error", err.Error()),
		)
	}
	problem.Instance = r.URL.Path
	WriteError(w, problem)
}
