// Package handlers implements the REST endpoints.
package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"devdash-backend/domain/note"
	"devdash-backend/pkg/auth"
	"devdash-backend/pkg/common"
	apperrors "devdash-backend/pkg/errors"
	"devdash-backend/pkg/utils"
)

// respondAppError writes err with the status its category maps to. Errors
// that are not AppErrors are logged and hidden behind a generic 500.
func respondAppError(w http.ResponseWriter, r *http.Request, logger *zap.Logger, err error) {
	appErr := apperrors.GetAppError(err)
	if appErr == nil {
		logger.Error("unhandled error",
			zap.Error(err),
			zap.String("path", r.URL.Path),
			zap.String("request_id", middleware.GetReqID(r.Context())))
		common.RespondError(w, http.StatusInternalServerError, common.StandardErrorCodes.InternalError, "Internal server error")
		return
	}

	status := apperrors.HTTPStatusOf(appErr)
	if status >= http.StatusInternalServerError {
		logger.Error("request failed",
			zap.Error(err),
			zap.String("path", r.URL.Path),
			zap.String("request_id", middleware.GetReqID(r.Context())))
	}
	code := appErr.Code
	if code == "" {
		code = string(appErr.Type)
	}
	message := appErr.Message
	if status >= http.StatusInternalServerError && appErr.Type != apperrors.ErrorTypeUnavailable {
		message = "Internal server error"
	}
	common.RespondErrorWithDetails(w, status, code, message, appErr.Details)
}

// decode reads and validates a JSON body.
func decode(w http.ResponseWriter, r *http.Request, dst any) error {
	if err := common.DecodeJSON(w, r, dst); err != nil {
		return apperrors.NewValidationError(err.Error())
	}
	return validate(dst)
}

// decodeChanges accepts change batches as the canvas emits them, ignoring
// fields such as positionAbsolute or item.
func decodeChanges(w http.ResponseWriter, r *http.Request, dst any) error {
	if err := common.DecodeJSONLenient(w, r, dst); err != nil {
		return apperrors.NewValidationError(err.Error())
	}
	return validate(dst)
}

func validate(dst any) error {
	if err := utils.ValidateStruct(dst); err != nil {
		return apperrors.NewValidationError(err.Error())
	}
	return nil
}

func viewerFrom(r *http.Request) note.Viewer {
	if u, ok := auth.UserFrom(r.Context()); ok {
		return note.Viewer{UserID: u.ID, Email: u.Email}
	}
	return note.Viewer{}
}

type answer int

const (
	answerUnset answer = iota
	answerYes
	answerNo
)

// requestConfirmer answers prompts from the X-Confirm header or the confirm
// query parameter, and remembers the prompt it was asked.
type requestConfirmer struct {
	answer answer
	prompt string
}

func confirmerFor(r *http.Request) *requestConfirmer {
	raw := strings.ToLower(strings.TrimSpace(r.Header.Get("X-Confirm")))
	if raw == "" {
		raw = strings.ToLower(r.URL.Query().Get("confirm"))
	}
	switch raw {
	case "yes", "true", "1":
		return &requestConfirmer{answer: answerYes}
	case "no", "false", "0":
		return &requestConfirmer{answer: answerNo}
	}
	return &requestConfirmer{}
}

func (c *requestConfirmer) Confirm(_ context.Context, prompt string) bool {
	c.prompt = prompt
	return c.answer == answerYes
}

// settled writes the response for a prompt that was not answered yes and
// reports whether it did.
func (c *requestConfirmer) settled(w http.ResponseWriter, r *http.Request, logger *zap.Logger) bool {
	if c.prompt == "" || c.answer == answerYes {
		return false
	}
	if c.answer == answerNo {
		common.RespondJSON(w, http.StatusOK, map[string]any{"confirmed": false, "prompt": c.prompt})
		return true
	}
	respondAppError(w, r, logger, apperrors.NewPreconditionError(c.prompt))
	return true
}
