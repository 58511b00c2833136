package server

import (
	"errors"
	"net/http"

	"guess-who/internal/board"
	"guess-who/internal/presets"

	"github.com/gin-gonic/gin"
)

func writeJSON(c *gin.Context, status int, payload any) {
	c.JSON(status, payload)
}

func writeError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"error": message,
	})
}

// statusFor maps domain errors onto HTTP statuses.
func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrBoardNotFound), errors.Is(err, presets.ErrPresetNotFound):
		return http.StatusNotFound
	case errors.Is(err, board.ErrEmptyName), errors.Is(err, presets.ErrPresetName):
		return http.StatusBadRequest
	case errors.Is(err, board.ErrWrongPhase),
		errors.Is(err, board.ErrEmptyBoard),
		errors.Is(err, board.ErrBoardFull),
		errors.Is(err, board.ErrNoSecret),
		errors.Is(err, board.ErrUnknownCharacter),
		errors.Is(err, board.ErrNoPendingImage),
		errors.Is(err, board.ErrIntakePending),
		errors.Is(err, board.ErrNoConfirmation),
		errors.Is(err, board.ErrConfirmationPending),
		errors.Is(err, presets.ErrNothingToSave):
		return http.StatusConflict
	case errors.Is(err, presets.ErrCreatePreset), errors.Is(err, presets.ErrSaveCharacters):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeStateError(c *gin.Context, err error) {
	writeError(c, statusFor(err), err.Error())
}
