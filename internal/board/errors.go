package board

import "errors"

var (
	ErrWrongPhase       = errors.New("action not available in this phase")
	ErrEmptyBoard       = errors.New("board has no characters")
	ErrBoardFull        = errors.New("board is full")
	ErrNoSecret         = errors.New("no secret character selected")
	ErrUnknownCharacter = errors.New("character not found")
	ErrEmptyName        = errors.New("name is required")
	ErrNoPendingImage   = errors.New("no image waiting for a name")
	ErrIntakePending    = errors.New("images are still waiting for names")
	ErrNoConfirmation   = errors.New("nothing to confirm")
)

var ErrConfirmationPending = errors.New("waiting for confirmation")
