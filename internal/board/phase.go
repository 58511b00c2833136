package board

type Phase string

const (
	PhaseSetup        Phase = "setup"
	PhaseSelectSecret Phase = "select-secret"
	PhasePlaying      Phase = "playing"
	// PhaseGameOver is part of the wire vocabulary; no transition enters it.
	PhaseGameOver Phase = "game-over"
)

type Confirmation string

const (
	ConfirmNone      Confirmation = ""
	ConfirmHardReset Confirmation = "hard-reset"
)
