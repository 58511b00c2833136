package board

import "errors"

// State is one player's board and game progress. It is not safe for
// concurrent use; callers serialize access.
type State struct {
	phase    Phase
	registry *Registry
	secretID string
	intake   Intake
	pending  Confirmation
	released []string
}

func NewState() *State {
	return &State{
		phase:    PhaseSetup,
		registry: NewRegistry(),
	}
}

func (s *State) Phase() Phase {
	return s.phase
}

func (s *State) Characters() []Character {
	return s.registry.Characters()
}

func (s *State) Find(id string) (Character, bool) {
	return s.registry.Find(id)
}

func (s *State) Total() int {
	return s.registry.Len()
}

func (s *State) Remaining() int {
	return s.registry.RemainingCount()
}

func (s *State) Eliminated() int {
	return s.registry.EliminatedCount()
}

func (s *State) SecretID() string {
	return s.secretID
}

func (s *State) Secret() (Character, bool) {
	if s.secretID == "" {
		return Character{}, false
	}
	return s.registry.Find(s.secretID)
}

func (s *State) PendingConfirmation() Confirmation {
	return s.pending
}

func (s *State) IntakeQueue() []PendingImage {
	return s.intake.Pending()
}

func (s *State) IntakeCurrent() (PendingImage, bool) {
	return s.intake.Current()
}

func (s *State) Draft() string {
	return s.intake.Draft()
}

// DrainReleased returns the local image handles no longer referenced by the
// board since the last call.
func (s *State) DrainReleased() []string {
	out := s.released
	s.released = nil
	return out
}

func (s *State) requirePhase(phase Phase) error {
	if s.phase != phase {
		return ErrWrongPhase
	}
	return nil
}

func (s *State) releaseCharacters(characters []Character) {
	for _, c := range characters {
		if c.Image.IsLocal() {
			s.released = append(s.released, c.Image.Handle())
		}
	}
}

func (s *State) releaseImages(images []PendingImage) {
	for _, img := range images {
		s.released = append(s.released, img.Handle)
	}
}

func (s *State) Enqueue(source Source, images []PendingImage) (int, error) {
	if err := s.requirePhase(PhaseSetup); err != nil {
		s.releaseImages(images)
		return 0, err
	}
	accepted, released := s.intake.Enqueue(source, images)
	s.releaseImages(released)
	return accepted, nil
}

func (s *State) SetDraft(name string) error {
	if err := s.requirePhase(PhaseSetup); err != nil {
		return err
	}
	s.intake.SetDraft(name)
	return nil
}

// SubmitName names the current intake image. When the board is already full
// the image is consumed and dropped, and added reports false.
func (s *State) SubmitName(name, id string) (Character, bool, error) {
	if err := s.requirePhase(PhaseSetup); err != nil {
		return Character{}, false, err
	}
	img, trimmed, err := s.intake.Submit(name)
	if err != nil {
		return Character{}, false, err
	}
	c := Character{
		ID:    id,
		Name:  trimmed,
		Image: LocalImage(img.Handle),
	}
	if err := s.AddCharacter(c); err != nil {
		if !errors.Is(err, ErrBoardFull) {
			return Character{}, false, err
		}
		s.released = append(s.released, img.Handle)
		return Character{}, false, nil
	}
	return c, true, nil
}

func (s *State) CancelIntake() (int, error) {
	if err := s.requirePhase(PhaseSetup); err != nil {
		return 0, err
	}
	dropped := s.intake.Cancel()
	s.releaseImages(dropped)
	return len(dropped), nil
}

// AddCharacter appends c, failing with ErrBoardFull at capacity or when the
// id is already taken.
func (s *State) AddCharacter(c Character) error {
	if err := s.requirePhase(PhaseSetup); err != nil {
		return err
	}
	if !s.registry.Add(c) {
		return ErrBoardFull
	}
	return nil
}

func (s *State) RemoveCharacter(id string) error {
	if err := s.requirePhase(PhaseSetup); err != nil {
		return err
	}
	if removed, ok := s.registry.Remove(id); ok {
		s.releaseCharacters([]Character{removed})
		if s.secretID == id {
			s.secretID = ""
		}
	}
	return nil
}

func (s *State) FillToCapacity(gen PlaceholderFunc) (int, error) {
	if err := s.requirePhase(PhaseSetup); err != nil {
		return 0, err
	}
	return len(s.registry.FillToCapacity(gen)), nil
}

func (s *State) Clear() error {
	if err := s.requirePhase(PhaseSetup); err != nil {
		return err
	}
	s.releaseCharacters(s.registry.Clear())
	s.secretID = ""
	return nil
}

// LoadCharacters replaces the board with a loaded preset.
func (s *State) LoadCharacters(characters []Character) error {
	if err := s.requirePhase(PhaseSetup); err != nil {
		return err
	}
	s.releaseCharacters(s.registry.Replace(characters))
	s.secretID = ""
	return nil
}

func (s *State) FinishSetup() error {
	if err := s.requirePhase(PhaseSetup); err != nil {
		return err
	}
	if s.registry.Len() == 0 {
		return ErrEmptyBoard
	}
	if s.intake.Active() {
		return ErrIntakePending
	}
	s.phase = PhaseSelectSecret
	s.secretID = ""
	return nil
}

// ClickCard picks the secret while selecting and toggles elimination while
// playing.
func (s *State) ClickCard(id string) error {
	if s.pending != ConfirmNone {
		return ErrConfirmationPending
	}
	switch s.phase {
	case PhaseSelectSecret:
		if _, ok := s.registry.Find(id); !ok {
			return ErrUnknownCharacter
		}
		s.secretID = id
		return nil
	case PhasePlaying:
		if !s.registry.ToggleEliminated(id) {
			return ErrUnknownCharacter
		}
		return nil
	default:
		return ErrWrongPhase
	}
}

func (s *State) ConfirmSecret() error {
	if err := s.requirePhase(PhaseSelectSecret); err != nil {
		return err
	}
	if s.secretID == "" {
		return ErrNoSecret
	}
	s.phase = PhasePlaying
	return nil
}

func (s *State) SoftReset() error {
	if err := s.requirePhase(PhasePlaying); err != nil {
		return err
	}
	if s.pending != ConfirmNone {
		return ErrConfirmationPending
	}
	s.registry.ResetEliminations()
	s.secretID = ""
	s.phase = PhaseSelectSecret
	return nil
}

func (s *State) RequestHardReset() error {
	if err := s.requirePhase(PhasePlaying); err != nil {
		return err
	}
	s.pending = ConfirmHardReset
	return nil
}

func (s *State) ResolveConfirmation(accept bool) error {
	pending := s.pending
	if pending == ConfirmNone {
		return ErrNoConfirmation
	}
	s.pending = ConfirmNone
	if !accept {
		return nil
	}
	switch pending {
	case ConfirmHardReset:
		s.hardReset()
	}
	return nil
}

func (s *State) hardReset() {
	s.releaseCharacters(s.registry.Clear())
	s.releaseImages(s.intake.Cancel())
	s.secretID = ""
	s.phase = PhaseSetup
}

// Release drops every local image reference, used when the board is
// discarded.
func (s *State) Release() []string {
	s.releaseCharacters(s.registry.Characters())
	s.releaseImages(s.intake.Pending())
	return s.DrainReleased()
}
