package board

import (
	"errors"
	"fmt"
	"testing"
)

func setupState(t *testing.T, n int) *State {
	t.Helper()
	state := NewState()
	for i := 0; i < n; i++ {
		if err := state.AddCharacter(namedCharacter(fmt.Sprintf("c-%d", i))); err != nil {
			t.Fatalf("add character: %v", err)
		}
	}
	return state
}

func playingState(t *testing.T, n int) *State {
	t.Helper()
	state := setupState(t, n)
	if err := state.FinishSetup(); err != nil {
		t.Fatalf("finish setup: %v", err)
	}
	if err := state.ClickCard("c-0"); err != nil {
		t.Fatalf("pick secret: %v", err)
	}
	if err := state.ConfirmSecret(); err != nil {
		t.Fatalf("confirm secret: %v", err)
	}
	return state
}

func TestFinishSetupRequiresCharacters(t *testing.T) {
	state := NewState()
	if err := state.FinishSetup(); !errors.Is(err, ErrEmptyBoard) {
		t.Fatalf("expected ErrEmptyBoard, got %v", err)
	}
	if state.Phase() != PhaseSetup {
		t.Fatalf("expected setup phase, got %s", state.Phase())
	}
}

func TestFinishSetupBlockedByOpenIntake(t *testing.T) {
	state := setupState(t, 1)
	if _, err := state.Enqueue(SourcePaste, pngs("h1")); err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	if err := state.FinishSetup(); !errors.Is(err, ErrIntakePending) {
		t.Fatalf("expected ErrIntakePending, got %v", err)
	}
}

func TestConfirmSecretWithoutSelectionIsNoop(t *testing.T) {
	state := setupState(t, 3)
	if err := state.FinishSetup(); err != nil {
		t.Fatalf("finish setup: %v", err)
	}
	if err := state.ConfirmSecret(); !errors.Is(err, ErrNoSecret) {
		t.Fatalf("expected ErrNoSecret, got %v", err)
	}
	if state.Phase() != PhaseSelectSecret {
		t.Fatalf("expected phase to stay %s, got %s", PhaseSelectSecret, state.Phase())
	}
}

func TestSelectSecretLastClickWins(t *testing.T) {
	state := setupState(t, 3)
	_ = state.FinishSetup()
	_ = state.ClickCard("c-1")
	_ = state.ClickCard("c-2")
	_ = state.ClickCard("c-2")
	if state.SecretID() != "c-2" {
		t.Fatalf("expected c-2 secret, got %q", state.SecretID())
	}
	if state.Eliminated() != 0 {
		t.Fatalf("expected no eliminations while selecting")
	}
	if err := state.ClickCard("missing"); !errors.Is(err, ErrUnknownCharacter) {
		t.Fatalf("expected ErrUnknownCharacter, got %v", err)
	}
}

func TestPlayingClickTogglesElimination(t *testing.T) {
	state := playingState(t, 4)
	_ = state.ClickCard("c-2")
	_ = state.ClickCard("c-3")
	_ = state.ClickCard("c-2")
	if state.Remaining() != 3 || state.Eliminated() != 1 {
		t.Fatalf("expected 3 remaining and 1 eliminated, got %d/%d", state.Remaining(), state.Eliminated())
	}
	if state.Phase() != PhasePlaying {
		t.Fatalf("expected playing phase, got %s", state.Phase())
	}
}

func TestSetupRejectsCardClicks(t *testing.T) {
	state := setupState(t, 2)
	if err := state.ClickCard("c-0"); !errors.Is(err, ErrWrongPhase) {
		t.Fatalf("expected ErrWrongPhase, got %v", err)
	}
}

func TestSoftResetKeepsBoard(t *testing.T) {
	state := playingState(t, 5)
	before := state.Characters()
	_ = state.ClickCard("c-1")
	_ = state.ClickCard("c-4")
	if err := state.SoftReset(); err != nil {
		t.Fatalf("soft reset: %v", err)
	}
	if state.Phase() != PhaseSelectSecret {
		t.Fatalf("expected select-secret phase, got %s", state.Phase())
	}
	if state.SecretID() != "" {
		t.Fatalf("expected secret cleared, got %q", state.SecretID())
	}
	after := state.Characters()
	if len(after) != len(before) {
		t.Fatalf("expected %d characters, got %d", len(before), len(after))
	}
	for i := range after {
		if after[i].Eliminated {
			t.Fatalf("expected %s not eliminated", after[i].ID)
		}
		if after[i].ID != before[i].ID || after[i].Name != before[i].Name || after[i].Image != before[i].Image {
			t.Fatalf("expected board composition preserved at %d", i)
		}
	}
}

func TestHardResetRequiresConfirmation(t *testing.T) {
	state := playingState(t, 3)
	if err := state.RequestHardReset(); err != nil {
		t.Fatalf("request hard reset: %v", err)
	}
	if state.PendingConfirmation() != ConfirmHardReset {
		t.Fatalf("expected pending hard reset confirmation")
	}
	if err := state.ClickCard("c-1"); !errors.Is(err, ErrConfirmationPending) {
		t.Fatalf("expected clicks blocked during confirmation, got %v", err)
	}
	if err := state.ResolveConfirmation(false); err != nil {
		t.Fatalf("decline: %v", err)
	}
	if state.Phase() != PhasePlaying || state.Total() != 3 {
		t.Fatalf("expected declined reset to leave the game alone")
	}

	_ = state.RequestHardReset()
	if err := state.ResolveConfirmation(true); err != nil {
		t.Fatalf("accept: %v", err)
	}
	if state.Phase() != PhaseSetup {
		t.Fatalf("expected setup phase, got %s", state.Phase())
	}
	if state.Total() != 0 {
		t.Fatalf("expected empty registry, got %d", state.Total())
	}
	if state.SecretID() != "" {
		t.Fatalf("expected secret cleared")
	}
	if err := state.ResolveConfirmation(true); !errors.Is(err, ErrNoConfirmation) {
		t.Fatalf("expected ErrNoConfirmation, got %v", err)
	}
}

func TestIntakeSubmissionsBecomeCharactersInOrder(t *testing.T) {
	state := NewState()
	if _, err := state.Enqueue(SourcePaste, pngs("h1", "h2", "h3")); err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	if _, _, err := state.SubmitName("", "id-0"); !errors.Is(err, ErrEmptyName) {
		t.Fatalf("expected ErrEmptyName, got %v", err)
	}
	if state.Total() != 0 || len(state.IntakeQueue()) != 3 {
		t.Fatalf("expected empty name to change nothing")
	}
	names := []string{"Ada", " Grace ", "Linus"}
	for i, name := range names {
		if _, added, err := state.SubmitName(name, fmt.Sprintf("id-%d", i)); err != nil || !added {
			t.Fatalf("submit %q: added=%v err=%v", name, added, err)
		}
	}
	got := state.Characters()
	if len(got) != 3 {
		t.Fatalf("expected 3 characters, got %d", len(got))
	}
	want := []struct{ name, handle string }{{"Ada", "h1"}, {"Grace", "h2"}, {"Linus", "h3"}}
	for i, w := range want {
		if got[i].Name != w.name || !got[i].Image.IsLocal() || got[i].Image.Handle() != w.handle {
			t.Fatalf("unexpected character %d: %#v", i, got[i])
		}
	}
}

func TestAddCharacterRejectsFullBoard(t *testing.T) {
	state := setupState(t, MaxCharacters)
	if err := state.AddCharacter(namedCharacter("extra")); !errors.Is(err, ErrBoardFull) {
		t.Fatalf("expected ErrBoardFull, got %v", err)
	}
	if state.Total() != MaxCharacters {
		t.Fatalf("expected %d characters, got %d", MaxCharacters, state.Total())
	}
}

func TestIntakeDropsWhenFull(t *testing.T) {
	state := setupState(t, MaxCharacters)
	_, _ = state.Enqueue(SourcePaste, pngs("extra"))
	_, added, err := state.SubmitName("Late", "late")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if added {
		t.Fatalf("expected item dropped on a full board")
	}
	if len(state.IntakeQueue()) != 0 {
		t.Fatalf("expected queue to advance")
	}
	released := state.DrainReleased()
	if len(released) != 1 || released[0] != "extra" {
		t.Fatalf("expected dropped handle released, got %#v", released)
	}
}

func TestReleasedHandlesTrackLocalImages(t *testing.T) {
	state := NewState()
	_, _ = state.Enqueue(SourcePaste, pngs("h1", "h2"))
	_, _, _ = state.SubmitName("One", "one")
	_, _, _ = state.SubmitName("Two", "two")
	_ = state.AddCharacter(namedCharacter("remote"))
	_ = state.RemoveCharacter("one")
	if got := state.DrainReleased(); len(got) != 1 || got[0] != "h1" {
		t.Fatalf("expected h1 released, got %#v", got)
	}
	_ = state.Clear()
	if got := state.DrainReleased(); len(got) != 1 || got[0] != "h2" {
		t.Fatalf("expected only the local h2 released on clear, got %#v", got)
	}
}

func TestLoadCharactersReplacesBoard(t *testing.T) {
	state := setupState(t, 10)
	loaded := make([]Character, 0, 5)
	for i := 0; i < 5; i++ {
		loaded = append(loaded, namedCharacter(fmt.Sprintf("p-%d", i)))
	}
	if err := state.LoadCharacters(loaded); err != nil {
		t.Fatalf("load: %v", err)
	}
	if state.Total() != 5 || state.Remaining() != 5 {
		t.Fatalf("expected 5 fresh characters, got %d/%d", state.Total(), state.Remaining())
	}
}

func TestEditingOnlyDuringSetup(t *testing.T) {
	state := playingState(t, 2)
	if err := state.Clear(); !errors.Is(err, ErrWrongPhase) {
		t.Fatalf("expected clear rejected while playing, got %v", err)
	}
	if _, err := state.FillToCapacity(Placeholders(1, sequentialIDs("x"))); !errors.Is(err, ErrWrongPhase) {
		t.Fatalf("expected fill rejected while playing, got %v", err)
	}
	if _, err := state.Enqueue(SourcePaste, pngs("late")); !errors.Is(err, ErrWrongPhase) {
		t.Fatalf("expected enqueue rejected while playing, got %v", err)
	}
	if got := state.DrainReleased(); len(got) != 1 || got[0] != "late" {
		t.Fatalf("expected rejected upload released, got %#v", got)
	}
}
