package server

import (
	"guess-who/internal/board"
)

func imagePath(boardID, handle string) string {
	return "/api/boards/" + boardID + "/images/" + handle
}

func imageURL(boardID string, ref board.ImageRef) string {
	if ref.IsLocal() {
		return imagePath(boardID, ref.Handle())
	}
	return ref.URL()
}

func characterPayload(boardID string, c board.Character) map[string]any {
	return map[string]any{
		"id":         c.ID,
		"name":       c.Name,
		"image_url":  imageURL(boardID, c.Image),
		"local":      c.Image.IsLocal(),
		"eliminated": c.Eliminated,
	}
}

func snapshot(b *Board) map[string]any {
	state := b.State
	characters := make([]map[string]any, 0, state.Total())
	for _, c := range state.Characters() {
		characters = append(characters, characterPayload(b.ID, c))
	}

	var secret map[string]any
	if c, ok := state.Secret(); ok {
		secret = characterPayload(b.ID, c)
	}

	queue := state.IntakeQueue()
	intake := map[string]any{
		"pending": len(queue),
		"draft":   state.Draft(),
		"current": nil,
	}
	if current, ok := state.IntakeCurrent(); ok {
		intake["current"] = map[string]any{
			"handle":       current.Handle,
			"content_type": current.ContentType,
			"image_url":    imagePath(b.ID, current.Handle),
		}
	}

	phase := state.Phase()
	return map[string]any{
		"board_id":     b.ID,
		"phase":        string(phase),
		"characters":   characters,
		"capacity":     board.MaxCharacters,
		"total":        state.Total(),
		"remaining":    state.Remaining(),
		"eliminated":   state.Eliminated(),
		"full":         state.Total() >= board.MaxCharacters,
		"secret_id":    state.SecretID(),
		"secret":       secret,
		"intake":       intake,
		"confirmation": string(state.PendingConfirmation()),
		"can_start":    phase == board.PhaseSetup && state.Total() > 0 && len(queue) == 0,
		"can_confirm":  phase == board.PhaseSelectSecret && state.SecretID() != "",
	}
}

// boardSnapshot renders the current state of a board.
func (s *Server) boardSnapshot(boardID string) (map[string]any, error) {
	var snap map[string]any
	err := s.store.ViewBoard(boardID, func(b *Board) {
		snap = snapshot(b)
	})
	return snap, err
}
