package board

import "fmt"

// MaxCharacters is the hard cap on board size.
const MaxCharacters = 24

// PlaceholderFunc builds the placeholder for the given 0-based slot.
type PlaceholderFunc func(slot int) Character

type Registry struct {
	characters []Character
}

func NewRegistry() *Registry {
	return &Registry{}
}

func (r *Registry) Len() int {
	return len(r.characters)
}

func (r *Registry) Full() bool {
	return len(r.characters) >= MaxCharacters
}

// Characters returns a copy in insertion order.
func (r *Registry) Characters() []Character {
	out := make([]Character, len(r.characters))
	copy(out, r.characters)
	return out
}

func (r *Registry) Find(id string) (Character, bool) {
	for _, c := range r.characters {
		if c.ID == id {
			return c, true
		}
	}
	return Character{}, false
}

func (r *Registry) Add(c Character) bool {
	if r.Full() {
		return false
	}
	if _, exists := r.Find(c.ID); exists {
		return false
	}
	r.characters = append(r.characters, c)
	return true
}

func (r *Registry) Remove(id string) (Character, bool) {
	for i, c := range r.characters {
		if c.ID == id {
			r.characters = append(r.characters[:i], r.characters[i+1:]...)
			return c, true
		}
	}
	return Character{}, false
}

func (r *Registry) Clear() []Character {
	removed := r.characters
	r.characters = nil
	return removed
}

// Replace swaps the whole board for the given characters. Eliminations are
// cleared, duplicate ids dropped and the list truncated to capacity. The
// previous entries are returned.
func (r *Registry) Replace(characters []Character) []Character {
	removed := r.Clear()
	for _, c := range characters {
		c.Eliminated = false
		r.Add(c)
	}
	return removed
}

func (r *Registry) FillToCapacity(gen PlaceholderFunc) []Character {
	var added []Character
	for slot := len(r.characters); slot < MaxCharacters; slot++ {
		c := gen(slot)
		if !r.Add(c) {
			break
		}
		added = append(added, c)
	}
	return added
}

func (r *Registry) ToggleEliminated(id string) bool {
	for i := range r.characters {
		if r.characters[i].ID == id {
			r.characters[i].Eliminated = !r.characters[i].Eliminated
			return true
		}
	}
	return false
}

func (r *Registry) ResetEliminations() {
	for i := range r.characters {
		r.characters[i].Eliminated = false
	}
}

func (r *Registry) RemainingCount() int {
	count := 0
	for _, c := range r.characters {
		if !c.Eliminated {
			count++
		}
	}
	return count
}

func (r *Registry) EliminatedCount() int {
	return len(r.characters) - r.RemainingCount()
}

// Placeholders returns a PlaceholderFunc numbering people by slot and
// pointing at seeded stock portraits. newID mints character ids.
func Placeholders(seed int64, newID func() string) PlaceholderFunc {
	return func(slot int) Character {
		return Character{
			ID:    newID(),
			Name:  fmt.Sprintf("Person %d", slot+1),
			Image: RemoteImage(fmt.Sprintf("https://picsum.photos/seed/%d/300/400", seed+int64(slot))),
		}
	}
}
