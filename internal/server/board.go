package server

import (
	"math/rand/v2"
	"time"

	"guess-who/internal/board"

	"github.com/google/uuid"
)

// Board is one game board held by the server together with the bytes of
// every local image it references.
type Board struct {
	ID        string
	CreatedAt time.Time
	State     *board.State
	images    map[string]storedImage
	seed      int64
}

type storedImage struct {
	data        []byte
	contentType string
}

func newBoard(id string, now time.Time) *Board {
	return &Board{
		ID:        id,
		CreatedAt: now,
		State:     board.NewState(),
		images:    make(map[string]storedImage),
		seed:      rand.Int64N(1_000_000),
	}
}

func (b *Board) storeImage(data []byte, contentType string) board.PendingImage {
	handle := uuid.NewString()
	b.images[handle] = storedImage{data: data, contentType: contentType}
	return board.PendingImage{Handle: handle, ContentType: contentType}
}

func (b *Board) image(handle string) (storedImage, bool) {
	img, ok := b.images[handle]
	return img, ok
}

func (b *Board) freeReleased() int {
	released := b.State.DrainReleased()
	for _, handle := range released {
		delete(b.images, handle)
	}
	return len(released)
}

func (b *Board) placeholders() board.PlaceholderFunc {
	return board.Placeholders(b.seed, uuid.NewString)
}

// imagesFor copies the bytes behind the local images of characters so they
// can be read after the board lock is released.
func (b *Board) imagesFor(characters []board.Character) imageSet {
	set := make(imageSet)
	for _, c := range characters {
		if !c.Image.IsLocal() {
			continue
		}
		if img, ok := b.images[c.Image.Handle()]; ok {
			set[c.Image.Handle()] = img
		}
	}
	return set
}

type imageSet map[string]storedImage

func (s imageSet) Blob(handle string) ([]byte, string, bool) {
	img, ok := s[handle]
	return img.data, img.contentType, ok
}
