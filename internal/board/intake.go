package board

import (
	"strings"
)

type Source string

const (
	SourcePicker Source = "picker"
	SourcePaste  Source = "paste"
)

func ParseSource(raw string) (Source, bool) {
	switch Source(strings.ToLower(strings.TrimSpace(raw))) {
	case SourcePicker:
		return SourcePicker, true
	case SourcePaste:
		return SourcePaste, true
	}
	return "", false
}

// PendingImage is a queued photo waiting for a name. Handle identifies the
// bytes held by the caller.
type PendingImage struct {
	Handle      string
	ContentType string
}

// Intake is the serial "who is this?" naming queue.
type Intake struct {
	queue []PendingImage
	draft string
}

func (in *Intake) Len() int {
	return len(in.queue)
}

func (in *Intake) Active() bool {
	return len(in.queue) > 0
}

func (in *Intake) Current() (PendingImage, bool) {
	if len(in.queue) == 0 {
		return PendingImage{}, false
	}
	return in.queue[0], true
}

func (in *Intake) Pending() []PendingImage {
	out := make([]PendingImage, len(in.queue))
	copy(out, in.queue)
	return out
}

func (in *Intake) Draft() string {
	return in.draft
}

func (in *Intake) SetDraft(name string) {
	in.draft = name
}

// Enqueue adds a batch of images. Non-image content types are ignored and
// returned in rejected together with anything displaced from the queue, so
// the caller can release their bytes. A picker batch replaces the queue; a
// paste appends to an open session or starts a fresh one.
func (in *Intake) Enqueue(source Source, images []PendingImage) (accepted int, released []PendingImage) {
	batch := make([]PendingImage, 0, len(images))
	for _, img := range images {
		if !IsImageType(img.ContentType) {
			released = append(released, img)
			continue
		}
		batch = append(batch, img)
	}
	if len(batch) == 0 {
		return 0, released
	}
	switch source {
	case SourcePicker:
		released = append(released, in.queue...)
		in.queue = batch
		in.draft = ""
	default:
		if len(in.queue) == 0 {
			in.draft = ""
		}
		in.queue = append(in.queue, batch...)
	}
	return len(batch), released
}

// Submit pops the current item when name is non-empty.
func (in *Intake) Submit(name string) (PendingImage, string, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return PendingImage{}, "", ErrEmptyName
	}
	if len(in.queue) == 0 {
		return PendingImage{}, "", ErrNoPendingImage
	}
	head := in.queue[0]
	in.queue = in.queue[1:]
	in.draft = ""
	return head, trimmed, nil
}

// Cancel drops every queued item and returns them.
func (in *Intake) Cancel() []PendingImage {
	dropped := in.queue
	in.queue = nil
	in.draft = ""
	return dropped
}

func IsImageType(contentType string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(contentType)), "image/")
}
