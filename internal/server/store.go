package server

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

var ErrBoardNotFound = errors.New("board not found")

type Store struct {
	mu     sync.Mutex
	boards map[string]*Board
}

func NewStore() *Store {
	return &Store{
		boards: make(map[string]*Board),
	}
}

func (s *Store) CreateBoard() *Board {
	s.mu.Lock()
	defer s.mu.Unlock()

	b := newBoard(uuid.NewString(), timeNowUTC())
	s.boards[b.ID] = b
	return b
}

func (s *Store) Exists(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.boards[id]
	return ok
}

// UpdateBoard runs update with exclusive access to the board. Image bytes
// whose references were dropped by the update are freed afterwards, even
// when update fails.
func (s *Store) UpdateBoard(id string, update func(b *Board) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.boards[id]
	if !ok {
		return ErrBoardNotFound
	}
	err := update(b)
	b.freeReleased()
	return err
}

// ViewBoard runs view with exclusive access to the board. view must not
// mutate it.
func (s *Store) ViewBoard(id string, view func(b *Board)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.boards[id]
	if !ok {
		return ErrBoardNotFound
	}
	view(b)
	return nil
}

func (s *Store) DeleteBoard(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.boards[id]
	if !ok {
		return false
	}
	b.State.Release()
	b.images = nil
	delete(s.boards, id)
	return true
}

func timeNowUTC() time.Time {
	return time.Now().UTC()
}
