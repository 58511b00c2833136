package server

import (
	"crypto/rand"
	"fmt"
	"net/http"
	"sync"
	"time"

	"guess-who/internal/db"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const sessionCookie = "gw_session"

// sessionStore remembers the board a browser last worked on.
type sessionStore struct {
	db       *gorm.DB
	mu       sync.Mutex
	sessions map[string]string
}

func newSessionStore(conn *gorm.DB) *sessionStore {
	return &sessionStore{
		db:       conn,
		sessions: make(map[string]string),
	}
}

func (s *sessionStore) RememberBoard(c *gin.Context, boardID string) {
	id := s.ensureSessionID(c)
	if s.db == nil {
		s.mu.Lock()
		s.sessions[id] = boardID
		s.mu.Unlock()
		return
	}
	record := db.Session{
		ID:      id,
		BoardID: boardID,
	}
	err := s.db.WithContext(c.Request.Context()).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"board_id", "updated_at"}),
	}).Create(&record).Error
	if err != nil {
		zap.L().Warn("save session failed", zap.String("board_id", boardID), zap.Error(err))
	}
}

func (s *sessionStore) LastBoard(c *gin.Context) string {
	cookie, err := c.Request.Cookie(sessionCookie)
	if err != nil || cookie.Value == "" {
		return ""
	}
	if s.db == nil {
		s.mu.Lock()
		defer s.mu.Unlock()
		return s.sessions[cookie.Value]
	}
	var record db.Session
	if err := s.db.WithContext(c.Request.Context()).Where("id = ?", cookie.Value).First(&record).Error; err != nil {
		return ""
	}
	return record.BoardID
}

func (s *sessionStore) ensureSessionID(c *gin.Context) string {
	cookie, err := c.Request.Cookie(sessionCookie)
	if err == nil && cookie.Value != "" {
		return cookie.Value
	}
	id := newSessionID()
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     sessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

func newSessionID() string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return fmt.Sprintf("sess-%d", time.Now().UnixNano())
	}
	return fmt.Sprintf("%x", buf)
}
