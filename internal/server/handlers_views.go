package server

import (
	"net/http"

	"guess-who/internal/web"

	"github.com/a-h/templ"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func (s *Server) handleHome(c *gin.Context) {
	data := web.HomeData{}
	if boardID := s.sessions.LastBoard(c); boardID != "" && s.store.Exists(boardID) {
		data.ResumeBoardID = boardID
	}
	if s.presets != nil {
		for _, preset := range s.presets.ListPresets(c.Request.Context()) {
			data.Presets = append(data.Presets, web.PresetItem{
				ID:        preset.ID,
				Name:      preset.Name,
				CreatedAt: preset.CreatedAt,
			})
		}
	}
	templ.Handler(web.Home(data)).ServeHTTP(c.Writer, c.Request)
}

func (s *Server) handleBoardView(c *gin.Context) {
	boardID := c.Param("boardID")
	if !s.store.Exists(boardID) {
		zap.L().Info("board view missing", zap.String("board_id", boardID))
		c.Redirect(http.StatusFound, "/")
		return
	}
	s.sessions.RememberBoard(c, boardID)
	templ.Handler(web.BoardView(boardID)).ServeHTTP(c.Writer, c.Request)
}
