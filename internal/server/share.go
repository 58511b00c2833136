package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/skip2/go-qrcode"
	"go.uber.org/zap"
)

type shareQuery struct {
	Size int `form:"size" binding:"omitempty,min=64,max=1024"`
}

// baseURL is the configured public origin, or the one the request came in
// on.
func (s *Server) baseURL(c *gin.Context) string {
	if s.cfg.PublicBaseURL != "" {
		return s.cfg.PublicBaseURL
	}
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	if proto := c.GetHeader("X-Forwarded-Proto"); proto != "" {
		scheme = strings.TrimSpace(strings.Split(proto, ",")[0])
	}
	return scheme + "://" + c.Request.Host
}

func (s *Server) handleShareQR(c *gin.Context) {
	boardID := c.Param("boardID")
	if !s.store.Exists(boardID) {
		writeError(c, http.StatusNotFound, ErrBoardNotFound.Error())
		return
	}
	var query shareQuery
	if !bindQuery(c, &query) {
		return
	}
	size := query.Size
	if size == 0 {
		size = 320
	}
	url := s.baseURL(c) + "/boards/" + boardID
	png, err := qrcode.Encode(url, qrcode.Medium, size)
	if err != nil {
		zap.L().Error("qr generation failed", zap.String("board_id", boardID), zap.Error(err))
		writeError(c, http.StatusInternalServerError, "qr generation failed")
		return
	}
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "image/png", png)
}
