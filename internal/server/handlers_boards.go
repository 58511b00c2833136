package server

import (
	"errors"
	"net/http"

	"guess-who/internal/board"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type characterURI struct {
	BoardID     string `uri:"boardID" binding:"required"`
	CharacterID string `uri:"characterID" binding:"required"`
}

type confirmationRequest struct {
	Accept *bool `json:"accept" binding:"required"`
}

func (s *Server) handleCreateBoard(c *gin.Context) {
	b := s.store.CreateBoard()
	var snap map[string]any
	_ = s.store.ViewBoard(b.ID, func(b *Board) {
		snap = snapshot(b)
	})
	s.sessions.RememberBoard(c, b.ID)
	zap.L().Info("board created", zap.String("board_id", b.ID))
	writeJSON(c, http.StatusCreated, gin.H{
		"board_id": b.ID,
		"url":      "/boards/" + b.ID,
		"board":    snap,
	})
}

func (s *Server) handleGetBoard(c *gin.Context) {
	snap, err := s.boardSnapshot(c.Param("boardID"))
	if err != nil {
		writeStateError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"board": snap})
}

func (s *Server) handleDeleteBoard(c *gin.Context) {
	boardID := c.Param("boardID")
	if !s.store.DeleteBoard(boardID) {
		writeError(c, http.StatusNotFound, ErrBoardNotFound.Error())
		return
	}
	s.ws.Broadcast(boardID, gin.H{"type": "deleted", "board_id": boardID})
	s.ws.CloseBoard(boardID)
	zap.L().Info("board deleted", zap.String("board_id", boardID))
	writeJSON(c, http.StatusOK, gin.H{"deleted": true})
}

func (s *Server) handleImage(c *gin.Context) {
	boardID := c.Param("boardID")
	handle := c.Param("handle")
	var img storedImage
	found := false
	if err := s.store.ViewBoard(boardID, func(b *Board) {
		img, found = b.image(handle)
	}); err != nil {
		writeStateError(c, err)
		return
	}
	if !found {
		writeError(c, http.StatusNotFound, "image not found")
		return
	}
	c.Header("Cache-Control", "private, max-age=3600")
	c.Data(http.StatusOK, img.contentType, img.data)
}

func (s *Server) handleRemoveCharacter(c *gin.Context) {
	var uri characterURI
	if !bindURI(c, &uri) {
		return
	}
	s.mutate(c, func(b *Board) (gin.H, error) {
		return nil, b.State.RemoveCharacter(uri.CharacterID)
	})
}

func (s *Server) handleFill(c *gin.Context) {
	s.mutate(c, func(b *Board) (gin.H, error) {
		added, err := b.State.FillToCapacity(b.placeholders())
		if err != nil {
			return nil, err
		}
		return gin.H{"added": added}, nil
	})
}

func (s *Server) handleClear(c *gin.Context) {
	s.mutate(c, func(b *Board) (gin.H, error) {
		return nil, b.State.Clear()
	})
}

func (s *Server) handleStart(c *gin.Context) {
	s.mutate(c, func(b *Board) (gin.H, error) {
		if err := b.State.FinishSetup(); err != nil {
			return nil, err
		}
		zap.L().Info("setup finished", zap.String("board_id", b.ID), zap.Int("characters", b.State.Total()))
		return nil, nil
	})
}

func (s *Server) handleClickCard(c *gin.Context) {
	var uri characterURI
	if !bindURI(c, &uri) {
		return
	}
	s.mutate(c, func(b *Board) (gin.H, error) {
		return nil, b.State.ClickCard(uri.CharacterID)
	})
}

func (s *Server) handleConfirmSecret(c *gin.Context) {
	s.mutate(c, func(b *Board) (gin.H, error) {
		err := b.State.ConfirmSecret()
		if errors.Is(err, board.ErrNoSecret) {
			// Confirming without a pick leaves the board as it was.
			return gin.H{"confirmed": false}, nil
		}
		if err != nil {
			return nil, err
		}
		return gin.H{"confirmed": true}, nil
	})
}

func (s *Server) handleSoftReset(c *gin.Context) {
	s.mutate(c, func(b *Board) (gin.H, error) {
		return nil, b.State.SoftReset()
	})
}

func (s *Server) handleHardReset(c *gin.Context) {
	s.mutate(c, func(b *Board) (gin.H, error) {
		return nil, b.State.RequestHardReset()
	})
}

func (s *Server) handleConfirmation(c *gin.Context) {
	var req confirmationRequest
	if !bindJSON(c, &req, bindMessages{
		"Accept": {"required": "accept is required"},
	}, "invalid confirmation") {
		return
	}
	s.mutate(c, func(b *Board) (gin.H, error) {
		pending := b.State.PendingConfirmation()
		if err := b.State.ResolveConfirmation(*req.Accept); err != nil {
			return nil, err
		}
		if pending == board.ConfirmHardReset && *req.Accept {
			zap.L().Info("board reset", zap.String("board_id", b.ID))
		}
		return gin.H{"accepted": *req.Accept}, nil
	})
}
