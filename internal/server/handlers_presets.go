package server

import (
	"errors"
	"fmt"
	"net/http"

	"guess-who/internal/board"
	"guess-who/internal/presets"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type savePresetRequest struct {
	Name string `json:"name" binding:"required,preset_name"`
}

type presetURI struct {
	BoardID  string `uri:"boardID" binding:"required"`
	PresetID string `uri:"presetID" binding:"required"`
}

func (s *Server) handleListPresets(c *gin.Context) {
	list := []presets.Preset{}
	if s.presets != nil {
		list = s.presets.ListPresets(c.Request.Context())
	}
	writeJSON(c, http.StatusOK, gin.H{"presets": list})
}

func (s *Server) handleSavePreset(c *gin.Context) {
	var req savePresetRequest
	if !bindJSON(c, &req, bindMessages{
		"Name": {
			"required":    "preset name is required",
			"preset_name": fmt.Sprintf("preset name must be 1-%d characters", maxPresetNameLength),
		},
	}, "invalid preset") {
		return
	}
	if s.presets == nil {
		writeError(c, http.StatusServiceUnavailable, "preset storage not configured")
		return
	}
	boardID := c.Param("boardID")
	var characters []board.Character
	var images imageSet
	if err := s.store.ViewBoard(boardID, func(b *Board) {
		characters = b.State.Characters()
		images = b.imagesFor(characters)
	}); err != nil {
		writeStateError(c, err)
		return
	}

	base := s.baseURL(c)
	result, err := s.presets.SaveBoard(c.Request.Context(), presets.SaveRequest{
		Name:       normalizeText(req.Name),
		Characters: characters,
		Blobs:      images,
		LocalURL: func(handle string) string {
			return base + imagePath(boardID, handle)
		},
	})
	if err != nil {
		status := statusFor(err)
		message := err.Error()
		if status == http.StatusBadGateway || status == http.StatusInternalServerError {
			status = http.StatusBadGateway
			message = "failed to save board"
		}
		writeError(c, status, message)
		return
	}
	writeJSON(c, http.StatusCreated, result)
}

func (s *Server) handleLoadPreset(c *gin.Context) {
	var uri presetURI
	if !bindURI(c, &uri) {
		return
	}
	if s.presets == nil {
		writeError(c, http.StatusServiceUnavailable, "preset storage not configured")
		return
	}
	var phase board.Phase
	if err := s.store.ViewBoard(uri.BoardID, func(b *Board) {
		phase = b.State.Phase()
	}); err != nil {
		writeStateError(c, err)
		return
	}
	if phase != board.PhaseSetup {
		writeStateError(c, board.ErrWrongPhase)
		return
	}

	characters, err := s.presets.FetchBoard(c.Request.Context(), uri.PresetID)
	if err != nil {
		if errors.Is(err, presets.ErrPresetNotFound) {
			writeError(c, http.StatusNotFound, err.Error())
			return
		}
		writeError(c, http.StatusBadGateway, "failed to load preset")
		return
	}
	if len(characters) > board.MaxCharacters {
		characters = characters[:board.MaxCharacters]
	}

	s.mutate(c, func(b *Board) (gin.H, error) {
		if err := b.State.LoadCharacters(characters); err != nil {
			return nil, err
		}
		zap.L().Info("preset loaded",
			zap.String("board_id", b.ID),
			zap.String("preset_id", uri.PresetID),
			zap.Int("characters", len(characters)),
		)
		return gin.H{"loaded": len(characters)}, nil
	})
}
