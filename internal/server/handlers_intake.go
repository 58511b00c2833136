package server

import (
	"fmt"
	"net/http"

	"guess-who/internal/board"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type enqueueRequest struct {
	Source string   `json:"source" binding:"required,oneof=picker paste"`
	Images []string `json:"images" binding:"required,min=1"`
}

type draftRequest struct {
	Draft string `json:"draft"`
}

type nameRequest struct {
	Name string `json:"name" binding:"required,name"`
}

func (s *Server) handleEnqueue(c *gin.Context) {
	var req enqueueRequest
	if !bindJSON(c, &req, bindMessages{
		"Source": {
			"required": "source is required",
			"oneof":    "source must be picker or paste",
		},
		"Images": {
			"required": "images are required",
			"min":      "images are required",
		},
	}, "invalid intake request") {
		return
	}
	if len(req.Images) > maxImagesPerBatch {
		writeError(c, http.StatusBadRequest, fmt.Sprintf("at most %d images per batch", maxImagesPerBatch))
		return
	}
	source, _ := board.ParseSource(req.Source)

	type decodedImage struct {
		data        []byte
		contentType string
	}
	decoded := make([]decodedImage, 0, len(req.Images))
	for _, raw := range req.Images {
		data, contentType, err := decodeImageData(raw, s.cfg.MaxImageBytes)
		if err != nil {
			zap.L().Debug("image skipped", zap.String("board_id", c.Param("boardID")), zap.Error(err))
			continue
		}
		decoded = append(decoded, decodedImage{data: data, contentType: contentType})
	}

	s.mutate(c, func(b *Board) (gin.H, error) {
		pending := make([]board.PendingImage, 0, len(decoded))
		for _, img := range decoded {
			pending = append(pending, b.storeImage(img.data, img.contentType))
		}
		accepted, err := b.State.Enqueue(source, pending)
		if err != nil {
			return nil, err
		}
		return gin.H{
			"accepted": accepted,
			"rejected": len(req.Images) - accepted,
		}, nil
	})
}

func (s *Server) handleSetDraft(c *gin.Context) {
	var req draftRequest
	if !bindJSON(c, &req, nil, "invalid draft") {
		return
	}
	if len([]rune(req.Draft)) > maxDraftLength {
		writeError(c, http.StatusBadRequest, fmt.Sprintf("draft must be %d characters or fewer", maxDraftLength))
		return
	}
	s.mutate(c, func(b *Board) (gin.H, error) {
		return nil, b.State.SetDraft(req.Draft)
	})
}

func (s *Server) handleSubmitName(c *gin.Context) {
	var req nameRequest
	if !bindJSON(c, &req, bindMessages{
		"Name": {
			"required": "name is required",
			"name":     fmt.Sprintf("name must be 1-%d characters", maxNameLength),
		},
	}, "invalid name") {
		return
	}
	name := normalizeText(req.Name)
	s.mutate(c, func(b *Board) (gin.H, error) {
		character, added, err := b.State.SubmitName(name, uuid.NewString())
		if err != nil {
			return nil, err
		}
		if !added {
			zap.L().Info("image dropped, board full", zap.String("board_id", b.ID))
			return gin.H{"added": false}, nil
		}
		return gin.H{"added": true, "character": characterPayload(b.ID, character)}, nil
	})
}

func (s *Server) handleCancelIntake(c *gin.Context) {
	s.mutate(c, func(b *Board) (gin.H, error) {
		discarded, err := b.State.CancelIntake()
		if err != nil {
			return nil, err
		}
		return gin.H{"discarded": discarded}, nil
	})
}

func (s *Server) handleCurrentIntakeImage(c *gin.Context) {
	var img storedImage
	found := false
	if err := s.store.ViewBoard(c.Param("boardID"), func(b *Board) {
		if current, ok := b.State.IntakeCurrent(); ok {
			img, found = b.image(current.Handle)
		}
	}); err != nil {
		writeStateError(c, err)
		return
	}
	if !found {
		writeError(c, http.StatusNotFound, board.ErrNoPendingImage.Error())
		return
	}
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, img.contentType, img.data)
}
