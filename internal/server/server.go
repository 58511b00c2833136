package server

import (
	"net/http"

	"guess-who/internal/config"
	"guess-who/internal/presets"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type Deps struct {
	Config config.Config
	// DB backs browser sessions; nil keeps them in memory.
	DB *gorm.DB
	// Presets is nil when no preset storage is configured.
	Presets *presets.Service
}

type Server struct {
	store    *Store
	ws       *wsHub
	cfg      config.Config
	sessions *sessionStore
	presets  *presets.Service
}

func New(deps Deps) *Server {
	return &Server{
		store:    NewStore(),
		ws:       newWSHub(),
		cfg:      deps.Config,
		sessions: newSessionStore(deps.DB),
		presets:  deps.Presets,
	}
}

func (s *Server) Handler() http.Handler {
	registerValidators()

	router := gin.New()
	router.Use(gin.Recovery(), accessLog())
	if len(s.cfg.CORSOrigins) > 0 {
		router.Use(corsMiddleware(s.cfg.CORSOrigins))
	}

	router.GET("/", s.handleHome)
	router.GET("/boards/:boardID", s.handleBoardView)

	router.GET("/api/presets", s.handleListPresets)
	router.POST("/api/boards", s.handleCreateBoard)

	api := router.Group("/api/boards/:boardID")
	api.GET("", s.handleGetBoard)
	api.DELETE("", s.handleDeleteBoard)

	api.POST("/intake", s.handleEnqueue)
	api.PUT("/intake/draft", s.handleSetDraft)
	api.POST("/intake/name", s.handleSubmitName)
	api.POST("/intake/cancel", s.handleCancelIntake)
	api.GET("/intake/current", s.handleCurrentIntakeImage)
	api.GET("/images/:handle", s.handleImage)

	api.DELETE("/characters/:characterID", s.handleRemoveCharacter)
	api.POST("/fill", s.handleFill)
	api.POST("/clear", s.handleClear)
	api.POST("/start", s.handleStart)

	api.POST("/cards/:characterID/click", s.handleClickCard)
	api.POST("/secret/confirm", s.handleConfirmSecret)
	api.POST("/reset/soft", s.handleSoftReset)
	api.POST("/reset/hard", s.handleHardReset)
	api.POST("/confirmation", s.handleConfirmation)

	api.POST("/presets", s.handleSavePreset)
	api.POST("/presets/:presetID/load", s.handleLoadPreset)

	api.GET("/share.png", s.handleShareQR)
	router.GET("/ws/boards/:boardID", s.handleWebsocket)

	return router
}

// mutate applies update to a board and answers with, and broadcasts, the
// resulting snapshot. extra fields are merged into the response.
func (s *Server) mutate(c *gin.Context, update func(b *Board) (gin.H, error)) {
	boardID := c.Param("boardID")
	var extra gin.H
	var snap map[string]any
	err := s.store.UpdateBoard(boardID, func(b *Board) error {
		var err error
		extra, err = update(b)
		if err != nil {
			return err
		}
		snap = snapshot(b)
		return nil
	})
	if err != nil {
		writeStateError(c, err)
		return
	}
	s.broadcastBoard(boardID, snap)
	resp := gin.H{"board": snap}
	for key, value := range extra {
		resp[key] = value
	}
	writeJSON(c, http.StatusOK, resp)
}
