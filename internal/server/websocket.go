package server

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// wsWriteWait bounds a single message write to one viewer.
var wsWriteWait = 5 * time.Second

type wsClient struct {
	conn *websocket.Conn
	// mu allows one writer at a time on conn.
	mu sync.Mutex
}

func (c *wsClient) write(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

type wsHub struct {
	mu     sync.Mutex
	groups map[string]map[*websocket.Conn]*wsClient
}

func newWSHub() *wsHub {
	return &wsHub{
		groups: make(map[string]map[*websocket.Conn]*wsClient),
	}
}

func (h *wsHub) Add(boardID string, conn *websocket.Conn) *wsClient {
	h.mu.Lock()
	defer h.mu.Unlock()
	group := h.groups[boardID]
	if group == nil {
		group = make(map[*websocket.Conn]*wsClient)
		h.groups[boardID] = group
	}
	client := &wsClient{conn: conn}
	group[conn] = client
	return client
}

func (h *wsHub) Remove(boardID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	_ = conn.Close()
	group := h.groups[boardID]
	if group == nil {
		return
	}
	delete(group, conn)
	if len(group) == 0 {
		delete(h.groups, boardID)
	}
}

// CloseBoard disconnects every viewer of a board.
func (h *wsHub) CloseBoard(boardID string) {
	h.mu.Lock()
	group := h.groups[boardID]
	delete(h.groups, boardID)
	h.mu.Unlock()
	for conn := range group {
		_ = conn.Close()
	}
}

func (h *wsHub) Send(client *wsClient, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	_ = client.write(data)
}

// Broadcast writes payload to every viewer of a board in parallel and
// returns once each write finished or timed out. Viewers that fail are
// dropped.
func (h *wsHub) Broadcast(boardID string, payload any) {
	h.mu.Lock()
	group := h.groups[boardID]
	clients := make([]*wsClient, 0, len(group))
	for _, client := range group {
		clients = append(clients, client)
	}
	h.mu.Unlock()
	if len(clients) == 0 {
		return
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	var wg sync.WaitGroup
	for _, client := range clients {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := client.write(data); err != nil {
				zap.L().Debug("ws write failed", zap.String("board_id", boardID), zap.Error(err))
				h.Remove(boardID, client.conn)
			}
		}()
	}
	wg.Wait()
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

func (s *Server) handleWebsocket(c *gin.Context) {
	boardID := c.Param("boardID")
	snap, err := s.boardSnapshot(boardID)
	if err != nil {
		writeStateError(c, err)
		return
	}
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	zap.L().Debug("ws connected", zap.String("board_id", boardID), zap.String("remote", c.Request.RemoteAddr))
	client := s.ws.Add(boardID, conn)
	s.ws.Send(client, snapshotMessage(snap))
	go s.readWS(boardID, conn)
}

func (s *Server) readWS(boardID string, conn *websocket.Conn) {
	defer s.ws.Remove(boardID, conn)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			zap.L().Debug("ws disconnected", zap.String("board_id", boardID), zap.Error(err))
			return
		}
	}
}

func snapshotMessage(snap map[string]any) map[string]any {
	return map[string]any{
		"type":  "snapshot",
		"board": snap,
	}
}

func (s *Server) broadcastBoard(boardID string, snap map[string]any) {
	if s.ws == nil || snap == nil {
		return
	}
	s.ws.Broadcast(boardID, snapshotMessage(snap))
}
