package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"oracle-bets-backend/internal/ledger"
	"oracle-bets-backend/internal/models"
	"oracle-bets-backend/pkg/logger"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WebSocketHandler pushes ledger lifecycle events to connected accounts.
// It implements ledger.Broadcaster.
type WebSocketHandler struct {
	ledger *ledger.Service
	hub    *WebSocketHub
}

type WebSocketHub struct {
	clients    map[string]*websocket.Conn
	register   chan *Client
	unregister chan *Client
	broadcast  chan *Message
}

type Client struct {
	AccountID string
	Conn      *websocket.Conn
}

type Message struct {
	Type      string      `json:"type"`
	AccountID string      `json:"account_id,omitempty"`
	GameID    string      `json:"game_id,omitempty"`
	Data      interface{} `json:"data"`
}

func NewWebSocketHandler(ledgerService *ledger.Service) *WebSocketHandler {
	hub := &WebSocketHub{
		clients:    make(map[string]*websocket.Conn),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *Message, 100),
	}

	go hub.run()

	return &WebSocketHandler{
		ledger: ledgerService,
		hub:    hub,
	}
}

func (h *WebSocketHandler) HandleWebSocket(c *gin.Context) {
	accountID := c.GetString("account_id")

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	client := &Client{
		AccountID: accountID,
		Conn:      conn,
	}

	h.hub.register <- client

	defer func() {
		h.hub.unregister <- client
		conn.Close()
	}()

	h.sendStats(client)

	for {
		var msg Message
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Warn().Err(err).Str("account", accountID).Msg("websocket read error")
			}
			break
		}

		if msg.Type == "PING" {
			client.Conn.WriteJSON(Message{
				Type: "PONG",
				Data: gin.H{"timestamp": time.Now().Unix()},
			})
		}
	}
}

// sendStats pushes the account's current ledger snapshot on connect.
func (h *WebSocketHandler) sendStats(client *Client) {
	stats, err := h.ledger.UserStats(context.Background(), client.AccountID)
	if err != nil || stats == nil {
		return
	}

	client.Conn.WriteJSON(Message{
		Type:      "STATS_SNAPSHOT",
		AccountID: client.AccountID,
		Data:      stats,
	})
}

func (hub *WebSocketHub) run() {
	for {
		select {
		case client := <-hub.register:
			hub.clients[client.AccountID] = client.Conn

		case client := <-hub.unregister:
			if _, ok := hub.clients[client.AccountID]; ok {
				delete(hub.clients, client.AccountID)
			}

		case message := <-hub.broadcast:
			hub.send(message)
		}
	}
}

func (hub *WebSocketHub) send(message *Message) {
	if message.AccountID != "" {
		if conn, ok := hub.clients[message.AccountID]; ok {
			conn.WriteJSON(message)
		}
		return
	}
	for _, conn := range hub.clients {
		conn.WriteJSON(message)
	}
}

// ---- ledger.Broadcaster ----

func (h *WebSocketHandler) GameStarted(game *models.Game) {
	h.hub.broadcast <- &Message{
		Type:      "GAME_STARTED",
		AccountID: game.Player,
		GameID:    game.ID,
		Data:      game,
	}
}

func (h *WebSocketHandler) GameResolved(game *models.Game, winnings string) {
	h.hub.broadcast <- &Message{
		Type:      "GAME_RESOLVED",
		AccountID: game.Player,
		GameID:    game.ID,
		Data: gin.H{
			"game":     game,
			"winnings": winnings,
		},
	}
}

func (h *WebSocketHandler) BalanceWithdrawn(receipt *models.WithdrawReceipt) {
	h.hub.broadcast <- &Message{
		Type:      "WITHDRAWAL",
		AccountID: receipt.AccountID,
		Data:      receipt,
	}
}
