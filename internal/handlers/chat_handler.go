package handlers

import (
	"net/http"

	"smartcare-backend/internal/chat"
	"smartcare-backend/internal/logger"
	"smartcare-backend/internal/models"
	"smartcare-backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// ChatHandler melayani live chat mitra-admin
type ChatHandler struct {
	chat     *chat.Service
	hub      *chat.Hub
	upgrader websocket.Upgrader
}

func NewChatHandler(svc *chat.Service, hub *chat.Hub, allowedOrigins []string) *ChatHandler {
	return &ChatHandler{
		chat: svc,
		hub:  hub,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return originAllowed(allowedOrigins, r.Header.Get("Origin")) },
		},
	}
}

// room menentukan room dari token + query/body. Menulis response kalau ditolak.
func (h *ChatHandler) room(c *gin.Context, requested string) (string, bool) {
	userID, role := currentUser(c)
	room, err := chat.ResolveRoom(role, userID, requested)
	if err != nil {
		utils.ErrorResponse(c, err)
		return "", false
	}
	return room, true
}

// GetMessages: 50 pesan terakhir, urut lama ke baru
func (h *ChatHandler) GetMessages(c *gin.Context) {
	room, ok := h.room(c, c.Query("room_id"))
	if !ok {
		return
	}
	msgs, err := h.chat.History(c.Request.Context(), room)
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}
	utils.APIResponse(c, http.StatusOK, true, "Riwayat Chat", gin.H{
		"room_id":  room,
		"messages": msgs,
	})
}

func (h *ChatHandler) SendMessage(c *gin.Context) {
	var input models.SendMessageInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.APIResponse(c, http.StatusBadRequest, false, "Pesan tidak boleh kosong", nil)
		return
	}
	room, ok := h.room(c, input.RoomID)
	if !ok {
		return
	}

	userID, role := currentUser(c)
	msg, err := h.chat.Send(c.Request.Context(), room, userID, chat.SenderType(role), input.Content)
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}
	utils.APIResponse(c, http.StatusCreated, true, "Pesan terkirim", msg)
}

func (h *ChatHandler) MarkRead(c *gin.Context) {
	var input struct {
		RoomID string `json:"room_id"`
	}
	_ = c.ShouldBindJSON(&input)
	room, ok := h.room(c, input.RoomID)
	if !ok {
		return
	}

	_, role := currentUser(c)
	n, err := h.chat.MarkRead(c.Request.Context(), room, chat.SenderType(role))
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}
	utils.APIResponse(c, http.StatusOK, true, "Pesan ditandai sudah dibaca", gin.H{"updated": n})
}

// GetUnread: jumlah pesan dari pihak lain yang belum dibaca
func (h *ChatHandler) GetUnread(c *gin.Context) {
	room, ok := h.room(c, c.Query("room_id"))
	if !ok {
		return
	}

	_, role := currentUser(c)
	n, err := h.chat.Unread(c.Request.Context(), room, chat.SenderType(role))
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}
	utils.APIResponse(c, http.StatusOK, true, "Pesan belum dibaca", gin.H{"room_id": room, "unread": n})
}

// Subscribe: GET /chat/ws?token=...&room=... (browser tidak bisa kirim header di websocket)
func (h *ChatHandler) Subscribe(c *gin.Context) {
	userID, role, err := utils.ParseToken(c.Query("token"))
	if err != nil {
		utils.APIResponse(c, http.StatusUnauthorized, false, "Token tidak valid", nil)
		return
	}
	room, err := chat.ResolveRoom(role, userID, c.Query("room"))
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Log.WithError(err).Warn("chat: upgrade websocket gagal")
		return
	}

	client := chat.NewClient(conn, h.hub, room)
	h.hub.Register(client)
	client.Run(c.Request.Context())
}

func originAllowed(allowed []string, origin string) bool {
	if origin == "" {
		return true
	}
	for _, o := range allowed {
		if o == "*" || o == origin {
			return true
		}
	}
	return false
}
