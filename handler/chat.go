package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/vazarkarshreya23-bit/govbot/model"
	"github.com/vazarkarshreya23-bit/govbot/pkg/logger"
)

// Dialog is the conversation engine as the transport sees it.
type Dialog interface {
	ProcessTurn(ctx context.Context, message string, state model.ConversationState) (string, model.ConversationState, error)
}

// Sessions carries conversation state between requests.
type Sessions interface {
	Load(ctx context.Context, sessionID string) (model.ConversationState, error)
	Save(ctx context.Context, sessionID string, state model.ConversationState) error
	Clear(ctx context.Context, sessionID string) error
}

type ChatHandler struct {
	dialog     Dialog
	sessions   Sessions
	cookieName string
}

func NewChatHandler(dialog Dialog, sessions Sessions, cookieName string) *ChatHandler {
	return &ChatHandler{
		dialog:     dialog,
		sessions:   sessions,
		cookieName: cookieName,
	}
}

type ChatRequest struct {
	Message string `json:"message"`
}

type ChatResponse struct {
	Reply string `json:"reply"`
}

// sessionID returns the caller's session cookie, minting one if needed.
func (h *ChatHandler) sessionID(c *gin.Context) string {
	sid, err := c.Cookie(h.cookieName)
	if err != nil || sid == "" {
		sid = uuid.NewString()
		c.SetCookie(h.cookieName, sid, 0, "/", "", false, true)
	}
	return sid
}

// Chat runs one conversation turn: load state, process, save state.
func (h *ChatHandler) Chat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	sid := h.sessionID(c)
	ctx := context.WithValue(c.Request.Context(), logger.SessionIDKey, sid)

	state, err := h.sessions.Load(ctx, sid)
	if err != nil {
		logger.Error(ctx, "failed to load session", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong. Please try again."})
		return
	}

	reply, newState, err := h.dialog.ProcessTurn(ctx, req.Message, state)
	if err != nil {
		logger.Error(ctx, "conversation turn failed", "error", err, "step", string(state.Step))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong. Please try again."})
		return
	}

	if err := h.sessions.Save(ctx, sid, newState); err != nil {
		logger.Error(ctx, "failed to save session", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong. Please try again."})
		return
	}

	c.JSON(http.StatusOK, ChatResponse{Reply: reply})
}

// Reset clears the conversation so the user can start over.
func (h *ChatHandler) Reset(c *gin.Context) {
	sid := h.sessionID(c)
	ctx := context.WithValue(c.Request.Context(), logger.SessionIDKey, sid)

	if err := h.sessions.Clear(ctx, sid); err != nil {
		logger.Error(ctx, "failed to clear session", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong. Please try again."})
		return
	}

	c.JSON(http.StatusOK, ChatResponse{Reply: "🔄 Session reset. Type <b>apply</b> to begin!"})
}
