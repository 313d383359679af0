package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"aistore-server/services/storefront-api/internal/domain/chat"
	"aistore-server/services/storefront-api/internal/interfaces/httpserver/requests"
	"aistore-server/services/storefront-api/internal/interfaces/httpserver/responses"
	"aistore-server/services/storefront-api/internal/utils/idgen"
)

// ChatHandler exposes the sales agent and the support inbox.
type ChatHandler struct {
	agent *chat.Service
	inbox *chat.Inbox
	log   zerolog.Logger
}

func NewChatHandler(agent *chat.Service, inbox *chat.Inbox, log zerolog.Logger) *ChatHandler {
	return &ChatHandler{
		agent: agent,
		inbox: inbox,
		log:   log.With().Str("component", "chat-handler").Logger(),
	}
}

// Converse handles one sales-agent turn.
func (h *ChatHandler) Converse(c *gin.Context) {
	var req requests.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = idgen.MustGenerateSecureID("sess", 20)
	}

	resp := h.agent.Handle(c.Request.Context(), chat.Request{
		SessionID: sessionID,
		Message:   req.Message,
		History:   req.History,
	})
	out := gin.H{
		"message":   resp.Reply,
		"messageId": resp.MessageID,
		"sessionId": sessionID,
		"state":     resp.State,
	}
	if resp.Order != nil {
		out["order"] = resp.Order
		out["awaitingApproval"] = resp.AwaitingApproval
	}
	c.JSON(http.StatusOK, out)
}

// Send stores a customer support message.
func (h *ChatHandler) Send(c *gin.Context) {
	var req requests.SupportMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	conv, err := h.inbox.SendCustomerMessage(c.Request.Context(), req.SessionID, req.Name, req.Email, req.Message)
	if err != nil {
		responses.HandleError(c, err, "failed to send message")
		return
	}
	c.JSON(http.StatusOK, gin.H{"conversationId": conv.ID, "status": conv.Status})
}

// Messages is the customer-side thread poll, keyed by session.
func (h *ChatHandler) Messages(c *gin.Context) {
	sessionID := c.Query("sessionId")
	if sessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "sessionId query parameter is required"})
		return
	}

	messages, err := h.inbox.ThreadBySession(c.Request.Context(), sessionID)
	if err != nil {
		responses.HandleError(c, err, "failed to load messages")
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": messages})
}

// Conversations is the dashboard inbox listing.
func (h *ChatHandler) Conversations(c *gin.Context) {
	summaries, unread := h.inbox.Conversations(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"conversations": summaries, "totalUnread": unread})
}

// Thread returns one conversation's full history for the dashboard.
func (h *ChatHandler) Thread(c *gin.Context) {
	messages, err := h.inbox.Thread(c.Request.Context(), c.Param("id"))
	if err != nil {
		responses.HandleError(c, err, "failed to load conversation")
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": messages})
}

// Reply posts an owner reply into a conversation.
func (h *ChatHandler) Reply(c *gin.Context) {
	var req requests.SupportReplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	msg, err := h.inbox.Reply(c.Request.Context(), req.ConversationID, req.Message)
	if err != nil {
		responses.HandleError(c, err, "failed to send reply")
		return
	}
	c.JSON(http.StatusOK, msg)
}
