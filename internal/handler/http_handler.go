package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/duetchat/messenger-service/internal/domain"
	"github.com/duetchat/messenger-service/internal/service"
	"github.com/duetchat/messenger-service/pkg/log"
)

const (
	defaultPage  = 1
	defaultLimit = 20
	maxLimit     = 100
)

type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

type sendMessageRequest struct {
	SenderID   int64  `json:"sender_id" binding:"required"`
	ReceiverID int64  `json:"receiver_id" binding:"required"`
	Content    string `json:"content" binding:"required"`
}

type HTTPHandler struct {
	messenger service.MessengerService
}

func NewHTTPHandler(messenger service.MessengerService) *HTTPHandler {
	return &HTTPHandler{messenger: messenger}
}

func (h *HTTPHandler) RegisterRoutes(r *gin.Engine) {
	api := r.Group("/api")
	{
		api.POST("/messages", h.SendMessage)
		api.GET("/conversations/:id", h.GetConversation)
		api.GET("/conversations/:id/messages", h.GetConversationMessages)
		api.GET("/users/:user_id/conversations", h.GetUserConversations)
	}

	r.GET("/health", h.HealthCheck)
}

func (h *HTTPHandler) SendMessage(c *gin.Context) {
	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, APIResponse{
			Success: false,
			Error:   "sender_id, receiver_id and content are required",
		})
		return
	}

	msg, err := h.messenger.SendMessage(c.Request.Context(), req.SenderID, req.ReceiverID, req.Content)
	if err != nil {
		h.respondError(c, err, "failed to send message")
		return
	}

	c.JSON(http.StatusCreated, APIResponse{Success: true, Data: msg})
}

func (h *HTTPHandler) GetConversation(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	conv, err := h.messenger.GetConversation(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err, "failed to get conversation")
		return
	}

	c.JSON(http.StatusOK, APIResponse{Success: true, Data: conv})
}

func (h *HTTPHandler) GetConversationMessages(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	page, limit, ok := pageParams(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()

	var (
		result *domain.MessagePage
		err    error
	)
	if beforeStr := c.Query("before_timestamp"); beforeStr != "" {
		before, parseErr := time.Parse(time.RFC3339, beforeStr)
		if parseErr != nil {
			c.JSON(http.StatusBadRequest, APIResponse{
				Success: false,
				Error:   "before_timestamp must be an RFC 3339 timestamp",
			})
			return
		}
		result, err = h.messenger.ListMessagesBefore(ctx, id, before, page, limit)
	} else {
		result, err = h.messenger.ListMessages(ctx, id, page, limit)
	}
	if err != nil {
		h.respondError(c, err, "failed to get conversation messages")
		return
	}

	c.JSON(http.StatusOK, APIResponse{Success: true, Data: result})
}

func (h *HTTPHandler) GetUserConversations(c *gin.Context) {
	userID, ok := pathID(c, "user_id")
	if !ok {
		return
	}

	page, limit, ok := pageParams(c)
	if !ok {
		return
	}

	result, err := h.messenger.ListUserConversations(c.Request.Context(), userID, page, limit)
	if err != nil {
		h.respondError(c, err, "failed to get user conversations")
		return
	}

	c.JSON(http.StatusOK, APIResponse{Success: true, Data: result})
}

func (h *HTTPHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

func (h *HTTPHandler) respondError(c *gin.Context, err error, msg string) {
	switch {
	case errors.Is(err, domain.ErrInvalidArgument):
		c.JSON(http.StatusBadRequest, APIResponse{Success: false, Error: err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, APIResponse{Success: false, Error: err.Error()})
	default:
		logger := log.Ctx(c.Request.Context())
		logger.Error().Err(err).Msg(msg)
		c.JSON(http.StatusInternalServerError, APIResponse{Success: false, Error: msg})
	}
}

func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, APIResponse{
			Success: false,
			Error:   name + " must be an integer",
		})
		return 0, false
	}
	return id, true
}

func pageParams(c *gin.Context) (page, limit int, ok bool) {
	page = defaultPage
	if pageStr := c.Query("page"); pageStr != "" {
		parsed, err := strconv.Atoi(pageStr)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, APIResponse{
				Success: false,
				Error:   "page must be a positive integer",
			})
			return 0, 0, false
		}
		page = parsed
	}

	limit = defaultLimit
	if limitStr := c.Query("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, APIResponse{
				Success: false,
				Error:   "limit must be a positive integer",
			})
			return 0, 0, false
		}
		limit = parsed
		if limit > maxLimit {
			limit = maxLimit
		}
	}

	return page, limit, true
}
