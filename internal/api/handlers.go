package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"chatapi/internal/models"
	"chatapi/internal/service"
)

const (
	codeInvalidRequest = "INVALID_REQUEST"
	codeNotFound       = "NOT_FOUND"
	codeForbidden      = "FORBIDDEN"
	codeServerError    = "SERVER_ERROR"
)

type Handler struct {
	Service      *service.MessageService
	DefaultLimit int
	MaxLimit     int
}

func NewAPIHandler(service *service.MessageService, defaultLimit, maxLimit int) *Handler {
	return &Handler{
		Service:      service,
		DefaultLimit: defaultLimit,
		MaxLimit:     maxLimit,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	msgs := r.Group("/api/messages")
	{
		msgs.POST("", h.PostMessage)
		msgs.GET("/:session_id", h.GetMessages)
	}
}

func (h *Handler) PostMessage(c *gin.Context) {
	in, err := DecodeMessageIn(c.Request.Body)
	if err != nil {
		respondError(c, http.StatusBadRequest, codeInvalidRequest, err.Error())
		return
	}
	in.Normalize()
	input, err := in.Validate()
	if err != nil {
		respondError(c, http.StatusBadRequest, codeInvalidRequest, err.Error())
		return
	}

	msg, err := h.Service.CreateMessage(input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, SuccessResponse{Status: "success", Data: NewMessageOut(msg)})
}

func (h *Handler) GetMessages(c *gin.Context) {
	sessionID := c.Param("session_id")

	limit := h.DefaultLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			respondError(c, http.StatusBadRequest, codeInvalidRequest, "limit must be a non-negative integer")
			return
		}
		limit = parsed
		if limit > h.MaxLimit {
			limit = h.MaxLimit
		}
	}

	offset := 0
	if raw := c.Query("offset"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			respondError(c, http.StatusBadRequest, codeInvalidRequest, "offset must be a non-negative integer")
			return
		}
		offset = parsed
	}

	var senderType models.SenderType
	if raw := c.Query("sender_type"); raw != "" {
		senderType = models.SenderType(strings.ToLower(raw))
		if !senderType.Valid() {
			respondError(c, http.StatusBadRequest, codeInvalidRequest, "sender_type must be 'user' or 'system'")
			return
		}
	}

	msgs, err := h.Service.ListMessages(sessionID, senderType, limit, offset)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Status: "success", Data: NewMessageList(msgs)})
}

// respondServiceError maps service failures onto the error taxonomy. Not-found
// sentinels must never leak through as 500s.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrSenderNotFound), errors.Is(err, service.ErrSessionNotFound):
		respondError(c, http.StatusNotFound, codeNotFound, err.Error())
	case errors.Is(err, service.ErrBannedContent):
		respondError(c, http.StatusForbidden, codeForbidden, err.Error())
	default:
		respondError(c, http.StatusInternalServerError, codeServerError, "internal error")
	}
}

func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, ErrorResponse{Status: "error", Error: ErrorBody{Code: code, Message: message}})
}

// NoRoute renders the uniform envelope for unmatched paths.
func NoRoute(c *gin.Context) {
	respondError(c, http.StatusNotFound, codeNotFound, "resource not found")
}

// Recovery renders panics as the uniform SERVER_ERROR envelope without
// exposing internal detail.
func Recovery(c *gin.Context, _ interface{}) {
	respondError(c, http.StatusInternalServerError, codeServerError, "internal error")
	c.Abort()
}
