package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/aegiscyber/portal-services/internal/comms"
	"github.com/aegiscyber/portal-services/pkg/logger"
	"github.com/gin-gonic/gin"
)

// CommsHandler holds dependencies
type CommsHandler struct {
	svc *comms.Service
}

func NewCommsHandler(svc *comms.Service) *CommsHandler {
	return &CommsHandler{svc: svc}
}

// Register registers messaging and notification endpoints. The caller guards
// the group; the handler trusts the client id in the path, matching the data
// layer's contract.
func (h *CommsHandler) Register(rg *gin.RouterGroup) {
	rg.POST("/clients/:id/messages", h.SendMessage)
	rg.GET("/clients/:id/messages", h.ListMessages)
	rg.GET("/clients/:id/messages/stream", h.StreamMessages)
	rg.GET("/clients/:id/messages/unread-count", h.UnreadCount)
	rg.POST("/messages/:id/read", h.MarkMessageRead)

	rg.POST("/clients/:id/notifications/email", h.SendEmail)
	rg.POST("/clients/:id/notifications/sms", h.SendSMS)
	rg.POST("/clients/:id/notifications/system", h.SendSystem)
	rg.GET("/clients/:id/notifications", h.ListSystemNotifications)
	rg.POST("/notifications/:id/read", h.MarkNotificationRead)
}

func (h *CommsHandler) SendMessage(c *gin.Context) {
	var req struct {
		To   string `json:"to" binding:"required"`
		Body string `json:"body" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	m, err := h.svc.SendMessage(c.Request.Context(), c.Param("id"), req.To, req.Body)
	if err != nil {
		logger.Errorf("send message for client %s failed: %v", c.Param("id"), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "message send failed"})
		return
	}
	c.JSON(http.StatusCreated, m)
}

// ListMessages degrades to an empty list on store failure, like every list
// read in the portal.
func (h *CommsHandler) ListMessages(c *gin.Context) {
	msgs, err := h.svc.MessagesByClient(c.Request.Context(), c.Param("id"))
	if err != nil {
		logger.Errorf("list messages for client %s failed: %v", c.Param("id"), err)
		c.JSON(http.StatusOK, []comms.Message{})
		return
	}
	c.JSON(http.StatusOK, msgs)
}

// StreamMessages serves the real-time subscription over SSE. Every event is
// a complete snapshot of the client's message set, newest first.
func (h *CommsHandler) StreamMessages(c *gin.Context) {
	clientID := c.Param("id")
	sub, err := h.svc.Subscribe(c.Request.Context(), clientID)
	if err != nil {
		logger.Errorf("subscribe for client %s failed: %v", clientID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "subscription failed"})
		return
	}
	defer sub.Close()

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	c.Stream(func(w io.Writer) bool {
		select {
		case snap, ok := <-sub.Snapshots():
			if !ok {
				return false
			}
			c.SSEvent("snapshot", snap)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}

// UnreadCount reports 0 on failure; callers cannot tell "no unread" from a
// failed query, which is the contract the badge UI was built on.
func (h *CommsHandler) UnreadCount(c *gin.Context) {
	n, err := h.svc.UnreadMessageCount(c.Request.Context(), c.Param("id"))
	if err != nil {
		logger.Errorf("unread count for client %s failed: %v", c.Param("id"), err)
		n = 0
	}
	c.JSON(http.StatusOK, gin.H{"count": n})
}

func (h *CommsHandler) MarkMessageRead(c *gin.Context) {
	id := c.Param("id")
	if err := h.svc.MarkMessageRead(c.Request.Context(), id); err != nil {
		if errors.Is(err, comms.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		logger.Errorf("mark message %s read failed: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "mark read failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "read": true})
}

func (h *CommsHandler) SendEmail(c *gin.Context) {
	var req struct {
		Subject string `json:"subject" binding:"required"`
		Body    string `json:"body" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	n, err := h.svc.RecordEmailNotification(c.Request.Context(), c.Param("id"), req.Subject, req.Body)
	if err != nil {
		logger.Errorf("record email notification for client %s failed: %v", c.Param("id"), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "notification record failed"})
		return
	}
	c.JSON(http.StatusCreated, n)
}

func (h *CommsHandler) SendSMS(c *gin.Context) {
	var req struct {
		Body string `json:"body" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	n, err := h.svc.RecordSMSAlert(c.Request.Context(), c.Param("id"), req.Body)
	if err != nil {
		logger.Errorf("record sms alert for client %s failed: %v", c.Param("id"), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "notification record failed"})
		return
	}
	c.JSON(http.StatusCreated, n)
}

func (h *CommsHandler) SendSystem(c *gin.Context) {
	var req struct {
		Title string `json:"title" binding:"required"`
		Body  string `json:"body" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	n, err := h.svc.SendSystemNotification(c.Request.Context(), c.Param("id"), req.Title, req.Body)
	if err != nil {
		logger.Errorf("send system notification for client %s failed: %v", c.Param("id"), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "notification send failed"})
		return
	}
	c.JSON(http.StatusCreated, n)
}

func (h *CommsHandler) ListSystemNotifications(c *gin.Context) {
	list, err := h.svc.SystemNotifications(c.Request.Context(), c.Param("id"))
	if err != nil {
		logger.Errorf("list notifications for client %s failed: %v", c.Param("id"), err)
		c.JSON(http.StatusOK, []comms.Notification{})
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *CommsHandler) MarkNotificationRead(c *gin.Context) {
	id := c.Param("id")
	if err := h.svc.MarkNotificationRead(c.Request.Context(), id); err != nil {
		if errors.Is(err, comms.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		logger.Errorf("mark notification %s read failed: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "mark read failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "read": true})
}
