package handlers

import (
	"errors"
	"net/http"

	"github.com/aegiscyber/portal-services/internal/clients"
	"github.com/aegiscyber/portal-services/internal/leads"
	"github.com/aegiscyber/portal-services/pkg/logger"
	"github.com/gin-gonic/gin"
)

// ContactRequest is the marketing site's contact-form payload. Required
// fields are enforced here, not in the data layer.
type ContactRequest struct {
	Name        string   `json:"name" binding:"required"`
	Email       string   `json:"email" binding:"required,email"`
	Phone       string   `json:"phone"`
	Company     string   `json:"company" binding:"required"`
	Industry    string   `json:"industry"`
	CompanySize string   `json:"companySize"`
	Message     string   `json:"message"`
	Services    []string `json:"services"`
}

// LeadsHandler holds dependencies
type LeadsHandler struct {
	svc     *leads.Service
	clients *clients.Service
}

func NewLeadsHandler(svc *leads.Service, clientsSvc *clients.Service) *LeadsHandler {
	return &LeadsHandler{svc: svc, clients: clientsSvc}
}

// RegisterPublic registers the unauthenticated contact-form endpoint.
func (h *LeadsHandler) RegisterPublic(rg *gin.RouterGroup) {
	rg.POST("/contact", h.SubmitContact)
}

// RegisterOperator registers lead-management endpoints. The caller is
// expected to guard the group with auth + operator-role middleware.
func (h *LeadsHandler) RegisterOperator(rg *gin.RouterGroup) {
	rg.GET("/leads", h.ListLeads)
	rg.GET("/leads/:id", h.GetLead)
	rg.PATCH("/leads/:id/status", h.UpdateStatus)
	rg.POST("/leads/:id/assign", h.AssignLead)
	rg.POST("/leads/:id/convert", h.ConvertLead)
	rg.DELETE("/leads/:id", h.DeleteLead)
}

// SubmitContact stores a new lead with status "new". The form banner keys off
// the response code, so create failures must surface.
func (h *LeadsHandler) SubmitContact(c *gin.Context) {
	var req ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	l, err := h.svc.Create(c.Request.Context(), &leads.Lead{
		Name:        req.Name,
		Email:       req.Email,
		Phone:       req.Phone,
		Company:     req.Company,
		Industry:    req.Industry,
		CompanySize: req.CompanySize,
		Message:     req.Message,
		Services:    req.Services,
	})
	if err != nil {
		logger.Errorf("contact form: failed to store lead: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store inquiry"})
		return
	}
	c.JSON(http.StatusCreated, l)
}

// ListLeads returns all leads, or leads filtered by ?status=. List reads
// degrade to an empty result on store failure; the UI renders "no data"
// either way.
func (h *LeadsHandler) ListLeads(c *gin.Context) {
	ctx := c.Request.Context()
	if status := c.Query("status"); status != "" {
		list, err := h.svc.ListByStatus(ctx, status)
		if err != nil {
			if errors.Is(err, leads.ErrInvalidStatus) {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			logger.Errorf("list leads by status %q failed: %v", status, err)
			c.JSON(http.StatusOK, []leads.Lead{})
			return
		}
		c.JSON(http.StatusOK, list)
		return
	}
	list, err := h.svc.List(ctx)
	if err != nil {
		logger.Errorf("list leads failed: %v", err)
		c.JSON(http.StatusOK, []leads.Lead{})
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *LeadsHandler) GetLead(c *gin.Context) {
	l, err := h.svc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		logger.Errorf("get lead %s failed: %v", c.Param("id"), err)
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	if l == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusOK, l)
}

func (h *LeadsHandler) UpdateStatus(c *gin.Context) {
	var req struct {
		Status string `json:"status" binding:"required"`
		Notes  string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	id := c.Param("id")
	if err := h.svc.UpdateStatus(c.Request.Context(), id, req.Status, req.Notes); err != nil {
		switch {
		case errors.Is(err, leads.ErrInvalidStatus):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, leads.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		default:
			logger.Errorf("update lead %s status failed: %v", id, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "status update failed"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "status": req.Status})
}

func (h *LeadsHandler) AssignLead(c *gin.Context) {
	var req struct {
		AssigneeID string `json:"assigneeId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	id := c.Param("id")
	if err := h.svc.Assign(c.Request.Context(), id, req.AssigneeID); err != nil {
		if errors.Is(err, leads.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		logger.Errorf("assign lead %s failed: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "assignment failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "assignedTo": req.AssigneeID})
}

// ConvertLead marks the lead converted and, when a profile service is wired,
// provisions a client profile from the lead's contact fields. The two steps
// are not atomic: a failure after the status change leaves a converted lead
// without a profile.
func (h *LeadsHandler) ConvertLead(c *gin.Context) {
	id := c.Param("id")
	ctx := c.Request.Context()

	l, err := h.svc.GetByID(ctx, id)
	if err != nil {
		logger.Errorf("convert lead %s: lookup failed: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "conversion failed"})
		return
	}
	if l == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}

	if err := h.svc.Convert(ctx, id); err != nil {
		logger.Errorf("convert lead %s failed: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "conversion failed"})
		return
	}

	resp := gin.H{"id": id, "status": string(leads.StatusConverted)}
	if h.clients != nil {
		profile, err := h.clients.CreateFromLead(ctx, id, l.Name, l.Email, l.Company)
		if err != nil {
			// status change already persisted; report the partial outcome
			logger.Errorf("convert lead %s: profile creation failed: %v", id, err)
			resp["profileError"] = "client profile creation failed"
		} else {
			resp["profile"] = profile
		}
	}
	c.JSON(http.StatusOK, resp)
}

func (h *LeadsHandler) DeleteLead(c *gin.Context) {
	id := c.Param("id")
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, leads.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		logger.Errorf("delete lead %s failed: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	c.Status(http.StatusNoContent)
}
