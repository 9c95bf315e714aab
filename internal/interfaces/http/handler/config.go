package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopx/backoffice/internal/application/admin"
	"github.com/shopx/backoffice/internal/interfaces/http/middleware"
)

// maxConfigImportBytes caps the accepted import document size
const maxConfigImportBytes = 1 << 20

// ConfigHandler serves system configuration endpoints
type ConfigHandler struct {
	BaseHandler
	configService *admin.ConfigService
}

// NewConfigHandler creates a config handler
func NewConfigHandler(configService *admin.ConfigService) *ConfigHandler {
	return &ConfigHandler{configService: configService}
}

// Set creates or updates a configuration entry
func (h *ConfigHandler) Set(c *gin.Context) {
	var req admin.SetConfigRequest
	if !h.bindJSON(c, &req) {
		return
	}

	cfg, err := h.configService.Set(c.Request.Context(), middleware.CurrentActor(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, cfg)
}

// List returns a page of configuration entries
func (h *ConfigHandler) List(c *gin.Context) {
	filter, ok := h.listFilter(c)
	if !ok {
		return
	}

	page, err := h.configService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// ListGroup returns every entry in a configuration group
func (h *ConfigHandler) ListGroup(c *gin.Context) {
	configs, err := h.configService.ListGroup(c.Request.Context(), c.Param("group"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, configs)
}

// Get returns a single configuration entry by group and key
func (h *ConfigHandler) Get(c *gin.Context) {
	cfg, err := h.configService.Get(c.Request.Context(), c.Param("group"), c.Param("key"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, cfg)
}

// Delete removes a configuration entry
func (h *ConfigHandler) Delete(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	if err := h.configService.Delete(c.Request.Context(), middleware.CurrentActor(c), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Export streams all configuration as a JSON document
func (h *ConfigHandler) Export(c *gin.Context) {
	data, err := h.configService.Export(c.Request.Context(), middleware.CurrentActor(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="configs.json"`)
	c.Data(http.StatusOK, "application/json", data)
}

// Import replays a previously exported configuration document
func (h *ConfigHandler) Import(c *gin.Context) {
	data, err := io.ReadAll(io.LimitReader(c.Request.Body, maxConfigImportBytes))
	if err != nil {
		h.BadRequest(c, "unable to read request body")
		return
	}
	if len(data) == 0 {
		h.BadRequest(c, "empty import document")
		return
	}

	imported, err := h.configService.Import(c.Request.Context(), middleware.CurrentActor(c), data)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"imported": imported})
}
