package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/manojxshrestha/win11web-sub000/src/handler/filesystem"
)

// ShareHandler exposes the network share registry.
type ShareHandler struct {
	*BaseHandler
	shares *filesystem.ShareRegistry
}

// ShareRequest declares a share.
type ShareRequest struct {
	Name        string `json:"name" binding:"required" example:"Public"`
	Path        string `json:"path" binding:"required" example:"C:\\Users\\Public"`
	Description string `json:"description" example:"Shared documents"`
} // @name ShareRequest

func NewShareHandler(shares *filesystem.ShareRegistry) *ShareHandler {
	return &ShareHandler{
		BaseHandler: NewBaseHandler(),
		shares:      shares,
	}
}

// HandleList lists shares
// @Summary List network shares
// @Tags shares
// @Produce json
// @Success 200 {array} filesystem.Share "Shares"
// @Router /shares [get]
func (h *ShareHandler) HandleList(c *gin.Context) {
	h.SendJSON(c, http.StatusOK, h.shares.List())
}

// HandleCreate declares or replaces a share
// @Summary Create a network share
// @Tags shares
// @Accept json
// @Produce json
// @Param request body ShareRequest true "Share"
// @Success 201 {object} filesystem.Share "Share"
// @Router /shares [post]
func (h *ShareHandler) HandleCreate(c *gin.Context) {
	var req ShareRequest
	if err := h.BindJSON(c, &req); err != nil {
		h.SendError(c, http.StatusBadRequest, err)
		return
	}
	h.SendJSON(c, http.StatusCreated, h.shares.Create(req.Name, req.Path, req.Description))
}

// HandleDelete removes a share
// @Summary Delete a network share
// @Tags shares
// @Produce json
// @Param name path string true "Share name"
// @Success 200 {object} SuccessResponse "Deleted"
// @Failure 404 {object} ErrorResponse "Unknown share"
// @Router /shares/{name} [delete]
func (h *ShareHandler) HandleDelete(c *gin.Context) {
	name, err := h.GetPathParam(c, "name")
	if err != nil {
		h.SendError(c, http.StatusBadRequest, err)
		return
	}
	if !h.shares.Delete(name) {
		h.SendError(c, http.StatusNotFound, fmt.Errorf("share not found: %s", name))
		return
	}
	h.SendSuccess(c, "", "Share deleted successfully")
}
