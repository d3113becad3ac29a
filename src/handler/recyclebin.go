package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/manojxshrestha/win11web-sub000/src/handler/filesystem"
	"github.com/manojxshrestha/win11web-sub000/src/lib"
	"github.com/manojxshrestha/win11web-sub000/src/metrics"
)

// RecycleBinHandler exposes the recycle bin.
type RecycleBinHandler struct {
	*BaseHandler
	fs  *filesystem.Filesystem
	bin *filesystem.RecycleBin
}

// RecycleRequest names the path to move into the bin.
type RecycleRequest struct {
	Path      string `json:"path" binding:"required" example:"C:\\Users\\User\\Desktop\\Welcome.txt"`
	Recursive bool   `json:"recursive" example:"false"`
} // @name RecycleRequest

// EmptyResponse reports how many entries an empty operation dropped.
type EmptyResponse struct {
	Removed int `json:"removed" example:"3"`
} // @name EmptyResponse

func NewRecycleBinHandler(fs *filesystem.Filesystem, bin *filesystem.RecycleBin) *RecycleBinHandler {
	return &RecycleBinHandler{
		BaseHandler: NewBaseHandler(),
		fs:          fs,
		bin:         bin,
	}
}

// HandleList lists the recycle bin
// @Summary List recycle bin entries
// @Description Entries are ordered most recently deleted first
// @Tags recycle-bin
// @Produce json
// @Success 200 {array} filesystem.RecycleBinEntry "Entries"
// @Router /recycle-bin [get]
func (h *RecycleBinHandler) HandleList(c *gin.Context) {
	h.SendJSON(c, http.StatusOK, h.bin.List())
}

// HandleGet returns one entry
// @Summary Get a recycle bin entry
// @Tags recycle-bin
// @Produce json
// @Param id path string true "Entry id"
// @Success 200 {object} filesystem.RecycleBinEntry "Entry"
// @Failure 404 {object} ErrorResponse "Unknown id"
// @Router /recycle-bin/{id} [get]
func (h *RecycleBinHandler) HandleGet(c *gin.Context) {
	id, err := h.GetPathParam(c, "id")
	if err != nil {
		h.SendError(c, http.StatusBadRequest, err)
		return
	}
	entry, ok := h.bin.Get(id)
	if !ok {
		h.SendError(c, http.StatusNotFound, fmt.Errorf("recycle bin entry not found: %s", id))
		return
	}
	h.SendJSON(c, http.StatusOK, entry)
}

// HandleRecycle moves a file or directory into the bin
// @Summary Recycle a file or directory
// @Tags recycle-bin
// @Accept json
// @Produce json
// @Param request body RecycleRequest true "Path to recycle"
// @Success 200 {array} filesystem.RecycleBinEntry "Created entries"
// @Failure 404 {object} ErrorResponse "Not found"
// @Failure 409 {object} ErrorResponse "Directory not empty"
// @Router /recycle-bin/recycle [post]
func (h *RecycleBinHandler) HandleRecycle(c *gin.Context) {
	var req RecycleRequest
	if err := h.BindJSON(c, &req); err != nil {
		h.SendError(c, http.StatusBadRequest, err)
		return
	}
	path := lib.Normalize(req.Path)

	if h.fs.IsDirectory(path) {
		entries, err := h.bin.RecycleDirectory(path, req.Recursive)
		if err != nil {
			h.SendDomainError(c, err)
			return
		}
		h.SendJSON(c, http.StatusOK, entries)
		return
	}
	entry, ok := h.bin.Recycle(path)
	if !ok {
		h.SendDomainError(c, &filesystem.Error{Op: filesystem.OpRecycle, Path: path, Err: filesystem.ErrNotFound})
		return
	}
	h.SendJSON(c, http.StatusOK, []*filesystem.RecycleBinEntry{entry})
}

// HandleRestore puts an entry back at its original path
// @Summary Restore a recycle bin entry
// @Tags recycle-bin
// @Produce json
// @Param id path string true "Entry id"
// @Success 200 {object} SuccessResponse "Restored"
// @Failure 404 {object} ErrorResponse "Unknown id"
// @Failure 409 {object} ErrorResponse "Original path is occupied"
// @Router /recycle-bin/{id}/restore [post]
func (h *RecycleBinHandler) HandleRestore(c *gin.Context) {
	id, err := h.GetPathParam(c, "id")
	if err != nil {
		h.SendError(c, http.StatusBadRequest, err)
		return
	}
	entry, ok := h.bin.Get(id)
	if !ok {
		h.SendError(c, http.StatusNotFound, fmt.Errorf("recycle bin entry not found: %s", id))
		return
	}
	restored, err := h.bin.Restore(id)
	if err != nil {
		h.SendDomainError(c, err)
		return
	}
	if !restored {
		h.SendError(c, http.StatusNotFound, fmt.Errorf("recycle bin entry not found: %s", id))
		return
	}
	h.SendSuccess(c, entry.OriginalPath, "Restored successfully")
}

// HandleDelete drops one entry for good
// @Summary Permanently delete a recycle bin entry
// @Tags recycle-bin
// @Produce json
// @Param id path string true "Entry id"
// @Success 200 {object} SuccessResponse "Deleted"
// @Failure 404 {object} ErrorResponse "Unknown id"
// @Router /recycle-bin/{id} [delete]
func (h *RecycleBinHandler) HandleDelete(c *gin.Context) {
	id, err := h.GetPathParam(c, "id")
	if err != nil {
		h.SendError(c, http.StatusBadRequest, err)
		return
	}
	if !h.bin.DeletePermanently(id) {
		h.SendError(c, http.StatusNotFound, fmt.Errorf("recycle bin entry not found: %s", id))
		return
	}
	metrics.SetRecycleBinItems(h.bin.Len())
	h.SendSuccess(c, "", "Entry deleted permanently")
}

// HandleEmpty empties the bin
// @Summary Empty the recycle bin
// @Tags recycle-bin
// @Produce json
// @Success 200 {object} EmptyResponse "Number of entries removed"
// @Router /recycle-bin [delete]
func (h *RecycleBinHandler) HandleEmpty(c *gin.Context) {
	n := h.bin.Empty()
	metrics.SetRecycleBinItems(0)
	h.SendJSON(c, http.StatusOK, EmptyResponse{Removed: n})
}
