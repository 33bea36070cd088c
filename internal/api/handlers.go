// Package api exposes the asset CRUD operations over HTTP.
package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Pissaia92/assetforge-plataform/internal/db"
	"github.com/Pissaia92/assetforge-plataform/internal/repo"
)

// AssetCreate is the request body for creating or fully replacing an
// asset. The assignee is not client-settable; it belongs to the checkout
// event path.
type AssetCreate struct {
	Name         string         `json:"name" binding:"required"`
	AssetType    db.AssetType   `json:"asset_type" binding:"required,oneof=NOTEBOOK MONITOR KEYBOARD MOUSE HEADSET OTHER"`
	Model        string         `json:"model" binding:"required"`
	SerialNumber string         `json:"serial_number" binding:"required"`
	Status       db.AssetStatus `json:"status" binding:"omitempty,oneof=IN_STOCK IN_USE IN_REPAIR RETIRED"`
}

func (a AssetCreate) toSpec() repo.AssetSpec {
	status := a.Status
	if status == "" {
		status = db.StatusInStock
	}
	return repo.AssetSpec{
		Name:         a.Name,
		AssetType:    a.AssetType,
		Model:        a.Model,
		SerialNumber: a.SerialNumber,
		Status:       status,
	}
}

// Handler holds the dependencies of the HTTP handlers.
type Handler struct {
	repo *repo.AssetRepository
	log  *zap.Logger
}

// NewHandler creates the HTTP handler set.
func NewHandler(repository *repo.AssetRepository, log *zap.Logger) *Handler {
	return &Handler{
		repo: repository,
		log:  log,
	}
}

func (h *Handler) root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "AssetForge - Inventory Service is running!"})
}

func (h *Handler) createAsset(c *gin.Context) {
	var req AssetCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	asset, err := h.repo.Create(c.Request.Context(), req.toSpec())
	if err != nil {
		if errors.Is(err, repo.ErrDuplicateSerial) {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "Serial number already registered"})
			return
		}
		h.log.Error("create asset failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "failed to create asset"})
		return
	}

	c.JSON(http.StatusOK, asset)
}

func (h *Handler) listAssets(c *gin.Context) {
	skip := queryInt(c, "skip", 0)
	limit := queryInt(c, "limit", 100)

	assets, err := h.repo.List(c.Request.Context(), skip, limit)
	if err != nil {
		h.log.Error("list assets failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "failed to list assets"})
		return
	}

	if assets == nil {
		assets = []*db.Asset{}
	}
	c.JSON(http.StatusOK, assets)
}

func (h *Handler) getAsset(c *gin.Context) {
	id, ok := assetID(c)
	if !ok {
		return
	}

	asset, err := h.repo.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repo.ErrAssetNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"detail": "Asset not found"})
			return
		}
		h.log.Error("get asset failed", zap.Int64("asset_id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "failed to get asset"})
		return
	}

	c.JSON(http.StatusOK, asset)
}

func (h *Handler) updateAsset(c *gin.Context) {
	id, ok := assetID(c)
	if !ok {
		return
	}

	var req AssetCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	asset, err := h.repo.Update(c.Request.Context(), id, req.toSpec())
	if err != nil {
		switch {
		case errors.Is(err, repo.ErrAssetNotFound):
			c.JSON(http.StatusNotFound, gin.H{"detail": "Asset not found"})
		case errors.Is(err, repo.ErrDuplicateSerial):
			c.JSON(http.StatusBadRequest, gin.H{"detail": "Serial number already registered"})
		default:
			h.log.Error("update asset failed", zap.Int64("asset_id", id), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"detail": "failed to update asset"})
		}
		return
	}

	c.JSON(http.StatusOK, asset)
}

func (h *Handler) deleteAsset(c *gin.Context) {
	id, ok := assetID(c)
	if !ok {
		return
	}

	asset, err := h.repo.Delete(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repo.ErrAssetNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"detail": "Asset not found"})
			return
		}
		h.log.Error("delete asset failed", zap.Int64("asset_id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "failed to delete asset"})
		return
	}

	c.JSON(http.StatusOK, asset)
}

// assetID parses the :id path parameter, writing a 400 response on failure.
func assetID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid asset id"})
		return 0, false
	}
	return id, true
}

func queryInt(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return fallback
	}
	return v
}
