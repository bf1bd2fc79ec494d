package handler

import (
	"errors"
	"net/http"

	"backend/internal/middleware"
	"backend/internal/model"
	"backend/internal/repository"
	"backend/internal/service"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type AssetHandler struct {
	assetService    service.AssetService
	locationService service.LocationService
	documentService service.DocumentService
}

func NewAssetHandler(assetService service.AssetService, locationService service.LocationService, documentService service.DocumentService) *AssetHandler {
	return &AssetHandler{
		assetService:    assetService,
		locationService: locationService,
		documentService: documentService,
	}
}

func (h *AssetHandler) RegisterRoutes(router *gin.RouterGroup) {
	anyRole := middleware.RequireRole(model.RoleAdmin, model.RoleApprover, model.RoleStaff)
	approverOnly := middleware.RequireRole(model.RoleAdmin, model.RoleApprover)

	assets := router.Group("/api/assets")
	{
		assets.GET("", anyRole, h.ListAssets)
		assets.GET("/next-id", anyRole, h.NextAssetID)
		assets.POST("", anyRole, h.CreateAsset)
		assets.GET("/:asset_id", anyRole, h.GetAsset)
		assets.PUT("/:asset_id", anyRole, h.UpdateAsset)
		assets.PUT("/:asset_id/useful-life", approverOnly, h.UpdateUsefulLife)
		assets.PUT("/:asset_id/approve", approverOnly, h.ApproveAsset)
		assets.PUT("/:asset_id/reject", approverOnly, h.RejectAsset)

		assets.GET("/:asset_id/locations", anyRole, h.ListLocations)
		assets.POST("/:asset_id/locations", anyRole, h.AddLocation)

		assets.GET("/:asset_id/documents", anyRole, h.ListDocuments)
		assets.POST("/:asset_id/documents", anyRole, h.AddDocument)
	}

	router.GET("/api/depreciation", anyRole, h.ListDepreciation)
	router.GET("/api/locations", anyRole, h.SearchLocations)
}

// actorID pulls the authenticated user's id from the gin context.
func actorID(c *gin.Context) string {
	userID, _ := c.Get("userID")
	id, _ := userID.(string)
	return id
}

func writeServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotApprover):
		c.JSON(http.StatusForbidden, response.Error(http.StatusForbidden, err.Error()))
	case errors.Is(err, service.ErrTerminalStatus):
		c.JSON(http.StatusConflict, response.Error(http.StatusConflict, err.Error()))
	default:
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
	}
}

// ListAssets returns the asset register with computed depreciation
// @Summary      List assets
// @Description  Retrieves the asset register with current depreciation figures, filterable by search text, type, status and location
// @Tags         assets
// @Produce      json
// @Security     BearerAuth
// @Param        q         query     string  false  "Search text (id, serial, name, model)"
// @Param        type      query     string  false  "Asset type"
// @Param        status    query     string  false  "Asset status"
// @Param        location  query     string  false  "Current location"
// @Success      200       {object}  response.Response{data=[]service.AssetWithDepreciation}
// @Failure      500       {object}  response.Response
// @Router       /api/assets [get]
func (h *AssetHandler) ListAssets(c *gin.Context) {
	filter := repository.AssetFilter{
		Q:        c.Query("q"),
		Type:     c.Query("type"),
		Status:   c.Query("status"),
		Location: c.Query("location"),
	}

	assets, err := h.assetService.ListAssets(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, assets))
}

// NextAssetID suggests the next sequential asset id
func (h *AssetHandler) NextAssetID(c *gin.Context) {
	next, err := h.assetService.NextAssetID(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"asset_id": next}))
}

// CreateAsset registers a new asset, optionally submitting for approval
// @Summary      Create asset
// @Description  Registers a new asset. With send_approval=true the asset is queued for approval instead of entering the register directly.
// @Tags         assets
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreateAssetRequest  true  "Create Asset Payload"
// @Success      201      {object}  response.Response{data=model.Asset}
// @Failure      400      {object}  response.Response
// @Router       /api/assets [post]
func (h *AssetHandler) CreateAsset(c *gin.Context) {
	var req service.CreateAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	asset, err := h.assetService.CreateAsset(c.Request.Context(), actorID(c), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, asset))
}

// GetAsset returns one asset with locations, transactions and documents
// @Summary      Get asset detail
// @Tags         assets
// @Produce      json
// @Security     BearerAuth
// @Param        asset_id  path      string  true  "Asset ID"
// @Success      200       {object}  response.Response{data=service.AssetDetail}
// @Failure      404       {object}  response.Response
// @Router       /api/assets/{asset_id} [get]
func (h *AssetHandler) GetAsset(c *gin.Context) {
	detail, err := h.assetService.GetAsset(c.Request.Context(), c.Param("asset_id"))
	if err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, detail))
}

// UpdateAsset edits asset fields
// @Summary      Update asset
// @Description  Updates an asset's editable fields. Sold and Disposed cannot be set here.
// @Tags         assets
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        asset_id  path      string                      true  "Asset ID"
// @Param        payload   body      service.UpdateAssetRequest  true  "Update Asset Payload"
// @Success      200       {object}  response.Response{data=model.Asset}
// @Failure      400       {object}  response.Response
// @Failure      409       {object}  response.Response
// @Router       /api/assets/{asset_id} [put]
func (h *AssetHandler) UpdateAsset(c *gin.Context) {
	var req service.UpdateAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	asset, err := h.assetService.UpdateAsset(c.Request.Context(), actorID(c), c.Param("asset_id"), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, asset))
}

type updateUsefulLifeRequest struct {
	UsefulLifeMonths int `json:"useful_life_months" binding:"required"`
}

// UpdateUsefulLife adjusts the depreciation term of an asset
func (h *AssetHandler) UpdateUsefulLife(c *gin.Context) {
	var req updateUsefulLifeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	if err := h.assetService.UpdateUsefulLife(c.Request.Context(), actorID(c), c.Param("asset_id"), req.UsefulLifeMonths); err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Useful life updated"))
}

// ApproveAsset approves a pending asset submission
// @Summary      Approve asset
// @Tags         assets
// @Produce      json
// @Security     BearerAuth
// @Param        asset_id  path      string  true  "Asset ID"
// @Success      200       {object}  response.Response{data=model.Asset}
// @Failure      400       {object}  response.Response
// @Failure      403       {object}  response.Response
// @Router       /api/assets/{asset_id}/approve [put]
func (h *AssetHandler) ApproveAsset(c *gin.Context) {
	asset, err := h.assetService.ApproveAsset(c.Request.Context(), actorID(c), c.Param("asset_id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, asset))
}

type rejectRequest struct {
	Reason string `json:"reason"`
}

// RejectAsset rejects a pending asset submission
// @Summary      Reject asset
// @Tags         assets
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        asset_id  path      string         true   "Asset ID"
// @Param        payload   body      rejectRequest  false  "Rejection reason"
// @Success      200       {object}  response.Response{data=model.Asset}
// @Failure      400       {object}  response.Response
// @Failure      403       {object}  response.Response
// @Router       /api/assets/{asset_id}/reject [put]
func (h *AssetHandler) RejectAsset(c *gin.Context) {
	var req rejectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		// Allow empty body — reason is optional
		req.Reason = ""
	}

	asset, err := h.assetService.RejectAsset(c.Request.Context(), actorID(c), c.Param("asset_id"), req.Reason)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, asset))
}

// ListDepreciation returns the depreciation register with totals
// @Summary      Depreciation register
// @Tags         assets
// @Produce      json
// @Security     BearerAuth
// @Param        type  query     string  false  "Asset type"
// @Success      200   {object}  response.Response{data=service.DepreciationRegister}
// @Failure      500   {object}  response.Response
// @Router       /api/depreciation [get]
func (h *AssetHandler) ListDepreciation(c *gin.Context) {
	register, err := h.assetService.ListDepreciation(c.Request.Context(), c.Query("type"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, register))
}

// ListLocations returns the location history of one asset
func (h *AssetHandler) ListLocations(c *gin.Context) {
	entries, err := h.locationService.ListByAsset(c.Request.Context(), c.Param("asset_id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, entries))
}

// AddLocation relocates an asset, closing the open interval
// @Summary      Add location entry
// @Description  Relocates an asset. The previous open interval is closed at the new entry's start date.
// @Tags         locations
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        asset_id  path      string                      true  "Asset ID"
// @Param        payload   body      service.AddLocationRequest  true  "Location Entry Payload"
// @Success      201       {object}  response.Response{data=model.LocationHistory}
// @Failure      400       {object}  response.Response
// @Router       /api/assets/{asset_id}/locations [post]
func (h *AssetHandler) AddLocation(c *gin.Context) {
	var req service.AddLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	entry, err := h.locationService.AddEntry(c.Request.Context(), actorID(c), c.Param("asset_id"), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, entry))
}

// SearchLocations searches location history across all assets
func (h *AssetHandler) SearchLocations(c *gin.Context) {
	entries, err := h.locationService.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, entries))
}

// ListDocuments returns document metadata attached to an asset
func (h *AssetHandler) ListDocuments(c *gin.Context) {
	docs, err := h.documentService.ListByAsset(c.Request.Context(), c.Param("asset_id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, docs))
}

// AddDocument attaches document metadata to an asset
func (h *AssetHandler) AddDocument(c *gin.Context) {
	var req service.AddDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	doc, err := h.documentService.AddDocument(c.Request.Context(), actorID(c), c.Param("asset_id"), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, doc))
}
