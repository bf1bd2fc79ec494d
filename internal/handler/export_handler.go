package handler

import (
	"fmt"
	"net/http"
	"time"

	"backend/internal/middleware"
	"backend/internal/model"
	"backend/internal/service"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ExportHandler struct {
	exportService service.ExportService
}

func NewExportHandler(exportService service.ExportService) *ExportHandler {
	return &ExportHandler{exportService: exportService}
}

func (h *ExportHandler) RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("/api/export")
	group.Use(middleware.RequireRole(model.RoleAdmin, model.RoleApprover, model.RoleStaff))
	{
		group.GET("/assets.csv", h.AssetsCSV)
		group.GET("/assets.xlsx", h.AssetsXLSX)
		group.GET("/depreciation.xlsx", h.DepreciationXLSX)
	}
}

func attachmentName(prefix, ext string) string {
	return fmt.Sprintf("%s_%s.%s", prefix, time.Now().Format("20060102"), ext)
}

// AssetsCSV streams the asset register as CSV
// @Summary      Export assets (CSV)
// @Tags         export
// @Produce      text/csv
// @Security     BearerAuth
// @Success      200  {file}    file
// @Failure      500  {object}  response.Response
// @Router       /api/export/assets.csv [get]
func (h *ExportHandler) AssetsCSV(c *gin.Context) {
	data, err := h.exportService.AssetsCSV(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+attachmentName("assets", "csv"))
	c.Data(http.StatusOK, "text/csv", data)
}

// AssetsXLSX streams the asset register as a styled workbook
// @Summary      Export assets (XLSX)
// @Tags         export
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security     BearerAuth
// @Success      200  {file}    file
// @Failure      500  {object}  response.Response
// @Router       /api/export/assets.xlsx [get]
func (h *ExportHandler) AssetsXLSX(c *gin.Context) {
	data, err := h.exportService.AssetsXLSX(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+attachmentName("assets", "xlsx"))
	c.Data(http.StatusOK, xlsxContentType, data)
}

// DepreciationXLSX streams the depreciation schedule as a workbook
// @Summary      Export depreciation schedule (XLSX)
// @Tags         export
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security     BearerAuth
// @Success      200  {file}    file
// @Failure      500  {object}  response.Response
// @Router       /api/export/depreciation.xlsx [get]
func (h *ExportHandler) DepreciationXLSX(c *gin.Context) {
	data, err := h.exportService.DepreciationXLSX(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+attachmentName("depreciation", "xlsx"))
	c.Data(http.StatusOK, xlsxContentType, data)
}
