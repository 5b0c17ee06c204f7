package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	assetdomain "github.com/smallbiznis/mspdesk/internal/asset/domain"
	"github.com/smallbiznis/mspdesk/pkg/db/pagination"
)

func (s *Server) CreateAsset(c *gin.Context) {
	var req assetdomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.assetSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListAssets(c *gin.Context) {
	var query struct {
		pagination.Pagination
		CompanyID             string `form:"company_id"`
		CompanyName           string `form:"company_name"`
		TypeID                string `form:"type_id"`
		Status                string `form:"status"`
		Search                string `form:"search"`
		MaintenanceStatus     string `form:"maintenance_status"`
		MaintenanceType       string `form:"maintenance_type"`
		IncludeCompanyDetails string `form:"include_company_details"`
		IncludeExtensionData  string `form:"include_extension_data"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	includeCompany, err := parseOptionalBool(query.IncludeCompanyDetails)
	if err != nil {
		AbortWithError(c, newValidationError("include_company_details", "invalid_include_company_details", "invalid include_company_details"))
		return
	}
	includeExtension, err := parseOptionalBool(query.IncludeExtensionData)
	if err != nil {
		AbortWithError(c, newValidationError("include_extension_data", "invalid_include_extension_data", "invalid include_extension_data"))
		return
	}

	resp, err := s.assetSvc.List(c.Request.Context(), assetdomain.ListRequest{
		Pagination:            query.Pagination,
		CompanyID:             strings.TrimSpace(query.CompanyID),
		CompanyName:           strings.TrimSpace(query.CompanyName),
		TypeID:                strings.TrimSpace(query.TypeID),
		Status:                strings.TrimSpace(query.Status),
		Search:                strings.TrimSpace(query.Search),
		MaintenanceStatus:     strings.TrimSpace(query.MaintenanceStatus),
		MaintenanceType:       strings.TrimSpace(query.MaintenanceType),
		IncludeCompanyDetails: includeCompany != nil && *includeCompany,
		IncludeExtensionData:  includeExtension != nil && *includeExtension,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetAssetByID(c *gin.Context) {
	resp, err := s.assetSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if resp == nil {
		AbortWithError(c, assetdomain.ErrNotFound)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdateAsset(c *gin.Context) {
	var req assetdomain.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	req.ID = c.Param("id")

	resp, err := s.assetSvc.Update(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteAsset(c *gin.Context) {
	if err := s.assetSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"deleted": true}})
}

func (s *Server) ListAssetHistory(c *gin.Context) {
	resp, err := s.historySvc.ListByAsset(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) CreateMaintenanceSchedule(c *gin.Context) {
	var req assetdomain.CreateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.assetSvc.CreateSchedule(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) RecordMaintenance(c *gin.Context) {
	var req assetdomain.RecordMaintenanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	req.ScheduleID = c.Param("id")

	resp, err := s.assetSvc.RecordMaintenance(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
