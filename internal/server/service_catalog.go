package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	servicecatalogdomain "github.com/smallbiznis/mspdesk/internal/servicecatalog/domain"
	"github.com/smallbiznis/mspdesk/pkg/db/pagination"
)

type createCatalogServiceRequest struct {
	ServiceName           string `json:"service_name"`
	StandardServiceTypeID string `json:"standard_service_type_id"`
	CustomServiceTypeID   string `json:"custom_service_type_id"`
	BillingMethod         string `json:"billing_method"`
	DefaultRate           int64  `json:"default_rate"`
	UnitOfMeasure         string `json:"unit_of_measure"`
	CategoryID            string `json:"category_id"`
	IsTaxable             bool   `json:"is_taxable"`
	TaxRegion             string `json:"tax_region"`
}

type updateCatalogServiceRequest struct {
	ServiceName           *string `json:"service_name,omitempty"`
	StandardServiceTypeID *string `json:"standard_service_type_id,omitempty"`
	CustomServiceTypeID   *string `json:"custom_service_type_id,omitempty"`
	BillingMethod         *string `json:"billing_method,omitempty"`
	DefaultRate           *int64  `json:"default_rate,omitempty"`
	UnitOfMeasure         *string `json:"unit_of_measure,omitempty"`
	IsTaxable             *bool   `json:"is_taxable,omitempty"`
	TaxRegion             *string `json:"tax_region,omitempty"`
}

func (s *Server) CreateCatalogService(c *gin.Context) {
	var req createCatalogServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.catalogSvc.Create(c.Request.Context(), servicecatalogdomain.CreateRequest{
		Name:                  strings.TrimSpace(req.ServiceName),
		StandardServiceTypeID: strings.TrimSpace(req.StandardServiceTypeID),
		CustomServiceTypeID:   strings.TrimSpace(req.CustomServiceTypeID),
		BillingMethod:         strings.TrimSpace(req.BillingMethod),
		DefaultRate:           req.DefaultRate,
		UnitOfMeasure:         strings.TrimSpace(req.UnitOfMeasure),
		CategoryID:            strings.TrimSpace(req.CategoryID),
		IsTaxable:             req.IsTaxable,
		TaxRegion:             strings.TrimSpace(req.TaxRegion),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListCatalogServices(c *gin.Context) {
	var query struct {
		pagination.Pagination
		Search        string `form:"search"`
		BillingMethod string `form:"billing_method"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.catalogSvc.List(c.Request.Context(), servicecatalogdomain.ListRequest{
		Pagination:    query.Pagination,
		Search:        strings.TrimSpace(query.Search),
		BillingMethod: strings.TrimSpace(query.BillingMethod),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetCatalogServiceByID(c *gin.Context) {
	resp, err := s.catalogSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if resp == nil {
		AbortWithError(c, servicecatalogdomain.ErrNotFound)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdateCatalogService(c *gin.Context) {
	var req updateCatalogServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.catalogSvc.Update(c.Request.Context(), servicecatalogdomain.UpdateRequest{
		ID:                    c.Param("id"),
		Name:                  req.ServiceName,
		StandardServiceTypeID: req.StandardServiceTypeID,
		CustomServiceTypeID:   req.CustomServiceTypeID,
		BillingMethod:         req.BillingMethod,
		DefaultRate:           req.DefaultRate,
		UnitOfMeasure:         req.UnitOfMeasure,
		IsTaxable:             req.IsTaxable,
		TaxRegion:             req.TaxRegion,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteCatalogService(c *gin.Context) {
	if err := s.catalogSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"deleted": true}})
}
