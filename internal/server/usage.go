package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	usagedomain "github.com/smallbiznis/mspdesk/internal/usage/domain"
	"github.com/smallbiznis/mspdesk/pkg/db/pagination"
)

func (s *Server) CreateUsageRecord(c *gin.Context) {
	var req usagedomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.usageSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListUsageRecords(c *gin.Context) {
	var query struct {
		pagination.Pagination
		CompanyID string `form:"company_id"`
		ServiceID string `form:"service_id"`
		From      string `form:"from"`
		To        string `form:"to"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	from, err := parseOptionalTime(query.From, false)
	if err != nil {
		AbortWithError(c, newValidationError("from", "invalid_from", "invalid from"))
		return
	}
	to, err := parseOptionalTime(query.To, true)
	if err != nil {
		AbortWithError(c, newValidationError("to", "invalid_to", "invalid to"))
		return
	}

	resp, err := s.usageSvc.List(c.Request.Context(), usagedomain.ListRequest{
		Pagination: query.Pagination,
		CompanyID:  strings.TrimSpace(query.CompanyID),
		ServiceID:  strings.TrimSpace(query.ServiceID),
		From:       from,
		To:         to,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetUsageRecordByID(c *gin.Context) {
	resp, err := s.usageSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if resp == nil {
		AbortWithError(c, usagedomain.ErrNotFound)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdateUsageRecord(c *gin.Context) {
	var req usagedomain.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	req.ID = c.Param("id")

	resp, err := s.usageSvc.Update(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteUsageRecord(c *gin.Context) {
	if err := s.usageSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"deleted": true}})
}

func (s *Server) ListEligibleBillingPlans(c *gin.Context) {
	companyID := strings.TrimSpace(c.Query("company_id"))
	serviceID := strings.TrimSpace(c.Query("service_id"))

	resp, err := s.usageSvc.EligibleBillingPlans(c.Request.Context(), companyID, serviceID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
