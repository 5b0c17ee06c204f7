package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	companydomain "github.com/smallbiznis/mspdesk/internal/company/domain"
)

type createCompanyRequest struct {
	Name        string         `json:"name"`
	Email       string         `json:"email"`
	Phone       string         `json:"phone"`
	AddressLine string         `json:"address_line"`
	Metadata    map[string]any `json:"metadata"`
}

type updateCompanyRequest struct {
	Name        *string `json:"name,omitempty"`
	Email       *string `json:"email,omitempty"`
	Phone       *string `json:"phone,omitempty"`
	AddressLine *string `json:"address_line,omitempty"`
	IsInactive  *bool   `json:"is_inactive,omitempty"`
}

func (s *Server) CreateCompany(c *gin.Context) {
	var req createCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.companySvc.Create(c.Request.Context(), companydomain.CreateRequest{
		Name:        strings.TrimSpace(req.Name),
		Email:       strings.TrimSpace(req.Email),
		Phone:       strings.TrimSpace(req.Phone),
		AddressLine: strings.TrimSpace(req.AddressLine),
		Metadata:    req.Metadata,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListCompanies(c *gin.Context) {
	var query struct {
		Name            string `form:"name"`
		IncludeInactive string `form:"include_inactive"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	includeInactive, err := parseOptionalBool(query.IncludeInactive)
	if err != nil {
		AbortWithError(c, newValidationError("include_inactive", "invalid_include_inactive", "invalid include_inactive"))
		return
	}

	resp, err := s.companySvc.List(c.Request.Context(), companydomain.ListRequest{
		Name:            strings.TrimSpace(query.Name),
		IncludeInactive: includeInactive != nil && *includeInactive,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetCompanyByID(c *gin.Context) {
	resp, err := s.companySvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if resp == nil {
		AbortWithError(c, companydomain.ErrNotFound)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdateCompany(c *gin.Context) {
	var req updateCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.companySvc.Update(c.Request.Context(), companydomain.UpdateRequest{
		ID:          c.Param("id"),
		Name:        req.Name,
		Email:       req.Email,
		Phone:       req.Phone,
		AddressLine: req.AddressLine,
		IsInactive:  req.IsInactive,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) AdjustCompanyCredit(c *gin.Context) {
	var req struct {
		Delta int64 `json:"delta"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.companySvc.AdjustCreditBalance(c.Request.Context(), c.Param("id"), req.Delta)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetCompanyAssetReport(c *gin.Context) {
	resp, err := s.assetSvc.CompanyAssetReport(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListCompanyBillingPlans(c *gin.Context) {
	activeOnly, err := parseOptionalBool(c.Query("active_only"))
	if err != nil {
		AbortWithError(c, newValidationError("active_only", "invalid_active_only", "invalid active_only"))
		return
	}

	resp, err := s.planSvc.ListByCompany(c.Request.Context(), c.Param("id"), activeOnly != nil && *activeOnly)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListCompanyCredits(c *gin.Context) {
	resp, err := s.creditSvc.ListByCompany(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ValidateCompanyCredit(c *gin.Context) {
	var req struct {
		ValidatedBy string `json:"validated_by"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.creditSvc.ValidateCompanyCredit(c.Request.Context(), c.Param("id"), strings.TrimSpace(req.ValidatedBy))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
