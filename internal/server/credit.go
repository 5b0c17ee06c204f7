package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	creditdomain "github.com/smallbiznis/mspdesk/internal/credit/domain"
)

type issueCreditRequest struct {
	CompanyID      string     `json:"company_id"`
	Amount         int64      `json:"amount"`
	ExpirationDate *time.Time `json:"expiration_date"`
}

type applyCreditRequest struct {
	Amount int64 `json:"amount"`
}

type updateCreditExpirationRequest struct {
	ExpirationDate *time.Time `json:"expiration_date"`
}

type reportActionRequest struct {
	ValidatedBy string `json:"validated_by"`
}

func (s *Server) IssueCredit(c *gin.Context) {
	var req issueCreditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.creditSvc.IssueCredit(c.Request.Context(), creditdomain.IssueCreditRequest{
		CompanyID:      strings.TrimSpace(req.CompanyID),
		Amount:         req.Amount,
		ExpirationDate: req.ExpirationDate,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ApplyCredit(c *gin.Context) {
	var req applyCreditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.creditSvc.ApplyCredit(c.Request.Context(), creditdomain.ApplyCreditRequest{
		CreditID: c.Param("id"),
		Amount:   req.Amount,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdateCreditExpiration(c *gin.Context) {
	var req updateCreditExpirationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.creditSvc.UpdateExpiration(c.Request.Context(), c.Param("id"), req.ExpirationDate)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListReconciliationReports(c *gin.Context) {
	var query struct {
		CompanyID string `form:"company_id"`
		Status    string `form:"status"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.creditSvc.ListReports(c.Request.Context(), creditdomain.ListReportsRequest{
		CompanyID: strings.TrimSpace(query.CompanyID),
		Status:    strings.TrimSpace(query.Status),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) MarkReportInReview(c *gin.Context) {
	var req reportActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.creditSvc.MarkInReview(c.Request.Context(), c.Param("id"), strings.TrimSpace(req.ValidatedBy))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ResolveReport(c *gin.Context) {
	var req reportActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.creditSvc.ResolveReport(c.Request.Context(), c.Param("id"), strings.TrimSpace(req.ValidatedBy))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
