package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	billingplandomain "github.com/smallbiznis/mspdesk/internal/billingplan/domain"
	"github.com/smallbiznis/mspdesk/pkg/db/pagination"
)

type createBillingPlanRequest struct {
	PlanName         string `json:"plan_name"`
	BillingFrequency string `json:"billing_frequency"`
	PlanType         string `json:"plan_type"`
	IsCustom         bool   `json:"is_custom"`
}

type updateBillingPlanRequest struct {
	PlanName         *string `json:"plan_name,omitempty"`
	BillingFrequency *string `json:"billing_frequency,omitempty"`
	PlanType         *string `json:"plan_type,omitempty"`
	IsCustom         *bool   `json:"is_custom,omitempty"`
}

type addPlanServiceRequest struct {
	ServiceID  string `json:"service_id"`
	Quantity   int    `json:"quantity"`
	CustomRate *int64 `json:"custom_rate"`
}

type updatePlanServiceRequest struct {
	Quantity   *int   `json:"quantity,omitempty"`
	CustomRate *int64 `json:"custom_rate,omitempty"`
	ClearRate  bool   `json:"clear_custom_rate,omitempty"`
}

type assignBillingPlanRequest struct {
	CompanyID       string     `json:"company_id"`
	PlanID          string     `json:"plan_id"`
	StartDate       time.Time  `json:"start_date"`
	EndDate         *time.Time `json:"end_date"`
	ServiceCategory string     `json:"service_category"`
}

func (s *Server) CreateBillingPlan(c *gin.Context) {
	var req createBillingPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.planSvc.CreatePlan(c.Request.Context(), billingplandomain.CreatePlanRequest{
		Name:             strings.TrimSpace(req.PlanName),
		BillingFrequency: strings.TrimSpace(req.BillingFrequency),
		PlanType:         strings.TrimSpace(req.PlanType),
		IsCustom:         req.IsCustom,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListBillingPlans(c *gin.Context) {
	var query struct {
		pagination.Pagination
		Search   string `form:"search"`
		PlanType string `form:"plan_type"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.planSvc.ListPlans(c.Request.Context(), billingplandomain.ListPlansRequest{
		Pagination: query.Pagination,
		Search:     strings.TrimSpace(query.Search),
		PlanType:   strings.TrimSpace(query.PlanType),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetBillingPlanByID(c *gin.Context) {
	resp, err := s.planSvc.GetPlanByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if resp == nil {
		AbortWithError(c, billingplandomain.ErrNotFound)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdateBillingPlan(c *gin.Context) {
	var req updateBillingPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.planSvc.UpdatePlan(c.Request.Context(), billingplandomain.UpdatePlanRequest{
		ID:               c.Param("id"),
		Name:             req.PlanName,
		BillingFrequency: req.BillingFrequency,
		PlanType:         req.PlanType,
		IsCustom:         req.IsCustom,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteBillingPlan(c *gin.Context) {
	if err := s.planSvc.DeletePlan(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"deleted": true}})
}

func (s *Server) AddBillingPlanService(c *gin.Context) {
	var req addPlanServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.planSvc.AddService(c.Request.Context(), billingplandomain.AddServiceRequest{
		PlanID:     c.Param("id"),
		ServiceID:  strings.TrimSpace(req.ServiceID),
		Quantity:   req.Quantity,
		CustomRate: req.CustomRate,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListBillingPlanServices(c *gin.Context) {
	resp, err := s.planSvc.ListPlanServices(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// UpdateBillingPlanService changes the quantity and/or the rate override on a
// plan-service link. clear_custom_rate removes the override so the service
// default applies again.
func (s *Server) UpdateBillingPlanService(c *gin.Context) {
	var req updatePlanServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	planID := c.Param("id")
	serviceID := c.Param("serviceId")

	var resp *billingplandomain.PlanServiceView
	if req.Quantity != nil {
		updated, err := s.planSvc.UpdateQuantity(c.Request.Context(), planID, serviceID, *req.Quantity)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		resp = updated
	}
	if req.CustomRate != nil || req.ClearRate {
		rate := req.CustomRate
		if req.ClearRate {
			rate = nil
		}
		updated, err := s.planSvc.UpdateCustomRate(c.Request.Context(), planID, serviceID, rate)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		resp = updated
	}
	if resp == nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) RemoveBillingPlanService(c *gin.Context) {
	if err := s.planSvc.RemoveService(c.Request.Context(), c.Param("id"), c.Param("serviceId")); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"deleted": true}})
}

func (s *Server) AssignBillingPlan(c *gin.Context) {
	var req assignBillingPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.planSvc.Assign(c.Request.Context(), billingplandomain.AssignRequest{
		CompanyID:       strings.TrimSpace(req.CompanyID),
		PlanID:          strings.TrimSpace(req.PlanID),
		StartDate:       req.StartDate,
		EndDate:         req.EndDate,
		ServiceCategory: strings.TrimSpace(req.ServiceCategory),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UnassignBillingPlan(c *gin.Context) {
	if err := s.planSvc.Unassign(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"deleted": true}})
}
