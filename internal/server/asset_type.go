package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	assettypedomain "github.com/smallbiznis/mspdesk/internal/assettype/domain"
)

type createAssetTypeRequest struct {
	TypeName         string         `json:"type_name"`
	ParentTypeID     *string        `json:"parent_type_id"`
	AttributesSchema map[string]any `json:"attributes_schema"`
}

type updateAssetTypeRequest struct {
	TypeName         *string        `json:"type_name,omitempty"`
	ParentTypeID     *string        `json:"parent_type_id,omitempty"`
	AttributesSchema map[string]any `json:"attributes_schema,omitempty"`
}

func (s *Server) CreateAssetType(c *gin.Context) {
	var req createAssetTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.assetTypeSvc.Create(c.Request.Context(), assettypedomain.CreateRequest{
		Name:             strings.TrimSpace(req.TypeName),
		ParentTypeID:     req.ParentTypeID,
		AttributesSchema: req.AttributesSchema,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListAssetTypes(c *gin.Context) {
	resp, err := s.assetTypeSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetAssetTypeByID(c *gin.Context) {
	resp, err := s.assetTypeSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if resp == nil {
		AbortWithError(c, assettypedomain.ErrNotFound)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdateAssetType(c *gin.Context) {
	var req updateAssetTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.assetTypeSvc.Update(c.Request.Context(), assettypedomain.UpdateRequest{
		ID:               c.Param("id"),
		Name:             req.TypeName,
		ParentTypeID:     req.ParentTypeID,
		AttributesSchema: req.AttributesSchema,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteAssetType(c *gin.Context) {
	if err := s.assetTypeSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"deleted": true}})
}
