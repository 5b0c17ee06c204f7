package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	assetassociationdomain "github.com/smallbiznis/mspdesk/internal/assetassociation/domain"
)

type createAssetAssociationRequest struct {
	AssetID          string `json:"asset_id"`
	EntityID         string `json:"entity_id"`
	EntityType       string `json:"entity_type"`
	RelationshipType string `json:"relationship_type"`
	CreatedBy        string `json:"created_by"`
}

func (s *Server) CreateAssetAssociation(c *gin.Context) {
	var req createAssetAssociationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.associationSvc.Create(c.Request.Context(), assetassociationdomain.CreateRequest{
		AssetID:          strings.TrimSpace(req.AssetID),
		EntityID:         strings.TrimSpace(req.EntityID),
		EntityType:       strings.TrimSpace(req.EntityType),
		RelationshipType: strings.TrimSpace(req.RelationshipType),
		CreatedBy:        strings.TrimSpace(req.CreatedBy),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListAssetAssociations(c *gin.Context) {
	resp, err := s.associationSvc.ListByAsset(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// FindAssetAssociations supports two lookups: by entity, or the single link
// between an asset and an entity when asset_id is also supplied.
func (s *Server) FindAssetAssociations(c *gin.Context) {
	var query struct {
		AssetID    string `form:"asset_id"`
		EntityID   string `form:"entity_id"`
		EntityType string `form:"entity_type"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	assetID := strings.TrimSpace(query.AssetID)
	entityID := strings.TrimSpace(query.EntityID)
	entityType := strings.TrimSpace(query.EntityType)

	if assetID != "" && entityID != "" {
		resp, err := s.associationSvc.FindByAssetAndEntity(c.Request.Context(), assetID, entityID, entityType)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		if resp == nil {
			AbortWithError(c, assetassociationdomain.ErrNotFound)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": resp})
		return
	}

	resp, err := s.associationSvc.ListByEntity(c.Request.Context(), entityID, entityType)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteAssetAssociation(c *gin.Context) {
	var query struct {
		AssetID    string `form:"asset_id"`
		EntityID   string `form:"entity_id"`
		EntityType string `form:"entity_type"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	err := s.associationSvc.Delete(c.Request.Context(),
		strings.TrimSpace(query.AssetID),
		strings.TrimSpace(query.EntityID),
		strings.TrimSpace(query.EntityType),
	)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"deleted": true}})
}
