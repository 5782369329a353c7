package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	apierrors "github.com/yukikurage/church-network-api/internal/errors"
	"github.com/yukikurage/church-network-api/internal/middleware"
	"github.com/yukikurage/church-network-api/internal/models"
	"github.com/yukikurage/church-network-api/internal/services"
	"github.com/yukikurage/church-network-api/internal/utils"
)

// ResourceHandler binds one scoped resource service to HTTP.
type ResourceHandler[T any, PT models.ScopedPtr[T], In services.Payload] struct {
	service *services.ResourceService[T, PT, In]
}

// NewResourceHandler creates a ResourceHandler for service.
func NewResourceHandler[T any, PT models.ScopedPtr[T], In services.Payload](service *services.ResourceService[T, PT, In]) *ResourceHandler[T, PT, In] {
	return &ResourceHandler[T, PT, In]{service: service}
}

// Register mounts list and create on group, plus update and delete by id
// when the kind supports them.
func (h *ResourceHandler[T, PT, In]) Register(group *gin.RouterGroup) {
	kind := h.service.Kind()
	path := "/" + kind.Plural

	group.GET(path, h.List)
	group.POST(path, h.Create)
	if kind.Updatable {
		group.PUT(path+"/:id", middleware.RequireRecordID(), h.Update)
	}
	if kind.Delete != services.DeleteDisabled {
		group.DELETE(path+"/:id", middleware.RequireRecordID(), h.Delete)
	}
}

// List returns the records visible to the caller
func (h *ResourceHandler[T, PT, In]) List(c *gin.Context) {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	kind := h.service.Kind()
	input := services.ListInput{Filters: make(map[string]uint64)}

	if raw := c.Query("organization_id"); raw != "" {
		orgID, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid organization_id")
			return
		}
		input.OrganizationID = &orgID
	}
	for _, column := range kind.FilterColumns {
		raw := c.Query(column)
		if raw == "" {
			continue
		}
		value, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid "+column)
			return
		}
		input.Filters[column] = value
	}

	pagination := utils.GetPaginationParams(c)
	input.Page = pagination.Page
	input.PageSize = pagination.Limit

	records, err := h.service.List(c.Request.Context(), identity, input)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	response := gin.H{kind.Plural: records}
	if pagination.Limit > 0 {
		response["pagination"] = utils.PaginationResponse{Page: pagination.Page, Limit: pagination.Limit}
	}
	c.JSON(http.StatusOK, response)
}

// Create inserts a record under the resolved target organization
func (h *ResourceHandler[T, PT, In]) Create(c *gin.Context) {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	var req In
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	record, err := h.service.Create(c.Request.Context(), identity, req)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, record)
}

// Update replaces the mutable fields of a record
func (h *ResourceHandler[T, PT, In]) Update(c *gin.Context) {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}
	recordID, _ := middleware.GetRecordID(c)

	var req In
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	record, err := h.service.Update(c.Request.Context(), identity, recordID, req)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, record)
}

// Delete removes a record
func (h *ResourceHandler[T, PT, In]) Delete(c *gin.Context) {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}
	recordID, _ := middleware.GetRecordID(c)

	if err := h.service.Delete(c.Request.Context(), identity, recordID); err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("%s %d deleted", h.service.Kind().Name, recordID),
	})
}
