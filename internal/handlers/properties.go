package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/monocle-dev/house/internal/events"
	"github.com/monocle-dev/house/internal/models"
	"github.com/monocle-dev/house/internal/permissions"
	"github.com/monocle-dev/house/internal/query"
	"github.com/monocle-dev/house/internal/repository"
	"github.com/monocle-dev/house/internal/types"
	"github.com/monocle-dev/house/internal/utils"
)

func (h *Handler) propertyResponse(p models.Property) types.PropertyResponse {
	return types.NewPropertyResponse(p, h.store.URL)
}

func (h *Handler) publish(eventType events.Type, p *models.Property) {
	e := events.Event{Type: eventType, PropertyID: p.ID}
	if eventType != events.PropertyDeleted {
		price := p.Price
		e.Title = p.Title
		e.Price = &price
		e.SellerID = p.SellerID
	}
	h.events.Publish(e)
}

func (h *Handler) ListProperties(ctx *gin.Context) {
	filter, err := query.ParsePropertyFilter(ctx.Request.URL.Query())

	if err != nil {
		var fe query.FieldErrors
		if errors.As(err, &fe) {
			utils.ValidationError(ctx, fe)
			return
		}
		utils.InternalError(ctx, "Failed to parse property filter", err)
		return
	}

	p, ok := h.pagination(ctx)
	if !ok {
		return
	}

	properties, count, p, err := h.properties.List(ctx.Request.Context(), filter, p)

	if err != nil {
		utils.RepositoryError(ctx, "Failed to list properties", err)
		return
	}

	writePage(ctx, properties, count, p, h.propertyResponse)
}

func (h *Handler) GetProperty(ctx *gin.Context) {
	id, ok := h.pathID(ctx, "id")
	if !ok {
		return
	}

	property, err := h.properties.Get(ctx.Request.Context(), id)

	if err != nil {
		utils.RepositoryError(ctx, "Failed to fetch property", err)
		return
	}

	ctx.JSON(http.StatusOK, h.propertyResponse(*property))
}

// ownedProperty loads the listing named in the path and checks that the
// caller owns it or is an admin. It writes the error response itself.
func (h *Handler) ownedProperty(ctx *gin.Context) (*models.Property, bool) {
	id, ok := h.pathID(ctx, "id")
	if !ok {
		return nil, false
	}

	property, err := h.properties.Get(ctx.Request.Context(), id)

	if err != nil {
		utils.RepositoryError(ctx, "Failed to fetch property", err)
		return nil, false
	}

	if err := permissions.CheckOwner(utils.GetCaller(ctx), property); err != nil {
		utils.PermissionError(ctx, err)
		return nil, false
	}

	return property, true
}

// validateListing checks the rules that span fields or need the database.
func (h *Handler) validateListing(ctx *gin.Context, p *models.Property) (map[string]string, error) {
	rctx := ctx.Request.Context()
	errs := map[string]string{}

	if p.Floor > p.TotalFloors {
		errs["floor"] = "Floor cannot be greater than total floors."
	}

	if _, err := h.regions.Get(rctx, p.RegionID); err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		errs["region"] = "Invalid pk - object does not exist."
	}

	city, err := h.cities.Get(rctx, p.CityID)

	switch {
	case errors.Is(err, repository.ErrNotFound):
		errs["city"] = "Invalid pk - object does not exist."
	case err != nil:
		return nil, err
	case city.RegionID != p.RegionID:
		errs["city"] = "City does not belong to the selected region."
	}

	if p.DistrictID != nil {
		district, err := h.districts.Get(rctx, *p.DistrictID)

		switch {
		case errors.Is(err, repository.ErrNotFound):
			errs["district"] = "Invalid pk - object does not exist."
		case err != nil:
			return nil, err
		case district.CityID != p.CityID:
			errs["district"] = "District does not belong to the selected city."
		}
	}

	return errs, nil
}

// bindListing reads the write request, applies it to p and validates the result.
func (h *Handler) bindListing(ctx *gin.Context, p *models.Property, partial bool) bool {
	var req types.PropertyWriteRequest

	if !h.bindJSON(ctx, &req) {
		return false
	}

	errs := req.Validate()

	if !partial {
		for _, field := range req.Missing() {
			errs[field] = "This field is required."
		}
	}

	if len(errs) > 0 {
		utils.ValidationError(ctx, errs)
		return false
	}

	req.Apply(p)

	errs, err := h.validateListing(ctx, p)

	if err != nil {
		utils.InternalError(ctx, "Failed to validate property", err)
		return false
	}

	if len(errs) > 0 {
		utils.ValidationError(ctx, errs)
		return false
	}

	return true
}

func (h *Handler) CreateProperty(ctx *gin.Context) {
	property := models.Property{SellerID: utils.GetCaller(ctx).ID}

	if !h.bindListing(ctx, &property, false) {
		return
	}

	if err := h.properties.Create(ctx.Request.Context(), &property); err != nil {
		utils.RepositoryError(ctx, "Failed to create property", err)
		return
	}

	h.publish(events.PropertyCreated, &property)
	ctx.JSON(http.StatusCreated, h.propertyResponse(property))
}

// UpdateProperty serves PUT (every field required) and PATCH (subset).
func (h *Handler) UpdateProperty(ctx *gin.Context) {
	property, ok := h.ownedProperty(ctx)
	if !ok {
		return
	}

	if !h.bindListing(ctx, property, ctx.Request.Method == http.MethodPatch) {
		return
	}

	if err := h.properties.Update(ctx.Request.Context(), property); err != nil {
		utils.RepositoryError(ctx, "Failed to update property", err)
		return
	}

	h.publish(events.PropertyUpdated, property)
	ctx.JSON(http.StatusOK, h.propertyResponse(*property))
}

func (h *Handler) DeleteProperty(ctx *gin.Context) {
	property, ok := h.ownedProperty(ctx)
	if !ok {
		return
	}

	files, err := h.properties.Delete(ctx.Request.Context(), property.ID)

	if err != nil {
		utils.RepositoryError(ctx, "Failed to delete property", err)
		return
	}

	h.removeFiles(ctx, files)
	h.publish(events.PropertyDeleted, property)
	ctx.Status(http.StatusNoContent)
}
