package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/monocle-dev/house/internal/models"
	"github.com/monocle-dev/house/internal/query"
	"github.com/monocle-dev/house/internal/repository"
	"github.com/monocle-dev/house/internal/types"
	"github.com/monocle-dev/house/internal/utils"
)

func (h *Handler) ListRegions(ctx *gin.Context) {
	regions, err := h.regions.ListWithChildren(ctx.Request.Context())

	if err != nil {
		utils.RepositoryError(ctx, "Failed to list regions", err)
		return
	}

	response := make([]types.RegionResponse, 0, len(regions))
	for _, region := range regions {
		response = append(response, types.NewRegionResponse(region))
	}

	ctx.JSON(http.StatusOK, response)
}

func (h *Handler) GetRegion(ctx *gin.Context) {
	id, ok := h.pathID(ctx, "id")
	if !ok {
		return
	}

	region, err := h.regions.GetWithChildren(ctx.Request.Context(), id)

	if err != nil {
		utils.RepositoryError(ctx, "Failed to fetch region", err)
		return
	}

	ctx.JSON(http.StatusOK, types.NewRegionResponse(*region))
}

func (h *Handler) CreateRegion(ctx *gin.Context) {
	var req types.CreateRegionRequest

	if !h.bindJSON(ctx, &req) {
		return
	}

	name, ok := notBlank(ctx, "name", req.Name)
	if !ok {
		return
	}

	region := models.Region{Name: name}

	if err := h.regions.Create(ctx.Request.Context(), &region); err != nil {
		utils.InternalError(ctx, "Failed to create region", err)
		return
	}

	ctx.JSON(http.StatusCreated, types.NewRegionResponse(region))
}

func (h *Handler) DeleteRegion(ctx *gin.Context) {
	id, ok := h.pathID(ctx, "id")
	if !ok {
		return
	}

	if err := h.regions.Delete(ctx.Request.Context(), id); err != nil {
		utils.RepositoryError(ctx, "Failed to delete region", err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

// parentFilter reads an optional parent id query parameter.
func parentFilter(ctx *gin.Context, key string) (*uint, bool) {
	id, err := query.ParseID(ctx.Request.URL.Query(), key)

	if err != nil {
		var fe query.FieldErrors
		if errors.As(err, &fe) {
			utils.ValidationError(ctx, fe)
			return nil, false
		}
		utils.ValidationError(ctx, map[string]string{key: err.Error()})
		return nil, false
	}

	return id, true
}

func (h *Handler) ListCities(ctx *gin.Context) {
	regionID, ok := parentFilter(ctx, "region")
	if !ok {
		return
	}

	cities, err := h.cities.List(ctx.Request.Context(), regionID)

	if err != nil {
		utils.RepositoryError(ctx, "Failed to list cities", err)
		return
	}

	response := make([]types.CityResponse, 0, len(cities))
	for _, city := range cities {
		response = append(response, types.NewCityResponse(city))
	}

	ctx.JSON(http.StatusOK, response)
}

func (h *Handler) GetCity(ctx *gin.Context) {
	id, ok := h.pathID(ctx, "id")
	if !ok {
		return
	}

	city, err := h.cities.Get(ctx.Request.Context(), id)

	if err != nil {
		utils.RepositoryError(ctx, "Failed to fetch city", err)
		return
	}

	ctx.JSON(http.StatusOK, types.NewCityResponse(*city))
}

func (h *Handler) CreateCity(ctx *gin.Context) {
	var req types.CreateCityRequest

	if !h.bindJSON(ctx, &req) {
		return
	}

	name, ok := notBlank(ctx, "name", req.Name)
	if !ok {
		return
	}

	rctx := ctx.Request.Context()

	if _, err := h.regions.Get(rctx, req.Region); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			utils.ValidationError(ctx, map[string]string{"region": "Invalid pk - object does not exist."})
			return
		}
		utils.InternalError(ctx, "Failed to fetch region", err)
		return
	}

	city := models.City{RegionID: req.Region, Name: name}

	if err := h.cities.Create(rctx, &city); err != nil {
		utils.InternalError(ctx, "Failed to create city", err)
		return
	}

	ctx.JSON(http.StatusCreated, types.NewCityResponse(city))
}

func (h *Handler) DeleteCity(ctx *gin.Context) {
	id, ok := h.pathID(ctx, "id")
	if !ok {
		return
	}

	if err := h.cities.Delete(ctx.Request.Context(), id); err != nil {
		utils.RepositoryError(ctx, "Failed to delete city", err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

func (h *Handler) ListDistricts(ctx *gin.Context) {
	cityID, ok := parentFilter(ctx, "city")
	if !ok {
		return
	}

	districts, err := h.districts.List(ctx.Request.Context(), cityID)

	if err != nil {
		utils.RepositoryError(ctx, "Failed to list districts", err)
		return
	}

	response := make([]types.DistrictResponse, 0, len(districts))
	for _, district := range districts {
		response = append(response, types.NewDistrictResponse(district))
	}

	ctx.JSON(http.StatusOK, response)
}

func (h *Handler) GetDistrict(ctx *gin.Context) {
	id, ok := h.pathID(ctx, "id")
	if !ok {
		return
	}

	district, err := h.districts.Get(ctx.Request.Context(), id)

	if err != nil {
		utils.RepositoryError(ctx, "Failed to fetch district", err)
		return
	}

	ctx.JSON(http.StatusOK, types.NewDistrictResponse(*district))
}

func (h *Handler) CreateDistrict(ctx *gin.Context) {
	var req types.CreateDistrictRequest

	if !h.bindJSON(ctx, &req) {
		return
	}

	name, ok := notBlank(ctx, "name", req.Name)
	if !ok {
		return
	}

	rctx := ctx.Request.Context()

	if _, err := h.cities.Get(rctx, req.City); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			utils.ValidationError(ctx, map[string]string{"city": "Invalid pk - object does not exist."})
			return
		}
		utils.InternalError(ctx, "Failed to fetch city", err)
		return
	}

	district := models.District{CityID: req.City, Name: name}

	if err := h.districts.Create(rctx, &district); err != nil {
		utils.InternalError(ctx, "Failed to create district", err)
		return
	}

	ctx.JSON(http.StatusCreated, types.NewDistrictResponse(district))
}

func (h *Handler) DeleteDistrict(ctx *gin.Context) {
	id, ok := h.pathID(ctx, "id")
	if !ok {
		return
	}

	if err := h.districts.Delete(ctx.Request.Context(), id); err != nil {
		utils.RepositoryError(ctx, "Failed to delete district", err)
		return
	}

	ctx.Status(http.StatusNoContent)
}
