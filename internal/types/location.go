package types

import "github.com/monocle-dev/house/internal/models"

type DistrictResponse struct {
	ID     uint   `json:"id"`
	Name   string `json:"name"`
	CityID uint   `json:"city_id"`
}

type CityResponse struct {
	ID        uint               `json:"id"`
	Name      string             `json:"name"`
	RegionID  uint               `json:"region_id"`
	Districts []DistrictResponse `json:"districts"`
}

type RegionResponse struct {
	ID     uint           `json:"id"`
	Name   string         `json:"name"`
	Cities []CityResponse `json:"cities"`
}

func NewDistrictResponse(d models.District) DistrictResponse {
	return DistrictResponse{ID: d.ID, Name: d.Name, CityID: d.CityID}
}

func NewCityResponse(c models.City) CityResponse {
	districts := make([]DistrictResponse, 0, len(c.Districts))
	for _, d := range c.Districts {
		districts = append(districts, NewDistrictResponse(d))
	}
	return CityResponse{ID: c.ID, Name: c.Name, RegionID: c.RegionID, Districts: districts}
}

func NewRegionResponse(r models.Region) RegionResponse {
	cities := make([]CityResponse, 0, len(r.Cities))
	for _, c := range r.Cities {
		cities = append(cities, NewCityResponse(c))
	}
	return RegionResponse{ID: r.ID, Name: r.Name, Cities: cities}
}

type CreateRegionRequest struct {
	Name string `json:"name" binding:"required,max=100"`
}

type CreateCityRequest struct {
	Name   string `json:"name" binding:"required,max=100"`
	Region uint   `json:"region" binding:"required"`
}

type CreateDistrictRequest struct {
	Name string `json:"name" binding:"required,max=100"`
	City uint   `json:"city" binding:"required"`
}
