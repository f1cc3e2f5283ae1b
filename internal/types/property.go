package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/monocle-dev/house/internal/models"
	"github.com/shopspring/decimal"
)

type ImageResponse struct {
	ID    uint   `json:"id"`
	Image string `json:"image"`
}

type DocumentResponse struct {
	ID   uint   `json:"id"`
	File string `json:"file"`
}

type PropertyResponse struct {
	ID           uint                `json:"id"`
	Title        string              `json:"title"`
	Description  string              `json:"description"`
	PropertyType models.PropertyType `json:"property_type"`
	Region       string              `json:"region"`
	City         string              `json:"city"`
	District     *string             `json:"district"`
	RegionID     uint                `json:"region_id"`
	CityID       uint                `json:"city_id"`
	DistrictID   *uint               `json:"district_id"`
	Address      string              `json:"address"`
	Area         float64             `json:"area"`
	Price        string              `json:"price"`
	Rooms        uint                `json:"rooms"`
	Floor        uint                `json:"floor"`
	TotalFloors  uint                `json:"total_floors"`
	Seller       UserResponse        `json:"seller"`
	Images       []ImageResponse     `json:"images"`
	Documents    []DocumentResponse  `json:"documents"`
	CreatedAt    time.Time           `json:"created_at"`
}

// NewPropertyResponse expects Region, City, District, Seller, Images and
// Documents to be preloaded. mediaURL turns a stored path into a public URL.
func NewPropertyResponse(p models.Property, mediaURL func(string) string) PropertyResponse {
	resp := PropertyResponse{
		ID:           p.ID,
		Title:        p.Title,
		Description:  p.Description,
		PropertyType: p.PropertyType,
		Region:       p.Region.Name,
		City:         p.City.Name,
		RegionID:     p.RegionID,
		CityID:       p.CityID,
		DistrictID:   p.DistrictID,
		Address:      p.Address,
		Area:         p.Area,
		Price:        p.Price.StringFixed(2),
		Rooms:        p.Rooms,
		Floor:        p.Floor,
		TotalFloors:  p.TotalFloors,
		Seller:       NewUserResponse(p.Seller),
		Images:       make([]ImageResponse, 0, len(p.Images)),
		Documents:    make([]DocumentResponse, 0, len(p.Documents)),
		CreatedAt:    p.CreatedAt,
	}

	if p.District != nil {
		name := p.District.Name
		resp.District = &name
	}

	for _, img := range p.Images {
		resp.Images = append(resp.Images, NewImageResponse(img, mediaURL))
	}
	for _, doc := range p.Documents {
		resp.Documents = append(resp.Documents, NewDocumentResponse(doc, mediaURL))
	}

	return resp
}

func NewImageResponse(img models.PropertyImage, mediaURL func(string) string) ImageResponse {
	return ImageResponse{ID: img.ID, Image: mediaURL(img.Image)}
}

func NewDocumentResponse(doc models.PropertyDocument, mediaURL func(string) string) DocumentResponse {
	return DocumentResponse{ID: doc.ID, File: mediaURL(doc.File)}
}

// NullableID distinguishes an absent JSON key (Set false) from an explicit null.
type NullableID struct {
	Set   bool
	Value *uint
}

func (n *NullableID) UnmarshalJSON(data []byte) error {
	n.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		n.Value = nil
		return nil
	}

	var id uint
	if err := json.Unmarshal(data, &id); err != nil {
		return fmt.Errorf("district: %w", err)
	}
	n.Value = &id
	return nil
}

// PropertyWriteRequest carries the client-writable listing fields. Every field is
// optional at the binding level so PATCH can send a subset; full writes are
// checked with Missing. The seller is never read from the body.
type PropertyWriteRequest struct {
	Title        *string          `json:"title" binding:"omitempty,min=1,max=100"`
	Description  *string          `json:"description" binding:"omitempty,min=1"`
	PropertyType *string          `json:"property_type"`
	Region       *uint            `json:"region"`
	City         *uint            `json:"city"`
	District     NullableID       `json:"district"`
	Address      *string          `json:"address" binding:"omitempty,min=1,max=255"`
	Area         *float64         `json:"area" binding:"omitempty,gt=0"`
	Price        *decimal.Decimal `json:"price"`
	Rooms        *int             `json:"rooms" binding:"omitempty,min=1"`
	Floor        *int             `json:"floor" binding:"omitempty,min=1"`
	TotalFloors  *int             `json:"total_floors" binding:"omitempty,min=1"`
}

// Missing lists the fields a full write must provide but this request omits.
func (r PropertyWriteRequest) Missing() []string {
	var missing []string
	check := func(name string, present bool) {
		if !present {
			missing = append(missing, name)
		}
	}

	check("title", r.Title != nil)
	check("description", r.Description != nil)
	check("property_type", r.PropertyType != nil)
	check("region", r.Region != nil)
	check("city", r.City != nil)
	check("address", r.Address != nil)
	check("area", r.Area != nil)
	check("price", r.Price != nil)
	check("rooms", r.Rooms != nil)
	check("floor", r.Floor != nil)
	check("total_floors", r.TotalFloors != nil)

	return missing
}

var maxPrice = decimal.New(1, 10)

// Validate checks the field-level rules that binding tags cannot express.
// Cross-field rules run after Apply against the merged listing.
func (r PropertyWriteRequest) Validate() map[string]string {
	errs := map[string]string{}

	if r.PropertyType != nil && !models.PropertyType(*r.PropertyType).Valid() {
		errs["property_type"] = fmt.Sprintf("%q is not a valid choice.", *r.PropertyType)
	}

	if r.Price != nil {
		switch p := *r.Price; {
		case p.IsNegative():
			errs["price"] = "Ensure this value is greater than or equal to 0."
		case !p.Equal(p.Truncate(2)):
			errs["price"] = "Ensure that there are no more than 2 decimal places."
		case p.GreaterThanOrEqual(maxPrice):
			errs["price"] = "Ensure that there are no more than 12 digits in total."
		}
	}

	return errs
}

// Apply copies the provided fields onto p.
func (r PropertyWriteRequest) Apply(p *models.Property) {
	if r.Title != nil {
		p.Title = *r.Title
	}
	if r.Description != nil {
		p.Description = *r.Description
	}
	if r.PropertyType != nil {
		p.PropertyType = models.PropertyType(*r.PropertyType)
	}
	if r.Region != nil {
		p.RegionID = *r.Region
	}
	if r.City != nil {
		p.CityID = *r.City
	}
	if r.District.Set {
		p.DistrictID = r.District.Value
	}
	if r.Address != nil {
		p.Address = *r.Address
	}
	if r.Area != nil {
		p.Area = *r.Area
	}
	if r.Price != nil {
		p.Price = *r.Price
	}
	if r.Rooms != nil {
		p.Rooms = uint(*r.Rooms)
	}
	if r.Floor != nil {
		p.Floor = uint(*r.Floor)
	}
	if r.TotalFloors != nil {
		p.TotalFloors = uint(*r.TotalFloors)
	}
}
