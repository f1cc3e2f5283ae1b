package query

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/monocle-dev/house/internal/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var orderColumns = map[string]string{
	"price":      "properties.price",
	"area":       "properties.area",
	"created_at": "properties.created_at",
}

type OrderTerm struct {
	Field string
	Desc  bool
}

// PropertyFilter holds the listing filters. Nil fields are not applied.
type PropertyFilter struct {
	RegionID     *uint
	CityID       *uint
	DistrictID   *uint
	PropertyType *models.PropertyType
	PriceMin     *decimal.Decimal
	PriceMax     *decimal.Decimal
	Search       []string
	Ordering     []OrderTerm
}

// ParsePropertyFilter reads region, city, district, property_type,
// price__gte, price__lte, search and ordering.
func ParsePropertyFilter(values url.Values) (PropertyFilter, error) {
	var (
		f    PropertyFilter
		errs = FieldErrors{}
	)

	for key, dst := range map[string]**uint{
		"region":   &f.RegionID,
		"city":     &f.CityID,
		"district": &f.DistrictID,
	} {
		id, err := ParseID(values, key)
		if err != nil {
			errs[key] = msgInteger
			continue
		}
		*dst = id
	}

	if raw := strings.TrimSpace(values.Get("property_type")); raw != "" {
		pt := models.PropertyType(raw)
		if pt.Valid() {
			f.PropertyType = &pt
		} else {
			errs["property_type"] = fmt.Sprintf("Select a valid choice. %s is not one of the available choices.", raw)
		}
	}

	for key, dst := range map[string]**decimal.Decimal{
		"price__gte": &f.PriceMin,
		"price__lte": &f.PriceMax,
	} {
		raw := strings.TrimSpace(values.Get(key))
		if raw == "" {
			continue
		}
		d, err := decimal.NewFromString(raw)
		if err != nil {
			errs[key] = "Enter a number."
			continue
		}
		*dst = &d
	}

	f.Search = strings.Fields(values.Get("search"))
	f.Ordering = ParseOrdering(values.Get("ordering"))

	return f, errs.orNil()
}

// ParseOrdering parses a comma separated list of price, area and created_at,
// each optionally prefixed by "-". Unknown fields are dropped; an empty
// result falls back to newest first.
func ParseOrdering(raw string) []OrderTerm {
	var terms []OrderTerm
	seen := map[string]bool{}

	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		desc := strings.HasPrefix(part, "-")
		field := strings.TrimPrefix(part, "-")

		if _, ok := orderColumns[field]; !ok || seen[field] {
			continue
		}
		seen[field] = true
		terms = append(terms, OrderTerm{Field: field, Desc: desc})
	}

	if len(terms) == 0 {
		return []OrderTerm{{Field: "created_at", Desc: true}}
	}

	return terms
}

// Where applies the filter conditions to tx.
func (f PropertyFilter) Where(tx *gorm.DB) *gorm.DB {
	if f.RegionID != nil {
		tx = tx.Where("properties.region_id = ?", *f.RegionID)
	}
	if f.CityID != nil {
		tx = tx.Where("properties.city_id = ?", *f.CityID)
	}
	if f.DistrictID != nil {
		tx = tx.Where("properties.district_id = ?", *f.DistrictID)
	}
	if f.PropertyType != nil {
		tx = tx.Where("properties.property_type = ?", *f.PropertyType)
	}
	if f.PriceMin != nil {
		tx = tx.Where("properties.price >= ?", *f.PriceMin)
	}
	if f.PriceMax != nil {
		tx = tx.Where("properties.price <= ?", *f.PriceMax)
	}

	for _, term := range f.Search {
		pattern := "%" + escapeLike(strings.ToLower(term)) + "%"
		tx = tx.Where(
			"(LOWER(properties.title) LIKE ? ESCAPE '!' OR LOWER(properties.description) LIKE ? ESCAPE '!' OR LOWER(properties.address) LIKE ? ESCAPE '!')",
			pattern, pattern, pattern,
		)
	}

	return tx
}

// Order applies the ordering terms followed by an id tie-breaker that runs in
// the direction of the last term.
func (f PropertyFilter) Order(tx *gorm.DB) *gorm.DB {
	terms := f.Ordering
	if len(terms) == 0 {
		terms = ParseOrdering("")
	}

	cols := make([]clause.OrderByColumn, 0, len(terms)+1)
	for _, term := range terms {
		cols = append(cols, clause.OrderByColumn{
			Column: clause.Column{Name: orderColumns[term.Field], Raw: true},
			Desc:   term.Desc,
		})
	}
	cols = append(cols, clause.OrderByColumn{
		Column: clause.Column{Name: "properties.id", Raw: true},
		Desc:   terms[len(terms)-1].Desc,
	})

	return tx.Order(clause.OrderBy{Columns: cols})
}

func escapeLike(s string) string {
	return strings.NewReplacer("!", "!!", "%", "!%", "_", "!_").Replace(s)
}
