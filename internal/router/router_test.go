package router_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/monocle-dev/house/internal/auth"
	"github.com/monocle-dev/house/internal/config"
	"github.com/monocle-dev/house/internal/events"
	"github.com/monocle-dev/house/internal/handlers"
	"github.com/monocle-dev/house/internal/models"
	"github.com/monocle-dev/house/internal/router"
	"github.com/monocle-dev/house/internal/scheduler"
	"github.com/monocle-dev/house/internal/storage"
	"github.com/monocle-dev/house/internal/testutil"
	"github.com/monocle-dev/house/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type recorder struct {
	events []events.Event
}

func (r *recorder) Publish(e events.Event) {
	r.events = append(r.events, e)
}

type testServer struct {
	t      *testing.T
	db     *gorm.DB
	engine *gin.Engine
	events *recorder
}

// serverOption adjusts the wiring before the router is built.
type serverOption func(deps *handlers.Dependencies, server *config.ServerConfig)

func newServer(t *testing.T, opts ...serverOption) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	conn := testutil.NewDB(t)
	tokens := auth.NewTokenManager(config.AuthConfig{
		JWTSecret:       "router-test-secret",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: time.Hour,
	}, auth.NewGormBlacklist(conn))

	rec := &recorder{}
	deps := handlers.Dependencies{
		DB:     conn,
		Tokens: tokens,
		Store:  storage.NewLocal(t.TempDir(), "/media/"),
		Hub:    events.NewHub(nil),
		Events: rec,
		Paging: config.PagingConfig{PageSize: 2, MaxPageSize: 10},
		Media:  config.MediaConfig{MaxUploadBytes: 1 << 20},
	}
	server := config.ServerConfig{AllowedOrigins: []string{"http://localhost:3000"}}
	for _, opt := range opts {
		opt(&deps, &server)
	}

	return &testServer{
		t:      t,
		db:     conn,
		engine: router.NewRouter(handlers.New(deps), tokens, server),
		events: rec,
	}
}

func (s *testServer) request(req *http.Request, token string) *httptest.ResponseRecorder {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func (s *testServer) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	s.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	return s.request(req, token)
}

func (s *testServer) upload(path, token, field, filename string, content []byte) *httptest.ResponseRecorder {
	s.t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile(field, filename)
	require.NoError(s.t, err)
	_, err = part.Write(content)
	require.NoError(s.t, err)
	require.NoError(s.t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return s.request(req, token)
}

func (s *testServer) login(username string) types.TokenPairResponse {
	s.t.Helper()

	w := s.do(http.MethodPost, "/auth/login/", "", gin.H{"username": username, "password": testutil.Password})
	require.Equal(s.t, http.StatusOK, w.Code, w.Body.String())

	var pair types.TokenPairResponse
	decode(s.t, w, &pair)
	return pair
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func pngBytes(t *testing.T, width, height int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, width, height))))
	return buf.Bytes()
}

func listingBody(loc testutil.Location, title, price string) gin.H {
	return gin.H{
		"title":         title,
		"description":   "Sunny flat near the park",
		"property_type": "apartment",
		"region":        loc.Region.ID,
		"city":          loc.City.ID,
		"district":      loc.District.ID,
		"address":       "12 Amir Temur Avenue",
		"area":          72.5,
		"price":         price,
		"rooms":         3,
		"floor":         4,
		"total_floors":  9,
	}
}

func propertyIDs(t *testing.T, w *httptest.ResponseRecorder) []uint {
	t.Helper()
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var page types.Page[types.PropertyResponse]
	decode(t, w, &page)

	ids := make([]uint, 0, len(page.Results))
	for _, p := range page.Results {
		ids = append(ids, p.ID)
	}
	return ids
}

func TestRegisterTokenAuthenticatesNewUser(t *testing.T) {
	s := newServer(t)

	w := s.do(http.MethodPost, "/auth/register/", "", gin.H{
		"first_name": "Dilnoza",
		"username":   "dilnoza",
		"email":      "Dilnoza@Example.com",
		"password":   "s3cret-pass",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var pair types.TokenPairResponse
	decode(t, w, &pair)
	assert.Equal(t, "dilnoza", pair.User.Username)
	assert.Equal(t, "dilnoza@example.com", pair.User.Email)
	require.NotEmpty(t, pair.Access)
	require.NotEmpty(t, pair.Refresh)

	w = s.do(http.MethodGet, "/users/me/", pair.Access, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var me types.UserResponse
	decode(t, w, &me)
	assert.Equal(t, "dilnoza", me.Username)
	assert.Equal(t, models.RoleBuyer, me.Role)

	w = s.do(http.MethodPost, "/auth/register/", "", gin.H{
		"first_name": "Other",
		"username":   "dilnoza",
		"email":      "other@example.com",
		"password":   "s3cret-pass",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "username")
}

func TestRegisterValidation(t *testing.T) {
	s := newServer(t)

	w := s.do(http.MethodPost, "/auth/register/", "", gin.H{"username": "x", "email": "not-an-email", "password": "short"})
	require.Equal(t, http.StatusBadRequest, w.Code)

	var body types.ErrorResponse
	decode(t, w, &body)
	assert.Equal(t, types.CodeInvalid, body.Code)
	assert.Contains(t, body.Errors, "email")
	assert.Contains(t, body.Errors, "password")
	assert.Contains(t, body.Errors, "first_name")

	w = s.do(http.MethodPost, "/auth/register/", "", gin.H{
		"first_name": "A", "username": "a", "email": "a@example.com", "password": "long-enough", "role": "admin",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	s := newServer(t)
	testutil.CreateUser(t, s.db, "seller", models.RoleSeller)

	for _, body := range []gin.H{
		{"username": "seller", "password": "wrong-password"},
		{"username": "nobody", "password": testutil.Password},
	} {
		w := s.do(http.MethodPost, "/auth/login/", "", body)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.JSONEq(t, `{"detail":"invalid credentials"}`, w.Body.String())
	}
}

func TestInvalidBearerTokenIsRejected(t *testing.T) {
	s := newServer(t)

	w := s.do(http.MethodGet, "/properties/", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	var body types.ErrorResponse
	decode(t, w, &body)
	assert.Equal(t, types.CodeTokenNotValid, body.Code)
}

func TestLogoutAndTokenLifecycle(t *testing.T) {
	s := newServer(t)
	testutil.CreateUser(t, s.db, "buyer", models.RoleBuyer)
	pair := s.login("buyer")

	w := s.do(http.MethodPost, "/api/token/refresh/", "", gin.H{"refresh": pair.Refresh})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var refreshed types.AccessResponse
	decode(t, w, &refreshed)
	assert.NotEmpty(t, refreshed.Access)

	w = s.do(http.MethodPost, "/auth/logout/", pair.Access, gin.H{"refresh": "not-a-token"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), types.CodeTokenNotValid)

	w = s.do(http.MethodPost, "/auth/logout/", pair.Access, gin.H{"refresh": pair.Refresh})
	assert.Equal(t, http.StatusResetContent, w.Code, w.Body.String())

	w = s.do(http.MethodPost, "/auth/logout/", pair.Access, gin.H{"refresh": pair.Refresh})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), types.CodeTokenBlacklisted)

	w = s.do(http.MethodPost, "/api/token/refresh/", "", gin.H{"refresh": pair.Refresh})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(http.MethodPost, "/auth/logout/", "", gin.H{"refresh": pair.Refresh})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestBlacklistEndpoint(t *testing.T) {
	s := newServer(t)
	testutil.CreateUser(t, s.db, "buyer", models.RoleBuyer)
	pair := s.login("buyer")

	w := s.do(http.MethodPost, "/api/token/blacklist/", "", gin.H{"refresh": pair.Refresh})
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{}`, w.Body.String())

	w = s.do(http.MethodPost, "/api/token/blacklist/", "", gin.H{"refresh": pair.Refresh})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreatePropertyPermissions(t *testing.T) {
	s := newServer(t)
	loc := testutil.CreateLocation(t, s.db, "Tashkent")
	testutil.CreateUser(t, s.db, "buyer", models.RoleBuyer)
	seller := testutil.CreateUser(t, s.db, "seller", models.RoleSeller)

	w := s.do(http.MethodPost, "/properties/", "", listingBody(loc, "Flat", "100000.00"))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(http.MethodPost, "/properties/", s.login("buyer").Access, listingBody(loc, "Flat", "100000.00"))
	assert.Equal(t, http.StatusForbidden, w.Code)

	body := listingBody(loc, "Flat", "100000.5")
	body["seller"] = 999
	w = s.do(http.MethodPost, "/properties/", s.login("seller").Access, body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created types.PropertyResponse
	decode(t, w, &created)
	assert.Equal(t, seller.ID, created.Seller.ID)
	assert.Equal(t, "100000.50", created.Price)
	assert.Equal(t, "Tashkent", created.Region)
	assert.Equal(t, "Tashkent City", created.City)
	require.NotNil(t, created.District)
	assert.Equal(t, "Tashkent District", *created.District)

	require.Len(t, s.events.events, 1)
	assert.Equal(t, events.PropertyCreated, s.events.events[0].Type)
	assert.Equal(t, created.ID, s.events.events[0].PropertyID)
}

func TestCreatePropertyValidation(t *testing.T) {
	s := newServer(t)
	loc := testutil.CreateLocation(t, s.db, "Tashkent")
	other := testutil.CreateLocation(t, s.db, "Samarkand")
	testutil.CreateUser(t, s.db, "seller", models.RoleSeller)
	token := s.login("seller").Access

	w := s.do(http.MethodPost, "/properties/", token, gin.H{"title": "Only a title"})
	require.Equal(t, http.StatusBadRequest, w.Code)

	var body types.ErrorResponse
	decode(t, w, &body)
	assert.Contains(t, body.Errors, "price")
	assert.Contains(t, body.Errors, "region")

	bad := listingBody(loc, "Flat", "10.00")
	bad["floor"] = 10
	bad["city"] = other.City.ID
	w = s.do(http.MethodPost, "/properties/", token, bad)
	require.Equal(t, http.StatusBadRequest, w.Code)

	body = types.ErrorResponse{}
	decode(t, w, &body)
	assert.Contains(t, body.Errors, "floor")
	assert.Contains(t, body.Errors, "city")

	bad = listingBody(loc, "Flat", "10.001")
	bad["property_type"] = "castle"
	w = s.do(http.MethodPost, "/properties/", token, bad)
	require.Equal(t, http.StatusBadRequest, w.Code)

	body = types.ErrorResponse{}
	decode(t, w, &body)
	assert.Contains(t, body.Errors, "price")
	assert.Contains(t, body.Errors, "property_type")
}

func TestNonOwnerCannotModifyProperty(t *testing.T) {
	s := newServer(t)
	loc := testutil.CreateLocation(t, s.db, "Tashkent")
	owner := testutil.CreateUser(t, s.db, "owner", models.RoleSeller)
	testutil.CreateUser(t, s.db, "intruder", models.RoleSeller)
	testutil.CreateUser(t, s.db, "admin", models.RoleAdmin)
	property := testutil.CreateProperty(t, s.db, owner, loc, "Original", "5000.00")
	path := fmt.Sprintf("/properties/%d/", property.ID)

	intruder := s.login("intruder").Access

	w := s.do(http.MethodPatch, path, intruder, gin.H{"title": "Hijacked"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(http.MethodDelete, path, intruder, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	var stored models.Property
	require.NoError(t, s.db.First(&stored, property.ID).Error)
	assert.Equal(t, "Original", stored.Title)

	w = s.do(http.MethodPatch, path, s.login("owner").Access, gin.H{"title": "Renamed", "district": nil})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var updated types.PropertyResponse
	decode(t, w, &updated)
	assert.Equal(t, "Renamed", updated.Title)
	assert.Equal(t, "5000.00", updated.Price)
	assert.Nil(t, updated.District)

	w = s.do(http.MethodPut, path, s.login("owner").Access, gin.H{"title": "Partial put"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodDelete, path, s.login("admin").Access, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = s.do(http.MethodGet, path, "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPropertyDetailMatchesUploadedMedia(t *testing.T) {
	s := newServer(t)
	loc := testutil.CreateLocation(t, s.db, "Tashkent")
	seller := testutil.CreateUser(t, s.db, "seller", models.RoleSeller)
	property := testutil.CreateProperty(t, s.db, seller, loc, "With media", "1.00")
	token := s.login("seller").Access
	base := fmt.Sprintf("/properties/%d", property.ID)

	imageIDs := map[uint]bool{}
	for i := 0; i < 2; i++ {
		w := s.upload(base+"/images/", token, "image", fmt.Sprintf("room%d.png", i), pngBytes(t, 4, 3))
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var img types.ImageResponse
		decode(t, w, &img)
		assert.Contains(t, img.Image, "/media/property/images/")
		imageIDs[img.ID] = true
	}

	w := s.upload(base+"/documents/", token, "file", "deed.pdf", []byte("%PDF-1.4"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var doc types.DocumentResponse
	decode(t, w, &doc)

	w = s.upload(base+"/images/", token, "image", "fake.png", []byte("not an image"))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodGet, base+"/", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var detail types.PropertyResponse
	decode(t, w, &detail)
	assert.Equal(t, seller.ID, detail.Seller.ID)
	assert.Equal(t, seller.Username, detail.Seller.Username)
	assert.Equal(t, seller.Email, detail.Seller.Email)
	assert.Equal(t, models.RoleSeller, detail.Seller.Role)

	got := map[uint]bool{}
	for _, img := range detail.Images {
		got[img.ID] = true
	}
	assert.Equal(t, imageIDs, got)
	require.Len(t, detail.Documents, 1)
	assert.Equal(t, doc.ID, detail.Documents[0].ID)

	var stored models.PropertyImage
	require.NoError(t, s.db.First(&stored, detail.Images[0].ID).Error)
	assert.EqualValues(t, 4, stored.Metadata["width"])
	assert.Equal(t, "png", stored.Metadata["format"])

	w = s.do(http.MethodDelete, fmt.Sprintf("%s/images/%d/", base, detail.Images[0].ID), token, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = s.do(http.MethodGet, base, "", nil)
	detail = types.PropertyResponse{}
	decode(t, w, &detail)
	assert.Len(t, detail.Images, 1)
}

func TestPropertyListFiltersOrderingAndPages(t *testing.T) {
	s := newServer(t)
	loc := testutil.CreateLocation(t, s.db, "Tashkent")
	seller := testutil.CreateUser(t, s.db, "seller", models.RoleSeller)

	prices := []string{"150.00", "50.00", "300.00", "99.99", "100.00"}
	byPrice := map[string]uint{}
	for i, price := range prices {
		p := testutil.CreateProperty(t, s.db, seller, loc, fmt.Sprintf("Listing %d", i), price)
		byPrice[price] = p.ID
	}

	ids := propertyIDs(t, s.do(http.MethodGet, "/properties/?price__gte=99.99&price__lte=150&page_size=10", "", nil))
	assert.ElementsMatch(t, []uint{byPrice["99.99"], byPrice["100.00"], byPrice["150.00"]}, ids)

	asc := propertyIDs(t, s.do(http.MethodGet, "/properties/?ordering=price&page_size=10", "", nil))
	desc := propertyIDs(t, s.do(http.MethodGet, "/properties/?ordering=-price&page_size=10", "", nil))
	require.Len(t, asc, len(prices))
	assert.Equal(t, byPrice["50.00"], asc[0])
	for i := range asc {
		assert.Equal(t, asc[i], desc[len(desc)-1-i])
	}

	var paged []uint
	for page := 1; page <= 3; page++ {
		w := s.do(http.MethodGet, fmt.Sprintf("/properties/?ordering=price&page=%d", page), "", nil)
		paged = append(paged, propertyIDs(t, w)...)
	}
	assert.Equal(t, asc, paged)

	w := s.do(http.MethodGet, "/properties/?ordering=price", "", nil)
	var first types.Page[types.PropertyResponse]
	decode(t, w, &first)
	assert.EqualValues(t, len(prices), first.Count)
	require.NotNil(t, first.Next)
	assert.Contains(t, *first.Next, "page=2")
	assert.Contains(t, *first.Next, "ordering=price")
	assert.Nil(t, first.Previous)

	w = s.do(http.MethodGet, "/properties/?page=4", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid page.")

	w = s.do(http.MethodGet, "/properties/?price__gte=cheap", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	ids = propertyIDs(t, s.do(http.MethodGet, "/properties/?search=LISTING%203", "", nil))
	assert.Equal(t, []uint{byPrice["99.99"]}, ids)
}

func TestRegionDeleteIsRestricted(t *testing.T) {
	s := newServer(t)
	loc := testutil.CreateLocation(t, s.db, "Tashkent")
	testutil.CreateUser(t, s.db, "admin", models.RoleAdmin)
	testutil.CreateUser(t, s.db, "buyer", models.RoleBuyer)
	path := fmt.Sprintf("/regions/%d/", loc.Region.ID)

	w := s.do(http.MethodDelete, path, s.login("buyer").Access, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(http.MethodDelete, path, s.login("admin").Access, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), types.CodeProtected)

	w = s.do(http.MethodGet, path, "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var region types.RegionResponse
	decode(t, w, &region)
	assert.Equal(t, "Tashkent", region.Name)
	require.Len(t, region.Cities, 1)
	require.Len(t, region.Cities[0].Districts, 1)
}

func TestLocationListsFilterByParent(t *testing.T) {
	s := newServer(t)
	tashkent := testutil.CreateLocation(t, s.db, "Tashkent")
	testutil.CreateLocation(t, s.db, "Samarkand")

	w := s.do(http.MethodGet, "/regions", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var regions []types.RegionResponse
	decode(t, w, &regions)
	assert.Len(t, regions, 2)

	w = s.do(http.MethodGet, fmt.Sprintf("/cities/?region=%d", tashkent.Region.ID), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var cities []types.CityResponse
	decode(t, w, &cities)
	require.Len(t, cities, 1)
	assert.Equal(t, tashkent.City.ID, cities[0].ID)

	w = s.do(http.MethodGet, fmt.Sprintf("/districts/?city=%d", tashkent.City.ID), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var districts []types.DistrictResponse
	decode(t, w, &districts)
	require.Len(t, districts, 1)

	w = s.do(http.MethodGet, "/cities/?region=abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReviews(t *testing.T) {
	s := newServer(t)
	seller := testutil.CreateUser(t, s.db, "seller", models.RoleSeller)
	buyer := testutil.CreateUser(t, s.db, "buyer", models.RoleBuyer)
	other := testutil.CreateUser(t, s.db, "other", models.RoleBuyer)
	buyerToken := s.login("buyer").Access

	w := s.do(http.MethodPost, "/reviews/", s.login("seller").Access, gin.H{"seller": seller.ID, "rating": 5, "comment": "Self praise"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(http.MethodPost, "/reviews/", buyerToken, gin.H{"seller": seller.ID, "rating": 6, "comment": "Too good"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPost, "/reviews/", buyerToken, gin.H{"seller": other.ID, "rating": 4, "comment": "Not a seller"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPost, "/reviews/", buyerToken, gin.H{"seller": seller.ID, "rating": 4, "comment": "Quick replies"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var review types.ReviewResponse
	decode(t, w, &review)
	assert.Equal(t, buyer.ID, review.Author.ID)
	assert.Equal(t, seller.ID, review.Seller.ID)
	assert.Equal(t, 4, int(review.Rating))

	w = s.do(http.MethodGet, fmt.Sprintf("/reviews/?seller=%d", seller.ID), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var page types.Page[types.ReviewResponse]
	decode(t, w, &page)
	assert.EqualValues(t, 1, page.Count)

	w = s.do(http.MethodGet, fmt.Sprintf("/reviews/?seller=%d", other.ID), "", nil)
	page = types.Page[types.ReviewResponse]{}
	decode(t, w, &page)
	assert.EqualValues(t, 0, page.Count)
	assert.NotNil(t, page.Results)
}

func TestUserEndpoints(t *testing.T) {
	s := newServer(t)
	buyer := testutil.CreateUser(t, s.db, "buyer", models.RoleBuyer)
	seller := testutil.CreateUser(t, s.db, "seller", models.RoleSeller)
	testutil.CreateUser(t, s.db, "admin", models.RoleAdmin)
	buyerToken := s.login("buyer").Access

	w := s.do(http.MethodGet, "/users/", buyerToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(http.MethodGet, "/users/", s.login("admin").Access, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var page types.Page[types.UserResponse]
	decode(t, w, &page)
	assert.EqualValues(t, 3, page.Count)

	w = s.do(http.MethodGet, fmt.Sprintf("/users/%d/", seller.ID), buyerToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(http.MethodGet, fmt.Sprintf("/users/%d", buyer.ID), buyerToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(http.MethodPatch, "/users/me/", buyerToken, gin.H{"first_name": "Bobur"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var me types.UserResponse
	decode(t, w, &me)
	assert.Equal(t, "Bobur", me.FirstName)

	w = s.do(http.MethodGet, "/users/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestHealthCheck(t *testing.T) {
	jobs := scheduler.NewScheduler()
	defer jobs.Stop()
	jobs.Add("noop", time.Hour, func(ctx context.Context) error { return nil })

	s := newServer(t, func(deps *handlers.Dependencies, _ *config.ServerConfig) {
		deps.Jobs = jobs
	})

	w := s.do(http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Status string `json:"status"`
		Checks struct {
			Database         string `json:"database"`
			WebsocketClients int    `json:"websocket_clients"`
			Jobs             struct {
				ActiveJobs int  `json:"active_jobs"`
				Running    bool `json:"running"`
			} `json:"jobs"`
		} `json:"checks"`
	}
	decode(t, w, &body)
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, "ok", body.Checks.Database)
	assert.Zero(t, body.Checks.WebsocketClients)
	assert.Equal(t, 1, body.Checks.Jobs.ActiveJobs)
	assert.True(t, body.Checks.Jobs.Running)
}

func TestOversizedUploadIsRejected(t *testing.T) {
	s := newServer(t, func(deps *handlers.Dependencies, _ *config.ServerConfig) {
		deps.Media.MaxUploadBytes = 1 << 10
	})
	loc := testutil.CreateLocation(t, s.db, "Tashkent")
	seller := testutil.CreateUser(t, s.db, "seller", models.RoleSeller)
	property := testutil.CreateProperty(t, s.db, seller, loc, "With media", "1.00")
	token := s.login("seller").Access
	path := fmt.Sprintf("/properties/%d/documents/", property.ID)

	// Larger than the limit plus multipart overhead, so the body is cut off mid-read.
	w := s.upload(path, token, "file", "huge.pdf", bytes.Repeat([]byte("a"), 1<<20))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "File is larger than 1024 bytes.")

	// Within the read cap but above the limit.
	w = s.upload(path, token, "file", "big.pdf", bytes.Repeat([]byte("a"), 2<<10))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "File is larger than 1024 bytes.")

	var docs int64
	require.NoError(t, s.db.Model(&models.PropertyDocument{}).Count(&docs).Error)
	assert.Zero(t, docs)
}

func TestBlankNamesAreRejected(t *testing.T) {
	s := newServer(t)
	loc := testutil.CreateLocation(t, s.db, "Tashkent")
	testutil.CreateUser(t, s.db, "admin", models.RoleAdmin)
	testutil.CreateUser(t, s.db, "buyer", models.RoleBuyer)
	admin := s.login("admin").Access

	for path, body := range map[string]gin.H{
		"/regions/":   {"name": "   "},
		"/cities/":    {"region": loc.Region.ID, "name": " \t "},
		"/districts/": {"city": loc.City.ID, "name": "  "},
	} {
		w := s.do(http.MethodPost, path, admin, body)
		assert.Equal(t, http.StatusBadRequest, w.Code, path)
		assert.Contains(t, w.Body.String(), "may not be blank", path)
	}

	w := s.do(http.MethodPost, "/regions/", admin, gin.H{"name": "  Fergana  "})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var region types.RegionResponse
	decode(t, w, &region)
	assert.Equal(t, "Fergana", region.Name)

	w = s.do(http.MethodPatch, "/users/me/", s.login("buyer").Access, gin.H{"username": "   "})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "username")

	w = s.do(http.MethodPatch, "/users/me/", s.login("buyer").Access, gin.H{"first_name": " "})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "first_name")

	var user models.User
	require.NoError(t, s.db.Where("username = ?", "buyer").First(&user).Error)
	assert.NotEmpty(t, user.FirstName)

	w = s.do(http.MethodPost, "/auth/register/", "", gin.H{
		"username": "   ", "email": "blank@example.com", "password": "s3cret-pass", "first_name": "Blank",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "username")
}

func TestForwardedHeadersNeedTrustedProxy(t *testing.T) {
	nextLink := func(t *testing.T, s *testServer, remote string) string {
		t.Helper()

		req := httptest.NewRequest(http.MethodGet, "/properties/?page_size=1", nil)
		req.RemoteAddr = remote
		req.Header.Set("X-Forwarded-For", "203.0.113.9")
		req.Header.Set("X-Forwarded-Host", "house.example")
		req.Header.Set("X-Forwarded-Proto", "https")

		w := s.request(req, "")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var page types.Page[types.PropertyResponse]
		decode(t, w, &page)
		require.NotNil(t, page.Next)
		return *page.Next
	}
	seed := func(t *testing.T, s *testServer) {
		loc := testutil.CreateLocation(t, s.db, "Tashkent")
		seller := testutil.CreateUser(t, s.db, "seller", models.RoleSeller)
		testutil.CreateProperty(t, s.db, seller, loc, "First", "1.00")
		testutil.CreateProperty(t, s.db, seller, loc, "Second", "2.00")
	}

	t.Run("no trusted proxies", func(t *testing.T) {
		s := newServer(t)
		seed(t, s)

		next := nextLink(t, s, "198.51.100.7:4000")
		assert.True(t, strings.HasPrefix(next, "http://example.com/"), next)
	})

	t.Run("trusted proxy", func(t *testing.T) {
		s := newServer(t, func(_ *handlers.Dependencies, server *config.ServerConfig) {
			server.TrustedProxies = []string{"10.0.0.0/8"}
		})
		seed(t, s)

		next := nextLink(t, s, "198.51.100.7:4000")
		assert.True(t, strings.HasPrefix(next, "http://example.com/"), next)

		next = nextLink(t, s, "10.1.2.3:4000")
		assert.True(t, strings.HasPrefix(next, "https://house.example/"), next)
	})
}
