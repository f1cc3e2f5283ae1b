package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/monocle-dev/house/internal/auth"
	"github.com/monocle-dev/house/internal/config"
	"github.com/monocle-dev/house/internal/events"
	"github.com/monocle-dev/house/internal/query"
	"github.com/monocle-dev/house/internal/repository"
	"github.com/monocle-dev/house/internal/scheduler"
	"github.com/monocle-dev/house/internal/storage"
	"github.com/monocle-dev/house/internal/types"
	"github.com/monocle-dev/house/internal/utils"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Dependencies are the collaborators shared by every handler.
type Dependencies struct {
	DB     *gorm.DB
	Redis  *redis.Client // optional
	Tokens *auth.TokenManager
	Store  storage.Store
	Hub    *events.Hub
	Jobs   *scheduler.Scheduler // optional
	Events events.Publisher
	Paging config.PagingConfig
	Media  config.MediaConfig
}

type Handler struct {
	db     *gorm.DB
	redis  *redis.Client
	tokens *auth.TokenManager
	store  storage.Store
	hub    *events.Hub
	jobs   *scheduler.Scheduler
	events events.Publisher
	paging config.PagingConfig
	media  config.MediaConfig

	users      *repository.UserRepository
	regions    *repository.RegionRepository
	cities     *repository.CityRepository
	districts  *repository.DistrictRepository
	properties *repository.PropertyRepository
	reviews    *repository.ReviewRepository
}

func New(deps Dependencies) *Handler {
	publisher := deps.Events
	if publisher == nil {
		publisher = events.Discard{}
	}

	return &Handler{
		db:     deps.DB,
		redis:  deps.Redis,
		tokens: deps.Tokens,
		store:  deps.Store,
		hub:    deps.Hub,
		jobs:   deps.Jobs,
		events: publisher,
		paging: deps.Paging,
		media:  deps.Media,

		users:      repository.NewUserRepository(deps.DB),
		regions:    repository.NewRegionRepository(deps.DB),
		cities:     repository.NewCityRepository(deps.DB),
		districts:  repository.NewDistrictRepository(deps.DB),
		properties: repository.NewPropertyRepository(deps.DB),
		reviews:    repository.NewReviewRepository(deps.DB),
	}
}

// Users exposes the user repository for the authentication middleware.
func (h *Handler) Users() *repository.UserRepository {
	return h.users
}

func (h *Handler) bindJSON(ctx *gin.Context, dst interface{}) bool {
	if err := ctx.ShouldBindJSON(dst); err != nil {
		utils.ValidationError(ctx, utils.BindingErrors(err))
		return false
	}
	return true
}

// notBlank trims value and answers 400 when nothing is left.
func notBlank(ctx *gin.Context, field, value string) (string, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		utils.ValidationError(ctx, map[string]string{field: blankField})
		return "", false
	}
	return value, true
}

const blankField = "This field may not be blank."

func (h *Handler) pagination(ctx *gin.Context) (query.Pagination, bool) {
	p, err := query.ParsePagination(ctx.Request.URL.Query(), h.paging)
	if err != nil {
		utils.Error(ctx, http.StatusNotFound, err.Error())
		return p, false
	}
	return p, true
}

func (h *Handler) pathID(ctx *gin.Context, name string) (uint, bool) {
	id, err := utils.GetPathID(ctx, name)
	if err != nil {
		utils.NotFound(ctx)
		return 0, false
	}
	return id, true
}

func writePage[M any, T any](ctx *gin.Context, items []M, count int64, p query.Pagination, convert func(M) T) {
	next, previous := p.Links(utils.RequestURL(ctx), count)

	results := make([]T, 0, len(items))
	for _, item := range items {
		results = append(results, convert(item))
	}

	ctx.JSON(http.StatusOK, types.Page[T]{
		Count:    count,
		Next:     next,
		Previous: previous,
		Results:  results,
	})
}
