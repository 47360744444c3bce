package controllers

import (
	"errors"
	"net/http"
	"sync"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/julienschmidt/httprouter"
	"github.com/lintang-b-s/Negotiatorx/pkg/scheduler"
	"go.uber.org/zap"
)

// StatsStore holds the per region results of the last negotiation run.
type StatsStore struct {
	mu      sync.RWMutex
	running bool
	stats   []scheduler.Stats
}

func NewStatsStore() *StatsStore {
	return &StatsStore{}
}

func (s *StatsStore) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.running = true
	s.stats = nil
}

func (s *StatsStore) Set(stats []scheduler.Stats) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.running = false
	s.stats = append([]scheduler.Stats(nil), stats...)
}

func (s *StatsStore) Get() ([]scheduler.Stats, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]scheduler.Stats(nil), s.stats...), s.running
}

type statsAPI struct {
	store *StatsStore
	log   *zap.Logger
}

func New(store *StatsStore, log *zap.Logger) *statsAPI {
	return &statsAPI{
		store: store,
		log:   log,
	}
}

func (api *statsAPI) Routes(router *httprouter.Router) {
	router.GET("/api/stats", api.allStats)
	router.GET("/api/stats/:region", api.regionStats)
}

func (api *statsAPI) allStats(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	stats, running := api.store.Get()

	regions := make([]regionStatsResponse, 0, len(stats))
	for _, st := range stats {
		regions = append(regions, newRegionStatsResponse(st))
	}

	headers := make(http.Header)
	if err := api.writeJSON(w, http.StatusOK, envelope{"data": statsResponse{Running: running, Regions: regions}}, headers); err != nil {
		api.ServerErrorResponse(w, r, err)
	}
}

func (api *statsAPI) regionStats(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	request := regionStatsRequest{Region: p.ByName("region")}

	validate := validator.New()
	if err := validate.Struct(request); err != nil {
		english := en.New()
		uni := ut.New(english, english)
		trans, _ := uni.GetTranslator("en")
		_ = enTranslations.RegisterDefaultTranslations(validate, trans)
		api.FailedValidationResponse(w, r, translateError(err, trans))
		return
	}

	stats, _ := api.store.Get()
	for _, st := range stats {
		if st.Region != request.Region {
			continue
		}
		headers := make(http.Header)
		if err := api.writeJSON(w, http.StatusOK, envelope{"data": newRegionStatsResponse(st)}, headers); err != nil {
			api.ServerErrorResponse(w, r, err)
		}
		return
	}
	api.NotFoundResponse(w, r, errors.New("region not found"))
}

func translateError(err error, trans ut.Translator) []string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{err.Error()}
	}
	out := make([]string, 0, len(verrs))
	for _, e := range verrs {
		out = append(out, e.Translate(trans))
	}
	return out
}
