package mockservice

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/dipdup-io/order-tracker/internal/order"
	"github.com/goccy/go-json"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
)

// labels reported by the service
const (
	LabelAwaiting = "SENT_AWAITING_PROCESSING"
	LabelSuccess  = "SUCESSO"
	LabelFailure  = "FALHA"
)

// Config -
type Config struct {
	// Prefix - path prefix of the order API, e.g. /api/pedidos
	Prefix string
	// Delay - time after creation when the order gets its result
	Delay time.Duration
	// Result - label reported after Delay
	Result string
}

type entry struct {
	order     order.Order
	createdAt time.Time
	result    string
}

// Service - in-memory order service used for manual runs and tests
type Service struct {
	cfg    Config
	orders map[string]*entry
	now    func() time.Time
	mx     sync.RWMutex
}

// New -
func New(cfg Config) *Service {
	if cfg.Result == "" {
		cfg.Result = LabelSuccess
	}
	cfg.Prefix = strings.TrimRight(cfg.Prefix, "/")

	return &Service{
		cfg:    cfg,
		orders: make(map[string]*entry),
		now:    time.Now,
	}
}

// Handler - router serving POST <prefix>/ and GET <prefix>/status/{id}
func (s *Service) Handler() http.Handler {
	router := mux.NewRouter()
	router.HandleFunc(s.cfg.Prefix+"/", s.create).Methods(http.MethodPost)
	router.HandleFunc(s.cfg.Prefix+"/status/{id}", s.status).Methods(http.MethodGet)
	return router
}

// SetResult - overrides the result label of the order
func (s *Service) SetResult(id, label string) bool {
	s.mx.Lock()
	defer s.mx.Unlock()

	e, ok := s.orders[id]
	if ok {
		e.result = label
	}
	return ok
}

// SetDelay -
func (s *Service) SetDelay(delay time.Duration) {
	s.mx.Lock()
	defer s.mx.Unlock()

	s.cfg.Delay = delay
}

// Orders - received orders count
func (s *Service) Orders() int {
	s.mx.RLock()
	defer s.mx.RUnlock()

	return len(s.orders)
}

func (s *Service) create(w http.ResponseWriter, r *http.Request) {
	var o order.Order
	if err := json.NewDecoder(r.Body).Decode(&o); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	if err := o.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.mx.Lock()
	if _, ok := s.orders[o.ID]; ok {
		s.mx.Unlock()
		writeError(w, http.StatusConflict, "order already exists")
		return
	}
	s.orders[o.ID] = &entry{
		order:     o,
		createdAt: s.now(),
		result:    s.cfg.Result,
	}
	s.mx.Unlock()

	log.Info().Str("id", o.ID).Str("product", o.Product).Int("quantity", o.Quantity).Msg("order received")
	writeJSON(w, http.StatusCreated, o)
}

func (s *Service) status(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	s.mx.RLock()
	e, ok := s.orders[id]
	var label string
	if ok {
		label = LabelAwaiting
		if s.now().Sub(e.createdAt) >= s.cfg.Delay {
			label = e.result
		}
	}
	s.mx.RUnlock()

	if !ok {
		writeError(w, http.StatusNotFound, "order not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": label})
}

func writeJSON(w http.ResponseWriter, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Err(err).Msg("write response")
	}
}

func writeError(w http.ResponseWriter, code int, message string) {
	writeJSON(w, code, map[string]string{"error": message})
}
