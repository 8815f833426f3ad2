package profile

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
)

type errorResponse struct {
	Error string `json:"error"`
}

type Server struct {
	sp  *Service
	now func() time.Time
}

func NewServer(s *Service) *Server {
	return &Server{
		sp:  s,
		now: time.Now,
	}
}

func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.Use(IdentifyMiddleware)

	r.HandleFunc("/v1/profiles", s.list).Methods(http.MethodGet)
	r.HandleFunc("/v1/profiles", s.create).Methods(http.MethodPost)
	r.HandleFunc("/v1/profiles/{id}", s.get).Methods(http.MethodGet)
	r.HandleFunc("/v1/profiles/{id}", s.update).Methods(http.MethodPatch)

	return r
}

func (s *Server) list(w http.ResponseWriter, r *http.Request) {
	list, err := s.sp.ListProfiles(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("list profiles")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, list)
}

func (s *Server) get(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if validateID(id) != nil {
		writeError(w, http.StatusBadRequest, "invalid profile ID")
		return
	}

	p := s.sp.GetProfile(r.Context(), id)
	if p == nil {
		writeError(w, http.StatusNotFound, "profile not found")
		return
	}

	writeJSON(w, http.StatusOK, p)
}

func (s *Server) create(w http.ResponseWriter, r *http.Request) {
	var p Profile
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if p.ID == "" {
		p.ID, _ = CurrentUserID(r.Context())
	}

	if p.CreatedAt.IsZero() {
		p.CreatedAt = s.now().UTC()
	}

	if !s.authorize(w, r, &p) {
		return
	}

	if !s.sp.CreateProfile(r.Context(), &p) {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusCreated, p)
}

func (s *Server) update(w http.ResponseWriter, r *http.Request) {
	var p Profile
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	id := mux.Vars(r)["id"]
	if p.ID != "" && p.ID != id {
		writeError(w, http.StatusBadRequest, "profile ID mismatch")
		return
	}
	p.ID = id

	if !s.authorize(w, r, &p) {
		return
	}

	if !s.sp.UpdateProfile(r.Context(), &p) {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, p)
}

// authorize checks input and ownership and writes the error response when refused.
func (s *Server) authorize(w http.ResponseWriter, r *http.Request, p *Profile) bool {
	authenticated, allowed := canWrite(r.Context(), p.ID)
	if !authenticated {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return false
	}

	if err := validateID(p.ID); err != nil {
		writeError(w, http.StatusBadRequest, "invalid profile ID")
		return false
	}

	if !allowed {
		writeError(w, http.StatusForbidden, "forbidden")
		return false
	}

	if err := p.preferences().Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return false
	}

	return true
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error().Err(err).Msg("write response")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
