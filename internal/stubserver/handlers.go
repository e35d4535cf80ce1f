package stubserver

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/osanchezp/ecotrack/internal/models"
)

// handleLogin issues a token for valid credentials. The response body is
// the bare token string, matching the backend contract.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var creds models.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	token, ok := s.data.login(creds.Email, creds.Password)
	if !ok {
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(token))
}

// handleLogout revokes the presented token with a 204.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if !s.data.logout(r.Header.Get("Token")) {
		http.Error(w, "unknown token", http.StatusUnauthorized)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// writeCollection emits a JSON array, or a bare 204 when it is empty.
func writeCollection[T any](w http.ResponseWriter, items []T) {
	if len(items) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(items)
}

func (s *Server) handleListDumpsters(w http.ResponseWriter, r *http.Request) {
	s.data.mu.Lock()
	dumpsters := append([]models.Dumpster(nil), s.data.dumpsters...)
	s.data.mu.Unlock()
	writeCollection(w, dumpsters)
}

func (s *Server) handleUpdateFill(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid dumpster id", http.StatusBadRequest)
		return
	}
	var fill int
	if err := json.NewDecoder(r.Body).Decode(&fill); err != nil {
		http.Error(w, "invalid fill value", http.StatusBadRequest)
		return
	}

	s.data.mu.Lock()
	defer s.data.mu.Unlock()
	for i := range s.data.dumpsters {
		if s.data.dumpsters[i].ID != nil && *s.data.dumpsters[i].ID == id {
			s.data.dumpsters[i].CurrentFill = fill
			w.WriteHeader(http.StatusOK)
			return
		}
	}
	http.Error(w, "dumpster not found", http.StatusNotFound)
}

func (s *Server) handleCreateDumpster(w http.ResponseWriter, r *http.Request) {
	var dumpster models.Dumpster
	if err := json.NewDecoder(r.Body).Decode(&dumpster); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	s.data.mu.Lock()
	created := s.data.addDumpsterLocked(dumpster)
	s.data.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(created)
}

func (s *Server) handleUsage(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid dumpster id", http.StatusBadRequest)
		return
	}
	start, err := models.ParseDate(r.URL.Query().Get("start_date"))
	if err != nil {
		http.Error(w, "invalid start_date", http.StatusBadRequest)
		return
	}
	end, err := models.ParseDate(r.URL.Query().Get("end_date"))
	if err != nil {
		http.Error(w, "invalid end_date", http.StatusBadRequest)
		return
	}

	s.data.mu.Lock()
	var records []models.UsageRecord
	for _, record := range s.data.usage[id] {
		if record.Date.After(end) || start.After(record.Date) {
			continue
		}
		records = append(records, record)
	}
	s.data.mu.Unlock()
	writeCollection(w, records)
}

func (s *Server) handleByPostalCode(w http.ResponseWriter, r *http.Request) {
	postalCode, err := strconv.Atoi(r.URL.Query().Get("postal_code"))
	if err != nil {
		http.Error(w, "invalid postal_code", http.StatusBadRequest)
		return
	}
	if _, err := models.ParseDate(r.URL.Query().Get("date")); err != nil {
		http.Error(w, "invalid date", http.StatusBadRequest)
		return
	}

	s.data.mu.Lock()
	var matches []models.Dumpster
	for _, dumpster := range s.data.dumpsters {
		if dumpster.PostalCode == postalCode {
			matches = append(matches, dumpster)
		}
	}
	s.data.mu.Unlock()
	writeCollection(w, matches)
}

func (s *Server) handleListPlants(w http.ResponseWriter, r *http.Request) {
	s.data.mu.Lock()
	plants := append([]models.RecyclingPlant(nil), s.data.plants...)
	s.data.mu.Unlock()
	writeCollection(w, plants)
}

func (s *Server) handleCapacity(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	date := r.URL.Query().Get("date")

	s.data.mu.Lock()
	byDate, known := s.data.capacities[name]
	capacity, hasDate := byDate[date]
	s.data.mu.Unlock()

	if !known || !hasDate {
		http.Error(w, "plant not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(capacity)
}

func (s *Server) handleAssign(w http.ResponseWriter, r *http.Request) {
	var req models.AssignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.PlantName == "" || len(req.DumpsterIDs) == 0 {
		http.Error(w, "plantName and dumpsterIds are required", http.StatusBadRequest)
		return
	}

	s.data.mu.Lock()
	defer s.data.mu.Unlock()

	var plant *models.RecyclingPlant
	for i := range s.data.plants {
		if s.data.plants[i].Name == req.PlantName {
			plant = &s.data.plants[i]
			break
		}
	}
	if plant == nil {
		http.Error(w, "unknown plant: "+req.PlantName, http.StatusBadRequest)
		return
	}

	for _, id := range req.DumpsterIDs {
		found := false
		for i := range s.data.dumpsters {
			if s.data.dumpsters[i].ID != nil && *s.data.dumpsters[i].ID == id {
				assigned := *plant
				assigned.Assignments = nil
				s.data.dumpsters[i].AssignedPlant = &assigned
				plant.Assignments = append(plant.Assignments, s.data.dumpsters[i])
				found = true
				break
			}
		}
		if !found {
			http.Error(w, "unknown dumpster id", http.StatusBadRequest)
			return
		}
	}
	w.WriteHeader(http.StatusOK)
}
