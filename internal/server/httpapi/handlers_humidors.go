package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/VictoryTek/humidor-sub001/internal/server/models"
)

type humidorRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (s *Server) handleCreateHumidor(w http.ResponseWriter, r *http.Request) {
	var req humidorRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	humidor, err := s.humidors.Create(r.Context(), currentUser(r), req.Name, req.Description)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, toHumidorDTO(humidor))
}

func (s *Server) handleListHumidors(w http.ResponseWriter, r *http.Request) {
	out, err := s.humidors.List(r.Context(), currentUser(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toHumidorDTOs(out))
}

type humidorWithAccessDTO struct {
	humidorDTO
	AccessLevel string `json:"access_level"`
}

// handleListSharedHumidors lists humidors other users granted to the actor.
func (s *Server) handleListSharedHumidors(w http.ResponseWriter, r *http.Request) {
	out, err := s.humidors.ListSharedWith(r.Context(), currentUser(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	dtos := make([]humidorWithAccessDTO, 0, len(out))
	for _, sh := range out {
		dtos = append(dtos, humidorWithAccessDTO{
			humidorDTO:  toHumidorDTO(sh.Humidor),
			AccessLevel: string(sh.Level),
		})
	}
	s.writeJSON(w, http.StatusOK, dtos)
}

func (s *Server) handleGetHumidor(w http.ResponseWriter, r *http.Request) {
	humidor, level, err := s.humidors.Get(r.Context(), currentUser(r), chi.URLParam(r, "humidorID"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, humidorWithAccessDTO{
		humidorDTO:  toHumidorDTO(humidor),
		AccessLevel: string(level),
	})
}

func (s *Server) handleUpdateHumidor(w http.ResponseWriter, r *http.Request) {
	var req humidorRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	humidor, err := s.humidors.Update(r.Context(), currentUser(r), chi.URLParam(r, "humidorID"), req.Name, req.Description)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toHumidorDTO(humidor))
}

func (s *Server) handleDeleteHumidor(w http.ResponseWriter, r *http.Request) {
	if err := s.humidors.Delete(r.Context(), currentUser(r), chi.URLParam(r, "humidorID")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type uploadResponse struct {
	UploadURL string `json:"upload_url"`
}

type imageURLResponse struct {
	URL string `json:"url"`
}

func (s *Server) handleHumidorImageUpload(w http.ResponseWriter, r *http.Request) {
	url, err := s.images.BeginHumidorUpload(r.Context(), currentUser(r), chi.URLParam(r, "humidorID"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, uploadResponse{UploadURL: url})
}

func (s *Server) handleHumidorImageURL(w http.ResponseWriter, r *http.Request) {
	url, err := s.images.HumidorImageURL(r.Context(), currentUser(r), chi.URLParam(r, "humidorID"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, imageURLResponse{URL: url})
}

type shareRequest struct {
	UserID string `json:"user_id"`
	Level  string `json:"permission_level"`
}

func (s *Server) handleCreateShare(w http.ResponseWriter, r *http.Request) {
	var req shareRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	level, err := models.ParsePermissionLevel(req.Level)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	share, err := s.shares.Create(r.Context(), currentUser(r), chi.URLParam(r, "humidorID"), req.UserID, level)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, toShareDTO(share))
}

func (s *Server) handleListShares(w http.ResponseWriter, r *http.Request) {
	out, err := s.shares.List(r.Context(), currentUser(r), chi.URLParam(r, "humidorID"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	dtos := make([]shareDTO, 0, len(out))
	for _, sh := range out {
		dtos = append(dtos, toShareDTO(sh))
	}
	s.writeJSON(w, http.StatusOK, dtos)
}

type shareLevelRequest struct {
	Level string `json:"permission_level"`
}

func (s *Server) handleUpdateShare(w http.ResponseWriter, r *http.Request) {
	var req shareLevelRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	level, err := models.ParsePermissionLevel(req.Level)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	share, err := s.shares.UpdateLevel(r.Context(), currentUser(r), chi.URLParam(r, "humidorID"), chi.URLParam(r, "userID"), level)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toShareDTO(share))
}

func (s *Server) handleRevokeShare(w http.ResponseWriter, r *http.Request) {
	err := s.shares.Revoke(r.Context(), currentUser(r), chi.URLParam(r, "humidorID"), chi.URLParam(r, "userID"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
