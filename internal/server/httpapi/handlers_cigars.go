package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/VictoryTek/humidor-sub001/internal/server/models"
)

type cigarRequest struct {
	Name     string `json:"name"`
	Brand    string `json:"brand"`
	Quantity int    `json:"quantity"`
	Notes    string `json:"notes"`
}

func (s *Server) handleAddCigar(w http.ResponseWriter, r *http.Request) {
	var req cigarRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	cigar, err := s.cigars.Add(r.Context(), currentUser(r), &models.Cigar{
		HumidorID: chi.URLParam(r, "humidorID"),
		Name:      req.Name,
		Brand:     req.Brand,
		Quantity:  req.Quantity,
		Notes:     req.Notes,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, toCigarDTO(cigar))
}

func (s *Server) handleListCigars(w http.ResponseWriter, r *http.Request) {
	out, err := s.cigars.List(r.Context(), currentUser(r), chi.URLParam(r, "humidorID"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toCigarDTOs(out))
}

func (s *Server) handleGetCigar(w http.ResponseWriter, r *http.Request) {
	cigar, err := s.cigars.Get(r.Context(), currentUser(r), chi.URLParam(r, "cigarID"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toCigarDTO(cigar))
}

func (s *Server) handleUpdateCigar(w http.ResponseWriter, r *http.Request) {
	var req cigarRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	cigar, err := s.cigars.Update(r.Context(), currentUser(r), chi.URLParam(r, "cigarID"), req.Name, req.Brand, req.Quantity, req.Notes)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toCigarDTO(cigar))
}

func (s *Server) handleDeleteCigar(w http.ResponseWriter, r *http.Request) {
	if err := s.cigars.Delete(r.Context(), currentUser(r), chi.URLParam(r, "cigarID")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type moveCigarRequest struct {
	HumidorID string `json:"humidor_id"`
}

func (s *Server) handleMoveCigar(w http.ResponseWriter, r *http.Request) {
	var req moveCigarRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	cigar, err := s.cigars.Move(r.Context(), currentUser(r), chi.URLParam(r, "cigarID"), req.HumidorID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toCigarDTO(cigar))
}

func (s *Server) handleCigarImageUpload(w http.ResponseWriter, r *http.Request) {
	url, err := s.images.BeginCigarUpload(r.Context(), currentUser(r), chi.URLParam(r, "cigarID"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, uploadResponse{UploadURL: url})
}

func (s *Server) handleCigarImageURL(w http.ResponseWriter, r *http.Request) {
	url, err := s.images.CigarImageURL(r.Context(), currentUser(r), chi.URLParam(r, "cigarID"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, imageURLResponse{URL: url})
}
