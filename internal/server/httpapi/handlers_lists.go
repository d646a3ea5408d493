package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) handleListFavorites(w http.ResponseWriter, r *http.Request) {
	out, err := s.lists.Favorites(r.Context(), currentUser(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toCigarDTOs(out))
}

func (s *Server) handleAddFavorite(w http.ResponseWriter, r *http.Request) {
	if err := s.lists.AddFavorite(r.Context(), currentUser(r), chi.URLParam(r, "cigarID")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRemoveFavorite(w http.ResponseWriter, r *http.Request) {
	if err := s.lists.RemoveFavorite(r.Context(), currentUser(r), chi.URLParam(r, "cigarID")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListWishes(w http.ResponseWriter, r *http.Request) {
	out, err := s.lists.WishList(r.Context(), currentUser(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toCigarDTOs(out))
}

func (s *Server) handleAddWish(w http.ResponseWriter, r *http.Request) {
	if err := s.lists.AddWish(r.Context(), currentUser(r), chi.URLParam(r, "cigarID")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRemoveWish(w http.ResponseWriter, r *http.Request) {
	if err := s.lists.RemoveWish(r.Context(), currentUser(r), chi.URLParam(r, "cigarID")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type brandRequest struct {
	Name string `json:"name"`
}

func (s *Server) handleListBrands(w http.ResponseWriter, r *http.Request) {
	out, err := s.brands.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	dtos := make([]brandDTO, 0, len(out))
	for _, b := range out {
		dtos = append(dtos, toBrandDTO(b))
	}
	s.writeJSON(w, http.StatusOK, dtos)
}

func (s *Server) handleCreateBrand(w http.ResponseWriter, r *http.Request) {
	var req brandRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	brand, err := s.brands.Create(r.Context(), currentUser(r), req.Name)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, toBrandDTO(brand))
}

func (s *Server) handleDeleteBrand(w http.ResponseWriter, r *http.Request) {
	if err := s.brands.Delete(r.Context(), currentUser(r), chi.URLParam(r, "brandID")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
