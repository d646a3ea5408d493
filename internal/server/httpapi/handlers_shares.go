package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

type issuePublicShareRequest struct {
	ExpiresAt        *time.Time `json:"expires_at"`
	IncludeFavorites bool       `json:"include_favorites"`
	IncludeWishList  bool       `json:"include_wish_list"`
	Label            string     `json:"label"`
}

func (s *Server) handleIssuePublicShare(w http.ResponseWriter, r *http.Request) {
	var req issuePublicShareRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	share, err := s.publicShares.Issue(r.Context(), currentUser(r), chi.URLParam(r, "humidorID"),
		req.ExpiresAt, req.IncludeFavorites, req.IncludeWishList, req.Label)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	dto := toPublicShareDTO(share)
	dto.URL = s.publicShares.ShareURL(share.ID)
	s.writeJSON(w, http.StatusCreated, dto)
}

func (s *Server) handleListPublicShares(w http.ResponseWriter, r *http.Request) {
	out, err := s.publicShares.List(r.Context(), currentUser(r), chi.URLParam(r, "humidorID"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	dtos := make([]publicShareDTO, 0, len(out))
	for _, ps := range out {
		dto := toPublicShareDTO(ps)
		dto.URL = s.publicShares.ShareURL(ps.ID)
		dtos = append(dtos, dto)
	}
	s.writeJSON(w, http.StatusOK, dtos)
}

func (s *Server) handleRevokePublicShare(w http.ResponseWriter, r *http.Request) {
	if err := s.publicShares.Revoke(r.Context(), currentUser(r), chi.URLParam(r, "tokenID")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleResolvePublicShare is the only data endpoint outside the auth
// middleware: the token in the path is the entire credential.
func (s *Server) handleResolvePublicShare(w http.ResponseWriter, r *http.Request) {
	view, err := s.publicShares.Resolve(r.Context(), chi.URLParam(r, "token"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toPublicViewDTO(view))
}
