package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

type adminCreateUserRequest struct {
	UserName string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Password string `json:"password"`
	IsAdmin  bool   `json:"is_admin"`
}

func (s *Server) handleAdminCreateUser(w http.ResponseWriter, r *http.Request) {
	var req adminCreateUserRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	user, err := s.admin.CreateUser(r.Context(), currentUser(r), req.UserName, req.Email, req.FullName, req.Password, req.IsAdmin)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, toUserDTO(user))
}

func (s *Server) handleAdminGetUser(w http.ResponseWriter, r *http.Request) {
	user, err := s.admin.GetUser(r.Context(), currentUser(r), chi.URLParam(r, "userID"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toUserDTO(user))
}

func (s *Server) handleAdminUpdateUser(w http.ResponseWriter, r *http.Request) {
	var req updateProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	user, err := s.users.UpdateProfile(r.Context(), currentUser(r), chi.URLParam(r, "userID"), req.UserName, req.Email, req.FullName)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toUserDTO(user))
}

type setFlagRequest struct {
	Value bool `json:"value"`
}

func (s *Server) handleAdminSetAdmin(w http.ResponseWriter, r *http.Request) {
	var req setFlagRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.admin.SetAdminFlag(r.Context(), currentUser(r), chi.URLParam(r, "userID"), req.Value); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAdminSetActive(w http.ResponseWriter, r *http.Request) {
	var req setFlagRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.admin.SetActiveFlag(r.Context(), currentUser(r), chi.URLParam(r, "userID"), req.Value); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAdminResetPassword(w http.ResponseWriter, r *http.Request) {
	var req changePasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.users.ChangePassword(r.Context(), currentUser(r), chi.URLParam(r, "userID"), req.Password); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type transferRequest struct {
	FromUserID string `json:"from_user_id"`
	ToUserID   string `json:"to_user_id"`
}

type transferResponse struct {
	HumidorsMoved int64 `json:"humidors_moved"`
	CigarsMoved   int64 `json:"cigars_moved"`
	SharesRemoved int64 `json:"shares_removed"`
}

func (s *Server) handleAdminTransfer(w http.ResponseWriter, r *http.Request) {
	var req transferRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	res, err := s.admin.TransferOwnership(r.Context(), currentUser(r), req.FromUserID, req.ToUserID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, transferResponse{
		HumidorsMoved: res.HumidorsMoved,
		CigarsMoved:   res.CigarsMoved,
		SharesRemoved: res.SharesRemoved,
	})
}
