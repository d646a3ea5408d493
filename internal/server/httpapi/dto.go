package httpapi

import (
	"time"

	"github.com/VictoryTek/humidor-sub001/internal/server/models"
	"github.com/VictoryTek/humidor-sub001/internal/server/services"
)

// Wire representations. The password hash never leaves the server, so the
// persisted models are not marshaled directly.

type userDTO struct {
	ID        string    `json:"id"`
	UserName  string    `json:"username"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name,omitempty"`
	IsAdmin   bool      `json:"is_admin"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

func toUserDTO(u *models.User) userDTO {
	return userDTO{
		ID:        u.ID,
		UserName:  u.UserName,
		Email:     u.Email,
		FullName:  u.FullName,
		IsAdmin:   u.IsAdmin,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
	}
}

type humidorDTO struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	HasImage    bool      `json:"has_image"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toHumidorDTO(h *models.Humidor) humidorDTO {
	return humidorDTO{
		ID:          h.ID,
		OwnerID:     h.UserID,
		Name:        h.Name,
		Description: h.Description,
		HasImage:    h.ImageKey != "",
		CreatedAt:   h.CreatedAt,
		UpdatedAt:   h.UpdatedAt,
	}
}

func toHumidorDTOs(hs []*models.Humidor) []humidorDTO {
	out := make([]humidorDTO, 0, len(hs))
	for _, h := range hs {
		out = append(out, toHumidorDTO(h))
	}
	return out
}

type cigarDTO struct {
	ID        string    `json:"id"`
	HumidorID string    `json:"humidor_id"`
	Name      string    `json:"name"`
	Brand     string    `json:"brand,omitempty"`
	Quantity  int       `json:"quantity"`
	Notes     string    `json:"notes,omitempty"`
	HasImage  bool      `json:"has_image"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toCigarDTO(c *models.Cigar) cigarDTO {
	return cigarDTO{
		ID:        c.ID,
		HumidorID: c.HumidorID,
		Name:      c.Name,
		Brand:     c.Brand,
		Quantity:  c.Quantity,
		Notes:     c.Notes,
		HasImage:  c.ImageKey != "",
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func toCigarDTOs(cs []*models.Cigar) []cigarDTO {
	out := make([]cigarDTO, 0, len(cs))
	for _, c := range cs {
		out = append(out, toCigarDTO(c))
	}
	return out
}

type shareDTO struct {
	HumidorID string    `json:"humidor_id"`
	UserID    string    `json:"user_id"`
	GrantedBy string    `json:"granted_by"`
	Level     string    `json:"permission_level"`
	CreatedAt time.Time `json:"created_at"`
}

func toShareDTO(sh *models.HumidorShare) shareDTO {
	return shareDTO{
		HumidorID: sh.HumidorID,
		UserID:    sh.UserID,
		GrantedBy: sh.GrantedBy,
		Level:     string(sh.Level),
		CreatedAt: sh.CreatedAt,
	}
}

type publicShareDTO struct {
	Token            string     `json:"token"`
	URL              string     `json:"url,omitempty"`
	HumidorID        string     `json:"humidor_id"`
	ExpiresAt        *time.Time `json:"expires_at,omitempty"`
	IncludeFavorites bool       `json:"include_favorites"`
	IncludeWishList  bool       `json:"include_wish_list"`
	Label            string     `json:"label,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
}

func toPublicShareDTO(ps *models.PublicShare) publicShareDTO {
	return publicShareDTO{
		Token:            ps.ID,
		HumidorID:        ps.HumidorID,
		ExpiresAt:        ps.ExpiresAt,
		IncludeFavorites: ps.IncludeFavorites,
		IncludeWishList:  ps.IncludeWishList,
		Label:            ps.Label,
		CreatedAt:        ps.CreatedAt,
	}
}

type publicViewDTO struct {
	Humidor   humidorDTO     `json:"humidor"`
	Owner     publicOwnerDTO `json:"owner"`
	Cigars    []cigarDTO     `json:"cigars"`
	Favorites []cigarDTO     `json:"favorites,omitempty"`
	WishList  []cigarDTO     `json:"wish_list,omitempty"`
}

type publicOwnerDTO struct {
	UserName string `json:"username"`
	FullName string `json:"full_name,omitempty"`
}

func toPublicViewDTO(v *services.PublicHumidorView) publicViewDTO {
	out := publicViewDTO{
		Humidor: toHumidorDTO(v.Humidor),
		Owner:   publicOwnerDTO{UserName: v.Owner.UserName, FullName: v.Owner.FullName},
		Cigars:  toCigarDTOs(v.Cigars),
	}
	if v.Favorites != nil {
		out.Favorites = toCigarDTOs(v.Favorites)
	}
	if v.WishList != nil {
		out.WishList = toCigarDTOs(v.WishList)
	}
	return out
}

type brandDTO struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func toBrandDTO(b *models.Brand) brandDTO {
	return brandDTO{ID: b.ID, Name: b.Name}
}
