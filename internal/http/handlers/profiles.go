package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	profilesv1 "github.com/pribylovaa/valet/api/profilesv1"
	apierrors "github.com/pribylovaa/valet/internal/errors"
)

// GetSelfProfile — GET /me/profile.
func (h *Handlers) GetSelfProfile(w http.ResponseWriter, r *http.Request) {
	resp, err := h.Profiles.GetSelfProfile(r.Context(), &profilesv1.Empty{})
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// SaveSelfProfile — PUT /me/profile, тело — полный снимок полей.
func (h *Handlers) SaveSelfProfile(w http.ResponseWriter, r *http.Request) {
	var in profilesv1.ProfileInput
	if err := decodeStrict(w, r, maxJSONBody, &in); err != nil {
		apierrors.WriteError(w, r, invalidArgument("invalid json body"))
		return
	}

	resp, err := h.Profiles.SaveSelfProfile(r.Context(), &profilesv1.SaveSelfProfileRequest{Profile: in})
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// ListProfiles — GET /profiles.
func (h *Handlers) ListProfiles(w http.ResponseWriter, r *http.Request) {
	resp, err := h.Profiles.ListProfiles(r.Context(), &profilesv1.Empty{})
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// CreateProfile — POST /profiles.
func (h *Handlers) CreateProfile(w http.ResponseWriter, r *http.Request) {
	var in profilesv1.ProfileInput
	if err := decodeStrict(w, r, maxJSONBody, &in); err != nil {
		apierrors.WriteError(w, r, invalidArgument("invalid json body"))
		return
	}

	resp, err := h.Profiles.SaveProfile(r.Context(), &profilesv1.SaveProfileRequest{Profile: in})
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	w.Header().Set("Location", r.URL.Path+"/"+resp.ID)
	writeJSON(w, http.StatusCreated, resp)
}

// GetProfile — GET /profiles/{id}.
func (h *Handlers) GetProfile(w http.ResponseWriter, r *http.Request) {
	resp, err := h.Profiles.GetProfile(r.Context(), &profilesv1.GetProfileRequest{ID: chi.URLParam(r, "id")})
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// UpdateProfile — PUT /profiles/{id}. id берётся из пути, пустой id недопустим.
func (h *Handlers) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		apierrors.WriteError(w, r, invalidArgument("missing id"))
		return
	}

	var in profilesv1.ProfileInput
	if err := decodeStrict(w, r, maxJSONBody, &in); err != nil {
		apierrors.WriteError(w, r, invalidArgument("invalid json body"))
		return
	}

	resp, err := h.Profiles.SaveProfile(r.Context(), &profilesv1.SaveProfileRequest{ID: id, Profile: in})
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// DeleteProfile — DELETE /profiles/{id}.
func (h *Handlers) DeleteProfile(w http.ResponseWriter, r *http.Request) {
	if _, err := h.Profiles.DeleteProfile(r.Context(), &profilesv1.DeleteProfileRequest{ID: chi.URLParam(r, "id")}); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GiftIdeas — GET /profiles/{id}/gift-ideas?max_price=.
func (h *Handlers) GiftIdeas(w http.ResponseWriter, r *http.Request) {
	resp, err := h.Profiles.GiftIdeas(r.Context(), &profilesv1.GiftIdeasRequest{
		ID:       chi.URLParam(r, "id"),
		MaxPrice: r.URL.Query().Get("max_price"),
	})
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// UpcomingBirthdays — GET /birthdays/upcoming?days=. Без days — окно из конфига.
func (h *Handlers) UpcomingBirthdays(w http.ResponseWriter, r *http.Request) {
	var days int
	if raw := r.URL.Query().Get("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			apierrors.WriteError(w, r, invalidArgument("invalid days"))
			return
		}
		days = n
	}

	resp, err := h.Profiles.UpcomingBirthdays(r.Context(), &profilesv1.UpcomingBirthdaysRequest{Days: days})
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}
