package handlers

import (
	"encoding/base64"
	"errors"
	"net/http"
	"strings"

	profilesv1 "github.com/pribylovaa/valet/api/profilesv1"
	apierrors "github.com/pribylovaa/valet/internal/errors"
)

// uploadPhotoBody — Data: base64 или data URL ("data:image/png;base64,...").
type uploadPhotoBody struct {
	Variant string `json:"variant" validate:"required,oneof=self loved_one"`
	Data    string `json:"data" validate:"required"`
}

type deletePhotoBody struct {
	Ref string `json:"ref"`
}

var errNotBase64 = errors.New("photo data is not base64")

// decodePhotoData снимает префикс data URL и декодирует base64 (с паддингом или без).
func decodePhotoData(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "data:") {
		meta, payload, ok := strings.Cut(s, ",")
		if !ok || !strings.HasSuffix(meta, ";base64") {
			return nil, errNotBase64
		}
		s = payload
	}

	if b, err := base64.StdEncoding.DecodeString(s); err == nil {
		return b, nil
	}
	if b, err := base64.RawStdEncoding.DecodeString(s); err == nil {
		return b, nil
	}

	return nil, errNotBase64
}

// maxPhotoBody — base64 раздувает данные на треть, плюс запас на JSON и префикс.
func (h *Handlers) maxPhotoBody() int64 {
	return h.MaxPhotoBytes/3*4 + 4096
}

// UploadPhoto — POST /photos. Ответ 201 {"url": "..."}.
func (h *Handlers) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	var in uploadPhotoBody
	if err := decodeStrict(w, r, h.maxPhotoBody(), &in); err != nil {
		apierrors.WriteError(w, r, invalidArgument("invalid json body"))
		return
	}

	if err := h.validate.Struct(in); err != nil {
		apierrors.WriteError(w, r, invalidArgument("invalid photo request"))
		return
	}

	data, err := decodePhotoData(in.Data)
	if err != nil || len(data) == 0 {
		apierrors.WriteError(w, r, invalidArgument("invalid photo data"))
		return
	}

	resp, err := h.Profiles.UploadPhoto(r.Context(), &profilesv1.UploadPhotoRequest{Variant: in.Variant, Data: data})
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, resp)
}

// ListPhotos — GET /photos.
func (h *Handlers) ListPhotos(w http.ResponseWriter, r *http.Request) {
	resp, err := h.Profiles.ListPhotos(r.Context(), &profilesv1.Empty{})
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// DeletePhoto — DELETE /photos?ref=<url|key> или тело {"ref": "..."}.
func (h *Handlers) DeletePhoto(w http.ResponseWriter, r *http.Request) {
	ref := r.URL.Query().Get("ref")
	if ref == "" && r.ContentLength != 0 {
		var in deletePhotoBody
		if err := decodeStrict(w, r, maxJSONBody, &in); err != nil {
			apierrors.WriteError(w, r, invalidArgument("invalid json body"))
			return
		}
		ref = in.Ref
	}

	if _, err := h.Profiles.DeletePhoto(r.Context(), &profilesv1.DeletePhotoRequest{Ref: ref}); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
