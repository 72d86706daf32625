package http

import (
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"github.com/clipstream/api/internal/core/domain"
	"github.com/clipstream/api/internal/core/ports"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const maxUploadBytes = 20 << 20 // avatar + cover image combined

type UserHandler struct {
	registration ports.RegistrationService
	users        ports.UserService
	channels     ports.ChannelService
	tempDir      string
}

func NewUserHandler(registration ports.RegistrationService, users ports.UserService, channels ports.ChannelService, tempDir string) *UserHandler {
	if tempDir == "" {
		tempDir = os.TempDir()
	}
	return &UserHandler{
		registration: registration,
		users:        users,
		channels:     channels,
		tempDir:      tempDir,
	}
}

func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		respondError(w, domain.ErrMissingFields)
		return
	}

	avatarPath, err := h.saveUpload(r, "avatar")
	if err != nil {
		respondError(w, domain.ErrAvatarRequired)
		return
	}
	// The cover image is optional; a missing part is not an error.
	coverPath, _ := h.saveUpload(r, "coverImage")

	input := ports.RegisterInput{
		Handle:     r.FormValue("userName"),
		Email:      r.FormValue("email"),
		FullName:   r.FormValue("fullName"),
		Password:   r.FormValue("password"),
		Bio:        r.FormValue("bio"),
		AvatarPath: avatarPath,
		CoverPath:  coverPath,
	}

	user, err := h.registration.Register(r.Context(), input)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusCreated, user, "user registered successfully")
}

func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(r)
	if !ok {
		respondError(w, domain.ErrTokenInvalid)
		return
	}

	user, err := h.users.GetByID(r.Context(), userID)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, user, "current user")
}

type updateProfileRequest struct {
	FullName *string `json:"fullName"`
	Bio      *string `json:"bio"`
}

func (h *UserHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(r)
	if !ok {
		respondError(w, domain.ErrTokenInvalid)
		return
	}

	var req updateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, domain.ErrMissingFields)
		return
	}
	if req.FullName == nil && req.Bio == nil {
		respondError(w, domain.ErrMissingFields)
		return
	}

	user, err := h.users.UpdateProfile(r.Context(), userID, ports.UpdateProfileInput{
		FullName: req.FullName,
		Bio:      req.Bio,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, user, "profile updated")
}

func (h *UserHandler) UpdateAvatar(w http.ResponseWriter, r *http.Request) {
	h.updateImage(w, r, "avatar", h.users.UpdateAvatar)
}

func (h *UserHandler) UpdateCoverImage(w http.ResponseWriter, r *http.Request) {
	h.updateImage(w, r, "coverImage", h.users.UpdateCoverImage)
}

func (h *UserHandler) WatchHistory(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(r)
	if !ok {
		respondError(w, domain.ErrTokenInvalid)
		return
	}

	entries, err := h.channels.WatchHistory(r.Context(), userID)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, entries, "watch history")
}

func (h *UserHandler) RecordWatch(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(r)
	if !ok {
		respondError(w, domain.ErrTokenInvalid)
		return
	}

	videoID, err := uuid.Parse(chi.URLParam(r, "videoID"))
	if err != nil {
		respondError(w, domain.ErrVideoNotFound)
		return
	}

	if err := h.channels.RecordWatch(r.Context(), userID, videoID); err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, nil, "watch recorded")
}

func (h *UserHandler) updateImage(w http.ResponseWriter, r *http.Request, field string, update func(ctx context.Context, id uuid.UUID, path string) (*domain.User, error)) {
	userID, ok := userIDFrom(r)
	if !ok {
		respondError(w, domain.ErrTokenInvalid)
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		respondError(w, domain.ErrMissingFields)
		return
	}
	path, err := h.saveUpload(r, field)
	if err != nil {
		respondError(w, domain.ErrMissingFields)
		return
	}

	user, err := update(r.Context(), userID, path)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, user, field+" updated")
}

func (h *UserHandler) saveUpload(r *http.Request, field string) (string, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		return "", err
	}
	defer file.Close()
	return h.persistTemp(file, header)
}

func (h *UserHandler) persistTemp(file multipart.File, header *multipart.FileHeader) (string, error) {
	tmp, err := os.CreateTemp(h.tempDir, "upload-*"+filepath.Ext(header.Filename))
	if err != nil {
		return "", err
	}
	defer tmp.Close()

	if _, err := io.Copy(tmp, file); err != nil {
		os.Remove(tmp.Name())
		return "", err
	}
	return tmp.Name(), nil
}
