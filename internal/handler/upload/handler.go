package upload

import (
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/asistec/asistec/backend/internal/service/storage"
	"github.com/asistec/asistec/backend/pkg/utils"
)

// Handler atiende la subida y descarga de archivos
type Handler struct {
	store *storage.Store
}

// New crea el manejador de archivos
func New(store *storage.Store) *Handler {
	return &Handler{store: store}
}

// RegisterRoutes registra el endpoint de subida
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/upload", h.handleUpload)
}

// RegisterStatic registra la descarga de archivos almacenados
func (h *Handler) RegisterStatic(r chi.Router) {
	r.Get("/uploads/{name}", h.handleServeFile)
}

type uploadResponse struct {
	FileURL  string `json:"file_url"`
	Filename string `json:"filename"`
}

// handleUpload recibe un archivo multipart y lo persiste por fragmentos
func (h *Handler) handleUpload(w http.ResponseWriter, r *http.Request) {
	reader, err := r.MultipartReader()
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "multipart form required")
		return
	}

	for {
		part, err := reader.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			utils.RespondError(w, http.StatusBadRequest, "invalid multipart payload")
			return
		}
		if part.FormName() != "file" {
			_ = part.Close()
			continue
		}

		filename := part.FileName()
		storedName, err := h.store.Save(r.Context(), filename, part)
		_ = part.Close()

		switch {
		case errors.Is(err, storage.ErrUnsupportedType):
			utils.RespondError(w, http.StatusBadRequest, "File type not allowed")
		case err != nil:
			log.Printf("[upload] save failed: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Error saving file")
		default:
			utils.RespondJSON(w, http.StatusOK, uploadResponse{
				FileURL:  "/uploads/" + storedName,
				Filename: filename,
			})
		}
		return
	}

	utils.RespondError(w, http.StatusBadRequest, "file field is required")
}

// handleServeFile sirve un archivo por su nombre generado
func (h *Handler) handleServeFile(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	path, err := h.store.Path(name)
	if err != nil {
		utils.RespondError(w, http.StatusNotFound, "file not found")
		return
	}

	http.ServeFile(w, r, path)
}
