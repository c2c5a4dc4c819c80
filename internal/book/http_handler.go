package book

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"bookshelf/internal/httpx"
	"bookshelf/internal/image"
)

// maxUploadMemory bounds the in-memory portion of multipart parsing; larger
// files spill to disk.
const maxUploadMemory = 32 << 20

type HTTPHandler struct {
	service *Service
	errors  *httpx.ErrorMapper
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{
		service: service,
		errors:  newErrorMapper(),
	}
}

// newErrorMapper is the single dispatch table from error kind to status.
func newErrorMapper() *httpx.ErrorMapper {
	return httpx.NewErrorMapper(
		httpx.ErrorMapping{Err: ErrInvalid, Status: http.StatusBadRequest},
		httpx.ErrorMapping{Err: ErrNotFound, Status: http.StatusNotFound},
		httpx.ErrorMapping{Err: image.ErrNotFound, Status: http.StatusNotFound},
		httpx.ErrorMapping{Err: image.ErrUpload, Status: http.StatusBadRequest},
		httpx.ErrorMapping{Err: image.ErrDelete, Status: http.StatusInternalServerError},
	)
}

// Register mounts the catalog routes on the mux.
func (h *HTTPHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /book", h.Create)
	mux.HandleFunc("PUT /book/{id}/image", h.ReplaceImage)
	mux.HandleFunc("PUT /book", h.Update)
	mux.HandleFunc("GET /book", h.List)
	mux.HandleFunc("GET /book/{id}", h.GetByID)
	mux.HandleFunc("DELETE /book/{id}", h.Delete)
}

func parseID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	return id, err == nil
}

// formFile extracts the optional "file" multipart part. A missing part is
// not an error. The returned closer is nil when no file was sent.
func formFile(r *http.Request) (*image.File, io.Closer, error) {
	f, header, err := r.FormFile("file")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil, nil
		}
		return nil, nil, err
	}
	return &image.File{
		Name:    header.Filename,
		Size:    header.Size,
		Content: f,
	}, f, nil
}

// Create handles POST /book (multipart: book JSON + optional file).
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		httpx.Error(w, http.StatusBadRequest, "Error processing file")
		return
	}

	var draft Book
	if err := json.Unmarshal([]byte(r.FormValue("book")), &draft); err != nil {
		httpx.Error(w, http.StatusBadRequest, "Invalid book JSON format")
		return
	}

	file, closer, err := formFile(r)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "Error processing file")
		return
	}
	if closer != nil {
		defer closer.Close()
	}

	saved, err := h.service.Create(r.Context(), draft, file)
	if err != nil {
		h.errors.Write(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, saved)
}

// ReplaceImage handles PUT /book/{id}/image. The book is resolved before
// anything is uploaded, so an unknown id never touches the media store.
func (h *HTTPHandler) ReplaceImage(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		httpx.Error(w, http.StatusBadRequest, "invalid book id")
		return
	}

	b, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		h.errors.Write(w, r, err)
		return
	}

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		httpx.Error(w, http.StatusBadRequest, "Error processing file")
		return
	}
	file, closer, err := formFile(r)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "Error processing file")
		return
	}
	if file == nil {
		httpx.Error(w, http.StatusBadRequest, "file is required")
		return
	}
	defer closer.Close()

	updated, err := h.service.ReplaceImage(r.Context(), file, b)
	if err != nil {
		h.errors.Write(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, updated)
}

type updateRequest struct {
	ID     int64    `json:"id" validate:"required"`
	Title  string   `json:"title" validate:"required"`
	Author string   `json:"author" validate:"required"`
	Pages  *int     `json:"pages" validate:"required,gte=0"`
	Price  *float64 `json:"price" validate:"required,gte=0"`
}

// Update handles PUT /book (full replacement of mutable fields).
func (h *HTTPHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "Invalid book JSON format")
		return
	}

	if messages := httpx.ValidateStruct(req); messages != nil {
		httpx.Error(w, http.StatusBadRequest, strings.Join(messages, "; "))
		return
	}

	updated, err := h.service.Update(r.Context(), Book{
		ID:     req.ID,
		Title:  req.Title,
		Author: req.Author,
		Pages:  *req.Pages,
		Price:  *req.Price,
	})
	if err != nil {
		h.errors.Write(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, updated)
}

type listResponse struct {
	Content       []Summary `json:"content"`
	Page          int       `json:"page"`
	Size          int       `json:"size"`
	TotalElements int       `json:"total_elements"`
	TotalPages    int       `json:"total_pages"`
}

// List handles GET /book with paging, sorting and substring search.
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	page := 0
	if v := query.Get("page"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			httpx.Error(w, http.StatusBadRequest, "invalid page parameter")
			return
		}
		page = p
	}

	size := 10
	if v := query.Get("size"); v != "" {
		s, err := strconv.Atoi(v)
		if err != nil {
			httpx.Error(w, http.StatusBadRequest, "invalid size parameter")
			return
		}
		size = s
	}

	desc, err := ParseDirection(query.Get("sortDirection"))
	if err != nil {
		h.errors.Write(w, r, err)
		return
	}

	sortBy := query.Get("sortBy")
	if sortBy == "" {
		sortBy = "title"
	}

	params := Query{
		Page:   page,
		Size:   size,
		SortBy: sortBy,
		Desc:   desc,
		Search: query.Get("query"),
	}

	items, total, err := h.service.List(r.Context(), params)
	if err != nil {
		h.errors.Write(w, r, err)
		return
	}
	if items == nil {
		items = []Summary{}
	}

	totalPages := 0
	if size > 0 {
		totalPages = (total + size - 1) / size
	}
	httpx.WriteJSON(w, http.StatusOK, listResponse{
		Content:       items,
		Page:          page,
		Size:          size,
		TotalElements: total,
		TotalPages:    totalPages,
	})
}

// GetByID handles GET /book/{id}.
func (h *HTTPHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		httpx.Error(w, http.StatusBadRequest, "invalid book id")
		return
	}

	b, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		h.errors.Write(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, b)
}

// Delete handles DELETE /book/{id}. Existence is resolved first; deleting
// an unknown id is a 404, not a silent no-op.
func (h *HTTPHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		httpx.Error(w, http.StatusBadRequest, "invalid book id")
		return
	}

	b, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		h.errors.Write(w, r, err)
		return
	}

	if err := h.service.Delete(r.Context(), b); err != nil {
		h.errors.Write(w, r, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}
