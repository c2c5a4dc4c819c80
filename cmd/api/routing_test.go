package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"

	"bookshelf/internal/book"
)

func newTestMux(t *testing.T) (*http.ServeMux, *book.MockRepository) {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)
	repo := book.NewMockRepository(ctrl)
	images := book.NewMockImages(ctrl)
	handler := book.NewHTTPHandler(book.NewService(repo, images))

	mux := http.NewServeMux()
	handler.Register(mux)
	return mux, repo
}

func TestRouting_ListRegistered(t *testing.T) {
	mux, repo := newTestMux(t)
	repo.EXPECT().List(gomock.Any(), gomock.Any()).Return(nil, 0, nil)

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/book", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 from GET /book, got %d", w.Code)
	}
}

func TestRouting_GetByIDRegistered(t *testing.T) {
	mux, repo := newTestMux(t)
	repo.EXPECT().GetByID(gomock.Any(), int64(1)).Return(book.Book{ID: 1, Title: "Dune"}, nil)

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/book/1", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 from GET /book/1, got %d", w.Code)
	}
}

func TestRouting_MethodNotAllowed(t *testing.T) {
	mux, _ := newTestMux(t)

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodPatch, "/book", nil))

	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405 from PATCH /book, got %d", w.Code)
	}
}
