package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/gigicalma/calmalink/internal/domain"
)

// libraryResponse lists the catalog for one language.
type libraryResponse struct {
	Languages []string                `json:"languages"`
	Language  string                  `json:"language"`
	Practices []domain.PracticeRecord `json:"practices"`
}

// HandleLibrary lists the practice catalog. ?lang selects the language and
// degrades to English for unknown codes.
func (h *Handler) HandleLibrary(w http.ResponseWriter, r *http.Request) {
	lang := r.URL.Query().Get("lang")
	if !h.catalog.HasLanguage(lang) {
		lang = domain.LangEnglish
	}
	JSON(w, http.StatusOK, libraryResponse{
		Languages: h.catalog.Languages(),
		Language:  lang,
		Practices: h.catalog.Practices(lang),
	})
}

// HandlePractice returns a single practice record. An unsupported language
// degrades to the English entry; only an unknown practice id is a 404.
func (h *Handler) HandlePractice(w http.ResponseWriter, r *http.Request) {
	lang := chi.URLParam(r, "lang")
	id := chi.URLParam(r, "id")

	rec, ok := h.catalog.Lookup(lang, id)
	if !ok {
		Error(w, http.StatusNotFound, "unknown practice")
		return
	}
	JSON(w, http.StatusOK, rec)
}
