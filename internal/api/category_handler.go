package api

import (
	"net/http"

	"dukani-be/internal/category"
	"dukani-be/internal/utils"

	"github.com/gorilla/mux"
)

type CategoryHandler struct {
	categories category.Service
}

func NewCategoryHandler(categories category.Service) *CategoryHandler {
	return &CategoryHandler{categories: categories}
}

// Tree returns the full taxonomy with subcategories nested under their parent.
func (h *CategoryHandler) Tree(w http.ResponseWriter, r *http.Request) {
	tree, err := h.categories.Tree(r.Context())
	if err != nil {
		respondError(r, w, "category.tree", err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, tree)
}

type newCategoryPayload struct {
	Name string `json:"name" validate:"required,min=2,max=100"`
}

func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input newCategoryPayload
	if err := decodeJSON(r, &input); err != nil {
		respondValidation(w, err)
		return
	}

	c, err := h.categories.AddCategory(r.Context(), input.Name)
	if err != nil {
		respondError(r, w, "category.create", err)
		return
	}

	utils.WriteJSON(w, http.StatusCreated, c)
}

func (h *CategoryHandler) CreateSubcategory(w http.ResponseWriter, r *http.Request) {
	var input newCategoryPayload
	if err := decodeJSON(r, &input); err != nil {
		respondValidation(w, err)
		return
	}

	sc, err := h.categories.AddSubcategory(r.Context(), mux.Vars(r)["id"], input.Name)
	if err != nil {
		respondError(r, w, "category.create_subcategory", err)
		return
	}

	utils.WriteJSON(w, http.StatusCreated, sc)
}
