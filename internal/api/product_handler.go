package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"dukani-be/internal/money"
	"dukani-be/internal/product"
	"dukani-be/internal/utils"

	"github.com/gorilla/mux"
)

// 32 MB, enough for a handful of product photos per request.
const maxUploadSize = 32 << 20

type ProductHandler struct {
	products product.Service
}

func NewProductHandler(products product.Service) *ProductHandler {
	return &ProductHandler{products: products}
}

func parseQueryOptions(r *http.Request) product.QueryOptions {
	q := r.URL.Query()

	opts := product.QueryOptions{
		Search:     q.Get("search"),
		CategoryID: q.Get("category"),
		Status:     q.Get("status"),
	}

	if v, err := strconv.ParseInt(q.Get("page"), 10, 32); err == nil {
		opts.Page = int32(v)
	}
	if v, err := strconv.ParseInt(q.Get("limit"), 10, 32); err == nil {
		opts.Limit = int32(v)
	}
	if v, err := strconv.ParseInt(q.Get("minPrice"), 10, 64); err == nil {
		p := money.Cents(v)
		opts.MinPrice = &p
	}
	if v, err := strconv.ParseInt(q.Get("maxPrice"), 10, 64); err == nil {
		p := money.Cents(v)
		opts.MaxPrice = &p
	}
	if v, err := strconv.ParseBool(q.Get("inStock")); err == nil {
		opts.InStock = &v
	}
	if v, err := strconv.ParseBool(q.Get("withCount")); err == nil {
		opts.IncludeCount = v
	}

	return opts
}

// List serves the storefront product grid.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	result, err := h.products.GetList(r.Context(), parseQueryOptions(r))
	if err != nil {
		respondError(r, w, "product.list", err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, result)
}

// AdminList is the same query surface but may include disabled products
// and always carries the total for table pagination.
func (h *ProductHandler) AdminList(w http.ResponseWriter, r *http.Request) {
	opts := parseQueryOptions(r)
	opts.IncludeDisabled = true
	opts.IncludeCount = true

	result, err := h.products.GetList(r.Context(), opts)
	if err != nil {
		respondError(r, w, "product.admin_list", err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, result)
}

func (h *ProductHandler) GetBySlug(w http.ResponseWriter, r *http.Request) {
	slug := mux.Vars(r)["slug"]

	p, err := h.products.GetBySlug(r.Context(), slug)
	if err != nil {
		respondError(r, w, "product.get_by_slug", err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, p)
}

func (h *ProductHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	p, err := h.products.GetByID(r.Context(), id)
	if err != nil {
		respondError(r, w, "product.get", err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, p)
}

// Create accepts multipart form data: a "product" JSON part plus any number
// of "images" file parts.
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		utils.WriteJSONError(w, "invalid multipart form", http.StatusBadRequest)
		return
	}

	var input product.NewProduct
	if err := json.Unmarshal([]byte(r.FormValue("product")), &input); err != nil {
		utils.WriteJSONError(w, "invalid product payload", http.StatusBadRequest)
		return
	}
	if err := validate.Struct(input); err != nil {
		respondValidation(w, err)
		return
	}

	images, closeAll, err := formImages(r)
	if err != nil {
		utils.WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	defer closeAll()

	p, err := h.products.Create(r.Context(), input, images)
	if err != nil {
		respondError(r, w, "product.create", err)
		return
	}

	utils.WriteJSON(w, http.StatusCreated, p)
}

func formImages(r *http.Request) ([]product.ImageUpload, func(), error) {
	var (
		images  []product.ImageUpload
		closers []func() error
	)

	if r.MultipartForm != nil {
		for _, header := range r.MultipartForm.File["images"] {
			f, err := header.Open()
			if err != nil {
				for _, c := range closers {
					_ = c()
				}
				return nil, nil, err
			}
			closers = append(closers, f.Close)
			images = append(images, product.ImageUpload{
				FileName: header.Filename,
				Content:  f,
			})
		}
	}

	closeAll := func() {
		for _, c := range closers {
			_ = c()
		}
	}
	return images, closeAll, nil
}

func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	var input product.UpdateProduct
	if err := decodeJSON(r, &input); err != nil {
		respondValidation(w, err)
		return
	}
	input.ID = mux.Vars(r)["id"]

	p, err := h.products.Update(r.Context(), input)
	if err != nil {
		respondError(r, w, "product.update", err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, p)
}

func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.products.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		respondError(r, w, "product.delete", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *ProductHandler) AddImages(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		utils.WriteJSONError(w, "invalid multipart form", http.StatusBadRequest)
		return
	}

	images, closeAll, err := formImages(r)
	if err != nil {
		utils.WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	defer closeAll()

	if len(images) == 0 {
		utils.WriteJSONError(w, "no images provided", http.StatusBadRequest)
		return
	}

	p, err := h.products.AddImages(r.Context(), mux.Vars(r)["id"], images)
	if err != nil {
		respondError(r, w, "product.add_images", err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, p)
}

func (h *ProductHandler) DeleteImage(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		utils.WriteJSONError(w, "path query parameter is required", http.StatusBadRequest)
		return
	}

	if err := h.products.DeleteImage(r.Context(), mux.Vars(r)["id"], path); err != nil {
		respondError(r, w, "product.delete_image", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
