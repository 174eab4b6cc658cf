package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/tmarwah/shopline-api/internal/service"
)

type createCategoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// getProductsHandler returns the full catalog
func (s *Server) getProductsHandler(w http.ResponseWriter, r *http.Request) {
	products, err := s.catalogService.ListProducts(r.Context())

	if err != nil {
		s.respondWithAppError(w, err)
		return
	}

	s.respondWithJSON(w, http.StatusOK, ApiResponse{
		Success: true,
		Data:    products,
	})
}

// getProductByIDHandler returns one product
func (s *Server) getProductByIDHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	product, err := s.catalogService.GetProduct(r.Context(), id)

	if err != nil {
		s.respondWithAppError(w, err)
		return
	}

	s.respondWithJSON(w, http.StatusOK, ApiResponse{
		Success: true,
		Data:    product,
	})
}

// getProductsByCategoryHandler returns the products of one category
func (s *Server) getProductsByCategoryHandler(w http.ResponseWriter, r *http.Request) {
	categoryID := mux.Vars(r)["categoryId"]

	products, err := s.catalogService.ListProductsByCategory(r.Context(), categoryID)

	if err != nil {
		s.respondWithAppError(w, err)
		return
	}

	s.respondWithJSON(w, http.StatusOK, ApiResponse{
		Success: true,
		Data:    products,
	})
}

// createProductHandler adds a product to the catalog
func (s *Server) createProductHandler(w http.ResponseWriter, r *http.Request) {
	var input service.ProductInput

	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		s.respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	product, err := s.catalogService.CreateProduct(r.Context(), &input)

	if err != nil {
		s.respondWithAppError(w, err)
		return
	}

	s.respondWithJSON(w, http.StatusCreated, ApiResponse{
		Success: true,
		Data:    product,
	})
}

// updateProductHandler modifies an existing product
func (s *Server) updateProductHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var input service.ProductInput

	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		s.respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	product, err := s.catalogService.UpdateProduct(r.Context(), id, &input)

	if err != nil {
		s.respondWithAppError(w, err)
		return
	}

	s.respondWithJSON(w, http.StatusOK, ApiResponse{
		Success: true,
		Data:    product,
	})
}

// deleteProductHandler removes a product from the catalog
func (s *Server) deleteProductHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := s.catalogService.DeleteProduct(r.Context(), id); err != nil {
		s.respondWithAppError(w, err)
		return
	}

	s.respondWithJSON(w, http.StatusOK, ApiResponse{
		Success: true,
	})
}

// getCategoriesHandler returns all categories
func (s *Server) getCategoriesHandler(w http.ResponseWriter, r *http.Request) {
	categories, err := s.catalogService.ListCategories(r.Context())

	if err != nil {
		s.respondWithAppError(w, err)
		return
	}

	s.respondWithJSON(w, http.StatusOK, ApiResponse{
		Success: true,
		Data:    categories,
	})
}

// getCategoryByIDHandler returns one category
func (s *Server) getCategoryByIDHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	category, err := s.catalogService.GetCategory(r.Context(), id)

	if err != nil {
		s.respondWithAppError(w, err)
		return
	}

	s.respondWithJSON(w, http.StatusOK, ApiResponse{
		Success: true,
		Data:    category,
	})
}

// createCategoryHandler adds a category to the taxonomy
func (s *Server) createCategoryHandler(w http.ResponseWriter, r *http.Request) {
	var req createCategoryRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	category, err := s.catalogService.CreateCategory(r.Context(), req.Name, req.Description)

	if err != nil {
		s.respondWithAppError(w, err)
		return
	}

	s.respondWithJSON(w, http.StatusCreated, ApiResponse{
		Success: true,
		Data:    category,
	})
}
