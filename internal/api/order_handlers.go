package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/tmarwah/shopline-api/internal/models"
	"github.com/tmarwah/shopline-api/internal/service"
)

type updateStatusRequest struct {
	Status models.OrderStatus `json:"status"`
}

type updatePaymentStatusRequest struct {
	PaymentStatus models.PaymentStatus `json:"paymentStatus"`
}

type updateTrackingRequest struct {
	TrackingNumber        string `json:"trackingNumber"`
	EstimatedDeliveryDate string `json:"estimatedDeliveryDate,omitempty"`
}

// createOrderHandler creates a new order from a client draft
func (s *Server) createOrderHandler(w http.ResponseWriter, r *http.Request) {
	var draft models.OrderDraft

	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		s.respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	order, err := s.orderService.CreateOrder(r.Context(), &draft)

	if err != nil {
		s.respondWithMutationError(w, err)
		return
	}

	s.respondWithJSON(w, http.StatusCreated, ApiResponse{
		Success: true,
		Data:    service.ProjectOrder(order),
	})
}

// getOrdersHandler lists orders, optionally filtered by customer email,
// status or an order date range. Both range bounds must be present for
// the range to apply.
func (s *Server) getOrdersHandler(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	email := query.Get("email")
	status := models.OrderStatus(query.Get("status"))

	dateFrom, err := parseTimeParam(query.Get("dateFrom"))

	if err != nil {
		s.respondWithError(w, http.StatusBadRequest, "Invalid dateFrom, expected RFC 3339 timestamp")
		return
	}

	dateTo, err := parseTimeParam(query.Get("dateTo"))

	if err != nil {
		s.respondWithError(w, http.StatusBadRequest, "Invalid dateTo, expected RFC 3339 timestamp")
		return
	}

	orders, err := s.orderService.ListOrders(r.Context(), email, status, dateFrom, dateTo)

	if err != nil {
		s.respondWithAppError(w, err)
		return
	}

	s.respondWithJSON(w, http.StatusOK, ApiResponse{
		Success: true,
		Data:    projectOrders(orders),
	})
}

// searchOrdersHandler finds orders matching the free-text query
func (s *Server) searchOrdersHandler(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")

	if query == "" {
		s.respondWithError(w, http.StatusBadRequest, "Missing query parameter")
		return
	}

	orders, err := s.orderService.SearchOrders(r.Context(), query)

	if err != nil {
		s.respondWithAppError(w, err)
		return
	}

	s.respondWithJSON(w, http.StatusOK, ApiResponse{
		Success: true,
		Data:    projectOrders(orders),
	})
}

// getOrderStatsHandler returns order counts per status plus a total
func (s *Server) getOrderStatsHandler(w http.ResponseWriter, r *http.Request) {
	stats, err := s.orderService.GetOrderStatistics(r.Context())

	if err != nil {
		s.respondWithAppError(w, err)
		return
	}

	s.respondWithJSON(w, http.StatusOK, ApiResponse{
		Success: true,
		Data:    stats,
	})
}

// getOrderByIDHandler returns one order in the client view shape
func (s *Server) getOrderByIDHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	view, err := s.orderService.GetOrderView(r.Context(), id)

	if err != nil {
		s.respondWithAppError(w, err)
		return
	}

	s.respondWithJSON(w, http.StatusOK, ApiResponse{
		Success: true,
		Data:    view,
	})
}

// updateOrderStatusHandler moves an order along the fulfillment state machine
func (s *Server) updateOrderStatusHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req updateStatusRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	if req.Status == "" {
		s.respondWithError(w, http.StatusBadRequest, "Missing status")
		return
	}

	order, err := s.orderService.UpdateOrderStatus(r.Context(), id, req.Status)

	if err != nil {
		s.respondWithMutationError(w, err)
		return
	}

	s.respondWithJSON(w, http.StatusOK, ApiResponse{
		Success: true,
		Data:    service.ProjectOrder(order),
	})
}

// updatePaymentStatusHandler overwrites the payment status of an order
func (s *Server) updatePaymentStatusHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req updatePaymentStatusRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	if req.PaymentStatus == "" {
		s.respondWithError(w, http.StatusBadRequest, "Missing paymentStatus")
		return
	}

	order, err := s.orderService.UpdatePaymentStatus(r.Context(), id, req.PaymentStatus)

	if err != nil {
		s.respondWithMutationError(w, err)
		return
	}

	s.respondWithJSON(w, http.StatusOK, ApiResponse{
		Success: true,
		Data:    service.ProjectOrder(order),
	})
}

// updateTrackingHandler sets the tracking number and, when supplied, the
// estimated delivery date
func (s *Server) updateTrackingHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req updateTrackingRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	if req.TrackingNumber == "" {
		s.respondWithError(w, http.StatusBadRequest, "Missing trackingNumber")
		return
	}

	estimatedDelivery, err := parseTimeParam(req.EstimatedDeliveryDate)

	if err != nil {
		s.respondWithError(w, http.StatusBadRequest, "Invalid estimatedDeliveryDate, expected RFC 3339 timestamp")
		return
	}

	order, err := s.orderService.UpdateTracking(r.Context(), id, req.TrackingNumber, estimatedDelivery)

	if err != nil {
		s.respondWithMutationError(w, err)
		return
	}

	s.respondWithJSON(w, http.StatusOK, ApiResponse{
		Success: true,
		Data:    service.ProjectOrder(order),
	})
}

// parseTimeParam parses an optional RFC 3339 timestamp; empty means absent
func parseTimeParam(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}

	t, err := time.Parse(time.RFC3339, value)

	if err != nil {
		return nil, err
	}

	return &t, nil
}

func projectOrders(orders []*models.Order) []*models.OrderView {
	views := make([]*models.OrderView, 0, len(orders))

	for _, order := range orders {
		views = append(views, service.ProjectOrder(order))
	}

	return views
}
