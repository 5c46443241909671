package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/bapesu/storefront-api/internal/domains/orders/adapters/http/mapper"
	ordersdomain "github.com/bapesu/storefront-api/internal/domains/orders/domain"
	ordersports "github.com/bapesu/storefront-api/internal/domains/orders/ports"
	"github.com/bapesu/storefront-api/internal/platform/auth"
)

func (s *Server) createOrder(c *gin.Context) {
	var request mapper.CreateOrderRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		s.responder.BadRequest(c, "invalid order payload: "+err.Error())
		return
	}
	if key := strings.TrimSpace(c.GetHeader("Idempotency-Key")); key != "" {
		request.IdempotencyKey = key
	}
	input := request.ToCreateInput(auth.UserID(c))
	order, err := s.orders.CreateOrder(c.Request.Context(), input)
	if err != nil {
		s.responder.RespondError(c, err)
		return
	}
	respondData(c, http.StatusCreated, mapper.FromDomainOrder(order), "Orden creada exitosamente")
}

func (s *Server) listMyOrders(c *gin.Context) {
	query := ordersports.HistoryQuery{
		Page:  intQuery(c, "page", 1),
		Limit: intQuery(c, "limit", 0),
	}
	status, ok, err := statusQuery(c)
	if err != nil {
		s.responder.RespondError(c, err)
		return
	}
	if ok {
		query.Status = &status
	}
	orders, total, err := s.orders.ListMine(c.Request.Context(), auth.UserID(c), query)
	if err != nil {
		s.responder.RespondError(c, err)
		return
	}
	respondPage(c, mapper.FromDomainOrders(orders), total, query.Page, len(orders))
}

func (s *Server) getMyOrder(c *gin.Context) {
	detail, err := s.orders.GetMine(c.Request.Context(), auth.UserID(c), c.Param("id"))
	if err != nil {
		s.responder.RespondError(c, err)
		return
	}
	respondData(c, http.StatusOK, gin.H{
		"order":   mapper.FromDomainOrder(detail.Order),
		"ratings": mapper.FromDomainRatings(detail.Ratings),
	}, "")
}

type rateProductRequest struct {
	ProductID int64  `json:"product_id" binding:"required"`
	OrderID   string `json:"order_id" binding:"required"`
	Rating    int    `json:"rating" binding:"required"`
}

func (s *Server) rateProduct(c *gin.Context) {
	var request rateProductRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		s.responder.BadRequest(c, "invalid rating payload: "+err.Error())
		return
	}
	rating, err := s.orders.RateProduct(c.Request.Context(), auth.UserID(c), request.OrderID, request.ProductID, request.Rating)
	if err != nil {
		s.responder.RespondError(c, err)
		return
	}
	respondData(c, http.StatusOK, mapper.FromDomainRating(rating), "Calificación guardada")
}

func (s *Server) adminListOrders(c *gin.Context) {
	query := ordersports.ListQuery{
		Search:   strings.TrimSpace(c.Query("search")),
		Page:     intQuery(c, "page", 1),
		PageSize: intQuery(c, "per_page", 0),
	}
	status, ok, err := statusQuery(c)
	if err != nil {
		s.responder.RespondError(c, err)
		return
	}
	if ok {
		query.Status = &status
	}
	orders, total, err := s.orders.ListOrders(c.Request.Context(), query)
	if err != nil {
		s.responder.RespondError(c, err)
		return
	}
	respondPage(c, mapper.FromDomainOrders(orders), total, query.Page, query.Limit())
}

func (s *Server) adminOrderStats(c *gin.Context) {
	stats, err := s.orders.OrderStats(c.Request.Context())
	if err != nil {
		s.responder.RespondError(c, err)
		return
	}
	statusCounts := map[string]int64{}
	for status, count := range stats.StatusCounts {
		statusCounts[string(status)] = count
	}
	respondData(c, http.StatusOK, gin.H{
		"total_orders":  stats.TotalOrders,
		"status_counts": statusCounts,
		"total_sales":   stats.TotalSales,
	}, "")
}

func (s *Server) adminUpdateOrder(c *gin.Context) {
	var request mapper.UpdateOrderRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		s.responder.BadRequest(c, "invalid update payload: "+err.Error())
		return
	}
	order, err := s.orders.UpdateOrder(c.Request.Context(), c.Param("id"), request.ToPatch())
	if err != nil {
		s.responder.RespondError(c, err)
		return
	}
	respondData(c, http.StatusOK, mapper.FromDomainOrder(order), "Orden actualizada")
}

func (s *Server) adminDeleteOrder(c *gin.Context) {
	if err := s.orders.DeleteOrder(c.Request.Context(), c.Param("id")); err != nil {
		s.responder.RespondError(c, err)
		return
	}
	respondData(c, http.StatusOK, gin.H{"id": c.Param("id")}, "Orden eliminada")
}

func intQuery(c *gin.Context, key string, fallback int) int {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return fallback
	}
	return value
}

func statusQuery(c *gin.Context) (ordersdomain.Status, bool, error) {
	raw := strings.TrimSpace(c.Query("status"))
	if raw == "" {
		return "", false, nil
	}
	status := ordersdomain.Status(raw)
	if !status.Valid() {
		return "", false, ordersdomain.ErrInvalidStatus
	}
	return status, true, nil
}
