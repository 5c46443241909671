package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	cartdomain "github.com/bapesu/storefront-api/internal/domains/cart/domain"
	"github.com/bapesu/storefront-api/internal/platform/auth"
)

type cartLineBody struct {
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	Price     int64  `json:"price"`
	Quantity  int    `json:"quantity"`
	Image     string `json:"image,omitempty"`
}

type wishlistEntryBody struct {
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	Price     int64  `json:"price"`
	Image     string `json:"image,omitempty"`
}

type cartBody struct {
	Items    []cartLineBody      `json:"items"`
	Wishlist []wishlistEntryBody `json:"wishlist"`
	Total    int64               `json:"total"`
	Count    int                 `json:"count"`
}

type addCartItemRequest struct {
	ProductID int64  `json:"product_id" binding:"required"`
	Name      string `json:"name" binding:"required"`
	Price     int64  `json:"price"`
	Quantity  int    `json:"quantity"`
	Image     string `json:"image"`
}

func (s *Server) getCart(c *gin.Context) {
	snapshot := s.cart.Snapshot(c.Request.Context(), auth.UserID(c))
	respondData(c, http.StatusOK, cartToBody(snapshot), "")
}

func (s *Server) addCartItem(c *gin.Context) {
	var request addCartItemRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		s.responder.BadRequest(c, "invalid cart item payload: "+err.Error())
		return
	}
	product := cartdomain.Product{
		ID:        request.ProductID,
		Name:      request.Name,
		UnitPrice: request.Price,
		ImageRef:  request.Image,
	}
	snapshot, err := s.cart.AddItem(c.Request.Context(), auth.UserID(c), product, request.Quantity)
	if err != nil {
		s.responder.RespondError(c, err)
		return
	}
	respondData(c, http.StatusOK, cartToBody(snapshot), "Producto agregado al carrito")
}

type setQuantityRequest struct {
	Quantity int `json:"quantity"`
}

func (s *Server) setCartItemQuantity(c *gin.Context) {
	productID, ok := s.productIDParam(c)
	if !ok {
		return
	}
	var request setQuantityRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		s.responder.BadRequest(c, "invalid quantity payload: "+err.Error())
		return
	}
	snapshot, err := s.cart.SetQuantity(c.Request.Context(), auth.UserID(c), productID, request.Quantity)
	if err != nil {
		s.responder.RespondError(c, err)
		return
	}
	respondData(c, http.StatusOK, cartToBody(snapshot), "")
}

func (s *Server) removeCartItem(c *gin.Context) {
	productID, ok := s.productIDParam(c)
	if !ok {
		return
	}
	snapshot, err := s.cart.RemoveItem(c.Request.Context(), auth.UserID(c), productID)
	if err != nil {
		s.responder.RespondError(c, err)
		return
	}
	respondData(c, http.StatusOK, cartToBody(snapshot), "")
}

func (s *Server) clearCart(c *gin.Context) {
	snapshot, err := s.cart.Clear(c.Request.Context(), auth.UserID(c))
	if err != nil {
		s.responder.RespondError(c, err)
		return
	}
	respondData(c, http.StatusOK, cartToBody(snapshot), "Carrito vaciado")
}

func (s *Server) addWishlistItem(c *gin.Context) {
	var request wishlistEntryBody
	if err := c.ShouldBindJSON(&request); err != nil {
		s.responder.BadRequest(c, "invalid wishlist payload: "+err.Error())
		return
	}
	product := cartdomain.Product{
		ID:        request.ProductID,
		Name:      request.Name,
		UnitPrice: request.Price,
		ImageRef:  request.Image,
	}
	added, err := s.cart.AddToWishlist(c.Request.Context(), auth.UserID(c), product)
	if err != nil {
		s.responder.RespondError(c, err)
		return
	}
	message := "Agregado a favoritos"
	if !added {
		message = "Ya estaba en favoritos"
	}
	respondData(c, http.StatusOK, gin.H{"added": added}, message)
}

func (s *Server) removeWishlistItem(c *gin.Context) {
	productID, ok := s.productIDParam(c)
	if !ok {
		return
	}
	snapshot, err := s.cart.RemoveFromWishlist(c.Request.Context(), auth.UserID(c), productID)
	if err != nil {
		s.responder.RespondError(c, err)
		return
	}
	respondData(c, http.StatusOK, cartToBody(snapshot), "")
}

func (s *Server) productIDParam(c *gin.Context) (int64, bool) {
	productID, err := strconv.ParseInt(c.Param("productId"), 10, 64)
	if err != nil {
		s.responder.BadRequest(c, "productId must be an integer")
		return 0, false
	}
	return productID, true
}

func cartToBody(snapshot cartdomain.Snapshot) cartBody {
	body := cartBody{
		Items:    make([]cartLineBody, 0, len(snapshot.Lines)),
		Wishlist: make([]wishlistEntryBody, 0, len(snapshot.Wishlist)),
		Total:    snapshot.Total(),
		Count:    snapshot.Count(),
	}
	for _, line := range snapshot.Lines {
		body.Items = append(body.Items, cartLineBody{
			ProductID: line.ProductID,
			Name:      line.Name,
			Price:     line.UnitPrice,
			Quantity:  line.Quantity,
			Image:     line.ImageRef,
		})
	}
	for _, entry := range snapshot.Wishlist {
		body.Wishlist = append(body.Wishlist, wishlistEntryBody{
			ProductID: entry.ProductID,
			Name:      entry.Name,
			Price:     entry.UnitPrice,
			Image:     entry.ImageRef,
		})
	}
	return body
}
