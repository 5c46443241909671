package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	checkoutapp "github.com/bapesu/storefront-api/internal/domains/checkout/application"
	checkoutdomain "github.com/bapesu/storefront-api/internal/domains/checkout/domain"
	"github.com/bapesu/storefront-api/internal/platform/auth"
)

type shippingMethodBody struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Price int64  `json:"price"`
}

func (s *Server) listShippingMethods(c *gin.Context) {
	methods := checkoutdomain.ShippingMethods()
	body := make([]shippingMethodBody, 0, len(methods))
	for _, method := range methods {
		body = append(body, shippingMethodBody{ID: method.ID, Name: method.Name, Price: method.Price})
	}
	respondData(c, http.StatusOK, body, "")
}

type checkoutFormBody struct {
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	Address        string `json:"address"`
	City           string `json:"city"`
	State          string `json:"state"`
	ZipCode        string `json:"zip_code"`
	Country        string `json:"country"`
	ShippingMethod string `json:"shipping_method"`
	PaymentMethod  string `json:"payment_method"`
	Comments       string `json:"comments"`
}

type checkoutSessionBody struct {
	Step        int              `json:"step"`
	Form        checkoutFormBody `json:"form"`
	OrderNumber string           `json:"order_number,omitempty"`
	HandoffLink string           `json:"handoff_link,omitempty"`
}

func (s *Server) beginCheckout(c *gin.Context) {
	session, err := s.checkout.Begin(c.Request.Context(), auth.UserID(c))
	if err != nil {
		s.responder.RespondError(c, err)
		return
	}
	respondData(c, http.StatusOK, sessionToBody(session), "")
}

func (s *Server) checkoutState(c *gin.Context) {
	session, err := s.checkout.State(c.Request.Context(), auth.UserID(c))
	if err != nil {
		s.responder.RespondError(c, err)
		return
	}
	respondData(c, http.StatusOK, sessionToBody(session), "")
}

func (s *Server) updateCheckoutForm(c *gin.Context) {
	var body checkoutFormBody
	if err := c.ShouldBindJSON(&body); err != nil {
		s.responder.BadRequest(c, "invalid checkout form payload: "+err.Error())
		return
	}
	session, err := s.checkout.UpdateForm(c.Request.Context(), auth.UserID(c), bodyToForm(body))
	if err != nil {
		s.responder.RespondError(c, err)
		return
	}
	respondData(c, http.StatusOK, sessionToBody(session), "")
}

func (s *Server) checkoutNext(c *gin.Context) {
	session, err := s.checkout.Next(c.Request.Context(), auth.UserID(c))
	if err != nil {
		s.responder.RespondError(c, err)
		return
	}
	respondData(c, http.StatusOK, sessionToBody(session), "")
}

func (s *Server) checkoutBack(c *gin.Context) {
	session, err := s.checkout.Back(c.Request.Context(), auth.UserID(c))
	if err != nil {
		s.responder.RespondError(c, err)
		return
	}
	respondData(c, http.StatusOK, sessionToBody(session), "")
}

func (s *Server) submitCheckout(c *gin.Context) {
	token := c.GetHeader("Authorization")
	result, err := s.checkout.Submit(c.Request.Context(), auth.UserID(c), token)
	if err != nil {
		s.responder.RespondError(c, err)
		return
	}
	respondData(c, http.StatusCreated, gin.H{
		"order_number": result.Receipt.OrderNumber,
		"total_amount": result.Receipt.TotalAmount,
		"handoff_link": result.HandoffLink,
	}, "Orden creada exitosamente")
}

func (s *Server) confirmHandoff(c *gin.Context) {
	if err := s.checkout.ConfirmHandoff(c.Request.Context(), auth.UserID(c)); err != nil {
		s.responder.RespondError(c, err)
		return
	}
	respondData(c, http.StatusOK, gin.H{"confirmed": true}, "")
}

func sessionToBody(session checkoutapp.Session) checkoutSessionBody {
	body := checkoutSessionBody{
		Step: int(session.Step),
		Form: checkoutFormBody{
			FirstName:      session.Form.FirstName,
			LastName:       session.Form.LastName,
			Email:          session.Form.Email,
			Phone:          session.Form.Phone,
			Address:        session.Form.Address,
			City:           session.Form.City,
			State:          session.Form.State,
			ZipCode:        session.Form.ZipCode,
			Country:        session.Form.Country,
			ShippingMethod: session.Form.ShippingMethod,
			PaymentMethod:  session.Form.PaymentMethod,
			Comments:       session.Form.Comments,
		},
	}
	if session.Placed != nil {
		body.OrderNumber = session.Placed.Receipt.OrderNumber
		body.HandoffLink = session.Placed.HandoffLink
	}
	return body
}

func bodyToForm(body checkoutFormBody) checkoutdomain.FormState {
	return checkoutdomain.FormState{
		FirstName:      body.FirstName,
		LastName:       body.LastName,
		Email:          body.Email,
		Phone:          body.Phone,
		Address:        body.Address,
		City:           body.City,
		State:          body.State,
		ZipCode:        body.ZipCode,
		Country:        body.Country,
		ShippingMethod: body.ShippingMethod,
		PaymentMethod:  body.PaymentMethod,
		Comments:       body.Comments,
	}
}
