package httpapi

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"safio/internal/domain"
	"safio/internal/repository"
	"safio/internal/service"
)

// Services are the dependencies of the HTTP API.
type Services struct {
	Catalog  *service.CatalogService
	Orders   *service.OrderService
	Auth     *service.AuthService
	Advisor  *service.Advisor
	Sessions *service.SessionManager
}

type Server struct {
	engine   *gin.Engine
	catalog  *service.CatalogService
	orders   *service.OrderService
	auth     *service.AuthService
	advisor  *service.Advisor
	sessions *service.SessionManager
	log      *zap.Logger

	cookieTTL     time.Duration
	secureCookies bool
}

// Option tunes the server.
type Option func(*Server)

// WithSessionCookie sets the cookie lifetime and Secure flag.
func WithSessionCookie(ttl time.Duration, secure bool) Option {
	return func(s *Server) {
		s.cookieTTL = ttl
		s.secureCookies = secure
	}
}

func NewServer(svc Services, log *zap.Logger, opts ...Option) *Server {
	r := gin.New()
	r.Use(requestLogger(log), gin.Recovery())
	s := &Server{
		engine:    r,
		catalog:   svc.Catalog,
		orders:    svc.Orders,
		auth:      svc.Auth,
		advisor:   svc.Advisor,
		sessions:  svc.Sessions,
		log:       log,
		cookieTTL: service.DefaultSessionTTL,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerRoutes()
	return s
}

func (s *Server) Engine() *gin.Engine { return s.engine }

func (s *Server) registerRoutes() {
	// Swagger UI
	s.engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	// load balancers hit the root path; the versioned one is what swagger lists.
	// Neither opens a session.
	s.engine.GET("/healthz", s.healthz)
	s.engine.GET("/api/v1/healthz", s.healthz)

	v1 := s.engine.Group("/api/v1", s.withSession())
	{
		catalog := v1.Group("/catalog")
		catalog.GET("/products", s.listProducts)
		catalog.GET("/products/:id", s.getProduct)
		catalog.GET("/brands", s.listBrands)

		// Line ids contain the model name, which may hold a slash.
		cart := v1.Group("/cart")
		cart.GET("", s.getCart)
		cart.DELETE("", s.clearCart)
		cart.POST("/items", s.addCartItem)
		cart.PATCH("/items/*id", s.updateCartItem)
		cart.DELETE("/items/*id", s.removeCartItem)

		checkout := v1.Group("/checkout")
		checkout.GET("", s.getCheckout)
		checkout.POST("/open", s.openCheckout)
		checkout.POST("/proceed", s.proceedCheckout)
		checkout.POST("/pay", s.pay)
		checkout.POST("/close", s.closeCheckout)

		auth := v1.Group("/auth")
		auth.POST("/login", s.login)
		auth.POST("/logout", s.logout)
		auth.GET("/status", s.authStatus)

		assistant := v1.Group("/assistant")
		assistant.GET("/messages", s.getMessages)
		assistant.POST("/messages", s.ask)

		admin := v1.Group("/admin", requireAdmin())
		admin.POST("/products", s.createProduct)
		admin.PUT("/products/:id", s.updateProduct)
		admin.PUT("/products/:id/stock", s.updateStock)
		admin.POST("/products/:id/models", s.addModel)
		admin.DELETE("/products/:id/models/*model", s.removeModel)
		admin.GET("/dashboard", s.dashboard)
		admin.GET("/orders", s.listOrders)
		admin.PUT("/orders/:id/status", s.updateOrderStatus)
		admin.PUT("/credentials", s.updateCredentials)
	}
}

// @Summary Health check
// @Tags system
// @Produce json
// @Success 200 {object} map[string]string
// @Router /healthz [get]
func (s *Server) healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Catalog handlers

// @Summary List products
// @Description With model set, every product carries stock badges for that laptop model.
// @Tags catalog
// @Produce json
// @Param brand query string false "Brand, All for any"
// @Param type query string false "Guard type, All for any"
// @Param q query string false "Name contains"
// @Param model query string false "Laptop model"
// @Success 200 {array} service.Listing
// @Router /catalog/products [get]
func (s *Server) listProducts(c *gin.Context) {
	f := repository.ProductFilter{
		Brand:         c.Query("brand"),
		Type:          domain.GuardType(c.Query("type")),
		NameSubstring: c.Query("q"),
	}
	if model := c.Query("model"); model != "" {
		list, err := s.catalog.Storefront(c, f, model)
		if err != nil {
			s.fail(c, err)
			return
		}
		c.JSON(http.StatusOK, list)
		return
	}
	list, err := s.catalog.List(c, f)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// @Summary Get product by id
// @Tags catalog
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} domain.Product
// @Failure 404 {object} map[string]string
// @Router /catalog/products/{id} [get]
func (s *Server) getProduct(c *gin.Context) {
	p, err := s.catalog.GetByID(c, c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// @Summary Preset brands and laptop models
// @Tags catalog
// @Produce json
// @Success 200 {array} domain.BrandModels
// @Router /catalog/brands [get]
func (s *Server) listBrands(c *gin.Context) {
	c.JSON(http.StatusOK, s.catalog.Brands())
}

// Cart handlers

type cartResp struct {
	Items []domain.CartItem `json:"items"`
	Total int64             `json:"total"`
	Count int               `json:"count"`
}

func cartView(cart *service.Cart) cartResp {
	return cartResp{Items: cart.Items(), Total: cart.Total(), Count: cart.Count()}
}

// @Summary Get cart
// @Tags cart
// @Produce json
// @Success 200 {object} cartResp
// @Router /cart [get]
func (s *Server) getCart(c *gin.Context) {
	c.JSON(http.StatusOK, cartView(session(c).Cart))
}

type addCartItemReq struct {
	ProductID string `json:"product_id" binding:"required"`
	Model     string `json:"model" binding:"required"`
}

type addCartItemResp struct {
	Item     domain.CartItem `json:"item"`
	Cart     cartResp        `json:"cart"`
	OpenCart bool            `json:"open_cart"`
}

// @Summary Add product to cart
// @Description Adding the same product and model again increments the quantity.
// @Tags cart
// @Accept json
// @Produce json
// @Param input body addCartItemReq true "Product and laptop model"
// @Success 200 {object} addCartItemResp
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /cart/items [post]
func (s *Server) addCartItem(c *gin.Context) {
	var req addCartItemReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	p, err := s.catalog.GetByID(c, req.ProductID)
	if err != nil {
		s.fail(c, err)
		return
	}
	sess := session(c)
	item, err := sess.Cart.AddProduct(*p, req.Model)
	if err != nil {
		s.fail(c, err)
		return
	}
	sess.Checkout.Open()
	c.JSON(http.StatusOK, addCartItemResp{Item: item, Cart: cartView(sess.Cart), OpenCart: true})
}

type updateCartItemReq struct {
	Delta int `json:"delta"`
}

// @Summary Change line quantity
// @Description Quantity never drops below one. Unknown ids are ignored.
// @Tags cart
// @Accept json
// @Produce json
// @Param id path string true "Line ID"
// @Param input body updateCartItemReq true "Delta"
// @Success 200 {object} cartResp
// @Failure 400 {object} map[string]string
// @Router /cart/items/{id} [patch]
func (s *Server) updateCartItem(c *gin.Context) {
	var req updateCartItemReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	cart := session(c).Cart
	cart.UpdateQuantity(wildcard(c, "id"), req.Delta)
	c.JSON(http.StatusOK, cartView(cart))
}

// @Summary Remove line
// @Tags cart
// @Produce json
// @Param id path string true "Line ID"
// @Success 200 {object} cartResp
// @Router /cart/items/{id} [delete]
func (s *Server) removeCartItem(c *gin.Context) {
	cart := session(c).Cart
	cart.Remove(wildcard(c, "id"))
	c.JSON(http.StatusOK, cartView(cart))
}

// @Summary Empty the cart
// @Tags cart
// @Produce json
// @Success 200 {object} cartResp
// @Router /cart [delete]
func (s *Server) clearCart(c *gin.Context) {
	cart := session(c).Cart
	cart.Clear()
	c.JSON(http.StatusOK, cartView(cart))
}

// Checkout handlers

// @Summary Drawer state
// @Tags checkout
// @Produce json
// @Success 200 {object} service.CheckoutState
// @Router /checkout [get]
func (s *Server) getCheckout(c *gin.Context) {
	c.JSON(http.StatusOK, session(c).Checkout.State())
}

// @Summary Open the drawer
// @Tags checkout
// @Produce json
// @Success 200 {object} service.CheckoutState
// @Router /checkout/open [post]
func (s *Server) openCheckout(c *gin.Context) {
	co := session(c).Checkout
	co.Open()
	c.JSON(http.StatusOK, co.State())
}

// @Summary Proceed to checkout
// @Tags checkout
// @Produce json
// @Success 200 {object} service.CheckoutState
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /checkout/proceed [post]
func (s *Server) proceedCheckout(c *gin.Context) {
	co := session(c).Checkout
	if err := co.Proceed(); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, co.State())
}

// @Summary Submit payment
// @Description Starts the simulated payment. With wait=true the call returns the receipt once it completes.
// @Tags checkout
// @Produce json
// @Param wait query bool false "Block until payment completes"
// @Success 200 {object} service.Receipt
// @Success 202 {object} service.CheckoutState
// @Failure 409 {object} map[string]string
// @Router /checkout/pay [post]
func (s *Server) pay(c *gin.Context) {
	co := session(c).Checkout
	done, err := co.SubmitPayment()
	if err != nil {
		s.fail(c, err)
		return
	}
	if c.Query("wait") != "true" {
		c.JSON(http.StatusAccepted, co.State())
		return
	}
	select {
	case r := <-done:
		c.JSON(http.StatusOK, r)
	case <-c.Request.Context().Done():
		// payment still completes
	}
}

// @Summary Close the drawer
// @Tags checkout
// @Produce json
// @Success 200 {object} service.CheckoutState
// @Router /checkout/close [post]
func (s *Server) closeCheckout(c *gin.Context) {
	co := session(c).Checkout
	co.Close()
	c.JSON(http.StatusOK, co.State())
}

// Auth handlers

type loginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type authResp struct {
	Admin bool `json:"admin"`
}

// @Summary Admin login
// @Tags auth
// @Accept json
// @Produce json
// @Param input body loginReq true "Credentials"
// @Success 200 {object} authResp
// @Failure 401 {object} map[string]string
// @Router /auth/login [post]
func (s *Server) login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	ok, err := s.auth.Login(c, session(c), req.Username, req.Password)
	if err != nil {
		s.fail(c, err)
		return
	}
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid username or password."})
		return
	}
	c.JSON(http.StatusOK, authResp{Admin: true})
}

// @Summary Admin logout
// @Tags auth
// @Produce json
// @Success 200 {object} authResp
// @Router /auth/logout [post]
func (s *Server) logout(c *gin.Context) {
	s.auth.Logout(session(c))
	c.JSON(http.StatusOK, authResp{Admin: false})
}

// @Summary Session admin flag
// @Tags auth
// @Produce json
// @Success 200 {object} authResp
// @Router /auth/status [get]
func (s *Server) authStatus(c *gin.Context) {
	c.JSON(http.StatusOK, authResp{Admin: session(c).IsAdmin()})
}

// Assistant handlers

type transcriptResp struct {
	Messages []service.ChatMessage `json:"messages"`
	Loading  bool                  `json:"loading"`
}

// @Summary Chat transcript
// @Tags assistant
// @Produce json
// @Success 200 {object} transcriptResp
// @Router /assistant/messages [get]
func (s *Server) getMessages(c *gin.Context) {
	t := session(c).Chat
	c.JSON(http.StatusOK, transcriptResp{Messages: t.Messages(), Loading: t.Loading()})
}

type askReq struct {
	Query string `json:"query"`
}

// @Summary Ask the assistant
// @Tags assistant
// @Accept json
// @Produce json
// @Param input body askReq true "Question"
// @Success 200 {object} transcriptResp
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /assistant/messages [post]
func (s *Server) ask(c *gin.Context) {
	var req askReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	msgs, err := s.advisor.Ask(c, session(c).Chat, req.Query)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, transcriptResp{Messages: msgs})
}

func wildcard(c *gin.Context, name string) string {
	return strings.TrimPrefix(c.Param(name), "/")
}

func (s *Server) fail(c *gin.Context, err error) {
	status := mapErrorToStatus(err)
	if status == http.StatusInternalServerError {
		s.log.Error("Request error", zap.String("path", c.FullPath()), zap.Error(err))
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func mapErrorToStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, service.ErrEmptyCart),
		errors.Is(err, service.ErrEmptyQuery):
		return http.StatusBadRequest
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrInvalidState),
		errors.Is(err, service.ErrPaymentBusy),
		errors.Is(err, service.ErrOutOfStock),
		errors.Is(err, service.ErrAssistantBusy):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
