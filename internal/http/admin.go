package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"safio/internal/domain"
	"safio/internal/service"
)

// Admin handlers. Every route here sits behind requireAdmin.

// @Summary Create product
// @Tags admin
// @Accept json
// @Produce json
// @Param input body service.ProductForm true "Product form"
// @Success 201 {object} domain.Product
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /admin/products [post]
func (s *Server) createProduct(c *gin.Context) {
	var form service.ProductForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	p, err := s.catalog.Create(c, form)
	if err != nil {
		s.fail(c, err)
		return
	}
	s.log.Info("Product created", zap.String("product_id", p.ID))
	c.JSON(http.StatusCreated, p)
}

// @Summary Update product
// @Description Stock is left untouched.
// @Tags admin
// @Accept json
// @Produce json
// @Param id path string true "Product ID"
// @Param input body service.ProductForm true "Product form"
// @Success 200 {object} domain.Product
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /admin/products/{id} [put]
func (s *Server) updateProduct(c *gin.Context) {
	var form service.ProductForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	p, err := s.catalog.Update(c, c.Param("id"), form)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

type updateStockReq struct {
	Model string `json:"model" binding:"required"`
	Stock *int   `json:"stock" binding:"required"`
}

// @Summary Set units for a laptop model
// @Tags admin
// @Accept json
// @Produce json
// @Param id path string true "Product ID"
// @Param input body updateStockReq true "Model and units"
// @Success 200 {object} domain.Product
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /admin/products/{id}/stock [put]
func (s *Server) updateStock(c *gin.Context) {
	var req updateStockReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	id := c.Param("id")
	if err := s.catalog.UpdateStock(c, id, req.Model, *req.Stock); err != nil {
		s.fail(c, err)
		return
	}
	s.respondProduct(c, id)
}

type addModelReq struct {
	Model string `json:"model"`
}

// @Summary Add a laptop model with zero units
// @Tags admin
// @Accept json
// @Produce json
// @Param id path string true "Product ID"
// @Param input body addModelReq true "Model"
// @Success 200 {object} domain.Product
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /admin/products/{id}/models [post]
func (s *Server) addModel(c *gin.Context) {
	var req addModelReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	id := c.Param("id")
	if err := s.catalog.AddModel(c, id, req.Model); err != nil {
		s.fail(c, err)
		return
	}
	s.respondProduct(c, id)
}

// @Summary Remove a laptop model
// @Tags admin
// @Produce json
// @Param id path string true "Product ID"
// @Param model path string true "Laptop model"
// @Success 200 {object} domain.Product
// @Failure 404 {object} map[string]string
// @Router /admin/products/{id}/models/{model} [delete]
func (s *Server) removeModel(c *gin.Context) {
	id := c.Param("id")
	if err := s.catalog.RemoveModel(c, id, wildcard(c, "model")); err != nil {
		s.fail(c, err)
		return
	}
	s.respondProduct(c, id)
}

func (s *Server) respondProduct(c *gin.Context, id string) {
	p, err := s.catalog.GetByID(c, id)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// @Summary Inventory summary
// @Tags admin
// @Produce json
// @Success 200 {object} service.Dashboard
// @Router /admin/dashboard [get]
func (s *Server) dashboard(c *gin.Context) {
	d, err := s.catalog.Dashboard(c)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

// @Summary Completed orders, newest first
// @Tags admin
// @Produce json
// @Success 200 {array} domain.Order
// @Router /admin/orders [get]
func (s *Server) listOrders(c *gin.Context) {
	list, err := s.orders.List(c)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

type updateOrderStatusReq struct {
	Status domain.OrderStatus `json:"status"`
}

// @Summary Advance order status
// @Tags admin
// @Accept json
// @Produce json
// @Param id path string true "Order ID"
// @Param input body updateOrderStatusReq true "New status"
// @Success 200 {object} domain.Order
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /admin/orders/{id}/status [put]
func (s *Server) updateOrderStatus(c *gin.Context) {
	var req updateOrderStatusReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	o, err := s.orders.UpdateStatus(c, c.Param("id"), req.Status)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, o)
}

type credentialsReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// @Summary Change admin credentials
// @Tags admin
// @Accept json
// @Param input body credentialsReq true "New credentials"
// @Success 204
// @Failure 400 {object} map[string]string
// @Router /admin/credentials [put]
func (s *Server) updateCredentials(c *gin.Context) {
	var req credentialsReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if err := s.auth.UpdateCredentials(c, req.Username, req.Password); err != nil {
		s.fail(c, err)
		return
	}
	s.log.Info("Admin credentials updated", zap.String("username", req.Username))
	c.Status(http.StatusNoContent)
}
