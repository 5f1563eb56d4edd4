package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"fishmarket/internal/domain"
	"fishmarket/internal/repository"
	"fishmarket/internal/service"
)

type Server struct {
	engine  *gin.Engine
	catalog *service.CatalogService
	orders  *service.OrderService
	log     *zap.Logger
}

// NewServer wires routes for the storefront API. webDir, if non-empty, is
// served as the static client at the root path.
func NewServer(catalog *service.CatalogService, orders *service.OrderService, log *zap.Logger, webDir string) *Server {
	r := gin.New()
	r.Use(RequestID(), RequestLogger(log), gin.Recovery())
	s := &Server{engine: r, catalog: catalog, orders: orders, log: log}
	s.registerRoutes(webDir)
	return s
}

func (s *Server) Engine() *gin.Engine { return s.engine }

func (s *Server) registerRoutes(webDir string) {
	// Swagger UI
	s.engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := s.engine.Group("/api")
	{
		api.GET("/fish", s.listFish)
		api.POST("/fish", s.addFish)
		api.POST("/order", s.placeOrder)
		api.GET("/orders", s.listOrders)
	}

	if webDir != "" {
		fileServer := http.FileServer(http.Dir(webDir))
		s.engine.NoRoute(gin.WrapH(fileServer))
	}
}

// @Summary List fish
// @Tags fish
// @Produce json
// @Success 200 {array} domain.Fish
// @Router /api/fish [get]
func (s *Server) listFish(c *gin.Context) {
	list, err := s.catalog.List(c)
	if err != nil {
		s.respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

type addFishReq struct {
	Name  string           `json:"name"`
	Price *decimal.Decimal `json:"price"`
	Qty   *int64           `json:"qty"`
	Desc  string           `json:"desc"`
}

// @Summary Add fish
// @Description Unauthenticated admin endpoint to append a catalog entry
// @Tags fish
// @Accept json
// @Produce json
// @Param input body addFishReq true "Fish"
// @Success 201 {object} domain.Fish
// @Failure 400 {object} map[string]string
// @Router /api/fish [post]
func (s *Server) addFish(c *gin.Context) {
	var req addFishReq
	if err := c.ShouldBindJSON(&req); err != nil || req.Name == "" || req.Price == nil || req.Qty == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name, price and qty required"})
		return
	}
	f, err := s.catalog.Add(c, req.Name, *req.Price, *req.Qty, req.Desc)
	if err != nil {
		s.respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, f)
}

type placeOrderReq struct {
	CustomerName string             `json:"customerName"`
	Items        []domain.OrderLine `json:"items"`
}

// @Summary Place order
// @Description Validates every line against current stock, then deducts atomically
// @Tags orders
// @Accept json
// @Produce json
// @Param input body placeOrderReq true "Order"
// @Success 201 {object} map[string]any
// @Failure 400 {object} map[string]string
// @Router /api/order [post]
func (s *Server) placeOrder(c *gin.Context) {
	var req placeOrderReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "customerName and items required"})
		return
	}
	o, err := s.orders.Place(c, req.CustomerName, req.Items)
	if err != nil {
		s.respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Order placed", "order": o})
}

// @Summary List orders
// @Tags orders
// @Produce json
// @Success 200 {array} domain.Order
// @Router /api/orders [get]
func (s *Server) listOrders(c *gin.Context) {
	list, err := s.orders.Orders(c)
	if err != nil {
		s.respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// respondErr maps store errors to client responses. Every taxonomy error,
// including an unknown fish id inside an order, is a 400 with the store's
// message; anything else stays server-side and the client sees a generic 500.
func (s *Server) respondErr(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrValidation),
		errors.Is(err, service.ErrInsufficientStock),
		errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		s.log.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
