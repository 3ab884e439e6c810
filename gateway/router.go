package gateway

import (
	"chat-gateway/errors"
	"chat-gateway/observability"
	"chat-gateway/services"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter mounts the WebSocket endpoint, the auth endpoints, health and metrics.
func NewRouter(log *slog.Logger, ws *Server, authService services.IAuthService, stats observability.StatsProvider) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), httpMetrics(), requestLog(log))

	r.GET("/chat", ws.HandleWS)
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "stats": stats.Stats()})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	h := authHandler{log: log, auth: authService}
	group := r.Group("/auth")
	group.POST("/login", h.login)
	group.POST("/register", h.register)
	return r
}

type credentials struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authHandler struct {
	log  *slog.Logger
	auth services.IAuthService
}

func (h authHandler) login(c *gin.Context) {
	var body credentials
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, errorBody(http.StatusBadRequest, "Invalid payload"))
		return
	}
	token, err := h.auth.Login(c.Request.Context(), body.Email, body.Password)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"access_token": token.String()})
	case errors.Is(err, errors.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, errorBody(http.StatusUnauthorized, "Wrong email or password!"))
	default:
		h.log.Error("Login failed", "error", err)
		c.JSON(http.StatusInternalServerError, errorBody(http.StatusInternalServerError, "Internal server error"))
	}
}

func (h authHandler) register(c *gin.Context) {
	var body credentials
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, errorBody(http.StatusBadRequest, "Invalid payload"))
		return
	}
	token, err := h.auth.Register(c.Request.Context(), body.Name, body.Email, body.Password)
	switch {
	case err == nil:
		c.JSON(http.StatusCreated, gin.H{"access_token": token.String()})
	case errors.Is(err, errors.ErrInvalidPassword), errors.Is(err, errors.ErrInvalidPayload):
		c.JSON(http.StatusBadRequest, errorBody(http.StatusBadRequest, err.Error()))
	case errors.Is(err, errors.ErrUserAlreadyExists):
		c.JSON(http.StatusConflict, errorBody(http.StatusConflict, "Email already registered"))
	default:
		h.log.Error("Registration failed", "error", err)
		c.JSON(http.StatusInternalServerError, errorBody(http.StatusInternalServerError, "Internal server error"))
	}
}

func errorBody(status int, message string) gin.H {
	return gin.H{"statusCode": status, "message": message, "error": http.StatusText(status)}
}

// httpMetrics labels by route template so path parameters do not explode cardinality.
func httpMetrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		observability.HTTPRequestsTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		observability.HTTPRequestDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

func requestLog(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Debug("HTTP request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}
