package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/jwalitptl/patient-api/internal/middleware"
	"github.com/jwalitptl/patient-api/pkg/metrics"
	"github.com/jwalitptl/patient-api/pkg/validator"
)

type Handler interface {
	RegisterRoutes(gin.IRouter)
}

// PatientHandler is the controller mounted under /api/patients.
type PatientHandler interface {
	ListPatients(*gin.Context)
	GetPatient(*gin.Context)
	CreatePatient(*gin.Context)
	UpdatePatient(*gin.Context)
	DeletePatient(*gin.Context)
}

// RootHandler serves the info, health and metrics endpoints plus the 404 fallback.
type RootHandler interface {
	Handler
	NotFound(*gin.Context)
}

type Router struct {
	engine    *gin.Engine
	h         RootHandler
	patientH  PatientHandler
	validator *validator.Validator
}

type RouterConfig struct {
	Production     bool
	CORSConfig     middleware.CORSConfig
	MaxBodyBytes   int64
	RequestTimeout time.Duration

	// RateLimit of zero disables per-client limiting.
	RateLimit rate.Limit
	RateBurst int

	Metrics *metrics.Metrics
}

func NewRouter(
	h RootHandler,
	patientH PatientHandler,
	v *validator.Validator,
	config RouterConfig,
) *Router {
	if config.Production {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	if v == nil {
		v = validator.New()
	}

	r := &Router{
		engine:    engine,
		h:         h,
		patientH:  patientH,
		validator: v,
	}

	// Recovery runs inside ErrorHandler so a panic is rendered like any other error.
	engine.Use(
		middleware.RequestID(),
		middleware.Logger(),
		middleware.ErrorHandler(config.Production),
		middleware.Recovery(),
		middleware.Metrics(config.Metrics),
	)

	engine.Use(
		middleware.CORS(config.CORSConfig),
		middleware.SecurityHeaders(middleware.DefaultSecurityConfig(config.Production)),
	)

	sizeLimit := middleware.DefaultSizeLimitConfig()
	if config.MaxBodyBytes > 0 {
		sizeLimit.MaxBodySize = config.MaxBodyBytes
	}
	engine.Use(middleware.SizeLimit(sizeLimit))

	if config.RateLimit > 0 {
		rateLimiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
			Rate:  config.RateLimit,
			Burst: config.RateBurst,
		})
		engine.Use(rateLimiter.RateLimit())
	}

	engine.Use(middleware.Timeout(middleware.TimeoutConfig{Duration: config.RequestTimeout}))

	return r
}

func (r *Router) Setup() {
	if r.h != nil {
		r.h.RegisterRoutes(r.engine)
		r.engine.NoRoute(r.h.NotFound)
	}

	api := r.engine.Group("/api")
	r.setupPatientRoutes(api.Group("/patients"))
}

func (r *Router) setupPatientRoutes(rg *gin.RouterGroup) {
	validID := middleware.ValidatePatientID()
	validData := middleware.ValidatePatientData(r.validator)

	rg.GET("", r.patientH.ListPatients)
	rg.GET("/:id", validID, r.patientH.GetPatient)
	rg.POST("", validData, r.patientH.CreatePatient)
	rg.PUT("/:id", validID, validData, r.patientH.UpdatePatient)
	rg.DELETE("/:id", validID, r.patientH.DeletePatient)
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}

func (r *Router) Use(middleware ...gin.HandlerFunc) {
	r.engine.Use(middleware...)
}
