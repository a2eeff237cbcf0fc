package middleware

import (
	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// RedisErrors counts Redis command failures by command name.
var RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "brrads_redis_errors_total",
	Help: "Total number of Redis command errors.",
}, []string{"command"})

// SubmissionsRejected counts submissions turned away by the submission guard,
// labelled by entity kind and rejection code.
var SubmissionsRejected = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "brrads_submissions_rejected_total",
	Help: "Total number of submissions rejected at the gate.",
}, []string{"kind", "code"})

// InitMetrics creates the Prometheus HTTP middleware for the given service name.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	return fiberprometheus.New(serviceName)
}

// MetricsMiddleware returns the request-instrumentation handler.
func MetricsMiddleware(p *fiberprometheus.FiberPrometheus) fiber.Handler {
	return p.Middleware
}
