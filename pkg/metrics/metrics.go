// Package metrics define y registra las métricas Prometheus de registro y capacidad.
// Se registran en el registro por defecto al importar el paquete (promauto).
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "basar"

// RegistrationsTotal resultados de registro.
// Label result: "success", "window_closed", "duplicate", "pool_exhausted", "conflict", "error".
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total de intentos de registro, por rol y resultado.",
	},
	[]string{"role", "result"},
)

// AllocationConflictsTotal colisiones de public_id reintentadas.
var AllocationConflictsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "allocation_conflicts_total",
		Help:      "Colisiones de número de vendedor detectadas por la restricción única.",
	},
)

// NotificationFailuresTotal correos de registro que no se pudieron enviar.
var NotificationFailuresTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notification_failures_total",
		Help:      "Correos de bienvenida fallidos (el registro sigue siendo válido).",
	},
)

// StatusChangesTotal cambios de estado activo.
// Labels: action ("activate", "deactivate", "reset"), result ("changed", "noop", "denied", "error").
var StatusChangesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "status_changes_total",
		Help:      "Cambios de estado activo de vendedores, por acción y resultado.",
	},
	[]string{"action", "result"},
)

// ActiveSellers último recuento observado de vendedores activos.
var ActiveSellers = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "active_sellers",
		Help:      "Vendedores activos según la última lectura dentro de una transacción.",
	},
)
