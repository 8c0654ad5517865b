package observability

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/verte-zerg/soilwb/internal/balance"
)

// Metrics holds the Prometheus collectors for simulation runs.
type Metrics struct {
	registry *prometheus.Registry

	RunsTotal     *prometheus.CounterVec // labels: soil
	DaysSimulated *prometheus.CounterVec // labels: soil
	SeasonTotal   *prometheus.GaugeVec   // labels: soil, component
	SoilMoisture  *prometheus.GaugeVec   // labels: soil
	StressDays    *prometheus.GaugeVec   // labels: soil
	RunDuration   prometheus.Histogram
}

// NewMetrics creates the collectors on a private registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		RunsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "soilwb",
			Name:      "runs_total",
			Help:      "Completed simulations by soil.",
		}, []string{"soil"}),
		DaysSimulated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "soilwb",
			Name:      "days_simulated_total",
			Help:      "Simulated days by soil.",
		}, []string{"soil"}),
		SeasonTotal: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "soilwb",
			Name:      "season_total_mm",
			Help:      "Season totals of the last run in mm.",
		}, []string{"soil", "component"}),
		SoilMoisture: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "soilwb",
			Name:      "final_soil_moisture_mm",
			Help:      "Soil moisture at the end of the last simulated day.",
		}, []string{"soil"}),
		StressDays: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "soilwb",
			Name:      "stress_days",
			Help:      "Days where crop uptake fell short of demand.",
		}, []string{"soil"}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "soilwb",
			Name:      "run_duration_seconds",
			Help:      "Wall time of a complete load-simulate-write run.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}),
	}
	m.registry.MustRegister(
		m.RunsTotal,
		m.DaysSimulated,
		m.SeasonTotal,
		m.SoilMoisture,
		m.StressDays,
		m.RunDuration,
	)
	return m
}

// Registry exposes the registry for gathering.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveRun records the outcome of one soil's simulation.
func (m *Metrics) ObserveRun(soil balance.Soil, sum balance.Summary) {
	label := string(soil)
	m.RunsTotal.WithLabelValues(label).Inc()
	m.DaysSimulated.WithLabelValues(label).Add(float64(sum.Days))
	m.SeasonTotal.WithLabelValues(label, "rainfall").Set(sum.Rainfall)
	m.SeasonTotal.WithLabelValues(label, "runoff_excess").Set(sum.RunoffExcess)
	m.SeasonTotal.WithLabelValues(label, "uptake").Set(sum.Uptake)
	m.SeasonTotal.WithLabelValues(label, "percolation").Set(sum.Percolation)
	m.SoilMoisture.WithLabelValues(label).Set(sum.FinalSoilMoisture)
	m.StressDays.WithLabelValues(label).Set(float64(sum.StressDays))
}

// WriteTextfile writes the current values in Prometheus text format, for
// the node_exporter textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
