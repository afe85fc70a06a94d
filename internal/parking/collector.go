package parking

import "github.com/prometheus/client_golang/prometheus"

// Occupancy is the read side of a lot that the Prometheus collector samples.
type Occupancy interface {
	Capacity() int
	Counts() (occupied, available int)
}

// Collector exposes lot occupancy on scrape instead of tracking it with
// counters, so the values always match the lot.
type Collector struct {
	lot Occupancy

	capacity  *prometheus.Desc
	occupied  *prometheus.Desc
	available *prometheus.Desc
}

func NewCollector(lot Occupancy, constLabels prometheus.Labels) *Collector {
	return &Collector{
		lot: lot,
		capacity: prometheus.NewDesc("parking_lot_capacity_slots",
			"Number of slots the lot was created with.", nil, constLabels),
		occupied: prometheus.NewDesc("parking_lot_occupied_slots",
			"Number of slots currently holding a vehicle.", nil, constLabels),
		available: prometheus.NewDesc("parking_lot_available_slots",
			"Number of slots currently free.", nil, constLabels),
	}
}

func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.capacity
	ch <- c.occupied
	ch <- c.available
}

func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	occupied, available := c.lot.Counts()
	ch <- prometheus.MustNewConstMetric(c.capacity, prometheus.GaugeValue, float64(c.lot.Capacity()))
	ch <- prometheus.MustNewConstMetric(c.occupied, prometheus.GaugeValue, float64(occupied))
	ch <- prometheus.MustNewConstMetric(c.available, prometheus.GaugeValue, float64(available))
}
