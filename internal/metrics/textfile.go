// ABOUTME: Prometheus gauges describing current stock, written in textfile-collector format
// ABOUTME: Lets node_exporter pick up quantities and low-stock flags without a server

package metrics

import (
	"fmt"
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/2389/stockwatch/internal/inventory"
)

// NewRegistry returns a registry holding a snapshot of s.
func NewRegistry(s *inventory.Store) *prometheus.Registry {
	quantity := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "stockwatch_item_quantity",
		Help: "Current on-hand quantity per item.",
	}, []string{"item"})
	minimum := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "stockwatch_item_minimum",
		Help: "Configured minimum threshold per item (0 when unset).",
	}, []string{"item"})
	low := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "stockwatch_item_low",
		Help: "1 when the item's quantity is at or below its minimum.",
	}, []string{"item"})
	items := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "stockwatch_items",
		Help: "Number of items with a recorded quantity.",
	})

	reg := prometheus.NewRegistry()
	reg.MustRegister(quantity, minimum, low, items)

	for _, name := range s.Names() {
		qty := s.Quantity(name)
		minQty := s.Minimum(name)
		label := itemLabel(name)
		quantity.WithLabelValues(label).Set(float64(qty))
		minimum.WithLabelValues(label).Set(float64(minQty))
		if qty <= minQty {
			low.WithLabelValues(label).Set(1)
		} else {
			low.WithLabelValues(label).Set(0)
		}
	}
	items.Set(float64(s.Len()))

	return reg
}

// itemLabel returns name as a valid label value. Prometheus rejects label values
// that are not UTF-8, so invalid bytes become U+FFFD.
func itemLabel(name string) string {
	return strings.ToValidUTF8(name, "\uFFFD")
}

// WriteTextfile writes a snapshot of s to path for the node_exporter textfile collector.
func WriteTextfile(path string, s *inventory.Store) error {
	if err := prometheus.WriteToTextfile(path, NewRegistry(s)); err != nil {
		return fmt.Errorf("writing metrics textfile: %w", err)
	}
	return nil
}
