package metrics

import (
	"math/big"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

type LotteryMetrics struct {
	drawsOpened          prometheus.Counter
	drawsFulfilled       *prometheus.CounterVec
	distributionFailures prometheus.Counter
	collectedBalance     prometheus.Gauge
	catalogEntries       prometheus.Gauge
}

var (
	lotteryOnce     sync.Once
	lotteryRegistry *LotteryMetrics
)

func Lottery() *LotteryMetrics {
	lotteryOnce.Do(func() {
		lotteryRegistry = &LotteryMetrics{
			drawsOpened: prometheus.NewCounter(prometheus.CounterOpts{
				Name: "lottery_draws_opened_total",
				Help: "Count of draw requests registered.",
			}),
			drawsFulfilled: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "lottery_draws_fulfilled_total",
				Help: "Count of fulfilled draws by delivery outcome.",
			}, []string{"outcome"}),
			distributionFailures: prometheus.NewCounter(prometheus.CounterOpts{
				Name: "lottery_distribution_failures_total",
				Help: "Count of reward transfers that failed and await remediation.",
			}),
			collectedBalance: prometheus.NewGauge(prometheus.GaugeOpts{
				Name: "lottery_collected_balance_wei",
				Help: "Payment balance currently held by the engine.",
			}),
			catalogEntries: prometheus.NewGauge(prometheus.GaugeOpts{
				Name: "lottery_catalog_entries",
				Help: "Number of reward entries in the catalog.",
			}),
		}
		prometheus.MustRegister(
			lotteryRegistry.drawsOpened,
			lotteryRegistry.drawsFulfilled,
			lotteryRegistry.distributionFailures,
			lotteryRegistry.collectedBalance,
			lotteryRegistry.catalogEntries,
		)
	})
	return lotteryRegistry
}

func (m *LotteryMetrics) DrawOpened() {
	if m == nil {
		return
	}
	m.drawsOpened.Inc()
}

func (m *LotteryMetrics) DrawFulfilled(outcome string) {
	if m == nil {
		return
	}
	m.drawsFulfilled.WithLabelValues(outcome).Inc()
}

func (m *LotteryMetrics) DistributionFailed() {
	if m == nil {
		return
	}
	m.distributionFailures.Inc()
}

func (m *LotteryMetrics) SetCollectedBalance(v *big.Int) {
	if m == nil {
		return
	}
	if v == nil {
		m.collectedBalance.Set(0)
		return
	}
	f, _ := new(big.Float).SetInt(v).Float64()
	m.collectedBalance.Set(f)
}

func (m *LotteryMetrics) SetCatalogEntries(n int) {
	if m == nil {
		return
	}
	m.catalogEntries.Set(float64(n))
}
