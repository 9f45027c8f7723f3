package metrics

import (
	"context"
	"log/slog"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	blockedKeywordsDesc = prometheus.NewDesc(
		"msgcore_blocked_keywords",
		"Number of blocked keywords currently stored",
		nil,
		nil,
	)

	keywordTransfers = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "msgcore_keyword_transfers_total",
		Help: "Blocked keyword imports and exports by result",
	}, []string{"direction", "result"})

	shortcutOperations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "msgcore_shortcut_operations_total",
		Help: "Shortcut inventory operations by kind",
	}, []string{"operation"})

	syncEventsDropped = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "msgcore_shortcut_sync_dropped_total",
		Help: "Conversation events dropped because the sync queue was full",
	})
)

// KeywordSource is anything that can report the stored keyword list.
type KeywordSource interface {
	Keywords(ctx context.Context) ([]string, error)
}

// KeywordCollector is a custom Prometheus collector that reads the keyword
// count from the store on each scrape.
type KeywordCollector struct {
	source KeywordSource
}

// NewKeywordCollector creates a collector backed by source.
func NewKeywordCollector(source KeywordSource) *KeywordCollector {
	return &KeywordCollector{source: source}
}

// Describe sends the metric descriptor to the channel.
func (c *KeywordCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- blockedKeywordsDesc
}

// Collect queries the store and emits the keyword count as a gauge.
func (c *KeywordCollector) Collect(ch chan<- prometheus.Metric) {
	keywords, err := c.source.Keywords(context.Background())
	if err != nil {
		slog.Error("failed to collect blocked keyword metrics", "error", err)
		return
	}
	ch <- prometheus.MustNewConstMetric(
		blockedKeywordsDesc,
		prometheus.GaugeValue,
		float64(len(keywords)),
	)
}

var initOnce sync.Once

// Init registers the collectors with the default registry.
// Must be called once at startup.
func Init(source KeywordSource) {
	initOnce.Do(func() {
		prometheus.MustRegister(
			NewKeywordCollector(source),
			keywordTransfers,
			shortcutOperations,
			syncEventsDropped,
		)
	})
}

// RecordKeywordImport counts an import by result code.
func RecordKeywordImport(result string) {
	keywordTransfers.WithLabelValues("import", result).Inc()
}

// RecordKeywordExport counts an export by result code.
func RecordKeywordExport(result string) {
	keywordTransfers.WithLabelValues("export", result).Inc()
}

// RecordShortcutOperation counts a shortcut inventory operation.
func RecordShortcutOperation(operation string) {
	shortcutOperations.WithLabelValues(operation).Inc()
}

// RecordSyncDropped counts a conversation event dropped by the sync worker.
func RecordSyncDropped() {
	syncEventsDropped.Inc()
}
