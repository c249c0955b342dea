package metric

import (
	"log/slog"
	"time"

	"quickcal/src-server/utils"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func databaseEmptyRead(as *utils.AppState, tickerInterval *time.Duration) {
	databaseEmptyRead := promauto.NewGauge(prometheus.GaugeOpts{
		Name: "quickcal_database_empty_read_microsec",
		Help: "The latency of an empty database read in microseconds",
	})
	good := true
	if err := prometheus.Register(databaseEmptyRead); err != nil {
		if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
			slog.Error("can't register quickcal_database_empty_read_microsec metric", "error", err)
			good = false
		}
	}
	if good {
		slog.Debug("quickcal_database_empty_read_microsec metric registered")
		databaseEmptyRead.Set(0)
	}
	go func() {
		gracefulShutdownCh := as.CreateGracefulShutdownChan()
		ticker := time.NewTicker(*tickerInterval)
		defer ticker.Stop()
		for {
			select {
			case <-*gracefulShutdownCh:
				switch prometheus.Unregister(databaseEmptyRead) {
				case true:
					slog.Debug("quickcal_database_empty_read_microsec metric unregistered")
				case false:
					slog.Warn("quickcal_database_empty_read_microsec metric not registered")
				}
				return
			case <-ticker.C:
				latency, err := database(as)
				if err != nil {
					slog.Error("can't get database latency", "error", err)
					continue
				}
				databaseEmptyRead.Set(float64(latency.Microseconds()))
			}
		}
	}()
}

func databaseRead(as *utils.AppState, clearTickerInterval *time.Duration) {
	databaseRead := promauto.NewGauge(prometheus.GaugeOpts{
		Name: "quickcal_database_read_microsec",
		Help: "The latency of a database read in microseconds",
	})
	good := true
	if err := prometheus.Register(databaseRead); err != nil {
		if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
			slog.Error("can't register quickcal_database_read_microsec metric", "error", err)
			good = false
		}
	}
	if good {
		slog.Debug("quickcal_database_read_microsec metric registered")
		databaseRead.Set(0)
	}
	go func() {
		gracefulShutdownCh := as.CreateGracefulShutdownChan()
		clearTicker := time.NewTicker(*clearTickerInterval)
		defer clearTicker.Stop()
		for {
			select {
			case <-*gracefulShutdownCh:
				switch prometheus.Unregister(databaseRead) {
				case true:
					slog.Debug("quickcal_database_read_microsec metric unregistered")
				case false:
					slog.Warn("quickcal_database_read_microsec metric not registered")
				}
				return
			case latency := <-as.MetricChans.DatabaseRead:
				databaseRead.Set(latency)
				clearTicker.Reset(*clearTickerInterval)
			case <-clearTicker.C:
				databaseRead.Set(0)
			}
		}
	}()
}

func databaseWrite(as *utils.AppState, clearTickerInterval *time.Duration) {
	databaseWrite := promauto.NewGauge(prometheus.GaugeOpts{
		Name: "quickcal_database_write_microsec",
		Help: "The latency of a database write in microseconds",
	})
	good := true
	if err := prometheus.Register(databaseWrite); err != nil {
		if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
			slog.Error("can't register quickcal_database_write_microsec metric", "error", err)
			good = false
		}
	}
	if good {
		slog.Debug("quickcal_database_write_microsec metric registered")
		databaseWrite.Set(0)
	}
	go func() {
		gracefulShutdownCh := as.CreateGracefulShutdownChan()
		clearTicker := time.NewTicker(*clearTickerInterval)
		defer clearTicker.Stop()
		for {
			select {
			case <-*gracefulShutdownCh:
				switch prometheus.Unregister(databaseWrite) {
				case true:
					slog.Debug("quickcal_database_write_microsec metric unregistered")
				case false:
					slog.Warn("quickcal_database_write_microsec metric not registered")
				}
				return
			case latency := <-as.MetricChans.DatabaseWrite:
				databaseWrite.Set(latency)
				clearTicker.Reset(*clearTickerInterval)
			case <-clearTicker.C:
				databaseWrite.Set(0)
			}
		}
	}()
}

func ingestOutcome(as *utils.AppState) {
	ingestOutcome := promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "quickcal_ingest_total",
		Help: "Natural language ingestion outcomes by status",
	}, []string{"status"})
	if err := prometheus.Register(ingestOutcome); err != nil {
		if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
			slog.Error("can't register quickcal_ingest_total metric", "error", err)
		}
	} else {
		slog.Debug("quickcal_ingest_total metric registered")
	}
	go func() {
		gracefulShutdownCh := as.CreateGracefulShutdownChan()
		for {
			select {
			case <-*gracefulShutdownCh:
				switch prometheus.Unregister(ingestOutcome) {
				case true:
					slog.Debug("quickcal_ingest_total metric unregistered")
				case false:
					slog.Warn("quickcal_ingest_total metric not registered")
				}
				return
			case status := <-as.MetricChans.IngestOutcome:
				ingestOutcome.WithLabelValues(status).Inc()
			}
		}
	}()
}

func eventsUpcoming(as *utils.AppState, tickerInterval *time.Duration) {
	eventsUpcoming := promauto.NewGauge(prometheus.GaugeOpts{
		Name: "quickcal_events_upcoming",
		Help: "Events starting within the next 24 hours",
	})
	good := true
	if err := prometheus.Register(eventsUpcoming); err != nil {
		if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
			slog.Error("can't register quickcal_events_upcoming metric", "error", err)
			good = false
		}
	}
	if good {
		slog.Debug("quickcal_events_upcoming metric registered")
		eventsUpcoming.Set(0)
	}
	go func() {
		gracefulShutdownCh := as.CreateGracefulShutdownChan()
		ticker := time.NewTicker(*tickerInterval)
		defer ticker.Stop()
		for {
			select {
			case <-*gracefulShutdownCh:
				switch prometheus.Unregister(eventsUpcoming) {
				case true:
					slog.Debug("quickcal_events_upcoming metric unregistered")
				case false:
					slog.Warn("quickcal_events_upcoming metric not registered")
				}
				return
			case <-ticker.C:
				count, err := upcomingEventCount(as)
				if err != nil {
					slog.Error("can't count upcoming events", "error", err)
					continue
				}
				eventsUpcoming.Set(float64(count))
			}
		}
	}()
}

func Init(as *utils.AppState) {
	tickerInterval := as.Config.GetMetricCollectionInterval()
	clearTickerInterval := as.Config.GetMetricCollectionInterval() * 2

	databaseEmptyRead(as, &tickerInterval)
	databaseRead(as, &clearTickerInterval)
	databaseWrite(as, &clearTickerInterval)
	ingestOutcome(as)
	eventsUpcoming(as, &tickerInterval)
}
