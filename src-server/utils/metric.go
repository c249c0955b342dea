package utils

type Metric struct {
	DatabaseRead  chan float64
	DatabaseWrite chan float64
	IngestOutcome chan string
}

func NewMetric() *Metric {
	return &Metric{
		DatabaseRead:  make(chan float64),
		DatabaseWrite: make(chan float64),
		IngestOutcome: make(chan string),
	}
}

// Non-blocking send; collectors may not be running (tests, early startup).
func (m *Metric) ReportDatabaseRead(micros float64) {
	if m == nil {
		return
	}
	select {
	case m.DatabaseRead <- micros:
	default:
	}
}

func (m *Metric) ReportDatabaseWrite(micros float64) {
	if m == nil {
		return
	}
	select {
	case m.DatabaseWrite <- micros:
	default:
	}
}

func (m *Metric) ReportIngestOutcome(status string) {
	if m == nil {
		return
	}
	select {
	case m.IngestOutcome <- status:
	default:
	}
}
