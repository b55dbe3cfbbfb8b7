package sender

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	resultSuccess         = "success"
	resultEmpty           = "empty"
	resultConnectionError = "connection_error"
	resultSendError       = "send_error"
	resultFormatError     = "format_error"
	resultRejected        = "rejected"
)

// Metrics instruments a Sender. A nil *Metrics records nothing.
type Metrics struct {
	sends        *prometheus.CounterVec
	measurements prometheus.Counter
	bytesSent    prometheus.Counter
	duration     prometheus.Histogram
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		sends: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "zbx_sender",
				Name:      "sends_total",
				Help:      "Send calls by result",
			},
			[]string{"result"},
		),
		measurements: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "zbx_sender",
			Name:      "measurements_sent_total",
			Help:      "Measurements accepted by the server",
		}),
		bytesSent: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "zbx_sender",
			Name:      "frame_bytes_sent_total",
			Help:      "Frame bytes of accepted sends, header included",
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "zbx_sender",
			Name:      "send_duration_seconds",
			Help:      "Time from connect to validated response",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	if reg != nil {
		reg.MustRegister(m.sends, m.measurements, m.bytesSent, m.duration)
	}
	return m
}

func (m *Metrics) observe(result string, start time.Time) {
	if m == nil {
		return
	}
	m.sends.WithLabelValues(result).Inc()
	if result != resultEmpty {
		m.duration.Observe(time.Since(start).Seconds())
	}
}

func (m *Metrics) sent(frameBytes, measurements int) {
	if m == nil {
		return
	}
	m.bytesSent.Add(float64(frameBytes))
	m.measurements.Add(float64(measurements))
}

func resultOf(err error) string {
	switch err.(type) {
	case nil:
		return resultSuccess
	case *ConnectionError:
		return resultConnectionError
	case *SendError:
		return resultSendError
	case *FormatError:
		return resultFormatError
	case *SendFailure:
		return resultRejected
	default:
		return resultSendError
	}
}
