package sender

import (
	"fmt"
	"io"
	"strings"
	"time"

	protocol "github.com/influxdata/line-protocol"
)

// Measurement is one data point awaiting transmission. Value is a string or a number.
type Measurement struct {
	Host  string      `json:"host"`
	Key   string      `json:"key"`
	Value interface{} `json:"value"`
	Clock int64       `json:"clock"`
}

func NewMeasurement(host, key string, value interface{}, t time.Time) Measurement {
	return Measurement{
		Host:  host,
		Key:   key,
		Value: value,
		Clock: t.Unix(),
	}
}

func (m Measurement) Time() time.Time {
	return time.Unix(m.Clock, 0)
}

func (m Measurement) String() string {
	return fmt.Sprintf("host=%s key=%s value=%v clock=%d", m.Host, m.Key, m.Value, m.Clock)
}

// Buffer accumulates measurements in insertion order. It is never cleared implicitly.
type Buffer struct {
	data []Measurement
	now  func() time.Time
}

func NewBuffer() *Buffer {
	return &Buffer{now: time.Now}
}

// Add appends a measurement stamped with the current time.
func (b *Buffer) Add(host, key string, value interface{}) {
	b.AddAt(host, key, value, b.clock())
}

func (b *Buffer) AddAt(host, key string, value interface{}, t time.Time) {
	b.data = append(b.data, NewMeasurement(host, key, value, t))
}

// AddMetric appends one measurement per field of m. The item key is
// "<name>.<field>", followed by "[<tag values>]" when m carries tags.
func (b *Buffer) AddMetric(host string, m protocol.Metric) {
	var params string
	if tags := m.TagList(); len(tags) > 0 {
		values := make([]string, 0, len(tags))
		for _, tag := range tags {
			values = append(values, tag.Value)
		}
		params = "[" + strings.Join(values, ",") + "]"
	}

	ts := m.Time()
	for _, field := range m.FieldList() {
		b.AddAt(host, m.Name()+"."+field.Key+params, field.Value, ts)
	}
}

// ParseLines reads Influx line protocol from r and adds every metric found.
// It returns the number of measurements added.
func (b *Buffer) ParseLines(host string, r io.Reader) (int, error) {
	input, err := io.ReadAll(r)
	if err != nil {
		return 0, fmt.Errorf("failed to read lines: %w", err)
	}

	handler := protocol.NewMetricHandler()
	handler.SetTimeFunc(b.clock)
	parser := protocol.NewParser(handler)
	metrics, err := parser.Parse(input)
	if err != nil {
		return 0, fmt.Errorf("failed to parse lines: %w", err)
	}

	before := len(b.data)
	for _, m := range metrics {
		b.AddMetric(host, m)
	}
	return len(b.data) - before, nil
}

func (b *Buffer) Len() int {
	return len(b.data)
}

// Snapshot returns a copy of the buffered measurements.
func (b *Buffer) Snapshot() []Measurement {
	out := make([]Measurement, len(b.data))
	copy(out, b.data)
	return out
}

func (b *Buffer) Clear() {
	b.data = b.data[0:0]
}

func (b *Buffer) clock() time.Time {
	if b.now == nil {
		return time.Now()
	}
	return b.now()
}
