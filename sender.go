package sender

import (
	"context"
	"errors"
	"io"
	"time"

	protocol "github.com/influxdata/line-protocol"
	"github.com/rs/zerolog"
)

// Sender buffers measurements and ships them to a server, one connection per Send.
// It is not safe for concurrent use.
type Sender struct {
	config    Config
	endpoint  Endpoint
	buffer    *Buffer
	log       *zerolog.Logger
	logCloser io.Closer
	metrics   *Metrics
}

func New(config Config) (*Sender, error) {
	config = config.withDefaults()
	if err := config.Validate(); err != nil {
		return nil, err
	}

	s := &Sender{
		config:   config,
		endpoint: Endpoint{Host: config.Host, Port: config.Port},
		buffer:   NewBuffer(),
		metrics:  config.Metrics,
	}

	switch {
	case config.Logger != nil:
		s.log = config.Logger
	case config.EnableLogging:
		logger, closer, err := OpenLogFile(config.LogDestination)
		if err != nil {
			return nil, err
		}
		s.log = &logger
		s.logCloser = closer
	default:
		nop := zerolog.Nop()
		s.log = &nop
	}

	return s, nil
}

func (s *Sender) Endpoint() Endpoint {
	return s.endpoint
}

func (s *Sender) Add(host, key string, value interface{}) {
	s.buffer.Add(host, key, value)
}

func (s *Sender) AddAt(host, key string, value interface{}, t time.Time) {
	s.buffer.AddAt(host, key, value, t)
}

func (s *Sender) AddMetric(host string, m protocol.Metric) {
	s.buffer.AddMetric(host, m)
}

func (s *Sender) ParseLines(host string, r io.Reader) (int, error) {
	return s.buffer.ParseLines(host, r)
}

func (s *Sender) Len() int {
	return s.buffer.Len()
}

func (s *Sender) Snapshot() []Measurement {
	return s.buffer.Snapshot()
}

// Clear drops all buffered measurements. Send never does this on its own.
func (s *Sender) Clear() {
	s.buffer.Clear()
}

// Send transmits every buffered measurement. It returns false without any
// network activity when the buffer is empty, true when the server reports
// success, and an error otherwise. The buffer is left untouched, so a second
// Send without Clear transmits the same data again.
func (s *Sender) Send(ctx context.Context) (bool, error) {
	resp, err := s.SendResponse(ctx)
	if err != nil {
		return false, err
	}
	return resp != nil, nil
}

// SendResponse is like Send but returns the server response. It returns nil, nil
// when there is nothing to send.
func (s *Sender) SendResponse(ctx context.Context) (*Response, error) {
	start := time.Now()

	if s.buffer.Len() == 0 {
		s.log.Debug().Msg("no sender data, nothing sent")
		s.metrics.observe(resultEmpty, start)
		return nil, nil
	}

	req := Request{
		Request: RequestSenderData,
		Data:    s.buffer.Snapshot(),
	}
	frame, err := Pack(req)
	if err != nil {
		return nil, s.fail(err, start)
	}
	resp, err := s.request(ctx, frame)
	if err != nil {
		return nil, s.fail(err, start)
	}

	s.metrics.observe(resultSuccess, start)
	s.metrics.sent(len(frame), len(req.Data))
	for _, m := range req.Data {
		logMeasurement(s.log, m)
	}
	s.log.Debug().Str("info", resp.Info).Msg("send result")
	return &resp, nil
}

func (s *Sender) fail(err error, start time.Time) error {
	s.metrics.observe(resultOf(err), start)
	s.log.Warn().Err(err).Str("addr", s.endpoint.Addr()).Msg("send failed")
	return err
}

func (s *Sender) request(ctx context.Context, frame []byte) (Response, error) {
	c, err := dial(ctx, s.endpoint, s.config.Timeout, s.config.MaxResponseSize)
	if err != nil {
		return Response{}, err
	}
	defer func() {
		if err := c.close(); err != nil {
			s.log.Debug().Err(err).Msg("failed to close connection")
		}
	}()

	if err := c.sendFrame(frame); err != nil {
		return Response{}, err
	}
	raw, err := c.receiveAll()
	if err != nil {
		return Response{}, err
	}

	resp, err := Unpack(raw)
	if err != nil {
		return Response{}, err
	}
	if !resp.Success() {
		return resp, &SendFailure{Response: resp}
	}
	return resp, nil
}

// Close releases the log file opened for EnableLogging, if any.
func (s *Sender) Close() error {
	if s.logCloser == nil {
		return nil
	}
	err := s.logCloser.Close()
	s.logCloser = nil
	return err
}

// IsRejected reports whether err is a server-side rejection rather than a
// transport or format problem.
func IsRejected(err error) bool {
	var failure *SendFailure
	return errors.As(err, &failure)
}
