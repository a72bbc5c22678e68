package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/smallyu/go-zkecdsa/pkg/zkecdsa"
	"go.uber.org/zap"
)

const (
	maxEnvelopeBytes = 64 << 10
	maxBatchSize     = 256
	mimeProtobuf     = "application/x-protobuf"
)

type server struct {
	sys     *zkecdsa.System
	log     *zap.Logger
	metrics *metrics
	workers int
	echo    *echo.Echo
}

type verifyResponse struct {
	Valid bool   `json:"valid"`
	Curve string `json:"curve"`
}

type batchRequest struct {
	Envelopes []*zkecdsa.Envelope `json:"envelopes"`
}

type batchResponse struct {
	Results []bool `json:"results"`
}

type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

func newServer(sys *zkecdsa.System, logger *zap.Logger, workers int) *server {
	reg := prometheus.NewRegistry()
	s := &server{
		sys:     sys,
		log:     logger,
		metrics: newMetrics(reg),
		workers: workers,
		echo:    echo.New(),
	}
	s.echo.HideBanner = true
	s.echo.HidePort = true

	s.echo.GET("/healthz", s.handleHealth)
	s.echo.POST("/v1/verify", s.handleVerify)
	s.echo.POST("/v1/verify/batch", s.handleVerifyBatch)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
	return s
}

func (s *server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
		"curve":  s.sys.Curve(),
	})
}

// handleVerify accepts one envelope, as JSON or as protobuf wire format when
// the request is sent with Content-Type application/x-protobuf.
func (s *server) handleVerify(c echo.Context) error {
	body, err := io.ReadAll(io.LimitReader(c.Request().Body, maxEnvelopeBytes+1))
	if err != nil {
		return s.malformed(c, err)
	}
	if len(body) > maxEnvelopeBytes {
		return s.malformed(c, fmt.Errorf("envelope larger than %d bytes", maxEnvelopeBytes))
	}

	var envelope *zkecdsa.Envelope
	if isProtobuf(c.Request().Header.Get(echo.HeaderContentType)) {
		envelope, err = zkecdsa.UnmarshalEnvelope(body)
	} else {
		envelope = &zkecdsa.Envelope{}
		err = json.Unmarshal(body, envelope)
	}
	if err != nil {
		return s.malformed(c, err)
	}

	st, err := s.sys.Statement(envelope)
	if err != nil {
		return s.malformed(c, err)
	}

	start := time.Now()
	valid := s.sys.VerifyProof(st.Proof, st.Digest, st.R, st.CQ)
	elapsed := time.Since(start)

	s.metrics.latency.Observe(elapsed.Seconds())
	s.metrics.observe(s.sys.Curve(), valid)
	s.log.Info("verify",
		zap.String("curve", s.sys.Curve()),
		zap.Bool("hidden", envelope.Hidden),
		zap.Bool("valid", valid),
		zap.Duration("elapsed", elapsed),
	)
	return c.JSON(http.StatusOK, verifyResponse{Valid: valid, Curve: s.sys.Curve()})
}

// isProtobuf reports whether the Content-Type names the protobuf wire
// format, ignoring parameters and case.
func isProtobuf(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	return err == nil && mediaType == mimeProtobuf
}

func (s *server) handleVerifyBatch(c echo.Context) error {
	var req batchRequest
	dec := json.NewDecoder(io.LimitReader(c.Request().Body, maxBatchSize*maxEnvelopeBytes))
	if err := dec.Decode(&req); err != nil {
		return s.malformed(c, err)
	}
	if len(req.Envelopes) > maxBatchSize {
		return s.malformed(c, fmt.Errorf("batch larger than %d envelopes", maxBatchSize))
	}

	results, err := s.sys.VerifyEnvelopes(c.Request().Context(), req.Envelopes, s.workers)
	if err != nil {
		return c.JSON(http.StatusServiceUnavailable, errorResponse{Error: err.Error()})
	}
	valid := 0
	for _, ok := range results {
		s.metrics.observe(s.sys.Curve(), ok)
		if ok {
			valid++
		}
	}
	s.log.Info("verify batch",
		zap.Int("size", len(results)),
		zap.Int("valid", valid),
	)
	return c.JSON(http.StatusOK, batchResponse{Results: results})
}

func (s *server) malformed(c echo.Context, err error) error {
	s.metrics.verifications.WithLabelValues(s.sys.Curve(), resultMalformed).Inc()
	resp := errorResponse{Error: err.Error()}
	var fe *zkecdsa.FieldError
	if errors.As(err, &fe) {
		resp.Field = fe.Field
	}
	s.log.Debug("rejected request", zap.Error(err))
	return c.JSON(http.StatusBadRequest, resp)
}

func runServe(args []string) error {
	fs, configFile := newFlagSet("serve")
	fs.String("listen", ":8080", "listen address")
	fs.Int("workers", 4, "parallel verifications per batch")
	cfg, err := readConfig(fs, configFile, args, map[string]string{
		"listen":  "listen",
		"workers": "verify.workers",
	})
	if err != nil {
		return err
	}
	e, err := setup(cfg)
	if err != nil {
		return err
	}
	defer e.log.Sync()

	s := newServer(e.sys, e.log, cfg.Verify.Workers)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		e.log.Info("listening",
			zap.String("addr", cfg.Listen),
			zap.String("curve", e.sys.Curve()),
			zap.String("transcript", cfg.Transcript),
		)
		errCh <- s.echo.Start(cfg.Listen)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	e.log.Info("shutting down")
	return s.echo.Shutdown(shutdownCtx)
}
