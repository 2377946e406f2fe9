// Package api is the HTTP client of the POS backend. It attaches the bearer
// token, normalizes response shapes into DTOs and turns every failure into one
// of the typed errors in internal/errors.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"restopos/internal/dto"
	apperrors "restopos/internal/errors"
)

const maxBodyBytes = 10 << 20

// Session is the client-held credential store.
type Session interface {
	Token() string
	Clear() error
}

// Navigator moves the user back to the entry screen after the session dies.
type Navigator interface {
	ToRoot()
}

type Config struct {
	BaseURL string
	Timeout time.Duration
	Breaker BreakerConfig
	// TracerProvider defaults to the global provider.
	TracerProvider trace.TracerProvider
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[*http.Response]
	session    Session
	navigator  Navigator
	metrics    *Metrics
	tracer     trace.Tracer
	propagator propagation.TextMapPropagator
	logger     *zap.Logger
}

func New(cfg Config, session Session, navigator Navigator, metrics *Metrics, logger *zap.Logger) *Client {
	if metrics == nil {
		metrics = NewMetrics(nil)
	}
	if cfg.Breaker.Name == "" {
		cfg.Breaker.Name = DefaultBreakerConfig().Name
	}
	if cfg.TracerProvider == nil {
		cfg.TracerProvider = otel.GetTracerProvider()
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: cfg.Timeout},
		breaker:    newBreaker(cfg.Breaker, metrics, logger),
		session:    session,
		navigator:  navigator,
		metrics:    metrics,
		tracer:     cfg.TracerProvider.Tracer("restopos/internal/api"),
		propagator: propagation.TraceContext{},
		logger:     logger,
	}
}

type request struct {
	method string
	// route is the path template used as the metrics label, e.g. /orders/{id}.
	route       string
	path        string
	query       url.Values
	body        io.Reader
	contentType string
	// credentials marks a sign-in call: its 401 means bad credentials, not a
	// dead session.
	credentials bool
}

func jsonRequest(method, route, path string, payload any) (request, error) {
	req := request{method: method, route: route, path: path}
	if payload == nil {
		return req, nil
	}
	buf, err := json.Marshal(payload)
	if err != nil {
		return req, fmt.Errorf("encoding request body: %w", err)
	}
	req.body = bytes.NewReader(buf)
	req.contentType = "application/json"
	return req, nil
}

func idPath(prefix string, id int64, suffix ...string) string {
	p := prefix + "/" + strconv.FormatInt(id, 10)
	for _, s := range suffix {
		p += "/" + s
	}
	return p
}

// do sends req and returns the body of a 2xx answer.
func (c *Client) do(ctx context.Context, r request) (body []byte, err error) {
	requestID := uuid.New().String()
	logger := c.logger.With(
		zap.String("requestId", requestID),
		zap.String("method", r.method),
		zap.String("route", r.route),
	)

	ctx, span := c.tracer.Start(ctx, r.method+" "+r.route,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			semconv.HTTPMethod(r.method),
			attribute.String("http.route", r.route),
			attribute.String("pos.request_id", requestID),
		),
	)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, apperrors.UserMessage(err))
		}
		span.End()
	}()

	target := c.baseURL + r.path
	if len(r.query) > 0 {
		target += "?" + r.query.Encode()
	}

	httpReq, err := http.NewRequestWithContext(ctx, r.method, target, r.body)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("X-Request-ID", requestID)
	if r.contentType != "" {
		httpReq.Header.Set("Content-Type", r.contentType)
	}
	c.propagator.Inject(ctx, propagation.HeaderCarrier(httpReq.Header))
	if c.session != nil {
		if token := c.session.Token(); token != "" {
			httpReq.Header.Set("Authorization", "Bearer "+token)
		}
	}

	start := time.Now()
	resp, err := c.breaker.Execute(func() (*http.Response, error) {
		resp, err := c.httpClient.Do(httpReq)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode >= 500 {
			return nil, c.responseError(resp)
		}
		return resp, nil
	})
	c.metrics.duration.WithLabelValues(r.method, r.route).Observe(time.Since(start).Seconds())

	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			c.metrics.requests.WithLabelValues(r.method, r.route, "canceled").Inc()
			return nil, ctxErr
		}
		if ae, ok := apperrors.IsAPIError(err); ok {
			c.metrics.requests.WithLabelValues(r.method, r.route, strconv.Itoa(ae.Status)).Inc()
			logger.Error("server error", zap.Int("status", ae.Status), zap.String("message", ae.Message))
			return nil, err
		}
		c.metrics.requests.WithLabelValues(r.method, r.route, "network_error").Inc()
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			logger.Warn("request rejected by circuit breaker", zap.Error(err))
		} else {
			logger.Warn("request failed", zap.Error(err))
		}
		return nil, apperrors.NewNetworkError(err)
	}

	c.metrics.requests.WithLabelValues(r.method, r.route, strconv.Itoa(resp.StatusCode)).Inc()
	span.SetAttributes(semconv.HTTPStatusCode(resp.StatusCode))
	logger.Debug("api call", zap.Int("status", resp.StatusCode), zap.Duration("duration", time.Since(start)))

	if resp.StatusCode >= 300 {
		err := c.responseError(resp)
		if r.credentials {
			logger.Info("sign in rejected", zap.Int("status", resp.StatusCode))
			return nil, err
		}
		c.handleFailure(logger, err)
		return nil, err
	}

	defer resp.Body.Close()
	body, err = io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, apperrors.NewNetworkError(fmt.Errorf("reading response body: %w", err))
	}
	return body, nil
}

func (c *Client) handleFailure(logger *zap.Logger, err error) {
	if _, ok := apperrors.IsUnauthorizedError(err); ok {
		logger.Warn("session rejected by server, clearing credentials")
		if c.session != nil {
			if clearErr := c.session.Clear(); clearErr != nil {
				logger.Error("clearing session", zap.Error(clearErr))
			}
		}
		if c.navigator != nil {
			c.navigator.ToRoot()
		}
		return
	}
	if fe, ok := apperrors.IsForbiddenError(err); ok {
		logger.Warn("forbidden", zap.String("message", fe.Message))
		return
	}
	logger.Info("request rejected", zap.Error(err))
}

// responseError drains and closes resp and maps it to a typed error.
func (c *Client) responseError(resp *http.Response) error {
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	var parsed dto.ErrorResponse
	message := ""
	if json.Unmarshal(body, &parsed) == nil {
		message = parsed.Text()
	}
	if message == "" {
		message = http.StatusText(resp.StatusCode)
	}

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return apperrors.NewUnauthorizedError(message)
	case http.StatusForbidden:
		return apperrors.NewForbiddenError(message)
	case http.StatusNotFound:
		return apperrors.NewNotFoundError(message)
	case http.StatusConflict:
		return apperrors.NewConflictError(message)
	case http.StatusUnprocessableEntity:
		if len(parsed.Errors) > 0 {
			return apperrors.NewValidationError(message, fieldDetails(parsed.Errors)...)
		}
	}
	return apperrors.NewAPIError(resp.StatusCode, message)
}

func fieldDetails(fields map[string][]string) []apperrors.ValidationDetail {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	details := make([]apperrors.ValidationDetail, 0, len(names))
	for _, name := range names {
		details = append(details, apperrors.ValidationDetail{
			Field:   name,
			Message: strings.Join(fields[name], "; "),
		})
	}
	return details
}
