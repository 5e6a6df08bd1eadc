// Package backend is the typed client of the external rental REST API.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-openapi/runtime"
	httptransport "github.com/go-openapi/runtime/client"
	"github.com/go-openapi/strfmt"
	"github.com/sm8ta/webike_rental_storefront/internal/core/domain"
	"github.com/sm8ta/webike_rental_storefront/internal/core/ports"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// APIError is a non-2xx answer of the backend.
type APIError struct {
	Operation string
	Code      int
	Message   string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("%s failed with status %d", e.Operation, e.Code)
}

// PublicMessage is safe to show to the visitor.
func (e *APIError) PublicMessage() string {
	switch {
	case e.Message != "":
		return e.Message
	case e.Code == http.StatusUnauthorized:
		return "Your session has expired, please sign in again"
	case e.Code == http.StatusNotFound:
		return "The requested item was not found"
	case e.Code >= 500:
		return "The rental service is temporarily unavailable"
	}
	return "Request failed, please try again"
}

func (e *APIError) Unwrap() error {
	switch e.Code {
	case http.StatusUnauthorized, http.StatusForbidden:
		return domain.ErrAuthRequired
	case http.StatusNotFound:
		return domain.ErrNotFound
	}
	return nil
}

type Client struct {
	transport runtime.ClientTransport
	formats   strfmt.Registry
	timeout   time.Duration
	logger    ports.LoggerPort
	metrics   ports.MetricsPort
	tracer    trace.Tracer
}

// New builds a client on top of a go-openapi transport, for example
// httptransport.New(host, basePath, schemes).
func New(
	transport runtime.ClientTransport,
	formats strfmt.Registry,
	timeout time.Duration,
	logger ports.LoggerPort,
	metrics ports.MetricsPort,
) *Client {
	if formats == nil {
		formats = strfmt.Default
	}
	return &Client{
		transport: transport,
		formats:   formats,
		timeout:   timeout,
		logger:    logger,
		metrics:   metrics,
		tracer:    otel.Tracer("github.com/sm8ta/webike_rental_storefront/internal/adapter/backend"),
	}
}

// NewHTTP is a shortcut for a plain HTTP(S) transport.
func NewHTTP(host, basePath, scheme string, timeout time.Duration, logger ports.LoggerPort, metrics ports.MetricsPort) *Client {
	transport := httptransport.New(host, basePath, []string{scheme})
	return New(transport, strfmt.Default, timeout, logger, metrics)
}

type requestParams func(r runtime.ClientRequest, reg strfmt.Registry) error

type operation struct {
	id        string
	method    string
	path      string
	token     string
	multipart bool
	params    requestParams
	out       interface{}
}

func (c *Client) call(ctx context.Context, op operation) error {
	ctx, span := c.tracer.Start(ctx, "backend."+op.id,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.method", op.method),
			attribute.String("http.route", op.path),
		))
	defer span.End()

	consumes := []string{runtime.JSONMime}
	if op.multipart {
		consumes = []string{runtime.MultipartFormMime}
	}

	var authInfo runtime.ClientAuthInfoWriter
	if op.token != "" {
		authInfo = httptransport.BearerToken(op.token)
	}

	start := time.Now()
	code := 0
	_, err := c.transport.Submit(&runtime.ClientOperation{
		ID:                 op.id,
		Method:             op.method,
		PathPattern:        op.path,
		ProducesMediaTypes: []string{runtime.JSONMime},
		ConsumesMediaTypes: consumes,
		Params: runtime.ClientRequestWriterFunc(func(r runtime.ClientRequest, reg strfmt.Registry) error {
			if c.timeout > 0 {
				if err := r.SetTimeout(c.timeout); err != nil {
					return err
				}
			}
			if op.params == nil {
				return nil
			}
			return op.params(r, reg)
		}),
		Reader: runtime.ClientResponseReaderFunc(func(resp runtime.ClientResponse, consumer runtime.Consumer) (interface{}, error) {
			code = resp.Code()
			return nil, decodeResponse(op.id, resp, consumer, op.out)
		}),
		AuthInfo: authInfo,
		Context:  ctx,
	})
	elapsed := time.Since(start)

	if c.metrics != nil {
		c.metrics.BackendCall(op.id, code, elapsed)
	}
	span.SetAttributes(attribute.Int("http.status_code", code))

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		c.logger.Warn("Backend call failed", map[string]interface{}{
			"operation": op.id,
			"status":    code,
			"elapsed":   elapsed.String(),
			"error":     err.Error(),
		})
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			return err
		}
		return fmt.Errorf("%s: %w", op.id, err)
	}

	c.logger.Debug("Backend call", map[string]interface{}{
		"operation": op.id,
		"status":    code,
		"elapsed":   elapsed.String(),
	})
	return nil
}

type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

func decodeResponse(opID string, resp runtime.ClientResponse, consumer runtime.Consumer, out interface{}) error {
	var raw json.RawMessage
	if err := consumer.Consume(resp.Body(), &raw); err != nil && !errors.Is(err, io.EOF) {
		if resp.Code()/100 != 2 {
			return &APIError{Operation: opID, Code: resp.Code()}
		}
		return fmt.Errorf("%s: decode response: %w", opID, err)
	}

	if resp.Code()/100 != 2 {
		apiErr := &APIError{Operation: opID, Code: resp.Code()}
		var body errorBody
		if len(raw) > 0 && json.Unmarshal(unwrapEnvelope(raw), &body) == nil {
			apiErr.Message = body.Message
			if apiErr.Message == "" {
				apiErr.Message = body.Error
			}
		}
		return apiErr
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(unwrapEnvelope(raw), out); err != nil {
		return fmt.Errorf("%s: decode payload: %w", opID, err)
	}
	return nil
}

// unwrapEnvelope returns the "data" member of {"data": ...} responses and
// raw otherwise.
func unwrapEnvelope(raw json.RawMessage) json.RawMessage {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return raw
	}
	var env struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return raw
	}
	if d := bytes.TrimSpace(env.Data); len(d) > 0 && string(d) != "null" {
		return env.Data
	}
	return raw
}

func jsonBody(body interface{}) requestParams {
	return func(r runtime.ClientRequest, _ strfmt.Registry) error {
		return r.SetBodyParam(body)
	}
}

func pathID(id string, next requestParams) requestParams {
	return func(r runtime.ClientRequest, reg strfmt.Registry) error {
		if err := r.SetPathParam("id", id); err != nil {
			return err
		}
		if next == nil {
			return nil
		}
		return next(r, reg)
	}
}
