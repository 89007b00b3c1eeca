package action

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strconv"
	"time"

	"github.com/malbeclabs/sitewise-assistant/assistant/pkg/assets"
)

const internalErrorMessage = "An error occurred processing your request."

// Adapter is the data access layer behind the router.
type Adapter interface {
	ListAllAssets(ctx context.Context) ([]assets.AssetSummary, error)
	ListProperties(ctx context.Context, assetName string) ([]assets.PropertySummary, error)
	LatestMeasurement(ctx context.Context, assetName, propertyName string) (*assets.Measurement, error)
	AggregatedMeasurement(ctx context.Context, assetName, propertyName string, resolution assets.Resolution) (*assets.Aggregate, error)
}

type handlerFunc func(ctx context.Context, req *Request) (any, error)

type Router struct {
	log     *slog.Logger
	adapter Adapter
	routes  map[string]handlerFunc
}

func NewRouter(log *slog.Logger, adapter Adapter) (*Router, error) {
	if log == nil {
		return nil, errors.New("logger is required")
	}
	if adapter == nil {
		return nil, errors.New("adapter is required")
	}
	r := &Router{
		log:     log,
		adapter: adapter,
	}
	r.routes = map[string]handlerFunc{
		PathListAssets:            r.listAssets,
		PathListProperties:        r.listProperties,
		PathLatestMeasurement:     r.latestMeasurement,
		PathAggregatedMeasurement: r.aggregatedMeasurement,
	}
	return r, nil
}

// Handle always produces a response. Errors that are not domain errors, and
// panics, become a 500 with a generic body.
func (r *Router) Handle(ctx context.Context, req *Request) (resp *Response) {
	start := time.Now()
	r.log.Info("action: invocation", "apiPath", req.APIPath, "actionGroup", req.ActionGroup, "sessionID", req.SessionID)

	defer func() {
		if p := recover(); p != nil {
			r.log.Error("action: panic while handling request", "apiPath", req.APIPath, "panic", p, "stack", string(debug.Stack()))
			resp = r.internalError(req)
		}
		path := req.APIPath
		if _, ok := r.routes[path]; !ok {
			path = "unknown"
		}
		InvocationsTotal.WithLabelValues(path, strconv.Itoa(resp.StatusCode())).Inc()
		InvocationDuration.WithLabelValues(path).Observe(time.Since(start).Seconds())
	}()

	status, body, err := r.dispatch(ctx, req)
	if err != nil {
		r.log.Error("action: failed to handle request", "apiPath", req.APIPath, "error", err)
		return r.internalError(req)
	}

	resp, err = NewResponse(req, status, body)
	if err != nil {
		r.log.Error("action: failed to build response", "apiPath", req.APIPath, "error", err)
		return r.internalError(req)
	}
	return resp
}

// dispatch maps domain errors to client statuses and returns anything else.
func (r *Router) dispatch(ctx context.Context, req *Request) (int, any, error) {
	h, ok := r.routes[req.APIPath]
	if !ok {
		return http.StatusBadRequest, ErrorBody{Error: fmt.Sprintf("%s is not a valid API path, try another one.", req.APIPath)}, nil
	}

	body, err := h(ctx, req)
	switch {
	case err == nil:
		return http.StatusOK, body, nil
	case errors.Is(err, assets.ErrNotFound):
		r.log.Info("action: not found", "apiPath", req.APIPath, "error", err)
		return http.StatusNotFound, ErrorBody{Error: err.Error()}, nil
	case errors.Is(err, assets.ErrInvalidInput):
		r.log.Info("action: invalid input", "apiPath", req.APIPath, "error", err)
		return http.StatusBadRequest, ErrorBody{Error: err.Error()}, nil
	}
	return 0, nil, err
}

func (r *Router) internalError(req *Request) *Response {
	resp, _ := NewResponse(req, http.StatusInternalServerError, ErrorBody{Error: internalErrorMessage})
	return resp
}

func (r *Router) listAssets(ctx context.Context, _ *Request) (any, error) {
	return r.adapter.ListAllAssets(ctx)
}

func (r *Router) listProperties(ctx context.Context, req *Request) (any, error) {
	assetName, err := req.Param(ParamAssetName)
	if err != nil {
		return nil, err
	}
	return r.adapter.ListProperties(ctx, assetName)
}

func (r *Router) latestMeasurement(ctx context.Context, req *Request) (any, error) {
	assetName, err := req.Param(ParamAssetName)
	if err != nil {
		return nil, err
	}
	propertyName, err := req.Param(ParamPropertyName)
	if err != nil {
		return nil, err
	}
	return r.adapter.LatestMeasurement(ctx, assetName, propertyName)
}

func (r *Router) aggregatedMeasurement(ctx context.Context, req *Request) (any, error) {
	assetName, err := req.Param(ParamAssetName)
	if err != nil {
		return nil, err
	}
	propertyName, err := req.Param(ParamPropertyName)
	if err != nil {
		return nil, err
	}
	raw, err := req.Param(ParamResolution)
	if err != nil {
		return nil, err
	}
	resolution, err := assets.ParseResolution(raw)
	if err != nil {
		return nil, err
	}
	return r.adapter.AggregatedMeasurement(ctx, assetName, propertyName, resolution)
}
