package action

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"testing"

	"github.com/malbeclabs/sitewise-assistant/assistant/pkg/assets"
	"github.com/stretchr/testify/require"
)

type mockAdapter struct {
	ListAllAssetsFunc         func(ctx context.Context) ([]assets.AssetSummary, error)
	ListPropertiesFunc        func(ctx context.Context, assetName string) ([]assets.PropertySummary, error)
	LatestMeasurementFunc     func(ctx context.Context, assetName, propertyName string) (*assets.Measurement, error)
	AggregatedMeasurementFunc func(ctx context.Context, assetName, propertyName string, resolution assets.Resolution) (*assets.Aggregate, error)
}

func (m *mockAdapter) ListAllAssets(ctx context.Context) ([]assets.AssetSummary, error) {
	return m.ListAllAssetsFunc(ctx)
}

func (m *mockAdapter) ListProperties(ctx context.Context, assetName string) ([]assets.PropertySummary, error) {
	return m.ListPropertiesFunc(ctx, assetName)
}

func (m *mockAdapter) LatestMeasurement(ctx context.Context, assetName, propertyName string) (*assets.Measurement, error) {
	return m.LatestMeasurementFunc(ctx, assetName, propertyName)
}

func (m *mockAdapter) AggregatedMeasurement(ctx context.Context, assetName, propertyName string, resolution assets.Resolution) (*assets.Aggregate, error) {
	return m.AggregatedMeasurementFunc(ctx, assetName, propertyName, resolution)
}

func testLogger(t *testing.T) *slog.Logger {
	t.Helper()
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func newTestRouter(t *testing.T, adapter Adapter) *Router {
	t.Helper()
	r, err := NewRouter(testLogger(t), adapter)
	require.NoError(t, err)
	return r
}

func mustErrBody(t *testing.T, resp *Response) ErrorBody {
	t.Helper()
	var eb ErrorBody
	require.NoError(t, resp.DecodeBody(&eb))
	return eb
}

func params(kv ...string) []Parameter {
	out := make([]Parameter, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		out = append(out, Parameter{Name: kv[i], Type: "string", Value: kv[i+1]})
	}
	return out
}

func TestAssistant_Action_NewRouter_RequiresDependencies(t *testing.T) {
	t.Parallel()

	_, err := NewRouter(nil, &mockAdapter{})
	require.ErrorContains(t, err, "logger is required")

	_, err = NewRouter(testLogger(t), nil)
	require.ErrorContains(t, err, "adapter is required")
}

func TestAssistant_Action_Router_LatestMeasurement(t *testing.T) {
	t.Parallel()

	r := newTestRouter(t, &mockAdapter{
		LatestMeasurementFunc: func(ctx context.Context, assetName, propertyName string) (*assets.Measurement, error) {
			require.Equal(t, "Turbine2", assetName)
			require.Equal(t, "RPM", propertyName)
			return &assets.Measurement{
				AssetID:        "a-2",
				PropertyID:     "p-rpm",
				EventTimestamp: "2024-06-20 11:13:20",
				LatestValue:    assets.NumberValue(1523.46),
				Units:          "rpm",
			}, nil
		},
	})

	resp := r.Handle(t.Context(), &Request{
		ActionGroup: "sitewise",
		APIPath:     PathLatestMeasurement,
		HTTPMethod:  http.MethodGet,
		Parameters:  params(ParamAssetName, "Turbine2", ParamPropertyName, "RPM"),
	})

	require.Equal(t, MessageVersion, resp.MessageVersion)
	require.Equal(t, http.StatusOK, resp.StatusCode())
	require.Equal(t, "sitewise", resp.Response.ActionGroup)
	require.Equal(t, PathLatestMeasurement, resp.Response.APIPath)
	require.Equal(t, http.MethodGet, resp.Response.HTTPMethod)
	require.JSONEq(t, `{"assetId":"a-2","propertyId":"p-rpm","eventTimestamp":"2024-06-20 11:13:20","latestValue":1523.46,"units":"rpm"}`, resp.Body())
}

func TestAssistant_Action_Router_Envelope(t *testing.T) {
	t.Parallel()

	r := newTestRouter(t, &mockAdapter{
		ListAllAssetsFunc: func(ctx context.Context) ([]assets.AssetSummary, error) {
			return []assets.AssetSummary{{ModelID: "m-1", ModelName: "Turbine", AssetID: "a-1", AssetName: "Turbine1"}}, nil
		},
	})

	resp := r.Handle(t.Context(), &Request{APIPath: PathListAssets})

	data, err := json.Marshal(resp)
	require.NoError(t, err)
	require.JSONEq(t, `{
		"messageVersion": "1.0",
		"response": {
			"actionGroup": "defaultGroup",
			"apiPath": "/assets/all",
			"httpMethod": "GET",
			"httpStatusCode": 200,
			"responseBody": {
				"application/json": {
					"body": "[{\"modelId\":\"m-1\",\"modelName\":\"Turbine\",\"assetId\":\"a-1\",\"assetName\":\"Turbine1\"}]"
				}
			},
			"sessionAttributes": {},
			"promptSessionAttributes": {}
		}
	}`, string(data))
}

func TestAssistant_Action_Router_ListProperties(t *testing.T) {
	t.Parallel()

	r := newTestRouter(t, &mockAdapter{
		ListPropertiesFunc: func(ctx context.Context, assetName string) ([]assets.PropertySummary, error) {
			require.Equal(t, "Turbine2", assetName)
			return []assets.PropertySummary{{Name: "RPM", ID: "p-rpm"}}, nil
		},
	})

	resp := r.Handle(t.Context(), &Request{APIPath: PathListProperties, Parameters: params(ParamAssetName, "Turbine2")})
	require.Equal(t, http.StatusOK, resp.StatusCode())

	var got []assets.PropertySummary
	require.NoError(t, resp.DecodeBody(&got))
	require.Equal(t, []assets.PropertySummary{{Name: "RPM", ID: "p-rpm"}}, got)
}

func TestAssistant_Action_Router_AggregatedMeasurement(t *testing.T) {
	t.Parallel()

	t.Run("valid resolution", func(t *testing.T) {
		t.Parallel()

		r := newTestRouter(t, &mockAdapter{
			AggregatedMeasurementFunc: func(ctx context.Context, assetName, propertyName string, resolution assets.Resolution) (*assets.Aggregate, error) {
				require.Equal(t, assets.Resolution15m, resolution)
				return &assets.Aggregate{
					AssetID:        "a-2",
					PropertyID:     "p-rpm",
					EventTimestamp: "2024-06-20 11:00:00",
					AverageValue:   assets.NumberValue(1500.5),
					MaxValue:       assets.NumberValue(1600),
					MinValue:       assets.NotAvailableValue(),
					Units:          "rpm",
					Resolution:     resolution,
				}, nil
			},
		})

		resp := r.Handle(t.Context(), &Request{
			APIPath:    PathAggregatedMeasurement,
			Parameters: params(ParamAssetName, "Turbine2", ParamPropertyName, "RPM", ParamResolution, "15m"),
		})
		require.Equal(t, http.StatusOK, resp.StatusCode())
		require.JSONEq(t, `{"assetId":"a-2","propertyId":"p-rpm","eventTimestamp":"2024-06-20 11:00:00","averageValue":1500.5,"maxValue":1600,"minValue":"N/A","units":"rpm","resolution":"15m"}`, resp.Body())
	})

	t.Run("unsupported resolution never reaches the adapter", func(t *testing.T) {
		t.Parallel()

		r := newTestRouter(t, &mockAdapter{
			AggregatedMeasurementFunc: func(ctx context.Context, assetName, propertyName string, resolution assets.Resolution) (*assets.Aggregate, error) {
				t.Fatal("adapter should not be called")
				return nil, nil
			},
		})

		resp := r.Handle(t.Context(), &Request{
			APIPath:    PathAggregatedMeasurement,
			Parameters: params(ParamAssetName, "Turbine2", ParamPropertyName, "RPM", ParamResolution, "5m"),
		})
		require.Equal(t, http.StatusBadRequest, resp.StatusCode())
		require.JSONEq(t, `{"error":"Unsupported resolution for aggregation 5m"}`, resp.Body())
	})
}

func TestAssistant_Action_Router_ErrorMapping(t *testing.T) {
	t.Parallel()

	invalidInput := func(ctx context.Context, assetName, propertyName string) (*assets.Measurement, error) {
		return nil, assets.InvalidInputf("Property name '%s' is too long.", propertyName)
	}

	tests := []struct {
		name       string
		req        *Request
		adapter    *mockAdapter
		wantStatus int
		wantError  string
	}{
		{
			name: "invalid input from adapter",
			req: &Request{
				APIPath:    PathLatestMeasurement,
				Parameters: params(ParamAssetName, "Turbine2", ParamPropertyName, "RPM"),
			},
			adapter:    &mockAdapter{LatestMeasurementFunc: invalidInput},
			wantStatus: http.StatusBadRequest,
			wantError:  "Property name 'RPM' is too long.",
		},
		{
			name:       "unknown path",
			req:        &Request{APIPath: "/turbines"},
			adapter:    &mockAdapter{},
			wantStatus: http.StatusBadRequest,
			wantError:  "/turbines is not a valid API path, try another one.",
		},
		{
			name: "missing parameter is an unexpected fault",
			req: &Request{
				APIPath:    PathLatestMeasurement,
				Parameters: params(ParamAssetName, "Turbine2"),
			},
			adapter:    &mockAdapter{},
			wantStatus: http.StatusInternalServerError,
			wantError:  internalErrorMessage,
		},
		{
			name: "store failure does not leak detail",
			req:  &Request{APIPath: PathListAssets},
			adapter: &mockAdapter{ListAllAssetsFunc: func(ctx context.Context) ([]assets.AssetSummary, error) {
				return nil, errors.New("AccessDeniedException: arn:aws:iam::123456789012")
			}},
			wantStatus: http.StatusInternalServerError,
			wantError:  internalErrorMessage,
		},
		{
			name: "panic is recovered",
			req:  &Request{APIPath: PathListProperties, Parameters: params(ParamAssetName, "Turbine2")},
			adapter: &mockAdapter{ListPropertiesFunc: func(ctx context.Context, assetName string) ([]assets.PropertySummary, error) {
				panic("boom")
			}},
			wantStatus: http.StatusInternalServerError,
			wantError:  internalErrorMessage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			resp := newTestRouter(t, tt.adapter).Handle(t.Context(), tt.req)
			require.Equal(t, tt.wantStatus, resp.StatusCode())
			require.Equal(t, tt.wantError, mustErrBody(t, resp).Error)
			require.Equal(t, tt.req.APIPath, resp.Response.APIPath)
		})
	}
}

func TestAssistant_Action_Router_UnknownAssetIs404ForEveryRoute(t *testing.T) {
	t.Parallel()

	notFound := assets.NotFoundf("Asset '%s' not found.", "Turbine9")
	r := newTestRouter(t, &mockAdapter{
		ListPropertiesFunc: func(ctx context.Context, assetName string) ([]assets.PropertySummary, error) {
			return nil, notFound
		},
		LatestMeasurementFunc: func(ctx context.Context, assetName, propertyName string) (*assets.Measurement, error) {
			return nil, notFound
		},
		AggregatedMeasurementFunc: func(ctx context.Context, assetName, propertyName string, resolution assets.Resolution) (*assets.Aggregate, error) {
			return nil, notFound
		},
	})

	p := params(ParamAssetName, "Turbine9", ParamPropertyName, "RPM", ParamResolution, "1h")
	for _, path := range []string{PathListProperties, PathLatestMeasurement, PathAggregatedMeasurement} {
		resp := r.Handle(t.Context(), &Request{APIPath: path, Parameters: p})
		require.Equal(t, http.StatusNotFound, resp.StatusCode(), path)
		require.Equal(t, "Asset 'Turbine9' not found.", mustErrBody(t, resp).Error)
	}
}

func TestAssistant_Action_Response_BodyRoundTrip(t *testing.T) {
	t.Parallel()

	body := map[string]any{
		"assetId": "a-1",
		"nested":  map[string]any{"values": []any{1.5, "x", nil}},
		"count":   float64(3),
	}
	resp, err := NewResponse(&Request{APIPath: PathListAssets}, http.StatusOK, body)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, resp.DecodeBody(&got))
	require.Equal(t, body, got)
}

func TestAssistant_Action_Response_UnencodableBody(t *testing.T) {
	t.Parallel()

	_, err := NewResponse(&Request{}, http.StatusOK, map[string]any{"ch": make(chan int)})
	require.ErrorContains(t, err, "failed to marshal response body")
}

func TestAssistant_Action_Request_Param(t *testing.T) {
	t.Parallel()

	req := &Request{Parameters: params(ParamAssetName, "first", ParamAssetName, "second")}
	v, err := req.Param(ParamAssetName)
	require.NoError(t, err)
	require.Equal(t, "first", v)

	_, err = req.Param(ParamPropertyName)
	require.ErrorIs(t, err, ErrMissingParameter)
	require.ErrorContains(t, err, ParamPropertyName)
}

func TestAssistant_Action_Request_DecodeEvent(t *testing.T) {
	t.Parallel()

	var req Request
	require.NoError(t, json.Unmarshal([]byte(`{
		"messageVersion": "1.0",
		"agent": {"name": "industrial-agent", "id": "AGENT1", "alias": "TSTALIAS", "version": "DRAFT"},
		"sessionId": "20240620160000",
		"inputText": "What is the current RPM value for turbine 2?",
		"actionGroup": "sitewise-actions",
		"apiPath": "/measurements/{AssetName}/{PropertyName}",
		"httpMethod": "GET",
		"parameters": [
			{"name": "AssetName", "type": "string", "value": "Turbine2"},
			{"name": "PropertyName", "type": "string", "value": "RPM"}
		],
		"sessionAttributes": {},
		"promptSessionAttributes": {}
	}`), &req))

	require.Equal(t, PathLatestMeasurement, req.APIPath)
	require.Equal(t, "AGENT1", req.Agent.ID)
	v, err := req.Param(ParamPropertyName)
	require.NoError(t, err)
	require.Equal(t, "RPM", v)
}
