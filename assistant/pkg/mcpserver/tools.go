package mcpserver

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/malbeclabs/sitewise-assistant/assistant/pkg/action"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const toolActionGroup = "mcp"

const (
	ToolListAssets               = "list_assets"
	ToolListAssetProperties      = "list_asset_properties"
	ToolGetLatestMeasurement     = "get_latest_measurement"
	ToolGetAggregatedMeasurement = "get_aggregated_measurement"
)

type ListAssetsInput struct{}

type ListAssetPropertiesInput struct {
	AssetName string `json:"asset_name" jsonschema:"Name of the asset, for example Turbine2"`
}

type LatestMeasurementInput struct {
	AssetName    string `json:"asset_name" jsonschema:"Name of the asset, for example Turbine2"`
	PropertyName string `json:"property_name" jsonschema:"Name of the asset property, for example RPM"`
}

type AggregatedMeasurementInput struct {
	AssetName    string `json:"asset_name" jsonschema:"Name of the asset, for example Turbine2"`
	PropertyName string `json:"property_name" jsonschema:"Name of the asset property, for example RPM"`
	Resolution   string `json:"resolution" jsonschema:"Aggregation bucket size: 1m, 15m, 1h or 1d"`
}

// RegisterTools adds one tool per action route. Every tool call goes through
// the invoker, so tools answer exactly what the action group would.
func RegisterTools(log *slog.Logger, server *mcp.Server, inv Invoker) error {
	if err := addTool(log, server, inv, ToolListAssets, action.PathListAssets,
		"List every industrial asset with its asset model id and name. Use this first to discover asset names.",
		func(ListAssetsInput) []action.Parameter { return nil },
	); err != nil {
		return err
	}
	if err := addTool(log, server, inv, ToolListAssetProperties, action.PathListProperties,
		"List the properties (name and id) of an asset. Use this to discover property names before reading measurements.",
		func(in ListAssetPropertiesInput) []action.Parameter {
			return []action.Parameter{param(action.ParamAssetName, in.AssetName)}
		},
	); err != nil {
		return err
	}
	if err := addTool(log, server, inv, ToolGetLatestMeasurement, action.PathLatestMeasurement,
		"Get the latest value of an asset property with its timestamp and unit.",
		func(in LatestMeasurementInput) []action.Parameter {
			return []action.Parameter{
				param(action.ParamAssetName, in.AssetName),
				param(action.ParamPropertyName, in.PropertyName),
			}
		},
	); err != nil {
		return err
	}
	return addTool(log, server, inv, ToolGetAggregatedMeasurement, action.PathAggregatedMeasurement,
		"Get average, maximum and minimum of an asset property over the last 48 hours at a resolution of 1m, 15m, 1h or 1d.",
		func(in AggregatedMeasurementInput) []action.Parameter {
			return []action.Parameter{
				param(action.ParamAssetName, in.AssetName),
				param(action.ParamPropertyName, in.PropertyName),
				param(action.ParamResolution, in.Resolution),
			}
		},
	)
}

func param(name, value string) action.Parameter {
	return action.Parameter{Name: name, Type: "string", Value: value}
}

func addTool[In any](log *slog.Logger, server *mcp.Server, inv Invoker, name, apiPath, description string, params func(In) []action.Parameter) error {
	schema, err := jsonschema.For[In](nil)
	if err != nil {
		return fmt.Errorf("failed to create %s input schema: %w", name, err)
	}

	tool := &mcp.Tool{
		Name:        name,
		Description: description,
		InputSchema: schema,
	}

	handler := func(ctx context.Context, _ *mcp.CallToolRequest, in In) (*mcp.CallToolResult, any, error) {
		return handleTool(ctx, log, inv, name, apiPath, params(in)), nil, nil
	}

	mcp.AddTool(server, tool, handler)
	return nil
}

// handleTool reports action failures as tool errors so the model sees the
// message instead of a protocol error.
func handleTool(ctx context.Context, log *slog.Logger, inv Invoker, toolName, apiPath string, params []action.Parameter) *mcp.CallToolResult {
	startTime := time.Now()
	log.Debug("mcp/tool: handling", "tool", toolName, "params", params)

	resp := inv.Handle(ctx, &action.Request{
		ActionGroup: toolActionGroup,
		APIPath:     apiPath,
		HTTPMethod:  http.MethodGet,
		Parameters:  params,
	})

	status := "success"
	isError := resp.StatusCode() >= http.StatusBadRequest
	if isError {
		status = "error_" + strconv.Itoa(resp.StatusCode())
	}
	ToolCallsTotal.WithLabelValues(toolName, status).Inc()
	ToolCallDuration.WithLabelValues(toolName).Observe(time.Since(startTime).Seconds())

	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: resp.Body()}},
		IsError: isError,
	}
}
