package action

import (
	"fmt"

	"github.com/malbeclabs/sitewise-assistant/assistant/pkg/assets"
	"gopkg.in/yaml.v3"
)

// OpenAPI document types, limited to what an action group schema uses.
type OpenAPIDocument struct {
	OpenAPI string                           `yaml:"openapi"`
	Info    OpenAPIInfo                      `yaml:"info"`
	Paths   map[string]map[string]*Operation `yaml:"paths"`
}

type OpenAPIInfo struct {
	Title       string `yaml:"title"`
	Version     string `yaml:"version"`
	Description string `yaml:"description,omitempty"`
}

type Operation struct {
	Summary     string                     `yaml:"summary"`
	Description string                     `yaml:"description"`
	OperationID string                     `yaml:"operationId"`
	Parameters  []OperationParameter       `yaml:"parameters,omitempty"`
	Responses   map[string]OpenAPIResponse `yaml:"responses"`
}

type OperationParameter struct {
	Name        string  `yaml:"name"`
	In          string  `yaml:"in"`
	Description string  `yaml:"description"`
	Required    bool    `yaml:"required"`
	Schema      *Schema `yaml:"schema"`
}

type OpenAPIResponse struct {
	Description string               `yaml:"description"`
	Content     map[string]MediaType `yaml:"content,omitempty"`
}

type MediaType struct {
	Schema *Schema `yaml:"schema"`
}

type Schema struct {
	Type        string             `yaml:"type"`
	Description string             `yaml:"description,omitempty"`
	Enum        []string           `yaml:"enum,omitempty"`
	Items       *Schema            `yaml:"items,omitempty"`
	Properties  map[string]*Schema `yaml:"properties,omitempty"`
}

func str(desc string) *Schema { return &Schema{Type: "string", Description: desc} }

func object(props map[string]*Schema) *Schema {
	return &Schema{Type: "object", Properties: props}
}

func jsonResponse(desc string, schema *Schema) map[string]OpenAPIResponse {
	return map[string]OpenAPIResponse{
		"200": {
			Description: desc,
			Content:     map[string]MediaType{ContentTypeJSON: {Schema: schema}},
		},
		"400": {Description: "Invalid input or unknown path."},
		"404": {Description: "Asset or property not found."},
		"500": {Description: "Unexpected error."},
	}
}

func pathParam(name, desc string) OperationParameter {
	return OperationParameter{Name: name, In: "path", Description: desc, Required: true, Schema: &Schema{Type: "string"}}
}

// NewOpenAPIDocument describes the routes served by Router.
func NewOpenAPIDocument(version string) *OpenAPIDocument {
	resolutions := make([]string, 0, len(assets.Resolutions))
	for _, r := range assets.Resolutions {
		resolutions = append(resolutions, string(r))
	}
	assetParam := pathParam(ParamAssetName, "Name of the asset, for example Turbine2.")
	propertyParam := pathParam(ParamPropertyName, "Name of the asset property, for example RPM.")
	value := &Schema{Type: "string", Description: "Number rounded to 2 decimals, a string value, or N/A."}

	return &OpenAPIDocument{
		OpenAPI: "3.0.0",
		Info: OpenAPIInfo{
			Title:       "Industrial asset assistant API",
			Version:     version,
			Description: "Read-only access to industrial assets, their properties and measurements.",
		},
		Paths: map[string]map[string]*Operation{
			PathListAssets: {
				"get": {
					Summary:     "List all assets",
					Description: "Lists every asset of every asset model, with model id and name.",
					OperationID: "listAllAssets",
					Responses: jsonResponse("Assets by model.", &Schema{Type: "array", Items: object(map[string]*Schema{
						"modelId":   str("Asset model id."),
						"modelName": str("Asset model name."),
						"assetId":   str("Asset id."),
						"assetName": str("Asset name."),
					})}),
				},
			},
			PathListProperties: {
				"get": {
					Summary:     "List asset properties",
					Description: "Lists the name and id of every property of an asset.",
					OperationID: "listAssetProperties",
					Parameters:  []OperationParameter{assetParam},
					Responses: jsonResponse("Properties of the asset.", &Schema{Type: "array", Items: object(map[string]*Schema{
						"name": str("Property name."),
						"id":   str("Property id."),
					})}),
				},
			},
			PathLatestMeasurement: {
				"get": {
					Summary:     "Get latest measurement",
					Description: "Returns the latest value of an asset property with its timestamp and unit.",
					OperationID: "getLatestMeasurement",
					Parameters:  []OperationParameter{assetParam, propertyParam},
					Responses: jsonResponse("Latest measurement.", object(map[string]*Schema{
						"assetId":        str("Asset id."),
						"propertyId":     str("Property id."),
						"eventTimestamp": str("Local time of the measurement."),
						"latestValue":    value,
						"units":          str("Unit of measure, empty when unknown."),
					})),
				},
			},
			PathAggregatedMeasurement: {
				"get": {
					Summary:     "Get aggregated measurement",
					Description: "Returns average, maximum and minimum of an asset property over the last 48 hours at the given resolution.",
					OperationID: "getAggregatedMeasurement",
					Parameters: []OperationParameter{assetParam, propertyParam, {
						Name:        ParamResolution,
						In:          "query",
						Description: "Aggregation bucket size.",
						Required:    true,
						Schema:      &Schema{Type: "string", Enum: resolutions},
					}},
					Responses: jsonResponse("Aggregated measurement.", object(map[string]*Schema{
						"assetId":        str("Asset id."),
						"propertyId":     str("Property id."),
						"eventTimestamp": str("Local time of the aggregation bucket."),
						"averageValue":   value,
						"maxValue":       value,
						"minValue":       value,
						"units":          str("Unit of measure, empty when unknown."),
						"resolution":     str("Aggregation bucket size."),
					})),
				},
			},
		},
	}
}

func (d *OpenAPIDocument) YAML() ([]byte, error) {
	data, err := yaml.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal openapi document: %w", err)
	}
	return data, nil
}
