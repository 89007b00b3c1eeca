package action

import (
	"encoding/json"
	"errors"
	"fmt"
)

const (
	MessageVersion  = "1.0"
	ContentTypeJSON = "application/json"

	DefaultActionGroup = "defaultGroup"
	DefaultHTTPMethod  = "GET"
)

// Route templates, matched exactly against Request.APIPath.
const (
	PathListAssets            = "/assets/all"
	PathListProperties        = "/assets/{AssetName}/properties"
	PathLatestMeasurement     = "/measurements/{AssetName}/{PropertyName}"
	PathAggregatedMeasurement = "/measurements/{AssetName}/{PropertyName}/aggregate"
)

const (
	ParamAssetName    = "AssetName"
	ParamPropertyName = "PropertyName"
	ParamResolution   = "Resolution"
)

var ErrMissingParameter = errors.New("missing parameter")

type Parameter struct {
	Name  string `json:"name"`
	Type  string `json:"type,omitempty"`
	Value string `json:"value"`
}

type Agent struct {
	Name    string `json:"name,omitempty"`
	ID      string `json:"id,omitempty"`
	Alias   string `json:"alias,omitempty"`
	Version string `json:"version,omitempty"`
}

// Request is an action group invocation event.
type Request struct {
	MessageVersion          string            `json:"messageVersion,omitempty"`
	Agent                   *Agent            `json:"agent,omitempty"`
	SessionID               string            `json:"sessionId,omitempty"`
	InputText               string            `json:"inputText,omitempty"`
	ActionGroup             string            `json:"actionGroup"`
	APIPath                 string            `json:"apiPath"`
	HTTPMethod              string            `json:"httpMethod"`
	Parameters              []Parameter       `json:"parameters"`
	SessionAttributes       map[string]string `json:"sessionAttributes,omitempty"`
	PromptSessionAttributes map[string]string `json:"promptSessionAttributes,omitempty"`
}

// Param returns the value of the first parameter with the given name.
func (r *Request) Param(name string) (string, error) {
	for _, p := range r.Parameters {
		if p.Name == name {
			return p.Value, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrMissingParameter, name)
}

func (r *Request) actionGroup() string {
	if r.ActionGroup == "" {
		return DefaultActionGroup
	}
	return r.ActionGroup
}

func (r *Request) httpMethod() string {
	if r.HTTPMethod == "" {
		return DefaultHTTPMethod
	}
	return r.HTTPMethod
}

type Response struct {
	MessageVersion string         `json:"messageVersion"`
	Response       ActionResponse `json:"response"`
}

type ActionResponse struct {
	ActionGroup             string                  `json:"actionGroup"`
	APIPath                 string                  `json:"apiPath"`
	HTTPMethod              string                  `json:"httpMethod"`
	HTTPStatusCode          int                     `json:"httpStatusCode"`
	ResponseBody            map[string]ResponseBody `json:"responseBody"`
	SessionAttributes       map[string]string       `json:"sessionAttributes"`
	PromptSessionAttributes map[string]string       `json:"promptSessionAttributes"`
}

type ResponseBody struct {
	Body string `json:"body"`
}

type ErrorBody struct {
	Error string `json:"error"`
}

// NewResponse wraps body, encoded as JSON, in the response envelope for req.
func NewResponse(req *Request, status int, body any) (*Response, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal response body: %w", err)
	}
	return &Response{
		MessageVersion: MessageVersion,
		Response: ActionResponse{
			ActionGroup:    req.actionGroup(),
			APIPath:        req.APIPath,
			HTTPMethod:     req.httpMethod(),
			HTTPStatusCode: status,
			ResponseBody: map[string]ResponseBody{
				ContentTypeJSON: {Body: string(data)},
			},
			SessionAttributes:       map[string]string{},
			PromptSessionAttributes: map[string]string{},
		},
	}, nil
}

func (r *Response) StatusCode() int {
	return r.Response.HTTPStatusCode
}

// Body returns the raw JSON body.
func (r *Response) Body() string {
	return r.Response.ResponseBody[ContentTypeJSON].Body
}

// DecodeBody unmarshals the JSON body into v.
func (r *Response) DecodeBody(v any) error {
	if err := json.Unmarshal([]byte(r.Body()), v); err != nil {
		return fmt.Errorf("failed to decode response body: %w", err)
	}
	return nil
}
