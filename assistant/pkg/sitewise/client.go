package sitewise

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/iotsitewise"
)

// Store is the subset of the asset data service the assistant reads from.
type Store interface {
	ExecuteQuery(ctx context.Context, statement string, maxResults int32) (*QueryResult, error)
	DescribeAsset(ctx context.Context, assetID string) (*Asset, error)
	DescribeAssetModel(ctx context.Context, modelID string) (*AssetModel, error)
	DescribeAssetProperty(ctx context.Context, assetID, propertyID string) (*AssetProperty, error)
	ListAssetModels(ctx context.Context) ([]AssetModelSummary, error)
	ListAssets(ctx context.Context, modelID string) ([]AssetSummary, error)
}

// API is implemented by *iotsitewise.Client.
type API interface {
	ExecuteQuery(ctx context.Context, params *iotsitewise.ExecuteQueryInput, optFns ...func(*iotsitewise.Options)) (*iotsitewise.ExecuteQueryOutput, error)
	DescribeAsset(ctx context.Context, params *iotsitewise.DescribeAssetInput, optFns ...func(*iotsitewise.Options)) (*iotsitewise.DescribeAssetOutput, error)
	DescribeAssetModel(ctx context.Context, params *iotsitewise.DescribeAssetModelInput, optFns ...func(*iotsitewise.Options)) (*iotsitewise.DescribeAssetModelOutput, error)
	DescribeAssetProperty(ctx context.Context, params *iotsitewise.DescribeAssetPropertyInput, optFns ...func(*iotsitewise.Options)) (*iotsitewise.DescribeAssetPropertyOutput, error)
	iotsitewise.ListAssetModelsAPIClient
	iotsitewise.ListAssetsAPIClient
}

type AssetModelSummary struct {
	ID   string
	Name string
}

type AssetSummary struct {
	ID      string
	Name    string
	ModelID string
}

type AssetModel struct {
	ID   string
	Name string
}

type Asset struct {
	ID         string
	Name       string
	ModelID    string
	Properties []AssetProperty
}

type AssetProperty struct {
	ID   string
	Name string
	Unit string
}

type Client struct {
	log *slog.Logger
	api API
}

func NewClient(log *slog.Logger, api API) (*Client, error) {
	if log == nil {
		return nil, errors.New("logger is required")
	}
	if api == nil {
		return nil, errors.New("sitewise api client is required")
	}
	return &Client{log: log, api: api}, nil
}

// NewClientFromEnv builds a client with the default AWS credential chain. An
// empty region falls back to the one resolved by the SDK.
func NewClientFromEnv(ctx context.Context, log *slog.Logger, region string) (*Client, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return NewClient(log, iotsitewise.NewFromConfig(cfg))
}

// ExecuteQuery runs statement and follows NextToken until maxResults rows have
// been collected or the store has no more pages. A non-positive maxResults
// drains every page.
func (c *Client) ExecuteQuery(ctx context.Context, statement string, maxResults int32) (*QueryResult, error) {
	c.log.Debug("sitewise: executing query", "statement", statement, "maxResults", maxResults)

	input := &iotsitewise.ExecuteQueryInput{
		QueryStatement: aws.String(statement),
	}
	if maxResults > 0 {
		input.MaxResults = aws.Int32(maxResults)
	}

	var result *QueryResult
	for {
		out, err := c.api.ExecuteQuery(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("failed to execute query: %w", err)
		}
		page, err := DecodeResult(out.Columns, out.Rows)
		if err != nil {
			return nil, fmt.Errorf("failed to decode query result: %w", err)
		}
		if result == nil {
			result = page
		} else {
			result.merge(page)
		}

		if out.NextToken == nil || *out.NextToken == "" {
			break
		}
		if maxResults > 0 && result.Count >= int(maxResults) {
			break
		}
		input.NextToken = out.NextToken
	}

	c.log.Debug("sitewise: query executed", "rows", result.Count)
	return result, nil
}

func (c *Client) DescribeAsset(ctx context.Context, assetID string) (*Asset, error) {
	out, err := c.api.DescribeAsset(ctx, &iotsitewise.DescribeAssetInput{
		AssetId: aws.String(assetID),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to describe asset %s: %w", assetID, err)
	}
	asset := &Asset{
		ID:         aws.ToString(out.AssetId),
		Name:       aws.ToString(out.AssetName),
		ModelID:    aws.ToString(out.AssetModelId),
		Properties: make([]AssetProperty, 0, len(out.AssetProperties)),
	}
	for _, prop := range out.AssetProperties {
		asset.Properties = append(asset.Properties, AssetProperty{
			ID:   aws.ToString(prop.Id),
			Name: aws.ToString(prop.Name),
			Unit: aws.ToString(prop.Unit),
		})
	}
	return asset, nil
}

func (c *Client) DescribeAssetModel(ctx context.Context, modelID string) (*AssetModel, error) {
	out, err := c.api.DescribeAssetModel(ctx, &iotsitewise.DescribeAssetModelInput{
		AssetModelId: aws.String(modelID),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to describe asset model %s: %w", modelID, err)
	}
	return &AssetModel{
		ID:   aws.ToString(out.AssetModelId),
		Name: aws.ToString(out.AssetModelName),
	}, nil
}

func (c *Client) DescribeAssetProperty(ctx context.Context, assetID, propertyID string) (*AssetProperty, error) {
	out, err := c.api.DescribeAssetProperty(ctx, &iotsitewise.DescribeAssetPropertyInput{
		AssetId:    aws.String(assetID),
		PropertyId: aws.String(propertyID),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to describe property %s: %w", propertyID, err)
	}
	if out.AssetProperty == nil {
		return nil, fmt.Errorf("property %s of asset %s has no description", propertyID, assetID)
	}
	return &AssetProperty{
		ID:   aws.ToString(out.AssetProperty.Id),
		Name: aws.ToString(out.AssetProperty.Name),
		Unit: aws.ToString(out.AssetProperty.Unit),
	}, nil
}

func (c *Client) ListAssetModels(ctx context.Context) ([]AssetModelSummary, error) {
	var models []AssetModelSummary
	paginator := iotsitewise.NewListAssetModelsPaginator(c.api, &iotsitewise.ListAssetModelsInput{})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list asset models: %w", err)
		}
		for _, m := range page.AssetModelSummaries {
			models = append(models, AssetModelSummary{
				ID:   aws.ToString(m.Id),
				Name: aws.ToString(m.Name),
			})
		}
	}
	return models, nil
}

func (c *Client) ListAssets(ctx context.Context, modelID string) ([]AssetSummary, error) {
	var assets []AssetSummary
	paginator := iotsitewise.NewListAssetsPaginator(c.api, &iotsitewise.ListAssetsInput{
		AssetModelId: aws.String(modelID),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list assets for model %s: %w", modelID, err)
		}
		for _, a := range page.AssetSummaries {
			assets = append(assets, AssetSummary{
				ID:      aws.ToString(a.Id),
				Name:    aws.ToString(a.Name),
				ModelID: aws.ToString(a.AssetModelId),
			})
		}
	}
	return assets, nil
}
