package assets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jellydator/ttlcache/v3"
	"github.com/malbeclabs/sitewise-assistant/assistant/pkg/sitewise"
)

const (
	// AggregateWindow bounds the rollups considered by AggregatedMeasurement.
	AggregateWindow = 48 * time.Hour

	TimestampLayout = "2006-01-02 15:04:05"
)

// Adapter turns asset and property names into records read from the store.
type Adapter struct {
	log   *slog.Logger
	cfg   Config
	store sitewise.Store

	cache *ttlcache.Cache[string, string]
}

func New(cfg Config) (*Adapter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("failed to validate assets config: %w", err)
	}
	a := &Adapter{
		log:   cfg.Logger,
		cfg:   cfg,
		store: cfg.Store,
	}
	if cfg.CacheTTL > 0 {
		a.cache = ttlcache.New(
			ttlcache.WithTTL[string, string](cfg.CacheTTL),
			ttlcache.WithDisableTouchOnHit[string, string](),
		)
	}
	return a, nil
}

func (a *Adapter) cached(key string, load func() (string, error)) (string, error) {
	if a.cache != nil {
		if item := a.cache.Get(key); item != nil {
			return item.Value(), nil
		}
	}
	v, err := load()
	if err != nil {
		return "", err
	}
	if a.cache != nil {
		a.cache.Set(key, v, ttlcache.DefaultTTL)
	}
	return v, nil
}

// ResolveAssetID returns the id of the first asset the store returns for name.
func (a *Adapter) ResolveAssetID(ctx context.Context, name string) (string, error) {
	return a.cached("asset:"+name, func() (string, error) {
		stmt := fmt.Sprintf("SELECT asset_id, asset_name FROM asset WHERE asset_name = %s", sitewise.Quote(name))
		res, err := a.store.ExecuteQuery(ctx, stmt, 1)
		if err != nil {
			return "", fmt.Errorf("failed to look up asset %q: %w", name, err)
		}
		id, ok := res.Cell("asset_id", 0).Text()
		if !ok || id == "" {
			a.log.Debug("assets: asset not found", "asset", name)
			return "", NotFoundf("Asset '%s' not found.", name)
		}
		return id, nil
	})
}

// ResolvePropertyID returns the id of the first property named name on the
// given asset.
func (a *Adapter) ResolvePropertyID(ctx context.Context, assetID, name string) (string, error) {
	return a.cached("property:"+assetID+"/"+name, func() (string, error) {
		stmt := fmt.Sprintf(
			"SELECT asset_id, property_id, property_name FROM asset_property WHERE asset_id = %s AND property_name = %s",
			sitewise.Quote(assetID), sitewise.Quote(name),
		)
		res, err := a.store.ExecuteQuery(ctx, stmt, a.cfg.QueryMaxResults)
		if err != nil {
			return "", fmt.Errorf("failed to look up property %q: %w", name, err)
		}
		id, ok := res.Cell("property_id", 0).Text()
		if !ok || id == "" {
			a.log.Debug("assets: property not found", "assetID", assetID, "property", name)
			return "", NotFoundf("Property '%s' not found for asset '%s'.", name, assetID)
		}
		return id, nil
	})
}

// PropertyUnit returns the unit recorded for a property, or "" if none is.
func (a *Adapter) PropertyUnit(ctx context.Context, assetID, propertyID string) (string, error) {
	prop, err := a.store.DescribeAssetProperty(ctx, assetID, propertyID)
	if err != nil {
		return "", err
	}
	return prop.Unit, nil
}

// resolvePropertyForAsset reports a missing property by asset name rather than id.
func (a *Adapter) resolvePropertyForAsset(ctx context.Context, assetID, assetName, propertyName string) (string, error) {
	id, err := a.ResolvePropertyID(ctx, assetID, propertyName)
	if errors.Is(err, ErrNotFound) {
		return "", NotFoundf("Property '%s' not found for asset '%s'.", propertyName, assetName)
	}
	return id, err
}

func (a *Adapter) modelName(ctx context.Context, modelID string) (string, error) {
	return a.cached("model:"+modelID, func() (string, error) {
		model, err := a.store.DescribeAssetModel(ctx, modelID)
		if err != nil {
			return "", err
		}
		return model.Name, nil
	})
}

func (a *Adapter) LatestMeasurement(ctx context.Context, assetName, propertyName string) (*Measurement, error) {
	assetID, err := a.ResolveAssetID(ctx, assetName)
	if err != nil {
		return nil, err
	}
	propertyID, err := a.resolvePropertyForAsset(ctx, assetID, assetName, propertyName)
	if err != nil {
		return nil, err
	}
	unit, err := a.PropertyUnit(ctx, assetID, propertyID)
	if err != nil {
		return nil, err
	}

	stmt := fmt.Sprintf(
		"SELECT asset_id, property_id, event_timestamp, double_value, string_value FROM latest_value_time_series WHERE asset_id = %s AND property_id = %s",
		sitewise.Quote(assetID), sitewise.Quote(propertyID),
	)
	res, err := a.store.ExecuteQuery(ctx, stmt, 1)
	if err != nil {
		return nil, fmt.Errorf("failed to query latest value: %w", err)
	}
	if res.Empty() {
		return nil, NotFoundf("Latest value for property '%s' on asset '%s' not found.", propertyName, assetName)
	}

	nanos, ok := res.Cell("event_timestamp", 0).Int()
	if !ok {
		return nil, fmt.Errorf("latest value for property %s on asset %s has no event timestamp", propertyID, assetID)
	}
	ts := a.formatTimestamp(time.Unix(nanos/int64(time.Second), 0))

	var value Value
	if f, ok := res.Cell("double_value", 0).Float(); ok {
		value = NumberValue(round2(f))
	} else if s, ok := res.Cell("string_value", 0).Text(); ok {
		value = StringValue(s)
	} else {
		value = NotAvailableValue()
	}

	a.log.Info("assets: latest measurement", "asset", assetName, "property", propertyName, "value", value.String(), "unit", unit, "timestamp", ts)

	return &Measurement{
		AssetID:        assetID,
		PropertyID:     propertyID,
		EventTimestamp: ts,
		LatestValue:    value,
		Units:          unit,
	}, nil
}

func (a *Adapter) AggregatedMeasurement(ctx context.Context, assetName, propertyName string, resolution Resolution) (*Aggregate, error) {
	if _, err := ParseResolution(string(resolution)); err != nil {
		return nil, err
	}
	assetID, err := a.ResolveAssetID(ctx, assetName)
	if err != nil {
		return nil, err
	}
	propertyID, err := a.resolvePropertyForAsset(ctx, assetID, assetName, propertyName)
	if err != nil {
		return nil, err
	}
	unit, err := a.PropertyUnit(ctx, assetID, propertyID)
	if err != nil {
		return nil, err
	}

	to := a.cfg.Clock.Now().UTC()
	from := to.Add(-AggregateWindow)
	stmt := fmt.Sprintf(
		"SELECT asset_id, property_id, event_timestamp, average_value, max_value, min_value FROM precomputed_aggregates "+
			"WHERE asset_id = %s AND property_id = %s AND resolution = %s "+
			"AND event_timestamp BETWEEN TIMESTAMP %s AND TIMESTAMP %s",
		sitewise.Quote(assetID), sitewise.Quote(propertyID), sitewise.Quote(string(resolution)),
		sitewise.Quote(from.Format(TimestampLayout)), sitewise.Quote(to.Format(TimestampLayout)),
	)
	res, err := a.store.ExecuteQuery(ctx, stmt, 1)
	if err != nil {
		return nil, fmt.Errorf("failed to query aggregated value: %w", err)
	}
	if res.Empty() {
		return nil, NotFoundf("Aggregated value for property '%s' on asset '%s' at resolution %s not found.", propertyName, assetName, resolution)
	}

	// Rollup timestamps are already in seconds.
	var ts string
	tsCell := res.Cell("event_timestamp", 0)
	if secs, ok := tsCell.Int(); ok {
		ts = a.formatTimestamp(time.Unix(secs, 0))
	} else if s, ok := tsCell.Text(); ok {
		ts = s
	} else {
		return nil, fmt.Errorf("aggregated value for property %s on asset %s has no event timestamp", propertyID, assetID)
	}

	return &Aggregate{
		AssetID:        assetID,
		PropertyID:     propertyID,
		EventTimestamp: ts,
		AverageValue:   statValue(res.Cell("average_value", 0)),
		MaxValue:       statValue(res.Cell("max_value", 0)),
		MinValue:       statValue(res.Cell("min_value", 0)),
		Units:          unit,
		Resolution:     resolution,
	}, nil
}

// statValue rounds numeric statistics. Numeric text is parsed and rounded
// like a number; anything else is N/A.
func statValue(c sitewise.Cell) Value {
	if f, ok := c.Float(); ok {
		return NumberValue(round2(f))
	}
	return NotAvailableValue()
}

func (a *Adapter) formatTimestamp(t time.Time) string {
	return t.In(a.cfg.Location).Format(TimestampLayout)
}

// ListAllAssets returns every asset of every asset model.
func (a *Adapter) ListAllAssets(ctx context.Context) ([]AssetSummary, error) {
	models, err := a.store.ListAssetModels(ctx)
	if err != nil {
		return nil, err
	}

	out := []AssetSummary{}
	for _, model := range models {
		name, err := a.modelName(ctx, model.ID)
		if err != nil {
			return nil, err
		}
		a.log.Debug("assets: listing assets for model", "modelID", model.ID, "modelName", name)

		assets, err := a.store.ListAssets(ctx, model.ID)
		if err != nil {
			return nil, err
		}
		for _, asset := range assets {
			out = append(out, AssetSummary{
				ModelID:   model.ID,
				ModelName: name,
				AssetID:   asset.ID,
				AssetName: asset.Name,
			})
		}
	}
	a.log.Info("assets: listed all assets", "models", len(models), "assets", len(out))
	return out, nil
}

func (a *Adapter) ListProperties(ctx context.Context, assetName string) ([]PropertySummary, error) {
	assetID, err := a.ResolveAssetID(ctx, assetName)
	if err != nil {
		return nil, err
	}
	asset, err := a.store.DescribeAsset(ctx, assetID)
	if err != nil {
		return nil, err
	}
	props := make([]PropertySummary, 0, len(asset.Properties))
	for _, p := range asset.Properties {
		props = append(props, PropertySummary{Name: p.Name, ID: p.ID})
	}
	return props, nil
}
