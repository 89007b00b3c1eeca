package assets

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

const NotAvailable = "N/A"

type Resolution string

const (
	Resolution1m  Resolution = "1m"
	Resolution15m Resolution = "15m"
	Resolution1h  Resolution = "1h"
	Resolution1d  Resolution = "1d"
)

var Resolutions = []Resolution{Resolution1m, Resolution15m, Resolution1h, Resolution1d}

func ParseResolution(s string) (Resolution, error) {
	for _, r := range Resolutions {
		if string(r) == s {
			return r, nil
		}
	}
	return "", InvalidInputf("Unsupported resolution for aggregation %s", s)
}

// Value is a measurement that is either a number or a string.
type Value struct {
	num   float64
	str   string
	isNum bool
}

func NumberValue(f float64) Value { return Value{num: f, isNum: true} }

func StringValue(s string) Value { return Value{str: s} }

func NotAvailableValue() Value { return StringValue(NotAvailable) }

func (v Value) Float64() (float64, bool) { return v.num, v.isNum }

func (v Value) IsNotAvailable() bool { return !v.isNum && v.str == NotAvailable }

func (v Value) String() string {
	if v.isNum {
		return fmt.Sprintf("%.2f", v.num)
	}
	return v.str
}

func (v Value) MarshalJSON() ([]byte, error) {
	if v.isNum {
		return json.Marshal(v.num)
	}
	return json.Marshal(v.str)
}

func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = StringValue(s)
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("value must be a number or a string: %w", err)
	}
	*v = NumberValue(f)
	return nil
}

// round2 rounds to two decimals, half to even on the exact binary value.
// Scaling by 100 first would overflow near math.MaxFloat64 and shift ties.
func round2(f float64) float64 {
	v, err := strconv.ParseFloat(strconv.FormatFloat(f, 'f', 2, 64), 64)
	if err != nil {
		return f
	}
	return v
}

type Measurement struct {
	AssetID        string `json:"assetId"`
	PropertyID     string `json:"propertyId"`
	EventTimestamp string `json:"eventTimestamp"`
	LatestValue    Value  `json:"latestValue"`
	Units          string `json:"units"`
}

type Aggregate struct {
	AssetID        string     `json:"assetId"`
	PropertyID     string     `json:"propertyId"`
	EventTimestamp string     `json:"eventTimestamp"`
	AverageValue   Value      `json:"averageValue"`
	MaxValue       Value      `json:"maxValue"`
	MinValue       Value      `json:"minValue"`
	Units          string     `json:"units"`
	Resolution     Resolution `json:"resolution"`
}

type AssetSummary struct {
	ModelID   string `json:"modelId"`
	ModelName string `json:"modelName"`
	AssetID   string `json:"assetId"`
	AssetName string `json:"assetName"`
}

type PropertySummary struct {
	Name string `json:"name"`
	ID   string `json:"id"`
}
