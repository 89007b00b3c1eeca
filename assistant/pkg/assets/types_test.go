package assets

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAssistant_Assets_ParseResolution(t *testing.T) {
	t.Parallel()

	for _, r := range []string{"1m", "15m", "1h", "1d"} {
		got, err := ParseResolution(r)
		require.NoError(t, err)
		require.Equal(t, Resolution(r), got)
	}

	for _, r := range []string{"5m", "", "1H", "1w"} {
		_, err := ParseResolution(r)
		require.ErrorIs(t, err, ErrInvalidInput, r)
	}
}

func TestAssistant_Assets_Value_JSON(t *testing.T) {
	t.Parallel()

	b, err := json.Marshal(NumberValue(1523.46))
	require.NoError(t, err)
	require.Equal(t, "1523.46", string(b))

	b, err = json.Marshal(StringValue("RUNNING"))
	require.NoError(t, err)
	require.Equal(t, `"RUNNING"`, string(b))

	b, err = json.Marshal(NotAvailableValue())
	require.NoError(t, err)
	require.Equal(t, `"N/A"`, string(b))

	var v Value
	require.NoError(t, json.Unmarshal([]byte(" 12.5"), &v))
	f, ok := v.Float64()
	require.True(t, ok)
	require.Equal(t, 12.5, f)

	require.NoError(t, json.Unmarshal([]byte(`"N/A"`), &v))
	require.True(t, v.IsNotAvailable())

	require.Error(t, json.Unmarshal([]byte(`true`), &v))
}

func TestAssistant_Assets_Round2(t *testing.T) {
	t.Parallel()

	require.Equal(t, 1523.46, round2(1523.456))
	require.Equal(t, 0.0, round2(0.004))
	require.Equal(t, -2.35, round2(-2.349))
	require.Equal(t, 10.0, round2(10))

	// Exact binary halves go to the even neighbour.
	require.Equal(t, 0.12, round2(0.125))
	require.Equal(t, 1.12, round2(1.125))
	require.Equal(t, -0.12, round2(-0.125))
	require.Equal(t, 0.38, round2(0.375))
	// 2.675 is stored just below the half.
	require.Equal(t, 2.67, round2(2.675))

	require.Equal(t, 1e308, round2(1e308))
	require.Equal(t, -1e308, round2(-1e308))
	require.Equal(t, math.MaxFloat64, round2(math.MaxFloat64))
}
