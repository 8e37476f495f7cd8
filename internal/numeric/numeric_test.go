package numeric

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestFromStringRoundTrip(t *testing.T) {
	d, err := FromString("1.23")
	require.NoError(t, err)
	require.Equal(t, "1.23", d.String())
}

func TestFromStringInvalid(t *testing.T) {
	_, err := FromString("not-a-number")
	require.Error(t, err)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestPercentOfZeroWhole(t *testing.T) {
	got := PercentOf(decimal.NewFromInt(5), decimal.Zero)
	require.True(t, got.IsZero())
}

func TestMeanAndStdDevDegenerate(t *testing.T) {
	require.True(t, Mean(nil).IsZero())
	require.True(t, StdDev([]decimal.Decimal{decimal.NewFromInt(1)}).IsZero())

	constant := []decimal.Decimal{decimal.NewFromInt(1), decimal.NewFromInt(1), decimal.NewFromInt(1)}
	require.True(t, StdDev(constant).IsZero())
	require.True(t, Mean(constant).Equal(decimal.NewFromInt(1)))
}

func TestNormalQuantileInverseOfCDF(t *testing.T) {
	for _, p := range []float64{0.01, 0.05, 0.5, 0.95, 0.99} {
		x := NormalQuantile(p)
		back := NormalCDF(x)
		require.InDelta(t, p, back, 1e-6)
	}
}
