package grid

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestStatusFor(t *testing.T) {
	cat := func(c OutageCategory) *OutageCategory { return &c }

	require.Equal(t, StatusAvailable, StatusFor(nil))
	require.Equal(t, StatusDerated, StatusFor(cat(OutageDerate)))
	require.Equal(t, StatusForcedOutage, StatusFor(cat(OutageForced)))
	require.Equal(t, StatusPlannedMaintenance, StatusFor(cat(OutagePlanned)))
	require.Equal(t, StatusPlannedMaintenance, StatusFor(cat(OutageMaintenance)))
}

func TestParseComponent(t *testing.T) {
	c, err := ParseComponent("")
	require.NoError(t, err)
	require.Equal(t, ComponentTotal, c)

	for _, s := range []string{"total", "energy", "congestion", "loss"} {
		c, err := ParseComponent(s)
		require.NoError(t, err)
		require.Equal(t, Component(s), c)
	}

	_, err = ParseComponent("lmp")
	require.ErrorIs(t, err, ErrValidation)
}

func TestParseFuel(t *testing.T) {
	f, err := ParseFuel("natural_gas")
	require.NoError(t, err)
	require.Equal(t, FuelNaturalGas, f)

	_, err = ParseFuel("")
	require.ErrorIs(t, err, ErrValidation, "empty string is not a fuel; callers omit the filter instead")

	_, err = ParseFuel("gas")
	require.ErrorIs(t, err, ErrValidation)
}

func TestParseOutageCategory(t *testing.T) {
	for _, s := range []string{"planned", "forced", "maintenance", "derate"} {
		c, err := ParseOutageCategory(s)
		require.NoError(t, err)
		require.Equal(t, OutageCategory(s), c)
	}

	_, err := ParseOutageCategory("unplanned")
	require.ErrorIs(t, err, ErrValidation)
}

func TestParseOutageTag(t *testing.T) {
	tag, err := ParseOutageTag("completed")
	require.NoError(t, err)
	require.Equal(t, TagCompleted, tag)

	_, err = ParseOutageTag("done")
	require.ErrorIs(t, err, ErrValidation)
}

func TestOutageIntervalCovers(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(6 * time.Hour)

	bounded := OutageInterval{Start: start, End: &end}
	require.True(t, bounded.Covers(start), "start boundary is inside the half-open span")
	require.True(t, bounded.Covers(start.Add(3*time.Hour)))
	require.False(t, bounded.Covers(end), "end boundary is outside the half-open span")
	require.False(t, bounded.Covers(start.Add(-time.Second)))

	open := OutageInterval{Start: start}
	require.True(t, open.Covers(start))
	require.True(t, open.Covers(start.Add(1000*time.Hour)))
	require.False(t, open.Covers(start.Add(-time.Nanosecond)))
}

func TestOutageIntervalOverlaps(t *testing.T) {
	start := time.Date(2024, 3, 10, 8, 0, 0, 0, time.UTC)
	end := start.Add(4 * time.Hour)
	o := OutageInterval{Start: start, End: &end}

	require.True(t, o.Overlaps(start.Add(-time.Hour), start), "range ending at start touches the interval")
	require.True(t, o.Overlaps(end, end.Add(time.Hour)), "range starting at end touches the interval")
	require.False(t, o.Overlaps(end.Add(time.Second), end.Add(time.Hour)))
	require.False(t, o.Overlaps(start.Add(-2*time.Hour), start.Add(-time.Second)))

	open := OutageInterval{Start: start}
	require.True(t, open.Overlaps(start.Add(24*time.Hour), start.Add(48*time.Hour)))
	require.False(t, open.Overlaps(start.Add(-2*time.Hour), start.Add(-time.Hour)))
}

func TestPriceSampleValue(t *testing.T) {
	energy := 42.5
	s := PriceSample{Total: 45.0, Energy: &energy}

	v, ok := s.Value(ComponentTotal)
	require.True(t, ok)
	require.Equal(t, 45.0, v)

	v, ok = s.Value(ComponentEnergy)
	require.True(t, ok)
	require.Equal(t, 42.5, v)

	_, ok = s.Value(ComponentCongestion)
	require.False(t, ok, "absent component must report not-ok, not zero")

	_, ok = s.Value(ComponentLoss)
	require.False(t, ok)
}
