package geo

import (
	"testing"

	"github.com/stretchr/testify/require"

	"gridscope-api/pkg/grid"
)

func TestParseBBox(t *testing.T) {
	b, err := ParseBBox("-100,30,-80,45")
	require.NoError(t, err)
	require.Equal(t, BBox{West: -100, South: 30, East: -80, North: 45}, b)

	b, err = ParseBBox(" -100.5 , 30.25 , -80 , 45 ")
	require.NoError(t, err)
	require.Equal(t, -100.5, b.West)
	require.Equal(t, 30.25, b.South)
}

func TestParseBBoxRejectsMalformedInput(t *testing.T) {
	cases := []string{
		"-100,30,-80",          // too few values
		"-100,30,-80,45,50",    // too many values
		"-100,thirty,-80,45",   // non-numeric
		"-80,30,-100,45",       // west > east
		"-100,45,-80,30",       // south > north
		"-200,30,-80,45",       // longitude out of range
		"-100,30,-80,95",       // latitude out of range
		"170,30,-170,45",       // antimeridian wrap
	}
	for _, s := range cases {
		_, err := ParseBBox(s)
		require.ErrorIs(t, err, grid.ErrValidation, "input %q", s)
	}
}

func TestBBoxContainsIsBoundaryInclusive(t *testing.T) {
	b := BBox{West: -100, South: 30, East: -80, North: 45}

	require.True(t, b.Contains(Point{Lon: -90, Lat: 38}))
	require.True(t, b.Contains(Point{Lon: -100, Lat: 38}), "west edge")
	require.True(t, b.Contains(Point{Lon: -80, Lat: 38}), "east edge")
	require.True(t, b.Contains(Point{Lon: -90, Lat: 30}), "south edge")
	require.True(t, b.Contains(Point{Lon: -90, Lat: 45}), "north edge")
	require.True(t, b.Contains(Point{Lon: -100, Lat: 30}), "corner")

	require.False(t, b.Contains(Point{Lon: -100.0001, Lat: 38}))
	require.False(t, b.Contains(Point{Lon: -90, Lat: 45.0001}))
}
