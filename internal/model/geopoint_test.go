package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeoPointCoordinateOrder(t *testing.T) {
	// Persisted/wire shape is longitude first.
	p := NewGeoPoint(23.8, 90.4)

	data, err := json.Marshal(p)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"Point","coordinates":[90.4,23.8]}`, string(data))

	assert.Equal(t, 23.8, p.Lat())
	assert.Equal(t, 90.4, p.Lng())
}

func TestGeoPointValidate(t *testing.T) {
	assert.NoError(t, NewGeoPoint(23.8, 90.4).Validate())
	assert.NoError(t, NewGeoPoint(-90, 180).Validate())
	assert.Error(t, NewGeoPoint(91, 0).Validate())
	assert.Error(t, NewGeoPoint(0, 181).Validate())
	assert.Error(t, (&GeoPoint{Type: "Polygon"}).Validate())
}

func TestNullGeoPointSQLRoundtrip(t *testing.T) {
	n := NullPointFrom(23.8, 90.4)

	v, err := n.Value()
	require.NoError(t, err)

	var back NullGeoPoint
	require.NoError(t, back.Scan(v))
	assert.True(t, back.Valid)
	assert.Equal(t, n.Point, back.Point)

	var absent NullGeoPoint
	require.NoError(t, absent.Scan(nil))
	assert.False(t, absent.Valid)

	nv, err := absent.Value()
	require.NoError(t, err)
	assert.Nil(t, nv)
}

func TestNullGeoPointJSON(t *testing.T) {
	d := Donor{Location: NullPointFrom(23.8, 90.4)}
	data, err := json.Marshal(&d)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"coordinates":[90.4,23.8]`)

	var empty Donor
	data, err = json.Marshal(&empty)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"location":null`)
	assert.NotContains(t, string(data), "password")
}

func TestBloodGroupIsValid(t *testing.T) {
	for _, g := range BloodGroups {
		assert.True(t, g.IsValid())
	}
	assert.False(t, BloodGroup("X+").IsValid())
	assert.False(t, BloodGroup("").IsValid())
	assert.False(t, BloodGroup("a+").IsValid())
}

func TestDefaults(t *testing.T) {
	beds := DefaultBeds()
	require.Len(t, beds, 4)
	assert.Equal(t, "ICU", beds[0].Name)
	assert.Equal(t, "General Ward", beds[3].Name)
	for _, b := range beds {
		assert.Zero(t, b.Total)
		assert.Zero(t, b.Available)
	}

	stock := DefaultBloodBank()
	require.Len(t, stock, 8)
	for _, s := range stock {
		assert.True(t, s.BloodGroup.IsValid())
		assert.Zero(t, s.Units)
	}
}
