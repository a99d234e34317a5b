package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCatalog_KeepsOrder(t *testing.T) {
	c, err := NewCatalog(DefaultRanges)
	require.NoError(t, err)
	assert.Equal(t, []string{"1d", "3d", "1w", "1m", "6m", "1yr", "max"}, c.IDs())
	assert.Equal(t, 7, c.Len())

	spec, ok := c.Lookup("1m")
	require.True(t, ok)
	assert.Equal(t, 30, spec.LookbackDays)
	assert.Equal(t, 31, spec.Points())

	_, ok = c.Lookup("2w")
	assert.False(t, ok)
}

func TestNewCatalog_Rejects(t *testing.T) {
	tests := []struct {
		name  string
		specs []RangeSpec
	}{
		{"empty", nil},
		{"blank id", []RangeSpec{{ID: "", LookbackDays: 1}}},
		{"negative days", []RangeSpec{{ID: "x", LookbackDays: -1}}},
		{"duplicate", []RangeSpec{{ID: "x", LookbackDays: 1}, {ID: "x", LookbackDays: 2}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCatalog(tt.specs)
			assert.Error(t, err)
		})
	}
}

func TestCatalog_SpecsIsCopy(t *testing.T) {
	c, err := NewCatalog([]RangeSpec{{ID: "0d", LookbackDays: 0}})
	require.NoError(t, err)

	specs := c.Specs()
	specs[0].LookbackDays = 99

	spec, _ := c.Lookup("0d")
	assert.Equal(t, 0, spec.LookbackDays)
	assert.Equal(t, "0d", spec.Label, "label defaults to id")
}

func TestDateOf_UsesInstantLocation(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*3600)
	// 2024-01-09 20:00 UTC is already 2024-01-10 in Tokyo.
	instant := time.Date(2024, 1, 9, 20, 0, 0, 0, time.UTC)

	assert.Equal(t, "2024-01-09", DateOf(instant).String())
	assert.Equal(t, "2024-01-10", DateOf(instant.In(tokyo)).String())
}

func TestDate_AddDaysAcrossMonth(t *testing.T) {
	d := NewDate(2024, time.March, 1)
	assert.Equal(t, "2024-02-29", d.AddDays(-1).String())
	assert.True(t, d.AddDays(-1).Before(d))
	assert.True(t, d.AddDays(0).Equal(d))
}

func TestPricePoint_JSON(t *testing.T) {
	p := PricePoint{Date: NewDate(2024, 1, 7), Price: 100}
	b, err := json.Marshal(p)
	require.NoError(t, err)
	assert.JSONEq(t, `{"date":"2024-01-07","price":100}`, string(b))

	var back PricePoint
	require.NoError(t, json.Unmarshal(b, &back))
	assert.True(t, back.Date.Equal(p.Date))
}

func TestSelection_CloneDetachesSeries(t *testing.T) {
	sel := Selection{Series: Series{{Date: NewDate(2024, 1, 1), Price: 1}}}
	cp := sel.Clone()
	cp.Series[0].Price = 2
	assert.Equal(t, 1.0, sel.Series[0].Price)
}
