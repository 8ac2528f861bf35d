package converter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theoremus-urban-solutions/gtfsrt-departures/gtfsrt"
)

func TestCurateAlerts(t *testing.T) {
	alerts := []gtfsrt.Alert{
		{Header: "Elevator out", Description: "Main St elevator closed"},
		{Header: "Blank", Description: "   "},
		{Header: "Missing"},
		{Header: "Placeholder", Description: PlaceholderDescription},
		{Description: "Detour on 4th Ave"},
	}

	got := CurateAlerts(alerts)
	require.Len(t, got, 2)
	assert.Equal(t, "Elevator out", got[0].Header)
	assert.Equal(t, DefaultAlertHeader, got[1].Header)
	assert.Equal(t, "Detour on 4th Ave", got[1].Description)
	assert.Equal(t, AlertID(DefaultAlertHeader, "Detour on 4th Ave"), got[1].ID)
}

func TestCurateAlerts_StableIDs(t *testing.T) {
	a := gtfsrt.Alert{Header: "A", Description: "first"}
	b := gtfsrt.Alert{Header: "B", Description: "second"}

	before := CurateAlerts([]gtfsrt.Alert{a, b})
	after := CurateAlerts([]gtfsrt.Alert{b})

	found, ok := FindAlert(after, before[1].ID)
	require.True(t, ok)
	assert.Equal(t, "second", found.Description)

	_, ok = FindAlert(after, before[0].ID)
	assert.False(t, ok)
}

func TestCurateAlerts_DeduplicatesByContent(t *testing.T) {
	tests := []struct {
		name   string
		alerts []gtfsrt.Alert
		want   []string
	}{
		{
			name: "identical alerts",
			alerts: []gtfsrt.Alert{
				{EntityID: "a1", Header: "Detour", Description: "Main St closed", RouteIDs: []string{"R1"}},
				{EntityID: "a2", Header: "Detour", Description: "Main St closed", RouteIDs: []string{"R2"}},
			},
			want: []string{"Detour"},
		},
		{
			name: "first occurrence keeps its place",
			alerts: []gtfsrt.Alert{
				{Header: "Detour", Description: "Main St closed"},
				{Header: "Elevator", Description: "Oak St elevator out"},
				{Header: "Detour", Description: "Main St closed"},
			},
			want: []string{"Detour", "Elevator"},
		},
		{
			name: "defaulted header matches an explicit one",
			alerts: []gtfsrt.Alert{
				{Description: "Snow routing"},
				{Header: DefaultAlertHeader, Description: "Snow routing"},
			},
			want: []string{DefaultAlertHeader},
		},
		{
			name: "same description, different header",
			alerts: []gtfsrt.Alert{
				{Header: "Detour", Description: "Main St closed"},
				{Header: "Closure", Description: "Main St closed"},
			},
			want: []string{"Detour", "Closure"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CurateAlerts(tt.alerts)
			headers := make([]string, 0, len(got))
			for _, a := range got {
				headers = append(headers, a.Header)
			}
			assert.Equal(t, tt.want, headers)
		})
	}
}

func TestAlertID_SeparatesFields(t *testing.T) {
	assert.NotEqual(t, AlertID("ab", "c"), AlertID("a", "bc"))
	assert.Equal(t, AlertID("x", "y"), AlertID("x", "y"))
}

func TestCurateAlerts_Empty(t *testing.T) {
	got := CurateAlerts(nil)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}
