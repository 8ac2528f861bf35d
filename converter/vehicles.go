package converter

import (
	"fmt"

	"github.com/theoremus-urban-solutions/gtfsrt-departures/gtfsrt"
)

// VehicleMarker is a vehicle with its display label
type VehicleMarker struct {
	gtfsrt.VehiclePosition
	DisplayLabel string `json:"label"`
}

// FilterVehicles keeps vehicles with a non-zero position. A non-empty routeID
// further keeps only vehicles whose trip carries that route id.
func (c *Converter) FilterVehicles(vehicles map[string]gtfsrt.VehiclePosition, routeID string) map[string]VehicleMarker {
	out := make(map[string]VehicleMarker, len(vehicles))
	warnings := NewWarningAggregator()
	for key, v := range vehicles {
		// 0 is treated as missing, matching feeds that zero-fill unknown fixes
		if !v.HasPosition || v.Latitude == 0 || v.Longitude == 0 {
			warnings.Add(WarningNoLatLon, key)
			continue
		}
		if routeID != "" && (!v.HasTrip || v.RouteID != routeID) {
			continue
		}
		out[key] = VehicleMarker{VehiclePosition: v, DisplayLabel: c.VehicleLabel(v, key)}
	}
	warnings.LogAll(c.Log, "vehicles")
	return out
}

// VehicleLabel is "Route <short> (<label>)" when the vehicle's route is in
// the schedule, otherwise "Vehicle <label or key>".
func (c *Converter) VehicleLabel(v gtfsrt.VehiclePosition, key string) string {
	if v.HasTrip && v.RouteID != "" {
		if r, ok := c.GTFS.GetRoute(v.RouteID); ok {
			own := v.Label
			if own == "" {
				own = "Bus"
			}
			return fmt.Sprintf("Route %s (%s)", r.ShortName, own)
		}
	}
	if v.Label != "" {
		return "Vehicle " + v.Label
	}
	return "Vehicle " + key
}
