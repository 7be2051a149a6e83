// Package schedule implements the temporal core of the front office: the
// canonical slot grid, doctor shift filtering, booking conflict detection,
// and the date-bucketed views the terminals render.
package schedule

import "fmt"

// GridIntervalMinutes is the spacing of the canonical slot grid.
const GridIntervalMinutes = 15

// TimeGrid returns the canonical ordered sequence of bookable times of day,
// one every fifteen minutes across the full day. Doctors and bookings only
// ever filter this grid, never extend it.
func TimeGrid() []string {
	grid := make([]string, 0, 24*60/GridIntervalMinutes)
	for h := 0; h < 24; h++ {
		for m := 0; m < 60; m += GridIntervalMinutes {
			grid = append(grid, fmt.Sprintf("%02d:%02d", h, m))
		}
	}
	return grid
}
