package quality

import (
	"fmt"
	"math"
	"strconv"
)

// visualAcuityConstant is 1/tan(1 arc-minute): the viewing distance in inches
// at which one dot spans the eye's resolution limit is this over the DPI.
const visualAcuityConstant = 3438.0

// ViewingDistance is the closest distance at which individual dots blur.
type ViewingDistance struct {
	MinimumInches float64 `json:"minimum_inches"`
	MinimumFeet   float64 `json:"minimum_feet"`
	Description   string  `json:"description"`
}

// EstimateMinimumViewingDistance returns the minimum comfortable viewing
// distance for a print at dpi.
func EstimateMinimumViewingDistance(dpi float64) (ViewingDistance, error) {
	if !positive(dpi) {
		return ViewingDistance{}, invalid("dpi", dpi)
	}
	inches := visualAcuityConstant / dpi
	feet := inches / 12

	var desc string
	switch {
	case feet < 1:
		desc = fmt.Sprintf("%d inches or closer", int(math.Round(inches)))
	case feet < 3:
		// ties round up
		desc = strconv.FormatFloat(math.Floor(feet*10+0.5)/10, 'f', 1, 64) + " feet (arm's length)"
	case feet < 10:
		desc = fmt.Sprintf("%d feet (across a room)", int(math.Round(feet)))
	default:
		desc = fmt.Sprintf("%d+ feet (outdoor signage distance)", int(math.Round(feet)))
	}

	return ViewingDistance{MinimumInches: inches, MinimumFeet: feet, Description: desc}, nil
}
