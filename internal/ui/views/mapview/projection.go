package mapview

import "math"

// Terminal cells are roughly twice as tall as wide, so a row spans twice the
// degrees of a column.

// LngStep is the longitude covered by one column at zoom.
func LngStep(zoom int) float64 {
	return 90 / math.Pow(2, float64(zoom))
}

func LatStep(zoom int) float64 {
	return 2 * LngStep(zoom)
}

// Project maps a position to a cell of a width x height grid centred on
// (centerLat, centerLng). ok is false when the position falls outside.
func Project(centerLat, centerLng float64, zoom, width, height int, lat, lng float64) (col, row int, ok bool) {
	col = width/2 + int(math.Round((lng-centerLng)/LngStep(zoom)))
	row = height/2 - int(math.Round((lat-centerLat)/LatStep(zoom)))
	ok = col >= 0 && col < width && row >= 0 && row < height
	return col, row, ok
}

// Unproject returns the position at the centre of a grid cell.
func Unproject(centerLat, centerLng float64, zoom, width, height, col, row int) (lat, lng float64) {
	lng = centerLng + float64(col-width/2)*LngStep(zoom)
	lat = centerLat - float64(row-height/2)*LatStep(zoom)
	return clamp(lat, -90, 90), wrapLng(lng)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func wrapLng(lng float64) float64 {
	for lng > 180 {
		lng -= 360
	}
	for lng < -180 {
		lng += 360
	}
	return lng
}
