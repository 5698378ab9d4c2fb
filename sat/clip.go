package sat

import "github.com/go-gl/mathgl/mgl64"

// ClipPolygon implements Sutherland-Hodgman for a single plane: it keeps the
// part of the polygon behind the plane (distance <= 0), inserting the
// crossing points of the edges that cut through it.
func ClipPolygon(polygon []mgl64.Vec3, plane Plane) []mgl64.Vec3 {
	if len(polygon) == 0 {
		return nil
	}

	output := make([]mgl64.Vec3, 0, len(polygon)+1)

	// walk edges (previous, current), starting with the closing edge
	previous := polygon[len(polygon)-1]
	previousDist := plane.Distance(previous)

	for _, current := range polygon {
		currentDist := plane.Distance(current)

		switch {
		case previousDist <= 0 && currentDist <= 0:
			output = append(output, current)
		case previousDist <= 0 && currentDist > 0:
			output = append(output, intersect(previous, current, previousDist, currentDist))
		case previousDist > 0 && currentDist <= 0:
			output = append(output, intersect(previous, current, previousDist, currentDist), current)
		}

		previous = current
		previousDist = currentDist
	}

	return output
}

func intersect(p1, p2 mgl64.Vec3, d1, d2 float64) mgl64.Vec3 {
	fraction := d1 / (d1 - d2)
	return p1.Add(p2.Sub(p1).Mul(fraction))
}
