package hull

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// MassProperties describes a solid in its own frame. Inertia is taken about
// the center of mass.
type MassProperties struct {
	Mass         float64
	Volume       float64
	CenterOfMass mgl64.Vec3
	Inertia      mgl64.Mat3
}

var massMultipliers = [10]float64{
	1.0 / 6, 1.0 / 24, 1.0 / 24, 1.0 / 24,
	1.0 / 60, 1.0 / 60, 1.0 / 60,
	1.0 / 120, 1.0 / 120, 1.0 / 120,
}

// MassProperties integrates the closed surface of the hull with Eberly's
// polyhedral mass algorithm. Faces are fan-triangulated from their anchor.
// A hull wound inside out yields the same result as a correctly wound one.
func (h *Hull) MassProperties(density float64) (MassProperties, error) {
	if !h.finalized {
		return MassProperties{}, ErrNotFinalized
	}

	var intg [10]float64
	for f := range h.faces {
		vertices := h.FaceVertices(FaceID(f))
		for i := 1; i+1 < len(vertices); i++ {
			accumulateTriangle(&intg,
				h.vertices[vertices[0]].Position,
				h.vertices[vertices[i]].Position,
				h.vertices[vertices[i+1]].Position,
			)
		}
	}
	for i := range intg {
		intg[i] *= massMultipliers[i]
	}

	volume := intg[0]
	if math.Abs(volume) < 1e-12 {
		return MassProperties{}, fmt.Errorf("%w: volume %g", ErrDegenerateVolume, volume)
	}
	if volume < 0 {
		for i := range intg {
			intg[i] = -intg[i]
		}
		volume = -volume
	}

	cm := mgl64.Vec3{intg[1] / volume, intg[2] / volume, intg[3] / volume}

	xx := intg[5] + intg[6] - volume*(cm.Y()*cm.Y()+cm.Z()*cm.Z())
	yy := intg[4] + intg[6] - volume*(cm.Z()*cm.Z()+cm.X()*cm.X())
	zz := intg[4] + intg[5] - volume*(cm.X()*cm.X()+cm.Y()*cm.Y())
	xy := -(intg[7] - volume*cm.X()*cm.Y())
	yz := -(intg[8] - volume*cm.Y()*cm.Z())
	xz := -(intg[9] - volume*cm.Z()*cm.X())

	inertia := mgl64.Mat3{
		xx, xy, xz,
		xy, yy, yz,
		xz, yz, zz,
	}

	return MassProperties{
		Mass:         volume * density,
		Volume:       volume,
		CenterOfMass: cm,
		Inertia:      inertia.Mul(density),
	}, nil
}

func accumulateTriangle(intg *[10]float64, v0, v1, v2 mgl64.Vec3) {
	x0, y0, z0 := v0.X(), v0.Y(), v0.Z()
	x1, y1, z1 := v1.X(), v1.Y(), v1.Z()
	x2, y2, z2 := v2.X(), v2.Y(), v2.Z()

	a1, b1, c1 := x1-x0, y1-y0, z1-z0
	a2, b2, c2 := x2-x0, y2-y0, z2-z0
	d0 := b1*c2 - b2*c1
	d1 := a2*c1 - a1*c2
	d2 := a1*b2 - a2*b1

	f1x, f2x, f3x, g0x, g1x, g2x := subexpressions(x0, x1, x2)
	_, f2y, f3y, g0y, g1y, g2y := subexpressions(y0, y1, y2)
	_, f2z, f3z, g0z, g1z, g2z := subexpressions(z0, z1, z2)

	intg[0] += d0 * f1x
	intg[1] += d0 * f2x
	intg[2] += d1 * f2y
	intg[3] += d2 * f2z
	intg[4] += d0 * f3x
	intg[5] += d1 * f3y
	intg[6] += d2 * f3z
	intg[7] += d0 * (y0*g0x + y1*g1x + y2*g2x)
	intg[8] += d1 * (z0*g0y + z1*g1y + z2*g2y)
	intg[9] += d2 * (x0*g0z + x1*g1z + x2*g2z)
}

func subexpressions(w0, w1, w2 float64) (f1, f2, f3, g0, g1, g2 float64) {
	temp0 := w0 + w1
	temp1 := w0 * w0
	temp2 := temp1 + w1*temp0
	f1 = temp0 + w2
	f2 = temp2 + w2*f1
	f3 = w0*temp1 + w1*temp2 + w2*f2
	g0 = f2 + w0*(f1+w0)
	g1 = f2 + w1*(f1+w1)
	g2 = f2 + w2*(f1+w2)
	return
}
