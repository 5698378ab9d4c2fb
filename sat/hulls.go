package sat

import (
	"math"

	"github.com/akmonengine/rigid/actor"
	"github.com/akmonengine/rigid/constraint"
	"github.com/akmonengine/rigid/hull"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	linearSlop = 0.005

	// The second face query only wins when it is clearly better, so the
	// reference face does not flip between ticks.
	relativeFaceTolerance = 0.98
	absoluteFaceTolerance = 0.5 * linearSlop
)

// faceQuery is the least penetrating face of reference against incident.
type faceQuery struct {
	reference  *actor.RigidBody
	incident   *actor.RigidBody
	face       hull.FaceID
	separation float64
}

// queryFaces tests every face of reference as a separating plane. It fails as
// soon as one face separates the bodies.
func queryFaces(reference, incident *actor.RigidBody) (faceQuery, bool) {
	h := reference.Shape.Hull
	query := faceQuery{
		reference:  reference,
		incident:   incident,
		face:       hull.NoFace,
		separation: math.Inf(-1),
	}

	for f := range h.FaceCount() {
		plane := facePlane(h, hull.FaceID(f), reference.Transform)
		support := incident.SupportWorld(plane.Normal.Mul(-1))

		distance := plane.Distance(support)
		if distance > 0 {
			return query, false
		}
		if distance > query.separation {
			query.separation = distance
			query.face = hull.FaceID(f)
		}
	}

	return query, query.face != hull.NoFace
}

// incidentFace is the face of the incident hull most anti-parallel to the
// reference face.
func (q faceQuery) incidentFace(referenceNormal mgl64.Vec3) hull.FaceID {
	h := q.incident.Shape.Hull
	rotation := q.incident.Transform.Rotation

	best := hull.FaceID(0)
	minDot := rotation.Mul3x1(h.Face(best).Normal).Dot(referenceNormal)
	for f := 1; f < h.FaceCount(); f++ {
		dot := rotation.Mul3x1(h.Face(hull.FaceID(f)).Normal).Dot(referenceNormal)
		if dot < minDot {
			minDot = dot
			best = hull.FaceID(f)
		}
	}
	return best
}

// clipFaces clips the incident face against the side planes of the reference
// face and returns the clipped points below the reference face, projected
// onto it.
func (q faceQuery) clipFaces() ([]mgl64.Vec3, bool) {
	referenceHull := q.reference.Shape.Hull
	referenceTransform := q.reference.Transform
	referencePlane := facePlane(referenceHull, q.face, referenceTransform)

	incidentHull := q.incident.Shape.Hull
	incident := q.incidentFace(referencePlane.Normal)

	var polygon []mgl64.Vec3
	for _, v := range incidentHull.FaceVertices(incident) {
		polygon = append(polygon, q.incident.Transform.Apply(incidentHull.Vertex(v).Position))
	}

	for _, id := range referenceHull.FaceEdges(q.face) {
		edge := referenceHull.Edge(id)
		tail := referenceTransform.Apply(referenceHull.Vertex(edge.Tail).Position)
		head := referenceTransform.Apply(referenceHull.Vertex(edge.Head).Position)

		sideNormal := head.Sub(tail).Cross(referencePlane.Normal)
		if sideNormal.Len() < axisEpsilon {
			return nil, false
		}

		polygon = ClipPolygon(polygon, NewPlane(tail, sideNormal.Normalize()))
		if len(polygon) < 3 {
			return nil, false
		}
	}

	var points []mgl64.Vec3
	for _, vertex := range polygon {
		if distance := referencePlane.Distance(vertex); distance < 0 {
			points = append(points, vertex.Add(referencePlane.Normal.Mul(-distance)))
		}
	}

	return points, len(points) > 0
}

// collideHulls handles every pair of polyhedra, bounded planes included.
// Only face normals are tested as separating axes.
func collideHulls(a, b *actor.RigidBody) (constraint.Contact, bool) {
	queryA, ok := queryFaces(a, b)
	if !ok {
		return constraint.Contact{}, false
	}
	queryB, ok := queryFaces(b, a)
	if !ok {
		return constraint.Contact{}, false
	}

	query := queryA
	if queryB.separation > relativeFaceTolerance*queryA.separation+absoluteFaceTolerance {
		query = queryB
	}

	points, ok := query.clipFaces()
	if !ok {
		return constraint.Contact{}, false
	}

	var sum mgl64.Vec3
	for _, p := range points {
		sum = sum.Add(p)
	}
	point := sum.Mul(1.0 / float64(len(points)))

	reference := query.reference
	incident := query.incident
	normal := reference.Transform.Rotation.Mul3x1(reference.Shape.Hull.Face(query.face).Normal).Normalize()
	if reference.Transform.Position.Sub(incident.Transform.Position).Dot(normal) < 0 {
		normal = normal.Mul(-1)
	}

	depth := math.Abs(query.separation)
	pushOut(reference, incident, normal, depth)

	return constraint.Contact{
		BodyA:       reference,
		BodyB:       incident,
		Point:       point,
		Normal:      normal,
		Penetration: depth,
	}, true
}
