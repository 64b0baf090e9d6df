package scenegraph

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

const rayEpsilon = 1e-7

// Ray is a half line. Direction is unit length when built through NewRay, which
// makes intersection parameters world distances.
type Ray struct {
	Origin    mgl32.Vec3
	Direction mgl32.Vec3
}

func NewRay(origin, direction mgl32.Vec3) Ray {
	if direction.Len() > 0 {
		direction = direction.Normalize()
	}
	return Ray{Origin: origin, Direction: direction}
}

// RayTowards builds a ray from origin through target.
func RayTowards(origin, target mgl32.Vec3) Ray {
	return NewRay(origin, target.Sub(origin))
}

func (r Ray) At(t float32) mgl32.Vec3 {
	return r.Origin.Add(r.Direction.Mul(t))
}

// IntersectAABB is the slab test. It returns the entry parameter, or 0 when the origin
// is inside the box.
func (r Ray) IntersectAABB(bmin, bmax mgl32.Vec3) (float32, bool) {
	tmin := float32(-math.MaxFloat32)
	tmax := float32(math.MaxFloat32)

	for axis := 0; axis < 3; axis++ {
		o, d := r.Origin[axis], r.Direction[axis]
		if mgl32.Abs(d) < rayEpsilon {
			if o < bmin[axis] || o > bmax[axis] {
				return 0, false
			}
			continue
		}
		t1 := (bmin[axis] - o) / d
		t2 := (bmax[axis] - o) / d
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = max(tmin, t1)
		tmax = min(tmax, t2)
		if tmin > tmax {
			return 0, false
		}
	}

	if tmax < 0 {
		return 0, false
	}
	if tmin < 0 {
		return 0, true
	}
	return tmin, true
}

// IntersectTriangle is Möller–Trumbore without back-face culling.
func (r Ray) IntersectTriangle(a, b, c mgl32.Vec3) (float32, bool) {
	e1 := b.Sub(a)
	e2 := c.Sub(a)
	p := r.Direction.Cross(e2)
	det := e1.Dot(p)
	if mgl32.Abs(det) < rayEpsilon {
		return 0, false
	}
	inv := 1 / det

	s := r.Origin.Sub(a)
	u := s.Dot(p) * inv
	if u < 0 || u > 1 {
		return 0, false
	}

	q := s.Cross(e1)
	v := r.Direction.Dot(q) * inv
	if v < 0 || u+v > 1 {
		return 0, false
	}

	t := e2.Dot(q) * inv
	if t <= rayEpsilon {
		return 0, false
	}
	return t, true
}

// IntersectPlaneY intersects the horizontal plane y = height.
func (r Ray) IntersectPlaneY(height float32) (mgl32.Vec3, bool) {
	if mgl32.Abs(r.Direction.Y()) < rayEpsilon {
		return mgl32.Vec3{}, false
	}
	t := (height - r.Origin.Y()) / r.Direction.Y()
	if t < 0 {
		return mgl32.Vec3{}, false
	}
	return r.At(t), true
}
