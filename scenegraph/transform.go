package scenegraph

import (
	"github.com/go-gl/mathgl/mgl32"
)

type Transform struct {
	Position mgl32.Vec3
	Rotation mgl32.Quat
	Scale    mgl32.Vec3
}

func IdentityTransform() Transform {
	return Transform{
		Position: mgl32.Vec3{0, 0, 0},
		Rotation: mgl32.QuatIdent(),
		Scale:    mgl32.Vec3{1, 1, 1},
	}
}

// Matrix returns the local object-to-parent matrix, M = T * R * S.
func (t Transform) Matrix() mgl32.Mat4 {
	translate := mgl32.Translate3D(t.Position.X(), t.Position.Y(), t.Position.Z())
	rotate := t.Rotation.Normalize().Mat4()
	scale := mgl32.Scale3D(t.Scale.X(), t.Scale.Y(), t.Scale.Z())

	return translate.Mul4(rotate).Mul4(scale)
}

// DecomposeMatrix splits an affine TRS matrix into its components.
// Shear is discarded.
func DecomposeMatrix(m mgl32.Mat4) Transform {
	position := m.Col(3).Vec3()

	c0 := m.Col(0).Vec3()
	c1 := m.Col(1).Vec3()
	c2 := m.Col(2).Vec3()
	scale := mgl32.Vec3{c0.Len(), c1.Len(), c2.Len()}

	// Mirrored bases flip one axis so the rotation part stays proper.
	if c0.Cross(c1).Dot(c2) < 0 {
		scale[0] = -scale[0]
	}

	var rot mgl32.Mat3
	for i, c := range []mgl32.Vec3{c0, c1, c2} {
		s := scale[i]
		if s == 0 {
			s = 1
		}
		rot.SetCol(i, c.Mul(1/s))
	}

	return Transform{
		Position: position,
		Rotation: mgl32.Mat4ToQuat(rot.Mat4()).Normalize(),
		Scale:    scale,
	}
}
