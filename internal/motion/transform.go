package motion

import "github.com/go-gl/mathgl/mgl64"

// Transform is a rigid transform: rotation followed by translation.
type Transform struct {
	Rot mgl64.Quat
	Pos mgl64.Vec3
}

func Identity() Transform {
	return Transform{Rot: mgl64.QuatIdent()}
}

// Mul composes two transforms: (t * o)(p) == t(o(p)).
func (t Transform) Mul(o Transform) Transform {
	return Transform{
		Rot: t.Rot.Mul(o.Rot),
		Pos: t.Pos.Add(t.Rot.Rotate(o.Pos)),
	}
}

func (t Transform) Inverse() Transform {
	inv := t.Rot.Inverse()
	return Transform{
		Rot: inv,
		Pos: inv.Rotate(t.Pos.Mul(-1)),
	}
}

// Apply maps a point from the transform's local space to its parent space.
func (t Transform) Apply(p mgl64.Vec3) mgl64.Vec3 {
	return t.Rot.Rotate(p).Add(t.Pos)
}
