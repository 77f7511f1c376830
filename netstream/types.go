package netstream

// Vec3 is a three-component float vector: a location, a velocity, or a
// scale, depending on where it's read (spec.md §3).
type Vec3 struct {
	X, Y, Z float32
}

// Rot3 is a Euler rotation in degrees. Axes not present on the wire keep
// their zero value (spec.md §4.1, ReadRotationShort).
type Rot3 struct {
	Pitch, Yaw, Roll float32
}
