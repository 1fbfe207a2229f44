package space

import "github.com/Faultbox/walkthrough/pkg/math"

func vec(x, y, z float32) math.Vec3 {
	return math.Vec3{X: x, Y: y, Z: z}
}
