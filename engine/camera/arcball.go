package camera

import (
	"github.com/Carmen-Shannon/oxy-scene/common"
	"github.com/chewxy/math32"
)

// minZoomDistance is the closest the eye may come to the orbit center.
const minZoomDistance = 0.2

type arcball struct {
	zoomSpeed float32
	invScreen [2]float32

	centerTranslation common.Mat4
	translation       common.Mat4
	rotation          common.Quat

	camera    common.Mat4
	invCamera common.Mat4
}

// Arcball orbits a camera around a center point. Pointer positions are in window pixels and are
// normalized against the screen dimensions.
type Arcball interface {
	// Rotate drags the virtual trackball from prev to cur.
	//
	// Parameters:
	//   - prev: the previous pointer position
	//   - cur: the current pointer position
	Rotate(prev, cur [2]float32)

	// Zoom moves the eye toward (positive) or away from (negative) the center. The eye never
	// comes closer than 0.2 units.
	//
	// Parameters:
	//   - amount: the zoom amount in pixels
	Zoom(amount float32)

	// Pan moves the orbit center in the view plane.
	//
	// Parameters:
	//   - delta: the pointer motion in pixels, y up
	Pan(delta [2]float32)

	// SetScreenDims updates the pointer normalization dimensions.
	SetScreenDims(width, height float32)

	// Matrix returns the view matrix.
	Matrix() common.Mat4

	// EyePos returns the eye position in world space.
	EyePos() [3]float32

	// EyeDir returns the normalized viewing direction in world space.
	EyeDir() [3]float32

	// UpDir returns the normalized up direction in world space.
	UpDir() [3]float32
}

var _ Arcball = &arcball{}

// NewArcball creates an arcball placed at eye looking at center.
//
// Parameters:
//   - eye: the eye position
//   - center: the orbit center
//   - up: the approximate up direction
//   - zoomSpeed: zoom scale
//   - screenDims: the width and height of the input region in pixels
//
// Returns:
//   - Arcball: the arcball
func NewArcball(eye, center, up [3]float32, zoomSpeed float32, screenDims [2]float32) Arcball {
	up = common.Normalize3(up)

	zAxis := common.Sub3(center, eye)
	viewDist := common.Length3(zAxis)
	zAxis = common.Normalize3(zAxis)

	xAxis := common.Normalize3(common.Cross3(zAxis, up))
	yAxis := common.Normalize3(common.Cross3(xAxis, zAxis))
	xAxis = common.Normalize3(common.Cross3(zAxis, yAxis))

	a := &arcball{
		zoomSpeed:   zoomSpeed,
		translation: common.Translation(0, 0, -viewDist),
	}
	a.SetScreenDims(screenDims[0], screenDims[1])

	centerTranslation := common.Translation(center[0], center[1], center[2])
	common.Invert4(a.centerTranslation[:], centerTranslation[:])

	// Rows x, y, -z, column-major.
	a.rotation = common.QuatNormalize(common.QuatFromMat3([9]float32{
		xAxis[0], yAxis[0], -zAxis[0],
		xAxis[1], yAxis[1], -zAxis[1],
		xAxis[2], yAxis[2], -zAxis[2],
	}))

	a.update()
	return a
}

func (a *arcball) Rotate(prev, cur [2]float32) {
	prevBall := screenToArcball(a.normalize(prev))
	curBall := screenToArcball(a.normalize(cur))

	a.rotation = common.QuatMul(prevBall, a.rotation)
	a.rotation = common.QuatMul(curBall, a.rotation)
	a.update()
}

func (a *arcball) Zoom(amount float32) {
	t := common.Translation(0, 0, amount*a.invScreen[1]*a.zoomSpeed)
	a.translation = common.MulMat4(t, a.translation)
	if a.translation[14] >= -minZoomDistance {
		a.translation[14] = -minZoomDistance
	}
	a.update()
}

func (a *arcball) Pan(delta [2]float32) {
	dist := math32.Abs(a.translation[14])
	world := common.TransformVec4(a.invCamera, [4]float32{
		delta[0] * a.invScreen[0] * dist,
		delta[1] * a.invScreen[1] * dist,
		0, 0,
	})
	a.centerTranslation = common.MulMat4(common.Translation(world[0], world[1], world[2]), a.centerTranslation)
	a.update()
}

func (a *arcball) SetScreenDims(width, height float32) {
	a.invScreen = [2]float32{1 / width, 1 / height}
}

func (a *arcball) Matrix() common.Mat4 {
	return a.camera
}

func (a *arcball) EyePos() [3]float32 {
	return [3]float32{a.invCamera[12], a.invCamera[13], a.invCamera[14]}
}

func (a *arcball) EyeDir() [3]float32 {
	d := common.TransformVec4(a.invCamera, [4]float32{0, 0, -1, 0})
	return common.Normalize3([3]float32{d[0], d[1], d[2]})
}

func (a *arcball) UpDir() [3]float32 {
	d := common.TransformVec4(a.invCamera, [4]float32{0, 1, 0, 0})
	return common.Normalize3([3]float32{d[0], d[1], d[2]})
}

// update recomputes camera = translation * rotation * centerTranslation and its inverse.
func (a *arcball) update() {
	rot := common.FromQuat(a.rotation)
	a.camera = common.MulMat4(a.translation, common.MulMat4(rot, a.centerTranslation))
	common.Invert4(a.invCamera[:], a.camera[:])
}

// normalize maps a pixel position to [-1, 1] with y up.
func (a *arcball) normalize(p [2]float32) [2]float32 {
	return [2]float32{
		common.Clamp(p[0]*2*a.invScreen[0]-1, -1, 1),
		common.Clamp(1-p[1]*2*a.invScreen[1], -1, 1),
	}
}

// screenToArcball lifts a normalized point onto the unit sphere as a pure quaternion.
func screenToArcball(p [2]float32) common.Quat {
	d := common.Dot2(p, p)
	if d <= 1 {
		return common.Quat{p[0], p[1], math32.Sqrt(1 - d), 0}
	}
	u := common.Normalize2(p)
	return common.Quat{u[0], u[1], 0, 0}
}
