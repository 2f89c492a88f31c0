package integrator

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/df07/go-sphere-raytracer/pkg/core"
	"github.com/df07/go-sphere-raytracer/pkg/scene"
)

// MissDistance and MissIndex are reported in the payload of a miss
const (
	MissDistance float32 = -1
	MissIndex            = -1
)

// HitPayload describes the closest intersection of a ray with the scene
type HitPayload struct {
	HitDistance   float32
	ObjectIndex   int // Index into Scene.Spheres
	WorldPosition mgl32.Vec3
	WorldNormal   mgl32.Vec3 // Unit length, pointing away from the sphere center
}

func miss() (HitPayload, bool) {
	return HitPayload{HitDistance: MissDistance, ObjectIndex: MissIndex}, false
}

// TraceRay returns the closest sphere hit in front of the ray origin.
// Only each sphere's near root is tested; roots at or behind the origin are
// rejected, so a ray starting inside a sphere does not hit that sphere.
// An exactly equal distance keeps the earlier sphere.
func TraceRay(ray core.Ray, sc *scene.Scene) (HitPayload, bool) {
	if len(sc.Spheres) == 0 {
		return miss()
	}

	closestSphere := -1
	hitDistance := float32(math.MaxFloat32)

	for i := range sc.Spheres {
		t, ok := sc.Spheres[i].NearRoot(ray)
		if !ok || t <= 0 {
			continue
		}
		if t < hitDistance {
			hitDistance = t
			closestSphere = i
		}
	}

	if closestSphere < 0 {
		return miss()
	}

	return closestHit(ray, sc, hitDistance, closestSphere), true
}

// closestHit fills the payload for an accepted intersection
func closestHit(ray core.Ray, sc *scene.Scene, hitDistance float32, objectIndex int) HitPayload {
	sphere := sc.Spheres[objectIndex]

	// Sphere-local hit point; its direction from the center is the normal
	origin := ray.Origin.Sub(sphere.Position)
	localPosition := origin.Add(ray.Direction.Mul(hitDistance))

	return HitPayload{
		HitDistance:   hitDistance,
		ObjectIndex:   objectIndex,
		WorldPosition: localPosition.Add(sphere.Position),
		WorldNormal:   localPosition.Normalize(),
	}
}
