package prism

import (
	"sort"
	"sync"

	"github.com/akmonengine/prism/epa"
	"github.com/akmonengine/prism/gjk"
	"github.com/akmonengine/prism/shape"
	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"
)

// Contact describes how far two intersecting objects penetrate each other.
type Contact struct {
	A, B Object
	// Normal points from A toward B: moving B by Normal*Depth separates them.
	Normal mgl64.Vec3
	Depth  float64
	Point  mgl64.Vec3
}

// collisionPair is a pair GJK found overlapping, with the simplex EPA starts from.
type collisionPair struct {
	Pair
	a, b    gjk.Convex
	simplex *gjk.Simplex
}

// Penetrations computes the contact of every pair with a solid side on both ends.
// Pairs involving a ray, or two planes, have no penetration and are skipped.
// Contacts are returned ordered by IDs.
func Penetrations(pairs []Pair, workersCount int, logger *zap.Logger) []Contact {
	workersCount = max(DEFAULT_WORKERS, workersCount)

	// Dispatcher: separate pairs with planes, and convex objects
	planePairs := make(chan Pair, workersCount)
	gjkPairs := make(chan Pair, workersCount)

	go func() {
		defer close(planePairs)
		defer close(gjkPairs)

		for _, pair := range pairs {
			_, aIsPlane := plane(pair.A.Shape)
			_, bIsPlane := plane(pair.B.Shape)
			_, aIsConvex := convex(pair.A.Shape)
			_, bIsConvex := convex(pair.B.Shape)

			switch {
			case aIsConvex && bIsConvex:
				gjkPairs <- pair
			case (aIsPlane && bIsConvex) || (aIsConvex && bIsPlane):
				planePairs <- pair
			}
		}
	}()

	allContacts := make(chan Contact, workersCount*2)
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		for contact := range EPA(GJK(gjkPairs, workersCount), workersCount, logger) {
			allContacts <- contact
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		for contact := range collidePlane(planePairs, workersCount) {
			allContacts <- contact
		}
	}()

	go func() {
		wg.Wait()
		close(allContacts)
	}()

	contacts := make([]Contact, 0)
	for c := range allContacts {
		contacts = append(contacts, c)
	}
	sort.Slice(contacts, func(i, j int) bool {
		if contacts[i].A.ID != contacts[j].A.ID {
			return contacts[i].A.ID < contacts[j].A.ID
		}
		return contacts[i].B.ID < contacts[j].B.ID
	})

	return contacts
}

// GJK keeps the pairs whose convex shapes overlap, with their final simplex.
func GJK(pairChan <-chan Pair, workersCount int) <-chan collisionPair {
	collisionChan := make(chan collisionPair, workersCount)

	go func() {
		var wg sync.WaitGroup
		defer close(collisionChan)

		for i := 0; i < workersCount; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()

				for p := range pairChan {
					a, _ := convex(p.A.Shape)
					b, _ := convex(p.B.Shape)

					simplex := gjk.SimplexPool.Get().(*gjk.Simplex)
					simplex.Reset()

					if collision := gjk.GJK(a, b, simplex); collision {
						collisionChan <- collisionPair{Pair: p, a: a, b: b, simplex: simplex}
					} else {
						gjk.SimplexPool.Put(simplex)
					}
				}
			}()
		}
		wg.Wait()
	}()

	return collisionChan
}

// EPA turns every overlapping pair into a contact. Pairs EPA cannot resolve are
// logged and dropped.
func EPA(p <-chan collisionPair, workersCount int, logger *zap.Logger) <-chan Contact {
	ch := make(chan Contact, workersCount)

	go func() {
		var wg sync.WaitGroup
		defer close(ch)

		for i := 0; i < workersCount; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for pair := range p {
					contact, err := epa.EPA(pair.a, pair.b, pair.simplex)
					gjk.SimplexPool.Put(pair.simplex)
					if err != nil {
						logger.Debug("contact dropped",
							zap.Uint64("a", pair.A.ID),
							zap.Uint64("b", pair.B.ID),
							zap.Error(err),
						)
						continue
					}
					ch <- Contact{
						A:      pair.A,
						B:      pair.B,
						Normal: contact.Normal,
						Depth:  contact.Depth,
						Point:  contact.Point,
					}
				}
			}()
		}

		wg.Wait()
	}()

	return ch
}

// collidePlane resolves pairs made of a plane and a convex shape analytically: the
// depth is how far the deepest point of the shape lies behind the plane.
func collidePlane(pairs <-chan Pair, workersCount int) <-chan Contact {
	ch := make(chan Contact, workersCount)

	go func() {
		var wg sync.WaitGroup
		defer close(ch)

		for i := 0; i < workersCount; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for pair := range pairs {
					var p shape.Plane
					var object gjk.Convex
					var contactNormal mgl64.Vec3

					if pl, ok := plane(pair.A.Shape); ok {
						p = pl
						object, _ = convex(pair.B.Shape)
						contactNormal = p.Normal
					} else if pl, ok := plane(pair.B.Shape); ok {
						p = pl
						object, _ = convex(pair.A.Shape)
						contactNormal = p.Normal.Mul(-1)
					} else {
						continue
					}

					deepest := object.Support(p.Normal.Mul(-1))
					distance := p.DistanceToPoint(deepest)
					if distance > 0 {
						continue
					}

					ch <- Contact{
						A:      pair.A,
						B:      pair.B,
						Normal: contactNormal,
						Depth:  -distance,
						Point:  deepest.Add(p.Normal.Mul(-distance / 2)),
					}
				}
			}()
		}

		wg.Wait()
	}()

	return ch
}

// convex returns the support mapping of a solid shape.
func convex(s shape.Shape) (gjk.Convex, bool) {
	switch v := s.(type) {
	case shape.AABB:
		return v, !v.IsEmpty()
	case *shape.AABB:
		return *v, !v.IsEmpty()
	case shape.Sphere:
		return v, !v.IsEmpty()
	case *shape.Sphere:
		return *v, !v.IsEmpty()
	case shape.OrientedBox:
		return v, true
	case *shape.OrientedBox:
		return *v, true
	case shape.Triangle:
		return v, true
	case *shape.Triangle:
		return *v, true
	}
	return nil, false
}

// plane returns s as a plane with a unit normal.
func plane(s shape.Shape) (shape.Plane, bool) {
	var p shape.Plane
	switch v := s.(type) {
	case shape.Plane:
		p = v
	case *shape.Plane:
		p = *v
	default:
		return p, false
	}

	if p.Normal.LenSqr() == 0 {
		return p, false
	}
	p.Normalize()
	return p, true
}
