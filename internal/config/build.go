package config

import (
	"errors"
	"fmt"

	"github.com/akmonengine/prism"
	"github.com/akmonengine/prism/shape"
	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"
)

var (
	ErrUnknownShape = errors.New("unknown shape kind")
	ErrBadVector    = errors.New("vector must have 3 components")
)

// Shapes converts the described shapes, in file order.
func (c *Config) Shapes() ([]shape.Shape, error) {
	shapes := make([]shape.Shape, 0, len(c.Objects))
	for i, sc := range c.Objects {
		s, err := sc.Shape()
		if err != nil {
			return nil, fmt.Errorf("shape %d: %w", i, err)
		}
		shapes = append(shapes, s)
	}
	return shapes, nil
}

// Rays converts the described rays, in file order.
func (c *Config) Rays() ([]shape.Ray, error) {
	rays := make([]shape.Ray, 0, len(c.Casts))
	for i, rc := range c.Casts {
		origin, err := vec3("origin", rc.Origin)
		if err != nil {
			return nil, fmt.Errorf("ray %d: %w", i, err)
		}
		direction, err := vec3("direction", rc.Direction)
		if err != nil {
			return nil, fmt.Errorf("ray %d: %w", i, err)
		}
		rays = append(rays, shape.NewRay(origin, direction))
	}
	return rays, nil
}

// BuildScene creates a scene holding every described shape.
func (c *Config) BuildScene(logger *zap.Logger) (*prism.Scene, error) {
	shapes, err := c.Shapes()
	if err != nil {
		return nil, err
	}

	var grid *prism.SpatialGrid
	if c.Scene.CellSize > 0 && c.Scene.Cells > 0 {
		grid = prism.NewSpatialGrid(c.Scene.CellSize, c.Scene.Cells)
	}

	scene := prism.NewScene(c.Scene.Workers, grid, logger)
	scene.BackfaceCulling = c.Scene.BackfaceCulling
	for _, s := range shapes {
		scene.Add(s)
	}

	return scene, nil
}

// Shape converts the description into a kernel shape.
func (sc ShapeConfig) Shape() (shape.Shape, error) {
	switch sc.Kind {
	case shape.KindBox.String():
		minCorner, err := vec3("min", sc.Min)
		if err != nil {
			return nil, err
		}
		maxCorner, err := vec3("max", sc.Max)
		if err != nil {
			return nil, err
		}
		return shape.NewAABB(minCorner, maxCorner), nil

	case shape.KindSphere.String():
		center, err := vec3("center", sc.Center)
		if err != nil {
			return nil, err
		}
		return shape.NewSphere(center, sc.Radius), nil

	case shape.KindPlane.String():
		normal, err := vec3("normal", sc.Normal)
		if err != nil {
			return nil, err
		}
		return shape.NewPlane(normal, sc.Constant), nil

	case shape.KindRay.String():
		origin, err := vec3("origin", sc.Origin)
		if err != nil {
			return nil, err
		}
		direction, err := vec3("direction", sc.Direction)
		if err != nil {
			return nil, err
		}
		return shape.NewRay(origin, direction), nil

	case shape.KindTriangle.String():
		if len(sc.Points) != 3 {
			return nil, fmt.Errorf("triangle needs 3 points, got %d", len(sc.Points))
		}
		var vertices [3]mgl64.Vec3
		for i, p := range sc.Points {
			v, err := vec3(fmt.Sprintf("points[%d]", i), p)
			if err != nil {
				return nil, err
			}
			vertices[i] = v
		}
		return shape.NewTriangle(vertices[0], vertices[1], vertices[2]), nil

	case shape.KindOrientedBox.String():
		center, err := vec3("center", sc.Center)
		if err != nil {
			return nil, err
		}
		halfExtents, err := vec3("half_extents", sc.HalfExtents)
		if err != nil {
			return nil, err
		}
		rotation := mgl64.QuatIdent()
		if len(sc.Rotation) > 0 {
			if len(sc.Rotation) != 4 {
				return nil, fmt.Errorf("rotation needs 4 components (w, x, y, z), got %d", len(sc.Rotation))
			}
			rotation = mgl64.Quat{
				W: sc.Rotation[0],
				V: mgl64.Vec3{sc.Rotation[1], sc.Rotation[2], sc.Rotation[3]},
			}.Normalize()
		}
		return shape.NewOrientedBox(center, halfExtents, rotation), nil
	}

	return nil, fmt.Errorf("%w %q", ErrUnknownShape, sc.Kind)
}

func vec3(name string, v []float64) (mgl64.Vec3, error) {
	if len(v) != 3 {
		return mgl64.Vec3{}, fmt.Errorf("%s: %w, got %d", name, ErrBadVector, len(v))
	}
	return mgl64.Vec3{v[0], v[1], v[2]}, nil
}
