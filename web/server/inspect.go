package server

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/df07/go-recursive-raytracer/pkg/core"
	"github.com/df07/go-recursive-raytracer/pkg/geometry"
	"github.com/df07/go-recursive-raytracer/pkg/material"
	"github.com/df07/go-recursive-raytracer/pkg/renderer"
	"github.com/df07/go-recursive-raytracer/pkg/scene"
)

// InspectResponse represents the JSON response for object inspection
type InspectResponse struct {
	Hit          bool                   `json:"hit"`
	MaterialType string                 `json:"materialType"`
	GeometryType string                 `json:"geometryType"`
	Point        [3]float64             `json:"point"`
	Normal       [3]float64             `json:"normal"`
	Distance     float64                `json:"distance"`
	FrontFace    bool                   `json:"frontFace"`
	Properties   map[string]interface{} `json:"properties"`
}

func triple(d core.Double3) [3]float64 {
	return [3]float64{d.R, d.G, d.B}
}

func point3(p core.Point) [3]float64 {
	return [3]float64{p.X, p.Y, p.Z}
}

func vector3(v core.Vector) [3]float64 {
	return [3]float64{v.X(), v.Y(), v.Z()}
}

// extractMaterialInfo describes the Phong coefficients of a surface
func (s *Server) extractMaterialInfo(mat material.Material, emission core.Color) (string, map[string]interface{}) {
	properties := map[string]interface{}{
		"kd":        triple(mat.Kd),
		"ks":        triple(mat.Ks),
		"kt":        triple(mat.Kt),
		"kr":        triple(mat.Kr),
		"shininess": mat.Shininess,
		"emission":  [3]float64{emission.R, emission.G, emission.B},
	}
	rgba := emission.Add(core.Color{R: 255 * mat.Kd.R, G: 255 * mat.Kd.G, B: 255 * mat.Kd.B}).RGBA()
	properties["color"] = fmt.Sprintf("#%02x%02x%02x", rgba.R, rgba.G, rgba.B)

	switch {
	case mat.IsReflective() && mat.IsTransparent():
		return "glass", properties
	case mat.IsReflective():
		return "mirror", properties
	case mat.IsTransparent():
		return "transparent", properties
	case mat.Ks != core.Zero3:
		return "glossy", properties
	case mat.Kd != core.Zero3:
		return "diffuse", properties
	default:
		return "emissive", properties
	}
}

// InspectResult contains information about the object hit by an inspection ray
type InspectResult struct {
	Hit      bool
	GeoPoint geometry.GeoPoint
	Normal   core.Vector
	Distance float64
	// FrontFace is true when the ray hits the side the normal points to
	FrontFace bool
}

// inspectPixel casts the primary ray of a pixel and reports the first object hit
func inspectPixel(sceneObj *scene.Scene, width, height, pixelX, pixelY int) (InspectResult, error) {
	img, err := renderer.NewImageWriter("", width, height)
	if err != nil {
		return InspectResult{}, err
	}
	tracer, err := renderer.NewRaytracerFromScene(sceneObj)
	if err != nil {
		return InspectResult{}, err
	}
	camera, err := renderer.NewCameraBuilderFromConfig(sceneObj.CameraConfig).
		WithImageWriter(img).
		WithRayTracer(tracer).
		Build()
	if err != nil {
		return InspectResult{}, err
	}

	ray, err := camera.ConstructRay(width, height, pixelX, pixelY)
	if err != nil {
		return InspectResult{}, err
	}

	gp, ok := geometry.Closest(ray, geometry.FindGeoIntersections(sceneObj.Geometries, ray))
	if !ok {
		return InspectResult{Hit: false}, nil
	}
	normal, err := gp.Geometry.Normal(gp.Point)
	if err != nil {
		return InspectResult{}, err
	}
	return InspectResult{
		Hit:       true,
		GeoPoint:  gp,
		Normal:    normal,
		Distance:  ray.Origin().Distance(gp.Point),
		FrontFace: normal.Dot(ray.Direction()) < 0,
	}, nil
}

// extractGeometryInfo describes the shape that was hit
func (s *Server) extractGeometryInfo(g geometry.Geometry) (string, map[string]interface{}) {
	properties := make(map[string]interface{})

	switch geom := g.(type) {
	case *geometry.Sphere:
		properties["center"] = point3(geom.Center)
		properties["radius"] = geom.Radius
		return "sphere", properties

	case *geometry.Plane:
		properties["point"] = point3(geom.Point())
		properties["normal"] = vector3(geom.PlaneNormal())
		return "plane", properties

	case *geometry.Triangle:
		v0, v1, v2 := geom.Vertices()
		properties["vertices"] = [][3]float64{point3(v0), point3(v1), point3(v2)}
		return "triangle", properties

	case *geometry.Polygon:
		var vertices [][3]float64
		for _, v := range geom.Vertices() {
			vertices = append(vertices, point3(v))
		}
		properties["vertices"] = vertices
		return "polygon", properties

	case *geometry.Cylinder:
		properties["baseCenter"] = point3(geom.Axis.Origin())
		properties["axis"] = vector3(geom.Axis.Direction())
		properties["radius"] = geom.Radius
		properties["height"] = geom.Height
		return "cylinder", properties

	case *geometry.Tube:
		properties["origin"] = point3(geom.Axis.Origin())
		properties["axis"] = vector3(geom.Axis.Direction())
		properties["radius"] = geom.Radius
		return "tube", properties

	default:
		return "unknown", properties
	}
}

// handleInspect handles ray casting inspection requests
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	// Create request object for parameter parsing
	inspectReq := &RenderRequest{}

	sceneObj, err := s.parseSceneParams(r, inspectReq)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid scene parameters: " + err.Error()})
		return
	}

	// Parse pixel coordinates
	pixelX, err := strconv.Atoi(r.URL.Query().Get("x"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid x coordinate"})
		return
	}

	pixelY, err := strconv.Atoi(r.URL.Query().Get("y"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid y coordinate"})
		return
	}

	// Validate pixel coordinates
	if pixelX < 0 || pixelX >= inspectReq.Width || pixelY < 0 || pixelY >= inspectReq.Height {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Pixel coordinates out of bounds"})
		return
	}

	result, err := inspectPixel(sceneObj, inspectReq.Width, inspectReq.Height, pixelX, pixelY)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	if !result.Hit {
		writeJSON(w, http.StatusOK, InspectResponse{Hit: false})
		return
	}

	// Extract detailed information
	hit := result.GeoPoint.Geometry
	materialType, materialProps := s.extractMaterialInfo(hit.Material(), hit.Emission())
	geometryType, geometryProps := s.extractGeometryInfo(hit)

	response := InspectResponse{
		Hit:          true,
		MaterialType: materialType,
		GeometryType: geometryType,
		Point:        point3(result.GeoPoint.Point),
		Normal:       vector3(result.Normal),
		Distance:     result.Distance,
		FrontFace:    result.FrontFace,
		Properties: map[string]interface{}{
			"material": materialProps,
			"geometry": geometryProps,
		},
	}
	writeJSON(w, http.StatusOK, response)
}
