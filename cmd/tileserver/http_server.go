package main

import (
	"cmp"
	"encoding/json"
	"net"
	"slices"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/twpayne/go-geom/encoding/geojson"

	"github.com/kdudkov/tilecull/pkg/geometry"
	"github.com/kdudkov/tilecull/pkg/metrics"
	"github.com/kdudkov/tilecull/pkg/model"
)

const (
	defaultCoverZoom = 12
	maxCoverZoom     = 18
)

type tileFeature struct {
	Key     string           `json:"key"`
	Name    string           `json:"name"`
	Overlap geometry.Overlap `json:"overlap"`
	Source  string           `json:"source"`
}

func NewHttp(app *App) *fiber.App {
	f := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		EnablePrintRoutes:     false,
	})

	f.Use(logger.New(logger.Config{
		Format: "[${ip}]:${port} ${status} - ${method} ${path} ${queryParams}\n",
	}))

	f.Use(cors.New(cors.Config{
		AllowOrigins: "*",
	}))

	f.Use(metrics.Middleware())

	f.Get("/", getIndexHandler(app))
	f.Get("/features", getFeaturesHandler(app))
	f.Get("/features/:key", getFeatureHandler(app))
	f.Get("/features/:key/cover", getCoverHandler(app))
	f.Get("/tiles/:zoom/:x/:y", getTileHandler(app))
	f.Get("/viewport", getViewportHandler(app))
	f.Get("/metrics", metrics.Handler())

	return f
}

func sendGeoJSON(c *fiber.Ctx, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}

	c.Set("Content-Type", "application/geo+json")

	return c.Send(b)
}

func getIndexHandler(app *App) func(c *fiber.Ctx) error {
	addrs := getLocalAddr()

	return func(c *fiber.Ctx) error {
		_, port, err := net.SplitHostPort(app.addr)

		if err != nil {
			return err
		}

		d := fiber.Map{
			"version":  getVersion(),
			"port":     port,
			"ips":      addrs,
			"features": len(app.features.List()),
			"db":       app.store != nil,
		}

		return c.JSON(d)
	}
}

func getFeaturesHandler(app *App) func(c *fiber.Ctx) error {
	return func(c *fiber.Ctx) error {
		shapes := app.features.List()

		if c.Query("lat") == "" && c.Query("lng") == "" {
			b, err := model.MarshalShapes(shapes)
			if err != nil {
				return err
			}

			c.Set("Content-Type", "application/geo+json")

			return c.Send(b)
		}

		center, err := queryGeoPoint(c)
		if err != nil {
			return err
		}

		fc := &geojson.FeatureCollection{Features: make([]*geojson.Feature, 0)}

		for _, n := range model.FindNearby(shapes, center, c.QueryFloat("radius", 0), c.QueryInt("limit", 0)) {
			fc.Features = append(fc.Features, model.ShapeFeature(n.Shape, map[string]any{"distance": n.Distance}))
		}

		return sendGeoJSON(c, fc)
	}
}

func getFeatureHandler(app *App) func(c *fiber.Ctx) error {
	return func(c *fiber.Ctx) error {
		s, ok := app.features.Get(c.Params("key"))

		if !ok {
			return c.Status(fiber.StatusNotFound).SendString("feature " + c.Params("key") + " is not found")
		}

		return sendGeoJSON(c, model.ShapeFeature(s, nil))
	}
}

func getCoverHandler(app *App) func(c *fiber.Ctx) error {
	return func(c *fiber.Ctx) error {
		s, ok := app.features.Get(c.Params("key"))

		if !ok {
			return c.Status(fiber.StatusNotFound).SendString("feature " + c.Params("key") + " is not found")
		}

		maxZoom := c.QueryInt("maxZoom", defaultCoverZoom)
		if maxZoom < 0 || maxZoom > maxCoverZoom {
			return fiber.NewError(fiber.StatusBadRequest, "maxZoom must be in 0.."+strconv.Itoa(maxCoverZoom))
		}

		root := model.Tile{}
		if r := c.Query("root"); r != "" {
			var err error
			if root, err = model.ParseTile(r); err != nil {
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			}
		}

		hits := model.Cover(s, root, maxZoom)
		metrics.CoverTiles.Observe(float64(len(hits)))

		return c.JSON(fiber.Map{
			"key":   s.GetKey(),
			"root":  root,
			"tiles": hits,
		})
	}
}

func getTileHandler(app *App) func(c *fiber.Ctx) error {
	return func(c *fiber.Ctx) error {
		var err error
		var zoom, x, y int

		if zoom, err = c.ParamsInt("zoom"); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid zoom value")
		}

		if x, err = c.ParamsInt("x"); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid x value")
		}

		if y, err = c.ParamsInt("y"); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid y value")
		}

		t := model.Tile{X: x, Y: y, Z: zoom}
		if !t.Valid() {
			return fiber.NewError(fiber.StatusBadRequest, "tile "+t.String()+" is out of range")
		}

		res := make([]tileFeature, 0)
		source := "computed"

		if app.store != nil {
			source = "db"

			hits, err := app.store.At(t)
			if err != nil {
				app.logger.Errorw("error reading coverage", "tile", t.String(), "error", err)
				return err
			}

			for _, h := range hits {
				if s, ok := app.features.Get(h.Key); ok && model.Visible(s, zoom) {
					res = append(res, tileFeature{Key: h.Key, Name: s.GetName(), Overlap: h.Overlap, Source: "db"})
				}
			}
		}

		// features added after the db was built are classified on the fly
		app.features.All(func(s model.Shape) bool {
			if !model.Visible(s, zoom) || (app.store != nil && app.store.Has(s.GetKey())) {
				return true
			}

			o := s.Classify(t)
			metrics.Classified(o)

			if o != geometry.Outside {
				res = append(res, tileFeature{Key: s.GetKey(), Name: s.GetName(), Overlap: o, Source: "computed"})
			}

			return true
		})

		slices.SortFunc(res, func(a, b tileFeature) int {
			return cmp.Compare(a.Key, b.Key)
		})

		ul, lr := t.Range()

		return c.JSON(fiber.Map{
			"tile":        t,
			"upper_left":  ul,
			"lower_right": lr,
			"source":      source,
			"features":    res,
		})
	}
}

func getViewportHandler(app *App) func(c *fiber.Ctx) error {
	return func(c *fiber.Ctx) error {
		center, err := queryGeoPoint(c)
		if err != nil {
			return err
		}

		if c.Query("zoom") == "" {
			return fiber.NewError(fiber.StatusBadRequest, "zoom is required")
		}

		zoom := c.QueryFloat("zoom")
		w := c.QueryFloat("width", app.width)
		h := c.QueryFloat("height", app.height)

		if zoom < 0 || w <= 0 || h <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "invalid viewport")
		}

		ring := geometry.BoundingBox(app.projection, center, zoom, w, h)

		return sendGeoJSON(c, &geojson.Feature{
			Geometry: model.RingPolygon(ring),
			Properties: map[string]any{
				"center": center,
				"zoom":   zoom,
				"width":  w,
				"height": h,
			},
		})
	}
}

func queryGeoPoint(c *fiber.Ctx) (geometry.GeoPoint, error) {
	lat, err := strconv.ParseFloat(c.Query("lat"), 64)
	if err != nil || lat < -90 || lat > 90 {
		return geometry.GeoPoint{}, fiber.NewError(fiber.StatusBadRequest, "invalid lat")
	}

	lng, err := strconv.ParseFloat(c.Query("lng"), 64)
	if err != nil || lng < -180 || lng > 180 {
		return geometry.GeoPoint{}, fiber.NewError(fiber.StatusBadRequest, "invalid lng")
	}

	return geometry.GeoPoint{Lat: lat, Lng: lng}, nil
}
