package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/kdudkov/tilecull/pkg/geometry"
	"github.com/kdudkov/tilecull/pkg/mapper"
	"github.com/kdudkov/tilecull/pkg/metrics"
	"github.com/kdudkov/tilecull/pkg/model"
)

type App struct {
	logger        *zap.SugaredLogger
	shapes        []model.Shape
	dbFilename    string
	tilesFilename string
	maxZoom       int
}

func NewApp(logger *zap.SugaredLogger, shapes []model.Shape, dbFilename string, maxZoom int) *App {
	return &App{
		logger:     logger,
		shapes:     shapes,
		dbFilename: dbFilename,
		maxZoom:    maxZoom,
	}
}

// roots returns the tiles to start the walk from: 0/0/0 or the tiles
// listed one per line as z/x/y.
func (app *App) roots() ([]model.Tile, error) {
	if app.tilesFilename == "" {
		return []model.Tile{{}}, nil
	}

	f, err := os.Open(app.tilesFilename)

	if err != nil {
		return nil, err
	}

	defer f.Close()

	r := bufio.NewReader(f)

	var res []model.Tile

	for {
		ln, readerr := r.ReadString('\n')

		if readerr != nil && !errors.Is(readerr, io.EOF) {
			return nil, readerr
		}

		if strings.TrimSpace(ln) != "" {
			t, err := model.ParseTile(ln)

			if err != nil {
				return nil, err
			}

			res = append(res, t)
		}

		if errors.Is(readerr, io.EOF) {
			break
		}
	}

	return res, nil
}

func (app *App) Run() error {
	if len(app.shapes) == 0 {
		fmt.Println("no features!")
		return nil
	}

	roots, err := app.roots()
	if err != nil {
		return err
	}

	s, err := model.CreateStore(app.dbFilename)

	if err != nil {
		return err
	}

	defer s.Close()

	minzoom, maxzoom := model.MaxZoom, 0
	total := 0
	counts := make(map[geometry.Overlap]int)

	for _, sh := range app.shapes {
		if err := model.CheckShape(sh); err != nil {
			app.logger.Warnw("bad feature, coverage may be wrong", "error", err)
		}

		var hits []model.TileHit

		for _, root := range roots {
			hits = append(hits, model.Cover(sh, root, app.maxZoom)...)
		}

		for _, h := range hits {
			counts[h.Overlap]++
			metrics.Classified(h.Overlap)

			minzoom = min(minzoom, h.Tile.Z)
			maxzoom = max(maxzoom, h.Tile.Z)
		}

		if err := s.Put(sh.GetKey(), hits); err != nil {
			return err
		}

		app.logger.Debugw("feature done", "key", sh.GetKey(), "tiles", len(hits))
		total += len(hits)
	}

	if total == 0 {
		minzoom = 0
	}

	meta := map[string]string{
		"version":  "1.0",
		"minzoom":  strconv.Itoa(minzoom),
		"maxzoom":  strconv.Itoa(app.maxZoom),
		"features": strconv.Itoa(len(app.shapes)),
		"name":     app.dbFilename,
		"scheme":   "tms",
	}

	if err := s.PutMeta(meta); err != nil {
		return err
	}

	fmt.Printf("zoom: %d - %d\n", minzoom, maxzoom)
	fmt.Printf("total tiles: %d (inside %d, intersecting %d)\n", total, counts[geometry.Inside], counts[geometry.Intersecting])

	return nil
}

func main() {
	var features = flag.String("features", "features.yml", "features file")
	var tiles = flag.String("tiles", "", "file with root tiles, z/x/y per line")
	var maxZoom = flag.Int("maxzoom", 16, "deepest zoom to compute")
	var debug = flag.Bool("debug", false, "")

	flag.Parse()

	if len(flag.Args()) != 1 {
		fmt.Println("no file name")
		return
	}

	if *maxZoom < 0 || *maxZoom > model.MaxZoom {
		fmt.Printf("maxzoom must be in 0..%d\n", model.MaxZoom)
		return
	}

	var logger *zap.Logger
	if *debug {
		logger, _ = zap.NewDevelopment()
	} else {
		logger = zap.NewNop()
	}

	defer logger.Sync()

	shapes, err := model.LoadFeatures(*features, mapper.NewWebMercator())

	if err != nil {
		fmt.Printf("error: %s\n", err.Error())
		return
	}

	app := NewApp(logger.Sugar(), shapes, flag.Arg(0)+".sqlite", *maxZoom)
	app.tilesFilename = *tiles

	if err := app.Run(); err != nil {
		fmt.Printf("error: %s\n", err.Error())
	}
}
