package main

import (
	"flag"
	"net"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/kdudkov/tilecull/pkg/geometry"
	"github.com/kdudkov/tilecull/pkg/mapper"
	"github.com/kdudkov/tilecull/pkg/metrics"
	"github.com/kdudkov/tilecull/pkg/model"
)

type App struct {
	addr         string
	featuresFile string
	dbFile       string
	width        float64
	height       float64
	logger       *zap.SugaredLogger
	projection   geometry.Projection
	features     *Features
	store        *model.Store
}

func NewApp(addr string, logger *zap.SugaredLogger) *App {
	return &App{
		features:   NewFeatures(),
		projection: mapper.NewWebMercator(),
		logger:     logger,
		addr:       addr,
		width:      1024,
		height:     768,
	}
}

func (app *App) loadFeatures() error {
	shapes, err := model.LoadFeatures(app.featuresFile, app.projection)

	if err != nil {
		metrics.FeatureReloads.WithLabelValues("error").Inc()
		return err
	}

	for _, s := range shapes {
		if err := model.CheckShape(s); err != nil {
			app.logger.Warnw("bad feature, classification may be wrong", "error", err)
		}
	}

	app.features.Replace(shapes)
	metrics.FeatureReloads.WithLabelValues("ok").Inc()
	metrics.FeaturesLoaded.Set(float64(len(shapes)))

	app.logger.Infof("loaded %d features from %s", len(shapes), app.featuresFile)

	return nil
}

func (app *App) Run() {
	if err := app.loadFeatures(); err != nil {
		app.logger.Fatalw("can't load features", "error", err)
	}

	if app.dbFile != "" {
		s, err := model.OpenStore(app.dbFile)
		if err != nil {
			app.logger.Fatalw("can't open coverage db", "error", err)
		}

		app.logger.Infow("coverage db opened", "file", app.dbFile, "meta", s.Meta())
		app.store = s
	}

	http := NewHttp(app)

	app.logger.Info("listening on " + app.addr)

	go func() {
		if err := http.Listen(app.addr); err != nil {
			panic(err)
		}
	}()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		panic(err)
	}

	defer watcher.Close()

	go app.watch(watcher)

	// editors replace files, so watch the directory
	err = watcher.Add(filepath.Dir(app.featuresFile))
	if err != nil {
		panic(err)
	}

	app.loop()
	app.close()
}

func (app *App) watch(watcher *fsnotify.Watcher) {
	name := filepath.Clean(app.featuresFile)

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}

			if filepath.Clean(event.Name) != name || !(event.Has(fsnotify.Write) || event.Has(fsnotify.Create)) {
				continue
			}

			app.logger.Infof("event: %s", event)

			if err := app.loadFeatures(); err != nil {
				app.logger.Errorw("reload failed, keeping old features", "error", err)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			app.logger.Errorw("error", "error", err)
		}
	}
}

func (app *App) close() {
	if app.store != nil {
		if err := app.store.Close(); err != nil {
			app.logger.Errorw("error closing db", "error", err)
		}
	}

	app.features.Clear()
}

func (app *App) loop() {
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)

	<-sigc
}

func getLocalAddr() []string {
	var res []string

	addresses, _ := net.InterfaceAddrs()

	for _, a := range addresses {
		if ipnet, ok := a.(*net.IPNet); ok && !ipnet.IP.IsLoopback() {
			if ipnet.IP.To4() != nil && !strings.HasPrefix(ipnet.IP.String(), "169.254.") {
				res = append(res, ipnet.IP.String())
			}
		}
	}

	return res
}

func main() {
	var featuresFile = flag.String("features", "features.yml", "features file")
	var dbFile = flag.String("db", "", "precomputed coverage db")
	var addr = flag.String("addr", ":8888", "listen address")
	var width = flag.Float64("width", 1024, "default viewport width, px")
	var height = flag.Float64("height", 768, "default viewport height, px")
	var debug = flag.Bool("debug", false, "")

	flag.Parse()

	var logger *zap.Logger
	var err error

	if *debug {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}

	if err != nil {
		panic(err)
	}

	defer logger.Sync()

	logger.Info(getVersionFull())

	app := NewApp(*addr, logger.Sugar())
	app.featuresFile = *featuresFile
	app.dbFile = *dbFile
	app.width = *width
	app.height = *height
	app.Run()
}
