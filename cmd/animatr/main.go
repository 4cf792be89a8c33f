package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ivlev/animatr/internal/config"
	"github.com/ivlev/animatr/internal/engine"
	"github.com/ivlev/animatr/internal/motion"
	"github.com/ivlev/animatr/internal/plot"
	"github.com/ivlev/animatr/internal/renderer"
	"github.com/ivlev/animatr/internal/scene"
	"github.com/ivlev/animatr/internal/sink"
	"github.com/ivlev/animatr/internal/system"
)

var buildVersion = "dev"

func main() {
	startTime := time.Now()

	scenePtr := flag.String("scene", "", "Scene YAML (default: newest file in input/scenes/)")
	outputPtr := flag.String("output", "", "Output: '-' for stdout, *.db/*.sqlite for SQLite, otherwise CSV (default: generated in output/)")
	fpsPtr := flag.Int("fps", 60, "Frames per second")
	workersPtr := flag.Int("workers", runtime.NumCPU(), "Track workers")
	realtimePtr := flag.Bool("realtime", false, "Play against the wall clock instead of baking")
	mqttPtr := flag.String("mqtt", "", "MQTT broker URL, e.g. tcp://localhost:1883")
	topicPtr := flag.String("mqtt-topic", "animatr/frames", "MQTT topic for frames")
	mqttUserPtr := flag.String("mqtt-user", "", "MQTT username")
	mqttPassPtr := flag.String("mqtt-pass", "", "MQTT password")
	plotPtr := flag.String("plot", "", "Render the named motion law to PNG and exit (also ramp:<blend>, blend in [0, 0.5])")
	plotOutPtr := flag.String("plot-out", "", "PNG path for -plot (default: output/<law>.png)")
	plotWPtr := flag.Int("plot-width", 640, "Plot width")
	plotHPtr := flag.Int("plot-height", 360, "Plot height")
	listPtr := flag.Bool("list-laws", false, "List motion laws and exit")
	ffmpegPtr := flag.Bool("ffmpeg", false, "Print FFmpeg expressions for the scene tracks and exit")
	statsPtr := flag.Bool("stats", false, "Print process statistics at the end")
	verbosePtr := flag.Bool("verbose", false, "Debug logging")

	flag.Parse()

	cfg := &config.Config{
		ScenePath:    *scenePtr,
		Output:       *outputPtr,
		FPS:          *fpsPtr,
		Workers:      *workersPtr,
		Realtime:     *realtimePtr,
		MQTTBroker:   *mqttPtr,
		MQTTTopic:    *topicPtr,
		MQTTUser:     *mqttUserPtr,
		MQTTPass:     *mqttPassPtr,
		PlotLaw:      *plotPtr,
		PlotOut:      *plotOutPtr,
		PlotWidth:    *plotWPtr,
		PlotHeight:   *plotHPtr,
		ListLaws:     *listPtr,
		FFmpeg:       *ffmpegPtr,
		ShowStats:    *statsPtr,
		Verbose:      *verbosePtr,
		BuildVersion: buildVersion,
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[-] Invalid flags: %v", err)
	}

	logger, err := newLogger(cfg.Verbose)
	if err != nil {
		log.Fatalf("[-] Logger: %v", err)
	}
	defer logger.Sync()

	laws := motion.NewRegistry()

	switch {
	case cfg.ListLaws:
		for _, name := range laws.Names() {
			fmt.Println(name)
		}
		fmt.Println("ramp:<blend>")
		return
	case cfg.PlotLaw != "":
		if err := plotLaw(cfg, laws); err != nil {
			log.Fatalf("[-] Plot: %v", err)
		}
		return
	}

	for _, d := range []string{"input/scenes", "output"} {
		os.MkdirAll(d, 0755)
	}

	scenePath := cfg.ScenePath
	if scenePath == "" {
		latest, err := scene.FindLatest("input/scenes")
		if err != nil {
			log.Fatalf("[-] %v. Put a scene into input/scenes/", err)
		}
		scenePath = latest
		fmt.Printf("[*] Scene: %s\n", scenePath)
	}
	sc, err := scene.Read(scenePath)
	if err != nil {
		log.Fatalf("[-] %v", err)
	}

	if cfg.FFmpeg {
		if err := printExpressions(sc, laws); err != nil {
			log.Fatalf("[-] %v", err)
		}
		return
	}

	if cfg.Output == "" {
		name := strings.TrimSuffix(filepath.Base(scenePath), filepath.Ext(scenePath))
		timestamp := time.Now().Format("2006-01-02_15-04-05")
		cfg.Output = filepath.Join("output", fmt.Sprintf("%s_%s.csv", strings.ReplaceAll(name, " ", "_"), timestamp))
	}

	out, err := openSinks(cfg, logger)
	if err != nil {
		log.Fatalf("[-] %v", err)
	}

	project := engine.NewProject(cfg, out, logger)
	if err := project.Load(sc, laws); err != nil {
		out.Close()
		log.Fatalf("[-] %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("[*] %d tracks, %d animations, horizon %g @ %d FPS\n",
		len(project.Stage.Tracks), len(project.Stage.Runs), project.Stage.Horizon, cfg.FPS)

	rep, err := project.Run(ctx)
	if cerr := out.Close(); cerr != nil && err == nil {
		err = cerr
	}
	if err != nil {
		log.Fatalf("[-] Bake %s failed: %v", rep.BakeID, err)
	}

	if cfg.ShowStats {
		st, err := system.Collect(startTime)
		if err != nil {
			fmt.Printf("[!] Process stats unavailable: %v\n", err)
		} else {
			fmt.Printf("--- [STATS] ---\nBuild: %s\nFrames: %d | Samples: %d | Bake: %s\n%s\n---------------\n",
				cfg.BuildVersion, rep.Frames, rep.Samples, rep.Elapsed.Round(time.Millisecond), st)
		}
	}

	fmt.Printf("[+++] Done! %d frames -> %s\n", rep.Frames, cfg.Output)
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	zc := zap.NewProductionConfig()
	zc.OutputPaths = []string{"stderr"}
	return zc.Build()
}

// openSinks opens the output target and, with a broker configured, adds an
// MQTT stream next to it.
func openSinks(cfg *config.Config, logger *zap.Logger) (sink.Sink, error) {
	primary, err := sink.Open(cfg.Output)
	if err != nil {
		return nil, err
	}
	if cfg.MQTTBroker == "" {
		return primary, nil
	}

	client, err := sink.Connect(cfg.MQTTBroker, "animatr-"+uuid.NewString()[:8], cfg.MQTTUser, cfg.MQTTPass)
	if err != nil {
		primary.Close()
		return nil, err
	}
	logger.Info("mqtt connected", zap.String("broker", cfg.MQTTBroker), zap.String("topic", cfg.MQTTTopic))
	fmt.Printf("[*] Streaming frames to %s (%s)\n", cfg.MQTTBroker, cfg.MQTTTopic)

	pub := sink.ClientPublisher{Client: client, Timeout: 5 * time.Second}
	stream := sink.NewMQTT(pub, cfg.MQTTTopic, func() { client.Disconnect(250) })
	return sink.Multi{primary, stream}, nil
}

func plotLaw(cfg *config.Config, laws *motion.Registry) error {
	l, err := scene.LookupLaw(laws, cfg.PlotLaw)
	if err != nil {
		return fmt.Errorf("%w, see -list-laws", err)
	}
	path := cfg.PlotOut
	if path == "" {
		os.MkdirAll("output", 0755)
		path = filepath.Join("output", strings.ReplaceAll(cfg.PlotLaw, ":", "_")+".png")
	}

	img := plot.Law(cfg.PlotLaw, l, cfg.PlotWidth, cfg.PlotHeight)
	defer plot.Release(img)
	if err := plot.WritePNG(path, img); err != nil {
		return err
	}
	fmt.Printf("[+++] Plot saved: %s\n", path)
	return nil
}

func printExpressions(sc *scene.Scene, laws *motion.Registry) error {
	st, err := sc.Build(laws, nil)
	if err != nil {
		return err
	}
	for _, tr := range st.Tracks {
		fmt.Printf("%s: %s\n", tr.Name, renderer.Expression(laws, tr.Sequence, renderer.Options{Clock: renderer.Seconds}))
	}
	return nil
}
