package cmd

import (
	"fmt"
	"io"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/browser"
	"github.com/spf13/cobra"
	"gonum.org/v1/plot/vg"

	"github.com/sarchlab/lwsn/datarecording"
	"github.com/sarchlab/lwsn/monitoring"
	"github.com/sarchlab/lwsn/report"
	"github.com/sarchlab/lwsn/sim/timing"
	"github.com/sarchlab/lwsn/wsn/capture"
	"github.com/sarchlab/lwsn/wsn/device"
	"github.com/sarchlab/lwsn/wsn/errormodel"
	"github.com/sarchlab/lwsn/wsn/observe"
	"github.com/sarchlab/lwsn/wsn/scenario"
	"github.com/sarchlab/lwsn/wsn/topology"
	"github.com/sarchlab/lwsn/wsn/tracing"
)

type runOptions struct {
	nodes           int
	count           int
	seed            int64
	minTime         int
	maxTime         int
	payload         int
	until           float64
	errorRate       float64
	dataRate        float64
	mediumDelay     float64
	processingDelay float64
	queueCapacity   int

	db        string
	pcap      string
	plot      string
	verbose   bool
	logEvents bool

	monitor     bool
	openMonitor bool
	monitorPort int
}

var runOpts runOptions

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a line with randomly originated packets.",
	Long: "`run` builds a line of --nodes nodes, lets --count random sensors " +
		"originate one packet each, runs the simulation, and prints the " +
		"latency observed at the gateways.",
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runSimulation(runOpts, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	f := runCmd.Flags()
	f.IntVar(&runOpts.nodes, "nodes", 8, "Number of nodes, gateways included")
	f.IntVar(&runOpts.count, "count", 100, "Number of originated packets")
	f.Int64Var(&runOpts.seed, "seed", 1, "Seed of the random plan and the error models")
	f.IntVar(&runOpts.minTime, "min-time", 1, "Earliest origination second")
	f.IntVar(&runOpts.maxTime, "max-time", 1000, "Latest origination second")
	f.IntVar(&runOpts.payload, "payload", 100, "Payload size in bytes")
	f.Float64Var(&runOpts.until, "until", 0, "Stop the simulation at this time, 0 runs to the end")
	f.Float64Var(&runOpts.errorRate, "error-rate", 0, "Probability that a received packet is corrupted")
	f.Float64Var(&runOpts.dataRate, "data-rate", 0, "Data rate in bit/s, 0 means instantaneous transmission")
	f.Float64Var(&runOpts.mediumDelay, "medium-delay", 0, "Propagation delay of the medium in seconds")
	f.Float64Var(&runOpts.processingDelay, "processing-delay",
		device.DefaultProcessingDelay, "Reception processing delay in seconds")
	f.IntVar(&runOpts.queueCapacity, "queue-capacity", 100, "Transmit queue capacity of every node")
	f.StringVar(&runOpts.db, "db", "", "Record deliveries and drops into this SQLite file")
	f.StringVar(&runOpts.pcap, "pcap", "", "Capture the medium traffic into this pcap file")
	f.StringVar(&runOpts.plot, "plot", "", "Write the latency plot to this .png or .svg file")
	f.BoolVar(&runOpts.verbose, "verbose", false, "Log every delivery and drop")
	f.BoolVar(&runOpts.logEvents, "log-events", false, "Log every handled event")
	f.BoolVar(&runOpts.monitor, "monitor", false, "Serve the monitoring API while running")
	f.BoolVar(&runOpts.openMonitor, "open-monitor", false, "Open the monitor in a browser, implies --monitor")
	f.IntVar(&runOpts.monitorPort, "monitor-port", 0, "Port of the monitor, 0 picks a free one")
}

func (o runOptions) validate() error {
	switch {
	case o.nodes < 3:
		return fmt.Errorf("need at least 3 nodes, got %d", o.nodes)
	case o.count < 0:
		return fmt.Errorf("invalid count %d", o.count)
	case o.minTime < 0 || o.minTime > o.maxTime:
		return fmt.Errorf("invalid time range [%d, %d]", o.minTime, o.maxTime)
	case o.payload < 0:
		return fmt.Errorf("invalid payload size %d", o.payload)
	case o.errorRate < 0 || o.errorRate > 1:
		return fmt.Errorf("error rate %v out of [0, 1]", o.errorRate)
	case o.dataRate < 0 || o.mediumDelay < 0 || o.processingDelay < 0:
		return fmt.Errorf("rates and delays must not be negative")
	}

	return nil
}

type progressOriginator struct {
	scenario.Originator
	bar *monitoring.ProgressBar
}

func (o progressOriginator) Originate(payload []byte) bool {
	o.bar.IncrementFinished(1)
	return o.Originator.Originate(payload)
}

func runSimulation(o runOptions, out io.Writer) (err error) {
	if err = o.validate(); err != nil {
		return err
	}

	var closers []io.Closer
	defer func() {
		for i := len(closers) - 1; i >= 0; i-- {
			if e := closers[i].Close(); e != nil {
				err = multierror.Append(err, e)
			}
		}
	}()

	engine := timing.NewSerialEngine()
	if o.logEvents {
		engine.AcceptHook(timing.NewEventLogger(log.New(os.Stderr, "", 0)))
	}

	collector := observe.NewCollector()
	sinks := observe.MultiSink{collector}

	if o.verbose {
		sinks = append(sinks, observe.NewLogSink(log.New(out, "", 0)))
	}

	if o.db != "" {
		recorder := datarecording.New(strings.TrimSuffix(o.db, ".sqlite3"))
		closers = append(closers, recorder)
		sinks = append(sinks, datarecording.NewSink(recorder))
	}

	lb := topology.MakeLineBuilder().
		WithEngine(engine).
		WithNumNodes(o.nodes).
		WithMediumDelay(o.mediumDelay).
		WithProcessingDelay(o.processingDelay).
		WithDataRate(o.dataRate).
		WithQueueCapacity(o.queueCapacity).
		WithSink(sinks)

	if o.errorRate > 0 {
		lb = lb.WithErrorModels(func(i int) errormodel.Model {
			return errormodel.NewRateModel(o.errorRate, o.seed+int64(i))
		})
	}

	line := lb.Build("Line")
	closers = append(closers, closerFunc(func() error {
		line.Close()
		return nil
	}))

	busy := tracing.NewBusyTimeTracer(engine)
	for _, d := range line.Devices {
		d.AcceptHook(busy)
	}

	frames := tracing.NewFrameCountTracer()
	line.Medium.AcceptHook(frames)

	var pcap *capture.Writer
	if o.pcap != "" {
		pcap, err = capture.Create(o.pcap)
		if err != nil {
			return err
		}

		closers = append(closers, pcap)
		line.Medium.AcceptHook(pcap)
	}

	var mon *monitoring.Monitor
	if o.monitor || o.openMonitor {
		mon = startMonitor(o, engine, collector, line)
	}

	originators := make([]scenario.Originator, len(line.Devices))
	for i, d := range line.Devices {
		originators[i] = d
	}

	if mon != nil {
		bar := mon.CreateProgressBar("Originations", uint64(o.count))
		defer mon.CompleteProgressBar(bar)

		for i, d := range line.Devices {
			originators[i] = progressOriginator{Originator: d, bar: bar}
		}
	}

	rng := rand.New(rand.NewSource(o.seed))
	plan := scenario.PlanRandom(rng, o.count, 1, o.nodes-2, o.minTime, o.maxTime)
	driver := scenario.NewDriver(engine, originators, o.payload)
	driver.Schedule(plan)

	if o.until > 0 {
		err = engine.RunUntil(o.until)
	} else {
		err = engine.Run()
	}

	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Simulated %.3f s, %d originations, %d rejected, %d frames on the medium.\n",
		engine.Now(), driver.NumStarted(), driver.NumRejected(), line.Medium.NumSent())

	busy.TerminateAll()
	printTraces(out, engine.Now(), busy, frames)

	if pcap != nil {
		fmt.Fprintf(out, "Captured %d frames into %s.\n", pcap.Count(), o.pcap)
	}

	if err = printResults(out, collector.Deliveries(), dropCounts(collector.Drops())); err != nil {
		return err
	}

	if o.plot != "" {
		return savePlot(o.plot, collector.Deliveries())
	}

	return nil
}

func startMonitor(
	o runOptions,
	engine timing.Engine,
	collector *observe.Collector,
	line *topology.Line,
) *monitoring.Monitor {
	mon := monitoring.NewMonitor()
	if o.monitorPort != 0 {
		mon = mon.WithPortNumber(o.monitorPort)
	}

	mon.RegisterEngine(engine)
	mon.RegisterCollector(collector)
	mon.RegisterComponent(line.Medium)

	for _, d := range line.Devices {
		mon.RegisterComponent(d)
	}

	url := mon.StartServer()

	if o.openMonitor {
		if err := browser.OpenURL(url); err != nil {
			log.Printf("cannot open %s: %v", url, err)
		}
	}

	return mon
}

type closerFunc func() error

func (f closerFunc) Close() error {
	return f()
}

func dropCounts(drops []observe.Drop) map[string]int {
	counts := make(map[string]int)
	for _, d := range drops {
		counts[d.Reason.String()]++
	}

	return counts
}

func printTraces(
	out io.Writer,
	now timing.VTimeInSec,
	busy *tracing.BusyTimeTracer,
	frames *tracing.FrameCountTracer,
) {
	kinds := frames.Kinds()
	for i, k := range kinds {
		if i == 0 {
			fmt.Fprint(out, "Frames by kind:")
		}

		fmt.Fprintf(out, " %s %d", k, frames.Count(k))

		if i == len(kinds)-1 {
			fmt.Fprintln(out)
		}
	}

	name, busyTime, ok := busy.Busiest()
	if !ok || now <= 0 {
		return
	}

	fmt.Fprintf(out, "Busiest node: %s, %.3f s (%.1f%% of the run).\n",
		name, busyTime, 100*busyTime/now)
}

func printResults(
	out io.Writer,
	deliveries []observe.Delivery,
	drops map[string]int,
) error {
	fmt.Fprintln(out)

	if err := report.WriteText(out, report.Summarize(deliveries)); err != nil {
		return err
	}

	reasons := make([]string, 0, len(drops))
	for r := range drops {
		reasons = append(reasons, r)
	}

	sort.Strings(reasons)

	for _, r := range reasons {
		fmt.Fprintf(out, "Dropped %d packets: %s\n", drops[r], r)
	}

	return nil
}

func savePlot(path string, deliveries []observe.Delivery) error {
	format := strings.TrimPrefix(filepath.Ext(path), ".")
	if format == "" {
		format = "png"
	}

	p, err := report.LatencyPlot("Gateway latency", deliveries)
	if err != nil {
		return err
	}

	return report.SavePlot(p, 6*vg.Inch, 4*vg.Inch, path, format)
}
