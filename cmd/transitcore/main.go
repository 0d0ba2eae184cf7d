// Command transitcore loads a network and passenger demand, synthesizes
// a schedule, runs the simulation, and writes the three-section report.
//
// Grounded on original_source/src/parsing/cmdargs_parser.c++ for the
// flag surface (--graphics, --debug, --DL::<LEVEL>, --data-num <n>),
// reimplemented with spf13/cobra + spf13/pflag as the teacher's wider
// example pack (inference-sim, tidbyt-gtfs) does for its own CLIs.
package main

import (
	"fmt"
	"os"

	log "gopkg.in/inconshreveable/log15.v2"

	"github.com/spf13/cobra"

	"github.com/ts2/transitcore/config"
	"github.com/ts2/transitcore/internal/logging"
	"github.com/ts2/transitcore/parsing"
	"github.com/ts2/transitcore/report"
	"github.com/ts2/transitcore/routing"
	"github.com/ts2/transitcore/schedule"
	"github.com/ts2/transitcore/scheduler"
	"github.com/ts2/transitcore/server"
	"github.com/ts2/transitcore/simulation"
)

var (
	flagConfig    string
	flagNetwork   string
	flagManifest  string
	flagGraphics  bool
	flagDebug     bool
	flagDataNum   int
	flagDLDebug   bool
	flagDLWarn    bool
	flagDLError   bool
	flagDuration  int
	flagReportOut string
	flagServe     bool
	flagAddr      string
	flagPort      string
)

func main() {
	root := &cobra.Command{
		Use:   "transitcore",
		Short: "Synthesize a train schedule and simulate passenger routing over it",
		RunE:  run,
	}

	flags := root.Flags()
	flags.StringVar(&flagConfig, "config", "", "YAML configuration file (optional, defaults applied otherwise)")
	flags.StringVar(&flagNetwork, "network", "", "network/passenger-spec input file (required)")
	flags.StringVar(&flagManifest, "manifest", "", "optional tabular passenger manifest CSV, in addition to --network's periodic specs")
	flags.BoolVar(&flagGraphics, "graphics", false, "enable graphical display (unsupported: rendering is out of scope, flag kept for CLI-surface parity)")
	flags.BoolVar(&flagDebug, "debug", false, "enable debug-level logging")
	flags.IntVar(&flagDataNum, "data-num", 1, "number of times to replicate the statistical passenger set when seeding demand")
	flags.BoolVar(&flagDLDebug, "DL::DEBUG", false, "set log level to debug")
	flags.BoolVar(&flagDLWarn, "DL::WARN", false, "set log level to warn")
	flags.BoolVar(&flagDLError, "DL::ERROR", false, "set log level to error")
	flags.IntVar(&flagDuration, "duration", 240, "simulated duration to run for")
	flags.StringVar(&flagReportOut, "report-out", "", "path to write the report to (default: stdout)")
	flags.BoolVar(&flagServe, "serve", false, "run the HTTP+WebSocket observation server instead of a one-shot batch report")
	flags.StringVar(&flagAddr, "addr", server.DefaultAddr, "address for --serve")
	flags.StringVar(&flagPort, "port", server.DefaultPort, "port for --serve")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(-1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	configureLogging()
	_ = flagGraphics

	if flagNetwork == "" {
		return fmt.Errorf("--network is required")
	}

	cfg := config.Default()
	if flagConfig != "" {
		var err error
		cfg, err = config.Load(flagConfig)
		if err != nil {
			return err
		}
	}

	f, err := os.Open(flagNetwork)
	if err != nil {
		return err
	}
	defer f.Close()

	parsed, err := parsing.ParseNetwork(f)
	if err != nil {
		return err
	}

	var demand []schedule.Passenger
	nextID := schedule.PassengerID(0)
	for i := 0; i < flagDataNum; i++ {
		for _, sp := range parsed.Statistical {
			demand = append(demand, schedule.Passenger{
				ID: nextID, Name: fmt.Sprintf("seed%d", nextID),
				Entry: sp.Entry, Exit: sp.Exit, StartTime: 0,
			})
			nextID++
		}
	}

	if flagManifest != "" {
		mf, err := os.Open(flagManifest)
		if err != nil {
			return err
		}
		defer mf.Close()
		rows, err := parsing.ParseManifest(mf, parsed.Network)
		if err != nil {
			return err
		}
		for _, p := range rows {
			p.ID = nextID
			nextID++
			demand = append(demand, p)
		}
	}

	sched, err := scheduler.New(cfg.Strategy).Synthesize(parsed.Network, demand, cfg)
	if err != nil {
		return err
	}

	graph := routing.NewScheduleGraph(sched, schedule.Time(cfg.Quantum))
	router := routing.NewPassengerRouter(graph, parsed.Network, cfg.Horizon)
	gen := simulation.NewPassengerGenerator(parsed.Statistical, 0)

	if flagServe {
		server.InitializeLogger(logging.Root)
		server.Configure(parsed.Network, sched, router, gen, demand, cfg)
		server.Run(flagAddr, flagPort)
		return nil
	}

	sim := simulation.New(parsed.Network, sched, router, gen)

	for _, p := range demand {
		if err := sim.AddPassenger(p); err != nil {
			return err
		}
	}

	if err := sim.RunForTime(schedule.Time(flagDuration), schedule.Time(cfg.MaxStepSize)); err != nil {
		return err
	}

	out := os.Stdout
	if flagReportOut != "" {
		rf, err := os.Create(flagReportOut)
		if err != nil {
			return err
		}
		defer rf.Close()
		out = rf
	}

	var routes []report.PassengerRoute
	for _, p := range demand {
		j, err := router.FindRoute(p.Entry, p.StartTime, p.Exit)
		if err != nil {
			continue
		}
		routes = append(routes, report.PassengerRoute{Passenger: p, Journey: j})
	}

	report.WritePassengerRouteStats(out, routes)
	report.WriteSimulationPassengerStats(out, routes, sim.Exits())
	report.WriteTrains(out, sched)

	return nil
}

func configureLogging() {
	handler := log.StreamHandler(os.Stdout, log.LogfmtFormat())
	lvl := log.LvlInfo
	switch {
	case flagDLDebug || flagDebug:
		lvl = log.LvlDebug
	case flagDLWarn:
		lvl = log.LvlWarn
	case flagDLError:
		lvl = log.LvlError
	}
	logging.SetLevel(lvl, handler)
}
