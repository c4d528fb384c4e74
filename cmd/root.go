package cmd

import (
	"context"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/checkout-sim/checkout-sim/sim/checkout"
)

var (
	// CLI flags for the checkout hall
	configPath       string  // Optional YAML config file
	seed             int64   // Master seed for all random streams
	logLevel         string  // Log verbosity level
	stations         int     // Number of parallel cash registers
	meanInterarrival float64 // Mean time between customer arrivals
	meanService      float64 // Mean service time per customer
	maxWaitingTime   float64 // Patience before a waiting customer gives up
	duration         float64 // Simulation time at which the run stops
	routing          string  // Routing policy name
	arrivalProcess   string  // Interarrival distribution
	arrivalCV        float64 // Interarrival coefficient of variation
	serviceProcess   string  // Service-time distribution
	serviceCV        float64 // Service-time coefficient of variation
	traceLevel       string  // Decision trace verbosity
	replications     int     // Independent runs with consecutive seeds
	parallelism      int     // Replications executed concurrently
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "checkout-sim",
	Short: "Discrete-event simulator for supermarket checkout queues",
}

// runCmd executes the simulation using parameters from the config file and CLI flags
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the checkout simulation",
	Run: func(cmd *cobra.Command, args []string) {
		// Set up logging
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		cfg, err := buildConfig(cmd)
		if err != nil {
			logrus.Fatalf("%v", err)
		}

		if replications > 1 {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			rr, err := checkout.SimulateReplications(ctx, cfg, replications, parallelism)
			if err != nil {
				logrus.Fatalf("Simulation failed: %v", err)
			}
			rr.Print(cmd.OutOrStdout())
			return
		}

		res, err := checkout.Simulate(cfg)
		if err != nil {
			logrus.Fatalf("Simulation failed: %v", err)
		}
		res.Print(cmd.OutOrStdout())

		logrus.Infof("Simulation complete in %s.", res.WallTime)
	},
}

// buildConfig starts from the defaults (or --config), then applies only the
// flags the user set explicitly.
func buildConfig(cmd *cobra.Command) (checkout.Config, error) {
	cfg := checkout.DefaultConfig()
	if configPath != "" {
		loaded, err := checkout.LoadConfig(configPath)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("stations") {
		cfg.Stations = stations
	}
	if flags.Changed("mean-interarrival") {
		cfg.MeanInterarrival = meanInterarrival
	}
	if flags.Changed("mean-service") {
		cfg.MeanService = meanService
	}
	if flags.Changed("max-wait") {
		cfg.MaxWaitingTime = maxWaitingTime
	}
	if flags.Changed("duration") {
		cfg.Duration = duration
	}
	if flags.Changed("routing") {
		cfg.Routing = routing
	}
	if flags.Changed("arrival-process") {
		cfg.Arrival.Process = arrivalProcess
	}
	if flags.Changed("arrival-cv") {
		cv := arrivalCV
		cfg.Arrival.CV = &cv
	}
	if flags.Changed("service-process") {
		cfg.Service.Process = serviceProcess
	}
	if flags.Changed("service-cv") {
		cv := serviceCV
		cfg.Service.CV = &cv
	}
	if flags.Changed("trace-level") {
		cfg.TraceLevel = traceLevel
	}
	return cfg, cfg.Validate()
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	def := checkout.DefaultConfig()

	runCmd.Flags().StringVar(&configPath, "config", "", "Path to a YAML checkout config (flags override its values)")
	runCmd.Flags().Int64Var(&seed, "seed", def.Seed, "Master seed for arrival, service and routing draws")
	runCmd.Flags().StringVar(&logLevel, "log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic)")

	// Checkout hall
	runCmd.Flags().IntVar(&stations, "stations", def.Stations, "Number of cash registers")
	runCmd.Flags().Float64Var(&meanInterarrival, "mean-interarrival", def.MeanInterarrival, "Mean time between customer arrivals")
	runCmd.Flags().Float64Var(&meanService, "mean-service", def.MeanService, "Mean service time per customer")
	runCmd.Flags().Float64Var(&maxWaitingTime, "max-wait", def.MaxWaitingTime, "Maximum waiting time before a customer gives up")
	runCmd.Flags().Float64Var(&duration, "duration", def.Duration, "Simulation duration")
	runCmd.Flags().StringVar(&routing, "routing", def.Routing, "Routing policy (shortest-queue, round-robin, random)")

	// Random processes
	runCmd.Flags().StringVar(&arrivalProcess, "arrival-process", def.Arrival.Process, "Interarrival distribution (exponential, gamma, weibull, constant)")
	runCmd.Flags().Float64Var(&arrivalCV, "arrival-cv", 1.0, "Interarrival coefficient of variation (gamma, weibull)")
	runCmd.Flags().StringVar(&serviceProcess, "service-process", def.Service.Process, "Service-time distribution (exponential, gamma, weibull, constant)")
	runCmd.Flags().Float64Var(&serviceCV, "service-cv", 1.0, "Service-time coefficient of variation (gamma, weibull)")

	runCmd.Flags().StringVar(&traceLevel, "trace-level", def.TraceLevel, "Decision trace level (none, decisions)")

	// Replications
	runCmd.Flags().IntVar(&replications, "replications", 1, "Number of independent runs (seeds seed, seed+1, ...)")
	runCmd.Flags().IntVar(&parallelism, "parallel", 0, "Replications run concurrently (0 = GOMAXPROCS)")

	// Attach `run` as a subcommand to `root`
	rootCmd.AddCommand(runCmd)
}
