package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	kitlog "github.com/go-kit/kit/log"
	"github.com/willAlbertini707/orbitprop"
)

// This reads the configuration file, propagates the orbit and writes the requested outputs.

var (
	confPath    string
	pushGateway string
	verbose     bool
)

func init() {
	flag.StringVar(&confPath, "config", ".env", "configuration file (KEY=value lines)")
	flag.StringVar(&pushGateway, "pushgateway", "", "Prometheus push gateway URL, metrics are not pushed if unset")
	flag.BoolVar(&verbose, "verbose", false, "also log informational records")
}

func main() {
	flag.Parse()
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "orbitprop: %s error: %s\n", orbitprop.ErrorKind(err), err)
		os.Exit(1)
	}
}

func run() error {
	conf, err := orbitprop.LoadConfig(confPath)
	if err != nil {
		return err
	}
	logger := newLogger(kitlog.NewSyncWriter(os.Stderr), conf.LogFormat, verbose)

	metrics, err := orbitprop.NewMetrics(nil)
	if err != nil {
		return err
	}
	prop, err := orbitprop.NewPropagator(conf.Initial, conf.Params,
		orbitprop.WithLogger(logger),
		orbitprop.WithMetrics(metrics),
		orbitprop.WithPerturbations(conf.Perturbations),
		orbitprop.WithMaxSteps(conf.MaxSteps))
	if err != nil {
		return err
	}
	propErr := prop.Propagate(conf.T0, conf.Tf, conf.Dx)
	// Failed runs are pushed too.
	if pushGateway != "" {
		if err := metrics.Push(pushGateway, "orbitprop"); err != nil {
			logger.Log("level", "warning", "subsys", "metrics", "message", "push failed", "err", err)
		}
	}
	if propErr != nil {
		return propErr
	}

	if conf.OutputFile == "" {
		if err := prop.WriteCSV(os.Stdout); err != nil {
			return err
		}
	} else if err := prop.WriteCSVFile(conf.OutputFile); err != nil {
		return err
	}
	if conf.ElementsFile != "" {
		if err := prop.WriteElementsCSVFile(conf.ElementsFile); err != nil {
			return err
		}
	}
	if conf.CosmoDir != "" {
		if err := prop.WriteCosmographia(conf.CosmoDir, conf.Name); err != nil {
			return err
		}
	}
	logger.Log("level", "info", "subsys", "main", "status", "done", "output", conf.OutputFile)
	return nil
}

// newLogger drops the informational records unless verbose is set.
func newLogger(w io.Writer, format string, verbose bool) kitlog.Logger {
	var logger kitlog.Logger
	if format == "json" {
		logger = kitlog.NewJSONLogger(w)
	} else {
		logger = kitlog.NewLogfmtLogger(w)
	}
	logger = kitlog.With(logger, "ts", kitlog.DefaultTimestampUTC)
	if verbose {
		return logger
	}
	return kitlog.LoggerFunc(func(keyvals ...interface{}) error {
		for i := 0; i+1 < len(keyvals); i += 2 {
			if keyvals[i] == "level" && keyvals[i+1] == "info" {
				return nil
			}
		}
		return logger.Log(keyvals...)
	})
}
