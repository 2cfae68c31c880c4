package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/concourse/ond-art-validator/annotate"
	"github.com/concourse/ond-art-validator/batch"
	"github.com/concourse/ond-art-validator/config"
	"github.com/concourse/ond-art-validator/discover"
	"github.com/concourse/ond-art-validator/schema"
)

func main() {
	configPath := flag.String("config", "", "Optional validator.yml overriding built-in defaults")
	flag.Parse()

	log := logrus.New()
	log.SetOutput(os.Stderr)

	cfg, err := config.Load(*configPath)
	if err != nil {
		fatal(err)
	}

	// A schema that cannot be loaded or compiled aborts the run before any
	// document is touched.
	checker, err := schema.LoadChecker(cfg.SchemaPath)
	if err != nil {
		fatal(err)
	}
	log.WithField("schema", cfg.SchemaPath).Info("schema compiled")

	files, err := discover.Find(cfg.ReportGlob)
	if err != nil {
		fatal(err)
	}
	log.WithFields(logrus.Fields{"glob": cfg.ReportGlob, "files": len(files)}).Info("reports discovered")

	runner := &batch.Runner{
		Config:    cfg,
		Checker:   checker,
		Annotator: annotate.New(os.Stdout),
		Summary:   annotate.NewSummary(cfg.SummaryPath),
		Log:       log,
	}

	if result := runner.Run(files); !result.OK {
		os.Exit(1)
	}
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(2)
}
