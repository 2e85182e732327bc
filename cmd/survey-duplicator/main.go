// cmd/survey-duplicator/main.go
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	promclient "github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"survey-duplicator/internal/common/config"
	apperrors "survey-duplicator/internal/common/errors"
	commonhttp "survey-duplicator/internal/common/http"
	"survey-duplicator/internal/common/logger"
	"survey-duplicator/internal/common/metrics"
	"survey-duplicator/internal/common/observability"
	"survey-duplicator/internal/common/qualtrics"
	"survey-duplicator/internal/duplicator"
)

const serviceName = "survey-duplicator"

// runOptions lets tests swap the transport, logger construction and metric registries.
type runOptions struct {
	doer       commonhttp.Doer
	newLogger  func(level, format string) (*zap.Logger, error)
	registerer promclient.Registerer
	gatherer   promclient.Gatherer
}

func main() {
	zapLog, err := logger.New("info", "console")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := execute(ctx, os.Args, os.Stdout, zapLog, runOptions{})
	stop()

	_ = zapLog.Sync()
	os.Exit(code)
}

// execute runs the batch and maps its outcome to a process exit code. The
// outcome is logged through the configured logger, or bootLog if run failed
// before building one.
func execute(ctx context.Context, args []string, stdout io.Writer, bootLog *zap.Logger, opts runOptions) int {
	log, err := run(ctx, args, stdout, opts)
	if log == nil {
		log = logger.NewZapAdapter(bootLog)
	}
	return apperrors.NewErrorHandler(log).HandleRunError(err)
}

// run returns the configured logger once one exists, alongside the run error.
func run(ctx context.Context, args []string, stdout io.Writer, opts runOptions) (logger.Logger, error) {
	if len(args) != 3 {
		fmt.Fprintf(stdout, "usage: %s <template survey id> <course csv>\n", programName(args))
		return nil, apperrors.NewUsageError(fmt.Sprintf("expected 2 arguments, got %d", max(len(args)-1, 0)))
	}
	templateSurveyID, courseFile := args[1], args[2]

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	newLogger := opts.newLogger
	if newLogger == nil {
		newLogger = logger.New
	}
	zapLog, err := newLogger(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return nil, apperrors.NewConfigurationError(err.Error())
	}
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog).WithFields(map[string]interface{}{
		"service": serviceName,
	})

	obs, err := observability.New(serviceName, observability.Options{Registerer: opts.registerer})
	if err != nil {
		log.Warn("Observability disabled", map[string]interface{}{"error": err.Error()})
		obs = nil
	} else {
		defer obs.Shutdown()
	}

	// Must run before obs.Shutdown.
	if cfg.Metrics.Textfile != "" {
		defer func() {
			if err := metrics.WriteTextfile(cfg.Metrics.Textfile, opts.gatherer); err != nil {
				log.Warn("Failed to write metrics textfile", map[string]interface{}{
					"path":  cfg.Metrics.Textfile,
					"error": err.Error(),
				})
			}
		}()
	}

	courses, err := duplicator.LoadCourses(courseFile)
	if err != nil {
		return log, err
	}
	log.Info("Loaded course list", map[string]interface{}{
		"path":    courseFile,
		"courses": len(courses),
	})

	svc, err := duplicator.NewService(duplicator.ServiceDependencies{
		Client:        qualtrics.NewClient(cfg.Qualtrics, opts.doer),
		Logger:        log,
		Observability: obs,
	}, duplicator.ConfigFromApp(cfg))
	if err != nil {
		return log, apperrors.NewConfigurationError(err.Error())
	}

	out, err := svc.Execute(ctx, &duplicator.Input{
		TemplateSurveyID: templateSurveyID,
		Courses:          courses,
	})
	if err != nil {
		return log, err
	}

	if err := duplicator.WritePairs(stdout, out.Pairs); err != nil {
		return log, fmt.Errorf("write results: %w", err)
	}
	return log, nil
}

func programName(args []string) string {
	if len(args) == 0 || args[0] == "" {
		return serviceName
	}
	return filepath.Base(args[0])
}
