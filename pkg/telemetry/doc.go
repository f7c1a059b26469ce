// Package telemetry provides observability for badge step runs.
//
// It combines structured logging (zerolog), tracing (OpenTelemetry),
// metrics (Prometheus) and a synchronous event publisher behind one
// Telemetry value created at startup:
//
//	cfg := telemetry.DefaultConfig()
//	cfg.Logging.Level = "debug"
//
//	tel, err := telemetry.NewTelemetry(cfg)
//	if err != nil {
//	    return err
//	}
//	defer tel.Shutdown(context.Background())
//
// Each stage of a run is wrapped in a StageScope:
//
//	scope := tel.StartStage(ctx, runID, "install")
//	err := installer.Install(scope.Ctx, opts)
//	scope.End(err)
//
// # Exporters
//
//   - "none": spans are created but not exported (default)
//   - "stdout": pretty-printed spans on stderr
//   - "otlp": OTLP/gRPC to TracingConfig.Endpoint
//
// A run is short-lived, so metrics are not served over HTTP. When
// MetricsConfig.TextfilePath is set they are written once at Shutdown in
// the text exposition format:
//
//   - badgesort_runs_completed_total{status}
//   - badgesort_run_duration_seconds{status}
//   - badgesort_stages_executed_total{stage,status}
//   - badgesort_stage_duration_seconds{stage}
//   - badgesort_errors_by_kind_total{kind}
//   - badgesort_script_arguments
//
// Logs and traces are written to stderr by default; stdout belongs to the
// icon script and the runner's workflow commands.
package telemetry
