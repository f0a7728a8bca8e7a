package metrics

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/hashicorp/go-hclog"
	gometrics "github.com/hashicorp/go-metrics"
	promsink "github.com/hashicorp/go-metrics/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	// ServiceName prefixes every metric emitted by minterctl
	ServiceName = "minterctl"

	revertPrefix = "revert"
	txPrefix     = "tx"
	tokenPrefix  = "token"
)

// Revert assertion outcomes
const (
	OutcomeReverted    = "reverted"
	OutcomeNotReverted = "not_reverted"
	OutcomeTransient   = "transient"
	OutcomeExhausted   = "exhausted"
)

// Setup installs the global metrics sink.
// With an empty prometheusAddr metrics are kept in memory, otherwise they are
// exposed on prometheusAddr under /metrics until the returned stop function is called.
func Setup(prometheusAddr string, logger hclog.Logger) (func(), error) {
	cfg := gometrics.DefaultConfig(ServiceName)
	cfg.EnableHostname = false
	cfg.EnableRuntimeMetrics = false

	if prometheusAddr == "" {
		inm := gometrics.NewInmemSink(10*time.Second, time.Minute)
		if _, err := gometrics.NewGlobal(cfg, inm); err != nil {
			return nil, err
		}

		return func() {}, nil
	}

	sink, err := promsink.NewPrometheusSink()
	if err != nil {
		return nil, fmt.Errorf("failed to create prometheus sink: %w", err)
	}

	if _, err := gometrics.NewGlobal(cfg, sink); err != nil {
		return nil, err
	}

	listener, err := net.Listen("tcp", prometheusAddr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", prometheusAddr, err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 60 * time.Second,
	}

	go func() {
		logger.Info("prometheus server started", "addr", listener.Addr().String())

		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("prometheus server failed", "err", err)
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		_ = srv.Shutdown(ctx)
	}, nil
}

// RevertAttempt records one attempt of a revert assertion with its outcome
func RevertAttempt(outcome string) {
	gometrics.IncrCounterWithLabels([]string{revertPrefix, "attempts"}, 1,
		[]gometrics.Label{{Name: "outcome", Value: outcome}})
}

// RevertAssertion records the final outcome of a revert assertion and the attempts it took
func RevertAssertion(outcome string, attempts uint64) {
	labels := []gometrics.Label{{Name: "outcome", Value: outcome}}

	gometrics.IncrCounterWithLabels([]string{revertPrefix, "assertions"}, 1, labels)
	gometrics.AddSampleWithLabels([]string{revertPrefix, "attempts_per_assertion"}, float32(attempts), labels)
}

// TransactionMined records a mined transaction and its gas usage
func TransactionMined(gasUsed uint64, success bool) {
	status := "success"
	if !success {
		status = "failed"
	}

	labels := []gometrics.Label{{Name: "status", Value: status}}

	gometrics.IncrCounterWithLabels([]string{txPrefix, "mined"}, 1, labels)
	gometrics.AddSampleWithLabels([]string{txPrefix, "gas_used"}, float32(gasUsed), labels)
}

// TokensMinted records the number of tokens minted by one transaction
func TokensMinted(n int) {
	gometrics.IncrCounter([]string{tokenPrefix, "minted"}, float32(n))
}

// TokensEvolved records the number of tokens evolved by one transaction
func TokensEvolved(n int) {
	gometrics.IncrCounter([]string{tokenPrefix, "evolved"}, float32(n))
}
