package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	tomb "gopkg.in/tomb.v2"

	"github.com/saiputravu/tickbook/internal/common"
	"github.com/saiputravu/tickbook/internal/metrics"
	"github.com/saiputravu/tickbook/internal/stream"
	"github.com/saiputravu/tickbook/internal/twoside"
)

// batchFile is the on-disk JSON shape of a columnar event batch, mirroring
// stream.Columns field-for-field; runBatch copies it into a stream.Columns.
type batchFile struct {
	IsBid     []*bool  `json:"is_bid"`
	Price     []*int64 `json:"price"`
	Qty       []*int64 `json:"qty"`
	PrevPrice []*int64 `json:"prev_price,omitempty"`
	PrevQty   []*int64 `json:"prev_qty,omitempty"`
}

func newRunCmd() *cobra.Command {
	var (
		input        string
		levels       int
		mode         string
		abortOnError bool
		metricsAddr  string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Apply a columnar event batch to a tracked top-N book and print the snapshot sequence",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(runOpts{
				input:        input,
				levels:       levels,
				mode:         mode,
				abortOnError: abortOnError,
				metricsAddr:  metricsAddr,
			})
		},
	}

	cmd.Flags().StringVar(&input, "input", "", "path to a JSON columnar event batch (required)")
	cmd.Flags().IntVar(&levels, "levels", common.MinLevels, "number of top-of-book levels to track, 1..20")
	cmd.Flags().StringVar(&mode, "mode", "delta", "how to interpret plain price/qty rows: 'delta' or 'absolute'")
	cmd.Flags().BoolVar(&abortOnError, "abort-on-error", false, "stop the run at the first rejected row instead of skipping it")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "if set, serve Prometheus metrics on this address for the run's duration")
	_ = cmd.MarkFlagRequired("input")

	return cmd
}

type runOpts struct {
	input        string
	levels       int
	mode         string
	abortOnError bool
	metricsAddr  string
}

func runBatch(opts runOpts) error {
	raw, err := os.ReadFile(opts.input)
	if err != nil {
		return fmt.Errorf("reading input batch: %w", err)
	}
	var file batchFile
	if err := json.Unmarshal(raw, &file); err != nil {
		return fmt.Errorf("parsing input batch: %w", err)
	}

	book, err := twoside.New(opts.levels)
	if err != nil {
		return fmt.Errorf("constructing book: %w", err)
	}

	streamMode := stream.ModeDelta
	if opts.mode == "absolute" {
		streamMode = stream.ModeAbsolute
	}
	driver := stream.New(book, opts.levels, streamMode)
	driver.AbortOnError = opts.abortOnError

	registry := metrics.NewRegistry()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	t, ctx := tomb.WithContext(ctx)

	if opts.metricsAddr != "" {
		server := &http.Server{Addr: opts.metricsAddr, Handler: registry.Handler()}
		t.Go(func() error {
			log.Info().Str("addr", opts.metricsAddr).Msg("serving metrics")
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				return err
			}
			return nil
		})
		t.Go(func() error {
			<-t.Dying()
			return server.Close()
		})
	}

	var result stream.Result
	var runErr error
	t.Go(func() error {
		defer t.Kill(nil)
		result, runErr = driver.Run(stream.Columns{
			IsBid:     file.IsBid,
			Price:     file.Price,
			Qty:       file.Qty,
			PrevPrice: file.PrevPrice,
			PrevQty:   file.PrevQty,
		})
		return nil
	})

	<-ctx.Done()
	_ = t.Wait()

	registry.RowsProcessedTotal.Add(float64(result.RowsProcessed))
	for i := 0; i < result.RowsRejected; i++ {
		registry.RecordRejected("row_rejected")
	}
	registry.ObserveDepth("bid", len(book.BidLevels()))
	registry.ObserveDepth("ask", len(book.AskLevels()))

	if err := printResult(result, opts.levels); err != nil {
		return err
	}
	return runErr
}

func printResult(result stream.Result, levels int) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if levels == 1 {
		return enc.Encode(result.ScalarSnapshots)
	}
	return enc.Encode(result.ArraySnapshots)
}
