// Package bench implements the ascellbench command: it hammers a
// Stack[int] with concurrent pushers and poppers and checks that the
// counts it observes are internally consistent.
package bench

import (
	"fmt"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/go-ascell/ascell"
)

var (
	flagPushers   int
	flagPoppers   int
	flagPerPusher int
	flagVerbose   bool
)

// Cmd is the ascellbench root command.
var Cmd = &cobra.Command{
	Use:   "ascellbench",
	Short: "stress-test the lock-free stack built on AtomicSharedCell",
	RunE:  run,
}

func init() {
	Cmd.Flags().IntVar(&flagPushers, "pushers", 8, "number of concurrent pushing goroutines")
	Cmd.Flags().IntVar(&flagPoppers, "poppers", 8, "number of concurrent popping goroutines")
	Cmd.Flags().IntVar(&flagPerPusher, "per-pusher", 10000, "values pushed by each pusher")
	Cmd.Flags().BoolVar(&flagVerbose, "verbose", false, "emit debug-level logging")
}

func run(cmd *cobra.Command, args []string) error {
	level := slog.LevelInfo
	if flagVerbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	logger.Info("starting stack stress run",
		"pushers", flagPushers, "poppers", flagPoppers, "perPusher", flagPerPusher)

	s := ascell.NewStack[int]()

	var popped atomic.Int64
	start := time.Now()

	var pushWg sync.WaitGroup
	for p := 0; p < flagPushers; p++ {
		p := p
		pushWg.Add(1)
		go func() {
			defer pushWg.Done()
			for i := 0; i < flagPerPusher; i++ {
				s.Push(p*flagPerPusher + i)
			}
		}()
	}

	done := make(chan struct{})
	go func() {
		pushWg.Wait()
		close(done)
	}()

	g := new(errgroup.Group)
	for c := 0; c < flagPoppers; c++ {
		g.Go(func() error {
			for {
				if _, ok := s.Pop(); ok {
					popped.Add(1)
					continue
				}
				select {
				case <-done:
					// a final sweep: a push may have landed between our
					// last failed Pop and the pushers finishing.
					for {
						if _, ok := s.Pop(); !ok {
							return nil
						}
						popped.Add(1)
					}
				default:
				}
			}
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	want := int64(flagPushers) * int64(flagPerPusher)
	elapsed := time.Since(start)
	logger.Info("stress run complete",
		"pushed", want, "popped", popped.Load(), "elapsed", elapsed)

	if popped.Load() != want {
		return fmt.Errorf("ascellbench: lost values: pushed %d, popped %d", want, popped.Load())
	}
	fmt.Printf("ok: %d values round-tripped through the stack in %s\n", popped.Load(), elapsed)
	return nil
}
