// Command gqlbench load-tests the execution engine by running a fixed
// benchmark operation through gqlengine.Execute across a configurable number
// of concurrent workers. It builds its own ast.Document and schema rather
// than accepting a --query string, since parsing GraphQL source is outside
// this module's scope (gqlengine consumes an already-parsed Document).
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"github.com/relaygo/gqlengine"
	"github.com/relaygo/gqlengine/ast"
)

type options struct {
	concurrency int
	iterations  int
	verbose     bool
}

func parseFlags(args []string) (*options, error) {
	flags := pflag.NewFlagSet("gqlbench", pflag.ContinueOnError)
	concurrency := flags.IntP("concurrency", "c", 8, "number of concurrent workers")
	iterations := flags.IntP("iterations", "n", 10000, "total number of operations to execute")
	verbose := flags.BoolP("verbose", "v", false, "log per-worker progress at debug level")
	if err := flags.Parse(args); err != nil {
		return nil, err
	}
	if *concurrency <= 0 {
		return nil, fmt.Errorf("--concurrency must be positive")
	}
	if *iterations <= 0 {
		return nil, fmt.Errorf("--iterations must be positive")
	}
	return &options{concurrency: *concurrency, iterations: *iterations, verbose: *verbose}, nil
}

// Run executes the benchmark and writes a one-line summary to w. It's
// separated from main so it can be exercised directly by tests.
func Run(w io.Writer, args []string) error {
	opts, err := parseFlags(args)
	if err != nil {
		return err
	}

	logger := logrus.New()
	logger.SetOutput(w)
	if opts.verbose {
		logger.SetLevel(logrus.DebugLevel)
	} else {
		logger.SetLevel(logrus.WarnLevel)
	}

	schema, doc := benchmarkSchemaAndDocument()

	var completed int64
	var errored int64
	start := time.Now()

	remaining := int64(opts.iterations)
	var wg sync.WaitGroup
	for worker := 0; worker < opts.concurrency; worker++ {
		wg.Add(1)
		workerID := worker
		go func() {
			defer wg.Done()
			for atomic.AddInt64(&remaining, -1) >= 0 {
				resp := gqlengine.Execute(&gqlengine.Request{
					Context:  context.Background(),
					Document: doc,
					Schema:   schema,
					Logger:   logger.WithField("worker", workerID),
				})
				if len(resp.Errors) > 0 {
					atomic.AddInt64(&errored, 1)
				}
				n := atomic.AddInt64(&completed, 1)
				if opts.verbose && n%1000 == 0 {
					logger.WithField("worker", workerID).Debugf("%d operations completed", n)
				}
			}
		}()
	}
	wg.Wait()

	elapsed := time.Since(start)
	rate := float64(completed) / elapsed.Seconds()
	fmt.Fprintf(w, "%d operations in %s (%.0f ops/sec), %d errored, concurrency=%d\n",
		completed, elapsed.Round(time.Millisecond), rate, errored, opts.concurrency)
	return nil
}

// benchmarkSchemaAndDocument builds a small, fixed query (a parallel
// two-field selection) against an in-memory schema, so the benchmark
// exercises field collection, argument coercion, and parallel field
// resolution without depending on a parser.
func benchmarkSchemaAndDocument() (*gqlengine.Schema, *ast.Document) {
	queryType := &gqlengine.ObjectType{
		Name: "Query",
		Fields: map[string]*gqlengine.FieldDefinition{
			"id": {
				Type: gqlengine.IDType,
				Resolve: func(ctx gqlengine.FieldContext) (interface{}, error) {
					return "1", nil
				},
			},
			"name": {
				Type: gqlengine.StringType,
				Resolve: func(ctx gqlengine.FieldContext) (interface{}, error) {
					return "benchmark", nil
				},
			},
		},
	}
	schema, err := gqlengine.NewSchema(&gqlengine.SchemaDefinition{Query: queryType})
	if err != nil {
		panic(err)
	}

	name := func(n string) *ast.Name { return &ast.Name{Name: n} }
	doc := &ast.Document{
		Definitions: []ast.Definition{
			&ast.OperationDefinition{
				Kind: ast.OperationKindQuery,
				SelectionSet: &ast.SelectionSet{
					Selections: []ast.Selection{
						&ast.Field{Name: name("id")},
						&ast.Field{Name: name("name")},
					},
				},
			},
		},
	}
	return schema, doc
}

func main() {
	if err := Run(os.Stdout, os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}
