// Package nvptx provides the backend plumbing for compiling IR modules
// to NVIDIA's PTX virtual ISA.
//
// The package centers on a Pipeline that runs backend passes over one
// or more compilation units. The pipeline owns the shared NVVM
// annotation cache (see the nvvm package) and guarantees that a unit's
// cached annotation records are dropped when the unit leaves the
// pipeline, so later runs never observe stale metadata.
//
// Example usage:
//
//	m := ir.NewModule("kernels.cu")
//	kern := m.AddFunction(ir.Function{Name: "blur", CallingConv: ir.CallConvPTXKernel})
//	m.AddNamedMetadata(nvvm.AnnotationsName,
//	    ir.Annotation(ir.FuncRef(kern), ir.Property{Name: "reqntidx", Value: 256}))
//
//	p := nvptx.New(nvptx.DefaultOptions())
//	err := p.Run(ctx, []*ir.Module{m}, func(ctx context.Context, pc *nvptx.PassContext) error {
//	    dims, _, err := pc.Annotations.ReqNTID(pc.Module, kern)
//	    ...
//	})
//
// Individual queries are available directly on the cache through
// Annotations() for callers that manage module lifetimes themselves;
// such callers must also call Invalidate on the cache as part of each
// module's teardown.
package nvptx

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/gogpu/nvptx/ir"
	"github.com/gogpu/nvptx/nvvm"
	"github.com/gogpu/nvptx/target"
)

// Options configures a Pipeline.
type Options struct {
	// Target selects the machine the backend lowers for.
	Target target.Machine

	// Workers caps how many modules are processed concurrently
	// (default: GOMAXPROCS).
	Workers int

	// Logger receives per-module progress at debug level.
	// nil discards all output.
	Logger *slog.Logger
}

// DefaultOptions returns sensible default options.
func DefaultOptions() Options {
	return Options{
		Target:  target.Default(),
		Workers: runtime.GOMAXPROCS(0),
	}
}

// Pipeline drives backend passes over compilation units.
type Pipeline struct {
	opts  Options
	cache *nvvm.Cache
	log   *slog.Logger
}

// New creates a Pipeline with its own annotation cache.
func New(opts Options) *Pipeline {
	if opts.Workers <= 0 {
		opts.Workers = runtime.GOMAXPROCS(0)
	}
	log := opts.Logger
	if log == nil {
		// slog.DiscardHandler needs Go 1.24; this toolchain is 1.21.
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Pipeline{
		opts:  opts,
		cache: nvvm.NewCache(),
		log:   log,
	}
}

// Annotations returns the pipeline's annotation cache.
func (p *Pipeline) Annotations() *nvvm.Cache {
	return p.cache
}

// Target returns the machine the pipeline lowers for.
func (p *Pipeline) Target() target.Machine {
	return p.opts.Target
}

// Pass is one backend stage, run once per module.
type Pass func(ctx context.Context, pc *PassContext) error

// PassContext carries everything a pass may consult for one module.
type PassContext struct {
	Module      *ir.Module
	Annotations *nvvm.Cache
	Target      target.Machine
	Log         *slog.Logger
}

// Run executes the passes over each module, processing up to
// Options.Workers modules concurrently. Passes for one module run in
// order on a single goroutine; the first pass error stops that module
// and cancels the rest of the run.
//
// Each module's annotation records are invalidated when its passes
// finish, whether or not they succeeded. Modules must not have their
// annotations mutated while a run is in flight.
func (p *Pipeline) Run(ctx context.Context, modules []*ir.Module, passes ...Pass) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.opts.Workers)
	for _, m := range modules {
		m := m // per-iteration capture; go.mod predates Go 1.22 semantics
		g.Go(func() error {
			defer p.cache.Invalidate(m)
			log := p.log.With("module", m.Name, "target", p.opts.Target.String())
			log.Debug("module begin")
			pc := &PassContext{
				Module:      m,
				Annotations: p.cache,
				Target:      p.opts.Target,
				Log:         log,
			}
			for _, pass := range passes {
				if err := ctx.Err(); err != nil {
					return err
				}
				if err := pass(ctx, pc); err != nil {
					log.Debug("module failed", "error", err)
					return fmt.Errorf("module %s: %w", m.Name, err)
				}
			}
			log.Debug("module done")
			return nil
		})
	}
	return g.Wait()
}
