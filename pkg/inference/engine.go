/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: engine.go
Description: Recursive inference engine. Each tree position runs the type rule, pseudo-array
classification and the registered comparators, strips deletion markers, then either resolves
the union branches it produced or descends into properties and items.
*/

package inference

import (
	"context"
	"fmt"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/google/uuid"
	"github.com/kleascm/genschema/pkg/comparators"
	"github.com/kleascm/genschema/pkg/interfaces"
	"github.com/kleascm/genschema/pkg/pseudoarray"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// EngineConfig holds the engine settings fixed at construction
type EngineConfig struct {
	UnionKeyword   UnionKeyword
	PseudoArrays   interfaces.PseudoArrayClassifier // nil disables pseudo-array handling
	TypeComparator interfaces.CoreComparator
	Logger         *logrus.Logger
	Reporter       interfaces.Reporter
	Parallelism    int // sibling positions evaluated concurrently, <= 1 is sequential
}

// DefaultEngineConfig returns anyOf unions with contiguous pseudo-array detection
func DefaultEngineConfig() *EngineConfig {
	return &EngineConfig{
		UnionKeyword:   AnyOf,
		PseudoArrays:   pseudoarray.NewContiguousClassifier(),
		TypeComparator: comparators.NewTypeComparator(),
		Logger:         logrus.StandardLogger(),
		Parallelism:    1,
	}
}

// Engine infers one schema from the resources of its registry
type Engine struct {
	config      *EngineConfig
	registry    *Registry
	comparators *comparators.Set
	logger      *logrus.Logger
	reporter    interfaces.Reporter
	sem         chan struct{}
	dumper      *spew.ConfigState
}

// NewEngine creates an engine. A nil config uses DefaultEngineConfig.
func NewEngine(config *EngineConfig) (*Engine, error) {
	if config == nil {
		config = DefaultEngineConfig()
	}
	cfg := *config
	if cfg.UnionKeyword == "" {
		cfg.UnionKeyword = AnyOf
	}
	keyword, err := ParseUnionKeyword(string(cfg.UnionKeyword))
	if err != nil {
		return nil, err
	}
	cfg.UnionKeyword = keyword
	if cfg.TypeComparator == nil {
		cfg.TypeComparator = comparators.NewTypeComparator()
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.StandardLogger()
	}

	e := &Engine{
		config:      &cfg,
		registry:    NewRegistry(),
		comparators: &comparators.Set{},
		logger:      cfg.Logger,
		reporter:    cfg.Reporter,
		dumper:      &spew.ConfigState{Indent: "  ", SortKeys: true, DisablePointerAddresses: true, DisableCapacities: true},
	}
	if cfg.Parallelism > 1 {
		e.sem = make(chan struct{}, cfg.Parallelism-1)
	}
	return e, nil
}

// Register appends a comparator to the rule chain
func (e *Engine) Register(c interfaces.Comparator) error {
	if err := e.comparators.Add(c); err != nil {
		return fmt.Errorf("failed to register comparator: %w", err)
	}
	return nil
}

// AddSchema registers a schema fragment and returns its id
func (e *Engine) AddSchema(content interface{}) string {
	return e.registry.AddSchema(content).ID
}

// AddSample registers a JSON sample and returns its id
func (e *Engine) AddSample(content interface{}) string {
	return e.registry.AddSample(content).ID
}

// Registry returns the engine's resource registry
func (e *Engine) Registry() *Registry {
	return e.registry
}

// Comparators returns the names of the registered rules in order
func (e *Engine) Comparators() []string {
	return e.comparators.Names()
}

// UnionKeyword returns the keyword used for type alternatives
func (e *Engine) UnionKeyword() UnionKeyword {
	return e.config.UnionKeyword
}

// Run infers the schema of every registered resource
func (e *Engine) Run() interfaces.Node {
	node, _ := e.RunContext(context.Background())
	return node
}

// RunContext infers the schema, giving up with ctx.Err() once ctx is done
func (e *Engine) RunContext(ctx context.Context) (interfaces.Node, error) {
	start := time.Now()
	root := e.registry.Context()
	log := e.logger.WithField("run_id", uuid.NewString())

	log.WithFields(logrus.Fields{
		"schemas":     len(root.Schemas),
		"samples":     len(root.Samples),
		"comparators": e.comparators.Names(),
		"union":       e.config.UnionKeyword,
	}).Debug("Starting schema inference")

	node, err := e.runLevel(ctx, log, root, "", interfaces.Node{})
	if err != nil {
		log.WithError(err).Warn("Schema inference aborted")
		return nil, err
	}

	log.WithField("duration", time.Since(start)).Debug("Schema inference finished")
	return node, nil
}

// runLevel processes one tree position
func (e *Engine) runLevel(ctx context.Context, log *logrus.Entry, pc interfaces.ProcessingContext, env string, prev interfaces.Node) (interfaces.Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	node := prev.Clone()
	if node == nil {
		node = interfaces.Node{}
	}

	e.apply(log, e.config.TypeComparator, pc, env, node)

	// a type union defers everything else to its branches
	key := string(e.config.UnionKeyword)
	if branches, ok := node[key].([]interfaces.Node); ok && len(branches) > 0 {
		if err := e.resolveUnion(ctx, log, pc, env, node, branches); err != nil {
			return nil, err
		}
		e.report(env, node)
		return node, nil
	}

	isPseudo, pattern := false, ""
	if node.Type() == comparators.TypeObject && e.config.PseudoArrays != nil {
		isPseudo, pattern = e.config.PseudoArrays.Classify(propertyNames(pc), pc)
		node[interfaces.PseudoArrayKey] = isPseudo
	}

	for _, c := range e.comparators.All() {
		e.apply(log, c, pc, env, node)
	}

	if removed := node.StripDeletions(); len(removed) > 0 && e.logger.IsLevelEnabled(logrus.TraceLevel) {
		log.WithFields(logrus.Fields{"env": env, "removed": removed}).Trace("Stripped transient keywords")
	}

	if branches, ok := node[key].([]interfaces.Node); ok && len(branches) > 0 {
		if err := e.resolveUnion(ctx, log, pc, env, node, branches); err != nil {
			return nil, err
		}
		e.report(env, node)
		return node, nil
	}

	var err error
	switch node.Type() {
	case comparators.TypeObject:
		if isPseudo {
			err = e.runPseudoArray(ctx, log, pc, env, node, pattern)
		} else {
			err = e.runObject(ctx, log, pc, env, node)
		}
	case comparators.TypeArray:
		err = e.runArray(ctx, log, pc, env, node)
	}
	if err != nil {
		return nil, err
	}

	e.report(env, node)
	return node, nil
}

// apply runs one rule against the draft, merging its direct contribution and queuing alternatives
func (e *Engine) apply(log *logrus.Entry, c interfaces.Comparator, pc interfaces.ProcessingContext, env string, node interfaces.Node) {
	if !c.CanApply(pc, env, node) {
		return
	}
	direct, variants := c.Apply(pc, env, node)
	node.Merge(direct)
	if len(variants) > 0 {
		key := string(e.config.UnionKeyword)
		existing, _ := node[key].([]interfaces.Node)
		node[key] = append(existing, variants...)
	}

	if e.reporter != nil {
		e.reporter.OnComparator(c.Name(), env, direct != nil, len(variants))
	}
	if e.logger.IsLevelEnabled(logrus.TraceLevel) {
		log.WithFields(logrus.Fields{"env": env, "comparator": c.Name()}).Trace("Draft after comparator\n" + e.dumper.Sdump(node))
	}
}

// resolveUnion recurses into each branch with a sealed context scoped to the branch's resources
func (e *Engine) resolveUnion(ctx context.Context, log *logrus.Entry, pc interfaces.ProcessingContext, env string, node interfaces.Node, branches []interfaces.Node) error {
	key := string(e.config.UnionKeyword)
	resolved := make([]interfaces.Node, len(branches))

	err := e.forEach(len(branches), func(i int) error {
		branch := branches[i]
		sub := pc.Restrict(branch.TriggerIDs()).Seal()
		out, err := e.runLevel(ctx, log, sub, fmt.Sprintf("%s/%s/%d", env, key, i), branch)
		if err != nil {
			return err
		}
		resolved[i] = out
		return nil
	})
	if err != nil {
		return err
	}

	node[key] = resolved
	if e.reporter != nil {
		e.reporter.OnUnion(env, key, len(resolved))
	}
	log.WithFields(logrus.Fields{"env": env, "branches": len(resolved)}).Debug("Resolved union")
	return nil
}

// forEach runs fn for 0..n-1, handing work to idle workers when parallelism allows
func (e *Engine) forEach(n int, fn func(i int) error) error {
	if e.sem == nil || n < 2 {
		for i := 0; i < n; i++ {
			if err := fn(i); err != nil {
				return err
			}
		}
		return nil
	}

	var g errgroup.Group
	for i := 0; i < n; i++ {
		select {
		case e.sem <- struct{}{}:
			i := i
			g.Go(func() error {
				defer func() { <-e.sem }()
				return fn(i)
			})
		default:
			if err := fn(i); err != nil {
				_ = g.Wait()
				return err
			}
		}
	}
	return g.Wait()
}

func (e *Engine) report(env string, node interfaces.Node) {
	if e.reporter != nil {
		e.reporter.OnLevel(env, node)
	}
}
