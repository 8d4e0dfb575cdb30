package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"cassprep/internal/config"
	"cassprep/internal/corpus"
	"cassprep/internal/extract"
	"cassprep/internal/faults"
	"cassprep/internal/fileutil"
	"cassprep/internal/language"
	"cassprep/internal/ledger"
	"cassprep/internal/logging"
	"cassprep/internal/split"
	"cassprep/internal/textnorm"
	"cassprep/internal/tokenize"
)

// Command names stored in the ledger.
const (
	CommandExtract  = "extract"
	CommandTokenize = "tokenize"
	CommandSplit    = "split"
)

// Options wires a pass. Ledger and Tokenizer are optional; a nil Tokenizer
// selects the rules for tokenizer.language.
type Options struct {
	Config    *config.Config
	Logger    *slog.Logger
	Ledger    *ledger.Store
	Tokenizer Tokenizer
}

// Extract converts every markup document under paths.input_dir into a story
// in paths.output_dir and assigns accepted identifiers to splits.
func Extract(ctx context.Context, opts Options) (Result, error) {
	cfg, err := requireConfig(opts, CommandExtract)
	if err != nil {
		return Result{}, err
	}
	if err := cfg.RequireInputDir(); err != nil {
		return Result{}, faults.Wrap(faults.ErrConfiguration, CommandExtract, "input", "", err)
	}
	assembler, err := newAssembler(opts)
	if err != nil {
		return Result{}, err
	}

	lock, err := acquireLock(cfg.Paths.OutputDir)
	if err != nil {
		return Result{}, err
	}
	defer lock.Unlock()

	mode := cfg.SplitMode()
	ctx, r, err := beginRun(ctx, opts.Ledger, opts.Logger, runInfo(cfg, CommandExtract, cfg.Paths.InputDir, cfg.Paths.OutputDir, mode))
	if err != nil {
		return Result{}, err
	}

	CleanStaleTemps(cfg.Paths.OutputDir, r.logger)
	p := &pass{
		run:       r,
		assembler: assembler,
		outputDir: cfg.Paths.OutputDir,
		sampler:   logging.NewProgressSampler(logging.DefaultProgressInterval),
	}
	tally, err := p.extractAll(ctx, cfg, mode)
	return r.finish(ctx, tally, err)
}

// Retokenize re-tokenizes and normalizes every story in paths.input_dir into
// paths.output_dir, one output per input.
func Retokenize(ctx context.Context, opts Options) (Result, error) {
	cfg, err := requireConfig(opts, CommandTokenize)
	if err != nil {
		return Result{}, err
	}
	if err := cfg.RequireInputDir(); err != nil {
		return Result{}, faults.Wrap(faults.ErrConfiguration, CommandTokenize, "input", "", err)
	}
	assembler, err := newAssembler(opts)
	if err != nil {
		return Result{}, err
	}

	lock, err := acquireLock(cfg.Paths.OutputDir)
	if err != nil {
		return Result{}, err
	}
	defer lock.Unlock()

	ctx, r, err := beginRun(ctx, opts.Ledger, opts.Logger, runInfo(cfg, CommandTokenize, cfg.Paths.InputDir, cfg.Paths.OutputDir, nil))
	if err != nil {
		return Result{}, err
	}

	CleanStaleTemps(cfg.Paths.OutputDir, r.logger)
	p := &pass{
		run:       r,
		assembler: assembler,
		outputDir: cfg.Paths.OutputDir,
		sampler:   logging.NewProgressSampler(logging.DefaultProgressInterval),
	}
	tally, err := p.retokenizeAll(ctx, cfg.Paths.InputDir)
	return r.finish(ctx, tally, err)
}

// Split assigns the stories in storyDir to train, validation, and test lists
// in paths.split_dir using the batch proportions of the split section.
func Split(ctx context.Context, opts Options, storyDir string) (Result, error) {
	cfg, err := requireConfig(opts, CommandSplit)
	if err != nil {
		return Result{}, err
	}
	mode := split.Batch{
		Train:      cfg.Split.Train,
		Validation: cfg.Split.Validation,
		Test:       cfg.Split.Test,
		Seed:       cfg.Split.Seed,
	}
	planner, err := split.NewPlanner(mode, split.ListWriter{Dir: cfg.Paths.SplitDir})
	if err != nil {
		return Result{}, err
	}

	ids, err := corpus.NewStoryReader(storyDir).IDs(ctx)
	if err != nil {
		return Result{}, err
	}

	lock, err := acquireLock(cfg.Paths.SplitDir)
	if err != nil {
		return Result{}, err
	}
	defer lock.Unlock()

	ctx, r, err := beginRun(ctx, opts.Ledger, opts.Logger, runInfo(cfg, CommandSplit, storyDir, cfg.Paths.SplitDir, mode))
	if err != nil {
		return Result{}, err
	}

	var tally Tally
	for _, id := range ids {
		tally.Accepted++
		if _, tally.Split, err = planner.Observe(id, tally.Split); err != nil {
			return r.finish(ctx, tally, err)
		}
	}
	tally, err = finishSplit(ctx, r, planner, tally)
	return r.finish(ctx, tally, err)
}

type pass struct {
	run       *run
	assembler *Assembler
	outputDir string
	sampler   *logging.ProgressSampler
}

func (p *pass) extractAll(ctx context.Context, cfg *config.Config, mode split.Mode) (Tally, error) {
	var tally Tally
	preexisting, err := fileutil.CountFiles(p.outputDir, corpus.StoryExt)
	if err != nil {
		return tally, faults.Wrap(faults.ErrIO, CommandExtract, "count stories", p.outputDir, err)
	}
	tally.Preexisting = preexisting

	planner, err := split.NewPlanner(mode, split.ListWriter{Dir: cfg.Paths.SplitDir})
	if err != nil {
		return tally, err
	}

	reader := corpus.NewMarkupReader(cfg.Paths.InputDir)
	err = reader.Walk(ctx, func(doc corpus.Document) error {
		var stepErr error
		tally, stepErr = p.extractDocument(ctx, doc, planner, tally)
		return stepErr
	})
	if err != nil {
		return tally, err
	}

	if tally, err = finishSplit(ctx, p.run, planner, tally); err != nil {
		return tally, err
	}
	return tally, verifyStories(p.outputDir, tally)
}

func (p *pass) extractDocument(ctx context.Context, doc corpus.Document, planner split.Planner, t Tally) (Tally, error) {
	rec := extract.Extract(doc.ID, textnorm.StripMarker(doc.Content))
	if reason := rec.Check(); reason != extract.ReasonNone {
		p.run.logger.Debug("document skipped",
			logging.String(logging.FieldDocID, doc.ID),
			logging.String(logging.FieldReason, string(reason)),
		)
		err := p.run.recordDocument(ctx, ledger.DocumentOutcome{
			DocID:      doc.ID,
			SourcePath: doc.Path,
			Outcome:    ledger.OutcomeRejected,
			Reason:     string(reason),
		})
		return t.Reject(reason), err
	}

	t, err := p.writeStory(ctx, doc, p.assembler.Story(rec), t)
	if err != nil {
		return t, err
	}

	var assignments []split.Assignment
	assignments, t.Split, err = planner.Observe(doc.ID, t.Split)
	if err != nil {
		return t, err
	}
	if err := p.run.recordAssignments(ctx, assignments); err != nil {
		return t, err
	}
	p.logProgress(t)
	return t, nil
}

func (p *pass) retokenizeAll(ctx context.Context, inputDir string) (Tally, error) {
	var tally Tally
	preexisting, err := fileutil.CountFiles(p.outputDir, corpus.StoryExt)
	if err != nil {
		return tally, faults.Wrap(faults.ErrIO, CommandTokenize, "count stories", p.outputDir, err)
	}
	tally.Preexisting = preexisting

	err = corpus.NewStoryReader(inputDir).Walk(ctx, func(doc corpus.Document) error {
		var stepErr error
		tally, stepErr = p.writeStory(ctx, doc, p.assembler.Text(doc.Content), tally)
		if stepErr == nil {
			p.logProgress(tally)
		}
		return stepErr
	})
	if err != nil {
		return tally, err
	}
	return tally, verifyStories(p.outputDir, tally)
}

// writeStory replaces <id>.story atomically and records the acceptance.
func (p *pass) writeStory(ctx context.Context, doc corpus.Document, story string, t Tally) (Tally, error) {
	path := filepath.Join(p.outputDir, doc.ID+corpus.StoryExt)
	overwrote, err := fileutil.Exists(path)
	if err != nil {
		return t, faults.Wrap(faults.ErrIO, "pipeline", "stat story", path, err)
	}
	if err := fileutil.WriteFileAtomic(path, []byte(story), 0o644); err != nil {
		return t, faults.Wrap(faults.ErrIO, "pipeline", "write story", path, err)
	}
	if overwrote {
		p.run.logger.Debug("story overwritten", logging.String(logging.FieldDocID, doc.ID))
	}
	t = t.Accept(overwrote)
	err = p.run.recordDocument(ctx, ledger.DocumentOutcome{
		DocID:      doc.ID,
		SourcePath: doc.Path,
		Outcome:    ledger.OutcomeAccepted,
		Overwrote:  overwrote,
	})
	return t, err
}

func (p *pass) logProgress(t Tally) {
	if !p.sampler.ShouldLog(t.Accepted) {
		return
	}
	p.run.logger.Info("progress",
		logging.String(logging.FieldEventType, "progress"),
		logging.Int("accepted", t.Accepted),
		logging.Int("rejected", t.Rejected()),
	)
}

func finishSplit(ctx context.Context, r *run, planner split.Planner, t Tally) (Tally, error) {
	assignments, counts, err := planner.Finish(t.Split)
	if err != nil {
		return t, err
	}
	t.Split = counts
	if err := r.recordAssignments(ctx, assignments); err != nil {
		return t, err
	}
	if counts.Unassigned > 0 {
		logging.WarnWithContext(r.logger, "identifiers left unassigned", "split_unassigned",
			logging.Int("unassigned", counts.Unassigned),
			logging.String(logging.FieldErrorHint, "proportions sum below 1.0; raise split.train to cover every identifier"),
		)
	}
	if counts.Duplicates > 0 {
		r.logger.Info("duplicate identifiers ignored by split", logging.Int("duplicates", counts.Duplicates))
	}
	return t, nil
}

// verifyStories checks the destination holds exactly the stories the tally
// accounts for.
func verifyStories(dir string, t Tally) error {
	count, err := fileutil.CountFiles(dir, corpus.StoryExt)
	if err != nil {
		return faults.Wrap(faults.ErrIO, "pipeline", "count stories", dir, err)
	}
	if want := t.ExpectedStories(); count != want {
		return faults.Wrap(faults.ErrConsistency, "pipeline", "verify output",
			fmt.Sprintf("found %d stories in %s, expected %d (%d preexisting + %d written - %d overwritten)",
				count, dir, want, t.Preexisting, t.Accepted, t.Overwritten), nil)
	}
	return nil
}

func requireConfig(opts Options, command string) (*config.Config, error) {
	if opts.Config == nil {
		return nil, faults.Wrap(faults.ErrConfiguration, command, "start", "configuration is required", nil)
	}
	return opts.Config, nil
}

func newAssembler(opts Options) (*Assembler, error) {
	cfg := opts.Config
	tok := opts.Tokenizer
	if tok == nil {
		rules, err := tokenize.New(cfg.Tokenizer.Language)
		if err != nil {
			return nil, err
		}
		tok = rules
	}
	norm := textnorm.New(
		textnorm.WithLanguage(language.Tag(cfg.Tokenizer.Language)),
		textnorm.WithMissingPeriodRepair(cfg.Normalize.FixMissingPeriod),
	)
	return NewAssembler(tok, norm, cfg.Normalize.Layout)
}

func runInfo(cfg *config.Config, command, input, output string, mode split.Mode) ledger.RunInfo {
	info := ledger.RunInfo{
		Command:   command,
		InputDir:  input,
		OutputDir: output,
		Language:  cfg.Tokenizer.Language,
	}
	if command != CommandSplit {
		info.Layout = cfg.Normalize.Layout
	}
	switch m := mode.(type) {
	case split.Batch:
		info.SplitMode = m.Name()
		info.Seed = m.Seed
	case split.Streaming:
		info.SplitMode = m.Name()
		info.Seed = m.Seed
	}
	return info
}
