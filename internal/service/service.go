package service

import (
	"context"
	"os"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
	"golang.org/x/text/language"

	"github.com/jwpark-data/subsync/internal/cleaner"
	"github.com/jwpark-data/subsync/internal/config"
	"github.com/jwpark-data/subsync/internal/library"
	"github.com/jwpark-data/subsync/internal/persistence"
	"github.com/jwpark-data/subsync/internal/subtitle"
	"github.com/jwpark-data/subsync/internal/syncer"
	"github.com/jwpark-data/subsync/pkg/file"
	"github.com/jwpark-data/subsync/pkg/icron"
	"github.com/jwpark-data/subsync/pkg/log"
)

// PairResult summarizes one successfully processed subtitle pair
type PairResult struct {
	Pair             library.Pair
	CueCount         int
	SkippedReference int
	SkippedTarget    int
	ReferenceOut     string
	TargetOut        string
}

// Service runs the clean-and-sync pipeline over subtitle pairs found in the
// input directory: parse both tracks, clean both, re-stamp the target from
// the reference positionally, serialize both into the output directory.
type Service struct {
	cfg     config.Config
	cleaner *cleaner.Cleaner
	store   *persistence.SQLiteStore // nil disables run history
}

func New(cfg config.Config, c *cleaner.Cleaner, store *persistence.SQLiteStore) *Service {
	return &Service{
		cfg:     cfg,
		cleaner: c,
		store:   store,
	}
}

func (s *Service) scanner() *library.Scanner {
	return library.NewScanner(s.cfg.Paths.InputDir, s.cfg.Pair.ReferenceSuffix, s.cfg.Pair.TargetSuffix)
}

// RunBase processes the pair (or numbered pair variants) with the given base name
func (s *Service) RunBase(ctx context.Context, base string) error {
	if base == "" {
		return NewError(ErrValidation, "base name cannot be empty")
	}

	pairs, err := s.scanner().Find(ctx, base)
	if err != nil {
		return WrapError(err, ErrFileNotFound, "subtitle pair not found").WithContext("base", base)
	}

	for _, pair := range pairs {
		if err := s.runPair(ctx, pair); err != nil {
			return err
		}
	}
	return nil
}

var singleflightGroup singleflight.Group

// RunBatch processes every complete pair in the input directory. Pairs with a
// recorded successful run are skipped. A failing pair does not stop the rest;
// the aggregate failure count is reported at the end.
func (s *Service) RunBatch(ctx context.Context) error {
	pairs, err := s.scanner().Scan(ctx)
	if err != nil {
		return WrapError(err, ErrFileNotFound, "failed to scan input directory").
			WithContext("input_dir", s.cfg.Paths.InputDir)
	}
	log.Info("Found %d subtitle pairs in %s", len(pairs), s.cfg.Paths.InputDir)

	var failed atomic.Int64
	group, gctx := errgroup.WithContext(ctx)
	group.SetLimit(s.cfg.Batch.Concurrency)

	for _, pair := range pairs {
		pair := pair
		if s.store != nil {
			last, err := s.store.LastSuccess(ctx, pair.Key())
			if err != nil {
				log.Warn("Failed to check run history for %s: %v", pair.Key(), err)
			} else if last != nil {
				log.Info("Skipping %s, already processed at %s", pair.Key(), last.CreatedAt.Format(time.RFC3339))
				continue
			}
		}

		group.Go(func() error {
			if err := s.runPair(gctx, pair); err != nil {
				failed.Add(1)
				log.Error("Failed to process pair %s: %v", pair.Key(), err)
			}
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return err
	}
	if n := failed.Load(); n > 0 {
		return NewError(ErrUnknown, "batch finished with failures").
			WithContext("failed", n).
			WithContext("total", len(pairs))
	}
	return nil
}

// Schedule registers a cron-driven batch run for watch mode. A run still in
// flight when the next trigger fires is not started twice.
func (s *Service) Schedule(ctx context.Context, c *cron.Cron) error {
	runFunc := func() {
		_, _, _ = singleflightGroup.Do("batch", func() (any, error) {
			if err := s.RunBatch(ctx); err != nil {
				log.Error("Scheduled batch run failed: %v", err)
			}
			return nil, nil
		})
	}

	if _, err := c.AddFunc(s.cfg.Batch.CronExpr, runFunc); err != nil {
		return WrapError(err, ErrConfig, "invalid cron expression").
			WithContext("cron_expr", s.cfg.Batch.CronExpr)
	}

	if info, err := icron.GetTriggerInfo(s.cfg.Batch.CronExpr, time.Now()); err == nil {
		log.Info("Watching %s, next batch run at %s (in %s)",
			s.cfg.Paths.InputDir, info.Next.Format(time.RFC3339), info.TimeUntilNext.Round(time.Second))
	}
	return nil
}

func (s *Service) runPair(ctx context.Context, pair library.Pair) error {
	result, err := s.processPair(ctx, pair)

	record := persistence.RunRecord{
		PairKey:       pair.Key(),
		ReferencePath: pair.ReferencePath,
		TargetPath:    pair.TargetPath,
	}
	if err != nil {
		record.Status = persistence.StatusFailed
		record.Error = err.Error()
	} else {
		record.Status = persistence.StatusSuccess
		record.CueCount = result.CueCount
		record.SkippedReference = result.SkippedReference
		record.SkippedTarget = result.SkippedTarget
	}

	if s.store != nil {
		if recordErr := s.store.RecordRun(ctx, record); recordErr != nil {
			log.Warn("Failed to record run for %s: %v", pair.Key(), recordErr)
		}
	}

	if err == nil {
		log.Info("Processed %s: %d cues -> %s, %s", pair.Key(), result.CueCount, result.ReferenceOut, result.TargetOut)
	}
	return err
}

func (s *Service) processPair(ctx context.Context, pair library.Pair) (*PairResult, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	reference, err := subtitle.NewReader(pair.ReferencePath).Read()
	if err != nil {
		return nil, WrapError(err, ErrFileRead, "failed to read reference track").
			WithContext("path", pair.ReferencePath)
	}
	target, err := subtitle.NewReader(pair.TargetPath).Read()
	if err != nil {
		return nil, WrapError(err, ErrFileRead, "failed to read target track").
			WithContext("path", pair.TargetPath)
	}

	if reference.SkippedBlocks > 0 {
		log.Warn("Skipped %d malformed cue blocks in %s", reference.SkippedBlocks, pair.ReferencePath)
	}
	if target.SkippedBlocks > 0 {
		log.Warn("Skipped %d malformed cue blocks in %s", target.SkippedBlocks, pair.TargetPath)
	}

	// a swapped pair would silently stamp timings the wrong way around
	if reference.Language == language.Korean && target.Language == language.English {
		log.Warn("Pair %s looks swapped: %s detects as Korean, %s as English",
			pair.Key(), pair.ReferencePath, pair.TargetPath)
	}

	cleanedReference := s.cleaner.CleanTrack(reference)
	cleanedTarget := s.cleaner.CleanTrack(target)

	aligned, err := syncer.Align(cleanedReference, cleanedTarget)
	if err != nil {
		return nil, WrapError(err, ErrSyncMismatch, "failed to synchronize tracks").
			WithContext("reference_cues", len(cleanedReference.Cues)).
			WithContext("target_cues", len(cleanedTarget.Cues))
	}

	// render fully in memory before touching the output directory
	referenceOut := file.InDir(file.WithSuffix(pair.ReferencePath, s.cfg.Pair.OutputSuffix), s.cfg.Paths.OutputDir)
	targetOut := file.InDir(file.WithSuffix(pair.TargetPath, s.cfg.Pair.OutputSuffix), s.cfg.Paths.OutputDir)

	if err := os.MkdirAll(s.cfg.Paths.OutputDir, 0o755); err != nil {
		return nil, WrapError(err, ErrFileWrite, "failed to create output directory").
			WithContext("output_dir", s.cfg.Paths.OutputDir)
	}

	writer := subtitle.NewWriter()
	if err := writer.Write(referenceOut, cleanedReference); err != nil {
		return nil, WrapError(err, ErrFileWrite, "failed to write reference output").
			WithContext("path", referenceOut)
	}
	if err := writer.Write(targetOut, aligned); err != nil {
		return nil, WrapError(err, ErrFileWrite, "failed to write target output").
			WithContext("path", targetOut)
	}

	return &PairResult{
		Pair:             pair,
		CueCount:         len(aligned.Cues),
		SkippedReference: reference.SkippedBlocks,
		SkippedTarget:    target.SkippedBlocks,
		ReferenceOut:     referenceOut,
		TargetOut:        targetOut,
	}, nil
}
