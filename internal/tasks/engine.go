package tasks

import (
	"context"
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/soundlift/soundlift/internal/platform"
	"github.com/soundlift/soundlift/internal/shared"
	"github.com/soundlift/soundlift/internal/store"
	"github.com/soundlift/soundlift/internal/tags"
)

// Options configures a migration engine.
type Options struct {
	Folders     []shared.FolderConfig
	Concurrency int           // worker count, must be positive
	Extensions  []string      // accepted file extensions, case-insensitive
	Hash        string        // digest algorithm: sha256 (default), sha1, md5
	Grace       time.Duration // terminal task visibility window
}

// Engine drives the migration: it enumerates eligible files across the
// configured folders, then runs a bounded pool of workers, each executing
// the per-file pipeline against the shared cache, aggregator, registry and
// failure collector. Failure of one unit never aborts or blocks the others.
type Engine struct {
	store     store.Client
	extractor tags.Extractor
	api       platform.API
	logger    *log.Logger

	cache    *DedupCache
	progress *Aggregator
	registry *Registry
	failures *FailureCollector

	folders     []shared.FolderConfig
	concurrency int
	extensions  map[string]struct{}
	newDigest   func() hash.Hash
}

// NewEngine creates an engine with the provided collaborators and options.
func NewEngine(client store.Client, extractor tags.Extractor, api platform.API, opts Options, logger *log.Logger) (*Engine, error) {
	if client == nil || extractor == nil || api == nil {
		return nil, fmt.Errorf("%w: engine collaborator not initialized", shared.ErrServiceUnavailable)
	}
	if opts.Concurrency <= 0 {
		return nil, fmt.Errorf("%w: concurrency must be positive", shared.ErrInvalidInput)
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	newDigest, err := digestFor(opts.Hash)
	if err != nil {
		return nil, err
	}

	extensions := make(map[string]struct{}, len(opts.Extensions))
	for _, ext := range opts.Extensions {
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		extensions[strings.ToLower(ext)] = struct{}{}
	}

	return &Engine{
		store:       client,
		extractor:   extractor,
		api:         api,
		logger:      logger,
		cache:       NewDedupCache(),
		progress:    NewAggregator(),
		registry:    NewRegistry(opts.Grace),
		failures:    NewFailureCollector(),
		folders:     opts.Folders,
		concurrency: opts.Concurrency,
		extensions:  extensions,
		newDigest:   newDigest,
	}, nil
}

// Progress exposes the aggregate counters for the renderer.
func (e *Engine) Progress() *Aggregator { return e.progress }

// Registry exposes the live task records for the renderer.
func (e *Engine) Registry() *Registry { return e.registry }

// digestFor resolves a digest algorithm name to a constructor.
func digestFor(name string) (func() hash.Hash, error) {
	switch strings.ToLower(name) {
	case "", "sha256":
		return sha256.New, nil
	case "sha1":
		return sha1.New, nil
	case "md5":
		return md5.New, nil
	default:
		return nil, fmt.Errorf("%w: unsupported hash algorithm %q", shared.ErrInvalidInput, name)
	}
}

// Run executes the migration and returns once every unit has reached a
// terminal state. An enumeration failure is fatal and returns before any
// pipeline starts; per-unit failures are captured in the result instead.
func (e *Engine) Run(ctx context.Context) (*RunResult, error) {
	result := &RunResult{
		RunID:     shared.GenerateID(),
		StartedAt: time.Now(),
	}

	units, err := enumerate(ctx, e.store, e.folders, e.extensions)
	if err != nil {
		return nil, err
	}

	if len(units) == 0 {
		result.FinishedAt = time.Now()
		result.NoFiles = true
		return result, nil
	}

	var totalBytes int64
	for _, unit := range units {
		totalBytes += unit.Size
	}
	e.progress.Begin(len(units), totalBytes)
	e.logger.Info("starting migration", "files", len(units), "bytes", totalBytes, "workers", e.concurrency)

	jobs := make(chan FileUnit, len(units))
	var wg sync.WaitGroup
	for i := 0; i < e.concurrency; i++ {
		wg.Add(1)
		go e.worker(ctx, &wg, jobs)
	}

	// Enumeration order feeds the backlog; completion order is whatever
	// real latency produces.
	for _, unit := range units {
		jobs <- unit
	}
	close(jobs)
	wg.Wait()

	snap := e.progress.Snapshot()
	result.FinishedAt = time.Now()
	result.TotalFiles = snap.TotalFiles
	result.TotalBytes = snap.TotalBytes
	result.BytesTransferred = snap.BytesTransferred
	result.Failures = e.failures.All()
	result.Failed = len(result.Failures)
	result.Succeeded = result.TotalFiles - result.Failed
	result.UniqueContent = e.cache.Len()

	e.logger.Info("migration finished", "succeeded", result.Succeeded, "failed", result.Failed)
	return result, nil
}

func (e *Engine) worker(ctx context.Context, wg *sync.WaitGroup, jobs <-chan FileUnit) {
	defer wg.Done()
	for unit := range jobs {
		e.process(ctx, unit)
	}
}

// process runs the per-file pipeline for one unit. The completed-file
// increment and deferred registry eviction happen regardless of which
// branch succeeded or failed.
func (e *Engine) process(ctx context.Context, unit FileUnit) {
	task := e.registry.Start(unit.Key(), unit.Name, unit.Size)
	defer func() {
		e.progress.CompleteFile()
		e.registry.RemoveAfterGrace(unit.Key())
	}()

	fail := func(err error) {
		task.SetPhase(Errored)
		e.failures.Record(unit.Name, err.Error())
		e.logger.Error("file failed", "file", unit.Name, "err", err)
	}

	task.SetPhase(Downloading)
	data, err := e.store.Read(ctx, unit.Path())
	if err != nil {
		fail(err)
		return
	}

	task.SetPhase(Hashing)
	digest := e.newDigest()
	digest.Write(data)
	contentHash := hex.EncodeToString(digest.Sum(nil))

	mediaID, cached := e.cache.Lookup(contentHash)
	if cached {
		// Content already uploaded by an earlier unit; only the playlist
		// attach remains.
		task.SetPhase(Duplicate)
		task.SetPercent(100)
		e.logger.Debug("duplicate content", "file", unit.Name, "hash", contentHash)
	} else {
		task.SetPhase(Parsing)
		meta, err := e.extractor.Extract(data, unit.Size, unit.Name)
		if err != nil {
			fail(err)
			return
		}

		task.SetPhase(Uploading)
		req := platform.UploadRequest{
			Name:        unit.Name,
			Data:        data,
			MediaTypeID: unit.MediaTypeID,
			Hash:        contentHash,
			Artist:      meta.Artist,
			Title:       meta.Title,
			Progress: func(sent int64) {
				if delta := task.Observe(sent); delta > 0 {
					e.progress.AddBytes(delta)
				}
			},
		}
		if meta.Cover != nil {
			req.Cover = meta.Cover.Data
			req.CoverFormat = meta.Cover.Format
		}

		media, err := e.api.CreateMedia(ctx, req)
		if err != nil {
			fail(err)
			return
		}

		if !e.cache.RecordIfAbsent(contentHash, media.ID) {
			// A concurrent unit with identical content uploaded first; the
			// cached id wins for dedup bookkeeping, but our record exists
			// on the platform and is the one we attach.
			e.logger.Warn("duplicate upload race", "file", unit.Name, "hash", contentHash)
		}
		mediaID = media.ID
	}

	if unit.PlaylistID != "" {
		task.SetPhase(Attaching)
		if err := e.api.AttachToPlaylist(ctx, mediaID, unit.PlaylistID); err != nil {
			fail(err)
			return
		}
	}

	task.SetPhase(Done)
	task.SetPercent(100)
}
