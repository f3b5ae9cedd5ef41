package cli

import (
	"context"
	"fmt"
	"hash/crc32"
	"log"
	"os"
	"path/filepath"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/spf13/afero"
	"github.com/user-none/vgmnotes/loader"
	"golang.org/x/sync/errgroup"
)

// Job pairs an input log with the listing it produces
type Job struct {
	Input  string
	Output string
}

// Summary counts the outcome of a batch run
type Summary struct {
	Converted  int
	Duplicates int // converted from the cache of an identical log
	Failed     int
	Warnings   int
}

// Batch converts many logs in parallel. Each log gets its own APU, so the
// listings are identical to converting the files one at a time.
type Batch struct {
	runner  *Runner
	workers int
	cache   *lru.Cache[uint32, *Result]
}

// NewBatch creates a Batch using the runner's batch settings
func NewBatch(r *Runner) (*Batch, error) {
	cfg := r.Config().Batch
	cache, err := lru.New[uint32, *Result](max(cfg.CacheEntries, 1))
	if err != nil {
		return nil, err
	}
	return &Batch{
		runner:  r,
		workers: max(cfg.Workers, 1),
		cache:   cache,
	}, nil
}

// Plan lists the supported files under root and where their listings go.
// An empty outDir writes each listing next to its input. Directory
// structure below root is kept in outDir.
func (b *Batch) Plan(root, outDir string, recursive bool) ([]Job, error) {
	ext := b.runner.Config().Output.Extension
	var jobs []Job
	err := afero.Walk(b.runner.fs, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if path != root && !recursive {
				return filepath.SkipDir
			}
			return nil
		}
		if !loader.IsSupportedFile(info.Name()) {
			return nil
		}

		dir := filepath.Dir(path)
		if outDir != "" {
			rel, err := filepath.Rel(root, dir)
			if err != nil {
				return err
			}
			dir = filepath.Join(outDir, rel)
		}
		jobs = append(jobs, Job{
			Input:  path,
			Output: filepath.Join(dir, OutputName(info.Name(), ext)),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", root, err)
	}
	return jobs, nil
}

// Run converts every job, then writes the listings. A log that fails to
// load or decode is reported and skipped; no listing is written for it.
func (b *Batch) Run(ctx context.Context, jobs []Job) (Summary, error) {
	results := make([]*Result, len(jobs))
	cached := make([]bool, len(jobs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(b.workers)
	for i, job := range jobs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, hit, err := b.convert(job.Input)
			if err != nil {
				log.Printf("%s: %v", job.Input, err)
				return nil
			}
			results[i] = res
			cached[i] = hit
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Summary{}, err
	}

	var sum Summary
	for i, res := range results {
		if res == nil {
			sum.Failed++
			continue
		}
		if err := b.runner.WriteOutput(jobs[i].Output, res); err != nil {
			return sum, err
		}
		sum.Converted++
		sum.Warnings += res.Warnings
		if cached[i] {
			sum.Duplicates++
		}
	}
	return sum, nil
}

// convert loads a log and converts it unless an identical log was seen
func (b *Batch) convert(path string) (*Result, bool, error) {
	data, name, err := b.runner.Load(path)
	if err != nil {
		return nil, false, err
	}

	sum := crc32.ChecksumIEEE(data)
	if res, ok := b.cache.Get(sum); ok {
		dup := *res
		dup.Name = name
		dup.Warnings = 0
		return &dup, true, nil
	}

	res, err := b.runner.ConvertBytes(data, name)
	if err != nil {
		return nil, false, err
	}
	b.cache.Add(sum, res)
	return res, false, nil
}
