// Package blame builds the per-line change log of a repository from git blame at HEAD.
package blame

import (
	"context"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/huangsam/locviz/core/ingest"
	"github.com/huangsam/locviz/internal/contract"
	"github.com/huangsam/locviz/schema"
	"github.com/schollz/progressbar/v3"
	"github.com/sourcegraph/conc/pool"
)

// Options control row collection.
type Options struct {
	Workers  int
	Excludes []string
	TypeMode schema.TypeMode
	Location *time.Location // When set, commit times are converted into it
	Progress bool           // Draw a progress bar on stderr
}

// repoHandle is one worker's view of the repository. go-git objects are not shared across goroutines.
type repoHandle struct {
	commit *object.Commit
}

type fileRows struct {
	index int
	rows  []schema.Row
}

// CollectRows blames every text file at HEAD and returns one row per line,
// grouped by file in tree order.
func CollectRows(ctx context.Context, repoPath string, opts Options) ([]schema.Row, error) {
	repo, err := git.PlainOpenWithOptions(repoPath, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("failed to open repository %s: %w", repoPath, err)
	}
	head, err := repo.Head()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve HEAD: %w", err)
	}
	files, err := listFiles(repo, head.Hash(), opts.Excludes)
	if err != nil {
		return nil, err
	}

	workers := max(opts.Workers, 1)
	handles := make(chan *repoHandle, workers)
	for range workers {
		h, err := openHandle(repoPath, head.Hash())
		if err != nil {
			return nil, err
		}
		handles <- h
	}

	var bar *progressbar.ProgressBar
	if opts.Progress {
		bar = progressbar.NewOptions(len(files),
			progressbar.OptionShowCount(),
			progressbar.OptionSetWidth(20),
			progressbar.OptionSetDescription("Blaming files"),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionClearOnFinish())
	}

	p := pool.NewWithResults[fileRows]().WithContext(ctx).WithMaxGoroutines(workers).WithCancelOnError()
	for i, file := range files {
		p.Go(func(ctx context.Context) (fileRows, error) {
			if err := ctx.Err(); err != nil {
				return fileRows{}, err
			}
			h := <-handles
			defer func() { handles <- h }()

			rows, err := blameFile(h.commit, file, opts)
			if bar != nil {
				_ = bar.Add(1)
			}
			if err != nil {
				return fileRows{}, fmt.Errorf("blame %s: %w", file, err)
			}
			return fileRows{index: i, rows: rows}, nil
		})
	}
	results, err := p.Wait()
	if err != nil {
		return nil, err
	}

	slices.SortFunc(results, func(a, b fileRows) int { return a.index - b.index })
	var rows []schema.Row
	for _, r := range results {
		rows = append(rows, r.rows...)
	}
	return rows, nil
}

func openHandle(repoPath string, hash plumbing.Hash) (*repoHandle, error) {
	repo, err := git.PlainOpenWithOptions(repoPath, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, err
	}
	commit, err := repo.CommitObject(hash)
	if err != nil {
		return nil, err
	}
	return &repoHandle{commit: commit}, nil
}

// listFiles returns the non-binary, non-excluded paths of the tree at hash.
func listFiles(repo *git.Repository, hash plumbing.Hash, excludes []string) ([]string, error) {
	commit, err := repo.CommitObject(hash)
	if err != nil {
		return nil, err
	}
	tree, err := commit.Tree()
	if err != nil {
		return nil, err
	}
	var files []string
	err = tree.Files().ForEach(func(f *object.File) error {
		if contract.ShouldIgnore(f.Name, excludes) {
			return nil
		}
		binary, err := f.IsBinary()
		if err != nil || binary {
			return nil
		}
		files = append(files, f.Name)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}
	return files, nil
}

func blameFile(commit *object.Commit, file string, opts Options) ([]schema.Row, error) {
	result, err := git.Blame(commit, file)
	if err != nil {
		return nil, err
	}
	typ := ingest.ResolveType(file, opts.TypeMode)
	rows := make([]schema.Row, 0, len(result.Lines))
	for i, line := range result.Lines {
		when := line.Date
		if opts.Location != nil {
			when = when.In(opts.Location)
		}
		author := line.AuthorName
		if author == "" {
			author = line.Author
		}
		y, m, d := when.Date()
		rows = append(rows, schema.Row{
			Commit:   line.Hash.String(),
			File:     file,
			Type:     typ,
			Line:     i + 1,
			Depth:    indentDepth(line.Text),
			Length:   len(line.Text),
			Author:   author,
			Date:     time.Date(y, m, d, 0, 0, 0, 0, when.Location()),
			Time:     when.Format(time.TimeOnly),
			Timezone: when.Format("-07:00"),
			Datetime: when,
		})
	}
	return rows, nil
}

// indentDepth counts leading whitespace characters.
func indentDepth(text string) int {
	return len(text) - len(strings.TrimLeft(text, " \t"))
}
