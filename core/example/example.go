// Package example generates a synthetic change log used when the real one cannot be loaded.
package example

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/huangsam/locviz/core/ingest"
	"github.com/huangsam/locviz/schema"
	"gonum.org/v1/gonum/stat/distuv"
)

// Options control the generated dataset.
type Options struct {
	Commits  int
	Seed     int64
	Start    time.Time
	TypeMode schema.TypeMode
}

var (
	exampleFiles   = []string{"index.html", "style.css", "global.js", "meta/main.js", "meta/index.html", "projects/projects.js", "lib/data.json", "README.md"}
	exampleAuthors = []string{"ana", "bo", "chen"}
	defaultStart   = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
)

// Generate returns a deterministic change log for the given seed.
// Commits are spaced out over time with at least one line each; line counts, indentation
// depths and lengths are Poisson distributed.
func Generate(opts Options) []schema.Row {
	if opts.Commits <= 0 {
		return nil
	}
	start := opts.Start
	if start.IsZero() {
		start = defaultStart
	}
	seed := uint64(opts.Seed)
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	gap := distuv.Exponential{Rate: 1.0 / 30, Src: rng} // hours between commits
	lines := distuv.Poisson{Lambda: 25, Src: rng}
	depth := distuv.Poisson{Lambda: 1.5, Src: rng}
	length := distuv.Poisson{Lambda: 32, Src: rng}

	var rows []schema.Row
	nextLine := make(map[string]int)
	at := start
	for i := range opts.Commits {
		at = at.Add(time.Duration(gap.Rand() * float64(time.Hour))).Truncate(time.Second)
		id := fmt.Sprintf("%07x", rng.Uint32()&0xfffffff)
		author := exampleAuthors[rng.IntN(len(exampleAuthors))]
		if i == 0 {
			author = exampleAuthors[0]
		}
		files := pickFiles(rng, 1+rng.IntN(3))
		n := 1 + int(lines.Rand())
		y, m, d := at.Date()
		date := time.Date(y, m, d, 0, 0, 0, 0, at.Location())

		for j := range n {
			file := files[j%len(files)]
			nextLine[file]++
			rows = append(rows, schema.Row{
				Commit:   id,
				File:     file,
				Type:     ingest.ResolveType(file, opts.TypeMode),
				Line:     nextLine[file],
				Depth:    int(depth.Rand()),
				Length:   int(length.Rand()),
				Author:   author,
				Date:     date,
				Time:     at.Format(time.TimeOnly),
				Timezone: at.Format("-07:00"),
				Datetime: at,
			})
		}
	}
	return rows
}

func pickFiles(rng *rand.Rand, n int) []string {
	perm := rng.Perm(len(exampleFiles))
	files := make([]string, n)
	for i := range n {
		files[i] = exampleFiles[perm[i]]
	}
	return files
}
