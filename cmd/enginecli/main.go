// Command enginecli runs the engine as a UCI process over stdin/stdout.
package main

import (
	"flag"
	"log"
	"os"
	"path/filepath"
	"runtime/pprof"

	"github.com/kestrelchess/engine/internal/search"
	"github.com/kestrelchess/engine/internal/uci"
)

var (
	hashMB     = flag.Int("hash", 64, "transposition table size in MB")
	nnuePath   = flag.String("evalfile", "", "path to an NNUE weights file")
	bookPath   = flag.String("book", "", "path to an opening book store directory")
	cpuprofile = flag.String("cpuprofile", "", "write cpu profile to file")
)

func main() {
	flag.Parse()

	if profilePath := *cpuprofile; profilePath != "" {
		f, err := os.Create(profilePath)
		if err != nil {
			log.Fatal("could not create CPU profile: ", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal("could not start CPU profile: ", err)
		}
		defer pprof.StopCPUProfile()
		log.Printf("CPU profiling enabled, writing to %s", profilePath)
	}

	opts := search.Options{
		HashSizeMB: *hashMB,
		NNUEPath:   *nnuePath,
		BookPath:   *bookPath,
	}
	if opts.NNUEPath == "" {
		opts.NNUEPath = autoDetectNNUE()
	}

	eng := search.NewEngine(opts)
	uci.Loop(os.Stdin, os.Stdout, eng)
}

// autoDetectNNUE looks for a weights file in the directories an engine
// install typically ships one in, so "evalfile" need not be passed
// explicitly for a bundled network.
func autoDetectNNUE() string {
	candidates := []string{
		filepath.Join(".", "nnue", "default.nnue"),
		filepath.Join(".", "default.nnue"),
	}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, ".kestrelchess", "default.nnue"))
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
