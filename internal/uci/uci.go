// Package uci implements the Universal Chess Interface protocol loop
// that drives a search.Engine from text commands.
package uci

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/kestrelchess/engine/internal/chess"
	"github.com/kestrelchess/engine/internal/eval"
	"github.com/kestrelchess/engine/internal/perft"
	"github.com/kestrelchess/engine/internal/search"
)

// perftProgressInterval controls how often "go perft" reports an
// intermediate node count while the count is still running.
const perftProgressInterval = 500 * time.Millisecond

// loop holds the UCI session's mutable state across commands: the
// current position, its hash history for repetition detection, and
// whatever search is in flight.
type loop struct {
	r   *bufio.Scanner
	w   io.Writer
	eng *search.Engine

	pos    *chess.Position
	hashes []uint64

	searching     bool
	searchDone    chan struct{}
	stopRequested atomic.Bool
}

// Loop reads UCI commands from r, one per line, and writes responses to
// w, driving eng until "quit" or r is exhausted. It returns rather than
// exiting the process, so callers (and tests) control process lifetime.
func Loop(r io.Reader, w io.Writer, eng *search.Engine) {
	l := &loop{
		r:   bufio.NewScanner(r),
		w:   w,
		eng: eng,
		pos: chess.NewPosition(),
	}
	l.hashes = []uint64{l.pos.Hash}

	for l.r.Scan() {
		line := strings.TrimSpace(l.r.Text())
		if line == "" {
			continue
		}

		fields := strings.Fields(line)
		cmd, args := fields[0], fields[1:]

		switch cmd {
		case "uci":
			l.handleUCI()
		case "isready":
			fmt.Fprintln(l.w, "readyok")
		case "ucinewgame":
			l.handleNewGame()
		case "position":
			l.handlePosition(args)
		case "go":
			l.handleGo(args)
		case "stop":
			l.handleStop()
		case "quit":
			l.handleStop()
			return
		case "d":
			fmt.Fprintln(l.w, chess.ToFEN(l.pos))
		default:
			fmt.Fprintf(l.w, "info string Unknown command: %s\n", cmd)
		}
	}
}

func (l *loop) handleUCI() {
	fmt.Fprintln(l.w, "id name KestrelChess")
	fmt.Fprintln(l.w, "id author KestrelChess contributors")
	fmt.Fprintln(l.w, "option name Hash type spin default 64 min 1 max 4096")
	fmt.Fprintln(l.w, "option name UseNNUE type check default false")
	fmt.Fprintln(l.w, "option name EvalFile type string default <empty>")
	fmt.Fprintln(l.w, "option name Book type string default <empty>")
	fmt.Fprintln(l.w, "uciok")
}

func (l *loop) handleNewGame() {
	l.eng.Clear()
	l.pos = chess.NewPosition()
	l.hashes = []uint64{l.pos.Hash}
}

// handlePosition parses and sets up a position. Formats:
//   - position startpos
//   - position startpos moves e2e4 e7e5
//   - position fen <6 fields>
//   - position fen <6 fields> moves e2e4
//
// A malformed FEN or move leaves the position unchanged, per the
// engine's no-partial-mutation error policy.
func (l *loop) handlePosition(args []string) {
	if len(args) == 0 {
		return
	}

	var pos *chess.Position
	var moveStart int

	switch args[0] {
	case "startpos":
		pos = chess.NewPosition()
		moveStart = 1
	case "fen":
		fenEnd := len(args)
		for i := 1; i < len(args); i++ {
			if args[i] == "moves" {
				fenEnd = i
				break
			}
		}
		if fenEnd-1 < 6 {
			fmt.Fprintln(l.w, "info string Invalid FEN: missing fields")
			return
		}
		parsed, err := chess.ParseFEN(strings.Join(args[1:fenEnd], " "))
		if err != nil {
			fmt.Fprintf(l.w, "info string Invalid FEN: %v\n", err)
			return
		}
		pos = parsed
		moveStart = fenEnd
		if moveStart < len(args) && args[moveStart] == "moves" {
			moveStart++
		}
	default:
		return
	}

	hashes := []uint64{pos.Hash}
	for _, moveStr := range args[moveStart:] {
		move, ok := parseMove(pos, moveStr)
		if !ok {
			fmt.Fprintf(l.w, "info string Invalid move: %s\n", moveStr)
			return
		}
		pos.MakeMove(move)
		hashes = append(hashes, pos.Hash)
	}

	l.pos = pos
	l.hashes = hashes
}

// parseMove parses s as a UCI move string and accepts it only if it
// names a move actually legal in pos.
func parseMove(pos *chess.Position, s string) (chess.Move, bool) {
	move, err := chess.ParseMove(s, pos)
	if err != nil {
		return chess.NoMove, false
	}
	if !pos.GenerateLegalMoves().Contains(move) {
		return chess.NoMove, false
	}
	return move, true
}

// goOptions holds parsed "go" command arguments.
type goOptions struct {
	Depth     int
	Nodes     uint64
	MoveTime  time.Duration
	Infinite  bool
	WTime     time.Duration
	BTime     time.Duration
	WInc      time.Duration
	BInc      time.Duration
	MovesToGo int
	Perft     int
	Wait      bool
}

func parseGoOptions(args []string) goOptions {
	var opts goOptions

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "depth":
			if i+1 < len(args) {
				opts.Depth, _ = strconv.Atoi(args[i+1])
				i++
			}
		case "nodes":
			if i+1 < len(args) {
				opts.Nodes, _ = strconv.ParseUint(args[i+1], 10, 64)
				i++
			}
		case "movetime":
			if i+1 < len(args) {
				ms, _ := strconv.Atoi(args[i+1])
				opts.MoveTime = time.Duration(ms) * time.Millisecond
				i++
			}
		case "infinite":
			opts.Infinite = true
		case "wtime":
			if i+1 < len(args) {
				ms, _ := strconv.Atoi(args[i+1])
				opts.WTime = time.Duration(ms) * time.Millisecond
				i++
			}
		case "btime":
			if i+1 < len(args) {
				ms, _ := strconv.Atoi(args[i+1])
				opts.BTime = time.Duration(ms) * time.Millisecond
				i++
			}
		case "winc":
			if i+1 < len(args) {
				ms, _ := strconv.Atoi(args[i+1])
				opts.WInc = time.Duration(ms) * time.Millisecond
				i++
			}
		case "binc":
			if i+1 < len(args) {
				ms, _ := strconv.Atoi(args[i+1])
				opts.BInc = time.Duration(ms) * time.Millisecond
				i++
			}
		case "movestogo":
			if i+1 < len(args) {
				opts.MovesToGo, _ = strconv.Atoi(args[i+1])
				i++
			}
		case "perft":
			if i+1 < len(args) {
				opts.Perft, _ = strconv.Atoi(args[i+1])
				i++
			}
		case "wait":
			opts.Wait = true
		}
	}

	return opts
}

func (l *loop) handleGo(args []string) {
	opts := parseGoOptions(args)

	if opts.Perft > 0 {
		l.handleGoPerft(opts.Perft)
		return
	}

	limits := search.Limits{
		Depth:     opts.Depth,
		Nodes:     opts.Nodes,
		MoveTime:  opts.MoveTime,
		Infinite:  opts.Infinite,
		WTime:     opts.WTime,
		BTime:     opts.BTime,
		WInc:      opts.WInc,
		BInc:      opts.BInc,
		MovesToGo: opts.MovesToGo,
	}

	pos := l.pos.Copy()
	hashes := append([]uint64(nil), l.hashes...)

	l.searching = true
	l.stopRequested.Store(false)
	l.searchDone = make(chan struct{})

	run := func() {
		defer close(l.searchDone)
		start := time.Now()
		pv := l.eng.Go(pos, limits, hashes, func(info search.Info) bool {
			l.sendInfo(info, time.Since(start))
			return l.stopRequested.Load()
		})
		l.searching = false
		l.sendBestMove(pos, pv)
	}

	if opts.Wait {
		run()
	} else {
		go run()
	}
}

func (l *loop) sendInfo(info search.Info, elapsed time.Duration) {
	parts := []string{fmt.Sprintf("depth %d", info.Depth)}

	switch {
	case info.Score > eval.MateScore-eval.MaxPly:
		mateIn := (eval.MateScore - info.Score + 1) / 2
		parts = append(parts, fmt.Sprintf("score mate %d", mateIn))
	case info.Score < -eval.MateScore+eval.MaxPly:
		mateIn := -(eval.MateScore + info.Score + 1) / 2
		parts = append(parts, fmt.Sprintf("score mate %d", mateIn))
	default:
		parts = append(parts, fmt.Sprintf("score cp %d", info.Score))
	}

	parts = append(parts, fmt.Sprintf("nodes %d", info.Nodes))
	parts = append(parts, fmt.Sprintf("time %d", elapsed.Milliseconds()))
	if elapsed > 0 {
		nps := uint64(float64(info.Nodes) / elapsed.Seconds())
		parts = append(parts, fmt.Sprintf("nps %d", nps))
	}
	if hf := l.eng.HashFull(); hf > 0 {
		parts = append(parts, fmt.Sprintf("hashfull %d", hf))
	}

	if len(info.PV) > 0 {
		moves := make([]string, len(info.PV))
		for i, m := range info.PV {
			moves[i] = m.String()
		}
		parts = append(parts, "pv "+strings.Join(moves, " "))
	}

	fmt.Fprintf(l.w, "info %s\n", strings.Join(parts, " "))
}

func (l *loop) sendBestMove(pos *chess.Position, pv search.PrincipalVariation) {
	if len(pv.Moves) == 0 {
		if legal := pos.GenerateLegalMoves(); legal.Len() > 0 {
			fmt.Fprintf(l.w, "bestmove %s\n", legal.Get(0))
		} else {
			fmt.Fprintln(l.w, "bestmove 0000")
		}
		return
	}
	if len(pv.Moves) > 1 {
		fmt.Fprintf(l.w, "bestmove %s ponder %s\n", pv.Moves[0], pv.Moves[1])
		return
	}
	fmt.Fprintf(l.w, "bestmove %s\n", pv.Moves[0])
}

// handleGoPerft runs a perft count on the current position instead of a
// search, reporting intermediate node counts as "go [perft N]" doesn't
// otherwise distinguish itself from a normal search's info stream.
func (l *loop) handleGoPerft(depth int) {
	pos := l.pos.Copy()
	start := time.Now()

	count := perft.ParallelRun(pos, depth, func(nodes uint64) {
		fmt.Fprintf(l.w, "info nodes %d time %d\n", nodes, time.Since(start).Milliseconds())
	}, perftProgressInterval)

	elapsed := time.Since(start)
	line := fmt.Sprintf("info nodes %s time %d", count.String(), elapsed.Milliseconds())
	if elapsed > 0 {
		nps := float64(count.Uint64()) / elapsed.Seconds()
		line += fmt.Sprintf(" nps %.0f", nps)
	}
	fmt.Fprintln(l.w, line)
}

func (l *loop) handleStop() {
	if l.searching {
		l.stopRequested.Store(true)
		l.eng.Stop()
		<-l.searchDone
	}
}
