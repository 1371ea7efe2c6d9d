package chess

import "testing"

// perft counts leaf nodes at depth via make/unmake, the standard way to
// cross-check move generation and make/unmake against known node counts.
func perft(pos *Position, depth int) int64 {
	if depth == 0 {
		return 1
	}
	moves := pos.GenerateLegalMoves()
	if depth == 1 {
		return int64(moves.Len())
	}
	var nodes int64
	for i := 0; i < moves.Len(); i++ {
		m := moves.Get(i)
		undo := pos.MakeMove(m)
		nodes += perft(pos, depth-1)
		pos.UnmakeMove(m, undo)
	}
	return nodes
}

func TestPerftStartingPosition(t *testing.T) {
	pos := NewPosition()
	tests := []struct {
		depth    int
		expected int64
	}{
		{1, 20},
		{2, 400},
		{3, 8902},
		{4, 197281},
	}
	for _, tc := range tests {
		if got := perft(pos, tc.depth); got != tc.expected {
			t.Errorf("perft(%d) = %d, want %d", tc.depth, got, tc.expected)
		}
	}
}

func TestPerftKiwipete(t *testing.T) {
	pos, err := ParseFEN("r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	tests := []struct {
		depth    int
		expected int64
	}{
		{1, 48},
		{2, 2039},
		{3, 97862},
	}
	for _, tc := range tests {
		if got := perft(pos, tc.depth); got != tc.expected {
			t.Errorf("perft(%d) = %d, want %d", tc.depth, got, tc.expected)
		}
	}
}

func TestPerftPosition3(t *testing.T) {
	// endgame position exercising en passant heavily
	pos, err := ParseFEN("8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	tests := []struct {
		depth    int
		expected int64
	}{
		{1, 14},
		{2, 191},
		{3, 2812},
		{4, 43238},
	}
	for _, tc := range tests {
		if got := perft(pos, tc.depth); got != tc.expected {
			t.Errorf("perft(%d) = %d, want %d", tc.depth, got, tc.expected)
		}
	}
}

func TestPerftPromotionHeavy(t *testing.T) {
	pos, err := ParseFEN("n1n5/PPPk4/8/8/8/8/4Kppp/5N1N b - - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	tests := []struct {
		depth    int
		expected int64
	}{
		{1, 24},
		{2, 496},
		{3, 9483},
	}
	for _, tc := range tests {
		if got := perft(pos, tc.depth); got != tc.expected {
			t.Errorf("perft(%d) = %d, want %d", tc.depth, got, tc.expected)
		}
	}
}

func TestMakeUnmakeIdentity(t *testing.T) {
	pos, err := ParseFEN("r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	before := *pos
	moves := pos.GenerateLegalMoves()
	for i := 0; i < moves.Len(); i++ {
		m := moves.Get(i)
		undo := pos.MakeMove(m)
		pos.UnmakeMove(m, undo)
		if pos.Board != before.Board {
			t.Fatalf("move %s: board not restored", m)
		}
		if pos.Turn != before.Turn {
			t.Fatalf("move %s: turn not restored", m)
		}
		if pos.Hash != before.Hash {
			t.Fatalf("move %s: hash not restored (got %016x want %016x)", m, pos.Hash, before.Hash)
		}
	}
}

func TestHashMatchesComputeHashAfterMove(t *testing.T) {
	pos := NewPosition()
	moves := pos.GenerateLegalMoves()
	for i := 0; i < moves.Len(); i++ {
		m := moves.Get(i)
		undo := pos.MakeMove(m)
		if want := ComputeHash(pos); pos.Hash != want {
			t.Errorf("move %s: incremental hash %016x != recomputed %016x", m, pos.Hash, want)
		}
		pos.UnmakeMove(m, undo)
	}
}

func TestCastlingRightsClearOnRookCapture(t *testing.T) {
	// black rook on a8 about to be captured by a white rook on a1's file;
	// capturing it must clear black queenside castling rights.
	pos, err := ParseFEN("r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	m := NewMove(A1, A8, Capture)
	undo := pos.MakeMove(m)
	if pos.Turn.Castling&BlackOOO != 0 {
		t.Errorf("expected BlackOOO cleared after rook capture, castling=%s", pos.Turn.Castling)
	}
	pos.UnmakeMove(m, undo)
	if pos.Turn.Castling&BlackOOO == 0 {
		t.Errorf("expected BlackOOO restored after unmake, castling=%s", pos.Turn.Castling)
	}
}

func TestEnPassantCapture(t *testing.T) {
	pos, err := ParseFEN("rnbqkbnr/ppp1p1pp/8/3pPp2/8/8/PPPP1PPP/RNBQKBNR w KQkq f6 0 3")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	m := NewMove(E5, F6, EnPassant)
	undo := pos.MakeMove(m)
	if pos.Board.PieceAt(F5) != NoPiece {
		t.Errorf("captured pawn still on f5")
	}
	if pos.Board.PieceAt(F6) != WhitePawn {
		t.Errorf("capturing pawn not on f6")
	}
	pos.UnmakeMove(m, undo)
	if pos.Board.PieceAt(F5) != BlackPawn {
		t.Errorf("captured pawn not restored on f5")
	}
	if pos.Board.PieceAt(E5) != WhitePawn {
		t.Errorf("capturing pawn not restored on e5")
	}
}

func TestCheckmateDetection(t *testing.T) {
	// back-rank mate
	pos, err := ParseFEN("6k1/5ppp/8/8/8/8/8/R3K1R1 w - - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	m := NewMove(A1, A8, QuietMove)
	pos.MakeMove(m)
	if !pos.IsCheckmate() {
		t.Errorf("expected checkmate after Ra8#")
	}
}

func TestStalemateDetection(t *testing.T) {
	// Kg5, Qf6 vs Kh8: Qf6-f7 is the textbook stalemate (g7/g8/h7 all
	// covered, f7 itself gives no check since f7-h8 is not aligned).
	pos, err := ParseFEN("7k/8/5Q2/6K1/8/8/8/8 w - - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	m := NewMove(F6, F7, QuietMove)
	pos.MakeMove(m)
	if !pos.IsStalemate() {
		t.Errorf("expected stalemate after Qf7")
	}
}

func TestPinnedPieceCannotMoveOffLine(t *testing.T) {
	pos, err := ParseFEN("4k3/8/8/8/4r3/8/4N3/4K3 w - - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	pinned := pos.Pinned()
	if pinned&SquareBB(E2) == 0 {
		t.Fatalf("expected knight on e2 to be pinned")
	}
	moves := pos.GenerateLegalMoves()
	for i := 0; i < moves.Len(); i++ {
		if moves.Get(i).From() == E2 {
			t.Errorf("pinned knight must have no legal moves, found %s", moves.Get(i))
		}
	}
}
