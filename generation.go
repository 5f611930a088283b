package listkit

import "log/slog"

// generation counts structural mutations of a root container. Views and
// cursors keep a snapshot and compare it with the live value before they act.
type generation struct {
	n uint64
}

func (g *generation) current() uint64 {
	return g.n
}

func (g *generation) bump() {
	g.n++
}

// checkGeneration reports ErrConcurrentModification when a snapshot no
// longer matches the live counter.
func checkGeneration(expected, live uint64) error {
	if expected != live {
		return ErrConcurrentModification
	}
	return nil
}

// logConflict records a detected conflict at debug level.
func logConflict(log *slog.Logger, who string, expected, live uint64) {
	log.Debug("generation conflict",
		slog.String("detector", who),
		slog.Uint64("expected", expected),
		slog.Uint64("live", live))
}
