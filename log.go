package cuckoocycle

import "go.uber.org/zap"

// log is the package-wide logger. It is disabled (a no-op) until a caller
// wires one in with SetLogger, mirroring the miner's own logging convention
// of shipping silent by default and letting the embedding application opt in.
var log = zap.NewNop()

// SetLogger installs the logger used for solver diagnostics: the end of
// generation, of each trim round and of each compression pass, with
// surviving-record counts and bucket high-water marks
// (trimmer.go's logPhase), and candidate-cycle-found events (cuckoo.go's
// solve). Passing nil restores the no-op logger.
func SetLogger(l *zap.Logger) {
	if l == nil {
		log = zap.NewNop()
		return
	}
	log = l
}
