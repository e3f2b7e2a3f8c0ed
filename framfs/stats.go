package framfs

import (
	"io"

	"github.com/framtag/framfs/stats"
)

type statOp = stats.Op

const (
	opFormat = iota
	opCreate
	opAppend
	opSeal
	opRead
	opList
	opMac
	numOps
)

var opNames = []string{
	"FORMAT",
	"CREATE",
	"APPEND",
	"SEAL",
	"READ",
	"LIST",
	"MAC",
}

// WriteOpStats renders per-operation counters and latencies.
func (fs *Fs) WriteOpStats(w io.Writer) {
	stats.WriteTable(opNames, fs.stats[:], w)
}

func (fs *Fs) ResetOpStats() {
	for i := range fs.stats {
		fs.stats[i].Reset()
	}
}
