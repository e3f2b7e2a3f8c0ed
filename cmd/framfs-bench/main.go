// Benchmark append throughput against an in-memory FRAM store.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/mit-pdos/go-journal/util"

	"github.com/framtag/framfs/fram"
	"github.com/framtag/framfs/framfs"
	"github.com/framtag/framfs/record"
)

var size = flag.Uint64("size", uint64(fram.DefaultSize), "store size in bytes")
var recsize = flag.Int("recsize", 16, "bytes per append")
var deviceRecs = flag.Bool("devices", false, "append device-scan records instead of raw bytes")
var debug = flag.Uint64("debug", 0, "debug level")

func rawAppends(fs *framfs.Fs) int {
	data := make([]byte, *recsize)
	for i := range data {
		data[i] = byte(i)
	}
	count := 0
	for {
		if err := fs.Append(data); err != nil {
			if err == framfs.ErrFull {
				return count
			}
			fmt.Fprintf(os.Stderr, "append %d: %v\n", count, err)
			os.Exit(1)
		}
		count++
	}
}

func deviceAppends(fs *framfs.Fs) int {
	ids := make([][framfs.MacIDLen]byte, 8)
	rssi := make([]int8, 8)
	for i := range ids {
		ids[i] = [framfs.MacIDLen]byte{0xAA, 0xBB, byte(i)}
		rssi[i] = int8(-40 - i)
	}
	count := 0
	for {
		minute := uint16(count % (record.MinuteMax + 1))
		if err := fs.AppendDeviceScan(minute, uint8(count), ids, rssi); err != nil {
			if err == framfs.ErrFull {
				return count
			}
			fmt.Fprintf(os.Stderr, "append %d: %v\n", count, err)
			os.Exit(1)
		}
		count++
	}
}

func main() {
	flag.Parse()
	util.Debug = *debug

	store := fram.NewMemStore(uint32(*size))
	fs, err := framfs.Format(store)
	if err != nil {
		panic(err)
	}
	if err := fs.CreateActive("bench", framfs.TypeRawData); err != nil {
		panic(err)
	}

	start := time.Now()
	var count int
	if *deviceRecs {
		count = deviceAppends(fs)
	} else {
		count = rawAppends(fs)
	}
	elapsed := time.Since(start)

	fmt.Printf("filled store: %d appends in %v\n", count, elapsed)
	fmt.Printf("%.1f appends/sec\n", float64(count)/elapsed.Seconds())
	fs.WriteOpStats(os.Stdout)
}
