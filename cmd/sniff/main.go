package main

// Records all traffic exchanged with a peer to a rotating capture
// log, one hex-dumped frame per line.

import (
	"flag"
	"fmt"
	"log"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/rfkit/crazyradio"
)

var (
	channel  = flag.Int("channel", int(crazyradio.DefaultConfig().Channel), "radio channel")
	count    = flag.Int("count", 1000, "number of exchanges")
	logFile  = flag.String("log", "capture.log", "capture log file")
	logSize  = flag.Int("logsize", 10, "maximum capture log size (MB)")
	logFiles = flag.Int("logfiles", 5, "number of rotated capture logs to keep")
)

// captureLog writes each observed frame to an underlying log.Logger.
type captureLog struct {
	logger *log.Logger
}

func (c *captureLog) Observe(dir crazyradio.Direction, data []byte) {
	c.logger.Printf("%s % X", dir, data)
}

func main() {
	flag.Parse()

	out := &lumberjack.Logger{
		Filename:   *logFile,
		MaxSize:    *logSize,
		MaxBackups: *logFiles,
	}
	defer out.Close()
	sink := &captureLog{logger: log.New(out, "", log.LstdFlags|log.Lmicroseconds)}

	r, err := crazyradio.Open()
	if err != nil {
		log.Fatal(err)
	}
	r.SetCaptureSink(sink)

	shared := crazyradio.NewSharedRadio(r)
	defer shared.Close()

	cfg := crazyradio.DefaultConfig()
	cfg.Channel = crazyradio.Channel(*channel)
	link, err := shared.Link(cfg)
	if err != nil {
		log.Fatal(err)
	}
	for i := 0; i < *count; i++ {
		if _, err := link.Exchange([]byte{0xFF}); err != nil {
			log.Fatal(err)
		}
	}
	fmt.Printf("captured %d exchanges to %s\n", *count, *logFile)
}
