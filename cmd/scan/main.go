package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/rfkit/crazyradio"
)

var (
	first    = flag.Int("first", 0, "first channel to scan")
	last     = flag.Int("last", int(crazyradio.MaxChannel), "last channel to scan")
	rateName = flag.String("rate", "2M", "datarate (250K, 1M, 2M)")
	addrText = flag.String("address", "E7E7E7E7E7", "peer address (10 hex digits)")
)

func main() {
	flag.Parse()

	rate, err := crazyradio.ParseDatarate(*rateName)
	if err != nil {
		log.Fatal(err)
	}
	addr, err := crazyradio.ParseAddress(*addrText)
	if err != nil {
		log.Fatal(err)
	}

	r, err := crazyradio.Open()
	if err != nil {
		log.Fatal(err)
	}
	defer r.Close()
	fmt.Printf("opened Crazyradio %s\n", r.Serial())

	cfg := crazyradio.DefaultConfig()
	cfg.Address = addr
	cfg.Datarate = rate
	if err := r.Apply(cfg); err != nil {
		log.Fatal(err)
	}

	fmt.Printf("scanning channels %d to %d at %v ...\n", *first, *last, rate)
	found, err := r.ScanChannels(crazyradio.Channel(*first), crazyradio.Channel(*last), []byte{0xFF})
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("found %d responsive channel(s):\n", len(found))
	for _, ch := range found {
		fmt.Printf("  %v\n", ch)
	}
}
