package main

import (
	"fmt"
	"log"

	"github.com/rfkit/crazyradio"
)

func main() {
	serials, err := crazyradio.ListSerials()
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("%d Crazyradio dongle(s) found:\n", len(serials))
	for _, s := range serials {
		fmt.Printf("  - %s\n", s)
	}

	r, err := crazyradio.Open()
	if err != nil {
		log.Fatal(err)
	}
	defer r.Close()
	fmt.Printf("serial: %s\n", r.Serial())
	fmt.Printf("firmware version: %s\n", r.Version())

	// Null packet against the boot configuration.
	ack, err := r.Exchange(nil)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("probe ack: received=%v retries=%d payload=% X\n", ack.Received, ack.Retry, ack.Payload)
}
