package main

import (
	"fmt"
	"log"

	"github.com/rfkit/crazyradio"
)

func main() {
	r, err := crazyradio.Open()
	if err != nil {
		log.Fatal(err)
	}
	serial := r.Serial()
	if err := r.LaunchBootloader(); err != nil {
		log.Fatal(err)
	}
	fmt.Printf("dongle %s restarting in bootloader mode\n", serial)
}
