package main

// Connects to the first responsive peer (or a peer described by a
// YAML link file) and prints the text console packets it returns in
// its acks.

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v2"

	"github.com/rfkit/crazyradio"
)

var configFile = flag.String("config", "", "YAML link description")

type linkFile struct {
	Channel  *int   `yaml:"channel"`
	Address  string `yaml:"address"`
	Datarate string `yaml:"datarate"`
	Power    string `yaml:"power"`
	Arc      *int   `yaml:"arc"`
	Ard      string `yaml:"ard"`
}

// load merges a YAML link description into cfg. A missing channel
// means "scan for one".
func load(path string, cfg *crazyradio.Config) (haveChannel bool, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return false, err
	}
	var lf linkFile
	if err := yaml.Unmarshal(data, &lf); err != nil {
		return false, fmt.Errorf("%s: %w", path, err)
	}
	if lf.Channel != nil {
		cfg.Channel = crazyradio.Channel(*lf.Channel)
		haveChannel = true
	}
	if lf.Address != "" {
		if cfg.Address, err = crazyradio.ParseAddress(lf.Address); err != nil {
			return false, err
		}
	}
	if lf.Datarate != "" {
		if cfg.Datarate, err = crazyradio.ParseDatarate(lf.Datarate); err != nil {
			return false, err
		}
	}
	if lf.Power != "" {
		if cfg.Power, err = crazyradio.ParsePower(lf.Power); err != nil {
			return false, err
		}
	}
	if lf.Arc != nil {
		cfg.Arc = *lf.Arc
	}
	if lf.Ard != "" {
		d, err := time.ParseDuration(lf.Ard)
		if err != nil {
			return false, fmt.Errorf("%s: ard: %w", path, err)
		}
		cfg.Ard = d
	}
	return haveChannel, cfg.Validate()
}

func main() {
	flag.Parse()

	cfg := crazyradio.DefaultConfig()
	haveChannel := false
	if *configFile != "" {
		var err error
		if haveChannel, err = load(*configFile, &cfg); err != nil {
			log.Fatal(err)
		}
	}

	r, err := crazyradio.Open()
	if err != nil {
		log.Fatal(err)
	}
	shared := crazyradio.NewSharedRadio(r)
	defer shared.Close()

	if !haveChannel {
		fmt.Println("scanning for peers ...")
		sc := shared.Scanner(cfg, 0, crazyradio.MaxChannel, []byte{0xFF})
		if !sc.Scan() {
			if sc.Err() != nil {
				log.Fatal(sc.Err())
			}
			log.Fatal("no peer found")
		}
		cfg.Channel = sc.Channel()
	}
	fmt.Printf("connecting to channel %v\n", cfg.Channel)

	link, err := shared.Link(cfg)
	if err != nil {
		log.Fatal(err)
	}
	for i := 0; i < 100; i++ {
		ack, err := link.Exchange([]byte{0xFF})
		if err != nil {
			log.Fatal(err)
		}
		// Console packets carry a zero header byte.
		if ack.Received && len(ack.Payload) > 1 && ack.Payload[0] == 0 {
			fmt.Print(string(ack.Payload[1:]))
		}
	}
}
