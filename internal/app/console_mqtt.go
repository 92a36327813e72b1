package app

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/relabs-tech/inertial_tracker/internal/bus"
	"github.com/relabs-tech/inertial_tracker/internal/config"
	"github.com/relabs-tech/inertial_tracker/internal/motion"
)

// RunConsoleMQTT prints every tracking snapshot published by the tracker.
func RunConsoleMQTT() error {
	cfg := config.Get()

	client, err := bus.Connect(cfg.MQTTBroker, cfg.MQTTClientIDConsole)
	if err != nil {
		return err
	}
	defer client.Close()

	if err := client.Subscribe(cfg.TopicTracking, consoleHandler(os.Stdout)); err != nil {
		return err
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig
	log.Println("console: shutting down")
	return nil
}

func consoleHandler(w io.Writer) bus.Handler {
	return func(payload []byte) {
		var s motion.Snapshot
		if err := json.Unmarshal(payload, &s); err != nil {
			log.Printf("console: snapshot unmarshal error: %v", err)
			return
		}
		fmt.Fprintln(w, FormatSnapshot(s))
	}
}
