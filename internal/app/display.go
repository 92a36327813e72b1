package app

import (
	"encoding/json"
	"fmt"
	"image"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/devices/v3/ssd1306"
	"periph.io/x/devices/v3/ssd1306/image1bit"
	"periph.io/x/host/v3"

	"github.com/relabs-tech/inertial_tracker/internal/bus"
	"github.com/relabs-tech/inertial_tracker/internal/config"
	"github.com/relabs-tech/inertial_tracker/internal/motion"
)

const (
	displayWidth  = 128
	displayHeight = 64
	lineHeight    = 13 // basicfont.Face7x13
)

// displayState holds the latest snapshot received from the tracker.
type displayState struct {
	mu   sync.RWMutex
	snap motion.Snapshot
	have bool
}

func (d *displayState) handle(payload []byte) {
	var s motion.Snapshot
	if err := json.Unmarshal(payload, &s); err != nil {
		log.Printf("display: snapshot unmarshal error: %v", err)
		return
	}
	d.mu.Lock()
	d.snap = s
	d.have = true
	d.mu.Unlock()
}

func (d *displayState) lines() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if !d.have {
		return []string{"Tracker", "Waiting..."}
	}
	return DisplayLines(d.snap)
}

// RunDisplay shows the tracking state on an SSD1306 over I2C.
func RunDisplay() error {
	cfg := config.Get()

	if _, err := host.Init(); err != nil {
		return fmt.Errorf("failed to initialize periph: %w", err)
	}

	i2cBus, err := i2creg.Open("")
	if err != nil {
		return fmt.Errorf("failed to open I2C bus: %w", err)
	}
	defer i2cBus.Close()

	dev, err := ssd1306.NewI2C(i2cBus, &ssd1306.DefaultOpts)
	if err != nil {
		return fmt.Errorf("failed to initialize display: %w", err)
	}
	defer dev.Halt()
	log.Println("display: initialized")

	if err := dev.Draw(dev.Bounds(), renderLines([]string{"", "Inertial", "Tracker"}), image.Point{}); err != nil {
		log.Printf("display: error showing splash: %v", err)
	}

	client, err := bus.Connect(cfg.MQTTBroker, cfg.MQTTClientIDDisplay)
	if err != nil {
		return err
	}
	defer client.Close()

	state := &displayState{}
	if err := client.Subscribe(cfg.TopicTracking, state.handle); err != nil {
		return err
	}

	ticker := time.NewTicker(time.Duration(cfg.DisplayUpdateInterval) * time.Millisecond)
	defer ticker.Stop()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	log.Println("display: starting update loop")
	for {
		select {
		case <-sig:
			log.Println("display: shutting down")
			return nil
		case <-ticker.C:
			if err := dev.Draw(dev.Bounds(), renderLines(state.lines()), image.Point{}); err != nil {
				log.Printf("display: error updating display: %v", err)
			}
		}
	}
}

// renderLines draws up to four text lines on a blank frame.
func renderLines(lines []string) *image1bit.VerticalLSB {
	img := image1bit.NewVerticalLSB(image.Rect(0, 0, displayWidth, displayHeight))

	drawer := &font.Drawer{
		Dst:  img,
		Src:  &image.Uniform{image1bit.On},
		Face: basicfont.Face7x13,
	}
	for i, line := range lines {
		y := (i + 1) * lineHeight
		if y > displayHeight {
			break
		}
		drawer.Dot = fixed.P(0, y)
		drawer.DrawString(line)
	}
	return img
}
