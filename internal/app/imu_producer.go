package app

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/relabs-tech/inertial_tracker/internal/bus"
	"github.com/relabs-tech/inertial_tracker/internal/config"
	"github.com/relabs-tech/inertial_tracker/internal/imu"
	"github.com/relabs-tech/inertial_tracker/internal/motion"
	"github.com/relabs-tech/inertial_tracker/internal/sensors"
	"github.com/relabs-tech/inertial_tracker/internal/timeutil"
)

// RunIMUProducer reads the IMU (or the mock when SOURCE=mock) at the sample
// interval and publishes each reading as an imu.Sample.
func RunIMUProducer() error {
	log.Println("starting inertial-tracker IMU producer")

	cfg := config.Get()
	clock := timeutil.RealClock{}

	var (
		reader sensors.Reader
		name   string
	)
	if cfg.Source == config.SourceMock {
		log.Println("using mock IMU source")
		reader = sensors.NewMock(cfg.SampleInterval(), int(cfg.CalibrationWindow))
		name = config.SourceMock
	} else {
		dev, err := sensors.OpenMPU9250(cfg.IMUSPIDevice, cfg.IMUCSPin, imu.Scale{
			AccelLSBPerG:  cfg.IMUAccelLSBPerG,
			GyroLSBPerDPS: cfg.IMUGyroLSBPerDPS,
		})
		if err != nil {
			return err
		}
		reader = dev
		name = "mpu9250"
	}

	client, err := bus.Connect(cfg.MQTTBroker, cfg.MQTTClientIDProducer)
	if err != nil {
		return err
	}
	defer client.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Printf("publishing samples to %s every %s", cfg.TopicIMURaw, cfg.SampleInterval())
	err = publishSamples(ctx, sensors.Polled(reader, cfg.SampleInterval(), clock), client, cfg.TopicIMURaw, name, clock)
	if ctx.Err() != nil {
		return nil
	}
	return err
}

// publishSamples forwards every sample of src until src ends.
func publishSamples(ctx context.Context, src sensors.Source, pub bus.Publisher, topic, name string, clock timeutil.Clock) error {
	samples := make(chan motion.RawSample, 16)
	errc := make(chan error, 1)
	go func() {
		errc <- src.Stream(ctx, samples)
		close(samples)
	}()

	var n uint64
	for s := range samples {
		msg := imu.FromRawSample(name, clock.Now().UnixMicro(), s)
		if err := bus.PublishJSON(pub, topic, false, msg); err != nil {
			log.Printf("MQTT publish error (%s): %v", topic, err)
			continue
		}
		n++
		if n%1000 == 0 {
			log.Printf("published %d samples", n)
		}
	}
	return <-errc
}
