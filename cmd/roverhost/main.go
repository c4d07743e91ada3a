//go:build !tinygo && !baremetal

// Command roverhost runs the rover control loop on a host computer. Joystick
// packets arrive through a serial-attached ESP-NOW bridge and drive commands
// are logged instead of written to an I2C bus.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"
	"gopkg.in/yaml.v3"

	"roverc/control"
	"roverc/driver/serialbridge"
	"roverc/driver/stub"
	"roverc/joystick"
	"roverc/logger"
	"roverc/motor"
	proto "roverc/protocol"
	"roverc/settings"
	"roverc/transport"
)

// defaultAddress is a locally administered address used when none is configured.
const defaultAddress = "02:00:00:00:00:01"

type logConfig struct {
	Directory  string `yaml:"directory"`
	MaxSizeMB  int    `yaml:"maxSizeMB"`
	MaxAgeDays int    `yaml:"maxAgeDays"`
	MaxBackups int    `yaml:"maxBackups"`
	Compress   bool   `yaml:"compress"`
}

type serialConfig struct {
	Port string `yaml:"port"`
	Baud int    `yaml:"baud"`
}

type config struct {
	Address     string            `yaml:"address"`
	Serial      serialConfig      `yaml:"serial"`
	Rover       settings.Settings `yaml:"rover"`
	StatusEvery int               `yaml:"statusEvery"`
	Logs        logConfig         `yaml:"logs"`
}

func defaultConfig() config {
	return config{
		Address:     defaultAddress,
		Serial:      serialConfig{Baud: 115200},
		Rover:       settings.Default(),
		StatusEvery: 50,
	}
}

// loadConfig reads path over the defaults. An empty path yields the defaults.
// ROVER_PORT and ROVER_ADDRESS override the file.
func loadConfig(path string) (config, error) {
	cfg := defaultConfig()
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return cfg, err
		}
		defer f.Close()
		dec := yaml.NewDecoder(f)
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	}
	if v := os.Getenv("ROVER_PORT"); v != "" {
		cfg.Serial.Port = v
	}
	if v := os.Getenv("ROVER_ADDRESS"); v != "" {
		cfg.Address = v
	}
	if cfg.Serial.Baud <= 0 {
		cfg.Serial.Baud = 115200
	}
	if cfg.StatusEvery <= 0 {
		cfg.StatusEvery = 50
	}
	if cfg.Logs.Directory != "" {
		if cfg.Logs.MaxSizeMB <= 0 {
			cfg.Logs.MaxSizeMB = 25
		}
		if cfg.Logs.MaxAgeDays <= 0 {
			cfg.Logs.MaxAgeDays = 7
		}
		if cfg.Logs.MaxBackups <= 0 {
			cfg.Logs.MaxBackups = 5
		}
	}
	if err := settings.Validate(cfg.Rover); err != nil {
		return cfg, fmt.Errorf("rover settings: %w", err)
	}
	return cfg, nil
}

func setupLogging(cfg config) error {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	if cfg.Logs.Directory == "" {
		return nil
	}
	if err := os.MkdirAll(cfg.Logs.Directory, 0o755); err != nil {
		return fmt.Errorf("create log dir: %w", err)
	}
	rotator := &lumberjack.Logger{
		Filename:   filepath.Join(cfg.Logs.Directory, "roverhost.log"),
		MaxSize:    cfg.Logs.MaxSizeMB,
		MaxAge:     cfg.Logs.MaxAgeDays,
		MaxBackups: cfg.Logs.MaxBackups,
		Compress:   cfg.Logs.Compress,
	}
	log.SetOutput(io.MultiWriter(os.Stdout, rotator))
	return nil
}

func main() {
	configPath := flag.String("config", "", "path to configuration file")
	port := flag.String("port", "", "serial port of the ESP-NOW bridge (overrides config)")
	baud := flag.Int("baud", 0, "serial baud rate (overrides config)")
	address := flag.String("address", "", "receiver address, e.g. 24:0A:C4:12:34:56 (overrides config)")
	bind := flag.Bool("bind", false, "announce the receiver to an unpaired joystick at startup")
	simulate := flag.Bool("simulate", false, "without -port, feed a simulated joystick into the stub driver")
	listPorts := flag.Bool("list-ports", false, "list serial ports and exit")
	label := flag.String("label", "", "write the receiver address as a QR code PNG to this path and exit")
	flag.Parse()

	if *listPorts {
		ports, err := serialbridge.Ports()
		if err != nil {
			log.Fatalf("list ports: %v", err)
		}
		fmt.Println(strings.Join(ports, "\n"))
		return
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if *port != "" {
		cfg.Serial.Port = *port
	}
	if *baud > 0 {
		cfg.Serial.Baud = *baud
	}
	if *address != "" {
		cfg.Address = *address
	}
	if err := setupLogging(cfg); err != nil {
		log.Fatalf("setup logging: %v", err)
	}
	own, err := proto.ParseAddress(cfg.Address)
	if err != nil {
		log.Fatalf("receiver address: %v", err)
	}
	if *label != "" {
		if err := writeAddressLabel(*label, own); err != nil {
			log.Fatalf("address label: %v", err)
		}
		log.Printf("[roverhost] wrote %v label to %s", own, *label)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var drv transport.Driver
	if cfg.Serial.Port != "" {
		bridge, sp, err := serialbridge.Open(cfg.Serial.Port, cfg.Serial.Baud)
		if err != nil {
			log.Fatalf("serial bridge: %v", err)
		}
		defer sp.Close()
		go func() {
			if err := bridge.Run(ctx); err != nil {
				log.Printf("[bridge] %v", err)
				stop()
			}
		}()
		drv = bridge
		log.Printf("[roverhost] serial bridge on %s @ %d", cfg.Serial.Port, cfg.Serial.Baud)
	} else {
		sd := stub.New()
		if *simulate {
			go simulateJoystick(ctx, sd, own)
		}
		drv = sd
		log.Printf("[roverhost] no serial port, using stub driver")
	}

	st := settings.NewStore()
	ch := joystick.NewChannel(own, cfg.Rover.Channel)
	rover := control.NewRover(ch, motor.New(motor.NewLogBus()))
	rover.Subscribe(st)
	cycles := 0
	rover.OnStatus = func(s control.Status) {
		cycles++
		if cycles%cfg.StatusEvery == 0 {
			logger.Log(fmt.Sprintf("[rover] %v T:%6.3f R:%6.3f P:%6.3f Y:%6.3f S%4.0f A%4.0f",
				s.Mode, s.Throttle, s.Roll, s.Pitch, s.Yaw, s.Speed, s.Angle))
		}
	}
	if err := st.Update(cfg.Rover); err != nil {
		log.Fatalf("apply settings: %v", err)
	}
	log.Printf("[roverhost] receiver %v, channel %d", own, cfg.Rover.Channel)

	go transport.Pump(ctx, drv, ch.Mailbox())

	if *bind {
		if err := rover.Bind(ctx, drv, st.Get()); err != nil {
			log.Printf("[roverhost] binding: %v", err)
		}
	}

	if err := rover.Loop(ctx); err != nil {
		log.Fatalf("control loop: %v", err)
	}
	if n := logger.Dropped(); n > 0 {
		log.Printf("[roverhost] %d log lines dropped", n)
	}
	log.Printf("[roverhost] stopped")
}

// simulateJoystick injects a slow stick sweep addressed to own.
func simulateJoystick(ctx context.Context, d *stub.Driver, own proto.Address) {
	tick := time.NewTicker(10 * time.Millisecond)
	defer tick.Stop()
	start := time.Now()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-tick.C:
			phase := now.Sub(start).Seconds()
			d.InjectRx(proto.Encode(proto.Frame{
				Pitch:   float32(math.Sin(phase)),
				Roll:    float32(math.Cos(phase) / 2),
				AltMode: proto.AltModeAuto,
			}, own))
		}
	}
}
