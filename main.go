//go:build tinygo

package main

import (
	"context"
	"log"
	"machine"
	"time"

	"roverc/control"
	"roverc/driver/serialbridge"
	"roverc/joystick"
	"roverc/motor"
	proto "roverc/protocol"
	"roverc/settings"
	"roverc/transport"
)

var (
	i2c  = machine.I2C0
	uart = machine.UART1

	bindButton = machine.GPIO39
)

// receiverAddress is the station address of the ESP-NOW bridge.
var receiverAddress = proto.Address{0x24, 0x0A, 0xC4, 0x12, 0x34, 0x56}

func main() {
	log.SetFlags(log.Lmicroseconds)

	// i2c initialize
	if err := i2c.Configure(machine.I2CConfig{
		Frequency: 400 * machine.KHz,
		SDA:       machine.GPIO0,
		SCL:       machine.GPIO26,
	}); err != nil {
		log.Print(err)
	}

	// bridge initialize
	if err := uart.Configure(machine.UARTConfig{BaudRate: 115200}); err != nil {
		log.Print(err)
	}
	bridge := serialbridge.New(uart)

	bindButton.Configure(machine.PinConfig{Mode: machine.PinInput})

	st := settings.NewStore()
	s := st.Get()
	ch := joystick.NewChannel(receiverAddress, s.Channel)
	rover := control.NewRover(ch, motor.New(i2c))
	rover.Subscribe(st)
	if err := st.Restore(); err != nil {
		log.Print(err)
	}

	ctx := context.Background()
	go bridge.Run(ctx)
	go transport.Pump(ctx, bridge, ch.Mailbox())
	go watchBindButton(func() {
		if err := rover.Bind(ctx, bridge, st.Get()); err != nil {
			log.Print(err)
		}
	})

	if err := rover.Loop(ctx); err != nil {
		log.Fatal(err)
	}
}

// watchBindButton polls the active-low bind button.
func watchBindButton(bind func()) {
	trigger, now := control.NewBindTrigger(!bindButton.Get())
	if now {
		bind()
	}
	for {
		time.Sleep(20 * time.Millisecond)
		if trigger.Sample(!bindButton.Get()) {
			bind()
		}
	}
}
