// The rtcmonitor command subscribes to the readings published by the ds1302 mqtt example and logs how far each
// device's RTC has drifted from the host clock.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	errgo "gopkg.in/errgo.v1"

	"github.com/ajanata/tinygo-drivers/rtcreport"
)

var (
	broker   = flag.String("broker", "tcp://localhost:1883", "MQTT broker URL")
	topic    = flag.String("topic", "rtc/+/reading", "topic to subscribe to")
	clientID = flag.String("id", "rtcmonitor", "MQTT client id")
	maxDrift = flag.Duration("max-drift", 2*time.Second, "drift beyond which a device is reported")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: rtcmonitor [flags]\n")
		flag.PrintDefaults()
		os.Exit(2)
	}
	flag.Parse()
	if flag.NArg() != 0 {
		flag.Usage()
	}
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	m := newMonitor(*maxDrift)
	opts := mqtt.NewClientOptions().
		AddBroker(*broker).
		SetClientID(*clientID).
		SetAutoReconnect(true)
	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return errgo.Notef(token.Error(), "cannot connect to %s", *broker)
	}
	defer client.Disconnect(250)

	token := client.Subscribe(*topic, 0, func(_ mqtt.Client, msg mqtt.Message) {
		if line := m.handle(msg.Payload(), time.Now()); line != "" {
			log.Print(line)
		}
	})
	if token.Wait() && token.Error() != nil {
		return errgo.Notef(token.Error(), "cannot subscribe to %q", *topic)
	}
	log.Printf("watching %s on %s", *topic, *broker)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt)
	<-sig
	return nil
}

// monitor tracks the last drift seen from each device.
type monitor struct {
	maxDrift time.Duration

	mu   sync.Mutex
	last map[string]time.Duration
}

func newMonitor(maxDrift time.Duration) *monitor {
	return &monitor{
		maxDrift: maxDrift,
		last:     make(map[string]time.Duration),
	}
}

// handle processes one payload received at now and returns the line to log, if any.
func (m *monitor) handle(payload []byte, now time.Time) string {
	r, err := rtcreport.Parse(payload)
	if err != nil {
		return fmt.Sprintf("bad payload %q: %v", payload, err)
	}
	if r.Halted {
		return fmt.Sprintf("%s: oscillator halted", r.Device)
	}
	drift := r.Drift(now).Truncate(time.Second)

	m.mu.Lock()
	prev, seen := m.last[r.Device]
	m.last[r.Device] = drift
	m.mu.Unlock()

	if abs(drift) > m.maxDrift {
		return fmt.Sprintf("%s: drift %v exceeds %v", r.Device, drift, m.maxDrift)
	}
	if !seen || prev != drift {
		return fmt.Sprintf("%s: drift %v", r.Device, drift)
	}
	return ""
}

func abs(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
