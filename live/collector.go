package live

import (
	"crypto/tls"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"f50-race-telemetry/tack"
	"f50-race-telemetry/telemetry"
)

// Collector subscribes to the boat telemetry topic, normalizes incoming rows
// to starboard-tack convention and fans them out to the ring buffer and the
// CSV log.
type Collector struct {
	config     Config
	client     mqtt.Client
	table      *tack.RuleTable
	buffer     BufferInterface
	writer     WriterInterface
	stats      *Statistics
	rawRows    chan telemetry.Row
	normalized chan telemetry.Row
	done       chan struct{}
}

// Interfaces for dependency injection (testing)
type BufferInterface interface {
	Push(row telemetry.Row)
	Size() int
	GetStats() map[string]interface{}
}

type WriterInterface interface {
	WriteRow(row telemetry.Row) error
	Close() error
}

func NewCollector(config Config, table *tack.RuleTable, buffer BufferInterface, writer WriterInterface) *Collector {
	return &Collector{
		config:     config,
		table:      table,
		buffer:     buffer,
		writer:     writer,
		stats:      NewStatistics(),
		rawRows:    make(chan telemetry.Row, config.QueueSize),
		normalized: make(chan telemetry.Row, config.QueueSize),
		done:       make(chan struct{}),
	}
}

func (c *Collector) Start() error {
	log.Printf("[Live] Starting collector...")
	log.Printf("[Live] Config: Broker=%s:%d Topic=%s", c.config.MQTTBroker, c.config.MQTTPort, c.config.MQTTTopic)

	opts := mqtt.NewClientOptions()

	protocol := "tcp"
	if c.config.UseTLS {
		protocol = "tls"
	}
	brokerURL := fmt.Sprintf("%s://%s:%d", protocol, c.config.MQTTBroker, c.config.MQTTPort)
	opts.AddBroker(brokerURL)

	clientID := fmt.Sprintf("f50-telemetry-%d", time.Now().Unix())
	opts.SetClientID(clientID)

	if c.config.MQTTUsername != "" {
		opts.SetUsername(c.config.MQTTUsername)
		opts.SetPassword(c.config.MQTTPassword)
	}

	if c.config.UseTLS {
		opts.SetTLSConfig(&tls.Config{
			InsecureSkipVerify: c.config.InsecureSkipTLS,
		})
	}

	opts.SetKeepAlive(60 * time.Second)
	opts.SetPingTimeout(10 * time.Second)
	opts.SetConnectTimeout(10 * time.Second)
	opts.SetAutoReconnect(true)
	opts.SetMaxReconnectInterval(30 * time.Second)

	opts.OnConnect = c.onConnect
	opts.OnConnectionLost = c.onConnectionLost
	opts.OnReconnecting = c.onReconnecting

	c.client = mqtt.NewClient(opts)

	log.Printf("[MQTT] Connecting to %s as %s...", brokerURL, clientID)

	token := c.client.Connect()
	if !token.WaitTimeout(10 * time.Second) {
		return fmt.Errorf("MQTT connect timeout")
	}
	if token.Error() != nil {
		return fmt.Errorf("MQTT connect failed: %w", token.Error())
	}

	log.Printf("[Live] Starting %d normalize workers", c.config.Workers)
	for i := 0; i < c.config.Workers; i++ {
		go c.normalizeWorker(i)
	}
	go c.storageWorker()
	go c.statsReporter()

	log.Printf("[Live] Collector started successfully")
	return nil
}

func (c *Collector) Stop() {
	log.Printf("[Live] Stopping collector...")
	close(c.done)

	if c.client != nil && c.client.IsConnected() {
		c.client.Disconnect(1000)
	}

	if c.writer != nil {
		c.writer.Close()
	}

	snap := c.stats.GetSnapshot()
	log.Printf("[Live] Collector stopped - processed %d messages (%.1f%% normalized)",
		snap["messages_processed"], snap["success_rate"])
}

func (c *Collector) onConnect(client mqtt.Client) {
	log.Printf("[MQTT] Connected successfully")

	token := client.Subscribe(c.config.MQTTTopic, 0, c.onMessage)
	if !token.WaitTimeout(5 * time.Second) {
		log.Printf("[MQTT] Subscribe timeout for %s", c.config.MQTTTopic)
		return
	}
	if token.Error() != nil {
		log.Printf("[MQTT] Subscribe error: %v", token.Error())
		return
	}

	log.Printf("[MQTT] Subscribed to %s", c.config.MQTTTopic)
}

func (c *Collector) onConnectionLost(client mqtt.Client, err error) {
	log.Printf("[MQTT] Connection lost: %v (will auto-reconnect)", err)
}

func (c *Collector) onReconnecting(client mqtt.Client, opts *mqtt.ClientOptions) {
	log.Printf("[MQTT] Reconnecting...")
}

func (c *Collector) onMessage(client mqtt.Client, msg mqtt.Message) {
	var payload map[string]interface{}
	if err := json.Unmarshal(msg.Payload(), &payload); err != nil {
		// Not JSON, skip
		return
	}

	row := parseRow(msg.Topic(), payload)
	if row == nil {
		return
	}

	select {
	case c.rawRows <- row:
		// Queued
	case <-c.done:
		return
	default:
		// Queue full, drop message (prioritize latest data)
	}
}

// parseRow builds a telemetry row from one message payload. The boat id
// comes from the payload or, failing that, the topic ("boats/AUS/telemetry").
// Channel values may sit flat in the payload or under a "fields" object.
func parseRow(topic string, payload map[string]interface{}) telemetry.Row {
	row := telemetry.Row{
		telemetry.FieldDateTime: time.Now().UTC(),
	}

	if boat, ok := payload["boat"].(string); ok && boat != "" {
		row[telemetry.FieldBoat] = boat
	} else if parts := strings.Split(topic, "/"); len(parts) >= 2 {
		row[telemetry.FieldBoat] = parts[1]
	}

	// Millisecond epoch timestamp, either key.
	if ts, ok := payload["ts"].(float64); ok {
		row[telemetry.FieldDateTime] = time.Unix(0, int64(ts)*1e6).UTC()
	} else if ts, ok := payload["timestamp"].(float64); ok {
		row[telemetry.FieldDateTime] = time.Unix(0, int64(ts)*1e6).UTC()
	}

	fields, ok := payload["fields"].(map[string]interface{})
	if !ok {
		fields = payload
	}
	for name, raw := range fields {
		switch name {
		case "boat", "ts", "timestamp", "fields":
			continue
		}
		if v, ok := telemetry.ToFloat64(raw); ok {
			row[name] = v
		}
	}

	if _, ok := row[telemetry.FieldTWA]; !ok {
		return nil // no wind angle, nothing to normalize against
	}
	if port, err := telemetry.DerivePortTack(row); err == nil {
		row[telemetry.FieldPortTack] = port
	}

	return row
}

func (c *Collector) normalizeWorker(id int) {
	log.Printf("[Live] Normalize worker %d started", id)

	for {
		select {
		case row := <-c.rawRows:
			normalized, err := tack.Normalize(row, c.table)
			c.stats.RecordMessage(row.Boat(), err == nil)
			if err != nil {
				log.Printf("[Live] Row rejected (boat %s): %v", row.Boat(), err)
				continue
			}

			select {
			case c.normalized <- normalized:
				// Queued
			case <-c.done:
				return
			default:
				// Storage queue full, drop
			}

		case <-c.done:
			log.Printf("[Live] Normalize worker %d stopped", id)
			return
		}
	}
}

func (c *Collector) storageWorker() {
	log.Printf("[Live] Storage worker started")

	for {
		select {
		case row := <-c.normalized:
			if c.buffer != nil {
				c.buffer.Push(row)
			}
			if c.writer != nil {
				if err := c.writer.WriteRow(row); err != nil {
					log.Printf("[Live] CSV write failed: %v", err)
				}
			}

		case <-c.done:
			log.Printf("[Live] Storage worker stopped")
			return
		}
	}
}

func (c *Collector) statsReporter() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			stats := c.stats.GetSnapshot()
			log.Printf("[Live] Stats: %d msgs, %.1f msg/s, %.1f%% normalized, buffer: %d",
				stats["messages_processed"],
				stats["messages_per_sec"],
				stats["success_rate"],
				c.buffer.Size())

		case <-c.done:
			return
		}
	}
}

func (c *Collector) Buffer() BufferInterface {
	return c.buffer
}

func (c *Collector) Stats() *Statistics {
	return c.stats
}

func (c *Collector) IsConnected() bool {
	return c.client != nil && c.client.IsConnected()
}
