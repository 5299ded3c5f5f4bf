package live

// Config holds live collector configuration.
type Config struct {
	MQTTBroker      string
	MQTTPort        int
	MQTTUsername    string
	MQTTPassword    string
	MQTTTopic       string
	UseTLS          bool
	InsecureSkipTLS bool
	BufferSize      int
	Workers         int
	QueueSize       int
	EnableCSV       bool
	CSVPath         string
}

func DefaultConfig() Config {
	return Config{
		MQTTBroker: "localhost",
		MQTTPort:   1883,
		MQTTTopic:  "boats/+/telemetry",
		BufferSize: 86400,
		Workers:    4,
		QueueSize:  1000,
		EnableCSV:  true,
		CSVPath:    "data/normalized.csv",
	}
}
