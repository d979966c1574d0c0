package ssdb

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// --------------------------------------------------------------------------
// Client configuration struct
// --------------------------------------------------------------------------

// Config holds all configuration parameters for the SSDB client
type Config struct {
	// Endpoints lists the server addresses. For load balancing, multiple
	// endpoints can be specified; requests are distributed round robin.
	Endpoints []string

	// TimeoutSecond bounds every single round trip (0 = no timeout)
	TimeoutSecond int

	// RetryCount is how many times a failed request is attempted in total
	RetryCount int

	// ConnectionsPerEndpoint is the number of simultaneous connections
	// opened to every endpoint
	ConnectionsPerEndpoint int

	// Socket settings
	WriteBufferSize int // Write buffer size in bytes
	ReadBufferSize  int // Read buffer size in bytes

	// TCP settings (ignored for unix sockets)
	TCPNoDelay      bool
	TCPKeepAliveSec int
}

// DefaultConfig returns the default client configuration
func DefaultConfig() Config {
	return Config{
		Endpoints:              []string{"tcp://127.0.0.1:8888"},
		TimeoutSecond:          10,
		RetryCount:             3,
		ConnectionsPerEndpoint: 1,
		WriteBufferSize:        512 * 1024,
		ReadBufferSize:         512 * 1024,
		TCPNoDelay:             true,
	}
}

// String returns a formatted string representation of the configuration
func (c *Config) String() string {
	var sb strings.Builder

	// Create helper functions for consistent formatting
	addSection := func(title string) {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("%s\n", strings.ToUpper(title)))
	}

	addField := func(name, value string) {
		sb.WriteString(fmt.Sprintf("  %-22s: %s\n", name, value))
	}

	// General client settings
	addSection("SSDB Client")
	addField("Timeout", fmt.Sprintf("%d sec", c.TimeoutSecond))
	addField("Retry Count", strconv.Itoa(c.RetryCount))
	addField("Connections Per Endpoint", strconv.Itoa(max(1, c.ConnectionsPerEndpoint)))

	// Socket settings
	addSection("Socket")
	addField("Write Buffer", fmt.Sprintf("%d KB", c.WriteBufferSize/1024))
	addField("Read Buffer", fmt.Sprintf("%d KB", c.ReadBufferSize/1024))
	addField("TCP NoDelay", strconv.FormatBool(c.TCPNoDelay))
	addField("TCP KeepAlive", fmt.Sprintf("%d sec", c.TCPKeepAliveSec))

	// Endpoints
	addSection("Endpoints")
	for i, endpoint := range c.Endpoints {
		addField(strconv.Itoa(i), endpoint)
	}

	return sb.String()
}

// --------------------------------------------------------------------------
// Environment bootstrap
// --------------------------------------------------------------------------

// InitEnv loads .env files and prepares viper to read BKV_-prefixed
// environment variables. Call once at process start, before FromEnv.
func InitEnv() {
	// load env files
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	// initialize viper
	viper.SetEnvPrefix("bkv")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // read in environment variables that match

	defaults := DefaultConfig()
	viper.SetDefault("ssdb-endpoints", strings.Join(defaults.Endpoints, ","))
	viper.SetDefault("ssdb-timeout", defaults.TimeoutSecond)
	viper.SetDefault("ssdb-retries", defaults.RetryCount)
	viper.SetDefault("ssdb-conn-per-endpoint", defaults.ConnectionsPerEndpoint)
	viper.SetDefault("ssdb-write-buffer", defaults.WriteBufferSize/1024)
	viper.SetDefault("ssdb-read-buffer", defaults.ReadBufferSize/1024)
	viper.SetDefault("ssdb-tcp-nodelay", defaults.TCPNoDelay)
	viper.SetDefault("ssdb-tcp-keepalive", defaults.TCPKeepAliveSec)
}

// FromEnv reads the client configuration from viper (environment variables
// BKV_SSDB_ENDPOINTS, BKV_SSDB_TIMEOUT, BKV_SSDB_RETRIES, ...)
func FromEnv() Config {
	return Config{
		Endpoints:              strings.Split(viper.GetString("ssdb-endpoints"), ","),
		TimeoutSecond:          viper.GetInt("ssdb-timeout"),
		RetryCount:             viper.GetInt("ssdb-retries"),
		ConnectionsPerEndpoint: viper.GetInt("ssdb-conn-per-endpoint"),
		WriteBufferSize:        viper.GetInt("ssdb-write-buffer") * 1024,
		ReadBufferSize:         viper.GetInt("ssdb-read-buffer") * 1024,
		TCPNoDelay:             viper.GetBool("ssdb-tcp-nodelay"),
		TCPKeepAliveSec:        viper.GetInt("ssdb-tcp-keepalive"),
	}
}
