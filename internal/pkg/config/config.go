package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// SeedProduct is a product row the inventory service upserts on startup.
type SeedProduct struct {
	Name     string `yaml:"name"`
	Quantity int    `yaml:"quantity"`
}

// Config is shared by every cmd. Values come from the YAML file first,
// environment variables second.
type Config struct {
	App struct {
		Order struct {
			Port int `yaml:"port"`
			// InventoryAddr is the static host:port fallback used when
			// Nacos discovery is not configured.
			InventoryAddr string `yaml:"inventory_addr"`
		} `yaml:"order"`
		Inventory struct {
			Port         int           `yaml:"port"`
			SeedProducts []SeedProduct `yaml:"seed_products"`
		} `yaml:"inventory"`
	} `yaml:"app"`

	Infra struct {
		Jaeger struct {
			Endpoint string `yaml:"endpoint"`
		} `yaml:"jaeger"`
		MySQL struct {
			// DSN empty means: run on the in-memory stores.
			DSN string `yaml:"dsn"`
		} `yaml:"mysql"`
		Kafka struct {
			Brokers          string `yaml:"brokers"`
			OrderEventsTopic string `yaml:"order_events_topic"`
		} `yaml:"kafka"`
		Redis struct {
			Addrs string `yaml:"addrs"`
		} `yaml:"redis"`
		Nacos struct {
			ServerAddrs string `yaml:"server_addrs"`
			Namespace   string `yaml:"namespace"`
			Group       string `yaml:"group"`
		} `yaml:"nacos"`
		Zookeeper struct {
			Servers string `yaml:"servers"`
		} `yaml:"zookeeper"`
	} `yaml:"infra"`
}

// Load reads the config file at path (missing file is fine, defaults apply)
// and then lets environment variables override the infra endpoints.
func Load(path string) (*Config, error) {
	cfg := defaults()

	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	cfg.Infra.Jaeger.Endpoint = getEnv("JAEGER_ENDPOINT", cfg.Infra.Jaeger.Endpoint)
	cfg.Infra.MySQL.DSN = getEnv("MYSQL_DSN", cfg.Infra.MySQL.DSN)
	cfg.Infra.Kafka.Brokers = getEnv("KAFKA_BROKERS", cfg.Infra.Kafka.Brokers)
	cfg.Infra.Kafka.OrderEventsTopic = getEnv("ORDER_EVENTS_TOPIC", cfg.Infra.Kafka.OrderEventsTopic)
	cfg.Infra.Redis.Addrs = getEnv("REDIS_ADDRS", cfg.Infra.Redis.Addrs)
	cfg.Infra.Nacos.ServerAddrs = getEnv("NACOS_SERVER_ADDRS", cfg.Infra.Nacos.ServerAddrs)
	cfg.Infra.Nacos.Namespace = getEnv("NACOS_NAMESPACE", cfg.Infra.Nacos.Namespace)
	cfg.Infra.Nacos.Group = getEnv("NACOS_GROUP", cfg.Infra.Nacos.Group)
	cfg.Infra.Zookeeper.Servers = getEnv("ZK_SERVERS", cfg.Infra.Zookeeper.Servers)
	cfg.App.Order.InventoryAddr = getEnv("INVENTORY_ADDR", cfg.App.Order.InventoryAddr)

	return cfg, nil
}

func defaults() *Config {
	cfg := &Config{}
	cfg.App.Order.Port = 8080
	cfg.App.Order.InventoryAddr = "localhost:8082"
	cfg.App.Inventory.Port = 8082
	cfg.Infra.Jaeger.Endpoint = "http://localhost:14268/api/traces"
	cfg.Infra.Kafka.OrderEventsTopic = "order-events"
	cfg.Infra.Nacos.Group = "DEFAULT_GROUP"
	return cfg
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
