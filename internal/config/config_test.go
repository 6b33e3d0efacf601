package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv(JWTSecret, "test-secret")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, DriverMemory, cfg.Database.Driver)
	assert.Equal(t, DriverMemory, cfg.Engine.LockDriver)
	assert.Equal(t, 5, cfg.Engine.AutoExtendMinutes)
	assert.Equal(t, 4*time.Hour, cfg.Engine.DealScheduleThreshold)
	assert.Equal(t, 30*time.Second, cfg.Scheduler.SweepInterval)
	assert.Equal(t, SinkLog, cfg.Notifications.Sink)
	assert.Equal(t, []string{"localhost:9092"}, cfg.Notifications.KafkaBrokers)
	assert.Equal(t, ProcessorStub, cfg.Payments.Processor)
}

func TestEnvironmentOverridesDefaults(t *testing.T) {
	t.Setenv(JWTSecret, "test-secret")
	t.Setenv(Port, "9090")
	t.Setenv(NotificationSink, SinkKafka)
	t.Setenv(KafkaBrokers, "kafka-1:9092, kafka-2:9092")
	t.Setenv(SweepInterval, "1m")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Notifications.KafkaBrokers)
	assert.Equal(t, time.Minute, cfg.Scheduler.SweepInterval)
}

func TestValidateRejectsIncompleteConfig(t *testing.T) {
	base := func() *Config {
		return &Config{
			Server:        ServerConfig{Port: "8080"},
			Database:      DatabaseConfig{Driver: DriverMemory},
			Engine:        EngineConfig{LockDriver: DriverMemory},
			Scheduler:     SchedulerConfig{SweepInterval: time.Second, DispatchInterval: time.Second},
			Notifications: NotificationConfig{Sink: SinkLog},
			Auth:          AuthConfig{JWTSecret: "s"},
			Payments:      PaymentConfig{Processor: ProcessorStub},
		}
	}
	require.NoError(t, base().Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing secret", func(c *Config) { c.Auth.JWTSecret = "" }},
		{"postgres without url", func(c *Config) { c.Database.Driver = DriverPostgres }},
		{"unknown driver", func(c *Config) { c.Database.Driver = "mongo" }},
		{"redis lock without addr", func(c *Config) { c.Engine.LockDriver = DriverRedis }},
		{"stripe without key", func(c *Config) { c.Payments.Processor = ProcessorStripe }},
		{"kafka without brokers", func(c *Config) { c.Notifications.Sink = SinkKafka }},
		{"zero sweep interval", func(c *Config) { c.Scheduler.SweepInterval = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
