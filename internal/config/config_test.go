package config

import (
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	if cfg.Server.Port != "8000" {
		t.Errorf("expected default port 8000, got %s", cfg.Server.Port)
	}
	if cfg.Mongo.URI != "mongodb://localhost:27017" {
		t.Errorf("unexpected default mongo uri %s", cfg.Mongo.URI)
	}
	if cfg.Mongo.Database != "myDB" {
		t.Errorf("unexpected default mongo database %s", cfg.Mongo.Database)
	}
	if cfg.RateLimit.Enabled {
		t.Error("rate limiting must be off by default")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("MONGO_DATABASE", "otherDB")

	cfg := Load()

	if cfg.Server.Port != "9000" {
		t.Errorf("expected port 9000, got %s", cfg.Server.Port)
	}
	if cfg.Mongo.Database != "otherDB" {
		t.Errorf("expected database otherDB, got %s", cfg.Mongo.Database)
	}
}
