package logger

import (
	"testing"
)

func TestNew_BuildsForKnownEnvironments(t *testing.T) {
	for _, env := range []string{"development", "production", "staging"} {
		t.Run(env, func(t *testing.T) {
			log, err := New(env)
			if err != nil {
				t.Fatalf("failed to build logger for %s: %v", env, err)
			}
			if log == nil {
				t.Fatal("logger must not be nil")
			}
			log.Sync()
		})
	}
}

func TestNewWithDefaults_NeverNil(t *testing.T) {
	log := NewWithDefaults()
	if log == nil {
		t.Fatal("logger must not be nil")
	}
	log.Sync()
}
