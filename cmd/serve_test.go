package main

import (
	"bytes"
	"context"
	"testing"

	"go.uber.org/zap"

	"safio/internal/advisor"
	"safio/internal/config"
	"safio/internal/messaging"
)

func TestNewPublisher(t *testing.T) {
	if _, ok := newPublisher(config.KafkaConfig{}, zap.NewNop()).(*messaging.LogPublisher); !ok {
		t.Fatalf("expected log publisher without brokers")
	}
	p := newPublisher(config.KafkaConfig{Brokers: []string{"localhost:9092"}}, zap.NewNop())
	if _, ok := p.(*messaging.KafkaPublisher); !ok {
		t.Fatalf("expected kafka publisher, got %T", p)
	}
	_ = p.Close()
}

func TestNewResponder_Offline(t *testing.T) {
	r := newResponder(context.Background(), config.AdvisorConfig{}, zap.NewNop())
	if _, ok := r.(advisor.Offline); !ok {
		t.Fatalf("expected offline responder, got %T", r)
	}
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"version"})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("version: %v", err)
	}
	if out.String() != version+"\n" {
		t.Fatalf("unexpected output %q", out.String())
	}
}
