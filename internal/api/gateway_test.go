package api

import (
	"testing"

	"inkwell/internal/logging"
	"inkwell/internal/providers"
	"inkwell/internal/testsupport"
)

func TestNewGatewayWiresConfiguredCapabilities(t *testing.T) {
	cfg := testsupport.NewConfig(t)

	gateway, err := NewGateway(cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("NewGateway: %v", err)
	}
	for _, capability := range []string{
		providers.CapabilityKeywords,
		providers.CapabilitySerp,
		providers.CapabilityResearch,
		providers.CapabilityGeneration,
		providers.CapabilityScoring,
		providers.CapabilityImages,
	} {
		if !gateway.Configured(capability) {
			t.Errorf("capability %s should be configured", capability)
		}
	}
}

func TestNewGatewayLeavesMissingCapabilitiesUnwired(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithoutProviderCredentials())

	gateway, err := NewGateway(cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("NewGateway: %v", err)
	}
	for _, capability := range []string{
		providers.CapabilityKeywords,
		providers.CapabilitySerp,
		providers.CapabilityResearch,
		providers.CapabilityGeneration,
	} {
		if gateway.Configured(capability) {
			t.Errorf("capability %s should be unconfigured", capability)
		}
	}
}

func TestNewGatewayPartialCredentials(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithoutProviderCredentials())
	cfg.OpenAI.APIKey = "only-text"

	gateway, err := NewGateway(cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("NewGateway: %v", err)
	}
	if !gateway.Configured(providers.CapabilityGeneration) {
		t.Error("generation should be configured")
	}
	if gateway.Configured(providers.CapabilityKeywords) {
		t.Error("keywords should be unconfigured")
	}
}
