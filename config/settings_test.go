package config

import (
	"strings"
	"testing"
)

func TestDefaultSettingsAreValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Errorf("Default() should validate cleanly, got %v", err)
	}
}

func TestValidateRejectsTemporalCoherenceWithoutFirstContact(t *testing.T) {
	s := Default()
	s.TemporalCoherence = true
	s.FirstContact = false

	err := s.Validate()
	if err == nil {
		t.Fatal("expected a validation error")
	}
	if !strings.Contains(err.Error(), "temporal_coherence") {
		t.Errorf("error %q does not mention temporal_coherence", err)
	}
}

func TestValidateAcceptsTemporalCoherenceWithFirstContact(t *testing.T) {
	s := Default()
	s.TemporalCoherence = true
	s.FirstContact = true

	if err := s.Validate(); err != nil {
		t.Errorf("expected no error, got %v", err)
	}
}

func TestValidateRejectsNonPositiveContactCap(t *testing.T) {
	s := Default()
	s.ContactCap = 0
	if err := s.Validate(); err == nil {
		t.Error("expected an error for a zero contact cap")
	}
}

func TestLoadOverridesOnlyNamedFields(t *testing.T) {
	doc := strings.NewReader("contact_cap: 8\nfirst_contact: true\n")
	s, err := Load(doc)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if s.ContactCap != 8 {
		t.Errorf("ContactCap = %d, want 8", s.ContactCap)
	}
	if !s.FirstContact {
		t.Error("FirstContact should be true")
	}
	if s.OBBCacheFattenCoeff != Default().OBBCacheFattenCoeff {
		t.Errorf("unnamed field OBBCacheFattenCoeff should keep its default, got %v", s.OBBCacheFattenCoeff)
	}
}

func TestLoadFileMissingReturnsError(t *testing.T) {
	if _, err := LoadFile("/nonexistent/settings.yaml"); err == nil {
		t.Error("expected an error for a missing file")
	}
}
