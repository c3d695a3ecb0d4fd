package audit

import (
	"testing"

	"orgaudit/internal/domain"
)

func TestRegistryResolvesByKind(t *testing.T) {
	registry := NewRegistry()
	binding := &fakeBinding{kind: domain.KindCompany}
	registry.Register(binding)
	registry.Freeze()

	got, err := registry.Binding(domain.KindCompany)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != Binding(binding) {
		t.Error("expected the registered binding back")
	}

	if _, err := registry.Binding(domain.KindEmployee); err == nil {
		t.Error("expected error for unregistered kind")
	}
}

func TestRegistryRejectsDuplicates(t *testing.T) {
	registry := NewRegistry()
	registry.Register(&fakeBinding{kind: domain.KindCompany})

	defer func() {
		if recover() == nil {
			t.Error("expected panic on duplicate registration")
		}
	}()
	registry.Register(&fakeBinding{kind: domain.KindCompany})
}

func TestRegistryRejectsRegistrationAfterFreeze(t *testing.T) {
	registry := NewRegistry()
	registry.Freeze()

	defer func() {
		if recover() == nil {
			t.Error("expected panic on registration after freeze")
		}
	}()
	registry.Register(&fakeBinding{kind: domain.KindCompany})
}
