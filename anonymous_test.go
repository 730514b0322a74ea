package orbus

import "testing"

func TestAnonymousPublishCopy(t *testing.T) {
	meta, err := RegisterTopic("orbus_anon_test."+t.Name(), 4, 1)
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	if err := PublishAnonymous(meta, packU32(2)); err != nil {
		t.Fatalf("publish anonymous: %v", err)
	}

	out := make([]byte, 4)
	if !CopyAnonymous(meta, out) {
		t.Fatalf("expected copy anonymous to succeed")
	}
	if got := unpackU32(out); got != 2 {
		t.Fatalf("expected val 2, got %d", got)
	}

	// Repeated copy with no intervening publish returns the same latest value.
	if !CopyAnonymous(meta, out) {
		t.Fatalf("expected second copy anonymous to succeed")
	}
	if got := unpackU32(out); got != 2 {
		t.Fatalf("expected val 2 again, got %d", got)
	}
}

func TestAnonymousCopyBeforePublishFails(t *testing.T) {
	meta, err := RegisterTopic("orbus_anon_test."+t.Name(), 4, 1)
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	out := make([]byte, 4)
	if CopyAnonymous(meta, out) {
		t.Fatalf("expected copy anonymous to fail before any publish")
	}
}
