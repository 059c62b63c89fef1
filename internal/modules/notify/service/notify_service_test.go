package service_test

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"recap/internal/modules/notify/domain"
	"recap/internal/modules/notify/dto"
	"recap/internal/modules/notify/service"
)

type fakeStore struct {
	manifests []domain.Manifest
}

func (f *fakeStore) Load(context.Context) ([]domain.Manifest, error) {
	return f.manifests, nil
}

type fakeHost struct {
	notified  []string
	failNames map[string]bool
	lifecycle error
}

func (f *fakeHost) CheckLifecycle(_ context.Context, manifest domain.Manifest) error {
	return f.lifecycle
}

func (f *fakeHost) GetMetadata(_ context.Context, manifest domain.Manifest) (domain.Metadata, error) {
	return domain.Metadata{Name: manifest.Name, Version: manifest.Version, Capabilities: manifest.Capabilities}, nil
}

func (f *fakeHost) Notify(_ context.Context, manifest domain.Manifest, _ domain.Notification) error {
	if f.failNames[manifest.Name] {
		return errors.New("delivery failed")
	}
	f.notified = append(f.notified, manifest.Name)
	return nil
}

// writeBinary drops a fake notifier binary and returns its path and checksum.
func writeBinary(t *testing.T, dir, name string) (string, string) {
	t.Helper()
	path := filepath.Join(dir, name)
	payload := []byte("#!/bin/sh\nexit 0\n")
	if err := os.WriteFile(path, payload, 0o755); err != nil {
		t.Fatalf("write binary: %v", err)
	}
	hash := sha256.Sum256(payload)
	return path, hex.EncodeToString(hash[:])
}

func manifestFor(name, binary, checksum string, enabled bool) domain.Manifest {
	return domain.Manifest{
		Name:         name,
		Version:      "1.0.0",
		Binary:       binary,
		SHA256:       checksum,
		Enabled:      enabled,
		Capabilities: []domain.Capability{domain.CapabilityNotify},
	}
}

func TestSendFansOutToEnabledNotifiers(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	binA, sumA := writeBinary(t, dir, "a")
	binB, sumB := writeBinary(t, dir, "b")
	store := &fakeStore{manifests: []domain.Manifest{
		manifestFor("a", binA, sumA, true),
		manifestFor("b", binB, sumB, true),
		manifestFor("off", binA, sumA, false),
	}}
	host := &fakeHost{}
	svc := service.NewNotifyService(store, host, "demo")

	out, err := svc.Send(context.Background(), dto.SendInput{Title: "Quiz due", Body: "go take it"})
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if len(out.Delivered) != 2 || len(out.Failed) != 0 {
		t.Fatalf("both enabled notifiers must deliver, got %+v", out)
	}
	if len(host.notified) != 2 {
		t.Fatalf("disabled notifier must never launch, got %v", host.notified)
	}
}

func TestSendPartialFailureIsNotFatal(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	binA, sumA := writeBinary(t, dir, "a")
	binB, sumB := writeBinary(t, dir, "b")
	store := &fakeStore{manifests: []domain.Manifest{
		manifestFor("a", binA, sumA, true),
		manifestFor("b", binB, sumB, true),
	}}
	host := &fakeHost{failNames: map[string]bool{"b": true}}
	svc := service.NewNotifyService(store, host, "demo")

	out, err := svc.Send(context.Background(), dto.SendInput{Title: "Quiz due", Body: "go"})
	if err != nil {
		t.Fatalf("one surviving channel is a success: %v", err)
	}
	if len(out.Delivered) != 1 || out.Delivered[0] != "a" || len(out.Failed) != 1 || out.Failed[0] != "b" {
		t.Fatalf("unexpected fan-out result: %+v", out)
	}
}

func TestSendAllFailedErrors(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	bin, sum := writeBinary(t, dir, "a")
	store := &fakeStore{manifests: []domain.Manifest{manifestFor("a", bin, sum, true)}}
	host := &fakeHost{failNames: map[string]bool{"a": true}}
	svc := service.NewNotifyService(store, host, "demo")

	if _, err := svc.Send(context.Background(), dto.SendInput{Title: "Quiz due", Body: "go"}); err == nil {
		t.Fatalf("no delivery at all must error")
	}
}

func TestSendNoEnabledNotifiers(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	bin, sum := writeBinary(t, dir, "a")
	store := &fakeStore{manifests: []domain.Manifest{manifestFor("a", bin, sum, false)}}
	svc := service.NewNotifyService(store, &fakeHost{}, "demo")

	if _, err := svc.Send(context.Background(), dto.SendInput{Title: "Quiz due", Body: "go"}); !errors.Is(err, domain.ErrNoNotifiers) {
		t.Fatalf("expected ErrNoNotifiers, got %v", err)
	}
}

func TestSendRefusesTamperedBinary(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	bin, _ := writeBinary(t, dir, "a")
	store := &fakeStore{manifests: []domain.Manifest{
		manifestFor("a", bin, strings.Repeat("00", 32), true),
	}}
	host := &fakeHost{}
	svc := service.NewNotifyService(store, host, "demo")

	out, err := svc.Send(context.Background(), dto.SendInput{Title: "Quiz due", Body: "go"})
	if err == nil {
		t.Fatalf("a lone tampered notifier must fail the send")
	}
	if len(host.notified) != 0 {
		t.Fatalf("a binary with a bad checksum must never launch, got %v", host.notified)
	}
	if len(out.Failed) != 1 || out.Failed[0] != "a" {
		t.Fatalf("tampered notifier must be recorded as failed, got %+v", out)
	}
}

func TestSendRejectsEmptyNotification(t *testing.T) {
	t.Parallel()
	svc := service.NewNotifyService(&fakeStore{}, &fakeHost{}, "demo")
	if _, err := svc.Send(context.Background(), dto.SendInput{Title: "", Body: "x"}); err == nil {
		t.Fatalf("empty title must be rejected")
	}
}

func TestDoctorReportsPerNotifierHealth(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	bin, sum := writeBinary(t, dir, "good")
	store := &fakeStore{manifests: []domain.Manifest{
		manifestFor("good", bin, sum, true),
		manifestFor("gone", filepath.Join(dir, "missing"), sum, true),
		manifestFor("tampered", bin, strings.Repeat("00", 32), true),
		{Name: "broken"},
	}}
	svc := service.NewNotifyService(store, &fakeHost{}, "demo")

	results, err := svc.Doctor(context.Background())
	if err != nil {
		t.Fatalf("doctor: %v", err)
	}
	if len(results) != 4 {
		t.Fatalf("every manifest gets a result, got %d", len(results))
	}
	byName := map[string]dto.DoctorResult{}
	for _, result := range results {
		byName[result.Name] = result
	}
	good := byName["good"]
	if !good.BinaryReachable || !good.ChecksumValid || !good.LifecycleOK || good.Error != "" {
		t.Fatalf("healthy notifier misreported: %+v", good)
	}
	gone := byName["gone"]
	if gone.BinaryReachable || gone.Error == "" {
		t.Fatalf("missing binary misreported: %+v", gone)
	}
	tampered := byName["tampered"]
	if !tampered.BinaryReachable || tampered.ChecksumValid || tampered.Error == "" {
		t.Fatalf("tampered binary misreported: %+v", tampered)
	}
	if byName["broken"].Error == "" {
		t.Fatalf("invalid manifest must carry its validation error")
	}
}

func TestListRejectsDuplicateNames(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	bin, sum := writeBinary(t, dir, "a")
	store := &fakeStore{manifests: []domain.Manifest{
		manifestFor("a", bin, sum, true),
		manifestFor("a", bin, sum, false),
	}}
	svc := service.NewNotifyService(store, &fakeHost{}, "demo")
	if _, err := svc.List(context.Background()); err == nil {
		t.Fatalf("duplicate notifier names must be rejected")
	}
}
