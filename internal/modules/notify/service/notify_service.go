package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"recap/internal/modules/notify/domain"
	"recap/internal/modules/notify/dto"
	notifyout "recap/internal/modules/notify/port/out"
)

type NotifyService struct {
	store   notifyout.ManifestStore
	host    notifyout.Host
	project string
}

func NewNotifyService(store notifyout.ManifestStore, host notifyout.Host, project string) *NotifyService {
	return &NotifyService{store: store, host: host, project: project}
}

func (s *NotifyService) List(ctx context.Context) ([]dto.NotifierInfo, error) {
	manifests, err := s.loadValidated(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.NotifierInfo, 0, len(manifests))
	for _, m := range manifests {
		caps := make([]string, 0, len(m.Capabilities))
		for _, c := range m.Capabilities {
			caps = append(caps, string(c))
		}
		out = append(out, dto.NotifierInfo{Name: m.Name, Version: m.Version, Enabled: m.Enabled, Binary: m.Binary, Capabilities: caps})
	}
	return out, nil
}

func (s *NotifyService) Doctor(ctx context.Context) ([]dto.DoctorResult, error) {
	manifests, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	results := make([]dto.DoctorResult, 0, len(manifests))
	for _, m := range manifests {
		result := dto.DoctorResult{Name: m.Name}
		if err := m.Validate(); err != nil {
			result.Error = err.Error()
			results = append(results, result)
			continue
		}
		binaryOK := fileExists(m.Binary)
		result.BinaryReachable = binaryOK
		checksumOK := false
		if binaryOK {
			checksumOK = checksumMatches(m.Binary, m.SHA256) == nil
		}
		result.ChecksumValid = checksumOK
		if binaryOK && checksumOK && m.Enabled && s.host != nil {
			if err := s.host.CheckLifecycle(ctx, m); err != nil {
				result.Error = err.Error()
			} else {
				result.LifecycleOK = true
			}
		}
		if !binaryOK {
			result.Error = fmt.Sprintf("binary does not exist: %s", m.Binary)
		}
		if binaryOK && !checksumOK {
			result.Error = "checksum mismatch"
		}
		results = append(results, result)
	}
	return results, nil
}

// Send delivers the notification through every enabled notifier. A channel
// that fails is recorded, not fatal; Send errors only when nothing
// delivered, so a broken desktop bridge degrades to terminal output.
func (s *NotifyService) Send(ctx context.Context, input dto.SendInput) (dto.SendOutput, error) {
	notification := domain.Notification{Title: input.Title, Body: input.Body, Project: s.project}
	if err := notification.Validate(); err != nil {
		return dto.SendOutput{}, err
	}
	manifests, err := s.loadValidated(ctx)
	if err != nil {
		return dto.SendOutput{}, err
	}
	var output dto.SendOutput
	enabled := 0
	for _, m := range manifests {
		if !m.Enabled || !m.HasCapability(domain.CapabilityNotify) {
			continue
		}
		enabled++
		if err := checksumMatches(m.Binary, m.SHA256); err != nil {
			output.Failed = append(output.Failed, m.Name)
			continue
		}
		if err := s.host.Notify(ctx, m, notification); err != nil {
			output.Failed = append(output.Failed, m.Name)
			continue
		}
		output.Delivered = append(output.Delivered, m.Name)
	}
	if enabled == 0 {
		return output, domain.ErrNoNotifiers
	}
	if len(output.Delivered) == 0 {
		return output, fmt.Errorf("all %d notifier(s) failed", enabled)
	}
	return output, nil
}

func (s *NotifyService) loadValidated(ctx context.Context) ([]domain.Manifest, error) {
	manifests, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	seenNames := map[string]struct{}{}
	for _, manifest := range manifests {
		if err := manifest.Validate(); err != nil {
			return nil, err
		}
		if _, ok := seenNames[manifest.Name]; ok {
			return nil, fmt.Errorf("duplicate notifier name: %s", manifest.Name)
		}
		seenNames[manifest.Name] = struct{}{}
	}
	return manifests, nil
}

func checksumMatches(path string, expected string) error {
	payload, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read notifier binary: %w", err)
	}
	hash := sha256.Sum256(payload)
	actual := hex.EncodeToString(hash[:])
	if actual != expected {
		return fmt.Errorf("%w: %s", domain.ErrChecksumMismatch, filepath.Base(path))
	}
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
