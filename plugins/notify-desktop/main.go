package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"

	notifyrpc "recap/internal/modules/notify/adapter/out/rpc"

	"github.com/hashicorp/go-plugin"
)

// notify-desktop bridges quiz notifications to the desktop via notify-send,
// falling back to stderr when no notification daemon is reachable.
type server struct{}

func (s *server) GetMetadata(_ context.Context, _ *notifyrpc.Empty) (*notifyrpc.Metadata, error) {
	return &notifyrpc.Metadata{
		Name:         "notify-desktop",
		Version:      "1.0.0",
		Capabilities: []string{"notify"},
	}, nil
}

func (s *server) Notify(_ context.Context, in *notifyrpc.NotifyRequest) (*notifyrpc.NotifyResponse, error) {
	title := in.Title
	if in.Project != "" {
		title = fmt.Sprintf("%s [%s]", in.Title, in.Project)
	}
	if path, err := exec.LookPath("notify-send"); err == nil {
		if err := exec.Command(path, title, in.Body).Run(); err == nil {
			return &notifyrpc.NotifyResponse{Delivered: true}, nil
		}
	}
	if _, err := fmt.Fprintf(os.Stderr, "%s: %s\n", title, in.Body); err != nil {
		return &notifyrpc.NotifyResponse{Delivered: false, Detail: err.Error()}, nil
	}
	return &notifyrpc.NotifyResponse{Delivered: true, Detail: "stderr fallback"}, nil
}

func main() {
	plugin.Serve(&plugin.ServeConfig{
		HandshakeConfig: notifyrpc.HandshakeConfig,
		Plugins:         notifyrpc.PluginMap(&server{}),
		GRPCServer:      plugin.DefaultGRPCServer,
	})
}
