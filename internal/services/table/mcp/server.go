// Package mcp exposes the table to agents: every tool dispatches through the
// same Controller the web view uses, and the projected views are readable
// resources.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/louisbranch/voidlight/internal/services/table/app"
)

const (
	serverName    = "VoidLight MCP"
	serverVersion = "0.1.0"
)

// Server hosts the table's MCP tools and resources.
type Server struct {
	mcpServer   *mcp.Server
	controller  *app.Controller
	unsubscribe func()
}

// New registers the table tools and resources around controller.
func New(controller *app.Controller) (*Server, error) {
	if controller == nil {
		return nil, errors.New("controller is required")
	}
	mcpServer := mcp.NewServer(&mcp.Implementation{Name: serverName, Version: serverVersion}, &mcp.ServerOptions{
		SubscribeHandler:   resourceSubscribeHandler,
		UnsubscribeHandler: resourceUnsubscribeHandler,
	})
	s := &Server{mcpServer: mcpServer, controller: controller}
	registerTools(mcpServer, controller)
	registerResources(mcpServer, controller)
	s.unsubscribe = controller.Subscribe(s.notifyViews)
	return s, nil
}

// notifyViews tells subscribed clients both projections changed.
func (s *Server) notifyViews(app.Change) {
	for _, uri := range []string{KeeperViewURI, PlayerViewURI} {
		if err := s.mcpServer.ResourceUpdated(context.Background(), &mcp.ResourceUpdatedNotificationParams{URI: uri}); err != nil {
			log.Printf("mcp resource updated notify failed: uri=%s err=%v", uri, err)
		}
	}
}

func resourceSubscribeHandler(_ context.Context, req *mcp.SubscribeRequest) error {
	if req == nil || req.Params == nil || strings.TrimSpace(req.Params.URI) == "" {
		return fmt.Errorf("resource uri is required")
	}
	return nil
}

func resourceUnsubscribeHandler(_ context.Context, req *mcp.UnsubscribeRequest) error {
	if req == nil || req.Params == nil || strings.TrimSpace(req.Params.URI) == "" {
		return fmt.Errorf("resource uri is required")
	}
	return nil
}

// Connect serves one session over transport. Used by tests and embedders.
func (s *Server) Connect(ctx context.Context, transport mcp.Transport) (*mcp.ServerSession, error) {
	return s.mcpServer.Connect(ctx, transport, nil)
}

// Run serves over transport until the context ends or the client leaves.
func (s *Server) Run(ctx context.Context, transport mcp.Transport) error {
	if s == nil || s.mcpServer == nil {
		return fmt.Errorf("MCP server is not configured")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	defer s.Close()
	err := s.mcpServer.Run(ctx, transport)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	return err
}

// Close stops change notifications.
func (s *Server) Close() {
	if s == nil || s.unsubscribe == nil {
		return
	}
	s.unsubscribe()
	s.unsubscribe = nil
}
