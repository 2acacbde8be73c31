package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/louisbranch/voidlight/internal/services/table/app"
	"github.com/louisbranch/voidlight/internal/services/table/domain"
)

// Resource URIs.
const (
	KeeperViewURI = "table://view/keeper"
	PlayerViewURI = "table://view/player"
	TemplatesURI  = "table://catalog/templates"
)

type viewPayload struct {
	Version uint64      `json:"version"`
	View    domain.View `json:"view"`
}

type templateEntry struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

func registerResources(server *mcp.Server, controller *app.Controller) {
	server.AddResource(ViewResource(domain.KeeperView), ViewResourceHandler(controller, domain.KeeperView))
	server.AddResource(ViewResource(domain.PlayerView), ViewResourceHandler(controller, domain.PlayerView))
	server.AddResource(TemplatesResource(), TemplatesResourceHandler(controller))
}

func viewURI(mode domain.Mode) string {
	if mode == domain.PlayerView {
		return PlayerViewURI
	}
	return KeeperViewURI
}

// ViewResource describes the projected session for mode.
func ViewResource(mode domain.Mode) *mcp.Resource {
	return &mcp.Resource{
		Name:        "view_" + mode.String(),
		Title:       "Table " + mode.String() + " view",
		Description: "Projected table session as the " + mode.String() + " sees it",
		MIMEType:    "application/json",
		URI:         viewURI(mode),
	}
}

// ViewResourceHandler reads the current projection.
func ViewResourceHandler(controller *app.Controller, mode domain.Mode) mcp.ResourceHandler {
	return func(_ context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		if controller == nil {
			return nil, fmt.Errorf("table controller is not configured")
		}
		view, version := controller.View(mode)
		return jsonResource(viewURI(mode), viewPayload{Version: version, View: view})
	}
}

// TemplatesResource describes the bundled campaign templates.
func TemplatesResource() *mcp.Resource {
	return &mcp.Resource{
		Name:        "templates",
		Title:       "Campaign templates",
		Description: "Campaigns that session.template can load",
		MIMEType:    "application/json",
		URI:         TemplatesURI,
	}
}

// TemplatesResourceHandler lists template ids and names.
func TemplatesResourceHandler(controller *app.Controller) mcp.ResourceHandler {
	return func(context.Context, *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		if controller == nil {
			return nil, fmt.Errorf("table controller is not configured")
		}
		templates := controller.Catalog().Templates()
		entries := make([]templateEntry, 0, len(templates))
		for _, t := range templates {
			entries = append(entries, templateEntry{ID: t.ID, Name: t.Name, Description: t.Description})
		}
		return jsonResource(TemplatesURI, struct {
			Templates []templateEntry `json:"templates"`
		}{entries})
	}
}

func jsonResource(uri string, payload any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal %s: %w", uri, err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{
			{
				URI:      uri,
				MIMEType: "application/json",
				Text:     string(data),
			},
		},
	}, nil
}
