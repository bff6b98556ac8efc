package console

import (
	"context"
	"fmt"

	"github.com/insurdesk/backoffice/pkg/records"
	"github.com/insurdesk/backoffice/pkg/records/client"
)

// Console is the set of entity screens the back-office staff work
// with. Screens are instantiated from configuration: one generic
// implementation, one schema per record type.
type Console struct {
	screens   map[string]*Screen
	resources []string
}

func New(ctx context.Context, cfg Config) (*Console, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("no api endpoint configured")
	}

	app := &Console{
		screens: make(map[string]*Screen, len(cfg.Resources)),
	}

	debug := "false"
	if cfg.Debug {
		debug = "true"
	}

	for _, rc := range cfg.Resources {
		schema, ok := records.ByResource(rc.Name)
		if !ok {
			return nil, fmt.Errorf("unknown resource %q in configuration", rc.Name)
		}

		c := client.New(cfg.Endpoint, rc.ResourcePath(), client.Debug(debug))
		app.screens[rc.Name] = NewScreen(schema, c)
		app.resources = append(app.resources, rc.Name)
	}

	return app, nil
}

func (c *Console) Screen(resource string) (*Screen, bool) {
	s, ok := c.screens[resource]
	return s, ok
}

func (c *Console) Resources() []string {
	return c.resources
}
