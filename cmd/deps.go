package cmd

import (
	"context"
	"os"

	"github.com/spf13/afero"

	"github.com/egoavara/plughub/internal/config"
	"github.com/egoavara/plughub/internal/credentials"
	"github.com/egoavara/plughub/internal/discovery"
	"github.com/egoavara/plughub/internal/hub"
	"github.com/egoavara/plughub/internal/invoker"
	"github.com/egoavara/plughub/internal/logging"
	"github.com/egoavara/plughub/internal/project"
	"github.com/egoavara/plughub/internal/version"
)

// pluginRunner runs a resolved plugin
type pluginRunner interface {
	Invoke(ctx context.Context, plugin project.InstalledPlugin, args []string) (invoker.Outcome, error)
}

// Factories used by the commands; tests replace them
var (
	newFetcher      = defaultFetcher
	openProject     = defaultProject
	openCredentials = credentials.Open
	openTokenStore  = credentials.OpenLazy
	newRunner       = defaultRunner
)

func defaultFetcher() (discovery.Fetcher, error) {
	cfg := config.Get()

	url := cfg.Hub.URL
	if hubURL != "" {
		url = hubURL
	}

	return hub.NewClient(hub.Options{
		BaseURL: url,
		Retries: cfg.Hub.Retries,
		Timeout: cfg.Hub.Timeout(),
		Version: version.Version,
		Logger:  logging.L(),
		Tokens:  openTokenStore(),
	})
}

func defaultProject() (*project.Project, error) {
	fs := afero.NewOsFs()
	if projectRoot != "" {
		return project.Load(fs, projectRoot)
	}

	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	return project.Find(fs, wd)
}

func defaultRunner(proj *project.Project) pluginRunner {
	return invoker.New(proj, logging.L().Named("invoke"))
}
