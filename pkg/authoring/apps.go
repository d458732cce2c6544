package authoring

import (
	"context"
	"fmt"
	"net/http"

	"github.com/getzep/nlu-authoring/pkg/models"
)

const appsPath = "apps/"

func (c *Client) ListApps(ctx context.Context) ([]models.AppInfo, error) {
	return ListAll(ctx, pager[models.AppInfo](c, appsPath))
}

func (c *Client) GetApp(ctx context.Context, appID string) (*models.AppInfo, error) {
	var app models.AppInfo
	if err := c.http.Request(ctx, http.MethodGet, appPath(appID), nil, nil, &app); err != nil {
		return nil, err
	}
	return &app, nil
}

func (c *Client) CreateApp(ctx context.Context, app models.ApplicationCreateObject) (string, error) {
	return c.create(ctx, appsPath, app)
}

func (c *Client) DeleteApp(ctx context.Context, appID string) error {
	return c.delete(ctx, appPath(appID))
}

// FindApp returns the id of the app called name, if any.
func (c *Client) FindApp(ctx context.Context, name string) (string, bool, error) {
	apps, err := c.ListApps(ctx)
	if err != nil {
		return "", false, err
	}
	app, ok := Find(apps, NameEquals[models.AppInfo](name))
	return app.ID, ok, nil
}

func (c *Client) FindOrCreateApp(
	ctx context.Context,
	app models.ApplicationCreateObject,
) (Resolution, error) {
	return FindOrCreate(
		ctx,
		"app",
		c.ListApps,
		NameEquals[models.AppInfo](app.Name),
		func(ctx context.Context) (string, error) { return c.CreateApp(ctx, app) },
	)
}

// PublishApp publishes a trained version and returns its endpoint.
func (c *Client) PublishApp(
	ctx context.Context,
	appID string,
	publish models.ApplicationPublishObject,
) (*models.PublishResult, error) {
	var result models.PublishResult
	err := c.http.Request(ctx, http.MethodPost, appPath(appID, "publish"), nil, publish, &result)
	if err != nil {
		return nil, fmt.Errorf("failed to publish version %s: %w", publish.VersionID, err)
	}
	return &result, nil
}
