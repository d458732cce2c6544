package authoring

import (
	"context"
	"net/url"

	"github.com/getzep/nlu-authoring/pkg/models"
)

func (c *Client) ListIntents(ctx context.Context, appID, versionID string) ([]models.IntentInfo, error) {
	return ListAll(ctx, pager[models.IntentInfo](c, versionPath(appID, versionID, "intents")))
}

func (c *Client) CreateIntent(ctx context.Context, appID, versionID, name string) (string, error) {
	return c.create(ctx, versionPath(appID, versionID, "intents"), models.ModelCreateObject{Name: name})
}

func (c *Client) DeleteIntent(ctx context.Context, appID, versionID, intentID string) error {
	return c.delete(ctx, versionPath(appID, versionID, "intents", url.PathEscape(intentID)))
}

func (c *Client) FindOrCreateIntent(ctx context.Context, appID, versionID, name string) (Resolution, error) {
	return FindOrCreate(
		ctx,
		"intent",
		func(ctx context.Context) ([]models.IntentInfo, error) {
			return c.ListIntents(ctx, appID, versionID)
		},
		NameEquals[models.IntentInfo](name),
		func(ctx context.Context) (string, error) {
			return c.CreateIntent(ctx, appID, versionID, name)
		},
	)
}
