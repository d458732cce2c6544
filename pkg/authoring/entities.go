package authoring

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/getzep/nlu-authoring/pkg/models"
)

// Simple entities

func (c *Client) ListEntities(ctx context.Context, appID, versionID string) ([]models.EntityInfo, error) {
	return ListAll(ctx, pager[models.EntityInfo](c, versionPath(appID, versionID, "entities")))
}

func (c *Client) CreateEntity(ctx context.Context, appID, versionID, name string) (string, error) {
	return c.create(ctx, versionPath(appID, versionID, "entities"), models.ModelCreateObject{Name: name})
}

func (c *Client) DeleteEntity(ctx context.Context, appID, versionID, entityID string) error {
	return c.delete(ctx, versionPath(appID, versionID, "entities", url.PathEscape(entityID)))
}

func (c *Client) FindOrCreateEntity(ctx context.Context, appID, versionID, name string) (Resolution, error) {
	return FindOrCreate(
		ctx,
		"entity",
		func(ctx context.Context) ([]models.EntityInfo, error) {
			return c.ListEntities(ctx, appID, versionID)
		},
		NameEquals[models.EntityInfo](name),
		func(ctx context.Context) (string, error) {
			return c.CreateEntity(ctx, appID, versionID, name)
		},
	)
}

// Hierarchical entities

func (c *Client) ListHierarchicalEntities(
	ctx context.Context,
	appID, versionID string,
) ([]models.HierarchicalEntityInfo, error) {
	return ListAll(
		ctx,
		pager[models.HierarchicalEntityInfo](c, versionPath(appID, versionID, "hierarchicalentities")),
	)
}

func (c *Client) CreateHierarchicalEntity(
	ctx context.Context,
	appID, versionID string,
	entity models.HierarchicalEntityCreateObject,
) (string, error) {
	return c.create(ctx, versionPath(appID, versionID, "hierarchicalentities"), entity)
}

func (c *Client) DeleteHierarchicalEntity(ctx context.Context, appID, versionID, entityID string) error {
	return c.delete(ctx, versionPath(appID, versionID, "hierarchicalentities", url.PathEscape(entityID)))
}

// FindOrCreateHierarchicalEntity matches by name only; the children of an
// existing entity are left as they are.
func (c *Client) FindOrCreateHierarchicalEntity(
	ctx context.Context,
	appID, versionID string,
	entity models.HierarchicalEntityCreateObject,
) (Resolution, error) {
	return FindOrCreate(
		ctx,
		"hierarchical entity",
		func(ctx context.Context) ([]models.HierarchicalEntityInfo, error) {
			return c.ListHierarchicalEntities(ctx, appID, versionID)
		},
		NameEquals[models.HierarchicalEntityInfo](entity.Name),
		func(ctx context.Context) (string, error) {
			return c.CreateHierarchicalEntity(ctx, appID, versionID, entity)
		},
	)
}

// Closed-list entities

func (c *Client) ListClosedLists(ctx context.Context, appID, versionID string) ([]models.ClosedListInfo, error) {
	return ListAll(ctx, pager[models.ClosedListInfo](c, versionPath(appID, versionID, "closedlists")))
}

func (c *Client) CreateClosedList(
	ctx context.Context,
	appID, versionID string,
	closedList models.ClosedListCreateObject,
) (string, error) {
	return c.create(ctx, versionPath(appID, versionID, "closedlists"), closedList)
}

func (c *Client) DeleteClosedList(ctx context.Context, appID, versionID, closedListID string) error {
	return c.delete(ctx, versionPath(appID, versionID, "closedlists", url.PathEscape(closedListID)))
}

func (c *Client) FindOrCreateClosedList(
	ctx context.Context,
	appID, versionID string,
	closedList models.ClosedListCreateObject,
) (Resolution, error) {
	return FindOrCreate(
		ctx,
		"closed list",
		func(ctx context.Context) ([]models.ClosedListInfo, error) {
			return c.ListClosedLists(ctx, appID, versionID)
		},
		NameEquals[models.ClosedListInfo](closedList.Name),
		func(ctx context.Context) (string, error) {
			return c.CreateClosedList(ctx, appID, versionID, closedList)
		},
	)
}

// Prebuilt entities

func (c *Client) ListPrebuilts(ctx context.Context, appID, versionID string) ([]models.PrebuiltEntityInfo, error) {
	return ListAll(ctx, pager[models.PrebuiltEntityInfo](c, versionPath(appID, versionID, "prebuilts")))
}

// AddPrebuilts enables the named prebuilt extractors.
func (c *Client) AddPrebuilts(
	ctx context.Context,
	appID, versionID string,
	names []string,
) ([]models.PrebuiltEntityInfo, error) {
	var added []models.PrebuiltEntityInfo
	err := c.http.Request(ctx, http.MethodPost, versionPath(appID, versionID, "prebuilts"), nil, names, &added)
	if err != nil {
		return nil, err
	}
	return added, nil
}

func (c *Client) DeletePrebuilt(ctx context.Context, appID, versionID, prebuiltID string) error {
	return c.delete(ctx, versionPath(appID, versionID, "prebuilts", url.PathEscape(prebuiltID)))
}

func (c *Client) FindOrCreatePrebuilt(ctx context.Context, appID, versionID, name string) (Resolution, error) {
	return FindOrCreate(
		ctx,
		"prebuilt entity",
		func(ctx context.Context) ([]models.PrebuiltEntityInfo, error) {
			return c.ListPrebuilts(ctx, appID, versionID)
		},
		NameEquals[models.PrebuiltEntityInfo](name),
		func(ctx context.Context) (string, error) {
			added, err := c.AddPrebuilts(ctx, appID, versionID, []string{name})
			if err != nil {
				return "", err
			}
			if len(added) == 0 {
				return "", fmt.Errorf("prebuilt entity %q was not added", name)
			}
			return added[0].ID, nil
		},
	)
}
