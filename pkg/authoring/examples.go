package authoring

import (
	"context"
	"net/http"

	"github.com/getzep/nlu-authoring/pkg/models"
)

// MaxBatchSize is the largest number of examples sent in one batch request.
const MaxBatchSize = 100

// AddExample labels a single utterance.
func (c *Client) AddExample(
	ctx context.Context,
	appID, versionID string,
	example models.LabeledExample,
) (*models.LabelExampleResponse, error) {
	var resp models.LabelExampleResponse
	err := c.http.Request(ctx, http.MethodPost, versionPath(appID, versionID, "example"), nil, example, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// AddExamples labels utterances in batches of at most MaxBatchSize. The
// results are in request order; per-utterance rejections are reported through
// HasError rather than as an error.
func (c *Client) AddExamples(
	ctx context.Context,
	appID, versionID string,
	examples []models.LabeledExample,
) ([]models.BatchLabelResult, error) {
	results := make([]models.BatchLabelResult, 0, len(examples))
	for start := 0; start < len(examples); start += MaxBatchSize {
		end := start + MaxBatchSize
		if end > len(examples) {
			end = len(examples)
		}

		var batch []models.BatchLabelResult
		err := c.http.Request(
			ctx,
			http.MethodPost,
			versionPath(appID, versionID, "examples"),
			nil,
			examples[start:end],
			&batch,
		)
		if err != nil {
			return nil, err
		}
		results = append(results, batch...)
	}
	return results, nil
}

// ReviewExamples returns every labeled example of the version.
func (c *Client) ReviewExamples(ctx context.Context, appID, versionID string) ([]models.LabeledUtterance, error) {
	return ListAll(ctx, pager[models.LabeledUtterance](c, versionPath(appID, versionID, "examples")))
}
