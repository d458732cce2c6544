// Package workflow builds, trains and publishes an app from a Definition in a
// single pass.
package workflow

import (
	"context"
	"errors"
	"fmt"

	"github.com/hashicorp/go-multierror"
	"github.com/jinzhu/copier"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/getzep/nlu-authoring/config"
	"github.com/getzep/nlu-authoring/internal"
	"github.com/getzep/nlu-authoring/pkg/authoring"
	"github.com/getzep/nlu-authoring/pkg/models"
	"github.com/getzep/nlu-authoring/pkg/prediction"
)

var log = internal.GetLogger()

const tracerName = "github.com/getzep/nlu-authoring/pkg/workflow"

const (
	KindIntent             = "intent"
	KindEntity             = "entity"
	KindHierarchicalEntity = "hierarchical entity"
	KindClosedList         = "closed list"
	KindPrebuilt           = "prebuilt entity"
)

// TrainingFailedError is returned when the service reports that training
// failed. Result holds the per-model details.
type TrainingFailedError struct {
	Result *models.TrainingResult
}

func (e *TrainingFailedError) Error() string {
	return fmt.Sprintf("training failed with status %s", e.Result.Status)
}

// ResolvedResource is a resource of the app version after find-or-create.
type ResolvedResource struct {
	Kind    string
	Name    string
	ID      string
	Created bool
}

// Report summarizes one pass.
type Report struct {
	AppID      string
	AppCreated bool
	VersionID  string
	Resources  []ResolvedResource
	Labeled    int
	Rejected   []string
	Training   *models.TrainingResult
	Publish    *models.PublishResult
	Examples   []models.LabeledUtterance
	Prediction *models.PredictionResult
	Cleanup    string
}

// CreatedCount returns how many resources the pass created.
func (r *Report) CreatedCount() int {
	n := 0
	for _, res := range r.Resources {
		if res.Created {
			n++
		}
	}
	return n
}

type Runner struct {
	cfg        *config.Config
	def        *Definition
	authoring  *authoring.Client
	prediction *prediction.Client
}

func NewRunner(cfg *config.Config, def *Definition) *Runner {
	return &Runner{
		cfg:        cfg,
		def:        def,
		authoring:  authoring.NewClient(cfg),
		prediction: prediction.NewClient(cfg),
	}
}

// Run resolves the app and every resource of the definition, labels the
// utterances, trains, publishes, reviews and optionally queries the published
// model, then cleans up as configured. Steps run in order and the first error
// stops the pass. Each step is traced as a child span of workflow.Run.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	versionID := r.cfg.App.VersionID
	report := &Report{VersionID: versionID, Cleanup: r.cfg.Workflow.Cleanup}

	ctx, span := otel.Tracer(tracerName).Start(ctx, "workflow.Run", trace.WithAttributes(
		attribute.String("app.name", r.cfg.App.Name),
		attribute.String("app.version", versionID),
	))
	defer span.End()

	steps := []struct {
		name string
		fn   func(ctx context.Context, report *Report) error
	}{
		{"resolve app", r.resolveApp},
		{"resolve resources", r.resolveResources},
		{"label", r.label},
		{"train", r.train},
		{"publish", r.publish},
		{"review", r.review},
		{"query", r.query},
		{"cleanup", r.cleanup},
	}

	for _, step := range steps {
		if err := traced(ctx, step.name, func(ctx context.Context) error {
			return step.fn(ctx, report)
		}); err != nil {
			span.SetStatus(codes.Error, step.name+" failed")
			return nil, err
		}
	}

	return report, nil
}

// traced runs fn in a child span named name.
func traced(ctx context.Context, name string, fn func(ctx context.Context) error) error {
	ctx, span := otel.Tracer(tracerName).Start(ctx, name)
	defer span.End()

	if err := fn(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}

func (r *Runner) resolveApp(ctx context.Context, report *Report) error {
	var app models.ApplicationCreateObject
	if err := copier.Copy(&app, &r.cfg.App); err != nil {
		return fmt.Errorf("failed to build app payload: %w", err)
	}
	app.InitialVersionID = report.VersionID

	resolution, err := r.authoring.FindOrCreateApp(ctx, app)
	if err != nil {
		return err
	}
	report.AppID = resolution.ID
	report.AppCreated = resolution.Created
	logResolution("app", app.Name, resolution)

	return nil
}

// train returns a *TrainingFailedError when the service reports a failure.
func (r *Runner) train(ctx context.Context, report *Report) error {
	training, err := r.authoring.Train(ctx, report.AppID, report.VersionID)
	if err != nil {
		return fmt.Errorf("failed to train version %s: %w", report.VersionID, err)
	}
	if !training.Success {
		return &TrainingFailedError{Result: training}
	}
	report.Training = training
	log.Infof("Training finished with status %s", training.Status)

	return nil
}

func (r *Runner) publish(ctx context.Context, report *Report) error {
	result, err := r.authoring.PublishApp(ctx, report.AppID, models.ApplicationPublishObject{
		VersionID: report.VersionID,
		IsStaging: r.cfg.App.IsStaging,
		Region:    r.cfg.App.PublishRegion,
	})
	if err != nil {
		return err
	}
	report.Publish = result
	log.Infof("Published version %s to %s", report.VersionID, result.EndpointURL)

	return nil
}

func (r *Runner) review(ctx context.Context, report *Report) error {
	examples, err := r.authoring.ReviewExamples(ctx, report.AppID, report.VersionID)
	if err != nil {
		return fmt.Errorf("failed to review examples: %w", err)
	}
	report.Examples = examples

	return nil
}

// query is skipped without an endpoint key or query text.
func (r *Runner) query(ctx context.Context, report *Report) error {
	if r.cfg.Endpoint.Key == "" || r.cfg.Workflow.Query == "" {
		return nil
	}

	result, err := r.prediction.Query(ctx, report.AppID, r.cfg.Workflow.Query)
	if err != nil {
		return err
	}
	report.Prediction = result

	return nil
}

func (r *Runner) resolveResources(ctx context.Context, report *Report) error {
	appID, versionID := report.AppID, report.VersionID

	resolve := func(kind, name string, fn func() (authoring.Resolution, error)) error {
		res, err := fn()
		if err != nil {
			return fmt.Errorf("%s %s: %w", kind, name, err)
		}
		logResolution(kind, name, res)
		report.Resources = append(report.Resources, ResolvedResource{
			Kind:    kind,
			Name:    name,
			ID:      res.ID,
			Created: res.Created,
		})
		return nil
	}

	for _, name := range r.def.Intents {
		name := name
		err := resolve(KindIntent, name, func() (authoring.Resolution, error) {
			return r.authoring.FindOrCreateIntent(ctx, appID, versionID, name)
		})
		if err != nil {
			return err
		}
	}

	for _, name := range r.def.Entities {
		name := name
		err := resolve(KindEntity, name, func() (authoring.Resolution, error) {
			return r.authoring.FindOrCreateEntity(ctx, appID, versionID, name)
		})
		if err != nil {
			return err
		}
	}

	for _, entity := range r.def.HierarchicalEntities {
		entity := entity
		err := resolve(KindHierarchicalEntity, entity.Name, func() (authoring.Resolution, error) {
			return r.authoring.FindOrCreateHierarchicalEntity(ctx, appID, versionID, entity)
		})
		if err != nil {
			return err
		}
	}

	for _, list := range r.def.ClosedLists {
		list := list
		err := resolve(KindClosedList, list.Name, func() (authoring.Resolution, error) {
			return r.authoring.FindOrCreateClosedList(ctx, appID, versionID, list)
		})
		if err != nil {
			return err
		}
	}

	for _, name := range r.def.PrebuiltEntities {
		name := name
		err := resolve(KindPrebuilt, name, func() (authoring.Resolution, error) {
			return r.authoring.FindOrCreatePrebuilt(ctx, appID, versionID, name)
		})
		if err != nil {
			return err
		}
	}

	return nil
}

// label adds the definition's utterances. Utterances the service rejects are
// logged and recorded in the report.
func (r *Runner) label(ctx context.Context, report *Report) error {
	utterances := r.def.Utterances
	switch len(utterances) {
	case 0:
		return nil
	case 1:
		if _, err := r.authoring.AddExample(ctx, report.AppID, report.VersionID, utterances[0]); err != nil {
			return fmt.Errorf("failed to add example: %w", err)
		}
		report.Labeled = 1
		return nil
	}

	results, err := r.authoring.AddExamples(ctx, report.AppID, report.VersionID, utterances)
	if err != nil {
		return fmt.Errorf("failed to add examples: %w", err)
	}
	if len(results) != len(utterances) {
		return fmt.Errorf("failed to add examples: got %d results for %d utterances", len(results), len(utterances))
	}

	for i, result := range results {
		if !result.HasError {
			report.Labeled++
			continue
		}
		msg := "unknown error"
		if result.Error != nil {
			msg = result.Error.Message
		}
		log.Warnf("Example %q was rejected: %s", utterances[i].Text, msg)
		report.Rejected = append(report.Rejected, utterances[i].Text)
	}
	log.Infof("Labeled %d of %d examples", report.Labeled, len(utterances))

	return nil
}

func (r *Runner) cleanup(ctx context.Context, report *Report) error {
	switch r.cfg.Workflow.Cleanup {
	case config.CleanupApp:
		if err := r.authoring.DeleteApp(ctx, report.AppID); err != nil {
			return fmt.Errorf("failed to delete app %s: %w", report.AppID, err)
		}
		log.Infof("Deleted app %s", report.AppID)
	case config.CleanupResources:
		return r.deleteResources(ctx, report)
	}
	return nil
}

// deleteResources deletes the resolved resources in reverse order so that
// composite entities go before the entities they may reference. Every
// deletion is attempted.
func (r *Runner) deleteResources(ctx context.Context, report *Report) error {
	appID, versionID := report.AppID, report.VersionID

	var errs *multierror.Error
	for i := len(report.Resources) - 1; i >= 0; i-- {
		res := report.Resources[i]

		var err error
		switch res.Kind {
		case KindIntent:
			err = r.authoring.DeleteIntent(ctx, appID, versionID, res.ID)
		case KindEntity:
			err = r.authoring.DeleteEntity(ctx, appID, versionID, res.ID)
		case KindHierarchicalEntity:
			err = r.authoring.DeleteHierarchicalEntity(ctx, appID, versionID, res.ID)
		case KindClosedList:
			err = r.authoring.DeleteClosedList(ctx, appID, versionID, res.ID)
		case KindPrebuilt:
			err = r.authoring.DeletePrebuilt(ctx, appID, versionID, res.ID)
		default:
			err = errors.New("unknown resource kind")
		}

		if err != nil {
			errs = multierror.Append(errs, fmt.Errorf("failed to delete %s %s: %w", res.Kind, res.Name, err))
			continue
		}
		log.Debugf("Deleted %s %s", res.Kind, res.Name)
	}

	return errs.ErrorOrNil()
}

func logResolution(kind, name string, res authoring.Resolution) {
	if res.Created {
		log.Infof("Created %s %s: %s", kind, name, res.ID)
		return
	}
	log.Infof("Found %s %s: %s", kind, name, res.ID)
}
