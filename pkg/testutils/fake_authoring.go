package testutils

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"

	httpLogger "github.com/chi-middleware/logrus-logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/riandyrn/otelchi"

	"github.com/getzep/nlu-authoring/internal"
	"github.com/getzep/nlu-authoring/pkg/httputil"
	"github.com/getzep/nlu-authoring/pkg/models"
)

const (
	AuthoringPath  = "/luis/api/v2.0"
	PredictionPath = "/luis/v2.0"
	ServerName     = "fake-authoring"
)

// FakeAuthoringService is an in-memory stand-in for the authoring and runtime
// APIs. Responses to training requests can be scripted through TrainResponses
// and StatusResponses.
type FakeAuthoringService struct {
	Server       *httptest.Server
	AuthoringKey string
	EndpointKey  string

	mu   sync.Mutex
	apps []*fakeApp
	// calls counts requests by "METHOD kind", e.g. "POST intents".
	calls map[string]int
	// TrainResponses are returned in order by POST train. When empty the
	// service answers Queued.
	TrainResponses []models.TrainResponse
	// StatusResponses are returned in order by GET train. When empty every
	// model reports Success.
	StatusResponses [][]models.ModelTrainingInfo
	// BatchBodies holds the raw bodies of batch example requests.
	BatchBodies [][]byte
}

type fakeApp struct {
	info     models.AppInfo
	versions map[string]*fakeVersion
}

type fakeVersion struct {
	intents      []models.IntentInfo
	entities     []models.EntityInfo
	hierarchical []models.HierarchicalEntityInfo
	closedLists  []models.ClosedListInfo
	prebuilts    []models.PrebuiltEntityInfo
	examples     []models.LabeledUtterance
	nextExample  int64
}

// NewFakeAuthoringService starts the fake service. Callers must Close it.
func NewFakeAuthoringService(authoringKey, endpointKey string) *FakeAuthoringService {
	f := &FakeAuthoringService{
		AuthoringKey: authoringKey,
		EndpointKey:  endpointKey,
		calls:        make(map[string]int),
	}
	f.Server = httptest.NewServer(f.router())
	return f
}

func (f *FakeAuthoringService) Close() {
	f.Server.Close()
}

func (f *FakeAuthoringService) URL() string {
	return f.Server.URL
}

// Calls returns how many times METHOD kind was requested.
func (f *FakeAuthoringService) Calls(method, kind string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[method+" "+kind]
}

// SeedApp adds an app directly, bypassing the API.
func (f *FakeAuthoringService) SeedApp(name, versionID string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.addApp(models.ApplicationCreateObject{Name: name, InitialVersionID: versionID})
}

// AppCount returns the number of apps stored.
func (f *FakeAuthoringService) AppCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.apps)
}

// Version returns counts of the resources of an app version, keyed by kind.
func (f *FakeAuthoringService) Version(appID, versionID string) map[string]int {
	f.mu.Lock()
	defer f.mu.Unlock()
	v := f.version(appID, versionID)
	if v == nil {
		return nil
	}
	return map[string]int{
		"intents":              len(v.intents),
		"entities":             len(v.entities),
		"hierarchicalentities": len(v.hierarchical),
		"closedlists":          len(v.closedLists),
		"prebuilts":            len(v.prebuilts),
		"examples":             len(v.examples),
	}
}

func (f *FakeAuthoringService) router() http.Handler {
	r := chi.NewRouter()
	r.Use(
		httpLogger.Logger(ServerName, internal.GetLogger()),
		middleware.RequestID,
		middleware.Recoverer,
		otelchi.Middleware(
			ServerName,
			otelchi.WithChiRoutes(r),
			otelchi.WithRequestMethodInSpanName(true),
		),
	)

	r.Route(AuthoringPath, func(r chi.Router) {
		r.Use(f.requireKey)

		r.Get("/apps", f.listApps)
		r.Get("/apps/", f.listApps)
		r.Post("/apps", f.createApp)
		r.Post("/apps/", f.createApp)
		r.Get("/apps/{appId}", f.getApp)
		r.Delete("/apps/{appId}", f.deleteApp)
		r.Post("/apps/{appId}/publish", f.publishApp)

		r.Route("/apps/{appId}/versions/{versionId}", func(r chi.Router) {
			r.Get("/intents", f.listIntents)
			r.Post("/intents", f.createIntent)
			r.Delete("/intents/{id}", f.deleteIntent)

			r.Get("/entities", f.listEntities)
			r.Post("/entities", f.createEntity)
			r.Delete("/entities/{id}", f.deleteEntity)

			r.Get("/hierarchicalentities", f.listHierarchical)
			r.Post("/hierarchicalentities", f.createHierarchical)
			r.Delete("/hierarchicalentities/{id}", f.deleteHierarchical)

			r.Get("/closedlists", f.listClosedLists)
			r.Post("/closedlists", f.createClosedList)
			r.Delete("/closedlists/{id}", f.deleteClosedList)

			r.Get("/prebuilts", f.listPrebuilts)
			r.Post("/prebuilts", f.addPrebuilts)
			r.Delete("/prebuilts/{id}", f.deletePrebuilt)

			r.Post("/example", f.addExample)
			r.Post("/examples", f.addExamples)
			r.Get("/examples", f.listExamples)

			r.Post("/train", f.train)
			r.Get("/train", f.trainingStatus)
		})
	})

	r.Get(PredictionPath+"/apps/{appId}", f.predict)

	return r
}

func (f *FakeAuthoringService) requireKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if f.AuthoringKey != "" && r.Header.Get(httputil.SubscriptionKeyHeader) != f.AuthoringKey {
			writeError(w, http.StatusUnauthorized, "Unauthorized", "Access denied due to invalid subscription key.")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (f *FakeAuthoringService) record(method, kind string) {
	f.calls[method+" "+kind]++
}

func (f *FakeAuthoringService) addApp(app models.ApplicationCreateObject) string {
	versionID := app.InitialVersionID
	if versionID == "" {
		versionID = "0.1"
	}
	id := uuid.NewString()
	f.apps = append(f.apps, &fakeApp{
		info: models.AppInfo{
			ID:            id,
			Name:          app.Name,
			Description:   app.Description,
			Culture:       app.Culture,
			Domain:        app.Domain,
			UsageScenario: app.UsageScenario,
			VersionsCount: 1,
			ActiveVersion: versionID,
		},
		versions: map[string]*fakeVersion{versionID: {}},
	})
	return id
}

func (f *FakeAuthoringService) app(appID string) *fakeApp {
	for _, a := range f.apps {
		if a.info.ID == appID {
			return a
		}
	}
	return nil
}

func (f *FakeAuthoringService) version(appID, versionID string) *fakeVersion {
	a := f.app(appID)
	if a == nil {
		return nil
	}
	return a.versions[versionID]
}

// withVersion locks the service, records the call and resolves the version
// named by the request, answering 404 when it does not exist.
func (f *FakeAuthoringService) withVersion(
	w http.ResponseWriter,
	r *http.Request,
	kind string,
	fn func(v *fakeVersion),
) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(r.Method, kind)

	v := f.version(chi.URLParam(r, "appId"), chi.URLParam(r, "versionId"))
	if v == nil {
		writeError(w, http.StatusNotFound, "NotFound", "The application version was not found.")
		return
	}
	fn(v)
}

func (f *FakeAuthoringService) listApps(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(http.MethodGet, "apps")

	infos := make([]models.AppInfo, len(f.apps))
	for i, a := range f.apps {
		infos[i] = a.info
	}
	writeJSON(w, http.StatusOK, page(infos, r))
}

func (f *FakeAuthoringService) createApp(w http.ResponseWriter, r *http.Request) {
	var req models.ApplicationCreateObject
	if !decode(w, r, &req) {
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(http.MethodPost, "apps")

	if req.Name == "" || req.Culture == "" {
		writeError(w, http.StatusBadRequest, "BadArgument", "Name and culture are required.")
		return
	}
	writeJSON(w, http.StatusCreated, f.addApp(req))
}

func (f *FakeAuthoringService) getApp(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(http.MethodGet, "app")

	a := f.app(chi.URLParam(r, "appId"))
	if a == nil {
		writeError(w, http.StatusNotFound, "NotFound", "The application was not found.")
		return
	}
	writeJSON(w, http.StatusOK, a.info)
}

func (f *FakeAuthoringService) deleteApp(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(http.MethodDelete, "apps")

	appID := chi.URLParam(r, "appId")
	for i, a := range f.apps {
		if a.info.ID == appID {
			f.apps = append(f.apps[:i], f.apps[i+1:]...)
			writeJSON(w, http.StatusOK, models.OperationStatus{Code: "Success", Message: "Operation Successful"})
			return
		}
	}
	writeError(w, http.StatusNotFound, "NotFound", "The application was not found.")
}

func (f *FakeAuthoringService) publishApp(w http.ResponseWriter, r *http.Request) {
	var req models.ApplicationPublishObject
	if !decode(w, r, &req) {
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(http.MethodPost, "publish")

	appID := chi.URLParam(r, "appId")
	if f.version(appID, req.VersionID) == nil {
		writeError(w, http.StatusNotFound, "NotFound", "The application version was not found.")
		return
	}
	writeJSON(w, http.StatusCreated, models.PublishResult{
		VersionID:      req.VersionID,
		IsStaging:      req.IsStaging,
		EndpointURL:    f.Server.URL + PredictionPath + "/apps/" + appID,
		Region:         req.Region,
		EndpointRegion: req.Region,
	})
}

func (f *FakeAuthoringService) listIntents(w http.ResponseWriter, r *http.Request) {
	f.withVersion(w, r, "intents", func(v *fakeVersion) {
		writeJSON(w, http.StatusOK, page(v.intents, r))
	})
}

func (f *FakeAuthoringService) createIntent(w http.ResponseWriter, r *http.Request) {
	var req models.ModelCreateObject
	if !decode(w, r, &req) {
		return
	}
	f.withVersion(w, r, "intents", func(v *fakeVersion) {
		for _, i := range v.intents {
			if i.Name == req.Name {
				writeError(w, http.StatusBadRequest, "BadArgument", "An intent with the same name already exists.")
				return
			}
		}
		id := uuid.NewString()
		v.intents = append(v.intents, models.IntentInfo{ID: id, Name: req.Name, TypeID: 0, ReadableType: "Intent Classifier"})
		writeJSON(w, http.StatusCreated, id)
	})
}

func (f *FakeAuthoringService) deleteIntent(w http.ResponseWriter, r *http.Request) {
	f.withVersion(w, r, "intents", func(v *fakeVersion) {
		var ok bool
		v.intents, ok = remove(v.intents, chi.URLParam(r, "id"))
		writeDeleted(w, ok)
	})
}

func (f *FakeAuthoringService) listEntities(w http.ResponseWriter, r *http.Request) {
	f.withVersion(w, r, "entities", func(v *fakeVersion) {
		writeJSON(w, http.StatusOK, page(v.entities, r))
	})
}

func (f *FakeAuthoringService) createEntity(w http.ResponseWriter, r *http.Request) {
	var req models.ModelCreateObject
	if !decode(w, r, &req) {
		return
	}
	f.withVersion(w, r, "entities", func(v *fakeVersion) {
		id := uuid.NewString()
		v.entities = append(v.entities, models.EntityInfo{ID: id, Name: req.Name, TypeID: 1, ReadableType: "Entity Extractor"})
		writeJSON(w, http.StatusCreated, id)
	})
}

func (f *FakeAuthoringService) deleteEntity(w http.ResponseWriter, r *http.Request) {
	f.withVersion(w, r, "entities", func(v *fakeVersion) {
		var ok bool
		v.entities, ok = remove(v.entities, chi.URLParam(r, "id"))
		writeDeleted(w, ok)
	})
}

func (f *FakeAuthoringService) listHierarchical(w http.ResponseWriter, r *http.Request) {
	f.withVersion(w, r, "hierarchicalentities", func(v *fakeVersion) {
		writeJSON(w, http.StatusOK, page(v.hierarchical, r))
	})
}

func (f *FakeAuthoringService) createHierarchical(w http.ResponseWriter, r *http.Request) {
	var req models.HierarchicalEntityCreateObject
	if !decode(w, r, &req) {
		return
	}
	f.withVersion(w, r, "hierarchicalentities", func(v *fakeVersion) {
		children := make([]models.ChildEntity, len(req.Children))
		for i, c := range req.Children {
			children[i] = models.ChildEntity{ID: uuid.NewString(), Name: c}
		}
		id := uuid.NewString()
		v.hierarchical = append(v.hierarchical, models.HierarchicalEntityInfo{
			ID:           id,
			Name:         req.Name,
			TypeID:       3,
			ReadableType: "Hierarchical Entity Extractor",
			Children:     children,
		})
		writeJSON(w, http.StatusCreated, id)
	})
}

func (f *FakeAuthoringService) deleteHierarchical(w http.ResponseWriter, r *http.Request) {
	f.withVersion(w, r, "hierarchicalentities", func(v *fakeVersion) {
		var ok bool
		v.hierarchical, ok = remove(v.hierarchical, chi.URLParam(r, "id"))
		writeDeleted(w, ok)
	})
}

func (f *FakeAuthoringService) listClosedLists(w http.ResponseWriter, r *http.Request) {
	f.withVersion(w, r, "closedlists", func(v *fakeVersion) {
		writeJSON(w, http.StatusOK, page(v.closedLists, r))
	})
}

func (f *FakeAuthoringService) createClosedList(w http.ResponseWriter, r *http.Request) {
	var req models.ClosedListCreateObject
	if !decode(w, r, &req) {
		return
	}
	f.withVersion(w, r, "closedlists", func(v *fakeVersion) {
		subLists := make([]models.ClosedListSubListInfo, len(req.SubLists))
		seen := make(map[string]bool)
		for i, s := range req.SubLists {
			if seen[s.CanonicalForm] {
				writeError(w, http.StatusBadRequest, "BadArgument", "Duplicate canonical form "+s.CanonicalForm)
				return
			}
			seen[s.CanonicalForm] = true
			subLists[i] = models.ClosedListSubListInfo{ID: i + 1, CanonicalForm: s.CanonicalForm, List: s.List}
		}
		id := uuid.NewString()
		v.closedLists = append(v.closedLists, models.ClosedListInfo{
			ID:           id,
			Name:         req.Name,
			TypeID:       5,
			ReadableType: "Closed List Entity Extractor",
			SubLists:     subLists,
		})
		writeJSON(w, http.StatusCreated, id)
	})
}

func (f *FakeAuthoringService) deleteClosedList(w http.ResponseWriter, r *http.Request) {
	f.withVersion(w, r, "closedlists", func(v *fakeVersion) {
		var ok bool
		v.closedLists, ok = remove(v.closedLists, chi.URLParam(r, "id"))
		writeDeleted(w, ok)
	})
}

func (f *FakeAuthoringService) listPrebuilts(w http.ResponseWriter, r *http.Request) {
	f.withVersion(w, r, "prebuilts", func(v *fakeVersion) {
		writeJSON(w, http.StatusOK, page(v.prebuilts, r))
	})
}

func (f *FakeAuthoringService) addPrebuilts(w http.ResponseWriter, r *http.Request) {
	var names []string
	if !decode(w, r, &names) {
		return
	}
	f.withVersion(w, r, "prebuilts", func(v *fakeVersion) {
		added := make([]models.PrebuiltEntityInfo, 0, len(names))
		for _, name := range names {
			info := models.PrebuiltEntityInfo{
				ID:           uuid.NewString(),
				Name:         name,
				TypeID:       2,
				ReadableType: "Prebuilt Entity Extractor",
			}
			v.prebuilts = append(v.prebuilts, info)
			added = append(added, info)
		}
		writeJSON(w, http.StatusCreated, added)
	})
}

func (f *FakeAuthoringService) deletePrebuilt(w http.ResponseWriter, r *http.Request) {
	f.withVersion(w, r, "prebuilts", func(v *fakeVersion) {
		var ok bool
		v.prebuilts, ok = remove(v.prebuilts, chi.URLParam(r, "id"))
		writeDeleted(w, ok)
	})
}

func (f *FakeAuthoringService) addExample(w http.ResponseWriter, r *http.Request) {
	var req models.LabeledExample
	if !decode(w, r, &req) {
		return
	}
	f.withVersion(w, r, "example", func(v *fakeVersion) {
		resp, errStatus := v.label(req)
		if errStatus != nil {
			writeError(w, http.StatusBadRequest, errStatus.Code, errStatus.Message)
			return
		}
		writeJSON(w, http.StatusCreated, resp)
	})
}

func (f *FakeAuthoringService) addExamples(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "BadArgument", err.Error())
		return
	}
	var req []models.LabeledExample
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "BadArgument", err.Error())
		return
	}
	f.withVersion(w, r, "examples", func(v *fakeVersion) {
		f.BatchBodies = append(f.BatchBodies, body)
		results := make([]models.BatchLabelResult, len(req))
		for i, e := range req {
			resp, errStatus := v.label(e)
			results[i] = models.BatchLabelResult{Value: resp, HasError: errStatus != nil, Error: errStatus}
		}
		writeJSON(w, http.StatusCreated, results)
	})
}

func (f *FakeAuthoringService) listExamples(w http.ResponseWriter, r *http.Request) {
	f.withVersion(w, r, "examples", func(v *fakeVersion) {
		writeJSON(w, http.StatusOK, page(v.examples, r))
	})
}

func (v *fakeVersion) label(e models.LabeledExample) (*models.LabelExampleResponse, *models.OperationStatus) {
	known := false
	for _, i := range v.intents {
		if i.Name == e.IntentName {
			known = true
		}
	}
	if !known {
		return nil, &models.OperationStatus{Code: "BadArgument", Message: "The intent classifier " + e.IntentName + " does not exist."}
	}

	labels := make([]models.EntityPrediction, len(e.EntityLabels))
	for i, l := range e.EntityLabels {
		if l.StartCharIndex < 0 || l.EndCharIndex >= len(e.Text) || l.StartCharIndex > l.EndCharIndex {
			return nil, &models.OperationStatus{
				Code:    "BadArgument",
				Message: fmt.Sprintf("Entity label %s is out of the utterance bounds.", l.EntityName),
			}
		}
		labels[i] = models.EntityPrediction{
			EntityName: l.EntityName,
			Phrase:     e.Text[l.StartCharIndex : l.EndCharIndex+1],
		}
	}

	utterance := models.LabeledUtterance{
		Text:          e.Text,
		TokenizedText: strings.Fields(e.Text),
		IntentLabel:   e.IntentName,
		EntityLabels:  labels,
	}

	// Relabeling an existing utterance replaces its labels.
	for i := range v.examples {
		if v.examples[i].Text == e.Text {
			utterance.ID = v.examples[i].ID
			v.examples[i] = utterance
			return &models.LabelExampleResponse{UtteranceText: e.Text, ExampleID: utterance.ID}, nil
		}
	}

	v.nextExample++
	utterance.ID = v.nextExample
	v.examples = append(v.examples, utterance)
	return &models.LabelExampleResponse{UtteranceText: e.Text, ExampleID: utterance.ID}, nil
}

func (f *FakeAuthoringService) train(w http.ResponseWriter, r *http.Request) {
	f.withVersion(w, r, "train", func(v *fakeVersion) {
		resp := models.TrainResponse{StatusID: 9, Status: string(models.TrainingStatusQueued)}
		if len(f.TrainResponses) > 0 {
			resp = f.TrainResponses[0]
			f.TrainResponses = f.TrainResponses[1:]
		}
		writeJSON(w, http.StatusAccepted, resp)
	})
}

func (f *FakeAuthoringService) trainingStatus(w http.ResponseWriter, r *http.Request) {
	f.withVersion(w, r, "train", func(v *fakeVersion) {
		if len(f.StatusResponses) > 0 {
			statuses := f.StatusResponses[0]
			f.StatusResponses = f.StatusResponses[1:]
			writeJSON(w, http.StatusOK, statuses)
			return
		}
		statuses := make([]models.ModelTrainingInfo, 0, len(v.intents)+len(v.entities))
		for _, i := range v.intents {
			statuses = append(statuses, ModelStatus(i.ID, models.TrainingStatusSuccess))
		}
		for _, e := range v.entities {
			statuses = append(statuses, ModelStatus(e.ID, models.TrainingStatusSuccess))
		}
		writeJSON(w, http.StatusOK, statuses)
	})
}

func (f *FakeAuthoringService) predict(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(http.MethodGet, "predict")

	if f.EndpointKey != "" && r.URL.Query().Get(httputil.SubscriptionKeyParam) != f.EndpointKey {
		writeError(w, http.StatusUnauthorized, "Unauthorized", "Access denied due to invalid subscription key.")
		return
	}

	a := f.app(chi.URLParam(r, "appId"))
	if a == nil {
		writeError(w, http.StatusNotFound, "NotFound", "The application was not found.")
		return
	}

	query := r.URL.Query().Get("q")
	top := models.IntentScore{Intent: "None", Score: 0.1}
	for _, v := range a.versions {
		for _, e := range v.examples {
			if strings.EqualFold(e.Text, query) {
				top = models.IntentScore{Intent: e.IntentLabel, Score: 0.97}
			}
		}
	}
	writeJSON(w, http.StatusOK, models.PredictionResult{
		Query:            query,
		TopScoringIntent: &top,
		Intents:          []models.IntentScore{top},
		Entities:         []models.EntityMatch{},
	})
}

// ModelStatus builds a training status entry.
func ModelStatus(modelID string, status models.TrainingStatus) models.ModelTrainingInfo {
	return models.ModelTrainingInfo{
		ModelID: modelID,
		Details: models.ModelTrainingDetails{Status: string(status)},
	}
}

func page[T any](items []T, r *http.Request) []T {
	skip, _ := strconv.Atoi(r.URL.Query().Get("skip"))
	take, err := strconv.Atoi(r.URL.Query().Get("take"))
	if err != nil || take <= 0 {
		take = 100
	}
	if skip >= len(items) {
		return []T{}
	}
	end := skip + take
	if end > len(items) {
		end = len(items)
	}
	return items[skip:end]
}

func remove[T models.Resource](items []T, id string) ([]T, bool) {
	for i, item := range items {
		if item.ResourceID() == id {
			return append(items[:i], items[i+1:]...), true
		}
	}
	return items, false
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "BadArgument", err.Error())
		return false
	}
	return true
}

func writeDeleted(w http.ResponseWriter, ok bool) {
	if !ok {
		writeError(w, http.StatusNotFound, "NotFound", "The model was not found.")
		return
	}
	writeJSON(w, http.StatusOK, models.OperationStatus{Code: "Success", Message: "Operation Successful"})
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, models.ErrorEnvelope{Error: models.ErrorDetail{Code: code, Message: message}})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
