package handlers

import (
	"context"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"tech_office_cms_go/models"
	"tech_office_cms_go/services"
	"tech_office_cms_go/services/diavgeia"
)

func setupTestDB(t *testing.T) *gorm.DB {
	// Unique shared memory name to isolate tests
	dbName := "mem_" + uuid.New().String()
	testDB, err := gorm.Open(sqlite.Open("file:"+dbName+"?mode=memory&cache=shared&_busy_timeout=5000"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	assert.NoError(t, err)

	err = testDB.AutoMigrate(
		&models.Customer{},
		&models.Case{},
		&models.CaseCustomer{},
		&models.Task{},
		&models.Decision{},
		&models.CaseDecisionLink{},
	)
	assert.NoError(t, err)

	return testDB
}

// fakeRegistry stands in for the Diavgeia API and counts invocations.
type fakeRegistry struct {
	decisions    map[string]*diavgeia.DecisionPayload
	searchResult *diavgeia.SearchResult
	getCalls     int
	searchCalls  int
	err          error
}

func newFakeRegistry() *fakeRegistry {
	return &fakeRegistry{decisions: map[string]*diavgeia.DecisionPayload{}}
}

func (f *fakeRegistry) Search(ctx context.Context, params diavgeia.SearchParams) (*diavgeia.SearchResult, error) {
	f.searchCalls++
	if f.err != nil {
		return nil, f.err
	}
	if f.searchResult != nil {
		return f.searchResult, nil
	}
	return &diavgeia.SearchResult{Decisions: []diavgeia.DecisionPayload{}}, nil
}

func (f *fakeRegistry) GetDecision(ctx context.Context, ada string) (*diavgeia.DecisionPayload, error) {
	f.getCalls++
	if f.err != nil {
		return nil, f.err
	}
	payload, ok := f.decisions[ada]
	if !ok {
		return nil, &diavgeia.NotFoundError{ADA: ada}
	}
	return payload, nil
}

// fakeShare is an in-memory share that records every operation.
type fakeShare struct {
	files   map[string][]byte
	folders map[string]bool
	ops     int
	closed  bool
}

func (f *fakeShare) Mkdir(ctx context.Context, relPath string) error {
	f.ops++
	f.folders[relPath] = true
	return nil
}

func (f *fakeShare) List(ctx context.Context, relPath string) ([]string, error) {
	f.ops++
	var names []string
	prefix := relPath + "/"
	for key := range f.files {
		if len(key) > len(prefix) && key[:len(prefix)] == prefix {
			names = append(names, key[len(prefix):])
		}
	}
	return names, nil
}

func (f *fakeShare) Put(ctx context.Context, relPath string, reader io.Reader, size int64) error {
	f.ops++
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	f.files[relPath] = data
	return nil
}

func (f *fakeShare) Get(ctx context.Context, relPath string) ([]byte, error) {
	f.ops++
	data, ok := f.files[relPath]
	if !ok {
		return nil, io.ErrUnexpectedEOF
	}
	return data, nil
}

func (f *fakeShare) Close() error {
	f.closed = true
	return nil
}

// fakeDialer hands out a single fakeShare and counts dials, so tests can
// assert that the traversal guard runs before any connection is opened.
type fakeDialer struct {
	share *fakeShare
	dials int
}

func newFakeDialer() *fakeDialer {
	return &fakeDialer{share: &fakeShare{files: map[string][]byte{}, folders: map[string]bool{}}}
}

func (d *fakeDialer) Dial() (services.ShareClient, error) {
	d.dials++
	return d.share, nil
}

// testEnv wires real services over the test database with fakes at the
// external edges.
type testEnv struct {
	db       *gorm.DB
	registry *fakeRegistry
	dialer   *fakeDialer
	handlers *Handlers
}

func setupEnv(t *testing.T) *testEnv {
	database := setupTestDB(t)
	registry := newFakeRegistry()
	dialer := newFakeDialer()

	customerService := services.NewCustomerService(database)
	caseService := services.NewCaseService(database, "cases")
	taskService := services.NewTaskService(database)
	reportService := services.NewReportService(database)
	cache := diavgeia.NewCache(database, registry)
	linkService := diavgeia.NewLinkService(database)

	return &testEnv{
		db:       database,
		registry: registry,
		dialer:   dialer,
		handlers: &Handlers{
			Cases:     NewCaseHandler(caseService, taskService),
			Customers: NewCustomerHandler(customerService),
			Tasks:     NewTaskHandler(taskService),
			Files:     NewFileHandler(caseService, dialer),
			Dashboard: NewDashboardHandler(database, dialer, "completed"),
			Diavgeia:  NewDiavgeiaHandler(cache, linkService),
			Reports:   NewReportHandler(reportService, caseService, linkService),
		},
	}
}

func setupEcho(method, path string, body io.Reader) (*echo.Echo, echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.HTTPErrorHandler = HTTPErrorHandler
	req := httptest.NewRequest(method, path, body)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	return e, c, rec
}

// invoke runs a handler and routes any returned error through the error
// handler, the way the echo server would.
func invoke(c echo.Context, rec *httptest.ResponseRecorder, handler echo.HandlerFunc) {
	if err := handler(c); err != nil {
		HTTPErrorHandler(err, c)
	}
	_ = rec
}
