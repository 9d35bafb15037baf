package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/thesibaram/RAG-Based-Knowledge-Chatbot/internal/core/domain"
)

// Mock services shared by the command tests.

type mockIndexService struct {
	buildReport  *domain.BuildReport
	buildErr     error
	ensureReport *domain.BuildReport
	ensureErr    error
	openErr      error
	info         domain.IndexInfo

	builds  []bool
	ensures []bool
	opens   int
}

func (m *mockIndexService) Build(_ context.Context, recreate bool) (*domain.BuildReport, error) {
	m.builds = append(m.builds, recreate)
	return m.buildReport, m.buildErr
}

func (m *mockIndexService) Ensure(_ context.Context, recreate bool) (*domain.BuildReport, error) {
	m.ensures = append(m.ensures, recreate)
	return m.ensureReport, m.ensureErr
}

func (m *mockIndexService) Open(_ context.Context) error {
	m.opens++
	return m.openErr
}

func (m *mockIndexService) Info(_ context.Context) domain.IndexInfo {
	return m.info
}

func (m *mockIndexService) Status() domain.BuildStatus {
	return domain.BuildStatus{}
}

type mockRetrievalService struct {
	docs     []domain.ScoredDocument
	err      error
	defaultK int
	gotK     int
}

func (m *mockRetrievalService) Query(_ context.Context, _ string, k int) ([]domain.ScoredDocument, error) {
	m.gotK = k
	return m.docs, m.err
}

func (m *mockRetrievalService) DefaultK() int {
	return m.defaultK
}

type mockAnswerService struct {
	text      string
	err       error
	questions []string
}

func (m *mockAnswerService) Answer(_ context.Context, question string) (*domain.Answer, error) {
	m.questions = append(m.questions, question)
	if m.err != nil {
		return nil, m.err
	}
	return &domain.Answer{Question: question, Text: m.text}, nil
}

type mockEvaluationService struct {
	report     *domain.EvaluationReport
	points     []domain.SweepPoint
	err        error
	gotK       int
	gotKs      []int
	gotSamples []domain.EvaluationSample
	calls      int
}

func (m *mockEvaluationService) Evaluate(_ context.Context, samples []domain.EvaluationSample, k int) (*domain.EvaluationReport, error) {
	m.calls++
	m.gotK = k
	m.gotSamples = samples
	return m.report, m.err
}

func (m *mockEvaluationService) Sweep(_ context.Context, samples []domain.EvaluationSample, ks []int) ([]domain.SweepPoint, error) {
	m.calls++
	m.gotKs = ks
	m.gotSamples = samples
	return m.points, m.err
}

type mockDataCheckService struct {
	report *domain.DataReport
	err    error
}

func (m *mockDataCheckService) Check(_ context.Context) (*domain.DataReport, error) {
	return m.report, m.err
}

type mockSettingsService struct {
	settings domain.Settings
	err      error
	key      string
	keyErr   error
}

func (m *mockSettingsService) Get() (domain.Settings, error) {
	return m.settings, m.err
}

func (m *mockSettingsService) GetDefaults() domain.Settings {
	return domain.DefaultSettings()
}

func (m *mockSettingsService) APIKey() (string, error) {
	return m.key, m.keyErr
}

type mockValidator struct {
	embeddingErr error
	llmErr       error
	calls        int
}

func (m *mockValidator) ValidateEmbedding(_ context.Context, _ domain.EmbeddingSettings, _ string) error {
	m.calls++
	return m.embeddingErr
}

func (m *mockValidator) ValidateLLM(_ context.Context, _ domain.ChatSettings, _ string) error {
	m.calls++
	return m.llmErr
}

// testMocks gives tests access to the services installed by setupTestServices.
type testMocks struct {
	index      *mockIndexService
	retrieval  *mockRetrievalService
	answer     *mockAnswerService
	evaluation *mockEvaluationService
	dataCheck  *mockDataCheckService
	settings   *mockSettingsService
	validator  *mockValidator
}

// setupTestServices installs working mocks and returns a cleanup that
// restores the previous services and bootstrap.
func setupTestServices() (*testMocks, func()) {
	oldIndex, oldRetrieval, oldAnswer := indexService, retrievalService, answerService
	oldEvaluation, oldDataCheck, oldSettings := evaluationService, dataCheckService, settingsService
	oldValidator, oldConfigPath, oldClose := aiValidator, configPath, closeServices
	oldBootstrap := bootstrap

	settings := domain.DefaultSettings()
	mocks := &testMocks{
		index: &mockIndexService{
			buildReport: &domain.BuildReport{
				Records:    45,
				BatchSizes: []int{20, 20, 5},
				Waits:      2,
				Duration:   61 * time.Second,
				Path:       "artifacts/index",
			},
			info: domain.IndexInfo{State: domain.IndexPersisted, Documents: 45, Path: "artifacts/index"},
		},
		retrieval: &mockRetrievalService{
			defaultK: 10,
			docs: []domain.ScoredDocument{
				{Document: domain.EmbeddedDocument{ID: "doc-1", Text: "The discharge process was seamless."}, Similarity: 0.9},
				{Document: domain.EmbeddedDocument{ID: "doc-2", Text: "Parking was hard to find."}, Similarity: 0.5},
			},
		},
		answer: &mockAnswerService{text: "Patients praised the discharge process."},
		evaluation: &mockEvaluationService{
			report: &domain.EvaluationReport{
				K: 10,
				Results: []domain.EvaluationResult{
					{Question: "What did patients say about the discharge process?", Keywords: []string{"discharge", "process"}, HitRate: 1, DocumentsRetrieved: 10},
					{Question: "What are common complaints about the facilities?", Keywords: []string{"parking", "room"}, HitRate: 0.5, DocumentsRetrieved: 10},
				},
				Summary: domain.EvaluationSummary{Mean: 0.75, Median: 0.75, Min: 0.5, Max: 1},
			},
			points: []domain.SweepPoint{{K: 1, MeanHitRate: 0.25}, {K: 3, MeanHitRate: 0.5}},
		},
		dataCheck: &mockDataCheckService{
			report: &domain.DataReport{
				Path:    "data/raw/reviews.csv",
				Rows:    3,
				Columns: []string{"review", "rating"},
				Stats: []domain.ColumnStats{
					{Name: "review", NonNull: 3},
					{Name: "rating", NonNull: 2, Missing: 1},
				},
				SampleReviews: []string{"Short review.", string(bytes.Repeat([]byte("x"), 150))},
			},
		},
		settings:  &mockSettingsService{settings: settings, key: "test-api-key-1234"},
		validator: &mockValidator{},
	}

	SetServices(&Services{
		Index:      mocks.index,
		Retrieval:  mocks.retrieval,
		Answer:     mocks.answer,
		Evaluation: mocks.evaluation,
		DataCheck:  mocks.dataCheck,
		Settings:   mocks.settings,
		Validator:  mocks.validator,
	})
	bootstrap = nil

	return mocks, func() {
		indexService, retrievalService, answerService = oldIndex, oldRetrieval, oldAnswer
		evaluationService, dataCheckService, settingsService = oldEvaluation, oldDataCheck, oldSettings
		aiValidator, configPath, closeServices = oldValidator, oldConfigPath, oldClose
		bootstrap = oldBootstrap
	}
}

// execute runs the root command with args and returns its combined output.
func execute(t *testing.T, in io.Reader, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetIn(in)
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
	}()

	err := run(context.Background())
	return buf.String(), err
}

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}
