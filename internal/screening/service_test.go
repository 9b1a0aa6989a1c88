package screening_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"riskscreen/internal/evidence/corporate"
	"riskscreen/internal/evidence/media"
	"riskscreen/internal/evidence/providers"
	"riskscreen/internal/evidence/sanctions"
	"riskscreen/internal/platform/logger"
	"riskscreen/internal/screening"
	"riskscreen/internal/screening/metrics"
	"riskscreen/internal/screening/mocks"
)

type ServiceSuite struct {
	suite.Suite
	ctrl      *gomock.Controller
	generator *mocks.MockTextGenerator
	metrics   *metrics.Metrics
	matcher   *sanctions.Matcher
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.generator = mocks.NewMockTextGenerator(s.ctrl)
	s.metrics = metrics.NewWithRegistry(prometheus.NewRegistry())
	s.matcher = sanctions.NewMatcher(sanctions.Lists{
		OFAC: []string{"ROGUE TRADING LLC"},
		EU:   []string{},
	})
}

func (s *ServiceSuite) newService(registry screening.RegistryLookup, analyzer screening.MediaAnalyzer) *screening.Service {
	log := logger.Discard()
	agg := screening.NewAggregator(s.matcher, registry, &fakeOwnership{}, analyzer,
		screening.WithAggregatorLogger(log),
		screening.WithAggregatorMetrics(s.metrics),
	)
	synth := screening.NewSynthesizer(s.generator,
		screening.WithSynthesizerLogger(log),
		screening.WithSynthesizerMetrics(s.metrics),
		screening.WithSynthesisTimeout(time.Second),
	)
	return screening.NewService(agg, synth,
		screening.WithServiceLogger(log),
		screening.WithServiceMetrics(s.metrics),
		screening.WithMaxBatchSize(3),
	)
}

func (s *ServiceSuite) batches(status string) float64 {
	return testutil.ToFloat64(s.metrics.BatchOutcomes.WithLabelValues(status))
}

// =============================================================================
// End-to-end scenarios
// =============================================================================

func (s *ServiceSuite) TestSanctionedPayerCleanReceiver() {
	svc := s.newService(&fakeRegistry{}, &fakeMedia{})
	s.generator.EXPECT().
		Generate(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, prompt string) (string, error) {
			s.Contains(prompt, `"ROGUE TRADING LLC"`)
			s.Contains(prompt, `"supporting_evidence":["OFAC"]`)
			return `[{"transaction_id":"T1","extracted_entities":["ROGUE TRADING LLC","Globex"],` +
				`"entity_type":["Corporation","Corporation"],"risk_score":0.3,` +
				`"supporting_evidence":["OFAC"],"confidence_score":0.9,"reason":"Payer is on the OFAC list."}]`, nil
		}).
		Times(1)

	verdicts, err := svc.Process(context.Background(), []screening.TransactionRecord{
		{ID: "T1", PayerName: "ROGUE TRADING LLC", ReceiverName: "Globex"},
	})
	s.Require().NoError(err)
	s.Require().Len(verdicts, 1)

	v := verdicts[0]
	s.Equal("T1", v.TransactionID)
	s.Equal([]string{"OFAC"}, v.EvidenceSources)
	s.InDelta(0.5, v.RiskScore, 1e-9, "sanctions weight only")
	s.InDelta(0.3, v.AdvisoryScore, 1e-9)
	s.InDelta(0.9, v.ConfidenceScore, 1e-9)
	s.Equal([2]string{"ROGUE TRADING LLC", "Globex"}, v.Entities)
	s.Equal([2]string{"Corporation", "Corporation"}, v.EntityTypes)
	s.Equal(float64(1), s.batches("success"))
}

func (s *ServiceSuite) TestRegistryAndNewsTimeouts() {
	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(300 * time.Millisecond):
		case <-r.Context().Done():
		}
	}))
	defer slow.Close()

	registry := corporate.New(slow.URL, "key",
		providers.NewCaller(corporate.ProviderID, slow.Client(), 30*time.Millisecond), logger.Discard())
	news := media.NewNewsClient(slow.URL, "key",
		providers.NewCaller(media.NewsProviderID, slow.Client(), 30*time.Millisecond))
	analyzer := media.NewAnalyzer(news, nil, nil, logger.Discard())

	svc := s.newService(registry, analyzer)
	s.generator.EXPECT().
		Generate(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, prompt string) (string, error) {
			s.Contains(prompt, "urgent transfer, split to avoid reporting")
			return `{"transaction_id":"T7","entity_type":["Corporation","Individual"],"risk_score":0.45,` +
				`"confidence_score":0.6,"reason":"Remarks suggest structuring to avoid reporting."}`, nil
		})

	verdicts, err := svc.Process(context.Background(), []screening.TransactionRecord{{
		ID:           "T7",
		PayerName:    "Harbor Logistics",
		ReceiverName: "J. Smith",
		Remarks:      "urgent transfer, split to avoid reporting",
	}})
	s.Require().NoError(err)
	s.Require().Len(verdicts, 1)
	s.Empty(verdicts[0].EvidenceSources)
	s.NotNil(verdicts[0].EvidenceSources)
	s.InDelta(0.45, verdicts[0].RiskScore, 1e-9, "score comes from the generator only")
	s.Equal([2]string{"Corporation", "Individual"}, verdicts[0].EntityTypes)
	s.Contains(verdicts[0].Rationale, "Remarks")
}

func (s *ServiceSuite) TestFreeTextSynthesisFailsBatch() {
	svc := s.newService(&fakeRegistry{}, &fakeMedia{})
	s.generator.EXPECT().
		Generate(gomock.Any(), gomock.Any()).
		Return("I am unable to assess these transactions right now.", nil)

	verdicts, err := svc.Process(context.Background(), []screening.TransactionRecord{
		{ID: "T1", PayerName: "A", ReceiverName: "B"},
		{ID: "T2", PayerName: "C", ReceiverName: "D"},
	})
	s.Require().ErrorIs(err, screening.ErrBatchFailed)
	s.ErrorIs(err, screening.ErrUnparseableResponse)
	s.Nil(verdicts)
	s.Equal(float64(1), s.batches("failed"))
}

// =============================================================================
// Batch failures
// =============================================================================

func (s *ServiceSuite) TestVerdictCountMismatchFailsBatch() {
	svc := s.newService(&fakeRegistry{}, &fakeMedia{})
	s.generator.EXPECT().
		Generate(gomock.Any(), gomock.Any()).
		Return(`[{"transaction_id":"T1","risk_score":0.1}]`, nil)

	_, err := svc.Process(context.Background(), []screening.TransactionRecord{
		{ID: "T1", PayerName: "A", ReceiverName: "B"},
		{ID: "T2", PayerName: "C", ReceiverName: "D"},
	})
	s.Require().ErrorIs(err, screening.ErrBatchFailed)
	s.ErrorIs(err, screening.ErrVerdictCountMismatch)
}

func (s *ServiceSuite) TestGeneratorErrorFailsBatch() {
	svc := s.newService(&fakeRegistry{}, &fakeMedia{})
	upstream := providers.NewProviderError(providers.ErrorRateLimited, "Gemini", "unexpected status 429", nil)
	s.generator.EXPECT().Generate(gomock.Any(), gomock.Any()).Return("", upstream)

	_, err := svc.Process(context.Background(), []screening.TransactionRecord{{ID: "T1", PayerName: "A", ReceiverName: "B"}})
	s.Require().ErrorIs(err, screening.ErrBatchFailed)
	s.Equal(providers.ErrorRateLimited, providers.GetCategory(err))
}

func (s *ServiceSuite) TestCancelledBatchReturnsNoVerdicts() {
	svc := s.newService(&fakeRegistry{}, &fakeMedia{})
	ctx, cancel := context.WithCancel(context.Background())
	s.generator.EXPECT().
		Generate(gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, string) (string, error) {
			cancel()
			return `[{"transaction_id":"T1"}]`, nil
		})

	verdicts, err := svc.Process(ctx, []screening.TransactionRecord{{ID: "T1", PayerName: "A", ReceiverName: "B"}})
	s.Require().ErrorIs(err, screening.ErrBatchFailed)
	s.ErrorIs(err, context.Canceled)
	s.Nil(verdicts)
}

// =============================================================================
// Input validation
// =============================================================================

func (s *ServiceSuite) TestInvalidInputNeverReachesPipeline() {
	svc := s.newService(&fakeRegistry{}, &fakeMedia{})
	cases := map[string][]screening.TransactionRecord{
		"empty batch":  nil,
		"missing id":   {{PayerName: "A"}},
		"duplicate id": {{ID: "T1"}, {ID: "T1"}},
		"too many":     {{ID: "1"}, {ID: "2"}, {ID: "3"}, {ID: "4"}},
	}
	for name, rows := range cases {
		s.Run(name, func() {
			_, err := svc.Process(context.Background(), rows)
			s.ErrorIs(err, screening.ErrInvalidInput)
		})
	}
}

func (s *ServiceSuite) TestBatchIDIsAssigned() {
	svc := s.newService(&fakeRegistry{}, &fakeMedia{})
	s.generator.EXPECT().Generate(gomock.Any(), gomock.Any()).Return(`[{"risk_score":0}]`, nil)

	result, err := svc.ProcessBatch(context.Background(), []screening.TransactionRecord{{ID: "T1", PayerName: "A", ReceiverName: "B"}})
	s.Require().NoError(err)
	s.NotEmpty(result.BatchID)
	s.Equal("T1", result.Verdicts[0].TransactionID)
}

// =============================================================================
// Synthesizer contract
// =============================================================================

func TestSynthesizeEmptyBatchSkipsGenerator(t *testing.T) {
	ctrl := gomock.NewController(t)
	generator := mocks.NewMockTextGenerator(ctrl)

	verdicts, err := screening.NewSynthesizer(generator).Synthesize(context.Background(), nil)
	require.NoError(t, err)
	assert.NotNil(t, verdicts)
	assert.Empty(t, verdicts)
}

func TestSynthesizeKeepsBundleOrderAndSources(t *testing.T) {
	ctrl := gomock.NewController(t)
	generator := mocks.NewMockTextGenerator(ctrl)
	generator.EXPECT().Generate(gomock.Any(), gomock.Any()).Return(
		"```json\n[{\"transaction_id\":\"B\",\"risk_score\":\"80\",\"confidence_score\":95,\"supporting_evidence\":[\"made up\"]},"+
			"{\"transaction_id\":\"A\",\"risk_score\":0.1,\"entity_type\":[\"NGO\"]}]\n```", nil)

	bundles := []screening.EvidenceBundle{
		{
			Transaction:     screening.TransactionRecord{ID: "B", PayerName: "p1", ReceiverName: "r1"},
			Payer:           screening.EntityEvidence{Name: "p1", RegistryType: "Limited Partnership"},
			EvidenceSources: []string{"EU"},
			EvidenceScore:   0.5,
		},
		{
			Transaction:   screening.TransactionRecord{ID: "A", PayerName: "p2", ReceiverName: "r2"},
			EvidenceScore: 0.25,
		},
	}

	verdicts, err := screening.NewSynthesizer(generator, screening.WithSynthesizerLogger(logger.Discard())).
		Synthesize(context.Background(), bundles)
	require.NoError(t, err)
	require.Len(t, verdicts, 2)

	assert.Equal(t, "B", verdicts[0].TransactionID)
	assert.InDelta(t, 0.8, verdicts[0].RiskScore, 1e-9)
	assert.InDelta(t, 0.95, verdicts[0].ConfidenceScore, 1e-9)
	assert.Equal(t, []string{"EU"}, verdicts[0].EvidenceSources)
	assert.Equal(t, "Limited Partnership", verdicts[0].EntityTypes[0])

	assert.Equal(t, "A", verdicts[1].TransactionID)
	assert.InDelta(t, 0.25, verdicts[1].RiskScore, 1e-9, "evidence floor wins")
	assert.Equal(t, [2]string{"NGO", screening.UnknownEntityType}, verdicts[1].EntityTypes)
	assert.NotNil(t, verdicts[1].EvidenceSources)
}

func TestSynthesizeTimeoutFailsBatch(t *testing.T) {
	ctrl := gomock.NewController(t)
	generator := mocks.NewMockTextGenerator(ctrl)
	generator.EXPECT().Generate(gomock.Any(), gomock.Any()).DoAndReturn(func(ctx context.Context, _ string) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	})

	_, err := screening.NewSynthesizer(generator,
		screening.WithSynthesizerLogger(logger.Discard()),
		screening.WithSynthesisTimeout(10*time.Millisecond),
	).Synthesize(context.Background(), []screening.EvidenceBundle{{Transaction: screening.TransactionRecord{ID: "T1"}}})

	require.ErrorIs(t, err, screening.ErrBatchFailed)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}
