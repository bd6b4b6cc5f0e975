package scheduler_test

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/rtcdeps/internal/core/domain"
	"go.trai.ch/rtcdeps/internal/core/ports"
	"go.trai.ch/rtcdeps/internal/core/ports/mocks"
	"go.trai.ch/rtcdeps/internal/engine/scheduler"
	"go.uber.org/mock/gomock"
)

type recordingTracer struct {
	mu    sync.Mutex
	plan  []string
	spans []*recordingSpan
}

func (t *recordingTracer) Start(ctx context.Context, name string, _ ...ports.SpanOption) (context.Context, ports.Span) {
	t.mu.Lock()
	defer t.mu.Unlock()
	s := &recordingSpan{name: name}
	t.spans = append(t.spans, s)
	return ctx, s
}

func (t *recordingTracer) EmitPlan(_ context.Context, taskNames []string, _ map[string][]string, _ []string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.plan = taskNames
}

type recordingSpan struct {
	name  string
	ended bool
	err   error
	out   []byte
}

func (s *recordingSpan) End() { s.ended = true }

func (s *recordingSpan) RecordError(err error) { s.err = err }

func (s *recordingSpan) SetAttribute(string, any) {}

func (s *recordingSpan) Write(p []byte) (int, error) {
	s.out = append(s.out, p...)
	return len(p), nil
}

const (
	tlsLibSSL    = "/b/openssl/libssl.a"
	tlsLibCrypto = "/b/openssl/libcrypto.a"
)

type fixture struct {
	verifier *mocks.MockVerifier
	store    *mocks.MockRecordStore
	logger   *mocks.MockLogger
	tracer   *recordingTracer
	sched    *scheduler.Scheduler
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	f := &fixture{
		verifier: mocks.NewMockVerifier(ctrl),
		store:    mocks.NewMockRecordStore(ctrl),
		logger:   mocks.NewMockLogger(ctrl),
		tracer:   &recordingTracer{},
	}
	f.sched = scheduler.NewScheduler(f.verifier, f.store, f.tracer, f.logger)
	f.sched.SetClock(func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) })
	return f
}

// twoNodeGraph mirrors the production graph: transport consumes the TLS archives.
func twoNodeGraph(t *testing.T, tlsRun, transportRun domain.Action) *domain.Graph {
	t.Helper()
	g := domain.NewGraph()
	require.NoError(t, g.AddTask(&domain.BuildTask{
		Name:  "openssl",
		Steps: []domain.Step{domain.MkdirStep("/b/openssl")},
		Emit: func(domain.BuildTarget) []string {
			return []string{tlsLibSSL, tlsLibCrypto}
		},
		Run: tlsRun,
	}))
	require.NoError(t, g.AddTask(&domain.BuildTask{
		Name:         "libdatachannel",
		Steps:        []domain.Step{domain.MkdirStep("/b/libdatachannel")},
		Inputs:       []string{tlsLibSSL, tlsLibCrypto},
		Dependencies: []string{"openssl"},
		Run:          transportRun,
	}))
	return g
}

func TestScheduler_Run_TransportWaitsForTLS(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFixture(t)

		var order []string
		var mu sync.Mutex
		tlsDone := false
		record := func(name string) domain.Action {
			return func(ctx context.Context, stdout, _ io.Writer) error {
				mu.Lock()
				defer mu.Unlock()
				if name == "libdatachannel" {
					assert.True(t, tlsDone, "transport started before TLS finished")
				}
				time.Sleep(10 * time.Millisecond)
				_, _ = io.WriteString(stdout, name+" ok\n")
				if name == "openssl" {
					tlsDone = true
				}
				order = append(order, name)
				return nil
			}
		}

		g := twoNodeGraph(t, record("openssl"), record("libdatachannel"))

		f.verifier.EXPECT().VerifyArtifacts([]string{tlsLibSSL, tlsLibCrypto}).Return(nil, nil)
		f.store.EXPECT().Put("/work", gomock.Any()).DoAndReturn(func(_ string, r domain.BuildRecord) error {
			assert.Equal(t, "openssl", r.Task)
			assert.Equal(t, []string{tlsLibSSL, tlsLibCrypto}, r.Artifacts)
			assert.NotEmpty(t, r.Fingerprint)
			return nil
		})
		f.store.EXPECT().Put("/work", gomock.Any()).Return(nil)

		require.NoError(t, f.sched.Run(context.Background(), g, []string{"libdatachannel"}, "/work"))

		assert.Equal(t, []string{"openssl", "libdatachannel"}, order)
		assert.Equal(t, []string{"openssl", "libdatachannel"}, f.tracer.plan)
		require.Len(t, f.tracer.spans, 2)
		for _, s := range f.tracer.spans {
			assert.True(t, s.ended, s.name)
			assert.NoError(t, s.err)
			assert.Equal(t, s.name+" ok\n", string(s.out))
		}

		statuses := f.sched.GetTaskStatusMap()
		assert.Equal(t, scheduler.StatusCompleted, statuses["openssl"])
		assert.Equal(t, scheduler.StatusCompleted, statuses["libdatachannel"])
	})
}

func TestScheduler_Run_TLSFailureSkipsTransport(t *testing.T) {
	f := newFixture(t)
	boom := errors.New("exit status 2")

	transportRan := false
	g := twoNodeGraph(t,
		func(context.Context, io.Writer, io.Writer) error { return boom },
		func(context.Context, io.Writer, io.Writer) error { transportRan = true; return nil },
	)

	err := f.sched.Run(context.Background(), g, nil, "/work")
	require.Error(t, err)
	require.ErrorIs(t, err, boom)
	require.ErrorIs(t, err, domain.ErrDependencyFailed)
	assert.False(t, transportRan)

	statuses := f.sched.GetTaskStatusMap()
	assert.Equal(t, scheduler.StatusFailed, statuses["openssl"])
	assert.Equal(t, scheduler.StatusSkipped, statuses["libdatachannel"])

	require.Len(t, f.tracer.spans, 1)
	assert.ErrorIs(t, f.tracer.spans[0].err, boom)
}

func TestScheduler_Run_MissingInputs(t *testing.T) {
	f := newFixture(t)

	transportRan := false
	g := twoNodeGraph(t,
		func(context.Context, io.Writer, io.Writer) error { return nil },
		func(context.Context, io.Writer, io.Writer) error { transportRan = true; return nil },
	)

	f.store.EXPECT().Put("/work", gomock.Any()).Return(nil)
	f.verifier.EXPECT().VerifyArtifacts(gomock.Any()).Return([]string{tlsLibCrypto}, nil)

	err := f.sched.Run(context.Background(), g, []string{scheduler.AllTargets}, "/work")
	require.ErrorIs(t, err, domain.ErrMissingInputs)
	require.ErrorIs(t, err, domain.ErrTaskExecutionFailed)
	assert.False(t, transportRan)
	assert.Equal(t, scheduler.StatusFailed, f.sched.Status("libdatachannel"))
}

func TestScheduler_Run_StoreErrorIsLogged(t *testing.T) {
	f := newFixture(t)
	g := twoNodeGraph(t,
		func(context.Context, io.Writer, io.Writer) error { return nil },
		func(context.Context, io.Writer, io.Writer) error { return nil },
	)

	f.verifier.EXPECT().VerifyArtifacts(gomock.Any()).Return(nil, nil)
	f.store.EXPECT().Put(gomock.Any(), gomock.Any()).Return(domain.ErrStoreWriteFailed).Times(2)
	f.logger.EXPECT().Warn(gomock.Any()).Times(2)

	require.NoError(t, f.sched.Run(context.Background(), g, nil, "/work"))
}

func TestScheduler_Run_OnlyTLS(t *testing.T) {
	f := newFixture(t)
	g := twoNodeGraph(t,
		func(context.Context, io.Writer, io.Writer) error { return nil },
		func(context.Context, io.Writer, io.Writer) error {
			t.Fatal("transport must not run")
			return nil
		},
	)
	f.store.EXPECT().Put("/work", gomock.Any()).Return(nil)

	require.NoError(t, f.sched.Run(context.Background(), g, []string{"openssl"}, "/work"))
	assert.Equal(t, []string{"openssl"}, f.tracer.plan)
}

func TestScheduler_Run_UnknownTarget(t *testing.T) {
	f := newFixture(t)
	g := twoNodeGraph(t, nil, nil)

	err := f.sched.Run(context.Background(), g, []string{"zlib"}, "/work")
	require.ErrorIs(t, err, domain.ErrTaskNotFound)
	assert.Nil(t, f.tracer.plan)
}

func TestScheduler_Run_Cancelled(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())

	g := twoNodeGraph(t,
		func(context.Context, io.Writer, io.Writer) error { cancel(); return nil },
		func(context.Context, io.Writer, io.Writer) error {
			t.Fatal("transport must not run after cancellation")
			return nil
		},
	)
	f.store.EXPECT().Put("/work", gomock.Any()).Return(nil)

	err := f.sched.Run(ctx, g, nil, "/work")
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, scheduler.StatusPending, f.sched.Status("libdatachannel"))
}

func TestScheduler_WithTracer(t *testing.T) {
	f := newFixture(t)
	other := &recordingTracer{}
	g := twoNodeGraph(t, nil, nil)

	f.verifier.EXPECT().VerifyArtifacts(gomock.Any()).Return(nil, nil)
	f.store.EXPECT().Put(gomock.Any(), gomock.Any()).Return(nil).Times(2)

	require.NoError(t, f.sched.WithTracer(other).Run(context.Background(), g, nil, "/work"))
	assert.Len(t, other.spans, 2)
	assert.Empty(t, f.tracer.spans)
}
