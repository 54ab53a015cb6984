package navigator

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/tungetti/wizardnav/internal/constants"
	"github.com/tungetti/wizardnav/internal/errors"
	testutil "github.com/tungetti/wizardnav/internal/testing"
	"github.com/tungetti/wizardnav/internal/wizard"
)

const (
	stepA = testutil.StepA
	stepB = testutil.StepB
	stepC = testutil.StepC
	stepD = testutil.StepD
)

// withCallbacks registers rec on every step of b.
func withCallbacks(b *wizard.Builder, rec *testutil.CallbackRecorder, steps ...wizard.Step) *wizard.Graph {
	for _, s := range steps {
		b.OnEnter(s, rec.Callback())
	}
	return b.MustBuild()
}

func newNavigator(t *testing.T, g *wizard.Graph, start wizard.Step, tr Transitioner, opts ...Option) *Navigator {
	t.Helper()
	n, err := New(g, start, tr, opts...)
	require.NoError(t, err)
	return n
}

// awaitingTransitioner records the steps the navigator waited for.
type awaitingTransitioner struct {
	*testutil.MockTransitioner
	awaited []wizard.Step
}

func (a *awaitingTransitioner) AwaitStep(ctx context.Context, expected wizard.Step) (wizard.Step, error) {
	a.awaited = append(a.awaited, expected)
	return a.ObserveCurrent(ctx)
}

func TestNew(t *testing.T) {
	g := testutil.LinearGraph().MustBuild()
	mock := testutil.NewMockTransitioner(stepA)

	t.Run("defaults to first step", func(t *testing.T) {
		n, err := New(g, wizard.NoStep, mock)
		require.NoError(t, err)
		assert.Equal(t, stepA, n.Current())
		assert.Same(t, g, n.Graph())
	})

	t.Run("explicit start", func(t *testing.T) {
		n, err := New(g, stepC, mock)
		require.NoError(t, err)
		assert.Equal(t, stepC, n.Current())
	})

	t.Run("rejects missing collaborators", func(t *testing.T) {
		_, err := New(nil, stepA, mock)
		testutil.AssertErrorCode(t, err, errors.Validation)
		_, err = New(g, stepA, nil)
		testutil.AssertErrorCode(t, err, errors.Validation)
	})

	t.Run("rejects unknown start", func(t *testing.T) {
		_, err := New(g, "nowhere", mock)
		testutil.AssertErrorCode(t, err, errors.UnknownStep)
	})
}

func TestNavigator_Next(t *testing.T) {
	ctx := testutil.TestContext(t)

	t.Run("lands on every default successor", func(t *testing.T) {
		g := testutil.LinearGraph().MustBuild()
		for _, from := range []wizard.Step{stepA, stepB, stepC} {
			want, err := g.DefaultNext(from)
			require.NoError(t, err)

			mock := testutil.NewMockTransitioner(from).QueueForward(want)
			n := newNavigator(t, g, from, mock)

			got, err := n.Next(ctx)
			require.NoError(t, err)
			assert.Equal(t, want, got)
			assert.Equal(t, want, n.Current())
		}
	})

	t.Run("skips hidden successor", func(t *testing.T) {
		rec := testutil.NewCallbackRecorder()
		g := withCallbacks(testutil.LinearGraph(stepB), rec, stepB, stepC)
		mock := testutil.NewMockTransitioner(stepA).QueueForward(stepC)
		n := newNavigator(t, g, stepA, mock)

		got, err := n.Next(ctx)
		require.NoError(t, err)
		assert.Equal(t, stepC, got)
		assert.Equal(t, []wizard.Step{stepC}, rec.Entered())
	})

	t.Run("runs setup callback after arrival", func(t *testing.T) {
		rec := testutil.NewCallbackRecorder()
		g := withCallbacks(testutil.LinearGraph(), rec, stepB)
		mock := testutil.NewMockTransitioner(stepA).QueueForward(stepB)
		n := newNavigator(t, g, stepA, mock)

		_, err := n.Next(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, rec.Count(stepB))
	})

	t.Run("mismatch reports expected and observed", func(t *testing.T) {
		rec := testutil.NewCallbackRecorder()
		g := withCallbacks(testutil.LinearGraph(), rec, stepB)
		mock := testutil.NewMockTransitioner(stepA).QueueForward(stepC)
		n := newNavigator(t, g, stepA, mock)

		got, err := n.Next(ctx)
		require.Error(t, err)
		assert.Equal(t, stepA, got)
		assert.Equal(t, stepA, n.Current())
		assert.Zero(t, rec.Count(stepB))

		assert.ErrorIs(t, err, errors.ErrNavigation)
		var navErr *NavigationError
		require.ErrorAs(t, err, &navErr)
		assert.Equal(t, "next", navErr.Op)
		assert.Equal(t, stepB, navErr.Expected)
		assert.Equal(t, stepC, navErr.Observed)
		assert.Equal(t, stepA, navErr.LastReached)
		testutil.AssertNavigationError(t, err, "b", "c")
	})

	t.Run("expect failure leaves state unchanged", func(t *testing.T) {
		rec := testutil.NewCallbackRecorder()
		g := withCallbacks(testutil.LinearGraph(), rec, stepB)
		mock := testutil.NewMockTransitioner(stepA)
		n := newNavigator(t, g, stepA, mock)

		got, err := n.Next(ctx, ExpectFailure())
		require.NoError(t, err)
		assert.Equal(t, stepA, got)
		assert.Equal(t, stepA, n.Current())
		assert.Equal(t, 1, mock.CallCount(testutil.CallForward))
		assert.Empty(t, rec.Entered())
	})

	t.Run("expect failure but wizard moved", func(t *testing.T) {
		g := testutil.LinearGraph().MustBuild()
		mock := testutil.NewMockTransitioner(stepA).QueueForward(stepB)
		n := newNavigator(t, g, stepA, mock)

		_, err := n.Next(ctx, ExpectFailure())
		testutil.AssertNavigationError(t, err, "a", "b")
		assert.Equal(t, stepA, n.Current())
	})

	t.Run("explicit expected step", func(t *testing.T) {
		g := testutil.BranchGraph().MustBuild()
		mock := testutil.NewMockTransitioner(stepA).QueueForward(stepC)
		n := newNavigator(t, g, stepA, mock)

		got, err := n.Next(ctx, ExpectStep(stepC))
		require.NoError(t, err)
		assert.Equal(t, stepC, got)

		_, err = n.Next(ctx, ExpectStep("nowhere"))
		testutil.AssertErrorCode(t, err, errors.UnknownStep)
	})

	t.Run("terminal step is a dead end", func(t *testing.T) {
		g := testutil.LinearGraph().MustBuild()
		mock := testutil.NewMockTransitioner(stepD)
		n := newNavigator(t, g, stepD, mock)

		_, err := n.Next(ctx)
		testutil.AssertErrorCode(t, err, errors.DeadEnd)
		assert.Zero(t, mock.CallCount(testutil.CallForward))
	})

	t.Run("transitioner failure", func(t *testing.T) {
		g := testutil.LinearGraph().MustBuild()
		boom := stderrors.New("click intercepted")
		mock := testutil.NewMockTransitioner(stepA).FailOn(testutil.CallForward, boom)
		n := newNavigator(t, g, stepA, mock)

		_, err := n.Next(ctx)
		testutil.AssertErrorCode(t, err, errors.Browser)
		assert.ErrorIs(t, err, boom)
		assert.Equal(t, stepA, n.Current())
	})

	t.Run("observe failure keeps its code", func(t *testing.T) {
		g := testutil.LinearGraph().MustBuild()
		mock := testutil.NewMockTransitioner(stepA).QueueForward(stepB).
			FailOn(testutil.CallObserve, errors.ErrTimeout)
		n := newNavigator(t, g, stepA, mock)

		_, err := n.Next(ctx)
		testutil.AssertErrorCode(t, err, errors.Timeout)
	})

	t.Run("setup failure", func(t *testing.T) {
		rec := testutil.NewCallbackRecorder()
		rec.FailOn(stepB, stderrors.New("form rejected"))
		g := withCallbacks(testutil.LinearGraph(), rec, stepB)
		mock := testutil.NewMockTransitioner(stepA).QueueForward(stepB)
		n := newNavigator(t, g, stepA, mock)

		got, err := n.Next(ctx)
		testutil.AssertErrorCode(t, err, errors.StepSetup)
		testutil.AssertErrorContains(t, err, "setup of b failed")
		assert.Equal(t, stepB, got)
		assert.Equal(t, stepB, n.Current())
	})

	t.Run("uses awaiter when available", func(t *testing.T) {
		g := testutil.LinearGraph().MustBuild()
		tr := &awaitingTransitioner{MockTransitioner: testutil.NewMockTransitioner(stepA).QueueForward(stepB)}
		n := newNavigator(t, g, stepA, tr)

		_, err := n.Next(ctx)
		require.NoError(t, err)
		assert.Equal(t, []wizard.Step{stepB}, tr.awaited)
	})
}

func TestNavigator_Back(t *testing.T) {
	ctx := testutil.TestContext(t)

	t.Run("restores step after next", func(t *testing.T) {
		g := testutil.LinearGraph().MustBuild()
		for _, from := range []wizard.Step{stepA, stepB, stepC} {
			next, err := g.DefaultNext(from)
			require.NoError(t, err)
			mock := testutil.NewMockTransitioner(from).QueueForward(next).QueueBackward(from)
			n := newNavigator(t, g, from, mock)

			_, err = n.Next(ctx)
			require.NoError(t, err)
			got, err := n.Back(ctx)
			require.NoError(t, err)
			assert.Equal(t, from, got)
			assert.Equal(t, from, n.Current())
		}
	})

	t.Run("does not run callbacks", func(t *testing.T) {
		rec := testutil.NewCallbackRecorder()
		g := withCallbacks(testutil.LinearGraph(), rec, stepA, stepB)
		mock := testutil.NewMockTransitioner(stepB).QueueBackward(stepA)
		n := newNavigator(t, g, stepB, mock)

		_, err := n.Back(ctx)
		require.NoError(t, err)
		assert.Empty(t, rec.Entered())
	})

	t.Run("skips hidden predecessor", func(t *testing.T) {
		g := testutil.LinearGraph(stepB).MustBuild()
		mock := testutil.NewMockTransitioner(stepC).QueueBackward(stepA)
		n := newNavigator(t, g, stepC, mock)

		got, err := n.Back(ctx)
		require.NoError(t, err)
		assert.Equal(t, stepA, got)
	})

	t.Run("first step has no predecessor", func(t *testing.T) {
		g := testutil.LinearGraph().MustBuild()
		mock := testutil.NewMockTransitioner(stepA)
		n := newNavigator(t, g, stepA, mock)

		_, err := n.Back(ctx)
		testutil.AssertErrorCode(t, err, errors.NoPredecessor)
		assert.Zero(t, mock.CallCount(testutil.CallBackward))
	})

	t.Run("explicit previous", func(t *testing.T) {
		g := testutil.LinearGraph().MustBuild()
		mock := testutil.NewMockTransitioner(stepD).QueueBackward(stepB)
		n := newNavigator(t, g, stepD, mock)

		got, err := n.Back(ctx, ExplicitPrevious(stepB))
		require.NoError(t, err)
		assert.Equal(t, stepB, got)

		_, err = n.Back(ctx, ExplicitPrevious("nowhere"))
		testutil.AssertErrorCode(t, err, errors.UnknownStep)
	})

	t.Run("expect failure", func(t *testing.T) {
		g := testutil.LinearGraph().MustBuild()
		mock := testutil.NewMockTransitioner(stepA)
		n := newNavigator(t, g, stepA, mock)

		got, err := n.Back(ctx, ExpectFailure())
		require.NoError(t, err)
		assert.Equal(t, stepA, got)
		assert.Equal(t, stepA, n.Current())
	})

	t.Run("mismatch", func(t *testing.T) {
		g := testutil.LinearGraph().MustBuild()
		mock := testutil.NewMockTransitioner(stepC).QueueBackward(stepA)
		n := newNavigator(t, g, stepC, mock)

		_, err := n.Back(ctx)
		testutil.AssertNavigationError(t, err, "b", "a")
		assert.Equal(t, stepC, n.Current())
	})
}

func TestNavigator_Reach(t *testing.T) {
	ctx := testutil.TestContext(t)

	t.Run("current step is a no-op", func(t *testing.T) {
		g := testutil.LinearGraph().MustBuild()
		mock := testutil.NewMockTransitioner(stepB)
		n := newNavigator(t, g, stepB, mock)

		require.NoError(t, n.Reach(ctx, stepB))
		assert.Equal(t, stepB, n.Current())
		assert.Empty(t, mock.Calls())
		assert.Empty(t, n.Journal())
	})

	t.Run("linear graph takes one hop per step", func(t *testing.T) {
		rec := testutil.NewCallbackRecorder()
		g := withCallbacks(testutil.LinearGraph(), rec, stepB, stepC, stepD)
		mock := testutil.NewMockTransitioner(stepA).QueueForward(stepB, stepC, stepD)
		n := newNavigator(t, g, stepA, mock)

		require.NoError(t, n.Reach(ctx, stepD))
		assert.Equal(t, stepD, n.Current())
		assert.Equal(t, 3, mock.CallCount(testutil.CallForward))
		assert.Equal(t, []wizard.Step{stepB, stepC, stepD}, mock.Visited())
		assert.Equal(t, []wizard.Step{stepB, stepC, stepD}, rec.Entered())
	})

	t.Run("hidden step only runs its callback", func(t *testing.T) {
		rec := testutil.NewCallbackRecorder()
		g := withCallbacks(wizard.NewBuilder().
			Step(stepA, stepB).
			Step(stepB, stepC).
			Step(stepC).
			Hide(stepB), rec, stepB)
		mock := testutil.NewMockTransitioner(stepA).QueueForward(stepC)
		n := newNavigator(t, g, stepA, mock)

		require.NoError(t, n.Reach(ctx, stepC))
		assert.Equal(t, stepC, n.Current())
		assert.Equal(t, 1, rec.Count(stepB))
		assert.Equal(t, 1, mock.CallCount(testutil.CallForward))

		journal := n.Journal()
		require.Len(t, journal, 2)
		assert.Equal(t, HopPassThrough, journal[0].Kind)
		assert.Equal(t, stepB, journal[0].To)
		assert.Equal(t, HopForward, journal[1].Kind)
		assert.Equal(t, stepC, journal[1].To)
		for _, hop := range journal {
			assert.NotEqual(t, stepB, hop.Observed)
		}
	})

	t.Run("branch target takes one hop", func(t *testing.T) {
		g := testutil.BranchGraph().MustBuild()
		mock := testutil.NewMockTransitioner(stepA).QueueForward(stepC)
		n := newNavigator(t, g, stepA, mock)

		require.NoError(t, n.Reach(ctx, stepC))
		assert.Equal(t, stepC, n.Current())
		assert.Len(t, n.Journal(), 1)
	})

	t.Run("disconnected target is unreachable", func(t *testing.T) {
		g := testutil.DisconnectedGraph().MustBuild()
		mock := testutil.NewMockTransitioner(stepA)
		n := newNavigator(t, g, stepA, mock)

		err := n.Reach(ctx, stepD)
		testutil.AssertErrorCode(t, err, errors.UnreachableStep)
		assert.ErrorIs(t, err, errors.ErrUnreachableStep)
		assert.Equal(t, stepA, n.Current())
		assert.Empty(t, mock.Calls())
	})

	t.Run("rejects unknown and hidden targets", func(t *testing.T) {
		g := testutil.LinearGraph(stepC).MustBuild()
		mock := testutil.NewMockTransitioner(stepA)
		n := newNavigator(t, g, stepA, mock)

		testutil.AssertErrorCode(t, n.Reach(ctx, "nowhere"), errors.UnknownStep)
		testutil.AssertErrorCode(t, n.Reach(ctx, stepC), errors.UnreachableStep)
		assert.Empty(t, mock.Calls())
	})

	t.Run("aborts at last good step", func(t *testing.T) {
		g := testutil.LinearGraph().MustBuild()
		mock := testutil.NewMockTransitioner(stepA).QueueForward(stepB)
		n := newNavigator(t, g, stepA, mock)

		err := n.Reach(ctx, stepD)
		var navErr *NavigationError
		require.ErrorAs(t, err, &navErr)
		assert.Equal(t, "reach", navErr.Op)
		assert.Equal(t, stepC, navErr.Expected)
		assert.Equal(t, stepB, navErr.Observed)
		assert.Equal(t, stepB, navErr.LastReached)
		assert.Equal(t, stepB, n.Current())
		assert.Equal(t, 2, mock.CallCount(testutil.CallForward))
	})

	t.Run("setup failure stops the walk", func(t *testing.T) {
		rec := testutil.NewCallbackRecorder()
		rec.FailOn(stepC, stderrors.New("no disks"))
		g := withCallbacks(testutil.LinearGraph(), rec, stepC)
		mock := testutil.NewMockTransitioner(stepA).QueueForward(stepB, stepC, stepD)
		n := newNavigator(t, g, stepA, mock)

		err := n.Reach(ctx, stepD)
		testutil.AssertErrorCode(t, err, errors.StepSetup)
		assert.Equal(t, stepC, n.Current())
		assert.Equal(t, 2, mock.CallCount(testutil.CallForward))
	})

	t.Run("logs the walk", func(t *testing.T) {
		logger := testutil.NewMockLogger()
		g := testutil.LinearGraph().MustBuild()
		mock := testutil.NewMockTransitioner(stepA).QueueForward(stepB, stepC)
		n := newNavigator(t, g, stepA, mock, WithLogger(logger))

		require.NoError(t, n.Reach(ctx, stepC))
		testutil.AssertLogContains(t, logger, "reaching step")
		testutil.AssertLogContains(t, logger, "hop done")
	})
}

func TestNavigator_ReachViaSidebar(t *testing.T) {
	ctx := testutil.TestContext(t)
	graph := func() *wizard.Graph {
		return testutil.LinearGraph().Parent(stepC, stepB).MustBuild()
	}

	t.Run("clicks parent first", func(t *testing.T) {
		rec := testutil.NewCallbackRecorder()
		b := testutil.LinearGraph().Parent(stepC, stepB)
		g := withCallbacks(b, rec, stepB, stepC)
		mock := testutil.NewMockTransitioner(stepD)
		n := newNavigator(t, g, stepD, mock)

		require.NoError(t, n.ReachViaSidebar(ctx, stepC))
		assert.Equal(t, stepC, n.Current())

		jumps := mock.CallsTo(testutil.CallSidebar)
		require.Len(t, jumps, 2)
		assert.Equal(t, stepB, jumps[0].Step)
		assert.Equal(t, stepC, jumps[1].Step)
		assert.Empty(t, rec.Entered())
	})

	t.Run("without parent", func(t *testing.T) {
		mock := testutil.NewMockTransitioner(stepD)
		n := newNavigator(t, graph(), stepD, mock)

		require.NoError(t, n.ReachViaSidebar(ctx, stepA))
		assert.Equal(t, 1, mock.CallCount(testutil.CallSidebar))
		assert.Equal(t, HopSidebar, n.Journal()[0].Kind)
	})

	t.Run("disabled entry is a navigation error", func(t *testing.T) {
		mock := testutil.NewMockTransitioner(stepA)
		mock.SetSidebarDisabled(stepD, true)
		n := newNavigator(t, graph(), stepA, mock)

		err := n.ReachViaSidebar(ctx, stepD)
		testutil.AssertNavigationError(t, err, "d", "a")
		assert.Equal(t, stepA, n.Current())
	})

	t.Run("unknown target", func(t *testing.T) {
		mock := testutil.NewMockTransitioner(stepA)
		n := newNavigator(t, graph(), stepA, mock)

		testutil.AssertErrorCode(t, n.ReachViaSidebar(ctx, "nowhere"), errors.UnknownStep)
		assert.Empty(t, mock.Calls())
	})
}

func TestNavigator_Open(t *testing.T) {
	ctx := testutil.TestContext(t)

	t.Run("requires opener", func(t *testing.T) {
		n := newNavigator(t, testutil.LinearGraph().MustBuild(), stepA, testutil.NewMockTransitioner(stepA))
		err := n.Open(ctx, stepB)
		testutil.AssertErrorCode(t, err, errors.Unsupported)
		assert.ErrorIs(t, err, errors.ErrUnsupported)
	})

	t.Run("empty step opens first", func(t *testing.T) {
		mock := testutil.NewMockControls(wizard.NoStep)
		n := newNavigator(t, testutil.LinearGraph().MustBuild(), stepC, mock)

		require.NoError(t, n.Open(ctx, wizard.NoStep))
		assert.Equal(t, stepA, n.Current())
		assert.Equal(t, HopOpen, n.Journal()[0].Kind)
	})

	t.Run("hidden step opens first visible successor", func(t *testing.T) {
		mock := testutil.NewMockControls(wizard.NoStep)
		n := newNavigator(t, testutil.LinearGraph(stepB).MustBuild(), stepA, mock)

		require.NoError(t, n.Open(ctx, stepB))
		assert.Equal(t, stepC, n.Current())
		assert.Equal(t, stepC, mock.CallsTo(testutil.CallOpen)[0].Step)
	})

	t.Run("open failure", func(t *testing.T) {
		mock := testutil.NewMockControls(stepA)
		mock.FailOn(testutil.CallOpen, stderrors.New("connection refused"))
		n := newNavigator(t, testutil.LinearGraph().MustBuild(), stepA, mock)

		testutil.AssertErrorCode(t, n.Open(ctx, stepC), errors.Browser)
		assert.Equal(t, stepA, n.Current())
	})

	t.Run("unknown step", func(t *testing.T) {
		mock := testutil.NewMockControls(stepA)
		n := newNavigator(t, testutil.LinearGraph().MustBuild(), stepA, mock)
		testutil.AssertErrorCode(t, n.Open(ctx, "nowhere"), errors.UnknownStep)
	})
}

func TestNavigator_BeginInstallation(t *testing.T) {
	ctx := testutil.TestContext(t)

	t.Run("confirms and starts", func(t *testing.T) {
		mock := testutil.NewMockControls(stepC)
		mock.QueueForward(stepD)
		n := newNavigator(t, testutil.LinearGraph().MustBuild(), stepC, mock)

		require.NoError(t, n.BeginInstallation(ctx))
		assert.Equal(t, stepD, n.Current())
		assert.Equal(t, []testutil.Confirmation{
			{Review: stepC, Tick: true, ButtonText: constants.DefaultInstallButtonText},
		}, mock.Confirmations)
	})

	t.Run("custom button without confirmation", func(t *testing.T) {
		mock := testutil.NewMockControls(stepC)
		mock.QueueForward(stepD)
		n := newNavigator(t, testutil.LinearGraph().MustBuild(), stepC, mock)

		require.NoError(t, n.BeginInstallation(ctx, ButtonText("Install"), WithoutConfirmation()))
		assert.Equal(t, []testutil.Confirmation{{Review: stepC, Tick: false, ButtonText: "Install"}}, mock.Confirmations)
	})

	t.Run("expected refusal", func(t *testing.T) {
		mock := testutil.NewMockControls(stepC)
		n := newNavigator(t, testutil.LinearGraph().MustBuild(), stepC, mock)

		require.NoError(t, n.BeginInstallation(ctx, ExpectFailure()))
		assert.Equal(t, stepC, n.Current())
	})

	t.Run("confirmation failure", func(t *testing.T) {
		mock := testutil.NewMockControls(stepC)
		mock.FailOn(testutil.CallConfirm, stderrors.New("checkbox missing"))
		n := newNavigator(t, testutil.LinearGraph().MustBuild(), stepC, mock)

		testutil.AssertErrorCode(t, n.BeginInstallation(ctx), errors.Browser)
		assert.Zero(t, mock.CallCount(testutil.CallForward))
	})

	t.Run("plain transitioner", func(t *testing.T) {
		mock := testutil.NewMockTransitioner(stepC).QueueForward(stepD)
		n := newNavigator(t, testutil.LinearGraph().MustBuild(), stepC, mock)

		testutil.AssertErrorCode(t, n.BeginInstallation(ctx), errors.Unsupported)
		require.NoError(t, n.BeginInstallation(ctx, WithoutConfirmation()))
		assert.Equal(t, stepD, n.Current())
	})
}

func TestNavigator_Checks(t *testing.T) {
	ctx := testutil.TestContext(t)
	g := testutil.LinearGraph().MustBuild()

	t.Run("require inspector", func(t *testing.T) {
		n := newNavigator(t, g, stepA, testutil.NewMockTransitioner(stepA))
		testutil.AssertErrorCode(t, n.CheckNextDisabled(ctx, true), errors.Unsupported)
		testutil.AssertErrorCode(t, n.CheckSidebarStepDisabled(ctx, stepB, true), errors.Unsupported)
	})

	t.Run("never move the navigator", func(t *testing.T) {
		mock := testutil.NewMockControls(stepB)
		mock.SetNextDisabled(true)
		mock.SetSidebarDisabled(stepC, true)
		n := newNavigator(t, g, stepB, mock)

		require.NoError(t, n.CheckNextDisabled(ctx, true))
		testutil.AssertErrorCode(t, n.CheckNextDisabled(ctx, false), errors.Timeout)
		require.NoError(t, n.CheckSidebarStepDisabled(ctx, stepC, true))
		require.NoError(t, n.CheckSidebarStepDisabled(ctx, stepD, false))
		testutil.AssertErrorCode(t, n.CheckSidebarStepDisabled(ctx, stepC, false), errors.Timeout)
		testutil.AssertErrorCode(t, n.CheckSidebarStepDisabled(ctx, "nowhere", false), errors.UnknownStep)

		assert.Equal(t, stepB, n.Current())
		assert.Empty(t, n.Journal())
	})
}

func TestNavigator_JournalAndHooks(t *testing.T) {
	ctx := testutil.TestContext(t)
	clock := testutil.NewMockTime(time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC))

	var hooked []Hop
	g := testutil.LinearGraph().MustBuild()
	mock := testutil.NewMockTransitioner(stepA).QueueForward(stepB, stepB)
	n := newNavigator(t, g, stepA, mock,
		WithClock(clock.Now),
		WithHook(func(h Hop) { hooked = append(hooked, h) }),
		WithHook(nil))

	_, err := n.Next(ctx)
	require.NoError(t, err)
	_, err = n.Next(ctx)
	require.Error(t, err)

	journal := n.Journal()
	require.Len(t, journal, 2)
	assert.Equal(t, journal, hooked)
	assert.Equal(t, clock.Now(), journal[0].Timestamp)
	assert.False(t, journal[0].Failed())
	assert.True(t, journal[1].Failed())
	assert.Equal(t, stepB, journal[1].From)
	assert.Equal(t, stepC, journal[1].To)
	assert.Equal(t, stepB, journal[1].Observed)

	journal[0].Op = "mutated"
	assert.Equal(t, "next", n.Journal()[0].Op)
}

func TestHopKind_String(t *testing.T) {
	tests := []struct {
		kind HopKind
		want string
	}{
		{HopForward, "forward"},
		{HopBackward, "backward"},
		{HopPassThrough, "pass-through"},
		{HopSidebar, "sidebar"},
		{HopOpen, "open"},
		{HopKind(99), "unknown"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.kind.String())
	}
}

func TestNavigator_Tracing(t *testing.T) {
	ctx := testutil.TestContext(t)
	recorder := tracetest.NewSpanRecorder()
	tracer := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder)).Tracer("navigator-test")

	g := testutil.LinearGraph(stepB).MustBuild()
	mock := testutil.NewMockTransitioner(stepA).QueueForward(stepC, stepD)
	n := newNavigator(t, g, stepA, mock, WithTracer(tracer))

	require.NoError(t, n.Reach(ctx, stepC))
	_, err := n.Next(ctx)
	require.NoError(t, err)

	names := map[string]sdktrace.ReadOnlySpan{}
	for _, span := range recorder.Ended() {
		names[span.Name()] = span
	}
	require.Contains(t, names, "reach")
	require.Contains(t, names, "b")
	require.Contains(t, names, "c")
	require.Contains(t, names, "next")

	root := names["reach"]
	assert.Equal(t, root.SpanContext().SpanID(), names["b"].Parent().SpanID())
	assert.Equal(t, root.SpanContext().SpanID(), names["c"].Parent().SpanID())
	assert.False(t, names["next"].Parent().IsValid())
}
