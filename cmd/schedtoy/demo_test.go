package main

import (
	"bytes"
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	wq "github.com/Andrej220/go-utils/workqueue"
	lg "github.com/Andrej220/go-utils/zlog"
)

func testConfig() config {
	c := defaultConfig()
	c.Work = 0
	return c
}

func execOrders(outcomes []outcome) []int64 {
	var out []int64
	for _, o := range outcomes {
		if o.ExecOrder > 0 {
			out = append(out, o.ExecOrder)
		}
	}
	slices.Sort(out)
	return out
}

func TestQueueDemoRunsEverything(t *testing.T) {
	cfg := testConfig()
	cfg.Producers, cfg.StopAfter = 6, 6

	outcomes, err := runQueueDemo(context.Background(), cfg)
	require.NoError(t, err)
	require.Len(t, outcomes, 6)
	for _, o := range outcomes {
		require.NoError(t, o.Err)
		require.Equal(t, []string{"p0", "p1", "p2"}[o.Producer%3], o.Class)
	}
	require.Equal(t, []int64{1, 2, 3, 4, 5, 6}, execOrders(outcomes))
}

func TestQueueDemoStopsEarly(t *testing.T) {
	cfg := testConfig()
	cfg.Producers, cfg.StopAfter, cfg.Work = 8, 1, 20*time.Millisecond

	outcomes, err := runQueueDemo(context.Background(), cfg)
	require.NoError(t, err)

	var ran int
	for _, o := range outcomes {
		switch {
		case o.Err == nil:
			ran++
			require.Positive(t, o.ExecOrder)
		case errors.Is(o.Err, wq.ErrCancelled), errors.Is(o.Err, wq.ErrRejected):
			require.Zero(t, o.ExecOrder)
		default:
			t.Fatalf("unexpected error: %v", o.Err)
		}
	}
	require.GreaterOrEqual(t, ran, 1)
	require.Less(t, ran, len(outcomes))
}

func TestLanesDemo(t *testing.T) {
	cfg := testConfig()
	cfg.Producers, cfg.StopAfter = 6, 6

	outcomes, err := runLanesDemo(context.Background(), cfg)
	require.NoError(t, err)
	for _, o := range outcomes {
		require.NoError(t, o.Err)
		want := wq.NormalLane.String()
		if o.Producer%3 == 0 {
			want = wq.HighLane.String()
		}
		require.Equal(t, want, o.Class)
	}
	require.Len(t, execOrders(outcomes), 6)

	cfg.Ambient = true
	outcomes, err = runLanesDemo(context.Background(), cfg)
	require.NoError(t, err)
	for _, o := range outcomes {
		require.Equal(t, wq.NormalLane.String(), o.Class)
	}
}

func TestLockOrder(t *testing.T) {
	for _, lk := range lockKinds() {
		t.Run(lk.name, func(t *testing.T) {
			results, err := runLockOrder(context.Background(), lk, 10)
			require.NoError(t, err)

			var arrive, acquire []int64
			for _, r := range results {
				arrive = append(arrive, r.Arrive)
				acquire = append(acquire, r.Acquire)
			}
			slices.Sort(arrive)
			slices.Sort(acquire)
			want := []int64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
			require.Equal(t, want, arrive)
			require.Equal(t, want, acquire)
		})
	}
}

func TestPrintOutcomes(t *testing.T) {
	color.NoColor = true

	var buf bytes.Buffer
	printOutcomes(&buf, "demo", []outcome{
		{Producer: 0, Class: "p0", Err: wq.ErrCancelled},
		{Producer: 1, Class: "p1", ExecOrder: 2},
		{Producer: 2, Class: "p2", ExecOrder: 1},
	})

	out := buf.String()
	require.Contains(t, out, "ran 2, not run 1")
	require.Contains(t, out, "cancelled")
	require.Less(t, bytes.Index(buf.Bytes(), []byte("p2")), bytes.Index(buf.Bytes(), []byte("p1")))
	require.Less(t, bytes.Index(buf.Bytes(), []byte("p1")), bytes.Index(buf.Bytes(), []byte("p0")))
}

func TestRootCommandQueue(t *testing.T) {
	color.NoColor = true

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"queue", "--producers=4", "--stop-after=4", "--work=0s", "--log-level=error"})

	require.NoError(t, cmd.ExecuteContext(context.Background()))
	require.Contains(t, out.String(), "ran 4, not run 0")

	queueCmd, _, err := cmd.Find([]string{"queue"})
	require.NoError(t, err)
	zl, ok := lg.FromContext(queueCmd.Context()).(zlogger)
	require.True(t, ok, "scheduler context carries the configured logger")
	require.False(t, zl.l.Core().Enabled(zapcore.InfoLevel))
	require.True(t, zl.l.Core().Enabled(zapcore.ErrorLevel))
}
