package scheduler

import (
	"context"
	"errors"
	"io"
	"testing"

	"cpghub_cleanup/internal/app"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRunner struct {
	result *app.Result
	err    error
	calls  int
}

func (s *stubRunner) Run(context.Context) (*app.Result, error) {
	s.calls++
	return s.result, s.err
}

type captureReporter struct {
	sources []string
	results []*app.Result
	errs    []error
}

func (c *captureReporter) ReportRun(source string, result *app.Result, runErr error) {
	c.sources = append(c.sources, source)
	c.results = append(c.results, result)
	c.errs = append(c.errs, runErr)
}

func quietLogger() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

func TestRunOnceReportsSuccess(t *testing.T) {
	runner := &stubRunner{result: &app.Result{Processed: 2, Deleted: 2, Errors: []string{}}}
	reporter := &captureReporter{}
	s := NewCleanupScheduler(runner, reporter, quietLogger(), "@daily")

	s.runOnce(context.Background())

	assert.Equal(t, 1, runner.calls)
	require.Len(t, reporter.results, 1)
	assert.Equal(t, "scheduled", reporter.sources[0])
	assert.Equal(t, 2, reporter.results[0].Deleted)
	assert.NoError(t, reporter.errs[0])
}

func TestRunOnceReportsFailure(t *testing.T) {
	runner := &stubRunner{err: errors.New("fetch failed")}
	reporter := &captureReporter{}
	s := NewCleanupScheduler(runner, reporter, quietLogger(), "@daily")

	s.runOnce(context.Background())

	require.Len(t, reporter.errs, 1)
	assert.EqualError(t, reporter.errs[0], "fetch failed")
	assert.Nil(t, reporter.results[0])
}

func TestRunOnceWithoutReporter(t *testing.T) {
	runner := &stubRunner{result: &app.Result{Errors: []string{}}}
	s := NewCleanupScheduler(runner, nil, quietLogger(), "@daily")

	assert.NotPanics(t, func() { s.runOnce(context.Background()) })
}

func TestStartRejectsInvalidSpec(t *testing.T) {
	s := NewCleanupScheduler(&stubRunner{}, nil, quietLogger(), "not a cron spec")
	assert.Error(t, s.Start())
}

func TestStartAndStop(t *testing.T) {
	s := NewCleanupScheduler(&stubRunner{}, nil, quietLogger(), "0 3 * * *")
	require.NoError(t, s.Start())
	s.Stop()
}
