package tickets

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shrimpsizemoose/bolao/internal/store"
	"github.com/shrimpsizemoose/bolao/internal/store/sqlite"
)

// flakyGateway fails the n-th InsertPick of a submission.
type flakyGateway struct {
	inner  Gateway
	failOn int
}

func (g *flakyGateway) BeginSubmission(ctx context.Context) (store.SubmissionTx, error) {
	tx, err := g.inner.BeginSubmission(ctx)
	if err != nil {
		return nil, err
	}
	return &flakyTx{SubmissionTx: tx, failOn: g.failOn}, nil
}

type flakyTx struct {
	store.SubmissionTx
	failOn int
	picks  int
}

func (t *flakyTx) InsertPick(submitterID int64, numbers string) error {
	t.picks++
	if t.picks == t.failOn {
		return errors.New("simulated write failure")
	}
	return t.SubmissionTx.InsertPick(submitterID, numbers)
}

func setupSQLite(t *testing.T) *sqlite.SQLiteStore {
	s, err := sqlite.NewSQLiteStore(":memory:", "../../migrations")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSubmitPersistsOneSubmitterAndFivePicks(t *testing.T) {
	s := setupSQLite(t)
	p := NewProcessor(s, DefaultRules())

	picks, canonical := fivePicks()
	receipt, err := p.Submit(context.Background(), "Maria Silva", picks)
	require.NoError(t, err)
	assert.Equal(t, 30, receipt.TotalNumbersWritten)

	stats, err := s.FetchStats()
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.Submitters)
	assert.Equal(t, int64(5), stats.Picks)

	submitter, err := s.GetSubmitter(receipt.SubmitterID)
	require.NoError(t, err)
	require.NotNil(t, submitter)
	assert.Equal(t, "Maria Silva", submitter.FullName)
	require.Len(t, submitter.Picks, 5)
	for i, pick := range submitter.Picks {
		assert.Equal(t, canonical[i], pick.Numbers)
	}
}

func TestSubmitRejectedBatchWritesNothing(t *testing.T) {
	s := setupSQLite(t)
	p := NewProcessor(s, DefaultRules())

	picks, _ := fivePicks()
	_, err := p.Submit(context.Background(), "Ana", picks[:4])
	var batchErr *BatchSizeError
	require.ErrorAs(t, err, &batchErr)

	stats, err := s.FetchStats()
	require.NoError(t, err)
	assert.Equal(t, int64(0), stats.Submitters)
	assert.Equal(t, int64(0), stats.Picks)
}

func TestSubmitIsAtomic(t *testing.T) {
	s := setupSQLite(t)
	p := NewProcessor(&flakyGateway{inner: s, failOn: 4}, DefaultRules())

	picks, _ := fivePicks()
	_, err := p.Submit(context.Background(), "Ana", picks)
	var persistErr *PersistenceError
	require.ErrorAs(t, err, &persistErr)
	assert.Contains(t, err.Error(), "simulated write failure")

	stats, err := s.FetchStats()
	require.NoError(t, err)
	assert.Equal(t, int64(0), stats.Submitters)
	assert.Equal(t, int64(0), stats.Picks)

	// the store is still usable after the rollback
	receipt, err := NewProcessor(s, DefaultRules()).Submit(context.Background(), "Ana", picks)
	require.NoError(t, err)
	assert.Equal(t, 5, receipt.AcceptedPicks)
}
