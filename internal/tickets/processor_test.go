package tickets

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/shrimpsizemoose/bolao/internal/store"
)

type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) BeginSubmission(ctx context.Context) (store.SubmissionTx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(store.SubmissionTx), args.Error(1)
}

type MockTx struct {
	mock.Mock
}

func (m *MockTx) InsertSubmitter(fullName string) (int64, error) {
	args := m.Called(fullName)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTx) InsertPick(submitterID int64, numbers string) error {
	return m.Called(submitterID, numbers).Error(0)
}

func (m *MockTx) Commit() error {
	return m.Called().Error(0)
}

func (m *MockTx) Rollback() error {
	return m.Called().Error(0)
}

// fivePicks returns five valid picks and their canonical forms.
func fivePicks() ([][]any, []string) {
	return [][]any{
			{6, 5, 4, 3, 2, 1},
			{12, 11, 10, 9, 8, 7},
			{18, 17, 16, 15, 14, 13},
			{24, 23, 22, 21, 20, 19},
			{30, 29, 28, 27, 26, 25},
		}, []string{
			"1,2,3,4,5,6",
			"7,8,9,10,11,12",
			"13,14,15,16,17,18",
			"19,20,21,22,23,24",
			"25,26,27,28,29,30",
		}
}

func newMocks() (*MockGateway, *MockTx) {
	gw := new(MockGateway)
	tx := new(MockTx)
	gw.On("BeginSubmission", mock.Anything).Return(tx, nil)
	return gw, tx
}

func TestProcessor_SubmitFiveValidPicks(t *testing.T) {
	gw, tx := newMocks()
	picks, canonical := fivePicks()

	tx.On("InsertSubmitter", "Maria Silva").Return(int64(7), nil).Once()
	for _, c := range canonical {
		tx.On("InsertPick", int64(7), c).Return(nil).Once()
	}
	tx.On("Commit").Return(nil).Once()

	p := NewProcessor(gw, DefaultRules())
	receipt, err := p.Submit(context.Background(), "  Maria Silva ", picks)
	require.NoError(t, err)

	assert.Equal(t, &Receipt{SubmitterID: 7, AcceptedPicks: 5, TotalNumbersWritten: 30}, receipt)
	tx.AssertExpectations(t)
	tx.AssertNotCalled(t, "Rollback")
}

func TestProcessor_BatchSize(t *testing.T) {
	picks, _ := fivePicks()

	testCases := []struct {
		name  string
		picks [][]any
		got   int
	}{
		{name: "Four valid picks", picks: picks[:4], got: 4},
		{name: "One pick", picks: picks[:1], got: 1},
		{name: "Six picks", picks: append(append([][]any{}, picks...), picks[0]), got: 6},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			gw := new(MockGateway)
			p := NewProcessor(gw, DefaultRules())

			receipt, err := p.Submit(context.Background(), "Ana", tc.picks)
			assert.Nil(t, receipt)

			var batchErr *BatchSizeError
			require.ErrorAs(t, err, &batchErr)
			assert.Equal(t, 5, batchErr.Want)
			assert.Equal(t, tc.got, batchErr.Got)
			gw.AssertNotCalled(t, "BeginSubmission", mock.Anything)
		})
	}
}

func TestProcessor_MissingFields(t *testing.T) {
	picks, _ := fivePicks()

	testCases := []struct {
		name  string
		full  string
		picks [][]any
		field string
	}{
		{name: "Empty name", full: "", picks: picks, field: "fullName"},
		{name: "Blank name", full: "   ", picks: picks, field: "fullName"},
		{name: "Nil games", full: "Ana", picks: nil, field: "games"},
		{name: "Empty games", full: "Ana", picks: [][]any{}, field: "games"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			gw := new(MockGateway)
			p := NewProcessor(gw, DefaultRules())

			_, err := p.Submit(context.Background(), tc.full, tc.picks)
			var missing *MissingFieldError
			require.ErrorAs(t, err, &missing)
			assert.Equal(t, tc.field, missing.Field)
			gw.AssertNotCalled(t, "BeginSubmission", mock.Anything)
		})
	}
}

func TestProcessor_ShapeFailuresAreSkipped(t *testing.T) {
	picks, canonical := fivePicks()
	picks[2] = []any{1, 2, 3, 4, 5}

	t.Run("raw policy writes the remaining picks", func(t *testing.T) {
		gw, tx := newMocks()
		tx.On("InsertSubmitter", "Ana").Return(int64(1), nil).Once()
		for i, c := range canonical {
			if i == 2 {
				continue
			}
			tx.On("InsertPick", int64(1), c).Return(nil).Once()
		}
		tx.On("Commit").Return(nil).Once()

		p := NewProcessor(gw, DefaultRules())
		receipt, err := p.Submit(context.Background(), "Ana", picks)
		require.NoError(t, err)
		assert.Equal(t, 4, receipt.AcceptedPicks)
		assert.Equal(t, 24, receipt.TotalNumbersWritten)
		tx.AssertExpectations(t)
	})

	t.Run("accepted policy rejects the batch", func(t *testing.T) {
		gw := new(MockGateway)
		rules := DefaultRules()
		rules.BatchPolicy = PolicyAccepted

		p := NewProcessor(gw, rules)
		_, err := p.Submit(context.Background(), "Ana", picks)
		assert.Equal(t, &BatchSizeError{Want: 5, Got: 4}, err)
		gw.AssertNotCalled(t, "BeginSubmission", mock.Anything)
	})

	t.Run("accepted policy counts only valid picks", func(t *testing.T) {
		all, canonical := fivePicks()
		withBroken := append([][]any{{1, 2}}, all...)

		gw, tx := newMocks()
		tx.On("InsertSubmitter", "Ana").Return(int64(3), nil).Once()
		for _, c := range canonical {
			tx.On("InsertPick", int64(3), c).Return(nil).Once()
		}
		tx.On("Commit").Return(nil).Once()

		rules := DefaultRules()
		rules.BatchPolicy = PolicyAccepted
		p := NewProcessor(gw, rules)

		receipt, err := p.Submit(context.Background(), "Ana", withBroken)
		require.NoError(t, err)
		assert.Equal(t, 30, receipt.TotalNumbersWritten)
	})

	t.Run("range rule skips out of range picks", func(t *testing.T) {
		picks, canonical := fivePicks()
		picks[4] = []any{1, 2, 3, 4, 5, 99}

		gw, tx := newMocks()
		tx.On("InsertSubmitter", "Ana").Return(int64(4), nil).Once()
		for _, c := range canonical[:4] {
			tx.On("InsertPick", int64(4), c).Return(nil).Once()
		}
		tx.On("Commit").Return(nil).Once()

		rules := DefaultRules()
		rules.EnforceRange = true
		p := NewProcessor(gw, rules)

		receipt, err := p.Submit(context.Background(), "Ana", picks)
		require.NoError(t, err)
		assert.Equal(t, 4, receipt.AcceptedPicks)
	})
}

func TestProcessor_InvalidNumberRejectsSubmission(t *testing.T) {
	picks, _ := fivePicks()
	picks[1] = []any{1, 2, 3, 4, 5, "seis"}

	gw := new(MockGateway)
	p := NewProcessor(gw, DefaultRules())

	_, err := p.Submit(context.Background(), "Ana", picks)
	var numberErr *NumberError
	require.ErrorAs(t, err, &numberErr)
	assert.Equal(t, 2, numberErr.Pick)
	assert.Equal(t, "seis", numberErr.Value)
	gw.AssertNotCalled(t, "BeginSubmission", mock.Anything)
}

func TestProcessor_PersistenceFailures(t *testing.T) {
	diskFull := errors.New("disk full")

	t.Run("fourth pick fails", func(t *testing.T) {
		picks, canonical := fivePicks()
		gw, tx := newMocks()
		tx.On("InsertSubmitter", "Ana").Return(int64(9), nil).Once()
		for _, c := range canonical[:3] {
			tx.On("InsertPick", int64(9), c).Return(nil).Once()
		}
		tx.On("InsertPick", int64(9), canonical[3]).Return(diskFull).Once()
		tx.On("Rollback").Return(nil).Once()

		p := NewProcessor(gw, DefaultRules())
		receipt, err := p.Submit(context.Background(), "Ana", picks)
		assert.Nil(t, receipt)

		var persistErr *PersistenceError
		require.ErrorAs(t, err, &persistErr)
		assert.ErrorIs(t, err, diskFull)
		assert.Contains(t, err.Error(), "disk full")

		tx.AssertExpectations(t)
		tx.AssertNotCalled(t, "Commit")
		tx.AssertNotCalled(t, "InsertPick", int64(9), canonical[4])
	})

	t.Run("submitter insert fails", func(t *testing.T) {
		picks, _ := fivePicks()
		gw, tx := newMocks()
		tx.On("InsertSubmitter", "Ana").Return(int64(0), diskFull).Once()
		tx.On("Rollback").Return(nil).Once()

		p := NewProcessor(gw, DefaultRules())
		_, err := p.Submit(context.Background(), "Ana", picks)
		assert.ErrorIs(t, err, diskFull)
		tx.AssertExpectations(t)
	})

	t.Run("begin fails", func(t *testing.T) {
		picks, _ := fivePicks()
		gw := new(MockGateway)
		gw.On("BeginSubmission", mock.Anything).Return(nil, diskFull).Once()

		p := NewProcessor(gw, DefaultRules())
		_, err := p.Submit(context.Background(), "Ana", picks)
		var persistErr *PersistenceError
		require.ErrorAs(t, err, &persistErr)
		assert.ErrorIs(t, err, diskFull)
	})

	t.Run("commit fails", func(t *testing.T) {
		picks, canonical := fivePicks()
		gw, tx := newMocks()
		tx.On("InsertSubmitter", "Ana").Return(int64(2), nil).Once()
		for _, c := range canonical {
			tx.On("InsertPick", int64(2), c).Return(nil).Once()
		}
		tx.On("Commit").Return(diskFull).Once()
		tx.On("Rollback").Return(nil).Once()

		p := NewProcessor(gw, DefaultRules())
		_, err := p.Submit(context.Background(), "Ana", picks)
		assert.ErrorIs(t, err, diskFull)
		tx.AssertExpectations(t)
	})
}
