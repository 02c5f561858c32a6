package report

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/warehouse-api/internal/application/inventory"
	"github.com/jhoicas/warehouse-api/internal/domain"
	"github.com/jhoicas/warehouse-api/internal/domain/entity"
	"github.com/jhoicas/warehouse-api/internal/domain/repository"
)

type stubLedger struct {
	got       repository.TransactionFilter
	gotTotals repository.TransactionFilter
	list      []*entity.Transaction
	totals    *repository.TransactionTotals // nil: se calculan sobre list
}

func (s *stubLedger) ListTransactions(_ context.Context, f repository.TransactionFilter) ([]*entity.Transaction, error) {
	s.got = f
	return s.list, nil
}

func (s *stubLedger) TransactionTotals(_ context.Context, f repository.TransactionFilter) (repository.TransactionTotals, error) {
	s.gotTotals = f
	if s.totals != nil {
		return *s.totals, nil
	}
	out := repository.TransactionTotals{Count: len(s.list)}
	for _, t := range s.list {
		if t.QuantityChange > 0 {
			out.Added += t.QuantityChange
		} else {
			out.Withdrawn -= t.QuantityChange
		}
	}
	return out, nil
}

type stubItems struct{}

func (stubItems) Detail(_ context.Context, id int64) (*entity.Item, error) {
	if id != 1 {
		return nil, domain.ErrItemNotFound
	}
	return &entity.Item{ID: 1, Code: "DRL-10", Name: "Broca 10"}, nil
}

type captureGenerator struct {
	report LedgerReport
	item   *entity.Item
}

func (g *captureGenerator) LedgerReportPDF(_ context.Context, data LedgerReport) ([]byte, error) {
	g.report = data
	return []byte("%PDF-ledger"), nil
}

func (g *captureGenerator) ItemLabelPDF(_ context.Context, item *entity.Item) ([]byte, error) {
	g.item = item
	return []byte("%PDF-label"), nil
}

func TestTransactionsPDF_TotalesYFiltro(t *testing.T) {
	ledger := &stubLedger{list: []*entity.Transaction{
		{ID: 3, QuantityChange: -4},
		{ID: 2, QuantityChange: 10},
		{ID: 1, QuantityChange: -1},
	}}
	gen := &captureGenerator{}
	uc := NewReportUseCase(ledger, stubItems{}, gen)
	uc.now = func() time.Time { return time.Date(2026, 5, 4, 13, 7, 0, 0, time.UTC) }

	pdf, name, err := uc.TransactionsPDF(context.Background(), repository.TransactionFilter{Action: entity.ActionWithdraw, Limit: 5, Offset: 40})
	require.NoError(t, err)
	assert.Equal(t, "%PDF-ledger", string(pdf))
	assert.Equal(t, "movimientos-20260504-1307.pdf", name)

	assert.Equal(t, inventory.MaxTransactionLimit, ledger.got.Limit)
	assert.Equal(t, 0, ledger.got.Offset)
	assert.Equal(t, entity.ActionWithdraw, ledger.got.Action)

	assert.Equal(t, 10, gen.report.TotalAdded)
	assert.Equal(t, 5, gen.report.TotalWithdrawn)
	assert.Equal(t, 5, gen.report.Net)
	assert.False(t, gen.report.Truncated)
}

func TestTransactionsPDF_TotalesCubrenTodoElFiltro(t *testing.T) {
	list := make([]*entity.Transaction, inventory.MaxTransactionLimit)
	for i := range list {
		list[i] = &entity.Transaction{ID: int64(len(list) - i), QuantityChange: 1}
	}
	ledger := &stubLedger{
		list:   list,
		totals: &repository.TransactionTotals{Count: 1200, Added: 1500, Withdrawn: 900},
	}
	gen := &captureGenerator{}
	uc := NewReportUseCase(ledger, stubItems{}, gen)

	_, _, err := uc.TransactionsPDF(context.Background(), repository.TransactionFilter{ItemID: 7})
	require.NoError(t, err)

	assert.Equal(t, int64(7), ledger.gotTotals.ItemID)
	assert.Len(t, gen.report.Transactions, inventory.MaxTransactionLimit)
	assert.Equal(t, 1200, gen.report.TotalCount)
	assert.Equal(t, 1500, gen.report.TotalAdded)
	assert.Equal(t, 900, gen.report.TotalWithdrawn)
	assert.Equal(t, 600, gen.report.Net)
	assert.True(t, gen.report.Truncated)
}

func TestTransactionsPDF_ExactamenteElMaximoNoEsRecortado(t *testing.T) {
	list := make([]*entity.Transaction, inventory.MaxTransactionLimit)
	for i := range list {
		list[i] = &entity.Transaction{ID: int64(i + 1), QuantityChange: 2}
	}
	gen := &captureGenerator{}
	uc := NewReportUseCase(&stubLedger{list: list}, stubItems{}, gen)

	_, _, err := uc.TransactionsPDF(context.Background(), repository.TransactionFilter{})
	require.NoError(t, err)
	assert.False(t, gen.report.Truncated)
	assert.Equal(t, 2*inventory.MaxTransactionLimit, gen.report.TotalAdded)
}

func TestItemLabelPDF(t *testing.T) {
	gen := &captureGenerator{}
	uc := NewReportUseCase(&stubLedger{}, stubItems{}, gen)

	_, name, err := uc.ItemLabelPDF(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "etiqueta-DRL-10.pdf", name)
	assert.Equal(t, "DRL-10", gen.item.Code)

	_, _, err = uc.ItemLabelPDF(context.Background(), 2)
	assert.ErrorIs(t, err, domain.ErrItemNotFound)
}
