package report

import (
	"context"
	"time"

	"github.com/jhoicas/warehouse-api/internal/domain/entity"
	"github.com/jhoicas/warehouse-api/internal/domain/repository"
)

// LedgerReport datos del reporte PDF de movimientos.
type LedgerReport struct {
	GeneratedAt  time.Time
	Filter       repository.TransactionFilter
	Transactions []*entity.Transaction
	// Totales sobre todo el filtro, aunque Transactions venga recortado.
	TotalCount     int
	TotalAdded     int
	TotalWithdrawn int // valor absoluto
	Net            int
	Truncated      bool // TotalCount > len(Transactions)
}

// PDFGenerator genera los documentos PDF (implementado en infrastructure/pdf con maroto).
type PDFGenerator interface {
	LedgerReportPDF(ctx context.Context, data LedgerReport) ([]byte, error)
	ItemLabelPDF(ctx context.Context, item *entity.Item) ([]byte, error)
}

// TransactionLister fuente del ledger (inventory.LedgerUseCase).
type TransactionLister interface {
	ListTransactions(ctx context.Context, filter repository.TransactionFilter) ([]*entity.Transaction, error)
	TransactionTotals(ctx context.Context, filter repository.TransactionFilter) (repository.TransactionTotals, error)
}

// ItemDetailer carga un artículo con categoría y medidas (usecase.ItemUseCase).
type ItemDetailer interface {
	Detail(ctx context.Context, id int64) (*entity.Item, error)
}
