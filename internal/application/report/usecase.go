package report

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/warehouse-api/internal/application/inventory"
	"github.com/jhoicas/warehouse-api/internal/domain/repository"
)

// ReportUseCase reportes PDF del ledger y etiquetas de artículos.
type ReportUseCase struct {
	ledger    TransactionLister
	items     ItemDetailer
	generator PDFGenerator
	now       func() time.Time
}

// NewReportUseCase construye el caso de uso.
func NewReportUseCase(ledger TransactionLister, items ItemDetailer, generator PDFGenerator) *ReportUseCase {
	return &ReportUseCase{ledger: ledger, items: items, generator: generator, now: time.Now}
}

// TransactionsPDF genera el reporte del ledger con los mismos filtros del listado.
// Incluye como máximo inventory.MaxTransactionLimit filas (las más recientes); los totales
// cubren todo el filtro.
func (uc *ReportUseCase) TransactionsPDF(ctx context.Context, filter repository.TransactionFilter) ([]byte, string, error) {
	filter.Limit = inventory.MaxTransactionLimit
	filter.Offset = 0
	list, err := uc.ledger.ListTransactions(ctx, filter)
	if err != nil {
		return nil, "", err
	}

	totals, err := uc.ledger.TransactionTotals(ctx, filter)
	if err != nil {
		return nil, "", err
	}

	data := LedgerReport{
		GeneratedAt:    uc.now(),
		Filter:         filter,
		Transactions:   list,
		TotalCount:     totals.Count,
		TotalAdded:     totals.Added,
		TotalWithdrawn: totals.Withdrawn,
		Net:            totals.Added - totals.Withdrawn,
		Truncated:      totals.Count > len(list),
	}

	pdf, err := uc.generator.LedgerReportPDF(ctx, data)
	if err != nil {
		return nil, "", err
	}
	return pdf, fmt.Sprintf("movimientos-%s.pdf", data.GeneratedAt.Format("20060102-1504")), nil
}

// ItemLabelPDF genera la etiqueta con código de barras del artículo.
func (uc *ReportUseCase) ItemLabelPDF(ctx context.Context, itemID int64) ([]byte, string, error) {
	item, err := uc.items.Detail(ctx, itemID)
	if err != nil {
		return nil, "", err
	}
	pdf, err := uc.generator.ItemLabelPDF(ctx, item)
	if err != nil {
		return nil, "", err
	}
	return pdf, fmt.Sprintf("etiqueta-%s.pdf", item.Code), nil
}
