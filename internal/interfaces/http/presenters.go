package http

import (
	"github.com/jhoicas/kasir-api/internal/application/checkout"
	"github.com/jhoicas/kasir-api/internal/application/debt"
	"github.com/jhoicas/kasir-api/internal/application/dto"
	"github.com/jhoicas/kasir-api/internal/domain/entity"
)

func toCartResponse(cart *entity.Cart) dto.CartResponse {
	return dto.CartResponse{
		ID:              cart.ID,
		TransactionCode: cart.TransactionCode,
		TotalPrice:      cart.TotalPrice,
		Items:           toCartItemResponses(cart.Items),
		UpdatedAt:       cart.UpdatedAt,
	}
}

func toCartItemResponses(items []*entity.CartItem) []dto.CartItemResponse {
	out := make([]dto.CartItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, dto.CartItemResponse{
			ID:         it.ID,
			ProductID:  it.ProductID,
			VariantID:  it.VariantID,
			Quantity:   it.Quantity,
			Price:      it.Price,
			TotalPrice: it.TotalPrice,
		})
	}
	return out
}

func toReceiptResponse(r *checkout.Receipt) dto.TransactionResponse {
	t := r.Transaction
	items := make([]dto.TransactionItemResponse, 0, len(r.Items))
	for _, it := range r.Items {
		items = append(items, dto.TransactionItemResponse{
			ID:                   it.ID,
			ProductID:            it.ProductID,
			VariantID:            it.VariantID,
			RestockID:            it.RestockID,
			Quantity:             it.Quantity,
			Price:                it.Price,
			Discount:             it.Discount,
			DiscountedPrice:      it.DiscountedPrice,
			TotalPrice:           it.TotalPrice,
			DiscountedTotalPrice: it.DiscountedTotalPrice,
			UnitCost:             it.UnitCost,
			Profit:               it.Profit,
		})
	}
	out := dto.TransactionResponse{
		ID:              t.ID,
		TransactionCode: t.TransactionCode,
		CustomerID:      t.CustomerID,
		TotalPrice:      t.TotalPrice,
		Discount:        t.Discount,
		Tax:             t.Tax,
		GrandTotal:      t.GrandTotal,
		TotalPayment:    t.TotalPayment,
		TotalChange:     t.TotalChange,
		TotalProfit:     t.TotalProfit,
		PaymentMethod:   t.PaymentMethod,
		CashierID:       t.CashierID,
		Items:           items,
		CreatedAt:       t.CreatedAt,
	}
	if len(r.DebtItems) > 0 {
		out.DebtItems = toDebtItemResponses(r.DebtItems)
	}
	if r.DownPayment != nil {
		dp := toDebtPaymentResponse(r.DownPayment, nil)
		out.DownPayment = &dp
	}
	return out
}

func toDebtItemResponses(items []*entity.DebtItem) []dto.DebtItemResponse {
	out := make([]dto.DebtItemResponse, 0, len(items))
	for _, d := range items {
		out = append(out, dto.DebtItemResponse{
			ID:                d.ID,
			TransactionID:     d.TransactionID,
			TransactionItemID: d.TransactionItemID,
			TotalAmount:       d.TotalAmount,
			PaidAmount:        d.PaidAmount,
			RemainingAmount:   d.RemainingAmount,
			Status:            d.Status,
			LastPaymentAt:     d.LastPaymentAt,
			SettledAt:         d.SettledAt,
			CreatedAt:         d.CreatedAt,
		})
	}
	return out
}

func toDebtPaymentResponse(p *entity.DebtPayment, items []*entity.DebtPaymentItem) dto.DebtPaymentResponse {
	out := dto.DebtPaymentResponse{
		ID:            p.ID,
		PaymentCode:   p.PaymentCode,
		CustomerID:    p.CustomerID,
		Amount:        p.Amount,
		PaymentMethod: p.PaymentMethod,
		Note:          p.Note,
		OperatorID:    p.OperatorID,
		PaidAt:        p.PaidAt,
	}
	for _, it := range items {
		out.Items = append(out.Items, dto.DebtPaymentItemResponse{
			DebtItemID:    it.DebtItemID,
			Amount:        it.Amount,
			RemainingDebt: it.RemainingDebt,
		})
	}
	return out
}

func toPaymentResultResponse(r *debt.PaymentResult) dto.DebtPaymentResponse {
	out := toDebtPaymentResponse(r.Payment, r.Items)
	remaining := r.RemainingDebt
	out.RemainingDebt = &remaining
	return out
}

func toStockResponse(s *entity.StockRecord) dto.StockResponse {
	return dto.StockResponse{
		VariantID: s.VariantID,
		Quantity:  s.Quantity,
		Status:    s.Status,
		UpdatedAt: s.UpdatedAt,
	}
}

func toMovementResponses(list []*entity.StockMovement) []dto.StockMovementResponse {
	out := make([]dto.StockMovementResponse, 0, len(list))
	for _, m := range list {
		out = append(out, dto.StockMovementResponse{
			ID:        m.ID,
			VariantID: m.VariantID,
			Type:      m.Type,
			Quantity:  m.Quantity,
			Reference: m.Reference,
			CreatedBy: m.CreatedBy,
			CreatedAt: m.CreatedAt,
		})
	}
	return out
}
