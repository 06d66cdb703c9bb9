package memory

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/kasir-api/internal/domain"
	"github.com/jhoicas/kasir-api/internal/domain/debt"
	"github.com/jhoicas/kasir-api/internal/domain/entity"
	"github.com/jhoicas/kasir-api/internal/domain/repository"
)

var (
	_ repository.CustomerRepository = (*CustomerRepo)(nil)
	_ repository.DebtRepository     = (*DebtRepo)(nil)
)

// CustomerRepo clientes en memoria.
type CustomerRepo struct {
	db   *DB
	inTx bool
}

func (r *CustomerRepo) Create(_ context.Context, customer *entity.Customer) error {
	return r.db.write(r.inTx, func(s *state) error {
		if _, ok := s.customers[customer.ID]; ok {
			return domain.ErrDuplicate
		}
		s.customers[customer.ID] = *customer
		return nil
	})
}

func (r *CustomerRepo) GetByID(_ context.Context, id string) (*entity.Customer, error) {
	var out *entity.Customer
	r.db.read(func(s *state) {
		if v, ok := s.customers[id]; ok {
			out = &v
		}
	})
	return out, nil
}

// GetForUpdate equivale a GetByID: el lock de transacción ya serializa los pagos.
func (r *CustomerRepo) GetForUpdate(ctx context.Context, id string) (*entity.Customer, error) {
	return r.GetByID(ctx, id)
}

func (r *CustomerRepo) List(_ context.Context, storeID string, p repository.ListParams) ([]*entity.Customer, int, error) {
	var list []*entity.Customer
	r.db.read(func(s *state) {
		for _, v := range s.customers {
			if v.StoreID == storeID && matches(p.Search, v.Name, v.Phone) {
				v := v
				list = append(list, &v)
			}
		}
	})
	sort.SliceStable(list, func(i, j int) bool {
		a, b := list[i], list[j]
		var less bool
		switch p.SortBy {
		case "name":
			less = a.Name < b.Name
		case "total_debt":
			less = a.TotalDebt.LessThan(b.TotalDebt)
		default:
			less = a.CreatedAt.Before(b.CreatedAt) || (a.CreatedAt.Equal(b.CreatedAt) && a.ID < b.ID)
		}
		if p.SortDir == "asc" {
			return less
		}
		return !less
	})
	out, total := page(list, p)
	return out, total, nil
}

func (r *CustomerRepo) AddDebt(_ context.Context, id string, delta decimal.Decimal) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.write(r.inTx, func(s *state) error {
		c, ok := s.customers[id]
		if !ok {
			return domain.ErrCustomerNotFound
		}
		c.TotalDebt = c.TotalDebt.Add(delta)
		c.UpdatedAt = time.Now()
		s.customers[id] = c
		total = c.TotalDebt
		return nil
	})
	return total, err
}

// DebtRepo líneas de deuda y pagos en memoria.
type DebtRepo struct {
	db   *DB
	inTx bool
}

// CreateItem asigna Seq creciente (desempate FIFO) como lo haría una secuencia de BD.
func (r *DebtRepo) CreateItem(_ context.Context, item *entity.DebtItem) error {
	return r.db.write(r.inTx, func(s *state) error {
		if _, ok := s.debtItems[item.ID]; ok {
			return domain.ErrDuplicate
		}
		s.debtSeq++
		item.Seq = s.debtSeq
		s.debtItems[item.ID] = *item
		return nil
	})
}

func (r *DebtRepo) UpdateItem(_ context.Context, item *entity.DebtItem) error {
	return r.db.write(r.inTx, func(s *state) error {
		if _, ok := s.debtItems[item.ID]; !ok {
			return domain.ErrNotFound
		}
		s.debtItems[item.ID] = *item
		return nil
	})
}

func (r *DebtRepo) ListOpenForUpdate(_ context.Context, customerID string) ([]*entity.DebtItem, error) {
	var list []*entity.DebtItem
	r.db.read(func(s *state) {
		for _, v := range s.debtItems {
			if v.CustomerID == customerID && v.Open() {
				v := v
				list = append(list, &v)
			}
		}
	})
	debt.SortFIFO(list)
	return list, nil
}

func (r *DebtRepo) ListItems(_ context.Context, customerID string, p repository.ListParams) ([]*entity.DebtItem, int, error) {
	var list []*entity.DebtItem
	r.db.read(func(s *state) {
		for _, v := range s.debtItems {
			if v.CustomerID == customerID && v.DeletedAt == nil && (p.Search == "" || v.Status == p.Search) {
				v := v
				list = append(list, &v)
			}
		}
	})
	debt.SortFIFO(list)
	if p.SortDir != "asc" {
		for i, j := 0, len(list)-1; i < j; i, j = i+1, j-1 {
			list[i], list[j] = list[j], list[i]
		}
	}
	out, total := page(list, p)
	return out, total, nil
}

func (r *DebtRepo) ListOpenByStore(_ context.Context, storeID string) ([]*entity.DebtItem, error) {
	var list []*entity.DebtItem
	r.db.read(func(s *state) {
		for _, v := range s.debtItems {
			if v.StoreID == storeID && v.Open() {
				v := v
				list = append(list, &v)
			}
		}
	})
	debt.SortFIFO(list)
	return list, nil
}

func (r *DebtRepo) CreatePayment(_ context.Context, payment *entity.DebtPayment) error {
	return r.db.write(r.inTx, func(s *state) error {
		for _, existing := range s.payments {
			if existing.StoreID == payment.StoreID && existing.PaymentCode == payment.PaymentCode {
				return domain.ErrDuplicate
			}
		}
		s.payments[payment.ID] = *payment
		return nil
	})
}

func (r *DebtRepo) CreatePaymentItem(_ context.Context, item *entity.DebtPaymentItem) error {
	return r.db.write(r.inTx, func(s *state) error {
		if _, ok := s.payments[item.DebtPaymentID]; !ok {
			return domain.ErrNotFound
		}
		s.paymentItems = append(s.paymentItems, *item)
		return nil
	})
}

func (r *DebtRepo) GetPayment(_ context.Context, id string) (*entity.DebtPayment, error) {
	var out *entity.DebtPayment
	r.db.read(func(s *state) {
		if v, ok := s.payments[id]; ok {
			out = &v
		}
	})
	return out, nil
}

func (r *DebtRepo) ListPayments(_ context.Context, customerID string, p repository.ListParams) ([]*entity.DebtPayment, int, error) {
	var list []*entity.DebtPayment
	r.db.read(func(s *state) {
		for _, v := range s.payments {
			if v.CustomerID == customerID && matches(p.Search, v.PaymentCode, v.Note) {
				v := v
				list = append(list, &v)
			}
		}
	})
	sort.SliceStable(list, func(i, j int) bool {
		a, b := list[i], list[j]
		var less bool
		switch p.SortBy {
		case "amount":
			less = a.Amount.LessThan(b.Amount)
		default:
			less = a.PaidAt.Before(b.PaidAt) || (a.PaidAt.Equal(b.PaidAt) && a.PaymentCode < b.PaymentCode)
		}
		if p.SortDir == "asc" {
			return less
		}
		return !less
	})
	out, total := page(list, p)
	return out, total, nil
}

func (r *DebtRepo) ListPaymentItems(_ context.Context, paymentID string) ([]*entity.DebtPaymentItem, error) {
	var list []*entity.DebtPaymentItem
	r.db.read(func(s *state) {
		for _, v := range s.paymentItems {
			if v.DebtPaymentID == paymentID {
				v := v
				list = append(list, &v)
			}
		}
	})
	return list, nil
}
