// Package memory implementa los repositorios del dominio en memoria. Se usa con
// DB_DRIVER=memory (demos, desarrollo sin PostgreSQL) y como base de los tests de casos de uso.
//
// Las transacciones se serializan con un mutex y, si fn falla, se restaura una copia del
// estado tomada al inicio (rollback completo).
package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/jhoicas/kasir-api/internal/domain/entity"
	"github.com/jhoicas/kasir-api/internal/domain/repository"
)

// state todas las tablas. Se guardan valores (no punteros) para que una copia superficial de
// los mapas baste como snapshot.
type state struct {
	stores           map[string]entity.Store
	products         map[string]entity.Product
	variants         map[string]entity.Variant
	discounts        map[string]entity.Discount
	stock            map[string]entity.StockRecord // por variant_id
	movements        []entity.StockMovement
	restocks         []entity.Restock
	carts            map[string]entity.Cart
	cartItems        map[string]entity.CartItem
	transactions     map[string]entity.Transaction
	transactionItems []entity.TransactionItem
	customers        map[string]entity.Customer
	debtItems        map[string]entity.DebtItem
	debtSeq          int64
	payments         map[string]entity.DebtPayment
	paymentItems     []entity.DebtPaymentItem
}

func newState() *state {
	return &state{
		stores:       map[string]entity.Store{},
		products:     map[string]entity.Product{},
		variants:     map[string]entity.Variant{},
		discounts:    map[string]entity.Discount{},
		stock:        map[string]entity.StockRecord{},
		carts:        map[string]entity.Cart{},
		cartItems:    map[string]entity.CartItem{},
		transactions: map[string]entity.Transaction{},
		customers:    map[string]entity.Customer{},
		debtItems:    map[string]entity.DebtItem{},
		payments:     map[string]entity.DebtPayment{},
	}
}

func (s *state) clone() *state {
	c := &state{
		stores:           cloneMap(s.stores),
		products:         cloneMap(s.products),
		variants:         cloneMap(s.variants),
		discounts:        cloneMap(s.discounts),
		stock:            cloneMap(s.stock),
		movements:        append([]entity.StockMovement(nil), s.movements...),
		restocks:         append([]entity.Restock(nil), s.restocks...),
		carts:            cloneMap(s.carts),
		cartItems:        cloneMap(s.cartItems),
		transactions:     cloneMap(s.transactions),
		transactionItems: append([]entity.TransactionItem(nil), s.transactionItems...),
		customers:        cloneMap(s.customers),
		debtItems:        cloneMap(s.debtItems),
		debtSeq:          s.debtSeq,
		payments:         cloneMap(s.payments),
		paymentItems:     append([]entity.DebtPaymentItem(nil), s.paymentItems...),
	}
	return c
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// DB base de datos en memoria.
type DB struct {
	txMu sync.Mutex   // serializa transacciones y escrituras fuera de ellas
	mu   sync.RWMutex // protege data en cada llamada
	data *state
}

// New crea una base vacía.
func New() *DB {
	return &DB{data: newState()}
}

// read ejecuta fn con el estado bloqueado para lectura.
func (db *DB) read(fn func(s *state)) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	fn(db.data)
}

// write ejecuta fn con el estado bloqueado para escritura. Fuera de una transacción la
// escritura también toma txMu para no intercalarse con una transacción que luego se revierta.
func (db *DB) write(inTx bool, fn func(s *state) error) error {
	if !inTx {
		db.txMu.Lock()
		defer db.txMu.Unlock()
	}
	db.mu.Lock()
	defer db.mu.Unlock()
	return fn(db.data)
}

// Repos devuelve los repositorios fuera de transacción (cada escritura es atómica por sí sola).
func (db *DB) Repos() repository.TxRepos {
	return db.repos(false)
}

func (db *DB) repos(inTx bool) repository.TxRepos {
	return repository.TxRepos{
		Stores:       &StoreRepo{db: db, inTx: inTx},
		Products:     &ProductRepo{db: db, inTx: inTx},
		Variants:     &VariantRepo{db: db, inTx: inTx},
		Discounts:    &DiscountRepo{db: db, inTx: inTx},
		Stock:        &StockRepo{db: db, inTx: inTx},
		Movements:    &StockMovementRepo{db: db, inTx: inTx},
		Restocks:     &RestockRepo{db: db, inTx: inTx},
		Carts:        &CartRepo{db: db, inTx: inTx},
		Transactions: &TransactionRepo{db: db, inTx: inTx},
		Customers:    &CustomerRepo{db: db, inTx: inTx},
		Debts:        &DebtRepo{db: db, inTx: inTx},
	}
}

// TxRunner ejecuta callbacks en una transacción en memoria.
type TxRunner struct {
	db *DB
}

// NewTxRunner construye el runner.
func NewTxRunner(db *DB) *TxRunner {
	return &TxRunner{db: db}
}

// Run toma el lock de transacción, guarda un snapshot, ejecuta fn y lo restaura si fn falla
// o entra en pánico.
func (r *TxRunner) Run(ctx context.Context, fn func(tx repository.TxRepos) error) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.db.txMu.Lock()
	defer r.db.txMu.Unlock()

	r.db.mu.RLock()
	snapshot := r.db.data.clone()
	r.db.mu.RUnlock()

	defer func() {
		if p := recover(); p != nil {
			r.restore(snapshot)
			panic(p)
		}
		if err != nil {
			r.restore(snapshot)
		}
	}()
	return fn(r.db.repos(true))
}

func (r *TxRunner) restore(snapshot *state) {
	r.db.mu.Lock()
	r.db.data = snapshot
	r.db.mu.Unlock()
}

// ── helpers de listado ───────────────────────────────────────────────────────

// page aplica orden (less ya resuelve el campo) y paginación.
func page[T any](items []T, p repository.ListParams) ([]T, int) {
	total := len(items)
	if p.Offset >= total {
		return []T{}, total
	}
	end := p.Offset + p.Limit
	if end > total {
		end = total
	}
	return items[p.Offset:end], total
}

func matches(search string, fields ...string) bool {
	if search == "" {
		return true
	}
	q := strings.ToLower(search)
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}
