package repository

// TxRepos agrupa los repositorios atados a una misma transacción de BD.
type TxRepos struct {
	Stores       StoreRepository
	Products     ProductRepository
	Variants     VariantRepository
	Discounts    DiscountRepository
	Stock        StockRepository
	Movements    StockMovementRepository
	Restocks     RestockRepository
	Carts        CartRepository
	Transactions TransactionRepository
	Customers    CustomerRepository
	Debts        DebtRepository
}
