package catalog

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/kasir-api/internal/application/dto"
	"github.com/jhoicas/kasir-api/internal/domain"
	"github.com/jhoicas/kasir-api/internal/domain/entity"
	"github.com/jhoicas/kasir-api/internal/domain/repository"
)

// CustomerUseCase casos de uso para clientes (ventas a crédito).
type CustomerUseCase struct {
	repo repository.CustomerRepository
}

// NewCustomerUseCase construye el caso de uso.
func NewCustomerUseCase(repo repository.CustomerRepository) *CustomerUseCase {
	return &CustomerUseCase{repo: repo}
}

// Create crea un nuevo cliente con deuda cero.
func (uc *CustomerUseCase) Create(ctx context.Context, rc domain.RequestContext, in dto.CreateCustomerRequest) (*dto.CustomerResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	customer := &entity.Customer{
		ID:        uuid.New().String(),
		StoreID:   rc.StoreID,
		Name:      name,
		Phone:     in.Phone,
		Address:   in.Address,
		TotalDebt: decimal.Zero,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, customer); err != nil {
		return nil, err
	}
	return toCustomerResponse(customer), nil
}

// GetByID obtiene un cliente de la tienda.
func (uc *CustomerUseCase) GetByID(ctx context.Context, rc domain.RequestContext, id string) (*dto.CustomerResponse, error) {
	if !domain.IsID(id) {
		return nil, domain.ErrCustomerNotFound
	}
	customer, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if customer == nil || customer.StoreID != rc.StoreID {
		return nil, domain.ErrCustomerNotFound
	}
	return toCustomerResponse(customer), nil
}

// List lista clientes de la tienda.
func (uc *CustomerUseCase) List(ctx context.Context, rc domain.RequestContext, p repository.ListParams) (*dto.CustomerListResponse, error) {
	p = p.Normalize()
	list, total, err := uc.repo.List(ctx, rc.StoreID, p)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CustomerResponse, 0, len(list))
	for _, c := range list {
		out = append(out, *toCustomerResponse(c))
	}
	return &dto.CustomerListResponse{
		Items: out,
		Page:  dto.PageResponse{Limit: p.Limit, Offset: p.Offset, Total: total},
	}, nil
}

func toCustomerResponse(c *entity.Customer) *dto.CustomerResponse {
	return &dto.CustomerResponse{
		ID:        c.ID,
		StoreID:   c.StoreID,
		Name:      c.Name,
		Phone:     c.Phone,
		Address:   c.Address,
		TotalDebt: c.TotalDebt,
	}
}
