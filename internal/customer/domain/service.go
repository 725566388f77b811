package domain

import (
	"context"
	"errors"

	"github.com/gufolabs/gestiune/pkg/db/pagination"
)

type CreateCustomerRequest struct {
	Name    string
	Email   string
	Phone   string
	VATCode string
	RegNo   string
	Address string
	City    string
	Country string
	Notes   string
}

type ListCustomerRequest struct {
	PageToken string
	PageSize  int
}

type ListCustomerResponse struct {
	pagination.PageInfo
	Customers []Customer `json:"customers"`
}

type GetCustomerRequest struct {
	ID string
}

type Service interface {
	Create(context.Context, CreateCustomerRequest) (Customer, error)
	List(context.Context, ListCustomerRequest) (ListCustomerResponse, error)
	GetByID(context.Context, GetCustomerRequest) (Customer, error)
}

var (
	ErrMissingTenant = errors.New("missing_tenant")
	ErrInvalidName   = errors.New("invalid_name")
	ErrInvalidID     = errors.New("invalid_id")
	ErrNotFound      = errors.New("not_found")
)
