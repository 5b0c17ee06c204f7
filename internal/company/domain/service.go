package domain

import (
	"context"
	"errors"
)

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Company, error)
	GetByID(ctx context.Context, id string) (*Company, error)
	List(ctx context.Context, req ListRequest) ([]Company, error)
	Update(ctx context.Context, req UpdateRequest) (*Company, error)
	AdjustCreditBalance(ctx context.Context, id string, delta int64) (*Company, error)
}

type CreateRequest struct {
	Name        string         `json:"name"`
	Email       string         `json:"email"`
	Phone       string         `json:"phone"`
	AddressLine string         `json:"address_line"`
	Metadata    map[string]any `json:"metadata"`
}

type ListRequest struct {
	Name            string
	IncludeInactive bool
}

type UpdateRequest struct {
	ID          string  `json:"id"`
	Name        *string `json:"name"`
	Email       *string `json:"email"`
	Phone       *string `json:"phone"`
	AddressLine *string `json:"address_line"`
	IsInactive  *bool   `json:"is_inactive"`
}

var (
	ErrInvalidTenant = errors.New("invalid_tenant")
	ErrInvalidName   = errors.New("invalid_name")
	ErrInvalidID     = errors.New("invalid_id")
	ErrNotFound      = errors.New("company_not_found")
)
