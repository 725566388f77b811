package domain

import (
	"context"
	"errors"
)

type UpsertProfileRequest struct {
	CompanyName string
	Series      string
	NumberStart int64
}

type Service interface {
	Get(context.Context) (NumberingProfile, error)
	Upsert(context.Context, UpsertProfileRequest) (NumberingProfile, error)
}

var (
	ErrMissingTenant = errors.New("missing_tenant")
	ErrInvalidSeries = errors.New("invalid_series")
	ErrInvalidStart  = errors.New("invalid_number_start")
)
