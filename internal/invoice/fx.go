package invoice

import (
	"github.com/gufolabs/gestiune/internal/invoice/repository"
	"github.com/gufolabs/gestiune/internal/invoice/sequence"
	"github.com/gufolabs/gestiune/internal/invoice/service"
	"go.uber.org/fx"
)

var Module = fx.Module("invoice.service",
	fx.Provide(sequence.NewAllocator),
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
