package product

import (
	"github.com/gufolabs/gestiune/internal/product/repository"
	"github.com/gufolabs/gestiune/internal/product/service"
	"go.uber.org/fx"
)

var Module = fx.Module("product.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
