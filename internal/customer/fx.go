package customer

import (
	"github.com/gufolabs/gestiune/internal/customer/repository"
	"github.com/gufolabs/gestiune/internal/customer/service"
	"go.uber.org/fx"
)

var Module = fx.Module("customer.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
