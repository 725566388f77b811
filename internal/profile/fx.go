package profile

import (
	"github.com/gufolabs/gestiune/internal/profile/repository"
	"github.com/gufolabs/gestiune/internal/profile/service"
	"go.uber.org/fx"
)

var Module = fx.Module("profile.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
