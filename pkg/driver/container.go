package driver

import (
	"github.com/samber/do"

	"github.com/GriffinCanCode/pysharp-compiler/pkg/config"
	"github.com/GriffinCanCode/pysharp-compiler/pkg/linker"
)

// NewContainer registers the configuration, toolchain and driver.
func NewContainer(cfg *config.Config) *do.Injector {
	injector := do.New()

	do.ProvideValue(injector, cfg)

	do.Provide(injector, func(i *do.Injector) (linker.Toolchain, error) {
		return ToolchainFor(do.MustInvoke[*config.Config](i)), nil
	})

	do.Provide(injector, func(i *do.Injector) (*Driver, error) {
		cfg := do.MustInvoke[*config.Config](i)
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
		return &Driver{
			Config:    cfg,
			Toolchain: do.MustInvoke[linker.Toolchain](i),
		}, nil
	})

	return injector
}
