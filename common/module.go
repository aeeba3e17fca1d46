package common

type Module string

const (
	ModuleMarketplace   Module = "marketplace"
	ModuleMarketplaceV2 Module = "marketplace-v2"
)

func (m Module) String() string {
	return string(m)
}
