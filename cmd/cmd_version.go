package cmd

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/maxion-tech/marketplace-indexer/common"
	"github.com/maxion-tech/marketplace-indexer/common/errs"
	"github.com/maxion-tech/marketplace-indexer/core/constants"
	"github.com/maxion-tech/marketplace-indexer/modules/marketplace"
	"github.com/maxion-tech/marketplace-indexer/modules/marketplacev2"
	"github.com/spf13/cobra"
)

var versions = map[string]string{
	"":                                  constants.Version,
	common.ModuleMarketplace.String():   marketplace.Version,
	common.ModuleMarketplaceV2.String(): marketplacev2.Version,
}

type versionCmdOptions struct {
	Modules string
}

func NewVersionCommand() *cobra.Command {
	opts := &versionCmdOptions{}

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show marketplace-indexer version",
		RunE: func(cmd *cobra.Command, args []string) error {
			return versionHandler(opts, cmd, args)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.Modules, "module", "", `Show version of a specific module. E.g. "marketplace"`)

	return cmd
}

func versionHandler(opts *versionCmdOptions, _ *cobra.Command, _ []string) error {
	version, ok := versions[opts.Modules]
	if !ok {
		return errors.Wrap(errs.Unsupported, "Invalid module name")
	}
	fmt.Println(version)
	return nil
}
