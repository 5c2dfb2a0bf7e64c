package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"depsync/internal/app"
)

type updateOptions struct {
	Manifest      string
	Index         string
	Registry      string
	CacheTTL      time.Duration
	VerifyCmd     string
	VerifyTimeout time.Duration
	AllowBreaking bool
	AllowUnknown  bool
	Aux           []string
	OutputDir     string
	Workers       int
	DryRun        bool
}

func newUpdateCommand() *cobra.Command {
	opts := updateOptions{}
	cmd := &cobra.Command{
		Use:   "update",
		Short: "Apply safe dependency updates behind a verification gate",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runUpdate(cmd.Context(), cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Manifest, "manifest", "", "Manifest file path")
	cmd.Flags().StringVar(&opts.Index, "index", "", "Static version index file")
	cmd.Flags().StringVar(&opts.Registry, "registry", "", "Version registry endpoint")
	cmd.Flags().DurationVar(&opts.CacheTTL, "cache-ttl", 24*time.Hour, "Registry cache TTL")
	cmd.Flags().StringVar(&opts.VerifyCmd, "verify-cmd", "", "Verification command (run via sh -c)")
	cmd.Flags().DurationVar(&opts.VerifyTimeout, "verify-timeout", 10*time.Minute, "Verification timeout")
	cmd.Flags().BoolVar(&opts.AllowBreaking, "allow-breaking", false, "Select major (breaking) updates too")
	cmd.Flags().BoolVar(&opts.AllowUnknown, "allow-unknown", false, "Select updates whose versions did not classify")
	cmd.Flags().StringSliceVar(&opts.Aux, "aux", nil, "Auxiliary file(s) captured in the snapshot")
	cmd.Flags().StringVar(&opts.OutputDir, "output", "", "Report output directory")
	cmd.Flags().IntVar(&opts.Workers, "workers", 0, "Version resolution workers")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "Print the decision table without applying anything")

	_ = viper.BindPFlag("manifest", cmd.Flags().Lookup("manifest"))
	_ = viper.BindPFlag("index", cmd.Flags().Lookup("index"))
	_ = viper.BindPFlag("registry", cmd.Flags().Lookup("registry"))
	_ = viper.BindPFlag("cache_ttl", cmd.Flags().Lookup("cache-ttl"))
	_ = viper.BindPFlag("verify_cmd", cmd.Flags().Lookup("verify-cmd"))
	_ = viper.BindPFlag("verify_timeout", cmd.Flags().Lookup("verify-timeout"))
	_ = viper.BindPFlag("allow_breaking", cmd.Flags().Lookup("allow-breaking"))
	_ = viper.BindPFlag("allow_unknown", cmd.Flags().Lookup("allow-unknown"))
	_ = viper.BindPFlag("aux", cmd.Flags().Lookup("aux"))
	_ = viper.BindPFlag("output", cmd.Flags().Lookup("output"))
	_ = viper.BindPFlag("workers", cmd.Flags().Lookup("workers"))

	return cmd
}

func runUpdate(ctx context.Context, cmd *cobra.Command, opts updateOptions) error {
	manifest := resolveString(cmd, opts.Manifest, "manifest", "manifest")
	service, err := newAppService(manifest, sourceOptions{
		Index:    resolveString(cmd, opts.Index, "index", "index"),
		Registry: resolveString(cmd, opts.Registry, "registry", "registry"),
		CacheTTL: resolveDuration(cmd, opts.CacheTTL, "cache_ttl", "cache-ttl"),
	}, resolveString(cmd, opts.VerifyCmd, "verify_cmd", "verify-cmd"),
		resolveString(cmd, opts.OutputDir, "output", "output"))
	if err != nil {
		return err
	}
	if opts.DryRun {
		check, err := service.Check(ctx, app.CheckRequest{
			ManifestPath:  manifest,
			AllowBreaking: resolveBool(cmd, opts.AllowBreaking, "allow_breaking", "allow-breaking"),
			AllowUnknown:  resolveBool(cmd, opts.AllowUnknown, "allow_unknown", "allow-unknown"),
			Workers:       resolveInt(cmd, opts.Workers, "workers", "workers"),
		})
		if err != nil {
			return err
		}
		printDecisions(check.Decisions)
		return nil
	}
	result, err := service.Update(ctx, app.UpdateRequest{
		ManifestPath:   manifest,
		AuxiliaryPaths: resolveStrings(cmd, opts.Aux, "aux", "aux"),
		AllowBreaking:  resolveBool(cmd, opts.AllowBreaking, "allow_breaking", "allow-breaking"),
		AllowUnknown:   resolveBool(cmd, opts.AllowUnknown, "allow_unknown", "allow-unknown"),
		Workers:        resolveInt(cmd, opts.Workers, "workers", "workers"),
		VerifyTimeout:  resolveDuration(cmd, opts.VerifyTimeout, "verify_timeout", "verify-timeout"),
	})
	if err != nil {
		return err
	}
	fmt.Printf("%s: applied=%d skipped=%d report=%s\n",
		result.FinalState, result.Applied, result.Skipped, result.ReportPath)
	return nil
}
