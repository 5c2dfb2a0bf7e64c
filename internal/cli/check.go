package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"depsync/internal/app"
	"depsync/internal/types"
)

type checkOptions struct {
	Manifest      string
	Index         string
	Registry      string
	CacheTTL      time.Duration
	AllowBreaking bool
	AllowUnknown  bool
	OutputDir     string
	Workers       int
}

func newCheckCommand() *cobra.Command {
	opts := checkOptions{}
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Report available updates without touching anything",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCheck(cmd.Context(), cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Manifest, "manifest", "", "Manifest file path")
	cmd.Flags().StringVar(&opts.Index, "index", "", "Static version index file")
	cmd.Flags().StringVar(&opts.Registry, "registry", "", "Version registry endpoint")
	cmd.Flags().DurationVar(&opts.CacheTTL, "cache-ttl", 24*time.Hour, "Registry cache TTL")
	cmd.Flags().BoolVar(&opts.AllowBreaking, "allow-breaking", false, "Select major (breaking) updates too")
	cmd.Flags().BoolVar(&opts.AllowUnknown, "allow-unknown", false, "Select updates whose versions did not classify")
	cmd.Flags().StringVar(&opts.OutputDir, "output", "", "Report output directory")
	cmd.Flags().IntVar(&opts.Workers, "workers", 0, "Version resolution workers")

	_ = viper.BindPFlag("manifest", cmd.Flags().Lookup("manifest"))
	_ = viper.BindPFlag("index", cmd.Flags().Lookup("index"))
	_ = viper.BindPFlag("registry", cmd.Flags().Lookup("registry"))
	_ = viper.BindPFlag("cache_ttl", cmd.Flags().Lookup("cache-ttl"))
	_ = viper.BindPFlag("allow_breaking", cmd.Flags().Lookup("allow-breaking"))
	_ = viper.BindPFlag("allow_unknown", cmd.Flags().Lookup("allow-unknown"))
	_ = viper.BindPFlag("output", cmd.Flags().Lookup("output"))
	_ = viper.BindPFlag("workers", cmd.Flags().Lookup("workers"))

	return cmd
}

func runCheck(ctx context.Context, cmd *cobra.Command, opts checkOptions) error {
	manifest := resolveString(cmd, opts.Manifest, "manifest", "manifest")
	service, err := newAppService(manifest, sourceOptions{
		Index:    resolveString(cmd, opts.Index, "index", "index"),
		Registry: resolveString(cmd, opts.Registry, "registry", "registry"),
		CacheTTL: resolveDuration(cmd, opts.CacheTTL, "cache_ttl", "cache-ttl"),
	}, "", resolveString(cmd, opts.OutputDir, "output", "output"))
	if err != nil {
		return err
	}
	result, err := service.Check(ctx, app.CheckRequest{
		ManifestPath:  manifest,
		AllowBreaking: resolveBool(cmd, opts.AllowBreaking, "allow_breaking", "allow-breaking"),
		AllowUnknown:  resolveBool(cmd, opts.AllowUnknown, "allow_unknown", "allow-unknown"),
		Workers:       resolveInt(cmd, opts.Workers, "workers", "workers"),
	})
	if err != nil {
		return err
	}
	printDecisions(result.Decisions)
	return nil
}

func printDecisions(decisions []types.Decision) {
	if len(decisions) == 0 {
		fmt.Println("all packages up to date")
		return
	}
	for _, decision := range decisions {
		marker := "skip"
		if decision.Selected {
			marker = "select"
		}
		fmt.Printf("%s  %s  %s -> %s  %s  %s\n",
			marker,
			decision.Candidate.Name,
			decision.Candidate.CurrentVersion,
			decision.Candidate.LatestVersion,
			decision.Candidate.Kind,
			decision.Reason,
		)
	}
}
