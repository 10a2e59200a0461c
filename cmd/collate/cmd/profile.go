package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tabforge/collate/pkg/consolidate"
	"github.com/tabforge/collate/pkg/errors"
	"github.com/tabforge/collate/pkg/grouping"
	"github.com/tabforge/collate/pkg/table"
)

// profileConfig is the merge profile as written in .collate.yaml:
// column labels given as "Section / Category / Name" strings, fewer
// segments filling from the right.
//
//	profile:
//	  key:
//	    - "Nominee / Details / PS ID"
//	    - "Nominee / Details / Dept"
//	  identity:
//	    - "Nominee / Details / Name"
//	  author: "Submission / Submitted By"
//	  time: "Submission / Submitted Time"
type profileConfig struct {
	Key      []string `mapstructure:"key"`
	Identity []string `mapstructure:"identity"`
	Author   string   `mapstructure:"author"`
	Time     string   `mapstructure:"time"`
}

// addProfileFlags registers the per-command flags that override the
// config file profile.
func addProfileFlags(cmd *cobra.Command) {
	cmd.Flags().StringSlice("key", nil, "Business key column labels (repeatable)")
	cmd.Flags().StringSlice("identity", nil, "Identity column labels (repeatable)")
	cmd.Flags().String("author", "", `"Submitted by" column label`)
	cmd.Flags().String("time", "", `"Submitted time" column label`)
}

// loadOptions resolves the consolidation options from flags, falling
// back to the profile section of the config file.
func loadOptions(cmd *cobra.Command) (consolidate.Options, error) {
	var profile profileConfig
	if err := viper.UnmarshalKey("profile", &profile); err != nil {
		return consolidate.Options{}, errors.NewConfigError("profile", "invalid profile section", err)
	}

	if flags, _ := cmd.Flags().GetStringSlice("key"); len(flags) > 0 {
		profile.Key = flags
	}
	if flags, _ := cmd.Flags().GetStringSlice("identity"); len(flags) > 0 {
		profile.Identity = flags
	}
	if flag, _ := cmd.Flags().GetString("author"); flag != "" {
		profile.Author = flag
	}
	if flag, _ := cmd.Flags().GetString("time"); flag != "" {
		profile.Time = flag
	}

	if len(profile.Key) == 0 {
		return consolidate.Options{}, errors.NewConfigError("profile", "no key columns configured", nil)
	}
	if profile.Author == "" {
		return consolidate.Options{}, errors.NewConfigError("profile", "no author column configured", nil)
	}
	if profile.Time == "" {
		return consolidate.Options{}, errors.NewConfigError("profile", "no time column configured", nil)
	}

	return consolidate.Options{
		Key:      grouping.Key(table.ParseLabels(profile.Key)),
		Identity: table.ParseLabels(profile.Identity),
		Author:   table.ParseLabel(profile.Author),
		Time:     table.ParseLabel(profile.Time),
	}, nil
}
