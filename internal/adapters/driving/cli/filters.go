package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/yuque-export/internal/core/domain"
	"github.com/custodia-labs/yuque-export/internal/core/services"
)

// filterFlags holds the selection and format flags shared by search and export.
type filterFlags struct {
	tags     []string
	tagGlobs []string
	noTag    bool
	since    string
	until    string

	noTitle bool
	noTime  bool
	noTags  bool

	tui bool
}

func (f *filterFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringArrayVarP(&f.tags, "tag", "t", nil, "select notes with this tag (repeatable)")
	flags.StringArrayVar(&f.tagGlobs, "tag-glob", nil, "select notes with tags matching this glob, e.g. 'work/*' (repeatable)")
	flags.BoolVar(&f.noTag, "no-tag", false, "also select notes without tags")
	flags.StringVar(&f.since, "since", "", "first day to include (YYYY-MM-DD)")
	flags.StringVar(&f.until, "until", "", "last day to include (YYYY-MM-DD)")
	flags.BoolVar(&f.noTitle, "no-title", false, "omit the title line of each note")
	flags.BoolVar(&f.noTime, "no-time", false, "omit the updated date line of each note")
	flags.BoolVar(&f.noTags, "no-tags", false, "omit the tags line of each note")
	flags.BoolVar(&f.tui, "tui", false, "show an interactive progress view")
}

// criteria validates the flags into filter criteria. Globs are expanded
// against tags, which is only called when --tag-glob is given.
func (f *filterFlags) criteria(ctx context.Context, settings *domain.Settings, tags services.TagLister) (domain.FilterCriteria, error) {
	return services.BuildCriteria(ctx, services.CriteriaInput{
		Tags:     f.tags,
		TagGlobs: f.tagGlobs,
		NoTag:    f.noTag,
		Since:    f.since,
		Until:    f.until,
	}, settings.Export.Location(), tags)
}

// format applies the --no-* flags on top of the configured options.
func (f *filterFlags) format(base domain.FormatOptions) domain.FormatOptions {
	if f.noTitle {
		base.IncludeTitle = false
	}
	if f.noTime {
		base.IncludeTime = false
	}
	if f.noTags {
		base.IncludeTags = false
	}
	return base
}

// criteriaWithoutNetwork validates dates before any client is built, so
// an inverted range fails fast even without credentials.
func (f *filterFlags) criteriaWithoutNetwork(settings *domain.Settings) error {
	_, err := services.BuildCriteria(context.Background(), services.CriteriaInput{
		Since: f.since,
		Until: f.until,
	}, settings.Export.Location(), nil)
	return err
}
