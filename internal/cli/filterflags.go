package cli

import (
	"github.com/spf13/cobra"

	"github.com/envisionperdido/perdido-events/internal/filter"
)

// filterFlags collects the event-filter flags shared by commands that
// operate on a slice of the calendar
type filterFlags struct {
	dates    string
	venues   []string
	keywords []string
	weekends bool
}

func (ff *filterFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&ff.dates, "dates", "", "Date range, e.g. 'Mar 1-15', 'Mar 20 - Apr 5', or 'March'")
	cmd.Flags().StringSliceVar(&ff.venues, "venue", nil, "Only events whose location contains this text (repeatable)")
	cmd.Flags().StringSliceVar(&ff.keywords, "keyword", nil, "Only events whose title or description contains this text (repeatable)")
	cmd.Flags().BoolVar(&ff.weekends, "weekends", false, "Only Saturday and Sunday events")
}

func (ff *filterFlags) build() (*filter.Filter, error) {
	f := filter.New()
	if ff.dates != "" {
		from, to, err := filter.ParseDateRange(ff.dates)
		if err != nil {
			return nil, err
		}
		f.DateFrom = from
		f.DateTo = to
	}
	f.Venues = ff.venues
	f.Keywords = ff.keywords
	f.WeekendsOnly = ff.weekends
	return f, nil
}
