package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/theirongolddev/stayask/internal/catalog"
	"github.com/theirongolddev/stayask/internal/cli"
	"github.com/theirongolddev/stayask/internal/model"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	flagSample int
	flagOutput string
)

var propertiesCmd = &cobra.Command{
	Use:     "properties",
	Aliases: []string{"props"},
	Short:   "List the property catalog with price insights",
	RunE:    runProperties,
}

func init() {
	propertiesCmd.Flags().IntVar(&flagSample, "sample", 0, "Show a price-diverse sample of N properties")
	propertiesCmd.Flags().StringVarP(&flagOutput, "output", "o", "table", "Output format: table, json or yaml")
	rootCmd.AddCommand(propertiesCmd)
}

// catalogReport is the machine-readable form of the listing.
type catalogReport struct {
	Properties []model.Property `json:"properties" yaml:"properties"`
	Insights   catalog.Insights `json:"insights" yaml:"insights"`

	tiers map[string]catalog.PriceTier // by property ID, over the full catalog
}

func runProperties(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	props, err := loadCatalog(cfg.Catalog)
	if err != nil {
		return err
	}

	report := catalogReport{
		Properties: props,
		Insights:   catalog.Summarize(props),
		tiers:      make(map[string]catalog.PriceTier, len(props)),
	}
	for i, t := range catalog.Tiers(props) {
		report.tiers[props[i].ID] = t
	}
	if flagSample > 0 {
		report.Properties = catalog.SelectDiverse(props, flagSample)
	}
	return writeReport(os.Stdout, report, flagOutput)
}

func writeReport(w io.Writer, r catalogReport, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return err
		}
		return enc.Close()
	case "table", "":
		renderPropertyTable(w, r)
		return nil
	default:
		return fmt.Errorf("unknown output format %q (want table, json or yaml)", format)
	}
}

func renderPropertyTable(w io.Writer, r catalogReport) {
	in := r.Insights

	title := fmt.Sprintf("PROPERTIES  %d listed", len(r.Properties))
	if len(r.Properties) != in.TotalProperties {
		title = fmt.Sprintf("PROPERTIES  %d of %d", len(r.Properties), in.TotalProperties)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, cli.RenderTitle(title))
	fmt.Fprintln(w)

	rows := make([][]string, 0, len(r.Properties))
	for _, p := range r.Properties {
		rows = append(rows, []string{
			p.ID,
			p.Title,
			p.Location,
			r.tiers[p.ID].String(),
			cli.FormatPrice(p.PricePerNight),
			strconv.Itoa(p.Bedrooms),
			strconv.Itoa(p.Bathrooms),
			strconv.Itoa(p.Parking),
		})
	}
	fmt.Fprint(w, cli.RenderTable(cli.Table{
		Headers:  []string{"ID", "Title", "Location", "Tier", "Night", "Beds", "Baths", "Parking"},
		Rows:     rows,
		LeftCols: 4,
	}))
	fmt.Fprintln(w)

	summary := [][]string{
		{"Properties", strconv.Itoa(in.TotalProperties)},
		{"Average / night", cli.FormatPrice(in.AveragePrice)},
		{"Range / night", cli.FormatPrice(in.MinPrice) + " - " + cli.FormatPrice(in.MaxPrice)},
		{"Total bedrooms", strconv.Itoa(in.TotalBedrooms)},
	}
	if in.Cheapest != nil {
		summary = append(summary, []string{"Cheapest", in.Cheapest.Title})
	}
	if in.MostExpensive != nil {
		summary = append(summary, []string{"Most expensive", in.MostExpensive.Title})
	}
	fmt.Fprint(w, cli.RenderTable(cli.Table{
		Title:    "Insights",
		Rows:     summary,
		LeftCols: 2,
	}))
	fmt.Fprintln(w)

	countries := make([][]string, 0, len(in.ByCountry))
	for _, c := range in.ByCountry {
		countries = append(countries, []string{c.Country, strconv.Itoa(c.Count)})
	}
	fmt.Fprint(w, cli.RenderTable(cli.Table{
		Title:   "By Country",
		Headers: []string{"Country", "Listings"},
		Rows:    countries,
	}))
}
