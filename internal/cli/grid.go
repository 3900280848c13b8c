package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/resqpack/internal/epc"
	"github.com/aidanlsb/resqpack/internal/factory"
	"github.com/aidanlsb/resqpack/internal/grid"
	"github.com/aidanlsb/resqpack/internal/slugs"
	"github.com/aidanlsb/resqpack/internal/ui"
)

var (
	gridTitle       string
	gridExtent      factory.Extent
	gridEPSG        int64
	gridContinuous  []string
	gridCategorical []string
	gridMedium      string
	gridOverwrite   bool
)

type gridResult struct {
	Path     string   `json:"path"`
	Medium   string   `json:"medium"`
	Payload  string   `json:"payload"`
	Parts    []string `json:"parts"`
	Datasets []string `json:"datasets"`
	Cells    int      `json:"cells"`
}

var gridCmd = &cobra.Command{
	Use:   "grid [output]",
	Short: "Produce a regular IJK grid container",
	Long: `Builds a regular grid with a local depth CRS and optional cell properties,
writes the container and materializes the property values into a payload file
next to it.

Continuous properties are linear ramps over the cells:
  --property porosity=0.1:0.3:porosity:Euc   (name=lo:hi[:kind[:uom]])
Categorical properties assign one label per layer, cycling:
  --categorical facies="Channel Fill,Background"

The output defaults to a slug of the title (".epc" for archives).`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		start := time.Now()
		conf := getConfig()

		medium, err := conf.ContainerMedium()
		if err != nil {
			return handleError(ErrConfigInvalid, err, "")
		}
		if cmd.Flags().Changed("medium") {
			if medium, err = epc.ParseMedium(gridMedium); err != nil {
				return handleError(ErrInvalidInput, err, "Use --medium archive or --medium directory")
			}
		}

		spec := grid.Spec{Title: gridTitle, Extent: gridExtent}
		if gridEPSG != 0 {
			spec.CRS = factory.DefaultCRS
			spec.CRS.EPSGCode = gridEPSG
		}
		if err := gridExtent.Validate(); err != nil {
			return handleError(ErrInvalidInput, err, "")
		}
		for _, arg := range gridContinuous {
			c, err := grid.ParseContinuous(arg, gridExtent)
			if err != nil {
				return handleError(ErrInvalidInput, err, "Use --property name=lo:hi[:kind[:uom]]")
			}
			spec.Continuous = append(spec.Continuous, c)
		}
		for _, arg := range gridCategorical {
			c, err := grid.ParseCategorical(arg, gridExtent)
			if err != nil {
				return handleError(ErrInvalidInput, err, "Use --categorical name=label,label,...")
			}
			spec.Categorical = append(spec.Categorical, c)
		}

		r, err := grid.Build(factory.New(conf.FactoryOptions()...), spec)
		if err != nil {
			return handleError(errorCode(err, ErrInvalidInput), err, "")
		}
		p, err := r.Package()
		if err != nil {
			return handleError(ErrInternal, err, "")
		}

		out := ""
		if len(args) > 0 {
			out = args[0]
		} else {
			ext := ".epc"
			if medium == epc.Directory {
				ext = ""
			}
			out = slugs.ContainerName(r.Grid.Title(), ext)
		}

		opts, err := conf.WriteOptions()
		if err != nil {
			return handleError(ErrConfigInvalid, err, "")
		}
		opts = append(opts,
			epc.WithMedium(medium),
			epc.WithTitle(r.Grid.Title()),
			epc.WithLogger(logger),
		)
		if gridOverwrite {
			opts = append(opts, epc.WithOverwrite(true))
		}

		var spinner *ui.Spinner
		if !isJSONOutput() {
			spinner = ui.NewSpinner("Writing " + out)
			spinner.Start()
		}
		err = p.Write(out, opts...)
		if spinner != nil {
			spinner.Stop()
		}
		if err != nil {
			suggestion := ""
			if errors.Is(err, epc.ErrExists) {
				suggestion = "Pass --overwrite or choose another output path"
			}
			return handleError(errorCode(err, ErrFileWriteError), err, suggestion)
		}

		payloadPath, _ := p.PayloadLocation(r.Proxy)
		result := gridResult{
			Path:    out,
			Medium:  medium.String(),
			Payload: payloadPath,
			Parts:   p.Parts(),
			Cells:   gridExtent.Cells(),
		}
		for _, d := range r.Datasets {
			result.Datasets = append(result.Datasets, d.Name)
		}

		if isJSONOutput() {
			outputSuccess(result, newMeta(len(result.Parts), start))
			return nil
		}
		fmt.Println(ui.Successf("Wrote %s %s", ui.FilePath(out), ui.Hint(fmt.Sprintf("(%s, %d parts, %d cells)", result.Medium, len(result.Parts), result.Cells))))
		if len(result.Datasets) > 0 {
			fmt.Println(ui.Successf("Wrote payload %s %s", ui.FilePath(payloadPath), ui.Hint(ui.Count(len(result.Datasets), "dataset", "datasets"))))
		}
		return nil
	},
}

func init() {
	f := gridCmd.Flags()
	f.StringVar(&gridTitle, "title", "", "Grid title (default \"Regular grid\")")
	f.IntVar(&gridExtent.Ni, "ni", 10, "Cells along I")
	f.IntVar(&gridExtent.Nj, "nj", 10, "Cells along J")
	f.IntVar(&gridExtent.Nk, "nk", 1, "Cells along K (layers)")
	f.Float64Var(&gridExtent.Dx, "dx", 100, "Cell size along I")
	f.Float64Var(&gridExtent.Dy, "dy", 100, "Cell size along J")
	f.Float64Var(&gridExtent.Dz, "dz", 1, "Cell size along K")
	f.Int64Var(&gridEPSG, "epsg", 0, "EPSG code of the projected CRS")
	f.StringArrayVar(&gridContinuous, "property", nil, "Continuous property name=lo:hi[:kind[:uom]] (repeatable)")
	f.StringArrayVar(&gridCategorical, "categorical", nil, "Categorical property name=label,label,... (repeatable)")
	f.StringVar(&gridMedium, "medium", "", "Container medium: archive or directory (default from config)")
	f.BoolVar(&gridOverwrite, "overwrite", false, "Replace an existing directory container")
	rootCmd.AddCommand(gridCmd)
}
