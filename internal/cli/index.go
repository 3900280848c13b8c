package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/resqpack/internal/index"
	"github.com/aidanlsb/resqpack/internal/ui"
)

var (
	indexDBPath string
	indexType   []string
)

type indexResult struct {
	Path     string             `json:"path"`
	Database string             `json:"database"`
	Stats    *index.Stats       `json:"stats"`
	Parts    []index.PartResult `json:"parts"`
	Dangling []index.RefResult  `json:"dangling,omitempty"`
}

var indexCmd = &cobra.Command{
	Use:   "index <container>",
	Short: "Catalogue a container in SQLite",
	Long: `Reads a container and rebuilds its SQLite index: one row per part,
relationship, reference and diagnostic. The index lives next to the container
as <container>.index.db unless --db or the [index] path config is set.

--type restricts the listed parts to the given type names.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		start := time.Now()
		ctx := cmd.Context()

		p, issues, err := readContainer(args[0])
		if err != nil {
			return err
		}

		dbPath := indexDBPath
		if dbPath == "" {
			dbPath = getConfig().IndexPath(args[0])
		}
		db, stats, err := index.Rebuild(ctx, dbPath, p, issues)
		if err != nil {
			return handleError(ErrDatabaseError, err, "")
		}
		defer db.Close()

		parts, err := db.Parts(ctx, indexType...)
		if err != nil {
			return handleError(ErrDatabaseError, err, "")
		}
		dangling, err := db.Dangling(ctx)
		if err != nil {
			return handleError(ErrDatabaseError, err, "")
		}

		result := indexResult{
			Path:     args[0],
			Database: dbPath,
			Stats:    stats,
			Parts:    parts,
			Dangling: dangling,
		}
		if isJSONOutput() {
			outputSuccessWithWarnings(result, issueWarnings(issues), newMeta(len(parts), start))
			return nil
		}

		fmt.Println(ui.Successf("Indexed %s into %s", ui.FilePath(args[0]), ui.FilePath(dbPath)))
		fmt.Println(ui.Hint(fmt.Sprintf("%d parts, %d relationships, %d references (%d dangling), %d issues",
			stats.Parts, stats.Relationships, stats.Refs, stats.Dangling, stats.Issues)))
		fmt.Println()
		tbl := ui.NewTable(3)
		tbl.SetHeader("type", "title", "uuid")
		for _, part := range parts {
			tbl.AddRow(ui.Accent.Render(part.Type), part.Title, ui.Hint(part.UUID))
		}
		fmt.Print(tbl.String())
		for _, ref := range dangling {
			fmt.Println(ui.Warningf("%s %s: no part for %s", ref.SourcePart, ref.FieldPath, ref.TargetUUID))
		}
		return nil
	},
}

func init() {
	indexCmd.Flags().StringVar(&indexDBPath, "db", "", "Index database path")
	indexCmd.Flags().StringSliceVar(&indexType, "type", nil, "Only list parts of these types")
	rootCmd.AddCommand(indexCmd)
}
