package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/ppiankov/juridico/internal/model"
	"github.com/spf13/cobra"
)

var (
	docType        string
	docLimit       int
	updSector      string
	updResponsible string
	updDeadline    string
	updType        string
	exportPath     string
)

// documentsCmd represents the documents command
var documentsCmd = &cobra.Command{
	Use:     "documents",
	Aliases: []string{"docs"},
	Short:   "Review persisted publication records",
}

var documentsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List records, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		filter, err := documentFilter()
		if err != nil {
			return err
		}

		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		docs, err := a.store.ListDocuments(cmd.Context(), filter)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tPROCESSO\tTIPO\tSETOR\tDATA\tARQUIVO\tAVISOS")
		for _, d := range docs {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%d\n",
				d.ID, d.ProcessNumber, d.Type, d.Sector, formatDay(d.PublicationDate), d.FileName, len(d.Warnings))
		}
		return w.Flush()
	},
}

var documentsUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Edit sector, responsible, deadline start or type of a record",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		upd, err := documentUpdate(cmd)
		if err != nil {
			return err
		}

		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		doc, err := a.store.UpdateDocument(cmd.Context(), args[0], upd)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Updated %s: %s %s %s\n", doc.ID, doc.ProcessNumber, doc.Type, doc.Sector)
		return nil
	},
}

var documentsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a record",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		if err := a.store.DeleteDocument(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Deleted %s\n", args[0])
		return nil
	},
}

var documentsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export records to a spreadsheet",
	RunE: func(cmd *cobra.Command, args []string) error {
		filter, err := documentFilter()
		if err != nil {
			return err
		}

		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		docs, err := a.store.ListDocuments(cmd.Context(), filter)
		if err != nil {
			return err
		}

		path := exportPath
		if path == "" {
			path = "documentos_" + time.Now().Format("20060102_150405") + ".xlsx"
		}
		if err := a.pipeline.Renderer().RenderSpreadsheet(docs, path); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Exported %d record(s) to %s\n", len(docs), path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(documentsCmd)
	documentsCmd.AddCommand(documentsListCmd)
	documentsCmd.AddCommand(documentsUpdateCmd)
	documentsCmd.AddCommand(documentsDeleteCmd)
	documentsCmd.AddCommand(documentsExportCmd)

	for _, c := range []*cobra.Command{documentsListCmd, documentsExportCmd} {
		c.Flags().StringVar(&docType, "type", "", "only records of this document type")
		c.Flags().IntVar(&docLimit, "limit", 0, "maximum number of records (0 for all)")
	}
	documentsExportCmd.Flags().StringVarP(&exportPath, "output", "o", "", "spreadsheet path (default: documentos_<timestamp>.xlsx)")

	documentsUpdateCmd.Flags().StringVar(&updSector, "sector", "", "new sector")
	documentsUpdateCmd.Flags().StringVar(&updResponsible, "responsible", "", "person responsible")
	documentsUpdateCmd.Flags().StringVar(&updDeadline, "deadline", "", "deadline start (dd/mm/yyyy or yyyy-mm-dd)")
	documentsUpdateCmd.Flags().StringVar(&updType, "type", "", "new document type")
}

func documentFilter() (model.DocumentFilter, error) {
	filter := model.DocumentFilter{Limit: docLimit}
	if docType != "" {
		typ, err := model.ParseDocumentType(docType)
		if err != nil {
			return filter, err
		}
		filter.Type = &typ
	}
	return filter, nil
}

// documentUpdate builds an update from the flags that were set
func documentUpdate(cmd *cobra.Command) (model.DocumentUpdate, error) {
	var upd model.DocumentUpdate
	flags := cmd.Flags()

	if flags.Changed("sector") {
		sector := strings.TrimSpace(updSector)
		upd.Sector = &sector
	}
	if flags.Changed("responsible") {
		responsible := strings.TrimSpace(updResponsible)
		upd.Responsible = &responsible
	}
	if flags.Changed("deadline") {
		deadline, err := parseDay(updDeadline)
		if err != nil {
			return upd, err
		}
		upd.DeadlineStart = &deadline
	}
	if flags.Changed("type") {
		typ, err := model.ParseDocumentType(updType)
		if err != nil {
			return upd, err
		}
		upd.Type = &typ
	}

	if upd.Sector == nil && upd.Responsible == nil && upd.DeadlineStart == nil && upd.Type == nil {
		return upd, fmt.Errorf("nothing to update: pass --sector, --responsible, --deadline or --type")
	}
	return upd, nil
}

// parseDay accepts the Brazilian dd/mm/yyyy form and ISO dates
func parseDay(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{"02/01/2006", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q (use dd/mm/yyyy or yyyy-mm-dd)", s)
}

func formatDay(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format("02/01/2006")
}
