package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/ppiankov/juridico/internal/catalog"
	"github.com/ppiankov/juridico/internal/model"
	"github.com/spf13/cobra"
)

var showInactive bool

// keywordsCmd represents the keywords command
var keywordsCmd = &cobra.Command{
	Use:   "keywords",
	Short: "Manage custom classification keywords",
	Long: `Custom keywords are added to the built-in catalog of their document
type. Removing a keyword deactivates it; its history is kept.

Types: Execucao, Alvara, PericiaQuesitos, Audiencia, Sentenca, Despacho,
Citacao, Intimacao, Recurso, Outros`,
}

var keywordsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List custom keywords",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		keywords, err := a.store.ListKeywords(cmd.Context(), showInactive)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tTYPE\tTERM\tACTIVE")
		for _, k := range keywords {
			fmt.Fprintf(w, "%s\t%s\t%s\t%v\n", k.ID, k.Type, k.Term, k.Active)
		}
		return w.Flush()
	},
}

var keywordsAddCmd = &cobra.Command{
	Use:   "add <type> <term>",
	Short: "Add a custom keyword",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		typ, err := model.ParseDocumentType(args[0])
		if err != nil {
			return err
		}

		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		k, err := a.store.AddKeyword(cmd.Context(), args[1], typ)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Added %q to %s (%s)\n", k.Term, k.Type, k.ID)
		return nil
	},
}

var keywordsRemoveCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Deactivate a custom keyword",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		if err := a.store.DeactivateKeyword(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Deactivated %s\n", args[0])
		return nil
	},
}

var keywordsDefaultsCmd = &cobra.Command{
	Use:   "defaults",
	Short: "Print the built-in keyword catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		defaults := catalog.DefaultKeywords()
		if cfg.Catalog.KeywordsFile != "" {
			if defaults, err = catalog.LoadDefaults(cfg.Catalog.KeywordsFile); err != nil {
				return err
			}
		}

		cat := catalog.Build(defaults, nil)
		out := cmd.OutOrStdout()
		for _, typ := range cat.Types() {
			fmt.Fprintf(out, "%s (%d)\n", typ, cat.Total(typ))
			for _, term := range cat.Keywords(typ) {
				fmt.Fprintf(out, "  %s\n", term)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(keywordsCmd)
	keywordsCmd.AddCommand(keywordsListCmd)
	keywordsCmd.AddCommand(keywordsAddCmd)
	keywordsCmd.AddCommand(keywordsRemoveCmd)
	keywordsCmd.AddCommand(keywordsDefaultsCmd)

	keywordsListCmd.Flags().BoolVar(&showInactive, "all", false, "include deactivated keywords")
}
