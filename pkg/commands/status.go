package commands

import (
	"encoding/json"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"tableflip.dev/readershell/pkg/commands/options"
	"tableflip.dev/readershell/pkg/menu"
	"tableflip.dev/readershell/pkg/printers"
	"tableflip.dev/readershell/pkg/store"
)

func addStatus(topLevel *cobra.Command) {
	po := &options.OutputOptions{}
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Print the persisted settings and the derived menu state.",
		Example: `
readershell status
readershell status --json
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := store.Open(nil, nil)
			if err != nil {
				return po.HandleError(err)
			}
			snap := st.Get()

			if po.JSON {
				out := struct {
					Settings interface{} `json:"settings"`
					Menu     menu.State  `json:"menu"`
				}{Settings: snap, Menu: menu.Derive(snap)}
				b, err := json.MarshalIndent(out, "", "  ")
				if err != nil {
					return po.HandleError(err)
				}
				_, _ = fmt.Fprintln(color.Output, string(b))
				return nil
			}

			pp := printers.PrettyPrint{}
			pp.Title("settings")
			pp.Settings(snap)
			pp.NewLine()
			pp.Title("menu")
			pp.Menu(menu.Derive(snap))
			return nil
		},
	}
	options.AddOutputArg(cmd, po)

	topLevel.AddCommand(cmd)
}
