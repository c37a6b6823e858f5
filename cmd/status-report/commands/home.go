package commands

import (
	"github.com/spf13/cobra"
)

type homeOutput struct {
	HomeDir string `json:"home_dir" yaml:"home_dir"`
}

func newHomeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "home",
		Short: "Print the directory ~ expands to",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(nil)
			if err != nil {
				return err
			}

			home := a.toolset.RootDirectory()
			return render(cmd, homeOutput{HomeDir: home}, home)
		},
	}
}
