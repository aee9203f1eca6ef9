package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

// IndexCompleter returns a ShellCompleteFunc that suggests item indexes as
// positional completions. Each suggestion carries the item name as its
// description, in the "value:description" form zsh and fish understand.
//
// When the user's last typed argument starts with "-", it falls back to the
// default flag completion behavior.
func IndexCompleter(flags *Flags) cli.ShellCompleteFunc {
	return func(ctx context.Context, cmd *cli.Command) {
		if args := cmd.Args(); args.Present() {
			last := args.Slice()[args.Len()-1]
			if len(last) > 0 && last[0] == '-' {
				cli.DefaultCompleteWithFlags(ctx, cmd)
				return
			}
		}

		if flags.Store == nil {
			return
		}

		w := cmd.Root().Writer
		for _, p := range flags.Store.PositionedList() {
			_, _ = fmt.Fprintf(w, "%d:%s\n", p.Index, p.Item.ShortenName())
		}
	}
}
