package ctl

import (
	"fmt"

	"github.com/dmitrijs2005/severity/internal/artifactstore"
	"github.com/dmitrijs2005/severity/internal/classifier"
	"github.com/dmitrijs2005/severity/internal/training"
	"github.com/spf13/cobra"
)

func (a *app) evaluateCommand() *cobra.Command {
	var model, data string
	target := training.DefaultTarget

	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Score an existing model artifact against a labelled dataset",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			var getter classifier.ObjectGetter
			if artifactstore.IsURI(model) {
				store, err := newStore(ctx, a.s3)
				if err != nil {
					return fmt.Errorf("artifact store: %w", err)
				}
				getter = store
			}

			t, err := classifier.Load(ctx, model, getter)
			if err != nil {
				return err
			}

			r, err := training.EvaluateFile(ctx, t, data, target, a.log)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Accuracy: %.4f\n\n%s\n", r.Accuracy, training.Render(r))
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&model, "model", "model.json", "model artifact, a path or s3://bucket/key")
	f.StringVar(&data, "data", "", "labelled dataset (.xlsx or .csv)")
	f.StringVar(&target, "target", target, "target column")
	_ = cmd.MarkFlagRequired("data")

	return cmd
}
