package ctl

import (
	"bytes"
	"fmt"

	"github.com/dmitrijs2005/severity/internal/artifactstore"
	"github.com/dmitrijs2005/severity/internal/classifier"
	"github.com/dmitrijs2005/severity/internal/training"
	"github.com/spf13/cobra"
)

func (a *app) trainCommand() *cobra.Command {
	o := training.DefaultOptions()
	var out, upload string

	cmd := &cobra.Command{
		Use:   "train",
		Short: "Fit a classifier on a dataset and write the model artifact",
		Long: `Fit a Bernoulli naive Bayes classifier on an .xlsx or .csv dataset.

The dataset needs a header row with columns A1..A10 and the target column.
A shuffled share of the rows is held out and the command prints accuracy,
a per-class report and the confusion matrix for it.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			res, err := training.Train(ctx, o, a.log)
			if err != nil {
				return err
			}

			if err := res.Model.SaveFile(out); err != nil {
				return fmt.Errorf("save model: %w", err)
			}
			a.log.Info(ctx, "model saved", "path", out)

			if upload != "" {
				if err := a.upload(cmd, res.Model, upload); err != nil {
					return err
				}
				a.log.Info(ctx, "model uploaded", "uri", upload)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Accuracy: %.4f\n\n%s\n", res.Report.Accuracy, training.Render(res.Report))
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&o.DataPath, "data", "", "dataset file (.xlsx or .csv)")
	f.StringVar(&out, "out", "model.json", "where to write the model artifact")
	f.StringVar(&o.Target, "target", o.Target, "target column")
	f.Float64Var(&o.TestSize, "test-size", o.TestSize, "share of rows held out for evaluation")
	f.Int64Var(&o.Seed, "seed", o.Seed, "shuffle seed")
	f.Float64Var(&o.Alpha, "alpha", o.Alpha, "additive smoothing")
	f.Float64Var(&o.Binarize, "binarize", o.Binarize, "threshold above which a feature counts as present")
	f.StringVar(&upload, "upload", "", "also upload the artifact to s3://bucket/key")
	_ = cmd.MarkFlagRequired("data")

	return cmd
}

func (a *app) upload(cmd *cobra.Command, t *classifier.Trained, uri string) error {
	if !artifactstore.IsURI(uri) {
		return fmt.Errorf("%w: %s", artifactstore.ErrBadURI, uri)
	}
	var buf bytes.Buffer
	if err := t.Encode(&buf); err != nil {
		return err
	}
	store, err := newStore(cmd.Context(), a.s3)
	if err != nil {
		return fmt.Errorf("artifact store: %w", err)
	}
	if err := store.Put(cmd.Context(), uri, buf.Bytes()); err != nil {
		return fmt.Errorf("upload model: %w", err)
	}
	return nil
}
