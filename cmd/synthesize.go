package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/sourcing-cli/internal/extraction"
	"github.com/sells-group/sourcing-cli/internal/model"
)

var (
	synthBarcodePath string
	synthLabelPath   string
	synthPackagePath string
	synthBoxPath     string
	synthWeight      float64
	synthWeightUnit  string
)

var synthesizeCmd = &cobra.Command{
	Use:   "synthesize <report-id>",
	Short: "Run evidence extraction and decision synthesis for a report",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initEngine(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		in, err := buildInputs(cmd)
		if err != nil {
			return err
		}

		rec, err := env.Engine.Synthesize(ctx, args[0], in)
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(rec)
	},
}

// buildInputs reads the image flags into extraction inputs. A flag left
// unset means that evidence was not supplied, which is a valid state.
func buildInputs(cmd *cobra.Command) (extraction.Inputs, error) {
	var in extraction.Inputs

	read := func(path string, dst *[]byte) error {
		if path == "" {
			return nil
		}
		b, err := os.ReadFile(path)
		if err != nil {
			return eris.Wrapf(err, "read image %s", path)
		}
		*dst = b
		return nil
	}

	if err := read(synthBarcodePath, &in.BarcodeImage); err != nil {
		return in, err
	}
	if err := read(synthLabelPath, &in.LabelImage); err != nil {
		return in, err
	}
	if err := read(synthPackagePath, &in.PackageImage); err != nil {
		return in, err
	}
	if err := read(synthBoxPath, &in.BoxImage); err != nil {
		return in, err
	}

	if cmd.Flags().Changed("weight") {
		unit := model.WeightUnit(synthWeightUnit)
		switch unit {
		case model.UnitGrams, model.UnitKilograms, model.UnitMilliliter:
		default:
			return in, eris.Errorf("unknown weight unit %q", synthWeightUnit)
		}
		in.UserWeight = &model.WeightValue{Amount: synthWeight, Unit: unit}
	}

	return in, nil
}

func init() {
	synthesizeCmd.Flags().StringVar(&synthBarcodePath, "barcode-photo", "", "path to barcode photo")
	synthesizeCmd.Flags().StringVar(&synthLabelPath, "label-photo", "", "path to label photo")
	synthesizeCmd.Flags().StringVar(&synthPackagePath, "package-photo", "", "path to package photo")
	synthesizeCmd.Flags().StringVar(&synthBoxPath, "box-photo", "", "path to case/box photo")
	synthesizeCmd.Flags().Float64Var(&synthWeight, "weight", 0, "measured unit weight")
	synthesizeCmd.Flags().StringVar(&synthWeightUnit, "weight-unit", "g", "weight unit: g, kg, or ml")
	rootCmd.AddCommand(synthesizeCmd)
}
