package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xaenox/flatprice-bot/internal/catalog"
	"github.com/xaenox/flatprice-bot/internal/models"
	"github.com/xaenox/flatprice-bot/internal/pricing"
	"github.com/xaenox/flatprice-bot/internal/validate"
)

func loadArtifact(cmd *cobra.Command) (*pricing.Artifact, error) {
	path, _ := cmd.Flags().GetString("artifact")
	return pricing.LoadArtifact(path)
}

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check that the artifact loads and covers every district",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			art, err := loadArtifact(cmd)
			if err != nil {
				fmt.Fprintf(out, "%s %v\n", color.RedString("✗"), err)
				return err
			}

			fmt.Fprintf(out, "%s artifact %s\n", color.GreenString("✓"), color.CyanString(art.Version))
			fmt.Fprintf(out, "  model:    %s\n", scorerKind(art.Scorer))
			fmt.Fprintf(out, "  features: %d\n", len(art.FeaturesOrder))
			if art.MAPE != nil {
				fmt.Fprintf(out, "  mape:     %.2f%%\n", *art.MAPE*100)
			}

			var missing []string
			for _, e := range catalog.Districts().Entries() {
				if _, ok := art.Districts[e.Code]; !ok {
					missing = append(missing, e.Label)
				}
			}
			if len(missing) > 0 {
				fmt.Fprintf(out, "%s districts without a model label: %s\n",
					color.YellowString("!"), strings.Join(missing, ", "))
				return fmt.Errorf("%d districts are not covered", len(missing))
			}
			return nil
		},
	}
}

const maxCandidates = 5

func newPredictCmd() *cobra.Command {
	var (
		district     string
		area         string
		aptType      int
		currentFloor int
		totalFloors  int
		keyRate      float64
		deviation    float64
	)

	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Estimate the price of one apartment",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			art, err := loadArtifact(cmd)
			if err != nil {
				return err
			}

			code, err := resolveDistrict(district)
			if err != nil {
				return err
			}
			areaValue, err := validate.Area(area)
			if err != nil {
				return err
			}
			apt := models.Apartment{
				DistrictCode:      code,
				ApartmentTypeCode: aptType,
				Area:              areaValue,
				CurrentFloor:      currentFloor,
				TotalFloors:       totalFloors,
			}
			if err := validate.Apartment(apt, catalog.Districts(), catalog.ApartmentTypes()); err != nil {
				return err
			}

			est := pricing.NewEstimator(art, pricing.Options{KeyRate: keyRate, DeviationFraction: deviation}, zap.NewNop())
			quote, err := est.Estimate(apt)
			if err != nil {
				return err
			}

			label, _ := catalog.Districts().Label(code)
			fmt.Fprintf(out, "%s, %s m², floor %d/%d\n", label, strconv.FormatFloat(areaValue, 'f', -1, 64), currentFloor, totalFloors)
			fmt.Fprintf(out, "%s ₽ ± %s ₽\n", color.GreenString(quote.PriceText()), quote.DeviationText())
			return nil
		},
	}

	cmd.Flags().StringVarP(&district, "district", "d", "", "district code or name")
	cmd.Flags().StringVar(&area, "area", "", "area in square metres")
	cmd.Flags().IntVarP(&aptType, "type", "t", 0, "apartment type code (0 studio, 1-4 rooms)")
	cmd.Flags().IntVar(&currentFloor, "floor", 0, "floor of the apartment")
	cmd.Flags().IntVar(&totalFloors, "floors", 0, "number of floors in the building")
	cmd.Flags().Float64Var(&keyRate, "key-rate", 21, "central bank key rate")
	cmd.Flags().Float64Var(&deviation, "deviation", pricing.DefaultDeviationFraction, "deviation band as a fraction of the price")
	_ = cmd.MarkFlagRequired("district")
	_ = cmd.MarkFlagRequired("area")
	_ = cmd.MarkFlagRequired("floor")
	_ = cmd.MarkFlagRequired("floors")
	return cmd
}

// resolveDistrict accepts a numeric code, an exact label or a fragment that
// fuzzy-matches exactly one label.
func resolveDistrict(input string) (int, error) {
	districts := catalog.Districts()
	if code, err := strconv.Atoi(input); err == nil {
		if _, ok := districts.Label(code); ok {
			return code, nil
		}
		return 0, fmt.Errorf("unknown district code %d", code)
	}
	if code, ok := districts.Code(input); ok {
		return code, nil
	}
	switch candidates := districts.Candidates(input); len(candidates) {
	case 0:
		return 0, fmt.Errorf("unknown district %q", input)
	case 1:
		code, _ := districts.Code(candidates[0])
		return code, nil
	default:
		if len(candidates) > maxCandidates {
			candidates = candidates[:maxCandidates]
		}
		return 0, fmt.Errorf("district %q is ambiguous, did you mean: %s", input, strings.Join(candidates, ", "))
	}
}

func newDistrictsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "districts",
		Short: "List district and apartment type codes",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			art, err := loadArtifact(cmd)
			if err != nil {
				art = nil
			}

			fmt.Fprintln(out, color.CyanString("Districts"))
			for _, e := range catalog.Districts().Entries() {
				line := fmt.Sprintf("  %2d  %s", e.Code, e.Label)
				if art != nil {
					if modelLabel, ok := art.Districts[e.Code]; ok {
						line += color.HiBlackString("  (" + modelLabel + ")")
					}
				}
				fmt.Fprintln(out, line)
			}

			fmt.Fprintln(out, color.CyanString("Apartment types"))
			for _, e := range catalog.ApartmentTypes().Entries() {
				fmt.Fprintf(out, "  %2d  %s\n", e.Code, e.Label)
			}
			return nil
		},
	}
}

func scorerKind(s pricing.Scorer) string {
	switch s.(type) {
	case *pricing.LinearModel:
		return "linear"
	case *pricing.TreeEnsemble:
		return "xgboost"
	default:
		return fmt.Sprintf("%T", s)
	}
}
